// Package chunk packs reading text into display-sized pieces and builds the
// refrain/verse alternation for responsorial psalms. Everything here is pure:
// no document model, no I/O.
package chunk

import "strings"

// Default character bounds for one slide of body text.
const (
	DefaultTargetMin = 100
	DefaultTargetMax = 140
)

// Normalize collapses all line breaks and runs of whitespace to single
// spaces and trims the ends. Chunk lengths are always measured on
// normalized text.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Pack merges candidate units into chunks targeting [targetMin, targetMax]
// characters. Units are consumed in order and never split or reordered:
// an accumulator grows while it is still under targetMin and the next unit
// fits under targetMax; once the accumulator reaches targetMin, or the next
// unit would overflow targetMax, the accumulator is flushed. A single unit
// longer than targetMax is emitted as its own oversized chunk unmodified.
//
// Joining the output with single spaces reproduces the normalized,
// space-joined input: nothing is dropped or duplicated. Packing a sequence
// that already satisfies the size policy (every chunk within bounds except
// possibly the last) returns it unchanged.
func Pack(units []string, targetMin, targetMax int) []string {
	if targetMin <= 0 {
		targetMin = DefaultTargetMin
	}
	if targetMax < targetMin {
		targetMax = targetMin
	}

	var out []string
	acc := ""
	for _, u := range units {
		u = Normalize(u)
		if u == "" {
			continue
		}
		if acc == "" {
			acc = u
			continue
		}
		if len(acc) < targetMin && len(acc)+1+len(u) <= targetMax {
			acc = acc + " " + u
			continue
		}
		out = append(out, acc)
		acc = u
	}
	if acc != "" {
		out = append(out, acc)
	}
	return out
}

// Oversized returns the indices of chunks longer than targetMax. Oversized
// chunks are accepted output, not an error; callers use this for warnings.
func Oversized(chunks []string, targetMax int) []int {
	var idx []int
	for i, c := range chunks {
		if len(c) > targetMax {
			idx = append(idx, i)
		}
	}
	return idx
}
