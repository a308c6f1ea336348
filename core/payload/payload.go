// Package payload defines the reading payload the render pipeline consumes
// and its JSON serialization. Payloads load from plain JSON or xz-compressed
// JSON, detected by magic bytes rather than file extension.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/autolectio/lectio/core/errors"
	"github.com/autolectio/lectio/core/tokens"
	"github.com/autolectio/lectio/internal/fileutil"
)

// xzMagic identifies the xz container format.
var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// Payload carries everything one render needs. Placeholders maps token
// literals to full replacement text; Chunks, when present for a token,
// carries its pre-split slide sequence and takes precedence over the
// Placeholders entry for that token.
type Payload struct {
	Meta         map[string]string   `json:"meta,omitempty"`
	Placeholders map[string]string   `json:"placeholders"`
	Chunks       map[string][]string `json:"chunks,omitempty"`
}

// requiredKeys are the tokens every payload must carry. The second reading
// is optional (ferial weekdays have none) and the psalm dual-seed tokens
// are derived at assembly time.
var requiredKeys = []string{
	tokens.LiturgicalDay,
	tokens.FirstReadingRef,
	tokens.FirstReadingTxt,
	tokens.PsalmRef,
	tokens.PsalmTxt,
	tokens.AcclamationTxt,
	tokens.GospelRef,
	tokens.GospelTxt,
}

// Load reads a payload from path, decompressing xz transparently.
func Load(path string) (*Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if bytes.HasPrefix(raw, xzMagic) {
		r, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "open xz payload %s", path)
		}
		raw, err = io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "decompress payload %s", path)
		}
	}
	p, err := Parse(raw)
	if err != nil {
		if me, ok := err.(*errors.MalformedPayloadError); ok {
			me.Path = path
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes and validates payload JSON.
func Parse(raw []byte) (*Payload, error) {
	var p Payload
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, errors.NewMalformedPayload("", "", "invalid JSON: "+err.Error())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the payload invariants: required tokens present and
// non-empty, token names drawn from the lexicon, and every chunked token
// backed by a Placeholders entry.
func (p *Payload) Validate() error {
	if p.Placeholders == nil {
		return errors.NewMalformedPayload("", "placeholders", "missing placeholders object")
	}
	for tok := range p.Placeholders {
		if !tokens.IsKnown(tok) {
			return errors.NewMalformedPayload("", tok, "unknown placeholder token")
		}
	}
	for _, key := range requiredKeys {
		if v, ok := p.Placeholders[key]; !ok || v == "" {
			return errors.NewMalformedPayload("", key, "required placeholder missing or empty")
		}
	}
	for tok, chunks := range p.Chunks {
		if !tokens.IsChunkable(tok) {
			return errors.NewMalformedPayload("", tok, "chunks given for non-chunkable token")
		}
		if _, ok := p.Placeholders[tok]; !ok {
			return errors.NewMalformedPayload("", tok, "chunks given without placeholder entry")
		}
		if len(chunks) == 0 {
			return errors.NewMalformedPayload("", tok, "empty chunk list")
		}
		for i, c := range chunks {
			if c == "" {
				return errors.NewMalformedPayload("", tok, fmt.Sprintf("empty chunk at index %d", i))
			}
		}
	}
	return nil
}

// HasSecondReading reports whether the payload carries a second reading.
func (p *Payload) HasSecondReading() bool {
	return p.Placeholders[tokens.SecondReadingTxt] != ""
}

// Contents returns the slide sequence for a chunkable token: the explicit
// chunk list when present, otherwise the single placeholder value. The
// second return is false when the token has no content at all.
func (p *Payload) Contents(tok string) ([]string, bool) {
	if chunks, ok := p.Chunks[tok]; ok && len(chunks) > 0 {
		return chunks, true
	}
	if v, ok := p.Placeholders[tok]; ok && v != "" {
		return []string{v}, true
	}
	return nil, false
}

// Value returns the placeholder text for a token, empty when absent.
func (p *Payload) Value(tok string) string {
	return p.Placeholders[tok]
}

// Write serializes the payload as indented JSON, xz-compressed when
// compress is set, and writes it atomically.
func (p *Payload) Write(path string, compress bool) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode payload")
	}
	data = append(data, '\n')
	if compress {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return errors.Wrap(err, "open xz writer")
		}
		if _, err := w.Write(data); err != nil {
			return errors.Wrap(err, "compress payload")
		}
		if err := w.Close(); err != nil {
			return errors.Wrap(err, "finish xz stream")
		}
		data = buf.Bytes()
	}
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
