// Package digest computes content fingerprints for template and output
// packages. Both SHA-256 and BLAKE3 are reported so fingerprints can be
// checked against either common tooling or fast local hashing.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/zeebo/blake3"

	"github.com/autolectio/lectio/core/errors"
)

// Result holds the hex-encoded digests of one blob.
type Result struct {
	SHA256 string
	BLAKE3 string
}

// Sum computes both digests over data.
func Sum(data []byte) Result {
	sha := sha256.Sum256(data)
	b3 := blake3.Sum256(data)
	return Result{
		SHA256: hex.EncodeToString(sha[:]),
		BLAKE3: hex.EncodeToString(b3[:]),
	}
}

// SumFile computes both digests over the file at path.
func SumFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.NewIO("read", path, err)
	}
	return Sum(data), nil
}
