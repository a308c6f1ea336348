// Package fileutil provides filesystem helpers shared by the CLI commands:
// atomic output writing and timestamped output naming.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/autolectio/lectio/core/errors"
)

// WriteAtomic writes data to path through a temporary file in the same
// directory followed by a rename, so a failed run never leaves a partial
// file at the final path.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIO("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewIO("create temp file", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewIO("write", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewIO("sync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewIO("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return errors.NewIO("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewIO("rename", path, err)
	}
	return nil
}

// Stamp inserts a generation timestamp before the path's extension:
// "out/misa.pptx" becomes "out/misa.20260831-093000.pptx".
func Stamp(path string, t time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".pptx"
	}
	return base + "." + t.Format("20060102-150405") + ext
}
