package pptx

import (
	"archive/zip"
	"bytes"
	"time"

	"github.com/autolectio/lectio/core/errors"
	"github.com/autolectio/lectio/core/xml"
	"github.com/autolectio/lectio/internal/fileutil"
)

// lastModifiedBy is stamped into docProps/core.xml on save.
const lastModifiedBy = "lectio"

// Bytes serializes the package back into zip form. Parts the engine parsed
// are re-serialized with their mutations; everything else is written out
// exactly as read.
func (p *Package) Bytes() ([]byte, error) {
	p.parts[contentTypesPart] = p.contentTypes.Serialize()
	p.parts[presentationPart] = p.presentation.Serialize()
	p.parts[presentationRels] = p.rels.Serialize()
	for _, s := range p.slides {
		p.parts[s.PartName] = s.doc.Serialize()
	}
	if err := p.touchCoreProps(time.Now().UTC()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range p.order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, errors.Wrapf(err, "add part %s", name)
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			return nil, errors.Wrapf(err, "write part %s", name)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "finish package")
	}
	return buf.Bytes(), nil
}

// touchCoreProps updates the modified timestamp and author in
// docProps/core.xml. A template without core properties is left alone.
func (p *Package) touchCoreProps(now time.Time) error {
	raw, ok := p.parts[corePropsPart]
	if !ok {
		return nil
	}
	doc, err := xml.Parse(raw)
	if err != nil {
		return errors.Wrap(err, "parse core properties")
	}
	root := doc.Root()
	if el := root.FindFirst("modified"); el != nil {
		el.SetText(now.Format("2006-01-02T15:04:05Z"))
	}
	if el := root.FindFirst("lastModifiedBy"); el != nil {
		el.SetText(lastModifiedBy)
	}
	p.parts[corePropsPart] = doc.Serialize()
	return nil
}

// Save writes the package to path atomically: the zip is built in memory
// and lands on disk via a temp-file rename, so a failed run never leaves a
// partial file at the output path.
func (p *Package) Save(path string) error {
	data, err := p.Bytes()
	if err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
