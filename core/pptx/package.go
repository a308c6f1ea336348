// Package pptx models a PowerPoint package just deeply enough for slide
// assembly: the zip container, the presentation part's slide order, the
// relationship and content-type bookkeeping, and slide duplication with
// freshly minted identities. Every part the engine does not understand is
// carried byte-for-byte from template to output.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/autolectio/lectio/core/errors"
	"github.com/autolectio/lectio/core/xml"
)

const (
	contentTypesPart = "[Content_Types].xml"
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
	corePropsPart    = "docProps/core.xml"

	slideContentType = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	slideRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Slide is one slide part with its structural identity.
type Slide struct {
	PartName string // zip entry name, e.g. ppt/slides/slide3.xml
	RelID    string // relationship id in the presentation part, e.g. rId8
	SldID    int    // p:sldId id attribute

	doc *xml.Document
}

// Doc returns the slide's parsed XML document.
func (s *Slide) Doc() *xml.Document {
	return s.doc
}

func (s *Slide) relsPartName() string {
	base := strings.TrimPrefix(s.PartName, "ppt/slides/")
	return "ppt/slides/_rels/" + base + ".rels"
}

// Package is an opened pptx template.
type Package struct {
	parts map[string][]byte
	order []string // original zip entry order; minted parts appended

	presentation *xml.Document
	rels         *xml.Document
	contentTypes *xml.Document

	slides []*Slide // sldIdLst order, authoritative
}

// Open reads and parses a pptx package from disk.
func Open(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewMissingTemplate(path, "", err)
	}
	p, err := OpenBytes(data)
	if err != nil {
		if mt, ok := err.(*errors.MissingTemplateError); ok {
			mt.Path = path
		}
		return nil, err
	}
	return p, nil
}

// OpenBytes parses a pptx package held in memory.
func OpenBytes(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.NewMissingTemplate("", "not a zip archive", err)
	}

	p := &Package{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.NewMissingTemplate("", "unreadable part "+f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.NewMissingTemplate("", "unreadable part "+f.Name, err)
		}
		p.parts[f.Name] = raw
		p.order = append(p.order, f.Name)
	}

	if err := p.parseStructure(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Package) parseStructure() error {
	for _, name := range []string{contentTypesPart, presentationPart, presentationRels} {
		if _, ok := p.parts[name]; !ok {
			return errors.NewMissingTemplate("", "missing part "+name, nil)
		}
	}

	var err error
	if p.contentTypes, err = xml.Parse(p.parts[contentTypesPart]); err != nil {
		return errors.NewMissingTemplate("", "bad "+contentTypesPart, err)
	}
	if p.presentation, err = xml.Parse(p.parts[presentationPart]); err != nil {
		return errors.NewMissingTemplate("", "bad "+presentationPart, err)
	}
	if p.rels, err = xml.Parse(p.parts[presentationRels]); err != nil {
		return errors.NewMissingTemplate("", "bad "+presentationRels, err)
	}

	// rId -> slide part name, from the presentation's relationship part.
	targets := make(map[string]string)
	for _, rel := range p.rels.Root().FindAll("Relationship") {
		if rel.Attr("Type") != slideRelType {
			continue
		}
		targets[rel.Attr("Id")] = resolvePartName(rel.Attr("Target"))
	}

	lst := p.presentation.Root().FindFirst("sldIdLst")
	if lst == nil {
		return errors.NewMissingTemplate("", "presentation has no sldIdLst", nil)
	}
	for _, sldID := range lst.FindAll("sldId") {
		rid := sldID.AttrNS("r", "id")
		partName, ok := targets[rid]
		if !ok {
			return errors.NewMissingTemplate("", "sldId references unknown relationship "+rid, nil)
		}
		raw, ok := p.parts[partName]
		if !ok {
			return errors.NewMissingTemplate("", "missing slide part "+partName, nil)
		}
		doc, err := xml.Parse(raw)
		if err != nil {
			return errors.NewMissingTemplate("", "bad slide part "+partName, err)
		}
		id, err := strconv.Atoi(sldID.Attr("id"))
		if err != nil {
			return errors.NewMissingTemplate("", "non-numeric sldId on "+partName, err)
		}
		p.slides = append(p.slides, &Slide{
			PartName: partName,
			RelID:    rid,
			SldID:    id,
			doc:      doc,
		})
	}

	if len(p.slides) == 0 {
		return errors.NewMissingTemplate("", "template holds no slides", nil)
	}
	return nil
}

// resolvePartName maps a relationship target, relative to ppt/, onto a zip
// entry name.
func resolvePartName(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return "ppt/" + target
}

// Slides returns the slides in presentation order. The returned slice is
// owned by the package; Duplicate updates it in place.
func (p *Package) Slides() []*Slide {
	return p.slides
}

// SlideIndex returns the position of s in presentation order, -1 if s does
// not belong to this package.
func (p *Package) SlideIndex(s *Slide) int {
	for i, cur := range p.slides {
		if cur == s {
			return i
		}
	}
	return -1
}

// Part returns the raw bytes of a package part.
func (p *Package) Part(name string) ([]byte, bool) {
	raw, ok := p.parts[name]
	return raw, ok
}

// Duplicate deep-copies seed, mints a new identity for the copy, wires it
// into the relationship and content-type parts, and splices it into the
// slide order immediately after position insertAfter.
func (p *Package) Duplicate(seed *Slide, insertAfter int) (*Slide, error) {
	if insertAfter < 0 || insertAfter >= len(p.slides) {
		return nil, errors.NewStructuralIntegrity("slide position", strconv.Itoa(insertAfter), "insertion point out of range")
	}

	partName := fmt.Sprintf("ppt/slides/slide%d.xml", p.nextSlideNumber())
	relID := fmt.Sprintf("rId%d", p.nextRelNumber())
	sldID := p.nextSldID()

	if _, exists := p.parts[partName]; exists {
		return nil, errors.NewStructuralIntegrity("part name", partName, "minted name already present")
	}
	for _, rel := range p.rels.Root().FindAll("Relationship") {
		if rel.Attr("Id") == relID {
			return nil, errors.NewStructuralIntegrity("relationship id", relID, "minted id already present")
		}
	}
	for _, s := range p.slides {
		if s.SldID == sldID {
			return nil, errors.NewStructuralIntegrity("slide id", strconv.Itoa(sldID), "minted id already present")
		}
	}

	// Deep copy by serializing the seed and parsing it back.
	raw := seed.doc.Serialize()
	doc, err := xml.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "copy slide %s", seed.PartName)
	}
	dup := &Slide{PartName: partName, RelID: relID, SldID: sldID, doc: doc}

	p.parts[partName] = raw
	p.order = append(p.order, partName)

	// The copy shares the seed's layout and media targets, so its
	// relationship part is carried over verbatim.
	if rels, ok := p.parts[seed.relsPartName()]; ok {
		name := dup.relsPartName()
		p.parts[name] = append([]byte(nil), rels...)
		p.order = append(p.order, name)
	}

	rel := xml.NewElement("", "Relationship")
	rel.SetAttr("", "Id", relID)
	rel.SetAttr("", "Type", slideRelType)
	rel.SetAttr("", "Target", strings.TrimPrefix(partName, "ppt/"))
	p.rels.Root().AppendChild(rel)

	override := xml.NewElement("", "Override")
	override.SetAttr("", "PartName", "/"+partName)
	override.SetAttr("", "ContentType", slideContentType)
	p.contentTypes.Root().AppendChild(override)

	after := p.slides[insertAfter]
	afterEl := p.findSldIDElement(after.RelID)
	if afterEl == nil {
		return nil, errors.NewStructuralIntegrity("slide id", after.RelID, "slide missing from sldIdLst")
	}
	el := xml.NewElement("p", "sldId")
	el.SetAttr("", "id", strconv.Itoa(sldID))
	el.SetAttr("r", "id", relID)
	xml.InsertAfter(afterEl, el)

	p.slides = append(p.slides, nil)
	copy(p.slides[insertAfter+2:], p.slides[insertAfter+1:])
	p.slides[insertAfter+1] = dup

	return dup, nil
}

func (p *Package) findSldIDElement(relID string) *xml.Node {
	lst := p.presentation.Root().FindFirst("sldIdLst")
	if lst == nil {
		return nil
	}
	for _, el := range lst.FindAll("sldId") {
		if el.AttrNS("r", "id") == relID {
			return el
		}
	}
	return nil
}

func (p *Package) nextSlideNumber() int {
	max := 0
	for name := range p.parts {
		m := slidePartPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

func (p *Package) nextRelNumber() int {
	max := 0
	for _, rel := range p.rels.Root().FindAll("Relationship") {
		id := rel.Attr("Id")
		if !strings.HasPrefix(id, "rId") {
			continue
		}
		if n, err := strconv.Atoi(id[3:]); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// Slide ids below 256 are reserved by the format.
func (p *Package) nextSldID() int {
	max := 255
	lst := p.presentation.Root().FindFirst("sldIdLst")
	if lst != nil {
		for _, el := range lst.FindAll("sldId") {
			if n, err := strconv.Atoi(el.Attr("id")); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// PartNames returns every part name in the package, sorted. The zip itself
// keeps the original entry order.
func (p *Package) PartNames() []string {
	names := make([]string, 0, len(p.parts))
	for name := range p.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
