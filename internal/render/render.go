// Package render produces the metadata documents written into import
// items. The pipeline depends only on the Renderer interface and treats
// the output as opaque bytes.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"

	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/internal/person"
	"github.com/uvalib/dspace-util-sub000/internal/publication"
)

// Renderer produces the dublin_core.xml document for each entity kind.
type Renderer interface {
	OrgUnit(o *orgunit.Import) ([]byte, error)
	Person(p *person.Import) ([]byte, error)
	Publication(it *publication.Item) ([]byte, error)
}

// dcValue is one metadata value in the rendered document.
type dcValue struct {
	Element   string
	Qualifier string
	Text      string
}

const dcSkeleton = `<?xml version="1.0" encoding="UTF-8"?>
<dublin_core schema="dc">
{{- range .}}
	<dcvalue element="{{.Element}}"{{with .Qualifier}} qualifier="{{.}}"{{end}}>{{esc .Text}}</dcvalue>
{{- end}}
</dublin_core>
`

var dcTemplate = template.Must(
	template.New("dublin_core").Funcs(template.FuncMap{"esc": escapeXML}).Parse(dcSkeleton))

// DC is the default Dublin Core renderer.
type DC struct{}

func NewDC() *DC { return &DC{} }

func (r *DC) OrgUnit(o *orgunit.Import) ([]byte, error) {
	b := newDoc()
	b.add("title", "", o.Title)
	for _, d := range o.Description {
		b.add("description", "", d)
	}
	return b.render()
}

func (r *DC) Person(p *person.Import) ([]byte, error) {
	b := newDoc()
	b.add("title", "", p.Display())
	b.add("identifier", "other", p.ComputingID)
	b.add("identifier", "orcid", p.ORCID)
	b.add("description", "", p.Department)
	b.add("description", "", p.Institution)
	return b.render()
}

func (r *DC) Publication(it *publication.Item) ([]byte, error) {
	b := newDoc()
	w := it.Work

	b.add("title", "", w.Title)
	for _, name := range it.AuthorDisplays() {
		b.add("contributor", "author", name)
	}
	for _, name := range it.ContributorDisplays() {
		b.add("contributor", "advisor", name)
	}
	b.add("description", "abstract", w.Abstract)
	for _, kw := range w.Keywords {
		b.add("subject", "", kw)
	}
	b.add("language", "iso", w.Language)
	b.add("publisher", "", w.Publisher)
	b.add("date", "issued", w.PublishedDate)
	b.add("type", "", w.Doctype)
	b.add("description", "degree", w.Degree)
	b.add("description", "", w.Notes)
	for _, s := range w.Sponsors {
		b.add("description", "sponsorship", s)
	}
	b.add("identifier", "other", it.ID)
	b.add("identifier", "orcid", it.DepositorORCID)
	b.add("source", "", w.Source)
	b.add("relation", "uri", w.RelatedURL)
	b.add("rights", "", it.Rights.Name)
	b.add("rights", "uri", it.Rights.URL)
	if it.Access.Term != "" && it.Access.Term != "open" {
		b.add("rights", "access", it.Access.Term)
	}
	if it.Access.EmbargoActive {
		b.add("date", "available", it.Access.ReleaseDate)
	}
	return b.render()
}

// doc collects values and runs the skeleton once.
type doc struct {
	values []dcValue
}

func newDoc() *doc { return &doc{} }

// add appends one value, dropping blanks so the document carries only
// populated fields.
func (d *doc) add(element, qualifier, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	d.values = append(d.values, dcValue{Element: element, Qualifier: qualifier, Text: text})
}

func (d *doc) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := dcTemplate.Execute(&buf, d.values); err != nil {
		return nil, fmt.Errorf("render dublin core: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeXML(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
