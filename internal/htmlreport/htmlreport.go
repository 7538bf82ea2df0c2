// Package htmlreport renders correlated defects as a self-contained HTML
// document: a body of augmented defect blocks, optionally followed by named
// sections (for references that matched no decoded defect). All dynamic text
// is escaped by html/template.
package htmlreport

import (
	"fmt"
	"html/template"
	"io"

	"github.com/defectlink/defectlink/internal/defect"
	"github.com/defectlink/defectlink/internal/refstream"
)

const preStyle = "white-space: pre-wrap;"

var docTmpl = template.Must(template.New("doc").Parse(
	`{{define "open"}}<?xml version='1.0' encoding='utf-8'?>
<!DOCTYPE html PUBLIC '-//W3C//DTD XHTML 1.1//EN' 'http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd'>
<html xmlns='http://www.w3.org/1999/xhtml'>
<head><title>{{.Title}}</title></head>
<body>
<pre style='{{.PreStyle}}'>
{{end}}{{define "close"}}</pre>
</body>
</html>
{{end}}{{define "section"}}</pre>
<h1>{{.Name}}</h1>
<pre style='{{.PreStyle}}'>
{{end}}{{define "defect"}}Error: <b>{{.Checker}}</b>{{if .DefURL}} <a href='{{.DefURL}}'>[ Go to <b>Defect Tracker</b> (CID {{.ID}}) ]</a>{{end}}{{if .ChkURL}} <a href='{{.ChkURL}}'>[ Go to <b>Documentation</b> ]</a>{{end}}
{{range .Events}}{{.FileName}}:{{.Line}}:{{if gt .Column 0}}{{.Column}}:{{end}} {{.Msg}}
{{end}}
{{end}}{{define "bareref"}}Error: <b>{{.Checker}}</b>{{if .DefURL}} <a href='{{.DefURL}}'>[ Go to <b>Defect Tracker</b> (CID {{.ID}}) ]</a>{{end}}{{if .ChkURL}} <a href='{{.ChkURL}}'>[ Go to <b>Documentation</b> ]</a>{{end}}
{{if .FileName}}{{.FileName}}: [ <i>Sorry, no more details available...</i> ]
{{end}}
{{end}}`))

// Writer emits one HTML document. DocOpen must be called first and DocClose
// last; everything in between appears in input order.
type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) DocOpen(title string) error {
	return docTmpl.ExecuteTemplate(w.out, "open", struct {
		Title    string
		PreStyle template.CSS
	}{title, preStyle})
}

func (w *Writer) DocClose() error {
	return docTmpl.ExecuteTemplate(w.out, "close", nil)
}

// InitSection closes the current block and opens a named section for the
// entries that follow.
func (w *Writer) InitSection(name string) error {
	return docTmpl.ExecuteTemplate(w.out, "section", struct {
		Name     string
		PreStyle template.CSS
	}{name, preStyle})
}

type defectBlock struct {
	Checker string
	ID      int
	DefURL  template.URL
	ChkURL  template.URL
	Events  []defect.Event
}

// WriteLinkedDefect renders one matched defect augmented with the reference
// id and the optional navigation links. Empty URL bases suppress the
// corresponding link.
func (w *Writer) WriteLinkedDefect(def *defect.Defect, id int, defURLBase, chkURLBase string) error {
	return docTmpl.ExecuteTemplate(w.out, "defect", defectBlock{
		Checker: def.Checker,
		ID:      id,
		DefURL:  refURL(defURLBase, fmt.Sprintf("%d", id)),
		ChkURL:  refURL(chkURLBase, def.Checker),
		Events:  def.Events,
	})
}

type barerefBlock struct {
	Checker  string
	ID       int
	FileName string
	DefURL   template.URL
	ChkURL   template.URL
}

// WriteBareRef renders a reference for which no decoded defect remained;
// only the fields of the row itself are available.
func (w *Writer) WriteBareRef(row refstream.Row, defURLBase, chkURLBase string) error {
	return docTmpl.ExecuteTemplate(w.out, "bareref", barerefBlock{
		Checker:  row.Checker,
		ID:       row.ID,
		FileName: row.FileName,
		DefURL:   refURL(defURLBase, fmt.Sprintf("%d", row.ID)),
		ChkURL:   refURL(chkURLBase, row.Checker),
	})
}

// refURL appends the reference to the base; the bases come from trusted
// configuration, not from the scanned input.
func refURL(base, ref string) template.URL {
	if base == "" {
		return ""
	}
	return template.URL(base + ref)
}
