package htmlreport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/defectlink/defectlink/internal/defect"
	"github.com/defectlink/defectlink/internal/refstream"
)

func TestDocumentSkeleton(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.DocOpen("My Report"); err != nil {
		t.Fatal(err)
	}
	if err := w.DocClose(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"<title>My Report</title>", "<pre style=", "</html>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestWriteLinkedDefect(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	def := defect.Defect{
		Checker: "NULL_DEREF",
		Events: []defect.Event{
			{FileName: "src/a.c", Line: 10, Column: 5, Event: "error", Msg: "dereferencing NULL"},
			{FileName: "src/a.c", Line: 3, Event: "note", Msg: "assigned here"},
		},
	}

	err := w.WriteLinkedDefect(&def, 42, "https://tracker.example.com/defect/", "https://docs.example.com/")
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"Error: <b>NULL_DEREF</b>",
		"https://tracker.example.com/defect/42",
		"(CID 42)",
		"https://docs.example.com/NULL_DEREF",
		"src/a.c:10:5: dereferencing NULL",
		"src/a.c:3: assigned here",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestWriteLinkedDefectWithoutURLBases(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	def := defect.Defect{
		Checker: "X",
		Events:  []defect.Event{{FileName: "f.c", Line: 1, Event: "error", Msg: "m"}},
	}
	if err := w.WriteLinkedDefect(&def, 7, "", ""); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(buf.String(), "<a href") {
		t.Errorf("no links expected without URL bases:\n%s", buf.String())
	}
}

func TestMessagesAreEscaped(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	def := defect.Defect{
		Checker: "FORMAT_STRING",
		Events: []defect.Event{
			{FileName: "f.c", Line: 1, Event: "error", Msg: `use of "<tainted>" & 'raw' input`},
		},
	}
	if err := w.WriteLinkedDefect(&def, 1, "", ""); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "<tainted>") {
		t.Errorf("message not escaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;tainted&gt;") {
		t.Errorf("escaped form missing:\n%s", out)
	}
}

func TestWriteBareRef(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.InitSection("Unmatched"); err != nil {
		t.Fatal(err)
	}
	row := refstream.Row{ID: 9, Checker: "DEAD_CODE", FileName: "old.c"}
	if err := w.WriteBareRef(row, "https://tracker.example.com/defect/", ""); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"<h1>Unmatched</h1>",
		"Error: <b>DEAD_CODE</b>",
		"https://tracker.example.com/defect/9",
		"old.c: [ <i>Sorry, no more details available...</i> ]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}
