package parser

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/defectlink/defectlink/internal/defect"
)

func newTestSource(t *testing.T, content string) *Source {
	t.Helper()
	return NewSource("test-input.json", []byte(content), false, hclog.NewNullLogger())
}

func readAll(t *testing.T, p *Parser) []defect.Defect {
	t.Helper()
	var out []defect.Defect
	var def defect.Defect
	for p.Next(&def) {
		out = append(out, def)
	}
	return out
}

func TestFormatDetection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{
			name:    "native",
			content: `{"defects": []}`,
			want:    FormatNative,
		},
		{
			name:    "coverity",
			content: `{"issues": []}`,
			want:    FormatCoverity,
		},
		{
			name:    "sarif",
			content: `{"version": "2.1.0", "runs": []}`,
			want:    FormatSarif,
		},
		{
			name:    "shellcheck",
			content: `{"comments": []}`,
			want:    FormatShellCheck,
		},
		{
			name:    "gcc",
			content: `[{"kind": "error", "message": "oops"}]`,
			want:    FormatGCC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, tt.content)
			p := New(src)
			if got := p.InputFormat(); got != tt.want {
				t.Fatalf("expected format %q, got %q", tt.want, got)
			}
			if p.HasError() {
				t.Fatalf("unexpected error for %q", tt.name)
			}
		})
	}
}

func TestUnknownFormatIsFatal(t *testing.T) {
	src := newTestSource(t, `{"records": [{"a": 1}]}`)
	p := New(src)

	if got := p.InputFormat(); got != FormatUnknown {
		t.Fatalf("expected unknown format, got %q", got)
	}
	if !p.HasError() {
		t.Fatal("expected a fatal unknown-format error")
	}
	var def defect.Defect
	if p.Next(&def) {
		t.Fatal("expected no defects from an unrecognized document")
	}
}

func TestMalformedDocumentIsFatal(t *testing.T) {
	src := newTestSource(t, "{\n  \"defects\": [,]\n}")
	p := New(src)

	if !p.HasError() {
		t.Fatal("expected a fatal parse error")
	}
	if got := len(readAll(t, p)); got != 0 {
		t.Fatalf("expected zero defects, got %d", got)
	}
}

func TestEmptyDocumentYieldsNothing(t *testing.T) {
	for _, content := range []string{`[]`, `{}`} {
		src := newTestSource(t, content)
		p := New(src)
		if p.HasError() {
			t.Fatalf("empty document %q must not be an error", content)
		}
		if got := len(readAll(t, p)); got != 0 {
			t.Fatalf("expected zero defects for %q, got %d", content, got)
		}
	}
}

const nativeReport = `{
  "scan": {
    "analyzer": "cppcheck",
    "analyzer-version": "2.9"
  },
  "defects": [
    {
      "checker": "NULL_DEREF",
      "cwe": 476,
      "key_event_idx": 1,
      "events": [
        {"file_name": "src/a.c", "line": 3, "event": "assignment", "message": "p = NULL", "verbosity_level": 1},
        {"file_name": "src/a.c", "line": 10, "column": 5, "event": "error", "message": "dereferencing NULL pointer"}
      ]
    }
  ]
}`

func TestNativeDecoder(t *testing.T) {
	src := newTestSource(t, nativeReport)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 1 {
		t.Fatalf("expected 1 defect, got %d", len(defs))
	}
	def := defs[0]
	if def.Checker != "NULL_DEREF" {
		t.Errorf("unexpected checker %q", def.Checker)
	}
	if def.CWE != 476 {
		t.Errorf("unexpected CWE %d", def.CWE)
	}
	if len(def.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(def.Events))
	}
	key := def.KeyEvent()
	if key.Line != 10 || key.Event != "error" {
		t.Errorf("key_event_idx not honored: %+v", key)
	}
	if p.HasError() {
		t.Error("unexpected decode error")
	}

	props := p.ScanProps()
	if props["analyzer"] != "cppcheck" || props["analyzer-version"] != "2.9" {
		t.Errorf("scan properties not read: %v", props)
	}
}

func TestNativeDecoderSkipsMalformedRecord(t *testing.T) {
	// one record without a checker in between two good ones
	const content = `{
  "defects": [
    {"checker": "A", "events": [{"file_name": "f.c", "line": 1, "event": "error", "message": "first"}]},
    {"events": [{"file_name": "g.c", "line": 2, "event": "error", "message": "broken"}]},
    {"checker": "B", "events": [{"file_name": "h.c", "line": 3, "event": "error", "message": "second"}]}
  ]
}`
	src := newTestSource(t, content)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 2 {
		t.Fatalf("expected 2 defects, got %d", len(defs))
	}
	if defs[0].Checker != "A" || defs[1].Checker != "B" {
		t.Errorf("wrong defects survived: %q, %q", defs[0].Checker, defs[1].Checker)
	}
	if !p.HasError() {
		t.Error("the skipped record must be reflected by HasError")
	}
}

const coverityReport = `{
  "issues": [
    {
      "checkerName": "RESOURCE_LEAK",
      "checkerProperties": {"cweCategory": "772"},
      "events": [
        {"eventTag": "alloc_fn", "filePathname": "src/leak.c", "lineNumber": 5, "eventDescription": "allocation"},
        {"eventTag": "leaked_storage", "filePathname": "src/leak.c", "lineNumber": 9, "columnNumber": 3, "eventDescription": "leaking it", "main": true}
      ]
    }
  ]
}`

func TestCoverityDecoder(t *testing.T) {
	src := newTestSource(t, coverityReport)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 1 {
		t.Fatalf("expected 1 defect, got %d", len(defs))
	}
	def := defs[0]
	if def.Checker != "RESOURCE_LEAK" {
		t.Errorf("unexpected checker %q", def.Checker)
	}
	if def.CWE != 772 {
		t.Errorf("cweCategory not decoded: %d", def.CWE)
	}
	if def.KeyEventIdx != 1 {
		t.Errorf("main event not selected as the key event: %d", def.KeyEventIdx)
	}
	if key := def.KeyEvent(); key.Event != "leaked_storage" || key.Column != 3 {
		t.Errorf("unexpected key event: %+v", key)
	}
}

const gccReport = `[
  {
    "kind": "warning",
    "message": "format not a string literal",
    "option": "-Wformat",
    "locations": [{"caret": {"file": "src/log.c", "line": 12, "byte-column": 9}}],
    "metadata": {"cwe": 134},
    "children": [
      {"kind": "note", "message": "called from here", "locations": [{"caret": {"file": "src/main.c", "line": 40}}]}
    ]
  }
]`

func TestGccDecoder(t *testing.T) {
	src := newTestSource(t, gccReport)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 1 {
		t.Fatalf("expected 1 defect, got %d", len(defs))
	}
	def := defs[0]
	if def.Checker != "COMPILER_WARNING" {
		t.Errorf("unexpected checker %q", def.Checker)
	}
	if def.CWE != 134 {
		t.Errorf("metadata.cwe not decoded: %d", def.CWE)
	}
	if len(def.Events) != 2 {
		t.Fatalf("children not folded into events: %d", len(def.Events))
	}
	key := def.KeyEvent()
	if !strings.HasSuffix(key.Msg, " [-Wformat]") {
		t.Errorf("option not appended to message: %q", key.Msg)
	}
	if key.FileName != "src/log.c" || key.Line != 12 || key.Column != 9 {
		t.Errorf("caret location not decoded: %+v", key)
	}
	if note := def.Events[1]; note.Event != "note" || note.FileName != "src/main.c" {
		t.Errorf("unexpected secondary event: %+v", note)
	}
}

func TestGccDecoderLocationDefaults(t *testing.T) {
	src := newTestSource(t, `[{"kind": "error", "message": "no location"}]`)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 1 {
		t.Fatalf("expected 1 defect, got %d", len(defs))
	}
	key := defs[0].KeyEvent()
	if key.FileName != defect.UnknownFileName {
		t.Errorf("expected the unknown-file sentinel, got %q", key.FileName)
	}
	if key.Line != 0 || key.Column != 0 {
		t.Errorf("expected zero location, got %d:%d", key.Line, key.Column)
	}
}

func TestGccAnalyzerCheckerRewrite(t *testing.T) {
	const content = `[
  {
    "kind": "warning",
    "message": "leak of ‘p’",
    "option": "-Wanalyzer-malloc-leak",
    "locations": [{"caret": {"file": "src/leak.c", "line": 7}}]
  }
]`
	src := newTestSource(t, content)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 1 {
		t.Fatalf("expected 1 defect, got %d", len(defs))
	}
	if defs[0].Checker != "GCC_ANALYZER_WARNING" {
		t.Errorf("analyzer finding not reclassified: %q", defs[0].Checker)
	}
}

const shellCheckReport = `{
  "comments": [
    {
      "file": "deploy.sh",
      "line": 4,
      "byte-column": 1,
      "level": "warning",
      "code": 2034,
      "message": "VAR appears unused"
    }
  ]
}`

func TestShellCheckDecoder(t *testing.T) {
	src := newTestSource(t, shellCheckReport)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 1 {
		t.Fatalf("expected 1 defect, got %d", len(defs))
	}
	def := defs[0]
	if def.Checker != "SHELLCHECK_WARNING" {
		t.Errorf("unexpected checker %q", def.Checker)
	}
	key := def.KeyEvent()
	if key.Event != "warning" || key.FileName != "deploy.sh" || key.Line != 4 {
		t.Errorf("unexpected key event: %+v", key)
	}
	if !strings.HasSuffix(key.Msg, " [SC2034]") {
		t.Errorf("rule code not appended to message: %q", key.Msg)
	}
}

func TestNodeLevelResilience(t *testing.T) {
	// four records, the third has no level and must be skipped
	const content = `{
  "comments": [
    {"file": "a.sh", "line": 1, "level": "error", "message": "one"},
    {"file": "b.sh", "line": 2, "level": "warning", "message": "two"},
    {"file": "c.sh", "line": 3, "message": "no level"},
    {"file": "d.sh", "line": 4, "level": "note", "message": "three"}
  ]
}`
	src := newTestSource(t, content)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 3 {
		t.Fatalf("expected 3 defects, got %d", len(defs))
	}
	if !p.HasError() {
		t.Error("the recovered node must be reflected by HasError")
	}
	if last := defs[2].KeyEvent(); last.FileName != "d.sh" {
		t.Errorf("decoding did not continue past the bad record: %+v", last)
	}
}

const sarifReport = `{
  "version": "2.1.0",
  "runs": [
    {
      "tool": {
        "driver": {
          "name": "gosec",
          "version": "2.11.0",
          "informationUri": "https://github.com/securego/gosec",
          "rules": [
            {"id": "G401", "properties": {"tags": ["security", "CWE-326"]}}
          ]
        }
      },
      "results": [
        {
          "ruleId": "G401",
          "level": "error",
          "message": {"text": "Use of weak cryptographic primitive"},
          "locations": [
            {"physicalLocation": {
              "artifactLocation": {"uri": "pkg/crypto.go"},
              "region": {"startLine": 17, "startColumn": 2}
            }}
          ]
        },
        {
          "message": {"text": "result without a rule id"}
        }
      ]
    },
    {
      "tool": {"driver": {"name": "other"}},
      "results": [
        {"ruleId": "X100", "message": {"text": "second run"}}
      ]
    }
  ]
}`

func TestSarifDecoder(t *testing.T) {
	src := newTestSource(t, sarifReport)
	p := New(src)

	defs := readAll(t, p)
	if len(defs) != 2 {
		t.Fatalf("expected 2 defects across runs, got %d", len(defs))
	}

	first := defs[0]
	if first.Checker != "G401" {
		t.Errorf("rule id not used as checker: %q", first.Checker)
	}
	if first.CWE != 326 {
		t.Errorf("CWE tag not recovered from rule metadata: %d", first.CWE)
	}
	key := first.KeyEvent()
	if key.Event != "error" || key.FileName != "pkg/crypto.go" || key.Line != 17 || key.Column != 2 {
		t.Errorf("unexpected key event: %+v", key)
	}

	second := defs[1]
	if second.Checker != "X100" {
		t.Errorf("runs not flattened in order: %q", second.Checker)
	}
	if second.KeyEvent().Event != "warning" {
		t.Errorf("missing level must default to warning: %q", second.KeyEvent().Event)
	}
	if second.KeyEvent().FileName != defect.UnknownFileName {
		t.Errorf("missing location must default to the sentinel: %q", second.KeyEvent().FileName)
	}

	// the rule-less result was skipped and counted
	if !p.HasError() {
		t.Error("the skipped result must be reflected by HasError")
	}

	props := p.ScanProps()
	if props["tool"] != "gosec" || props["tool-version"] != "2.11.0" {
		t.Errorf("tool metadata not read into scan properties: %v", props)
	}
}
