package postproc

import (
	"testing"

	"github.com/defectlink/defectlink/internal/defect"
)

func TestApplyCanonicalizesPaths(t *testing.T) {
	def := defect.Defect{
		Checker: "COMPILER_WARNING",
		Events: []defect.Event{
			{FileName: "./src/a.c", Event: "warning", Msg: "something"},
			{FileName: "src//lib/../b.c", Event: "note", Msg: "here"},
			{FileName: defect.UnknownFileName, Event: "note", Msg: "nowhere"},
		},
	}

	New().Apply(&def)

	if got := def.Events[0].FileName; got != "src/a.c" {
		t.Errorf("leading ./ not stripped: %q", got)
	}
	if got := def.Events[1].FileName; got != "src/b.c" {
		t.Errorf("path not cleaned: %q", got)
	}
	if got := def.Events[2].FileName; got != defect.UnknownFileName {
		t.Errorf("the unknown sentinel must pass through untouched: %q", got)
	}
}

func TestApplyReclassifiesAnalyzerFindings(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		checker string
	}{
		{
			name:    "analyzer warning",
			msg:     "leak of 'p' [-Wanalyzer-malloc-leak]",
			checker: "GCC_ANALYZER_WARNING",
		},
		{
			name:    "plain warning keeps its class",
			msg:     "format not a string literal [-Wformat]",
			checker: "COMPILER_WARNING",
		},
		{
			name:    "analyzer flag in the middle does not count",
			msg:     "[-Wanalyzer-malloc-leak] mentioned early",
			checker: "COMPILER_WARNING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := defect.Defect{
				Checker: "COMPILER_WARNING",
				Events:  []defect.Event{{Event: "warning", Msg: tt.msg}},
			}
			New().Apply(&def)
			if def.Checker != tt.checker {
				t.Errorf("expected checker %q, got %q", tt.checker, def.Checker)
			}
		})
	}
}
