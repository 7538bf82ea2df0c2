// Package writer serializes canonical defects into a target format and
// hosts the per-file driver loop shared by the commands. The decoding side
// stays format-agnostic: a writer is picked once by declared output format
// and consumes whatever the parser yields.
package writer

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/defectlink/defectlink/internal/defect"
	"github.com/defectlink/defectlink/internal/parser"
)

// Format names a supported output format.
type Format string

const (
	// FormatDefault resolves to the native JSON format.
	FormatDefault Format = ""
	FormatJSON    Format = "json"
	FormatSarif   Format = "sarif"
)

// Writer consumes a stream of decoded defects. Flush must be called once
// after the last defect to emit the document.
type Writer interface {
	NotifyFile(fileName string)
	HandleDef(def *defect.Defect)
	ScanProps() defect.ScanProps
	SetScanProps(props defect.ScanProps)
	Flush() error
}

// NewWriter constructs the serializer for the given output format, writing
// to out. An unspecified format falls back to the native JSON format.
func NewWriter(format Format, out io.Writer, logger hclog.Logger) (Writer, error) {
	switch format {
	case FormatDefault, FormatJSON:
		return newJSONWriter(out, logger), nil
	case FormatSarif:
		return newSarifWriter(out, logger), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// HandleFile runs one input document through the parser and feeds every
// decoded defect to w. Scan properties are copied only when the writer has
// none yet; the writer reports and drops a conflicting later set. The return
// value is false when the file could not be read or any decode error, fatal
// or recovered, occurred.
func HandleFile(w Writer, fileName string, silent bool, logger hclog.Logger) bool {
	src, err := parser.FromFile(fileName, silent, logger)
	if err != nil {
		logger.Error("failed to open input file", "file", fileName, "err", err)
		return false
	}

	w.NotifyFile(fileName)

	p := parser.New(src)

	if len(w.ScanProps()) == 0 {
		w.SetScanProps(p.ScanProps())
	} else if len(p.ScanProps()) != 0 {
		logger.Error("scan properties already set, ignoring the new ones",
			"file", fileName)
	}

	var def defect.Defect
	for p.Next(&def) {
		w.HandleDef(&def)
	}

	return !p.HasError()
}
