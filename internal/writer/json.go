package writer

import (
	"encoding/json"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/defectlink/defectlink/internal/defect"
)

// jsonWriter emits the native format: the only output format that round-trips
// every field of the canonical model, scan properties included.
type jsonWriter struct {
	out       io.Writer
	logger    hclog.Logger
	defects   []defect.Defect
	scanProps defect.ScanProps
}

type jsonDocument struct {
	Scan    defect.ScanProps `json:"scan,omitempty"`
	Defects []defect.Defect  `json:"defects"`
}

func newJSONWriter(out io.Writer, logger hclog.Logger) *jsonWriter {
	return &jsonWriter{out: out, logger: logger}
}

func (w *jsonWriter) NotifyFile(string) {}

func (w *jsonWriter) HandleDef(def *defect.Defect) {
	w.defects = append(w.defects, *def)
}

func (w *jsonWriter) ScanProps() defect.ScanProps {
	return w.scanProps
}

func (w *jsonWriter) SetScanProps(props defect.ScanProps) {
	if len(props) == 0 {
		return
	}
	if len(w.scanProps) != 0 {
		w.logger.Error("scan properties already set, ignoring the new ones")
		return
	}
	w.scanProps = props
}

func (w *jsonWriter) Flush() error {
	doc := jsonDocument{
		Scan:    w.scanProps,
		Defects: w.defects,
	}
	if doc.Defects == nil {
		doc.Defects = []defect.Defect{}
	}

	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(&doc)
}
