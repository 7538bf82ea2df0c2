package writer

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/defectlink/defectlink/internal/defect"
)

// sarifWriter serializes defects as one SARIF run with one result per
// defect. Scan properties have no place in this format and are reported as
// dropped.
type sarifWriter struct {
	out    io.Writer
	logger hclog.Logger
	run    *sarif.Run
	seen   map[string]bool
}

func newSarifWriter(out io.Writer, logger hclog.Logger) *sarifWriter {
	return &sarifWriter{
		out:    out,
		logger: logger,
		run:    sarif.NewRunWithInformationURI("defectlink", "https://github.com/defectlink/defectlink"),
		seen:   map[string]bool{},
	}
}

func (w *sarifWriter) NotifyFile(string) {}

func (w *sarifWriter) HandleDef(def *defect.Defect) {
	if !w.seen[def.Checker] {
		w.seen[def.Checker] = true
		w.run.AddRule(def.Checker)
	}

	key := def.KeyEvent()

	location := sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(key.FileName)).
			WithRegion(sarif.NewRegion().WithStartLine(key.Line)),
	)

	result := sarif.NewRuleResult(def.Checker).
		WithMessage(sarif.NewTextMessage(key.Msg)).
		WithLevel(sarifLevel(key.Event)).
		WithLocations([]*sarif.Location{location})
	w.run.AddResult(result)
}

func (w *sarifWriter) ScanProps() defect.ScanProps {
	return nil
}

func (w *sarifWriter) SetScanProps(props defect.ScanProps) {
	if len(props) == 0 {
		return
	}
	w.logger.Error("scan properties not supported by the output format")
}

func (w *sarifWriter) Flush() error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	report.AddRun(w.run)
	return report.PrettyWrite(w.out)
}

// sarifLevel maps an event kind label to the closest SARIF level.
func sarifLevel(event string) string {
	switch event {
	case "error", "warning", "note":
		return event
	case "info":
		return "note"
	default:
		return "warning"
	}
}
