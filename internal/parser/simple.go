package parser

import (
	"fmt"
	"io"

	"github.com/defectlink/defectlink/internal/defect"
)

// simpleTreeDecoder reads the native format: the same shape the JSON writer
// emits, so fields pass through with minimal transformation.
type simpleTreeDecoder struct {
	nodeCursor
	root map[string]any
}

func newSimpleTreeDecoder(root map[string]any) *simpleTreeDecoder {
	d := &simpleTreeDecoder{root: root}
	d.readRoot(sliceOf(root, "defects"))
	return d
}

func (d *simpleTreeDecoder) readScanProps() defect.ScanProps {
	scan, ok := childOf(d.root, "scan")
	if !ok {
		return nil
	}
	obj, ok := scan.(map[string]any)
	if !ok {
		return nil
	}

	props := defect.ScanProps{}
	for key, value := range obj {
		switch v := value.(type) {
		case string:
			props[key] = v
		case float64:
			props[key] = fmt.Sprintf("%v", v)
		}
	}
	return props
}

func (d *simpleTreeDecoder) readNode() (*defect.Defect, error) {
	node, ok := d.nextNode()
	if !ok {
		return nil, io.EOF
	}

	checker := stringOf(node, "checker", "")
	if checker == "" {
		return nil, nodeErrorf("mandatory attribute \"checker\" is missing")
	}

	def := defect.New(checker)
	def.Language = stringOf(node, "language", "")
	def.Tool = stringOf(node, "tool", "")
	def.CWE = intOf(node, "cwe", 0)
	def.KeyEventIdx = intOf(node, "key_event_idx", 0)

	events := sliceOf(node, "events")
	if len(events) == 0 {
		return nil, nodeErrorf("defect %q has no events", checker)
	}
	for _, evtNode := range events {
		def.Events = append(def.Events, defect.Event{
			FileName:       stringOf(evtNode, "file_name", defect.UnknownFileName),
			Line:           intOf(evtNode, "line", 0),
			Column:         intOf(evtNode, "column", 0),
			Event:          stringOf(evtNode, "event", ""),
			Msg:            stringOf(evtNode, "message", ""),
			VerbosityLevel: intOf(evtNode, "verbosity_level", 0),
		})
	}

	if def.KeyEventIdx < 0 || len(def.Events) <= def.KeyEventIdx {
		return nil, nodeErrorf("defect %q has key_event_idx out of range", checker)
	}

	return def, nil
}
