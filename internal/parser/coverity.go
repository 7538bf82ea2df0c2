package parser

import (
	"io"

	"github.com/defectlink/defectlink/internal/defect"
)

// coverityTreeDecoder reads the Coverity JSON export: one record per issue,
// the key event marked by a per-event "main" flag.
type coverityTreeDecoder struct {
	nodeCursor
}

func newCoverityTreeDecoder(root map[string]any) *coverityTreeDecoder {
	d := &coverityTreeDecoder{}
	d.readRoot(sliceOf(root, "issues"))
	return d
}

func (d *coverityTreeDecoder) readScanProps() defect.ScanProps {
	return nil
}

func (d *coverityTreeDecoder) readNode() (*defect.Defect, error) {
	node, ok := d.nextNode()
	if !ok {
		return nil, io.EOF
	}

	checker := stringOf(node, "checkerName", "")
	if checker == "" {
		return nil, nodeErrorf("mandatory attribute \"checkerName\" is missing")
	}

	def := defect.New(checker)
	def.Language = stringOf(node, "language", "")

	if props, ok := childOf(node, "checkerProperties"); ok {
		def.CWE = intOf(props, "cweCategory", 0)
	}

	for _, evtNode := range sliceOf(node, "events") {
		tag := stringOf(evtNode, "eventTag", "")
		if tag == "" {
			continue
		}
		if boolOf(evtNode, "main", false) {
			def.KeyEventIdx = len(def.Events)
		}
		def.Events = append(def.Events, defect.Event{
			FileName: stringOf(evtNode, "filePathname", defect.UnknownFileName),
			Line:     intOf(evtNode, "lineNumber", 0),
			Column:   intOf(evtNode, "columnNumber", 0),
			Event:    tag,
			Msg:      stringOf(evtNode, "eventDescription", defect.UnknownMsg),
		})
	}
	if len(def.Events) == 0 {
		return nil, nodeErrorf("issue %q has no usable events", checker)
	}

	return def, nil
}
