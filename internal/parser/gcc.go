package parser

import (
	"io"

	"github.com/defectlink/defectlink/internal/defect"
	"github.com/defectlink/defectlink/internal/postproc"
)

// gccCheckerName is the fixed class for diagnostics decoded from the GCC
// JSON format; the post-processor may refine it.
const gccCheckerName = "COMPILER_WARNING"

// gccTreeDecoder reads the JSON diagnostics format produced by GCC: a
// top-level array of diagnostics, each optionally carrying a "children"
// array of secondary events folded into the same defect.
type gccTreeDecoder struct {
	nodeCursor
	postProc *postproc.Processor
}

func newGccTreeDecoder(root []any) *gccTreeDecoder {
	d := &gccTreeDecoder{postProc: postproc.New()}
	d.readRoot(root)
	return d
}

func (d *gccTreeDecoder) readScanProps() defect.ScanProps {
	return nil
}

// gccReadEvent decodes one diagnostic node into evt; false means the node
// carries no usable kind and has to be dropped.
func gccReadEvent(evt *defect.Event, evtNode any) bool {
	evt.Event = stringOf(evtNode, "kind", "")
	if evt.Event == "" {
		return false
	}

	evt.FileName = defect.UnknownFileName
	if locs := sliceOf(evtNode, "locations"); len(locs) != 0 {
		if caret, ok := childOf(locs[0], "caret"); ok {
			evt.FileName = stringOf(caret, "file", defect.UnknownFileName)
			evt.Line = intOf(caret, "line", 0)
			evt.Column = intOf(caret, "byte-column", 0)
		}
	}

	evt.Msg = stringOf(evtNode, "message", defect.UnknownMsg)

	// keep the warning flag visible after normalization erases the field
	if option := stringOf(evtNode, "option", ""); option != "" {
		evt.Msg += " [" + option + "]"
	}

	return true
}

func (d *gccTreeDecoder) readNode() (*defect.Defect, error) {
	node, ok := d.nextNode()
	if !ok {
		return nil, io.EOF
	}

	def := defect.New(gccCheckerName)

	// the key event
	var keyEvt defect.Event
	if !gccReadEvent(&keyEvt, node) {
		return nil, nodeErrorf("diagnostic node has no \"kind\"")
	}
	def.Events = append(def.Events, keyEvt)

	// secondary events if available
	for _, child := range sliceOf(node, "children") {
		var evt defect.Event
		if gccReadEvent(&evt, child) {
			def.Events = append(def.Events, evt)
		}
	}

	if meta, ok := childOf(node, "metadata"); ok {
		def.CWE = intOf(meta, "cwe", 0)
	}

	d.postProc.Apply(def)

	return def, nil
}
