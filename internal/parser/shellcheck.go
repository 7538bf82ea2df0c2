package parser

import (
	"io"

	"github.com/defectlink/defectlink/internal/defect"
	"github.com/defectlink/defectlink/internal/postproc"
)

const shellCheckCheckerName = "SHELLCHECK_WARNING"

// shellCheckTreeDecoder reads the JSON format produced by ShellCheck: a flat
// "comments" array, severity in "level", rule code appended to the message
// as [SCnnnn].
type shellCheckTreeDecoder struct {
	nodeCursor
	postProc *postproc.Processor
}

func newShellCheckTreeDecoder(root map[string]any) *shellCheckTreeDecoder {
	d := &shellCheckTreeDecoder{postProc: postproc.New()}
	d.readRoot(sliceOf(root, "comments"))
	return d
}

func (d *shellCheckTreeDecoder) readScanProps() defect.ScanProps {
	return nil
}

func (d *shellCheckTreeDecoder) readNode() (*defect.Defect, error) {
	node, ok := d.nextNode()
	if !ok {
		return nil, io.EOF
	}

	var evt defect.Event
	evt.Event = stringOf(node, "level", "")
	if evt.Event == "" {
		return nil, nodeErrorf("comment node has no \"level\"")
	}

	evt.FileName = stringOf(node, "file", defect.UnknownFileName)
	evt.Line = intOf(node, "line", 0)
	evt.Column = intOf(node, "byte-column", 0)
	evt.Msg = stringOf(node, "message", defect.UnknownMsg)

	// append [SC...] if available
	if code := scalarOf(node, "code"); code != "" {
		evt.Msg += " [SC" + code + "]"
	}

	def := defect.New(shellCheckCheckerName)
	def.Events = append(def.Events, evt)

	d.postProc.Apply(def)

	return def, nil
}
