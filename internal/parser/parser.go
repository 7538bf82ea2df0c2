// Package parser turns raw JSON defect reports into the canonical defect
// model. The dialect is recognized from structural signatures of the
// document root; individual malformed records are skipped and counted
// without aborting the rest of the document.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/defectlink/defectlink/internal/defect"
)

// Format identifies one of the supported input dialects.
type Format string

const (
	FormatUnknown    Format = ""
	FormatNative     Format = "native"
	FormatCoverity   Format = "coverity"
	FormatSarif      Format = "sarif"
	FormatShellCheck Format = "shellcheck"
	FormatGCC        Format = "gcc"
)

// ErrUnknownFormat is recorded when a document parses as JSON but matches no
// supported dialect.
var ErrUnknownFormat = errors.New("unknown JSON format")

// treeDecoder is implemented once per supported dialect. readNode returns
// io.EOF on exhaustion; any other error invalidates only the node being
// read.
type treeDecoder interface {
	readScanProps() defect.ScanProps
	readNode() (*defect.Defect, error)
}

// Parser detects the input dialect once, then streams normalized defects out
// of the document through Next. It is the only way callers observe decoded
// defects.
type Parser struct {
	src       *Source
	decoder   treeDecoder
	format    Format
	defNumber int
	scanProps defect.ScanProps
}

// New parses the source document and runs format detection. A document that
// fails to parse, or parses but matches no known dialect, records a fatal
// error against the source and yields zero defects.
func New(src *Source) *Parser {
	p := &Parser{src: src, scanProps: defect.ScanProps{}}

	var root any
	if err := json.Unmarshal(src.Content, &root); err != nil {
		src.HandleError("failed to parse JSON: "+err.Error(), lineOfJSONError(src.Content, err))
		return p
	}

	decoder, format, err := detectFormat(root, src)
	if err != nil {
		src.HandleError(err.Error(), 0)
		return p
	}
	if decoder == nil {
		// empty document, such as []
		return p
	}

	p.decoder = decoder
	p.format = format
	if props := decoder.readScanProps(); len(props) != 0 {
		p.scanProps = props
	}
	return p
}

// detectFormat recognizes the dialect from the document root: a single
// structural key per dialect, then a per-element fallback for the GCC
// diagnostics array. The supported dialects form a closed set; anything else
// is rejected.
func detectFormat(root any, src *Source) (treeDecoder, Format, error) {
	if obj, ok := root.(map[string]any); ok {
		switch {
		case hasKey(obj, "defects"):
			return newSimpleTreeDecoder(obj), FormatNative, nil
		case hasKey(obj, "issues"):
			return newCoverityTreeDecoder(obj), FormatCoverity, nil
		case hasKey(obj, "runs"):
			dec, err := newSarifTreeDecoder(src.Content)
			return dec, FormatSarif, err
		case hasKey(obj, "comments"):
			return newShellCheckTreeDecoder(obj), FormatShellCheck, nil
		}
		if len(obj) == 0 {
			return nil, FormatUnknown, nil
		}
		return nil, FormatUnknown, ErrUnknownFormat
	}

	if list, ok := root.([]any); ok {
		if len(list) == 0 {
			return nil, FormatUnknown, nil
		}
		if _, ok := childOf(list[0], "kind"); ok {
			return newGccTreeDecoder(list), FormatGCC, nil
		}
	}

	return nil, FormatUnknown, ErrUnknownFormat
}

func hasKey(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

// lineOfJSONError maps a JSON syntax error offset back to a 1-based line
// number for diagnostics; 0 when the offset is not available.
func lineOfJSONError(content []byte, err error) int {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return 0
	}
	offset := int(syntaxErr.Offset)
	if offset > len(content) {
		offset = len(content)
	}
	return 1 + bytes.Count(content[:offset], []byte("\n"))
}

// Next stores the next successfully decoded defect into def and returns
// true; false means the document is exhausted. Malformed nodes are reported
// through the source and skipped, so a partially built defect is never
// observed by the caller.
func (p *Parser) Next(def *defect.Defect) bool {
	if p.decoder == nil {
		return false
	}

	// error recovery loop
	for {
		*def = defect.Defect{}

		d, err := p.decoder.readNode()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.src.DataError(p.defNumber, err)
			continue
		}

		*def = *d
		p.defNumber++
		return true
	}
}

// HasError reports whether any fatal condition or per-node recovery occurred
// while reading this source.
func (p *Parser) HasError() bool {
	return p.src.AnyError()
}

// ScanProps returns the scan metadata read at initialization; empty for
// dialects that carry none.
func (p *Parser) ScanProps() defect.ScanProps {
	return p.scanProps
}

// InputFormat returns the detected dialect, FormatUnknown when detection
// failed.
func (p *Parser) InputFormat() Format {
	return p.format
}
