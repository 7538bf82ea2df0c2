// Package refstream decodes a line-oriented stream of terse defect
// references: one comma-separated record per line carrying a numeric id, a
// checker class and a file name. Malformed lines are skipped and counted,
// they never stop the stream.
package refstream

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// minimum fields per line: id, checker, file name; extra fields are ignored
const minFields = 3

// Row is one decoded reference. Rows are ephemeral: the driver consumes each
// one by a single lookup attempt and discards it.
type Row struct {
	ID       int
	Checker  string
	FileName string
}

// Parser reads reference rows from an input stream. The error flag is
// sticky: once any line fails to parse, HasError reports true for the rest
// of the run.
type Parser struct {
	scanner  *bufio.Scanner
	logger   hclog.Logger
	lineno   int
	hasError bool
}

// maxLineSize caps a single reference line; the scanner default is too
// small for machine-generated streams
const maxLineSize = 1024 * 1024

// New returns a parser reading from r and logging line diagnostics to logger.
func New(r io.Reader, logger hclog.Logger) *Parser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	return &Parser{
		scanner: scanner,
		logger:  logger,
	}
}

// Next reads rows until one parses or the input is exhausted. It returns
// false only on end of input; malformed lines are logged, flagged and
// skipped.
func (p *Parser) Next(dst *Row) bool {
	for p.scanner.Scan() {
		p.lineno++
		if p.parseLine(p.scanner.Text(), dst) {
			return true
		}
		p.hasError = true
	}
	if err := p.scanner.Err(); err != nil {
		p.logger.Error("failed to read the reference stream", "line", p.lineno+1, "error", err)
		p.hasError = true
	}
	return false
}

// HasError reports whether any line failed to parse during this run.
func (p *Parser) HasError() bool {
	return p.hasError
}

func (p *Parser) parseLine(line string, dst *Row) bool {
	tokens := strings.Split(line, ",")
	if len(tokens) < minFields {
		p.logger.Error("not enough fields at the line", "line", p.lineno)
		return false
	}

	id, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
	if err != nil {
		p.logger.Error("failed to parse defect id", "line", p.lineno)
		return false
	}

	dst.ID = id
	dst.Checker = tokens[1]
	dst.FileName = tokens[2]
	return true
}
