package parser

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Source wraps one raw input document together with the file name used in
// diagnostics and the error accounting for the whole run. The Silent flag
// suppresses per-node decode warnings only; document-level errors are always
// reported.
type Source struct {
	FileName string
	Content  []byte
	Silent   bool

	logger   hclog.Logger
	errCount int
}

// NewSource wraps already-resident content.
func NewSource(fileName string, content []byte, silent bool, logger hclog.Logger) *Source {
	return &Source{
		FileName: fileName,
		Content:  content,
		Silent:   silent,
		logger:   logger,
	}
}

// FromFile reads the whole file into memory. A file that cannot be read
// produces no partial state, only an error.
func FromFile(fileName string, silent bool, logger hclog.Logger) (*Source, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %q: %w", fileName, err)
	}
	return NewSource(fileName, content, silent, logger), nil
}

// HandleError records one error against this source. A non-empty message is
// reported immediately; line 0 means the location within the document is not
// known.
func (s *Source) HandleError(msg string, line int) {
	s.errCount++
	if msg == "" {
		return
	}
	if line > 0 {
		s.logger.Error(msg, "file", s.FileName, "line", line)
	} else {
		s.logger.Error(msg, "file", s.FileName)
	}
}

// DataError records a recoverable per-node failure: the defect being
// attempted is skipped and decoding continues with the next node.
func (s *Source) DataError(defNumber int, err error) {
	s.errCount++
	if s.Silent {
		return
	}
	s.logger.Warn(fmt.Sprintf("failed to read defect #%d", defNumber),
		"file", s.FileName, "err", err)
}

// AnyError reports whether any error, fatal or recovered, was recorded.
func (s *Source) AnyError() bool {
	return s.errCount != 0
}
