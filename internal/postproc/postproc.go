// Package postproc rewrites freshly decoded defects before they are handed
// to a consumer: file paths are canonicalized and a small rule table
// reassigns the checker class where the message identifies a more specific
// origin.
package postproc

import (
	"path"
	"regexp"
	"strings"

	"github.com/defectlink/defectlink/internal/defect"
)

type checkerRule struct {
	msgSuffix *regexp.Regexp
	checker   string
}

// Processor applies the post-processing rules. The zero value is not usable,
// call New.
type Processor struct {
	rules []checkerRule
}

// New returns a processor with the default rule table.
func New() *Processor {
	return &Processor{
		rules: []checkerRule{
			// findings of the GCC static analyzer are a different population
			// than plain compiler warnings
			{
				msgSuffix: regexp.MustCompile(`\[-Wanalyzer-[^\]]+\]$`),
				checker:   "GCC_ANALYZER_WARNING",
			},
		},
	}
}

// Apply rewrites def in place. It is invoked once per successfully decoded
// defect.
func (p *Processor) Apply(def *defect.Defect) {
	for i := range def.Events {
		def.Events[i].FileName = canonicalPath(def.Events[i].FileName)
	}

	msg := def.KeyEvent().Msg
	for _, rule := range p.rules {
		if rule.msgSuffix.MatchString(msg) {
			def.Checker = rule.checker
			break
		}
	}
}

func canonicalPath(fileName string) string {
	if fileName == "" || fileName == defect.UnknownFileName {
		return fileName
	}
	trimmed := strings.TrimPrefix(fileName, "./")
	if cleaned := path.Clean(trimmed); cleaned != "." {
		return cleaned
	}
	return fileName
}
