// Package msgfilter normalizes file paths so that superficial representation
// differences (build roots, relative prefixes, backslashes) do not break
// matching between independently produced scans.
package msgfilter

import (
	"path"
	"regexp"
	"strings"
)

// build roots injected by throwaway build environments carry no matching
// value and vary between scans of the same sources
var buildRootRes = []*regexp.Regexp{
	regexp.MustCompile(`^/builddir/build/BUILD/[^/]+/`),
	regexp.MustCompile(`^/usr/src/debug/[^/]+/`),
	regexp.MustCompile(`^/tmp/[^/]+/`),
}

// FilterPath returns the normalized form of fileName used as a correlation
// key. Insert and lookup must run their inputs through the same filter.
func FilterPath(fileName string) string {
	p := strings.ReplaceAll(fileName, `\`, "/")

	for _, re := range buildRootRes {
		if loc := re.FindStringIndex(p); loc != nil {
			p = p[loc[1]:]
			break
		}
	}

	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return fileName
	}

	return path.Clean(p)
}
