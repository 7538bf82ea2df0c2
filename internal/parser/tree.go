package parser

import (
	"fmt"
	"strconv"
)

// helpers over the generic JSON tree (map[string]any / []any) produced by
// encoding/json; they mirror the defaulting rules of the source formats:
// a missing or mistyped field yields the provided default, never an error

func childOf(node any, key string) (any, bool) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	child, ok := obj[key]
	return child, ok
}

func sliceOf(node any, key string) []any {
	child, ok := childOf(node, key)
	if !ok {
		return nil
	}
	list, _ := child.([]any)
	return list
}

func stringOf(node any, key, def string) string {
	child, ok := childOf(node, key)
	if !ok {
		return def
	}
	s, ok := child.(string)
	if !ok {
		return def
	}
	return s
}

// intOf accepts both JSON numbers and numeric strings; Coverity exports CWE
// ids as strings
func intOf(node any, key string, def int) int {
	child, ok := childOf(node, key)
	if !ok {
		return def
	}
	switch v := child.(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// scalarOf stringifies a scalar field: ShellCheck emits rule codes as JSON
// numbers while other producers use strings
func scalarOf(node any, key string) string {
	child, ok := childOf(node, key)
	if !ok {
		return ""
	}
	switch v := child.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func boolOf(node any, key string, def bool) bool {
	child, ok := childOf(node, key)
	if !ok {
		return def
	}
	b, ok := child.(bool)
	if !ok {
		return def
	}
	return b
}

// nodeError marks a single malformed record within an otherwise readable
// document; the decoding engine recovers from it and moves on.
type nodeError struct {
	msg string
}

func (e *nodeError) Error() string {
	return e.msg
}

func nodeErrorf(format string, args ...any) error {
	return &nodeError{msg: fmt.Sprintf(format, args...)}
}

// nodeCursor is the iteration state shared by the tree decoders: an index
// into the candidate nodes of the owned document tree.
type nodeCursor struct {
	nodes []any
	pos   int
}

func (c *nodeCursor) readRoot(nodes []any) {
	c.nodes = nodes
	c.pos = 0
}

// nextNode returns the current node and advances the cursor; false means the
// document is exhausted.
func (c *nodeCursor) nextNode() (any, bool) {
	if c.pos >= len(c.nodes) {
		return nil, false
	}
	node := c.nodes[c.pos]
	c.pos++
	return node, true
}
