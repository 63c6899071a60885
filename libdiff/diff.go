// Package libdiff computes structural diffs between two tree values,
// reported as path-addressed deltas.
package libdiff

import (
	"fmt"
	"strconv"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/opencontrolkit/shard/ir"
)

type Kind int

const (
	Add Kind = iota
	Remove
	Change
)

func (k Kind) String() string {
	switch k {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Change:
		return "change"
	default:
		return "<unknown kind>"
	}
}

// Delta is one difference between two documents. Text carries a
// character diff when both sides are multiline strings.
type Delta struct {
	Path string
	Kind Kind
	From *ir.Node
	To   *ir.Node
	Text string
}

// Diff returns the deltas transforming from into to. An empty result
// means the documents are semantically equal.
func Diff(from, to *ir.Node) []Delta {
	return diff(nil, "$", from, to)
}

func diff(dst []Delta, path string, from, to *ir.Node) []Delta {
	if from == nil && to == nil {
		return dst
	}
	if from == nil {
		return append(dst, Delta{Path: path, Kind: Add, To: to})
	}
	if to == nil {
		return append(dst, Delta{Path: path, Kind: Remove, From: from})
	}
	if from.Type != to.Type {
		return append(dst, Delta{Path: path, Kind: Change, From: from, To: to})
	}
	switch from.Type {
	case ir.ObjectType:
		return diffObjects(dst, path, from, to)
	case ir.ArrayType:
		return diffArrays(dst, path, from, to)
	case ir.StringType:
		if from.String == to.String {
			return dst
		}
		return append(dst, Delta{
			Path: path, Kind: Change, From: from, To: to,
			Text: stringDiff(from.String, to.String),
		})
	default:
		if ir.Equal(from, to) {
			return dst
		}
		return append(dst, Delta{Path: path, Kind: Change, From: from, To: to})
	}
}

func diffObjects(dst []Delta, path string, from, to *ir.Node) []Delta {
	seen := map[string]bool{}
	for i := range from.Fields {
		key := from.Fields[i].String
		seen[key] = true
		dst = diff(dst, path+"."+key, from.Values[i], ir.Get(to, key))
	}
	for i := range to.Fields {
		key := to.Fields[i].String
		if seen[key] {
			continue
		}
		dst = diff(dst, path+"."+key, nil, to.Values[i])
	}
	return dst
}

func diffArrays(dst []Delta, path string, from, to *ir.Node) []Delta {
	n := max(len(from.Values), len(to.Values))
	for i := 0; i < n; i++ {
		var f, t *ir.Node
		if i < len(from.Values) {
			f = from.Values[i]
		}
		if i < len(to.Values) {
			t = to.Values[i]
		}
		dst = diff(dst, path+"["+strconv.Itoa(i)+"]", f, t)
	}
	return dst
}

// stringDiff renders a character-level diff for multiline strings; for
// one-liners the delta's From/To already say everything.
func stringDiff(from, to string) string {
	if !strings.Contains(from, "\n") || !strings.Contains(to, "\n") {
		return ""
	}
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(from, to, true)
	diffs = diffCfg.DiffCleanupSemantic(diffs)
	buf := &strings.Builder{}
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			fmt.Fprintf(buf, "{+%s+}", d.Text)
		case diffpatch.DiffDelete:
			fmt.Fprintf(buf, "{-%s-}", d.Text)
		case diffpatch.DiffEqual:
			buf.WriteString(d.Text)
		}
	}
	return buf.String()
}
