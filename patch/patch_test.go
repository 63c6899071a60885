package patch

import (
	"testing"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

func parse(t *testing.T, j string) *ir.Node {
	t.Helper()
	node, err := codec.Parse([]byte(j), format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	return node
}

func TestMerge(t *testing.T) {
	doc := parse(t, `{"a": 1, "b": {"c": 2, "d": 3}}`)
	p := parse(t, `{"b": {"c": null, "e": 4}, "f": 5}`)
	got, err := Merge(doc, p)
	if err != nil {
		t.Fatal(err)
	}
	want := parse(t, `{"a": 1, "b": {"d": 3, "e": 4}, "f": 5}`)
	if !ir.Equal(got, want) {
		t.Errorf("merge patch result differs")
	}
}

func TestApply(t *testing.T) {
	doc := parse(t, `{"a": 1, "xs": [1, 2]}`)
	ops := parse(t, `[
		{"op": "replace", "path": "/a", "value": 10},
		{"op": "add", "path": "/xs/-", "value": 3},
		{"op": "add", "path": "/b", "value": {"c": true}}
	]`)
	got, err := Apply(doc, ops)
	if err != nil {
		t.Fatal(err)
	}
	want := parse(t, `{"a": 10, "xs": [1, 2, 3], "b": {"c": true}}`)
	if !ir.Equal(got, want) {
		t.Errorf("patch result differs")
	}
}

func TestApplyErrors(t *testing.T) {
	doc := parse(t, `{"a": 1}`)
	if _, err := Apply(doc, parse(t, `{"not": "an array"}`)); err == nil {
		t.Errorf("Apply with object ops: want error")
	}
	badOps := parse(t, `[{"op": "replace", "path": "/nope", "value": 1}]`)
	if _, err := Apply(doc, badOps); err == nil {
		t.Errorf("Apply replacing a missing path: want error")
	}
}
