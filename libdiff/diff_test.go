package libdiff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

func parse(t *testing.T, y string) *ir.Node {
	t.Helper()
	node, err := codec.Parse([]byte(y), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	return node
}

func TestDiff(t *testing.T) {
	from := parse(t, `
f1: a
f2: a
f3: a
nested:
  a: 1
  b: 2
xs:
- 1
- 2
`)
	to := parse(t, `
f0: b
f1: b
f2: a
nested:
  a: 1
xs:
- 1
- 2
- 3
`)
	deltas := Diff(from, to)
	got := map[string]Kind{}
	for _, d := range deltas {
		got[d.Path] = d.Kind
	}
	want := map[string]Kind{
		"$.f1":       Change,
		"$.f3":       Remove,
		"$.f0":       Add,
		"$.nested.b": Remove,
		"$.xs[2]":    Add,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("deltas (-want +got):\n%s", diff)
	}
}

func TestDiffEqual(t *testing.T) {
	a := parse(t, "a: 1\nb: [x, y]\n")
	// key order does not matter
	b := parse(t, "b: [x, y]\na: 1\n")
	if deltas := Diff(a, b); len(deltas) != 0 {
		t.Errorf("Diff of equal docs = %v, want none", deltas)
	}
}

func TestDiffTypeChange(t *testing.T) {
	a := parse(t, "v: 1\n")
	b := parse(t, "v: [1]\n")
	deltas := Diff(a, b)
	if len(deltas) != 1 || deltas[0].Kind != Change || deltas[0].Path != "$.v" {
		t.Fatalf("deltas = %v", deltas)
	}
}

func TestDiffMultilineString(t *testing.T) {
	a := ir.FromKeyVals([]ir.KeyVal{
		{Key: "text", Val: ir.FromString("line one\nline two\nline three\n")},
	})
	b := ir.FromKeyVals([]ir.KeyVal{
		{Key: "text", Val: ir.FromString("line one\nline 2\nline three\n")},
	})
	deltas := Diff(a, b)
	if len(deltas) != 1 {
		t.Fatalf("deltas = %v", deltas)
	}
	text := deltas[0].Text
	if !strings.Contains(text, "{+") || !strings.Contains(text, "{-") {
		t.Errorf("no character diff markers in %q", text)
	}
}
