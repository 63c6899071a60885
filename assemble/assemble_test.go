package assemble

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/epath"
	"github.com/opencontrolkit/shard/ir"
	"github.com/opencontrolkit/shard/merge"
	"github.com/opencontrolkit/shard/split"
)

const catalogJSON = `{
  "metadata": {
    "title": "Example Catalog",
    "parties": [
      {"id": "p1"},
      {"id": "p2"}
    ]
  },
  "groups": [
    {"id": "g1"},
    {"id": "g2"},
    {"id": "g3"}
  ],
  "params": {
    "x": {"value": 1}
  }
}
`

func setup(t *testing.T, paths ...string) (promotedRoot string, original *ir.Node) {
	t.Helper()
	dir := t.TempDir()
	rootFile := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(rootFile, []byte(catalogJSON), 0644); err != nil {
		t.Fatal(err)
	}
	original, _, err := codec.ParseFile(rootFile)
	if err != nil {
		t.Fatal(err)
	}
	var ps []epath.Path
	for _, text := range paths {
		p, err := epath.Parse(text)
		if err != nil {
			t.Fatal(err)
		}
		ps = append(ps, p)
	}
	if err := split.Split(rootFile, ps); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, "catalog", "catalog.json"), original
}

func TestAssembleRoundTrip(t *testing.T) {
	root, original := setup(t,
		"catalog.metadata",
		"catalog.groups.*",
		"catalog.params.*")
	doc, err := Assemble(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(doc, original) {
		t.Errorf("assembled document differs from the original")
	}
}

func TestAssembleNestedSplit(t *testing.T) {
	root, original := setup(t, "catalog.metadata.parties.*")
	doc, err := Assemble(root)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(doc, original) {
		t.Errorf("assembled document differs from the original")
	}
}

func TestAssembleUnsplitFile(t *testing.T) {
	dir := t.TempDir()
	rootFile := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(rootFile, []byte(catalogJSON), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := Assemble(rootFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := ir.Get(doc, "metadata"); got == nil {
		t.Errorf("metadata missing: %v", doc)
	}
}

func TestAssembleMissingItem(t *testing.T) {
	root, _ := setup(t, "catalog.groups.*")
	gone := filepath.Join(filepath.Dir(root), "groups", "00000__group.json")
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	_, err := Assemble(root)
	if !errors.Is(err, merge.ErrIncompleteAssembly) {
		t.Errorf("Assemble = %v, want ErrIncompleteAssembly", err)
	}
}

func TestAssembleAggregatesViolations(t *testing.T) {
	root, _ := setup(t, "catalog.groups.*", "catalog.params.*")
	catalogDir := filepath.Dir(root)
	if err := os.Remove(filepath.Join(catalogDir, "groups", "00001__group.json")); err != nil {
		t.Fatal(err)
	}
	dup := filepath.Join(catalogDir, "params", "x__param.yaml")
	if err := os.WriteFile(dup, []byte("value: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Assemble(root)
	if !errors.Is(err, merge.ErrIncompleteAssembly) {
		t.Fatalf("Assemble = %v, want ErrIncompleteAssembly", err)
	}
	// both failures surface in one pass
	if !errors.Is(err, merge.ErrDuplicateKey) {
		t.Errorf("Assemble = %v, want ErrDuplicateKey among the violations", err)
	}
}
