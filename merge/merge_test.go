package merge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSourceFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "metadata.json"), `{"title": "x"}`)
	name, node, err := LoadSource(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	if name != "metadata" {
		t.Errorf("name = %q, want metadata", name)
	}
	if got := ir.Get(node, "title"); got == nil || got.String != "x" {
		t.Errorf("title = %v", got)
	}
}

func TestLoadSequenceDir(t *testing.T) {
	dir := t.TempDir()
	groups := filepath.Join(dir, "groups")
	writeFile(t, filepath.Join(groups, "groups.json"), `[]`)
	// numeric order, not lexical: index 2 before index 10
	writeFile(t, filepath.Join(groups, "00010__group.json"), `{"id": "g10"}`)
	writeFile(t, filepath.Join(groups, "2__group.json"), `{"id": "g2"}`)

	name, node, err := LoadSource(groups)
	if err != nil {
		t.Fatal(err)
	}
	if name != "groups" {
		t.Errorf("name = %q, want groups", name)
	}
	if node.Type != ir.ArrayType || len(node.Values) != 2 {
		t.Fatalf("node = %v", node)
	}
	if got := ir.Get(node.Values[0], "id"); got.String != "g2" {
		t.Errorf("first item = %v, want g2", got)
	}
	if got := ir.Get(node.Values[1], "id"); got.String != "g10" {
		t.Errorf("second item = %v, want g10", got)
	}

	// lenient loading tolerates gaps; strict loading does not
	if _, _, err := LoadSourceStrict(groups); !errors.Is(err, ErrIncompleteAssembly) {
		t.Errorf("strict with gaps: %v, want ErrIncompleteAssembly", err)
	}
}

func TestLoadSequenceDirDuplicateIndex(t *testing.T) {
	dir := t.TempDir()
	groups := filepath.Join(dir, "groups")
	writeFile(t, filepath.Join(groups, "groups.json"), `[]`)
	writeFile(t, filepath.Join(groups, "00001__group.json"), `{"id": "a"}`)
	writeFile(t, filepath.Join(groups, "001__group.json"), `{"id": "b"}`)

	if _, _, err := LoadSource(groups); !errors.Is(err, ErrDuplicateIndex) {
		t.Errorf("LoadSource = %v, want ErrDuplicateIndex", err)
	}
}

func TestLoadMappingDir(t *testing.T) {
	dir := t.TempDir()
	params := filepath.Join(dir, "params")
	writeFile(t, filepath.Join(params, "params.json"), `{}`)
	writeFile(t, filepath.Join(params, "y__param.json"), `{"value": 2}`)
	writeFile(t, filepath.Join(params, "x__param.json"), `{"value": 1}`)

	_, node, err := LoadSource(params)
	if err != nil {
		t.Fatal(err)
	}
	if node.Type != ir.ObjectType || len(node.Fields) != 2 {
		t.Fatalf("node = %v", node)
	}
	// entries come back in lexical key order
	if node.Fields[0].String != "x" || node.Fields[1].String != "y" {
		t.Errorf("keys = %q, %q; want x, y", node.Fields[0].String, node.Fields[1].String)
	}
}

func TestLoadMappingDirDuplicateKey(t *testing.T) {
	dir := t.TempDir()
	params := filepath.Join(dir, "params")
	writeFile(t, filepath.Join(params, "params.json"), `{}`)
	writeFile(t, filepath.Join(params, "x__param.json"), `{"value": 1}`)
	writeFile(t, filepath.Join(params, "x__param.yaml"), "value: 2\n")

	if _, _, err := LoadSource(params); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("LoadSource = %v, want ErrDuplicateKey", err)
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog.json")
	writeFile(t, dest, `{"params": {"x": 1}}`)
	writeFile(t, filepath.Join(dir, "metadata.json"), `{"title": "x"}`)
	groups := filepath.Join(dir, "groups")
	writeFile(t, filepath.Join(groups, "groups.json"), `[]`)
	writeFile(t, filepath.Join(groups, "00000__group.json"), `{"id": "g1"}`)

	err := Merge([]string{filepath.Join(dir, "metadata.json"), groups}, dest)
	if err != nil {
		t.Fatal(err)
	}

	doc, _, err := codec.ParseFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	want, err := codec.Parse([]byte(`{
		"params": {"x": 1},
		"metadata": {"title": "x"},
		"groups": [{"id": "g1"}]
	}`), format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(doc, want) {
		t.Errorf("merged document differs")
	}

	// sources stay in place
	if _, err := os.Stat(filepath.Join(dir, "metadata.json")); err != nil {
		t.Errorf("source removed: %v", err)
	}
}

func TestMergeConflict(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog.json")
	writeFile(t, dest, `{"metadata": {"title": "already here"}}`)
	writeFile(t, filepath.Join(dir, "metadata.json"), `{"title": "x"}`)

	err := Merge([]string{filepath.Join(dir, "metadata.json")}, dest)
	if !errors.Is(err, ErrConflictingProperty) {
		t.Errorf("Merge = %v, want ErrConflictingProperty", err)
	}
}

func TestMergeIntoPlaceholder(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog.json")
	writeFile(t, dest, `{"metadata": null}`)
	writeFile(t, filepath.Join(dir, "metadata.json"), `{"title": "x"}`)

	if err := Merge([]string{filepath.Join(dir, "metadata.json")}, dest); err != nil {
		t.Fatal(err)
	}
	doc, _, err := codec.ParseFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	meta := ir.Get(doc, "metadata")
	if got := ir.Get(meta, "title"); got == nil || got.String != "x" {
		t.Errorf("metadata.title = %v", got)
	}
}
