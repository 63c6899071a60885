package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

func testDoc(t *testing.T) *ir.Node {
	t.Helper()
	doc, err := codec.Parse([]byte(`
metadata:
  title: Example
groups:
- id: g1
- id: g2
`), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestValidate(t *testing.T) {
	doc := testDoc(t)
	rules := []Rule{
		{Name: "has-title", Expr: `doc.metadata.title != ""`},
		{Name: "has-groups", Expr: `len(doc.groups) > 0`},
		{Name: "group-ids", Expr: `all(doc.groups, {.id != ""})`},
		{Name: "needs-version", Expr: `"version" in doc.metadata`, Message: "metadata.version is required"},
	}
	vs := Validate(doc, rules)
	if len(vs) != 1 {
		t.Fatalf("violations = %v, want 1", vs)
	}
	if vs[0].Rule != "needs-version" || vs[0].Message != "metadata.version is required" {
		t.Errorf("violation = %v", vs[0])
	}
}

func TestValidatePathHelpers(t *testing.T) {
	doc := testDoc(t)
	rules := []Rule{
		{Name: "get", Expr: `getpath("metadata.title") == "Example"`},
		{Name: "has", Expr: `haspath("metadata.title")`},
		{Name: "has-not", Expr: `not haspath("metadata.nope")`},
	}
	if vs := Validate(doc, rules); len(vs) != 0 {
		t.Errorf("violations = %v, want none", vs)
	}
}

func TestValidateBadRule(t *testing.T) {
	doc := testDoc(t)
	vs := Validate(doc, []Rule{
		{Name: "broken", Expr: `this is not ( an expression`},
		{Name: "not-bool", Expr: `doc.metadata.title`},
	})
	if len(vs) != 2 {
		t.Fatalf("violations = %v, want 2", vs)
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `
- name: has-title
  expr: doc.metadata.title != ""
- name: needs-version
  expr: '"version" in doc.metadata'
  message: metadata.version is required
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	rules, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules = %v", rules)
	}
	if rules[1].Message != "metadata.version is required" {
		t.Errorf("message = %q", rules[1].Message)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- name: only-name\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(bad); err == nil {
		t.Errorf("LoadRules with missing expr: want error")
	}
}
