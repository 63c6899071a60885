package ir

import (
	"testing"
)

func TestSetField(t *testing.T) {
	obj := EmptyObject()
	obj.SetField("a", FromInt(1))
	obj.SetField("b", FromInt(2))
	obj.SetField("a", FromInt(3))

	if n := len(obj.Fields); n != 2 {
		t.Fatalf("got %d fields, want 2", n)
	}
	if got := Get(obj, "a"); got == nil || *got.Int64 != 3 {
		t.Errorf("a = %v, want 3", got)
	}
	if obj.Fields[0].String != "a" || obj.Fields[1].String != "b" {
		t.Errorf("field order %q, %q; want a, b", obj.Fields[0].String, obj.Fields[1].String)
	}
	if v := Get(obj, "b"); v.Parent != obj || v.ParentField != "b" || v.ParentIndex != 1 {
		t.Errorf("b parent links wrong: %v %q %d", v.Parent, v.ParentField, v.ParentIndex)
	}
}

func TestRemoveField(t *testing.T) {
	obj := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "b", Val: FromInt(2)},
		{Key: "c", Val: FromInt(3)},
	})
	removed := obj.RemoveField("b")
	if removed == nil || *removed.Int64 != 2 {
		t.Fatalf("removed = %v, want 2", removed)
	}
	if removed.Parent != nil {
		t.Errorf("removed node still has a parent")
	}
	if got := Get(obj, "b"); got != nil {
		t.Errorf("b still present after remove")
	}
	if c := Get(obj, "c"); c.ParentIndex != 1 {
		t.Errorf("c.ParentIndex = %d, want 1 after reindex", c.ParentIndex)
	}
	if got := obj.RemoveField("nope"); got != nil {
		t.Errorf("RemoveField(nope) = %v, want nil", got)
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"null", Null(), true},
		{"empty object", EmptyObject(), true},
		{"empty array", EmptyArray(), true},
		{"string", FromString(""), false},
		{"zero", FromInt(0), false},
		{"false", FromBool(false), false},
		{"non-empty object", FromKeyVals([]KeyVal{{Key: "a", Val: Null()}}), false},
		{"non-empty array", FromSlice([]*Node{Null()}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsPlaceholder(); got != tt.want {
				t.Errorf("IsPlaceholder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	doc := FromKeyVals([]KeyVal{
		{Key: "groups", Val: FromSlice([]*Node{
			FromKeyVals([]KeyVal{{Key: "id", Val: FromString("g1")}}),
		})},
	})
	id := Get(Get(doc, "groups").Values[0], "id")
	if got := id.Path(); got != "$.groups[0].id" {
		t.Errorf("Path() = %q, want %q", got, "$.groups[0].id")
	}
	if got := id.Root(); got != doc {
		t.Errorf("Root() != doc")
	}
}
