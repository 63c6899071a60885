package epath

import (
	"fmt"

	"github.com/opencontrolkit/shard/ir"
)

// Resolution is the result of resolving a path: the addressed node and
// a mutation handle onto its location in the parent. A resolution with
// a nil Parent addresses the document root itself (expand-only).
type Resolution struct {
	Path   Path
	Parent *ir.Node
	Name   string
	Node   *ir.Node
	Expand bool
}

// Remove deletes the addressed property from its parent and returns the
// removed value.
func (r *Resolution) Remove() *ir.Node {
	if r.Parent == nil {
		panic("remove on document root")
	}
	return r.Parent.RemoveField(r.Name)
}

// Replace substitutes n at the addressed location.
func (r *Resolution) Replace(n *ir.Node) {
	if r.Parent == nil {
		panic("replace on document root")
	}
	r.Parent.SetField(r.Name, n)
	r.Node = n
}

// Resolve walks p through root. Intermediate segments must address
// object properties; the terminal segment may carry the expand marker,
// which requires a container value.
func Resolve(root *ir.Node, p Path) (*Resolution, error) {
	if len(p.Segments) == 0 {
		if !p.Expand {
			return nil, fmt.Errorf("%w: empty path", ErrPathNotFound)
		}
		if root.Type.IsLeaf() {
			return nil, fmt.Errorf("%w: document root is a %s", ErrNotExpandable, root.Type)
		}
		return &Resolution{Path: p, Node: root, Expand: true}, nil
	}
	cur := root
	for i, seg := range p.Segments[:len(p.Segments)-1] {
		if cur.Type != ir.ObjectType {
			return nil, fmt.Errorf("%w: %q addresses a %s at %q", ErrTypeMismatch,
				p, cur.Type, Path{Segments: p.Segments[:i]})
		}
		next := ir.Get(cur, seg)
		if next == nil {
			return nil, fmt.Errorf("%w: no property %q in %q", ErrPathNotFound, seg, p)
		}
		cur = next
	}
	if cur.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: %q addresses a %s", ErrTypeMismatch, p, cur.Type)
	}
	name := p.Last()
	node := ir.Get(cur, name)
	if node == nil {
		return nil, fmt.Errorf("%w: no property %q in %q", ErrPathNotFound, name, p)
	}
	if p.Expand && node.Type.IsLeaf() {
		return nil, fmt.Errorf("%w: %q is a %s", ErrNotExpandable, p, node.Type)
	}
	return &Resolution{
		Path:   p,
		Parent: cur,
		Name:   name,
		Node:   node,
		Expand: p.Expand,
	}, nil
}
