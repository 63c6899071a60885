package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/debug"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
	"github.com/opencontrolkit/shard/layout"
)

// LoadSource reconstructs the property value a split artifact stands
// for: a file parses to its content, a directory recomposes from its
// wrapper/remainder and children. The returned name is the property the
// value belongs under.
func LoadSource(path string) (string, *ir.Node, error) {
	return loadSource(path, false)
}

// LoadSourceStrict is LoadSource with assemble's completeness rules:
// expanded sequences must have contiguous indices starting at zero and
// at least one item.
func LoadSourceStrict(path string) (string, *ir.Node, error) {
	return loadSource(path, true)
}

func loadSource(path string, strict bool) (string, *ir.Node, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("could not stat source %q: %w", path, err)
	}
	if !st.IsDir() {
		node, _, err := codec.ParseFile(path)
		if err != nil {
			return "", nil, err
		}
		return layout.BaseName(path), node, nil
	}
	name := filepath.Base(path)
	node, err := loadDir(path, strict)
	if err != nil {
		return "", nil, err
	}
	return name, node, nil
}

// DirEntry is one artifact inside a split directory.
type DirEntry struct {
	Path  string
	Base  string // name without extension
	IsDir bool
}

func loadDir(dir string, strict bool) (*ir.Node, error) {
	base, children, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, fmt.Errorf("%w: %q has no %s file", ErrIncompleteAssembly, dir, filepath.Base(dir))
	}
	if debug.Merge() {
		debug.Logf("merge: load dir %s (%s, %d children)\n", dir, base.Type, len(children))
	}
	switch base.Type {
	case ir.ArrayType:
		return loadSequenceDir(dir, base, children, strict)
	case ir.ObjectType:
		if len(base.Fields) == 0 && expandedEntries(children) {
			return loadMappingDir(dir, children, strict)
		}
		return loadObjectDir(dir, base, children, strict)
	default:
		return nil, fmt.Errorf("%w: %q wraps a %s but contains %d split artifacts",
			ErrIncompleteAssembly, dir, base.Type, len(children))
	}
}

// ScanDir parses the directory's own wrapper/remainder file and lists
// the remaining artifacts, ignoring hidden files and plan backups.
func ScanDir(dir string) (*ir.Node, []DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("could not list %q: %w", dir, err)
	}
	self := filepath.Base(dir)
	var base *ir.Node
	var children []DirEntry
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".removed") {
			continue
		}
		p := filepath.Join(dir, name)
		if !e.IsDir() && !format.IsKnownSuffix(filepath.Ext(name)) {
			continue
		}
		bn := layout.BaseName(p)
		if !e.IsDir() && bn == self {
			node, _, err := codec.ParseFile(p)
			if err != nil {
				return nil, nil, err
			}
			base = node
			continue
		}
		children = append(children, DirEntry{Path: p, Base: bn, IsDir: e.IsDir()})
	}
	return base, children, nil
}

func expandedEntries(children []DirEntry) bool {
	for _, c := range children {
		if strings.Contains(c.Base, layout.Sep) {
			return true
		}
	}
	return false
}

func loadSequenceDir(dir string, base *ir.Node, children []DirEntry, strict bool) (*ir.Node, error) {
	if len(base.Values) != 0 {
		return nil, fmt.Errorf("%w: wrapper %q is not empty", ErrIncompleteAssembly, dir)
	}
	type item struct {
		index int
		path  string
		node  *ir.Node
	}
	items := make([]item, 0, len(children))
	byIndex := map[int]string{}
	for _, c := range children {
		prefix, _, err := layout.SplitName(c.Base)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", dir, err)
		}
		index, err := layout.ParseIndex(prefix)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", dir, err)
		}
		if prior, ok := byIndex[index]; ok {
			return nil, fmt.Errorf("%w: index %d from both %q and %q",
				ErrDuplicateIndex, index, prior, c.Path)
		}
		byIndex[index] = c.Path
		_, node, err := loadSource(c.Path, strict)
		if err != nil {
			return nil, err
		}
		items = append(items, item{index: index, path: c.Path, node: node})
	}
	// index value is the sole source of order
	sort.Slice(items, func(i, j int) bool { return items[i].index < items[j].index })
	if strict {
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: %q has an empty wrapper and no item files",
				ErrIncompleteAssembly, dir)
		}
		for i, it := range items {
			if it.index != i {
				return nil, fmt.Errorf("%w: %q is missing item %d (found index %d)",
					ErrIncompleteAssembly, dir, i, it.index)
			}
		}
	}
	res := ir.EmptyArray()
	for _, it := range items {
		res.Append(it.node)
	}
	return res, nil
}

func loadMappingDir(dir string, children []DirEntry, strict bool) (*ir.Node, error) {
	type entry struct {
		key  string
		path string
		node *ir.Node
	}
	es := make([]entry, 0, len(children))
	byKey := map[string]string{}
	for _, c := range children {
		key, _, err := layout.SplitName(c.Base)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", dir, err)
		}
		if prior, ok := byKey[key]; ok {
			return nil, fmt.Errorf("%w: key %q from both %q and %q",
				ErrDuplicateKey, key, prior, c.Path)
		}
		byKey[key] = c.Path
		_, node, err := loadSource(c.Path, strict)
		if err != nil {
			return nil, err
		}
		es = append(es, entry{key: key, path: c.Path, node: node})
	}
	// lexical key order keeps recomposition deterministic
	sort.Slice(es, func(i, j int) bool { return es[i].key < es[j].key })
	res := ir.EmptyObject()
	for _, e := range es {
		res.SetField(e.key, e.node)
	}
	return res, nil
}

// loadObjectDir recomposes a promoted object: the remainder file plus
// one artifact per split-out property.
func loadObjectDir(dir string, base *ir.Node, children []DirEntry, strict bool) (*ir.Node, error) {
	for _, c := range children {
		if strings.Contains(c.Base, layout.Sep) {
			return nil, fmt.Errorf("%w: %q mixes remainder and expanded artifacts (%q)",
				ErrIncompleteAssembly, dir, c.Base)
		}
		if c.IsDir && !HasOwnWrapper(c.Path) {
			// partial overlay: the property is still in the remainder,
			// minus whatever was split out beneath it
			existing := ir.Get(base, c.Base)
			if existing == nil {
				existing = ir.EmptyObject()
				base.SetField(c.Base, existing)
			}
			if existing.Type != ir.ObjectType {
				return nil, fmt.Errorf("%w: %q overlays a %s property %q",
					ErrIncompleteAssembly, c.Path, existing.Type, c.Base)
			}
			overlaid, err := loadObjectDirInto(existing, c.Path, strict)
			if err != nil {
				return nil, err
			}
			base.SetField(c.Base, overlaid)
			continue
		}
		_, node, err := loadSource(c.Path, strict)
		if err != nil {
			return nil, err
		}
		if err := InsertProperty(base, c.Base, node); err != nil {
			return nil, fmt.Errorf("%q: %w", c.Path, err)
		}
	}
	return base, nil
}

func loadObjectDirInto(base *ir.Node, dir string, strict bool) (*ir.Node, error) {
	_, children, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}
	return loadObjectDir(dir, base, children, strict)
}

func HasOwnWrapper(dir string) bool {
	self := filepath.Base(dir)
	for _, f := range format.AllFormats() {
		if _, err := os.Stat(filepath.Join(dir, self+f.Suffix())); err == nil {
			return true
		}
	}
	return false
}

// InsertProperty sets name to val in obj, refusing to overwrite data
// already present. Placeholders (null, empty containers) are replaced.
func InsertProperty(obj *ir.Node, name string, val *ir.Node) error {
	existing := ir.Get(obj, name)
	if existing != nil && !existing.IsPlaceholder() {
		return fmt.Errorf("%w: %q already holds a %s", ErrConflictingProperty, name, existing.Type)
	}
	obj.SetField(name, val)
	return nil
}
