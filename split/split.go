// Package split decomposes one subtree of a document into separate
// files, leaving a resolvable remainder behind. All filesystem effects
// run through an action plan so a failure rolls the document back.
package split

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/debug"
	"github.com/opencontrolkit/shard/epath"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
	"github.com/opencontrolkit/shard/layout"
	"github.com/opencontrolkit/shard/merge"
	"github.com/opencontrolkit/shard/plan"
)

var ErrAlreadySplit = errors.New("already split")

// Split extracts the subtrees addressed by paths out of rootFile's
// document. Paths are fully qualified: their first segment names the
// document itself ("catalog.groups.*" against catalog.json).
func Split(rootFile string, paths []epath.Path) error {
	doc, fmat, err := codec.ParseFile(rootFile)
	if err != nil {
		return err
	}
	contextName := layout.BaseName(rootFile)
	docDir, promoted := layout.DocDir(rootFile)

	p := &plan.Plan{}
	for _, path := range paths {
		rel, err := epath.Chop(path, contextName)
		if err != nil {
			return err
		}
		if err := splitOne(p, doc, docDir, fmat, rel); err != nil {
			return fmt.Errorf("%q: %w", path, err)
		}
	}

	// one-time promotion of the document file into its own directory
	remainder := filepath.Join(docDir, contextName+fmat.Suffix())
	d, err := codec.Serialize(doc, fmat)
	if err != nil {
		return err
	}
	if !promoted {
		p.Add(plan.NewCreatePath(docDir))
		p.Add(plan.NewWriteFile(remainder, d))
		p.Add(plan.NewRemoveFile(rootFile))
	} else {
		p.Add(plan.NewWriteFile(rootFile, d))
	}

	if err := p.Execute(); err != nil {
		return err
	}
	return p.Cleanup()
}

func splitOne(p *plan.Plan, doc *ir.Node, docDir string, fmat format.Format, rel epath.Path) error {
	if len(rel.Segments) == 0 && rel.Expand {
		return splitRoot(p, doc, docDir, fmat)
	}
	res, err := epath.Resolve(doc, rel)
	if err != nil {
		if errors.Is(err, epath.ErrPathNotFound) && artifactExists(docDir, fmat, rel) {
			return fmt.Errorf("%w: artifacts already exist and the property is gone from the remainder", ErrAlreadySplit)
		}
		return err
	}
	targetDir := filepath.Join(append([]string{docDir}, rel.Segments[:len(rel.Segments)-1]...)...)
	if debug.Split() {
		debug.Logf("split: %s -> %s (expand=%v)\n", rel, targetDir, res.Expand)
	}

	if !res.Expand {
		return splitCollapse(p, res, targetDir, fmat)
	}
	switch res.Node.Type {
	case ir.ArrayType:
		return splitSequence(p, res, targetDir, fmat)
	case ir.ObjectType:
		return splitMapping(p, res, targetDir, fmat)
	default:
		return fmt.Errorf("%w: %s", epath.ErrNotExpandable, res.Node.Type)
	}
}

// splitRoot expands the document root: every top-level property moves
// into its own sibling file and the remainder becomes the empty-mapping
// wrapper.
func splitRoot(p *plan.Plan, doc *ir.Node, docDir string, fmat format.Format) error {
	if doc.Type != ir.ObjectType {
		return fmt.Errorf("%w: document root is a %s", epath.ErrNotExpandable, doc.Type)
	}
	names := make([]string, len(doc.Fields))
	for i, f := range doc.Fields {
		names[i] = f.String
	}
	p.Add(plan.NewCreatePath(docDir))
	for _, name := range names {
		if err := layout.CheckKey(name); err != nil {
			return err
		}
		artifact := filepath.Join(docDir, name+fmat.Suffix())
		val := ir.Get(doc, name)
		if err := checkAlreadySplit(artifact, val); err != nil {
			return err
		}
		d, err := codec.Serialize(val, fmat)
		if err != nil {
			return err
		}
		p.Add(plan.NewWriteFile(artifact, d))
		doc.RemoveField(name)
	}
	return nil
}

func splitCollapse(p *plan.Plan, res *epath.Resolution, targetDir string, fmat format.Format) error {
	artifact := filepath.Join(targetDir, res.Name+fmat.Suffix())
	if err := checkAlreadySplit(artifact, res.Node); err != nil {
		return err
	}
	d, err := codec.Serialize(res.Node, fmat)
	if err != nil {
		return err
	}
	p.Add(plan.NewCreatePath(targetDir))
	p.Add(plan.NewWriteFile(artifact, d))
	res.Remove()
	return nil
}

func splitSequence(p *plan.Plan, res *epath.Resolution, targetDir string, fmat format.Format) error {
	dir := filepath.Join(targetDir, res.Name)
	if err := checkAlreadySplitDir(dir, res.Node); err != nil {
		return err
	}
	p.Add(plan.NewCreatePath(dir))
	wd, err := codec.Serialize(ir.EmptyArray(), fmat)
	if err != nil {
		return err
	}
	p.Add(plan.NewWriteFile(filepath.Join(dir, layout.WrapperName(res.Name, fmat)), wd))
	for i, item := range res.Node.Values {
		d, err := codec.Serialize(item, fmat)
		if err != nil {
			return err
		}
		p.Add(plan.NewWriteFile(filepath.Join(dir, layout.ItemName(i, res.Name, fmat)), d))
	}
	res.Remove()
	return nil
}

func splitMapping(p *plan.Plan, res *epath.Resolution, targetDir string, fmat format.Format) error {
	dir := filepath.Join(targetDir, res.Name)
	if err := checkAlreadySplitDir(dir, res.Node); err != nil {
		return err
	}
	p.Add(plan.NewCreatePath(dir))
	wd, err := codec.Serialize(ir.EmptyObject(), fmat)
	if err != nil {
		return err
	}
	p.Add(plan.NewWriteFile(filepath.Join(dir, layout.WrapperName(res.Name, fmat)), wd))
	for i := range res.Node.Fields {
		key := res.Node.Fields[i].String
		name, err := layout.EntryName(key, res.Name, fmat)
		if err != nil {
			return err
		}
		d, err := codec.Serialize(res.Node.Values[i], fmat)
		if err != nil {
			return err
		}
		p.Add(plan.NewWriteFile(filepath.Join(dir, name), d))
	}
	res.Remove()
	return nil
}

// checkAlreadySplit guards a collapse destination: writing identical
// content again is a no-op, anything else refuses rather than clobber
// hand-edited files.
func checkAlreadySplit(artifact string, val *ir.Node) error {
	if _, err := os.Stat(artifact); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not stat %q: %w", artifact, err)
	}
	existing, _, err := codec.ParseFile(artifact)
	if err != nil {
		return fmt.Errorf("%w: %q exists and cannot be compared: %v", ErrAlreadySplit, artifact, err)
	}
	if !ir.Equal(existing, val) {
		return fmt.Errorf("%w: %q exists with different content", ErrAlreadySplit, artifact)
	}
	return nil
}

func checkAlreadySplitDir(dir string, val *ir.Node) error {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not stat %q: %w", dir, err)
	}
	_, existing, err := merge.LoadSource(dir)
	if err != nil {
		return fmt.Errorf("%w: %q exists and cannot be recomposed: %v", ErrAlreadySplit, dir, err)
	}
	if !ir.Equal(existing, val) {
		return fmt.Errorf("%w: %q exists with different content", ErrAlreadySplit, dir)
	}
	return nil
}

// artifactExists reports whether some on-disk artifact already answers
// for the terminal property of rel.
func artifactExists(docDir string, fmat format.Format, rel epath.Path) bool {
	if len(rel.Segments) == 0 {
		return false
	}
	base := filepath.Join(append([]string{docDir}, rel.Segments...)...)
	if _, err := os.Stat(base); err == nil {
		return true
	}
	if _, err := os.Stat(base + fmat.Suffix()); err == nil {
		return true
	}
	return false
}
