// Package assemble recomposes a whole split document tree back into a
// single in-memory value, merging bottom-up. It checks structural
// completeness only; semantic validation belongs to the caller.
package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/debug"
	"github.com/opencontrolkit/shard/ir"
	"github.com/opencontrolkit/shard/layout"
	"github.com/opencontrolkit/shard/merge"
)

// Assemble reconstructs the document rooted at rootFile. Violations
// found while recursing are aggregated so every missing or duplicate
// artifact surfaces in one pass; any violation makes the whole result
// an ErrIncompleteAssembly.
func Assemble(rootFile string) (*ir.Node, error) {
	doc, _, err := codec.ParseFile(rootFile)
	if err != nil {
		return nil, err
	}
	docDir, promoted := layout.DocDir(rootFile)
	if !promoted {
		// never split; the file is the whole document
		return doc, nil
	}
	if debug.Assemble() {
		debug.Logf("assemble: %s from %s\n", rootFile, docDir)
	}
	var violations []error
	assembleInto(doc, docDir, &violations)
	if len(violations) > 0 {
		return nil, fmt.Errorf("%w:\n%w", merge.ErrIncompleteAssembly, errors.Join(violations...))
	}
	return doc, nil
}

// assembleInto overlays every split artifact under dir onto obj,
// recursing depth-first so children complete before their parents.
func assembleInto(obj *ir.Node, dir string, violations *[]error) {
	_, children, err := merge.ScanDir(dir)
	if err != nil {
		*violations = append(*violations, err)
		return
	}
	for _, c := range children {
		name := c.Base
		if strings.Contains(name, layout.Sep) {
			*violations = append(*violations,
				fmt.Errorf("%q: unexpected expanded artifact %q under an object", dir, name))
			continue
		}
		if c.IsDir && !merge.HasOwnWrapper(c.Path) {
			existing := ir.Get(obj, name)
			if existing == nil {
				existing = ir.EmptyObject()
				obj.SetField(name, existing)
			}
			if existing.Type != ir.ObjectType {
				*violations = append(*violations,
					fmt.Errorf("%q: overlays a %s property", c.Path, existing.Type))
				continue
			}
			assembleInto(existing, c.Path, violations)
			continue
		}
		_, node, err := merge.LoadSourceStrict(c.Path)
		if err != nil {
			*violations = append(*violations, err)
			continue
		}
		if err := merge.InsertProperty(obj, name, node); err != nil {
			*violations = append(*violations, fmt.Errorf("%q: %w", c.Path, err))
		}
	}
}
