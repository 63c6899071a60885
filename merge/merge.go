// Package merge recomposes split artifacts back into their parent
// document, the exact inverse of split.
package merge

import (
	"fmt"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/debug"
	"github.com/opencontrolkit/shard/plan"
)

// Merge reads each source (file or directory), reconstructs the
// property value it represents, and inserts it at the property's root
// key in the destination file's document. Sources are never deleted, so
// a failed merge can simply be retried.
func Merge(sources []string, destFile string) error {
	dest, fmat, err := codec.ParseFile(destFile)
	if err != nil {
		return err
	}
	for _, src := range sources {
		name, node, err := LoadSource(src)
		if err != nil {
			return err
		}
		if debug.Merge() {
			debug.Logf("merge: %s -> %s.%s\n", src, destFile, name)
		}
		if err := InsertProperty(dest, name, node); err != nil {
			return fmt.Errorf("%q: %w", src, err)
		}
	}
	d, err := codec.Serialize(dest, fmat)
	if err != nil {
		return err
	}
	p := &plan.Plan{}
	p.Add(plan.NewWriteFile(destFile, d))
	if err := p.Execute(); err != nil {
		return err
	}
	return p.Cleanup()
}
