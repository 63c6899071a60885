// Package patch applies JSON patches to documents by round-tripping
// through the JSON codec, so a patched document stays a tree value.
package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

// Merge applies an RFC 7386 merge patch.
func Merge(doc, mergePatch *ir.Node) (*ir.Node, error) {
	docD, err := codec.Serialize(doc, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	patchD, err := codec.Serialize(mergePatch, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(docD, patchD)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return codec.Parse(out, format.JSONFormat)
}

// Apply applies an RFC 6902 operation list.
func Apply(doc, ops *ir.Node) (*ir.Node, error) {
	if ops.Type != ir.ArrayType {
		return nil, fmt.Errorf("patch operations must be an array, got %s", ops.Type)
	}
	opsD, err := codec.Serialize(ops, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	decoded, err := jsonpatch.DecodePatch(opsD)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	docD, err := codec.Serialize(doc, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	out, err := decoded.Apply(docD)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return codec.Parse(out, format.JSONFormat)
}
