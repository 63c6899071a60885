package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/opencontrolkit/shard/ir"
	libpatch "github.com/opencontrolkit/shard/patch"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires one argument, a patch file", cli.ErrUsage)
	}
	p, _, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	args = args[1:]
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		doc, fmat, err := getObjFile(cfg.MainConfig, cc, arg)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		var res *ir.Node
		if cfg.MergePatch {
			res, err = libpatch.Merge(doc, p)
		} else {
			res, err = applyOps(doc, p)
		}
		if err != nil {
			return fmt.Errorf("error patching %s: %w", arg, err)
		}
		if err := putObj(cfg.MainConfig, cc.Out, res, fmat); err != nil {
			return err
		}
	}
	return nil
}

// applyOps treats an object patch argument as a merge patch anyway, so
// '{a: 1}' does the obvious thing without -m.
func applyOps(doc, p *ir.Node) (*ir.Node, error) {
	if p.Type == ir.ObjectType {
		return libpatch.Merge(doc, p)
	}
	return libpatch.Apply(doc, p)
}
