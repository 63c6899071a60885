package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/opencontrolkit/shard/epath"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, an element path", cli.ErrUsage)
	}
	p, err := epath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
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
		res, err := epath.Resolve(doc, p)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", arg, p, err)
		}
		if err := putObj(cfg.MainConfig, cc.Out, res.Node, fmat); err != nil {
			return err
		}
	}
	return nil
}
