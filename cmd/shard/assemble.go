package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	libassemble "github.com/opencontrolkit/shard/assemble"
	"github.com/opencontrolkit/shard/format"
)

func assemble(cfg *AssembleConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Assemble.Parse(cc, args)
	if err != nil {
		cfg.Assemble.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: assemble requires one argument, a root document file", cli.ErrUsage)
	}
	doc, err := libassemble.Assemble(args[0])
	if err != nil {
		return fmt.Errorf("error assembling %s: %w", args[0], err)
	}
	fmat, err := format.FromPath(args[0])
	if err != nil {
		return err
	}
	return putObj(cfg.MainConfig, cc.Out, doc, fmat)
}
