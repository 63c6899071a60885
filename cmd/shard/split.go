package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/opencontrolkit/shard/epath"
	libsplit "github.com/opencontrolkit/shard/split"
)

func split(cfg *SplitConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Split.Parse(cc, args)
	if err != nil {
		cfg.Split.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Elements == "" {
		return fmt.Errorf("%w: split requires -e with element paths", cli.ErrUsage)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: split requires one argument, a document file", cli.ErrUsage)
	}
	paths, err := epath.ParseList(cfg.Elements)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if err := libsplit.Split(args[0], paths); err != nil {
		return fmt.Errorf("error splitting %s: %w", args[0], err)
	}
	return nil
}
