package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	libmerge "github.com/opencontrolkit/shard/merge"
)

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: merge requires sources and a destination file", cli.ErrUsage)
	}
	sources, dest := args[:len(args)-1], args[len(args)-1]
	if err := libmerge.Merge(sources, dest); err != nil {
		return fmt.Errorf("error merging into %s: %w", dest, err)
	}
	return nil
}
