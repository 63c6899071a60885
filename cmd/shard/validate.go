package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	libassemble "github.com/opencontrolkit/shard/assemble"
	libvalidate "github.com/opencontrolkit/shard/validate"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		cfg.Validate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Rules == "" {
		return fmt.Errorf("%w: validate requires -r with a rules file", cli.ErrUsage)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: validate requires one argument, a root document file", cli.ErrUsage)
	}
	rules, err := libvalidate.LoadRules(cfg.Rules)
	if err != nil {
		return err
	}
	doc, err := libassemble.Assemble(args[0])
	if err != nil {
		return fmt.Errorf("error assembling %s: %w", args[0], err)
	}
	violations := libvalidate.Validate(doc, rules)
	for _, v := range violations {
		fmt.Fprintf(cc.Out, "%s\n", v)
	}
	if len(violations) > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
