package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
	"github.com/opencontrolkit/shard/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	from, _, err := getObjFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	to, _, err := getObjFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	deltas := libdiff.Diff(from, to)
	if len(deltas) == 0 {
		return nil
	}
	if err := writeDeltas(cfg, cc.Out, deltas); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func writeDeltas(cfg *DiffConfig, w io.Writer, deltas []libdiff.Delta) error {
	add := color.New(color.FgGreen)
	remove := color.New(color.FgRed)
	change := color.New(color.FgYellow)
	if !cfg.colorize(w) {
		for _, c := range []*color.Color{add, remove, change} {
			c.DisableColor()
		}
	}
	for _, d := range deltas {
		switch d.Kind {
		case libdiff.Add:
			add.Fprintf(w, "+ %s: %s\n", d.Path, oneLine(d.To))
		case libdiff.Remove:
			remove.Fprintf(w, "- %s: %s\n", d.Path, oneLine(d.From))
		case libdiff.Change:
			if d.Text != "" {
				change.Fprintf(w, "~ %s:\n%s\n", d.Path, d.Text)
				continue
			}
			change.Fprintf(w, "~ %s: %s -> %s\n", d.Path, oneLine(d.From), oneLine(d.To))
		}
	}
	return nil
}

func oneLine(node *ir.Node) string {
	if node == nil {
		return "<none>"
	}
	if node.Type.IsLeaf() {
		d, err := codec.Serialize(node, format.JSONFormat)
		if err == nil {
			return strings.TrimSpace(string(d))
		}
	}
	return "<" + node.Type.String() + ">"
}
