package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

// getObjFile reads and parses path, with "-" standing for the command
// input. It reports the format the document came in so commands can
// default their output to it.
func getObjFile(cfg *MainConfig, cc *cli.Context, path string) (*ir.Node, format.Format, error) {
	if path != "-" {
		return codec.ParseFile(path)
	}
	d, err := io.ReadAll(cc.In)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading input: %w", err)
	}
	fmat := cfg.inFormat()
	node, err := codec.Parse(d, fmat)
	if err != nil {
		return nil, 0, err
	}
	return node, fmat, nil
}

func putObj(cfg *MainConfig, w io.Writer, node *ir.Node, in format.Format) error {
	d, err := codec.Serialize(node, cfg.outFormat(in))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
