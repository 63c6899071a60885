package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/opencontrolkit/shard/format"
)

type MainConfig struct {
	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`
	T bool `cli:"name=t aliases=toml desc='do i/o in toml'"`

	Color bool `cli:"name=color desc='force colored output'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// inFormat gives the format for stdin input, where there is no file
// suffix to go by.
func (cfg *MainConfig) inFormat() format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	switch {
	case cfg.J:
		return format.JSONFormat
	case cfg.T:
		return format.TOMLFormat
	default:
		return format.YAMLFormat
	}
}

// outFormat gives the output format, falling back to the format the
// input came in.
func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	switch {
	case cfg.J:
		return format.JSONFormat
	case cfg.Y:
		return format.YAMLFormat
	case cfg.T:
		return format.TOMLFormat
	}
	return in
}

func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type SplitConfig struct {
	*MainConfig

	Elements string `cli:"name=e aliases=elements desc='comma separated element paths to split out'"`

	Split *cli.Command
}

type MergeConfig struct {
	*MainConfig

	Merge *cli.Command
}

type AssembleConfig struct {
	*MainConfig

	Assemble *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	MergePatch bool `cli:"name=m aliases=merge desc='apply arg as an rfc 7386 merge patch'"`

	Patch *cli.Command
}

type ValidateConfig struct {
	*MainConfig
	Rules string `cli:"name=r aliases=rules desc='rules file'"`

	Validate *cli.Command
}
