// Package codec converts between serialized document bytes and tree
// values. The engines never look at raw bytes themselves; they go
// through Parse and Serialize.
package codec

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/opencontrolkit/shard/debug"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

var (
	// ErrMalformed reports a document the codec could not decode.
	ErrMalformed = errors.New("malformed document")
	// ErrUnsupported reports a value the target format cannot express.
	ErrUnsupported = errors.New("unsupported value")
)

func Parse(data []byte, f format.Format) (*ir.Node, error) {
	switch f {
	case format.JSONFormat, format.YAMLFormat:
		var v any
		if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return fromAny(v)
	case format.TOMLFormat:
		return parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, f)
	}
}

func Serialize(node *ir.Node, f format.Format) ([]byte, error) {
	switch f {
	case format.JSONFormat:
		return encodeJSON(node)
	case format.YAMLFormat:
		v, err := toAny(node)
		if err != nil {
			return nil, err
		}
		d, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		return d, nil
	case format.TOMLFormat:
		return encodeTOML(node)
	default:
		return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, f)
	}
}

// ParseFile reads and decodes one document file, deriving the format
// from the file extension.
func ParseFile(path string) (*ir.Node, format.Format, error) {
	f, err := format.FromPath(path)
	if err != nil {
		return nil, 0, err
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read %q: %w", path, err)
	}
	node, err := Parse(d, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%q: %w", path, err)
	}
	if debug.Codec() {
		debug.Logf("codec: parsed %s (%s, %d bytes)\n", path, f, len(d))
	}
	return node, f, nil
}
