package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/opencontrolkit/shard/ir"
)

// encodeJSON writes node as indented JSON preserving field order, which
// encoding/json would not do for maps.
func encodeJSON(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, node, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, node *ir.Node, depth int) error {
	switch node.Type {
	case ir.NullType:
		buf.WriteString("null")
	case ir.BoolType:
		buf.WriteString(strconv.FormatBool(node.Bool))
	case ir.NumberType:
		return writeJSONNumber(buf, node)
	case ir.StringType:
		d, err := json.Marshal(node.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case ir.ArrayType:
		if len(node.Values) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, elt := range node.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeIndent(buf, depth+1)
			if err := writeJSON(buf, elt, depth+1); err != nil {
				return err
			}
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i := range node.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeIndent(buf, depth+1)
			d, err := json.Marshal(node.Fields[i].String)
			if err != nil {
				return err
			}
			buf.Write(d)
			buf.WriteString(": ")
			if err := writeJSON(buf, node.Values[i], depth+1); err != nil {
				return err
			}
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: type %s", ErrUnsupported, node.Type)
	}
	return nil
}

func writeJSONNumber(buf *bytes.Buffer, node *ir.Node) error {
	if node.Int64 != nil {
		buf.WriteString(strconv.FormatInt(*node.Int64, 10))
		return nil
	}
	if node.Float64 != nil {
		f := *node.Float64
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v is not a JSON number", ErrUnsupported, f)
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		return nil
	}
	if node.Number == "" {
		return fmt.Errorf("%w: empty number", ErrUnsupported)
	}
	buf.WriteString(node.Number)
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	for range depth {
		buf.WriteString("  ")
	}
}
