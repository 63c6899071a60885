package codec

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/opencontrolkit/shard/ir"
)

func fromAny(v any) (*ir.Node, error) {
	switch t := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(t), nil
	case string:
		return ir.FromString(t), nil
	case int:
		return ir.FromInt(int64(t)), nil
	case int64:
		return ir.FromInt(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return &ir.Node{Type: ir.NumberType, Number: fmt.Sprintf("%d", t)}, nil
		}
		return ir.FromInt(int64(t)), nil
	case float64:
		return ir.FromFloat(t), nil
	case time.Time:
		return ir.FromString(t.Format(time.RFC3339)), nil
	case yaml.MapSlice:
		res := &ir.Node{Type: ir.ObjectType}
		for _, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			val, err := fromAny(item.Value)
			if err != nil {
				return nil, err
			}
			res.SetField(key, val)
		}
		return res, nil
	case map[string]any:
		// unordered source; deterministic fallback
		return fromMapAny(t)
	case []map[string]any:
		// TOML arrays of tables decode with this shape
		res := &ir.Node{Type: ir.ArrayType}
		for _, elt := range t {
			val, err := fromMapAny(elt)
			if err != nil {
				return nil, err
			}
			res.Append(val)
		}
		return res, nil
	case []any:
		res := &ir.Node{Type: ir.ArrayType}
		for _, elt := range t {
			val, err := fromAny(elt)
			if err != nil {
				return nil, err
			}
			res.Append(val)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: cannot represent %T", ErrMalformed, v)
	}
}

func fromMapAny(m map[string]any) (*ir.Node, error) {
	tmp := make(map[string]*ir.Node, len(m))
	for k, v := range m {
		node, err := fromAny(v)
		if err != nil {
			return nil, err
		}
		tmp[k] = node
	}
	return ir.FromMap(tmp), nil
}

func toAny(node *ir.Node) (any, error) {
	switch node.Type {
	case ir.NullType:
		return nil, nil
	case ir.BoolType:
		return node.Bool, nil
	case ir.StringType:
		return node.String, nil
	case ir.NumberType:
		if node.Int64 != nil {
			return *node.Int64, nil
		}
		if node.Float64 != nil {
			return *node.Float64, nil
		}
		return node.Number, nil
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			v, err := toAny(elt)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i := range node.Fields {
			v, err := toAny(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[i] = yaml.MapItem{Key: node.Fields[i].String, Value: v}
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: type %s", ErrUnsupported, node.Type)
	}
}
