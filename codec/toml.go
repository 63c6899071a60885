package codec

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/opencontrolkit/shard/ir"
)

// parseTOML decodes into an unordered map and then restores key order
// from the decoder metadata, since TOML decoding alone loses it.
func parseTOML(data []byte) (*ir.Node, error) {
	var v map[string]any
	md, err := toml.Decode(string(data), &v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	node, err := fromMapAny(v)
	if err != nil {
		return nil, err
	}
	orderFields(node, nil, keyOrder(md))
	return node, nil
}

func keyOrder(md toml.MetaData) map[string]int {
	order := map[string]int{}
	for i, key := range md.Keys() {
		k := strings.Join(key, "\x00")
		if _, ok := order[k]; !ok {
			order[k] = i
		}
	}
	return order
}

func orderFields(node *ir.Node, prefix []string, order map[string]int) {
	switch node.Type {
	case ir.ObjectType:
		type entry struct {
			field, value *ir.Node
			rank         int
		}
		entries := make([]entry, len(node.Fields))
		for i := range node.Fields {
			path := append(append([]string{}, prefix...), node.Fields[i].String)
			rank, ok := order[strings.Join(path, "\x00")]
			if !ok {
				rank = len(order) + i
			}
			entries[i] = entry{field: node.Fields[i], value: node.Values[i], rank: rank}
			orderFields(node.Values[i], path, order)
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].rank < entries[j].rank })
		for i, e := range entries {
			e.field.ParentIndex = i
			e.value.ParentIndex = i
			node.Fields[i] = e.field
			node.Values[i] = e.value
		}
	case ir.ArrayType:
		// array-of-table elements share one metadata path
		for _, elt := range node.Values {
			orderFields(elt, prefix, order)
		}
	}
}

func encodeTOML(node *ir.Node) ([]byte, error) {
	if node.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: TOML documents must be tables, got %s", ErrUnsupported, node.Type)
	}
	if hasNull(node) {
		return nil, fmt.Errorf("%w: TOML cannot express null", ErrUnsupported)
	}
	v, err := toPlainAny(node)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := toml.NewEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return buf.Bytes(), nil
}

func hasNull(node *ir.Node) bool {
	if node.Type == ir.NullType {
		return true
	}
	for _, v := range node.Values {
		if hasNull(v) {
			return true
		}
	}
	return false
}

// toPlainAny is toAny without MapSlice: the TOML encoder wants plain
// maps and writes keys in its own deterministic order.
func toPlainAny(node *ir.Node) (any, error) {
	switch node.Type {
	case ir.ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i := range node.Fields {
			v, err := toPlainAny(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[node.Fields[i].String] = v
		}
		return res, nil
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			v, err := toPlainAny(elt)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	default:
		return toAny(node)
	}
}
