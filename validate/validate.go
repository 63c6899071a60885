// Package validate evaluates expression rules against an assembled
// document. It is the schema-validation collaborator of the engines:
// assemble guarantees structure, rules judge content.
package validate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/opencontrolkit/shard/codec"
	"github.com/opencontrolkit/shard/epath"
	"github.com/opencontrolkit/shard/format"
	"github.com/opencontrolkit/shard/ir"
)

// Rule is one boolean check over a document. Expr must evaluate to
// true for a conforming document.
type Rule struct {
	Name    string `yaml:"name" json:"name"`
	Expr    string `yaml:"expr" json:"expr"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

type Violation struct {
	Rule    string
	Message string
}

func (v Violation) String() string {
	if v.Message == "" {
		return v.Rule
	}
	return v.Rule + ": " + v.Message
}

// LoadRules reads a rules file (any supported format) holding a list
// of rules.
func LoadRules(path string) ([]Rule, error) {
	node, _, err := codec.ParseFile(path)
	if err != nil {
		return nil, err
	}
	d, err := codec.Serialize(node, format.YAMLFormat)
	if err != nil {
		return nil, err
	}
	var rules []Rule
	if err := yaml.Unmarshal(d, &rules); err != nil {
		return nil, fmt.Errorf("could not decode rules %q: %w", path, err)
	}
	for i, r := range rules {
		if r.Name == "" || r.Expr == "" {
			return nil, fmt.Errorf("rule %d in %q needs name and expr", i, path)
		}
	}
	return rules, nil
}

// Validate runs every rule; a rule that fails to compile or evaluate
// counts as a violation of that rule.
func Validate(doc *ir.Node, rules []Rule) []Violation {
	env := map[string]any{
		"doc": envAny(doc),
	}
	var res []Violation
	for _, rule := range rules {
		prg, err := expr.Compile(rule.Expr, exprOpts(doc, env)...)
		if err != nil {
			res = append(res, Violation{Rule: rule.Name, Message: fmt.Sprintf("compile: %v", err)})
			continue
		}
		out, err := expr.Run(prg, env)
		if err != nil {
			res = append(res, Violation{Rule: rule.Name, Message: fmt.Sprintf("eval: %v", err)})
			continue
		}
		ok, isBool := out.(bool)
		if !isBool {
			res = append(res, Violation{Rule: rule.Name, Message: fmt.Sprintf("expr yields %T, want bool", out)})
			continue
		}
		if !ok {
			res = append(res, Violation{Rule: rule.Name, Message: rule.Message})
		}
	}
	return res
}

func exprOpts(doc *ir.Node, env map[string]any) []expr.Option {
	return []expr.Option{
		expr.Env(env),
		expr.Function("getpath", func(params ...any) (any, error) {
			path, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("getpath wants a string, got %T", params[0])
			}
			p, err := epath.Parse(path)
			if err != nil {
				return nil, err
			}
			res, err := epath.Resolve(doc, p)
			if err != nil {
				return nil, err
			}
			return envAny(res.Node), nil
		},
			new(func(string) any)),
		expr.Function("haspath", func(params ...any) (any, error) {
			path, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("haspath wants a string, got %T", params[0])
			}
			p, err := epath.Parse(path)
			if err != nil {
				return nil, err
			}
			_, err = epath.Resolve(doc, p)
			return err == nil, nil
		},
			new(func(string) bool)),
	}
}

func envAny(node *ir.Node) any {
	switch node.Type {
	case ir.ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i := range node.Fields {
			res[node.Fields[i].String] = envAny(node.Values[i])
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = envAny(elt)
		}
		return res
	case ir.StringType:
		return node.String
	case ir.NumberType:
		if node.Int64 != nil {
			return int(*node.Int64)
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		return node.Number
	case ir.BoolType:
		return node.Bool
	case ir.NullType:
		return nil
	default:
		panic("impossible production")
	}
}
