package astyaml

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/finlang/internal/ast"
)

func (d *decoder) expression(n *yaml.Node) (ast.Expression, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
		return d.compound(n)
	}
	return nil, d.errorf(n, "invalid expression")
}

func (d *decoder) expressions(n *yaml.Node) ([]ast.Expression, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of expressions")
	}
	out := make([]ast.Expression, 0, len(n.Content))
	for _, item := range n.Content {
		e, err := d.expression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) scalar(n *yaml.Node) (ast.Expression, error) {
	switch n.Tag {
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, d.errorf(n, "integer out of range: %s", n.Value)
		}
		return &ast.IntegerLiteral{Token: d.tok(n), Value: v}, nil
	case "!!bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, d.errorf(n, "invalid boolean: %s", n.Value)
		}
		return &ast.BooleanLiteral{Token: d.tok(n), Value: v}, nil
	case "!!str":
		return d.path(n), nil
	}
	return nil, d.errorf(n, "invalid expression %q", n.Value)
}

// path turns a.b.c into nested member accesses on the identifier a.
func (d *decoder) path(n *yaml.Node) ast.Expression {
	parts := strings.Split(n.Value, ".")
	tok := d.tok(n)
	tok.Lexeme = parts[0]
	var expr ast.Expression = &ast.Identifier{Token: tok, Value: parts[0]}
	for _, part := range parts[1:] {
		mt := d.tok(n)
		mt.Lexeme = part
		expr = &ast.MemberExpression{
			Token:  mt,
			Object: expr,
			Member: &ast.Identifier{Token: mt, Value: part},
		}
	}
	return expr
}

func (d *decoder) compound(n *yaml.Node) (ast.Expression, error) {
	head := n.Content[0]
	value := n.Content[1]
	switch head.Value {
	case "str":
		return &ast.StringLiteral{Token: d.tok(value), Value: value.Value}, nil

	case "call":
		callee, err := d.expression(value)
		if err != nil {
			return nil, err
		}
		call := &ast.CallExpression{Token: d.tok(head), Function: callee}
		if targs := lookup(n, "type_args"); !isNull(targs) {
			if call.TypeArgs, err = d.types(targs); err != nil {
				return nil, err
			}
		}
		if call.Arguments, err = d.expressions(lookup(n, "args")); err != nil {
			return nil, err
		}
		return call, nil

	case "op":
		args, err := d.expressions(lookup(n, "args"))
		if err != nil {
			return nil, err
		}
		tok := d.tok(value)
		switch len(args) {
		case 1:
			return &ast.PrefixExpression{Token: tok, Operator: value.Value, Right: args[0]}, nil
		case 2:
			return &ast.InfixExpression{Token: tok, Left: args[0], Operator: value.Value, Right: args[1]}, nil
		}
		return nil, d.errorf(n, "operator %s takes one or two arguments", value.Value)

	case "list":
		elems, err := d.expressions(value)
		if err != nil {
			return nil, err
		}
		list := &ast.ListLiteral{Token: d.tok(head), Elements: elems}
		if of := lookup(n, "of"); !isNull(of) {
			if list.ElementType, err = d.typeExpr(of); err != nil {
				return nil, err
			}
		}
		return list, nil

	case "new":
		t, err := d.typeExpr(value)
		if err != nil {
			return nil, err
		}
		named, ok := t.(*ast.NamedType)
		if !ok {
			return nil, d.errorf(value, "a record literal needs a record type")
		}
		lit := &ast.RecordLiteral{Token: d.tok(head), Type: named}
		fields := lookup(n, "fields")
		if isNull(fields) {
			return lit, nil
		}
		if fields.Kind != yaml.MappingNode {
			return nil, d.errorf(fields, "fields must be a mapping")
		}
		for i := 0; i+1 < len(fields.Content); i += 2 {
			key := fields.Content[i]
			v, err := d.expression(fields.Content[i+1])
			if err != nil {
				return nil, err
			}
			lit.Fields = append(lit.Fields, &ast.FieldInit{Token: d.tok(key), Name: key.Value, Value: v})
		}
		return lit, nil

	case "member":
		obj, err := d.expression(value)
		if err != nil {
			return nil, err
		}
		name := lookup(n, "name")
		if isNull(name) {
			return nil, d.errorf(n, "member access without name")
		}
		return &ast.MemberExpression{
			Token:  d.tok(name),
			Object: obj,
			Member: &ast.Identifier{Token: d.tok(name), Value: name.Value},
		}, nil

	case "lambda":
		lambda := &ast.LambdaExpression{Token: d.tok(head)}
		var err error
		if lambda.Parameters, err = d.params(value); err != nil {
			return nil, err
		}
		if ret := lookup(n, "returns"); !isNull(ret) {
			if lambda.ReturnType, err = d.typeExpr(ret); err != nil {
				return nil, err
			}
		}
		body := lookup(n, "body")
		if body == nil {
			return nil, d.errorf(n, "lambda without body")
		}
		if lambda.Body, err = d.block(body); err != nil {
			return nil, err
		}
		return lambda, nil
	}
	return nil, d.errorf(head, "unknown expression %q", head.Value)
}

func (d *decoder) types(n *yaml.Node) ([]ast.Type, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of types")
	}
	out := make([]ast.Type, 0, len(n.Content))
	for _, item := range n.Content {
		t, err := d.typeExpr(item)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// typeExpr reads Int, ns.Box, 7, {List: [Int, 10]} or
// {fn: [Int], returns: Int, cost: n}.
func (d *decoder) typeExpr(n *yaml.Node) (ast.Type, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!int" {
			v, err := strconv.ParseInt(n.Value, 0, 64)
			if err != nil {
				return nil, d.errorf(n, "bound out of range: %s", n.Value)
			}
			u, err := safecast.Convert[uint64](v)
			if err != nil {
				return nil, d.errorf(n, "bound must not be negative: %s", n.Value)
			}
			return &ast.FinLiteral{Token: d.tok(n), Value: u}, nil
		}
		return &ast.NamedType{Token: d.tok(n), Path: strings.Split(n.Value, ".")}, nil

	case yaml.MappingNode:
		head := n.Content[0]
		value := n.Content[1]
		if head.Value == "fn" {
			ft := &ast.FunctionTypeExpression{Token: d.tok(head)}
			var err error
			if !isNull(value) {
				if ft.Params, err = d.types(value); err != nil {
					return nil, err
				}
			}
			if ret := lookup(n, "returns"); !isNull(ret) {
				if ft.Return, err = d.typeExpr(ret); err != nil {
					return nil, err
				}
			}
			if c := lookup(n, "cost"); !isNull(c) {
				if ft.Cost, err = d.typeExpr(c); err != nil {
					return nil, err
				}
			}
			return ft, nil
		}
		if len(n.Content) != 2 {
			return nil, d.errorf(n, "an applied type is written {Name: [args]}")
		}
		args, err := d.types(value)
		if err != nil {
			return nil, err
		}
		return &ast.NamedType{Token: d.tok(head), Path: strings.Split(head.Value, "."), Args: args}, nil
	}
	return nil, d.errorf(n, "invalid type")
}
