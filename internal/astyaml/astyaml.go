// Package astyaml decodes parsed compilation units from YAML. Parsing the
// surface syntax happens elsewhere; this format is how a front end, a test,
// or the command line hands a finished tree to the analyzer.
//
// A unit looks like:
//
//	namespace: demo.math
//	body:
//	  - fun: twice
//	    type_params: [{n: Fin}]
//	    params: [{xs: {List: [Int, n]}}]
//	    returns: Int
//	    body:
//	      - for: x
//	        in: xs
//	        do: [{call: tick}]
//	      - return: 0
//
// Scalars in expression position are integer and boolean literals or
// (dotted) identifiers; strings are written {str: text}.
package astyaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/token"
)

// Load reads every unit in a YAML file. Documents are separated by ---.
func Load(path string) ([]*ast.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", path, err)
	}
	return DecodeAll(data, path)
}

// Decode reads exactly one unit.
func Decode(data []byte, file string) (*ast.Unit, error) {
	units, err := DecodeAll(data, file)
	if err != nil {
		return nil, err
	}
	if len(units) != 1 {
		return nil, fmt.Errorf("%s: expected one unit, found %d", file, len(units))
	}
	return units[0], nil
}

// DecodeAll reads a stream of units.
func DecodeAll(data []byte, file string) ([]*ast.Unit, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	d := &decoder{file: file}
	var units []*ast.Unit
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		unit, err := d.unit(doc.Content[0])
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

type decoder struct {
	file string
}

func (d *decoder) tok(n *yaml.Node) token.Token {
	return token.Token{File: d.file, Line: n.Line, Column: n.Column, Lexeme: n.Value}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d:%d: %s", d.file, n.Line, n.Column, fmt.Sprintf(format, args...))
}

func lookup(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func firstKey(n *yaml.Node) string {
	if n.Kind != yaml.MappingNode || len(n.Content) == 0 {
		return ""
	}
	return n.Content[0].Value
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func (d *decoder) unit(n *yaml.Node) (*ast.Unit, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "a unit must be a mapping")
	}
	unit := &ast.Unit{Token: d.tok(n), File: d.file}
	if ns := lookup(n, "namespace"); !isNull(ns) {
		if ns.Value != "" {
			unit.Namespace = strings.Split(ns.Value, ".")
		}
	}
	body := lookup(n, "body")
	if body == nil {
		return unit, nil
	}
	stmts, err := d.statements(body)
	if err != nil {
		return nil, err
	}
	unit.Statements = stmts
	return unit, nil
}

func (d *decoder) statements(n *yaml.Node) ([]ast.Statement, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of statements")
	}
	out := make([]ast.Statement, 0, len(n.Content))
	for _, item := range n.Content {
		stmt, err := d.statement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (d *decoder) block(n *yaml.Node) (*ast.Block, error) {
	stmts, err := d.statements(n)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Token: d.tok(n), Statements: stmts}, nil
}

func (d *decoder) statement(n *yaml.Node) (ast.Statement, error) {
	switch firstKey(n) {
	case "fun":
		return d.function(n)
	case "record":
		return d.record(n)
	case "let":
		return d.let(n)
	case "set":
		value, err := d.requiredExpr(n, "value")
		if err != nil {
			return nil, err
		}
		target := n.Content[1]
		return &ast.AssignStatement{
			Token:  d.tok(n.Content[0]),
			Target: &ast.Identifier{Token: d.tok(target), Value: target.Value},
			Value:  value,
		}, nil
	case "return":
		stmt := &ast.ReturnStatement{Token: d.tok(n.Content[0])}
		if v := n.Content[1]; !isNull(v) {
			value, err := d.expression(v)
			if err != nil {
				return nil, err
			}
			stmt.Value = value
		}
		return stmt, nil
	case "if":
		return d.ifStatement(n)
	case "for":
		return d.forEach(n)
	case "block":
		return d.block(n.Content[1])
	}
	expr, err := d.expression(n)
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Token: d.tok(n), Expression: expr}, nil
}

func (d *decoder) function(n *yaml.Node) (*ast.FunctionDeclaration, error) {
	name := n.Content[1]
	fn := &ast.FunctionDeclaration{
		Token: d.tok(n.Content[0]),
		Name:  &ast.Identifier{Token: d.tok(name), Value: name.Value},
	}
	var err error
	if fn.TypeParams, err = d.typeParams(lookup(n, "type_params")); err != nil {
		return nil, err
	}
	if fn.Parameters, err = d.params(lookup(n, "params")); err != nil {
		return nil, err
	}
	if ret := lookup(n, "returns"); !isNull(ret) {
		if fn.ReturnType, err = d.typeExpr(ret); err != nil {
			return nil, err
		}
	}
	body := lookup(n, "body")
	if body == nil {
		return nil, d.errorf(n, "function %s has no body", name.Value)
	}
	if fn.Body, err = d.block(body); err != nil {
		return nil, err
	}
	return fn, nil
}

func (d *decoder) record(n *yaml.Node) (*ast.RecordDeclaration, error) {
	name := n.Content[1]
	rec := &ast.RecordDeclaration{
		Token: d.tok(n.Content[0]),
		Name:  &ast.Identifier{Token: d.tok(name), Value: name.Value},
	}
	var err error
	if rec.TypeParams, err = d.typeParams(lookup(n, "type_params")); err != nil {
		return nil, err
	}
	fields := lookup(n, "fields")
	if isNull(fields) {
		return rec, nil
	}
	err = d.pairs(fields, func(key *yaml.Node, t ast.Type) {
		rec.Fields = append(rec.Fields, &ast.FieldDeclaration{Token: d.tok(key), Name: key.Value, Type: t})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (d *decoder) let(n *yaml.Node) (*ast.LetStatement, error) {
	name := n.Content[1]
	stmt := &ast.LetStatement{
		Token: d.tok(n.Content[0]),
		Name:  &ast.Identifier{Token: d.tok(name), Value: name.Value},
	}
	if mut := lookup(n, "mut"); mut != nil {
		b, err := strconv.ParseBool(mut.Value)
		if err != nil {
			return nil, d.errorf(mut, "mut must be a boolean")
		}
		stmt.Mutable = b
	}
	var err error
	if t := lookup(n, "type"); !isNull(t) {
		if stmt.Type, err = d.typeExpr(t); err != nil {
			return nil, err
		}
	}
	if stmt.Value, err = d.requiredExpr(n, "value"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *decoder) ifStatement(n *yaml.Node) (*ast.IfStatement, error) {
	cond, err := d.expression(n.Content[1])
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Token: d.tok(n.Content[0]), Condition: cond}
	then := lookup(n, "then")
	if then == nil {
		return nil, d.errorf(n, "if without then")
	}
	if stmt.Consequence, err = d.block(then); err != nil {
		return nil, err
	}
	if alt := lookup(n, "else"); alt != nil {
		if stmt.Alternative, err = d.block(alt); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (d *decoder) forEach(n *yaml.Node) (*ast.ForEachStatement, error) {
	name := n.Content[1]
	iterable, err := d.requiredExpr(n, "in")
	if err != nil {
		return nil, err
	}
	body := lookup(n, "do")
	if body == nil {
		return nil, d.errorf(n, "for without do")
	}
	block, err := d.block(body)
	if err != nil {
		return nil, err
	}
	return &ast.ForEachStatement{
		Token:    d.tok(n.Content[0]),
		Variable: &ast.Identifier{Token: d.tok(name), Value: name.Value},
		Iterable: iterable,
		Body:     block,
	}, nil
}

func (d *decoder) requiredExpr(n *yaml.Node, key string) (ast.Expression, error) {
	v := lookup(n, key)
	if isNull(v) {
		return nil, d.errorf(n, "missing %s", key)
	}
	return d.expression(v)
}

func (d *decoder) typeParams(n *yaml.Node) ([]*ast.TypeParameter, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "type_params must be a list")
	}
	out := make([]*ast.TypeParameter, 0, len(n.Content))
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, &ast.TypeParameter{Token: d.tok(item), Name: item.Value})
		case yaml.MappingNode:
			if len(item.Content) != 2 || item.Content[1].Value != "Fin" {
				return nil, d.errorf(item, "a bounded type parameter is written {name: Fin}")
			}
			key := item.Content[0]
			out = append(out, &ast.TypeParameter{Token: d.tok(key), Name: key.Value, Fin: true})
		default:
			return nil, d.errorf(item, "invalid type parameter")
		}
	}
	return out, nil
}

func (d *decoder) params(n *yaml.Node) ([]*ast.Parameter, error) {
	if isNull(n) {
		return nil, nil
	}
	var out []*ast.Parameter
	err := d.pairs(n, func(key *yaml.Node, t ast.Type) {
		out = append(out, &ast.Parameter{Token: d.tok(key), Name: key.Value, Type: t})
	})
	return out, err
}

// pairs reads a list of single-key {name: Type} mappings.
func (d *decoder) pairs(n *yaml.Node, add func(key *yaml.Node, t ast.Type)) error {
	if n.Kind != yaml.SequenceNode {
		return d.errorf(n, "expected a list of {name: Type}")
	}
	for _, item := range n.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return d.errorf(item, "expected {name: Type}")
		}
		t, err := d.typeExpr(item.Content[1])
		if err != nil {
			return err
		}
		add(item.Content[0], t)
	}
	return nil
}
