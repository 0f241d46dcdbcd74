// Package finlang is the embedding API: a host program feeds it units and
// asks what they cost and how their functions are typed.
package finlang

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/funvibe/finlang/internal/analyzer"
	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/astyaml"
	"github.com/funvibe/finlang/internal/config"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/transport"
)

// Architecture describes the target a Checker admits units for.
type Architecture = config.Architecture

// LoadArchitecture reads an architecture YAML file.
func LoadArchitecture(path string) (*Architecture, error) {
	return config.LoadArchitecture(path)
}

// Signature is a transport-safe function signature.
type Signature = transport.FunctionSignature

// Checker accumulates units into one program. Units see the declarations
// of the units added before them.
type Checker struct {
	program *analyzer.Program
}

// Option configures a Checker.
type Option func(*options)

type options struct {
	arch   *config.Architecture
	logger *log.Logger
}

// WithArchitecture sets the target. The default architecture is used
// otherwise.
func WithArchitecture(arch *Architecture) Option {
	return func(o *options) { o.arch = arch }
}

// WithTrace logs each analysis phase to stderr.
func WithTrace() Option {
	return func(o *options) { o.logger = log.New(os.Stderr, "finlang: ", 0) }
}

// WithLogger logs each analysis phase to logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates an empty Checker.
func New(opts ...Option) *Checker {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var aopts []analyzer.Option
	if o.logger != nil {
		aopts = append(aopts, analyzer.WithLogger(o.logger))
	}
	return &Checker{program: analyzer.NewProgram(o.arch, aopts...)}
}

// Report summarises an accepted unit.
type Report struct {
	ID        string
	File      string
	Namespace string
	Cost      uint64
	Ceiling   uint64
	Functions []string
}

// Diagnostic is one problem found in a rejected unit.
type Diagnostic struct {
	Code    string
	Family  string
	Phase   string
	File    string
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: error [%s]: %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// Diagnostics unpacks the error returned by AddUnit. Errors that are not
// analysis failures yield nil.
func Diagnostics(err error) []Diagnostic {
	var agg *diagnostics.AggregateError
	if !errors.As(err, &agg) {
		return nil
	}
	out := make([]Diagnostic, len(agg.Errors))
	for i, e := range agg.Errors {
		out[i] = Diagnostic{
			Code:    string(e.Code),
			Family:  e.Code.Family(),
			Phase:   agg.Phase,
			File:    e.Token.File,
			Line:    e.Token.Line,
			Column:  e.Token.Column,
			Message: e.Message,
		}
	}
	return out
}

// AddUnit decodes one YAML unit and adds it.
func (c *Checker) AddUnit(src []byte, file string) (*Report, error) {
	unit, err := astyaml.Decode(src, file)
	if err != nil {
		return nil, err
	}
	return c.add(unit)
}

// AddFile adds every unit of a YAML file, stopping at the first rejected
// one.
func (c *Checker) AddFile(path string) ([]*Report, error) {
	units, err := astyaml.Load(path)
	if err != nil {
		return nil, err
	}
	var reports []*Report
	for _, unit := range units {
		r, err := c.add(unit)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (c *Checker) add(unit *ast.Unit) (*Report, error) {
	art, err := c.program.Add(unit)
	if err != nil {
		return nil, err
	}
	r := &Report{
		ID:        art.ID.String(),
		File:      unit.File,
		Namespace: unit.NamespacePath(),
		Cost:      art.CostValue,
		Ceiling:   art.Architecture.CostCeiling,
	}
	for _, fn := range art.Functions {
		r.Functions = append(r.Functions, fn.QualifiedName())
	}
	return r, nil
}

// Signature describes a function of any accepted unit, or of the prelude,
// by dotted name.
func (c *Checker) Signature(name string) (Signature, bool) {
	fn, ok := c.program.Function(name)
	if !ok {
		return Signature{}, false
	}
	return transport.Signature(fn), true
}

// Cost is the combined cost of every accepted unit.
func (c *Checker) Cost() uint64 {
	return c.program.Cost()
}

// Program exposes the underlying program, for serving it over gRPC.
func (c *Checker) Program() *analyzer.Program {
	return c.program
}
