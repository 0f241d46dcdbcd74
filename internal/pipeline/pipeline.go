// Package pipeline runs named processing stages over a shared state.
package pipeline

import (
	"io"
	"log"
	"time"

	"github.com/funvibe/finlang/internal/diagnostics"
)

// Processor is one stage. It records every problem it finds in errs and
// never stops early on its own.
type Processor[S any] interface {
	Name() string
	Process(state S, errs *diagnostics.Errors)
}

// Func adapts a plain function to a Processor.
type Func[S any] struct {
	Label string
	Fn    func(state S, errs *diagnostics.Errors)
}

func (f Func[S]) Name() string { return f.Label }

func (f Func[S]) Process(state S, errs *diagnostics.Errors) { f.Fn(state, errs) }

// Pipeline represents a sequence of processing stages.
type Pipeline[S any] struct {
	processors []Processor[S]
	logger     *log.Logger
}

func New[S any](processors ...Processor[S]) *Pipeline[S] {
	return &Pipeline[S]{processors: processors, logger: log.New(io.Discard, "", 0)}
}

// WithLogger traces each stage to logger.
func (p *Pipeline[S]) WithLogger(logger *log.Logger) *Pipeline[S] {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Run executes the stages in order. Within a stage every error is
// collected; after the first stage that reports any, Run stops and returns
// that stage's errors as a *diagnostics.AggregateError.
func (p *Pipeline[S]) Run(state S) error {
	for _, processor := range p.processors {
		errs := diagnostics.NewErrors()
		start := time.Now()
		processor.Process(state, errs)
		p.logger.Printf("%-24s %4d error(s) %v", processor.Name(), errs.Len(), time.Since(start).Round(time.Microsecond))
		if err := errs.FilterThrow(); err != nil {
			if agg, ok := err.(*diagnostics.AggregateError); ok {
				agg.Phase = processor.Name()
			}
			return err
		}
	}
	return nil
}
