package analyzer

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/config"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/graph"
	"github.com/funvibe/finlang/internal/pipeline"
	"github.com/funvibe/finlang/internal/prelude"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// Program accumulates units that see each other's declarations. Units are
// added one at a time; a unit that fails analysis leaves the program as it
// was.
type Program struct {
	mu      sync.Mutex
	prelude *prelude.Prelude
	list    *typesystem.ObjectDecl
	global  symbols.ScopeID
	arch    *config.Architecture
	logger  *log.Logger
	units   []*Artifacts
}

// NewProgram creates an empty program. A nil arch means the default
// architecture; unset limits of arch take their defaults.
func NewProgram(arch *config.Architecture, opts ...Option) *Program {
	if arch == nil {
		arch = config.DefaultArchitecture()
	} else {
		arch = arch.WithDefaults()
	}
	o := buildOptions(opts)
	pre := prelude.New()
	p := &Program{
		prelude: pre,
		global:  pre.Table.NewScope(symbols.ScopeGlobal, pre.Scope),
		arch:    arch,
		logger:  o.logger,
	}
	if sym, ok := pre.Table.Lookup(pre.Scope, config.ListTypeName); ok {
		if obj, ok := sym.(*symbols.Object); ok {
			p.list = obj.Decl
		}
	}
	return p
}

// Architecture is the target the program is checked against.
func (p *Program) Architecture() *config.Architecture { return p.arch }

// Add analyses unit against every unit added before it. On success the
// unit's declarations become visible to later units.
func (p *Program) Add(unit *ast.Unit) (*Artifacts, error) {
	if unit == nil {
		return nil, errors.New("analyzer: nil unit")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	st := &state{
		unit:  unit,
		arch:  p.arch,
		table: p.prelude.Table,
		list:  p.list,
		scopes: ScopeSet{
			Prelude: p.prelude.Scope,
			Imports: p.global,
			Root:    p.prelude.Table.NewScope(symbols.ScopeRoot, p.global),
		},
		file: symbols.NoScope,
		main: symbols.NoScope,
		ann:  newAnnotations(),
	}

	p.logger.Printf("analysing %s (namespace %q)", unit.File, unit.NamespacePath())
	if err := pipeline.New(phases()...).WithLogger(p.logger).Run(st); err != nil {
		return nil, err
	}
	if err := p.merge(st); err != nil {
		return nil, err
	}

	art := &Artifacts{
		ID:            uuid.New(),
		Unit:          unit,
		Architecture:  p.arch,
		Table:         st.table,
		Scopes:        st.scopes,
		FileScope:     st.file,
		Annotations:   st.ann,
		Records:       own(st.recordOrder.Order, st.records),
		Functions:     own(st.functionOrder.Order, st.functions),
		Cost:          st.cost,
		CostValue:     st.costValue,
		recordEdges:   st.recordEdges,
		functionEdges: st.functionEdges,
	}
	p.units = append(p.units, art)
	p.logger.Printf("accepted %s: cost %d of %d", unit.File, st.costValue, p.arch.CostCeiling)
	return art, nil
}

// merge re-sorts the dependency graphs of every unit together with the new
// one and folds the new unit's root into the global root. Nothing is
// applied unless both succeed.
func (p *Program) merge(st *state) error {
	records := graph.New[*symbols.Record]()
	functions := graph.New[*symbols.Function]()
	addEdges := func(re []edge[*symbols.Record], fe []edge[*symbols.Function]) {
		for _, e := range re {
			records.AddEdge(e.from, e.to)
		}
		for _, e := range fe {
			functions.AddEdge(e.from, e.to)
		}
	}
	for _, u := range p.units {
		addEdges(u.recordEdges, u.functionEdges)
	}
	addEdges(st.recordEdges, st.functionEdges)

	errs := diagnostics.NewErrors()
	for _, rec := range records.Sort().Cycle {
		errs.Add(diagnostics.NewError(diagnostics.ErrRecursiveRecordDetected, rec.Token, rec.Name))
	}
	for _, fn := range functions.Sort().Cycle {
		errs.Add(diagnostics.NewError(diagnostics.ErrRecursiveFunctionDetected, fn.Token, fn.QualifiedName()))
	}
	if errs.Len() == 0 {
		errs.AddAll(st.table.Merge(p.global, st.scopes.Root))
	}
	p.logger.Printf("%-24s %4d error(s)", PhaseMerge, errs.Len())
	if err := errs.FilterThrow(); err != nil {
		var agg *diagnostics.AggregateError
		if errors.As(err, &agg) {
			agg.Phase = PhaseMerge
		}
		return err
	}
	return nil
}

// Units lists the accepted units in the order they were added.
func (p *Program) Units() []*Artifacts {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Artifacts, len(p.units))
	copy(out, p.units)
	return out
}

// Function finds a function by dotted name among the accepted units and
// the prelude.
func (p *Program) Function(name string) (*symbols.Function, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sym, ok := p.prelude.Table.FetchQualified(p.global, symbols.SplitPath(name))
	if !ok {
		return nil, false
	}
	fn, ok := sym.(*symbols.Function)
	return fn, ok
}

// Record finds a record by dotted name among the accepted units.
func (p *Program) Record(name string) (*symbols.Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sym, ok := p.prelude.Table.FetchQualified(p.global, symbols.SplitPath(name))
	if !ok {
		return nil, false
	}
	rec, ok := sym.(*symbols.Record)
	return rec, ok
}

// Cost is the combined cost of every accepted unit.
func (p *Program) Cost() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	terms := make([]costs.Expression, len(p.units))
	for i, u := range p.units {
		terms[i] = costs.Fin{Value: u.CostValue}
	}
	total, _ := costs.Evaluate(costs.NewSum(terms...))
	return total
}

// own keeps the members of ordered that belong to mine, preserving order.
func own[T comparable](ordered, mine []T) []T {
	keep := make(map[T]bool, len(mine))
	for _, m := range mine {
		keep[m] = true
	}
	out := make([]T, 0, len(mine))
	for _, o := range ordered {
		if keep[o] {
			out = append(out, o)
		}
	}
	return out
}
