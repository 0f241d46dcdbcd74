// Package analyzer checks compilation units: it binds names, orders
// records and functions, infers and checks types, enforces the feature
// bans and computes the cost bound every accepted unit must stay under.
package analyzer

import (
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/funvibe/finlang/internal/ast"
	"github.com/funvibe/finlang/internal/config"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/graph"
	"github.com/funvibe/finlang/internal/pipeline"
	"github.com/funvibe/finlang/internal/symbols"
	"github.com/funvibe/finlang/internal/typesystem"
)

// Phase names, in the order they run.
const (
	PhaseBind          = "bind scopes"
	PhaseScanParams    = "scan parameters"
	PhaseRecordCycles  = "detect record cycles"
	PhaseScanRecords   = "scan records"
	PhaseScanFunctions = "scan functions"
	PhaseInferTypes    = "infer types"
	PhaseCheckTypes    = "check types"
	PhaseLinearize     = "linearize generics"
	PhaseBans          = "enforce bans"
	PhaseMultipliers   = "compute multipliers"
	PhaseSortFunctions = "sort functions"
	PhaseFunctionCosts = "cost functions"
	PhaseUnitCost      = "cost unit"
	PhaseCostLimit     = "enforce cost limit"
	PhaseMerge         = "merge units"
)

// ScopeSet names the three scopes every unit hangs off.
type ScopeSet struct {
	Prelude symbols.ScopeID
	Imports symbols.ScopeID // running global root holding earlier units
	Root    symbols.ScopeID
}

// Artifacts is everything analysis learned about one accepted unit.
type Artifacts struct {
	ID           uuid.UUID
	Unit         *ast.Unit
	Architecture *config.Architecture
	Table        *symbols.Table
	Scopes       ScopeSet
	FileScope    symbols.ScopeID
	Annotations  *Annotations

	// Records are the unit's records, containers before what they contain.
	Records []*symbols.Record
	// Functions are the unit's functions, callers before callees.
	Functions []*symbols.Function

	Cost      costs.Expression
	CostValue uint64

	recordEdges   []edge[*symbols.Record]
	functionEdges []edge[*symbols.Function]
}

type edge[T any] struct {
	from, to T
}

// state is what the phases share while one unit is analysed.
type state struct {
	unit   *ast.Unit
	arch   *config.Architecture
	table  *symbols.Table
	list   *typesystem.ObjectDecl
	scopes ScopeSet
	file   symbols.ScopeID
	main   symbols.ScopeID
	ann    *Annotations

	records   []*symbols.Record
	functions []*symbols.Function

	recordEdges   []edge[*symbols.Record]
	functionEdges []edge[*symbols.Function]
	recordOrder   graph.Result[*symbols.Record]
	functionOrder graph.Result[*symbols.Function]

	cost      costs.Expression
	costValue uint64
}

func phase(label string, fn func(*state, *diagnostics.Errors)) pipeline.Processor[*state] {
	return pipeline.Func[*state]{Label: label, Fn: fn}
}

func phases() []pipeline.Processor[*state] {
	return []pipeline.Processor[*state]{
		phase(PhaseBind, bindScopes),
		phase(PhaseScanParams, scanParameters),
		phase(PhaseRecordCycles, detectRecordCycles),
		phase(PhaseScanRecords, scanRecords),
		phase(PhaseScanFunctions, scanFunctions),
		phase(PhaseInferTypes, inferTypes),
		phase(PhaseCheckTypes, checkTypes),
		phase(PhaseLinearize, linearize),
		phase(PhaseBans, enforceBans),
		phase(PhaseMultipliers, computeMultipliers),
		phase(PhaseSortFunctions, sortFunctions),
		phase(PhaseFunctionCosts, costFunctions),
		phase(PhaseUnitCost, costUnit),
		phase(PhaseCostLimit, enforceCostLimit),
	}
}

// Option configures a Program.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger traces every phase of every unit to logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}
	return o
}

// Analyze checks a single unit against a fresh prelude.
func Analyze(unit *ast.Unit, arch *config.Architecture, opts ...Option) (*Artifacts, error) {
	return NewProgram(arch, opts...).Add(unit)
}
