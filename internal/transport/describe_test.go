package transport

import (
	"testing"

	"github.com/nalgeon/be"
	"google.golang.org/protobuf/proto"

	"github.com/funvibe/finlang/internal/analyzer"
	"github.com/funvibe/finlang/internal/astyaml"
	"github.com/funvibe/finlang/internal/costs"
	"github.com/funvibe/finlang/internal/prelude"
	"github.com/funvibe/finlang/internal/typesystem"
)

func analyze(t *testing.T, src string) *analyzer.Artifacts {
	t.Helper()
	unit, err := astyaml.Decode([]byte(src), "test.yaml")
	be.Err(t, err, nil)
	art, err := analyzer.Analyze(unit, nil)
	be.Err(t, err, nil)
	return art
}

func TestDescribeBasics(t *testing.T) {
	be.Equal(t, Describe(typesystem.Int).Kind(), KindBasic)
	be.Equal(t, Describe(typesystem.FinType{Value: 9}).(FinBound).Value, uint64(9))
	be.Equal(t, Describe(typesystem.ErrorType{}).Kind(), KindNonPublic)
	be.Equal(t, Describe(nil).Kind(), KindNonPublic)

	list := prelude.ListOf(prelude.NewListDecl(), typesystem.Int, typesystem.FinType{Value: 10})
	p, ok := Describe(list).(Parameterized)
	be.True(t, ok)
	be.Equal(t, p.Name, "List")
	be.Equal(t, len(p.Args), 2)
	be.Equal(t, p.Args[0].(Basic).Name, "Int")
	be.Equal(t, p.Args[1].(FinBound).Value, uint64(10))
	be.Equal(t, len(p.Fields), 1)
}

func TestDescribeCost(t *testing.T) {
	e := costs.NewSum(costs.ConstantFin{}, costs.NewProduct(costs.Fin{Value: 3}, costs.ConstantFin{}))
	c := DescribeCost(e)
	be.Equal(t, c.Kind, CostSum)
	be.Equal(t, len(c.Terms), 2)
	be.Equal(t, c.Terms[0].Kind, CostConstant)
	be.Equal(t, c.Terms[1].Kind, CostProduct)
	be.Equal(t, c.Terms[1].Terms[0].Value, uint64(3))
	be.True(t, DescribeCost(nil) == nil)
}

func TestDescribeRecordThroughList(t *testing.T) {
	art := analyze(t, `
namespace: tree
body:
  - record: Node
    fields:
      - value: Int
      - children: {List: [Node, 3]}
`)
	rec, ok := Describe(typesystem.RecordType{Decl: art.Records[0].Decl}).(Record)
	be.True(t, ok)
	be.Equal(t, rec.Name, "tree.Node")
	be.Equal(t, len(rec.Fields), 2)

	children := rec.Fields[1].Type.(Parameterized)
	inner := children.Args[0].(Record)
	be.Equal(t, inner.Name, "tree.Node")
	be.Equal(t, len(inner.Fields), 0)
}

const countSource = `
namespace: demo
body:
  - fun: count
    type_params: [{n: Fin}]
    params:
      - xs: {List: [Int, n]}
    returns: Int
    body:
      - for: x
        in: xs
        do:
          - call: tick
      - return: 0
`

func TestLookupFunction(t *testing.T) {
	art := analyze(t, countSource)

	for _, name := range []string{"count", "demo.count"} {
		sig, ok := LookupFunction(art, name)
		be.True(t, ok)
		be.Equal(t, sig.Name, "demo.count")
		be.Equal(t, len(sig.TypeParams), 1)
		be.Equal(t, sig.TypeParams[0], TypeParameter{Name: "n", Fin: true})
		be.Equal(t, len(sig.Params), 1)
		be.Equal(t, sig.Params[0].Name, "xs")
		list := sig.Params[0].Type.(Parameterized)
		be.Equal(t, list.Args[1].(TypeParameter).Name, "n")
		be.Equal(t, sig.Return.(Basic).Name, "Int")
		be.True(t, sig.Cost != nil)
	}

	sig, ok := LookupFunction(art, "print")
	be.True(t, ok)
	be.Equal(t, sig.Name, "print")

	_, ok = LookupFunction(art, "missing")
	be.True(t, !ok)
	_, ok = LookupFunction(art, "Int")
	be.True(t, !ok)
	_, ok = LookupFunction(nil, "count")
	be.True(t, !ok)
}

func TestSignatureJSONRoundTrip(t *testing.T) {
	art := analyze(t, countSource)
	sig, ok := LookupFunction(art, "count")
	be.True(t, ok)

	data, err := SignatureJSON(sig)
	be.Err(t, err, nil)
	back, err := SignatureFromJSON(data)
	be.Err(t, err, nil)

	want, err := EncodeSignature(sig)
	be.Err(t, err, nil)
	got, err := EncodeSignature(back)
	be.Err(t, err, nil)
	be.True(t, proto.Equal(want, got))
}

func TestSignaturesCalleesFirst(t *testing.T) {
	art := analyze(t, `
namespace: demo
body:
  - fun: outer
    body: [{call: inner}]
  - fun: inner
    body: [{call: tick}]
`)
	sigs := Signatures(art)
	be.Equal(t, len(sigs), 2)
	be.Equal(t, sigs[0].Name, "demo.inner")
	be.Equal(t, sigs[1].Name, "demo.outer")
	be.Equal(t, sigs[0].Cost.Kind, CostFin)
	be.Equal(t, sigs[1].Cost.Value, uint64(1))
}
