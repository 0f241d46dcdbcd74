package transport

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Magnitudes travel as decimal strings: a JSON number cannot hold every
// uint64.

func typeMap(t TypeDescription) map[string]any {
	if t == nil {
		t = NonPublic{}
	}
	m := map[string]any{"kind": t.Kind()}
	switch x := t.(type) {
	case Basic:
		m["name"] = x.Name
	case Function:
		m["type_params"] = paramList(x.TypeParams)
		m["params"] = typeList(x.Params)
		m["return"] = typeMap(x.Return)
		if x.Cost != nil {
			m["cost"] = costMap(x.Cost)
		}
	case Record:
		m["name"] = x.Name
		m["fields"] = fieldList(x.Fields)
	case Parameterized:
		m["name"] = x.Name
		m["args"] = typeList(x.Args)
		m["fields"] = fieldList(x.Fields)
	case Sum:
		m["name"] = x.Name
		m["variants"] = typeList(x.Variants)
	case FinBound:
		m["value"] = strconv.FormatUint(x.Value, 10)
	case TypeParameter:
		m["name"] = x.Name
		m["fin"] = x.Fin
	}
	return m
}

func typeList(ts []TypeDescription) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = typeMap(t)
	}
	return out
}

func paramList(ps []TypeParameter) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = typeMap(p)
	}
	return out
}

func fieldList(fs []FieldDescription) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = map[string]any{"name": f.Name, "type": typeMap(f.Type)}
	}
	return out
}

func costMap(c *CostDescription) map[string]any {
	m := map[string]any{"kind": c.Kind}
	switch c.Kind {
	case CostFin:
		m["value"] = strconv.FormatUint(c.Value, 10)
	case CostParam:
		m["param"] = c.Param
	case CostSum, CostProduct, CostMax:
		terms := make([]any, len(c.Terms))
		for i, t := range c.Terms {
			terms[i] = costMap(t)
		}
		m["terms"] = terms
	}
	return m
}

// EncodeSignature converts sig to a protobuf Struct.
func EncodeSignature(sig FunctionSignature) (*structpb.Struct, error) {
	params := make([]any, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = map[string]any{"name": p.Name, "type": typeMap(p.Type)}
	}
	m := map[string]any{
		"name":        sig.Name,
		"type_params": paramList(sig.TypeParams),
		"params":      params,
		"return":      typeMap(sig.Return),
	}
	if sig.Cost != nil {
		m["cost"] = costMap(sig.Cost)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encoding signature %s: %w", sig.Name, err)
	}
	return s, nil
}

// DecodeSignature is the inverse of EncodeSignature.
func DecodeSignature(s *structpb.Struct) (FunctionSignature, error) {
	m := s.AsMap()
	sig := FunctionSignature{Name: str(m, "name")}
	var err error
	if sig.TypeParams, err = decodeParams(m["type_params"]); err != nil {
		return sig, err
	}
	for _, item := range list(m["params"]) {
		pm, ok := item.(map[string]any)
		if !ok {
			return sig, fmt.Errorf("signature %s: malformed parameter", sig.Name)
		}
		t, err := decodeType(pm["type"])
		if err != nil {
			return sig, err
		}
		sig.Params = append(sig.Params, Binder{Name: str(pm, "name"), Type: t})
	}
	if sig.Return, err = decodeType(m["return"]); err != nil {
		return sig, err
	}
	if c, ok := m["cost"]; ok {
		if sig.Cost, err = decodeCost(c); err != nil {
			return sig, err
		}
	}
	return sig, nil
}

// SignatureJSON renders sig as indented JSON.
func SignatureJSON(sig FunctionSignature) ([]byte, error) {
	s, err := EncodeSignature(sig)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

// SignatureFromJSON parses the output of SignatureJSON.
func SignatureFromJSON(data []byte) (FunctionSignature, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return FunctionSignature{}, fmt.Errorf("parsing signature: %w", err)
	}
	return DecodeSignature(&s)
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

func magnitude(m map[string]any) (uint64, error) {
	v, err := strconv.ParseUint(str(m, "value"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid magnitude %q: %w", str(m, "value"), err)
	}
	return v, nil
}

func decodeType(v any) (TypeDescription, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("malformed type description %v", v)
	}
	switch kind := str(m, "kind"); kind {
	case KindBasic:
		return Basic{Name: str(m, "name")}, nil
	case KindFunction:
		tps, err := decodeParams(m["type_params"])
		if err != nil {
			return nil, err
		}
		params, err := decodeTypes(m["params"])
		if err != nil {
			return nil, err
		}
		ret, err := decodeType(m["return"])
		if err != nil {
			return nil, err
		}
		f := Function{TypeParams: tps, Params: params, Return: ret}
		if c, ok := m["cost"]; ok {
			if f.Cost, err = decodeCost(c); err != nil {
				return nil, err
			}
		}
		return f, nil
	case KindRecord:
		fields, err := decodeFields(m["fields"])
		return Record{Name: str(m, "name"), Fields: fields}, err
	case KindParameterized:
		args, err := decodeTypes(m["args"])
		if err != nil {
			return nil, err
		}
		fields, err := decodeFields(m["fields"])
		return Parameterized{Name: str(m, "name"), Args: args, Fields: fields}, err
	case KindSum:
		variants, err := decodeTypes(m["variants"])
		return Sum{Name: str(m, "name"), Variants: variants}, err
	case KindFinBound:
		v, err := magnitude(m)
		return FinBound{Value: v}, err
	case KindTypeParameter:
		fin, _ := m["fin"].(bool)
		return TypeParameter{Name: str(m, "name"), Fin: fin}, nil
	case KindNonPublic:
		return NonPublic{}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", kind)
	}
}

func decodeTypes(v any) ([]TypeDescription, error) {
	items := list(v)
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]TypeDescription, len(items))
	for i, item := range items {
		t, err := decodeType(item)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func decodeParams(v any) ([]TypeParameter, error) {
	ts, err := decodeTypes(v)
	if err != nil {
		return nil, err
	}
	var out []TypeParameter
	for _, t := range ts {
		p, ok := t.(TypeParameter)
		if !ok {
			return nil, fmt.Errorf("expected a type parameter, got %s", t.Kind())
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeFields(v any) ([]FieldDescription, error) {
	var out []FieldDescription
	for _, item := range list(v) {
		fm, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed field %v", item)
		}
		t, err := decodeType(fm["type"])
		if err != nil {
			return nil, err
		}
		out = append(out, FieldDescription{Name: str(fm, "name"), Type: t})
	}
	return out, nil
}

func decodeCost(v any) (*CostDescription, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("malformed cost %v", v)
	}
	c := &CostDescription{Kind: str(m, "kind")}
	switch c.Kind {
	case CostConstant:
	case CostFin:
		var err error
		if c.Value, err = magnitude(m); err != nil {
			return nil, err
		}
	case CostParam:
		c.Param = str(m, "param")
	case CostSum, CostProduct, CostMax:
		for _, item := range list(m["terms"]) {
			t, err := decodeCost(item)
			if err != nil {
				return nil, err
			}
			c.Terms = append(c.Terms, t)
		}
	default:
		return nil, fmt.Errorf("unknown cost kind %q", c.Kind)
	}
	return c, nil
}
