package pipeline

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/token"
)

type trace struct {
	ran []string
}

func stage(name string, fail int) Processor[*trace] {
	return Func[*trace]{Label: name, Fn: func(s *trace, errs *diagnostics.Errors) {
		s.ran = append(s.ran, name)
		for i := 0; i < fail; i++ {
			errs.Add(diagnostics.NewError(diagnostics.ErrIdentifierNotFound, token.Token{Line: i + 1}, name))
		}
	}}
}

func TestRunStopsAfterFailingStage(t *testing.T) {
	s := &trace{}
	err := New(stage("bind", 0), stage("check", 2), stage("cost", 0)).Run(s)

	var agg *diagnostics.AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("err = %v, want *AggregateError", err)
	}
	if agg.Phase != "check" || len(agg.Errors) != 2 {
		t.Errorf("aggregate = %s / %d errors", agg.Phase, len(agg.Errors))
	}
	if strings.Join(s.ran, ",") != "bind,check" {
		t.Errorf("ran %v, later stages must not run", s.ran)
	}
}

func TestRunAllStages(t *testing.T) {
	s := &trace{}
	var buf bytes.Buffer
	err := New(stage("a", 0), stage("b", 0)).WithLogger(log.New(&buf, "", 0)).Run(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.ran) != 2 {
		t.Errorf("ran %v", s.ran)
	}
	if !strings.Contains(buf.String(), "a ") || !strings.Contains(buf.String(), "b ") {
		t.Errorf("log should trace both stages, got %q", buf.String())
	}
}
