package diag

import (
	"testing"

	"polyres/internal/source"
)

func TestBagRespectsLimit(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{Code: SemaUnresolvedMethod}) {
		t.Fatalf("first add must succeed")
	}
	if b.Add(Diagnostic{Code: SemaAmbiguousMethod}) {
		t.Fatalf("second add must hit the limit")
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", b.Len())
	}
}

func TestBagSortOrdersByPosition(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Code: SemaLambdaArity, Primary: source.Span{Line: 9, Col: 1}})
	b.Add(Diagnostic{Code: SemaUnresolvedMethod, Primary: source.Span{Line: 2, Col: 5}})
	b.Add(Diagnostic{Code: SemaNoApplicableMethod, Severity: SevError, Primary: source.Span{Line: 2, Col: 5}})
	b.Sort()
	items := b.Items()
	if items[0].Code != SemaNoApplicableMethod || items[1].Code != SemaUnresolvedMethod || items[2].Code != SemaLambdaArity {
		t.Fatalf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
}

func TestDedupReporterDropsRepeats(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Line: 1, Col: 1}
	ReportError(r, SemaUnresolvedMethod, sp, "cannot resolve foo").Emit()
	ReportError(r, SemaUnresolvedMethod, sp, "cannot resolve foo").Emit()
	ReportError(r, SemaUnresolvedMethod, sp, "cannot resolve bar").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestCodeID(t *testing.T) {
	if got := SemaPolyCycle.ID(); got != "SEM3006" {
		t.Fatalf("unexpected id %s", got)
	}
	if got := FixtureInvalid.ID(); got != "FIX2001" {
		t.Fatalf("unexpected id %s", got)
	}
}
