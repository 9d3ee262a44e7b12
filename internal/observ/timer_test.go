package observ

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestTimerReportSumsPhases(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(load, "")
	check := tm.Begin("check")
	tm.End(check, "3 poly")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].DurationMS <= 0 {
		t.Fatalf("load phase has no duration")
	}
	if got := r.Phases[0].DurationMS + r.Phases[1].DurationMS; math.Abs(got-r.TotalMS) > 1e-9 {
		t.Fatalf("total %v != sum %v", r.TotalMS, got)
	}
	if r.Phases[1].Note != "3 poly" {
		t.Fatalf("note lost: %q", r.Phases[1].Note)
	}
}

func TestEmptyTimerReport(t *testing.T) {
	r := NewTimer().Report()
	if r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty timer should give a zero report, got %+v", r)
	}
}

func TestSummaryListsPhasesAndTotal(t *testing.T) {
	r := Report{TotalMS: 1.5, Phases: []PhaseReport{{Name: "load", DurationMS: 0.5}, {Name: "check", DurationMS: 1, Note: "2 poly"}}}
	out := r.Summary()
	for _, want := range []string{"load", "check", "// 2 poly", "total", "1.50 ms"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary misses %q:\n%s", want, out)
		}
	}
}
