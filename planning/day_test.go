package planning_test

import (
	"errors"
	"testing"

	"github.com/warp/staffing-engine/planning"
)

func TestParseDay_Canonical(t *testing.T) {
	d, err := planning.ParseDay("2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-06-03" {
		t.Errorf("round trip changed value: %s", d)
	}
	if d.MonthKey() != "2024-06" {
		t.Errorf("expected month key 2024-06, got %s", d.MonthKey())
	}
}

func TestParseDay_Malformed(t *testing.T) {
	for _, raw := range []string{"06/03/2024", "2024-6-3", "yesterday", ""} {
		if _, err := planning.ParseDay(raw); !errors.Is(err, planning.ErrMalformedDate) {
			t.Errorf("%q: expected ErrMalformedDate, got %v", raw, err)
		}
	}
}

func TestPeriod_Months_SpansBoundaries(t *testing.T) {
	p := planning.Period{Start: planning.MustDay("2024-11-15"), End: planning.MustDay("2025-02-10")}

	months := p.Months()
	want := []string{"2024-11", "2024-12", "2025-01", "2025-02"}
	if len(months) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(months))
	}
	for i, m := range months {
		if m.String() != want[i] {
			t.Errorf("month %d: expected %s, got %s", i, want[i], m)
		}
	}
}

func TestPeriod_Intersect_OpenBounds(t *testing.T) {
	// Zero bounds are open-ended: intersecting with an employment window
	// that has no resignation date only clips the start.

	w := planning.Period{Start: planning.MustDay("2024-01-01"), End: planning.MustDay("2024-12-31")}
	employment := planning.Period{Start: planning.MustDay("2024-03-01")}

	got := w.Intersect(employment)
	if got.Start.String() != "2024-03-01" || got.End.String() != "2024-12-31" {
		t.Errorf("unexpected intersection %s", got)
	}

	inverted := w.Intersect(planning.Period{
		Start: planning.MustDay("2025-06-01"),
	})
	if !inverted.IsEmpty() {
		t.Error("intersection past the window should be empty")
	}
}

func TestMonth_PeriodAndNeighbors(t *testing.T) {
	m := month("2024-02")

	if m.First().String() != "2024-02-01" || m.Last().String() != "2024-02-29" {
		t.Errorf("leap February bounds wrong: %s .. %s", m.First(), m.Last())
	}
	if m.Prev().String() != "2024-01" || m.Next().String() != "2024-03" {
		t.Errorf("neighbors wrong: %s / %s", m.Prev(), m.Next())
	}
	if !m.Before(month("2024-03")) || m.Before(month("2023-12")) {
		t.Error("month ordering wrong")
	}
}
