package schedule

import (
	"testing"
	"time"

	"surveyd/internal/domain"
)

func TestNextAfterVariants(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		rule domain.RecurrenceRule
		last time.Time
		want time.Time
	}{
		{
			name: "daily",
			rule: domain.RecurrenceRule{Unit: domain.Daily, Interval: 1},
			last: base,
			want: base.AddDate(0, 0, 1),
		},
		{
			name: "every third day",
			rule: domain.RecurrenceRule{Unit: domain.Daily, Interval: 3},
			last: base,
			want: base.AddDate(0, 0, 3),
		},
		{
			name: "weekly",
			rule: domain.RecurrenceRule{Unit: domain.Weekly, Interval: 2},
			last: base,
			want: base.AddDate(0, 0, 14),
		},
		{
			name: "monthly",
			rule: domain.RecurrenceRule{Unit: domain.Monthly, Interval: 1},
			last: base,
			want: time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "monthly clamps jan 31 to feb 28",
			rule: domain.RecurrenceRule{Unit: domain.Monthly, Interval: 1},
			last: time.Date(2026, time.January, 31, 8, 30, 0, 0, time.UTC),
			want: time.Date(2026, time.February, 28, 8, 30, 0, 0, time.UTC),
		},
		{
			name: "monthly clamps to leap day",
			rule: domain.RecurrenceRule{Unit: domain.Monthly, Interval: 1},
			last: time.Date(2028, time.January, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2028, time.February, 29, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "zero interval treated as one",
			rule: domain.RecurrenceRule{Unit: domain.Daily, Interval: 0},
			last: base,
			want: base.AddDate(0, 0, 1),
		},
		{
			name: "unknown unit never fires",
			rule: domain.RecurrenceRule{Unit: "hourly", Interval: 1},
			last: base,
			want: Never,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := NextAfter(tt.rule, tt.last)
			if !got.Equal(tt.want) {
				t.Fatalf("NextAfter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextAfterAlwaysAdvances(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, time.May, 31, 23, 59, 59, 0, time.UTC)
	for _, unit := range []domain.RecurrenceUnit{domain.Daily, domain.Weekly, domain.Monthly} {
		next := NextAfter(domain.RecurrenceRule{Unit: unit, Interval: 1}, base)
		if !next.After(base) {
			t.Fatalf("%s: next %v is not after %v", unit, next, base)
		}
	}
}
