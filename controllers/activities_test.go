package controllers

import (
	"testing"
	"time"

	"gorm.io/gorm/clause"
)

func assertConflictColumns(t *testing.T, oc clause.OnConflict, want []string) {
	t.Helper()
	if len(oc.Columns) != len(want) {
		t.Fatalf("expected %d conflict columns, got %d", len(want), len(oc.Columns))
	}
	for i, name := range want {
		if oc.Columns[i].Name != name {
			t.Fatalf("conflict column %d: expected %q, got %q", i, name, oc.Columns[i].Name)
		}
	}
}

func assertUpdatedColumns(t *testing.T, oc clause.OnConflict, want []string) {
	t.Helper()
	if len(oc.DoUpdates) != len(want) {
		t.Fatalf("expected %d update assignments, got %d", len(want), len(oc.DoUpdates))
	}
	for i, name := range want {
		if oc.DoUpdates[i].Column.Name != name {
			t.Fatalf("update assignment %d: expected %q, got %q", i, name, oc.DoUpdates[i].Column.Name)
		}
	}
}

func TestActivityUpsertClause(t *testing.T) {
	oc := activityUpsertClause()

	assertConflictColumns(t, oc, []string{"agent_id", "activity_date"})
	assertUpdatedColumns(t, oc, []string{"mobile_number", "activity_description", "updated_at"})
	if oc.DoNothing {
		t.Fatal("a resubmission must update the existing row, not be discarded")
	}
}

func TestResolveActivityDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name     string
		raw      string
		now      time.Time
		expected string
		wantErr  bool
	}{
		{
			name:     "explicit date wins",
			raw:      "2026-08-15",
			now:      time.Date(2026, 8, 29, 10, 0, 0, 0, ist),
			expected: "2026-08-15",
		},
		{
			// 23:30 IST is 18:00 UTC the same day; a UTC truncation
			// would also pass here, the next case is the real check.
			name:     "default is local today",
			now:      time.Date(2026, 8, 29, 23, 30, 0, 0, ist),
			expected: "2026-08-29",
		},
		{
			// 02:00 IST is 20:30 UTC on the previous day.
			name:     "early morning stays on the local date",
			now:      time.Date(2026, 8, 30, 2, 0, 0, 0, ist),
			expected: "2026-08-30",
		},
		{name: "malformed date", raw: "15-08-2026", now: time.Now(), wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveActivityDate(tc.raw, tc.now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("2006-01-02") != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got.Format("2006-01-02"))
			}
		})
	}
}
