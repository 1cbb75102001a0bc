package controllers

import "testing"

func TestRatingUpsertClause(t *testing.T) {
	oc := ratingUpsertClause()

	assertConflictColumns(t, oc, []string{"agent_id", "rated_by"})
	assertUpdatedColumns(t, oc, []string{"rating", "updated_at"})
	if oc.DoNothing {
		t.Fatal("re-rating must update the existing row, not be discarded")
	}
}
