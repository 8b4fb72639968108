package structs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncReportOutcome(t *testing.T) {
	t.Run("no steps means skipped", func(t *testing.T) {
		r := &SyncReport{}
		assert.Equal(t, OutcomeSkipped, r.Outcome())
	})

	t.Run("all steps ok", func(t *testing.T) {
		r := &SyncReport{}
		r.Record("product_base", "", nil)
		r.Record("variants", "SKU-1", nil)
		assert.Equal(t, OutcomeSynced, r.Outcome())
	})

	t.Run("some steps failed", func(t *testing.T) {
		r := &SyncReport{}
		r.Record("product_base", "", nil)
		r.Record("variants", "SKU-1", errors.New("boom"))
		assert.Equal(t, OutcomePartial, r.Outcome())
		assert.Len(t, r.Failed(), 1)
	})

	t.Run("all steps failed", func(t *testing.T) {
		r := &SyncReport{}
		r.Record("resolve", "handle", errors.New("boom"))
		assert.Equal(t, OutcomeFailed, r.Outcome())
	})

	t.Run("only skipped steps means skipped", func(t *testing.T) {
		r := &SyncReport{}
		r.Skip("product_delete", "no-match")
		assert.Equal(t, OutcomeSkipped, r.Outcome())
		assert.Empty(t, r.Failed())
	})

	t.Run("skipped steps do not dilute failures", func(t *testing.T) {
		r := &SyncReport{}
		r.Skip("category", "")
		r.Record("variants", "SKU-1", errors.New("boom"))
		assert.Equal(t, OutcomeFailed, r.Outcome())
	})
}

func TestSyncReportRecord(t *testing.T) {
	r := &SyncReport{}
	r.Record("variants", "SKU-1", errors.New("422 unprocessable"))

	assert.Len(t, r.Steps, 1)
	step := r.Steps[0]
	assert.Equal(t, "variants", step.Step)
	assert.Equal(t, "SKU-1", step.Key)
	assert.False(t, step.OK)
	assert.Equal(t, "422 unprocessable", step.Error)
}
