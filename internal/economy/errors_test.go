package economy

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOutcomeClassification(t *testing.T) {
	cases := []struct {
		err      error
		outcome  string
		business bool
	}{
		{nil, OutcomeOK, false},
		{invalidf("userId is required"), OutcomeInvalidInput, true},
		{fmt.Errorf("purchase: %w", ErrInsufficientFunds), OutcomeInsufficientFunds, true},
		{ErrAlreadyOwned, OutcomeAlreadyOwned, true},
		{ErrNotFoundOrAlreadyCompleted, OutcomeNotFoundOrAlreadyCompleted, true},
		{ErrNotOwned, OutcomeNotOwned, true},
		{ErrUserNotFound, OutcomeNotFound, true},
		{ErrExerciseNotFound, OutcomeNotFound, true},
		{ErrSolutionNotFound, OutcomeNotFound, true},
		{ErrItemNotFound, OutcomeNotFound, true},
		{ErrExerciseCatalogMissing, OutcomeError, false},
		{context.DeadlineExceeded, OutcomeError, false},
		{errors.New("disk I/O error"), OutcomeError, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.outcome, Outcome(tc.err), "outcome for %v", tc.err)
		assert.Equal(t, tc.business, IsBusinessError(tc.err), "business for %v", tc.err)
	}
}

func TestInvalidfNamesField(t *testing.T) {
	_, err := normalizeID("solutionId", "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualError(t, err, "invalid input: solutionId must be a UUID")

	id, err := normalizeOptionalID("problemId", "")
	assert.NoError(t, err)
	assert.Empty(t, id)

	id, err = normalizeID("userId", "6F1C2A1E-8A3B-4C5D-9E6F-0A1B2C3D4E5F")
	assert.NoError(t, err)
	assert.Equal(t, "6f1c2a1e-8a3b-4c5d-9e6f-0a1b2c3d4e5f", id)
}

func TestShopCatalogIsOrderedAndComplete(t *testing.T) {
	items := ShopCatalog()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)

	_, ok := LookupShopItem("5")
	assert.False(t, ok)
}
