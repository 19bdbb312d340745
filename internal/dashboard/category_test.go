package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Hazırlık", CategoryPreparation},
		{"hazırlık", CategoryPreparation},
		{"preparation", CategoryPreparation},
		{"RESEARCH", CategoryResearch},
		{"Başvuru", CategoryApplication},
		{" interview ", CategoryInterview},
		{"growth", CategoryGrowth},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	for _, in := range []string{"", "Hobby", "prep"} {
		_, err := ParseCategory(in)
		assert.True(t, errors.Is(err, ErrUnknownCategory), "ParseCategory(%q) = %v", in, err)
	}
}

func TestCategoryLetters(t *testing.T) {
	letters := ""
	for _, c := range Categories() {
		letters += string(c.Letter())
		got, ok := CategoryByLetter(c.Letter())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
	assert.Equal(t, "abcde", letters)

	_, ok := CategoryByLetter('f')
	assert.False(t, ok)
	assert.Zero(t, Category("Other").Letter())
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0] = "changed"

	assert.Equal(t, CategoryPreparation, Categories()[0])
}

func TestAssignCategory_Deterministic(t *testing.T) {
	seen := make(map[Category]bool)
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "abc"} {
		c := AssignCategory(id)
		assert.True(t, c.Valid())
		assert.Equal(t, c, AssignCategory(id))
		seen[c] = true
	}
	assert.Greater(t, len(seen), 1, "ids should spread over categories")
}

func TestComputeProgress(t *testing.T) {
	p := ComputeProgress([]Task{{Completed: true}, {}, {Completed: true}})

	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 3, p.Total)
	assert.InDelta(t, 2.0/3.0, p.Ratio, 1e-9)
	assert.Equal(t, 67, p.Percent())
	assert.Equal(t, Progress{}, ComputeProgress(nil))
}

func TestSyncStatusString(t *testing.T) {
	assert.Equal(t, "confirmed", SyncConfirmed.String())
	assert.Equal(t, "pending", SyncPending.String())
	assert.Equal(t, "failed", SyncFailed.String())
}
