package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spently/spently-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func entry(id int32, total string) domain.CategoryBreakdownEntry {
	return domain.CategoryBreakdownEntry{CategoryID: id, Total: decimal.RequireFromString(total)}
}

func rankedIDs(entries []domain.CategoryBreakdownEntry) []int32 {
	ids := make([]int32, len(entries))
	for i, e := range entries {
		ids[i] = e.CategoryID
	}
	return ids
}

func TestRankByTotal(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.CategoryBreakdownEntry
		want    []int32
	}{
		{
			name:    "empty",
			entries: []domain.CategoryBreakdownEntry{},
			want:    []int32{},
		},
		{
			name:    "descending by total",
			entries: []domain.CategoryBreakdownEntry{entry(1, "10"), entry(2, "30"), entry(3, "20")},
			want:    []int32{2, 3, 1},
		},
		{
			name:    "ties by ascending id",
			entries: []domain.CategoryBreakdownEntry{entry(9, "5"), entry(4, "5"), entry(6, "7"), entry(1, "5")},
			want:    []int32{6, 1, 4, 9},
		},
		{
			name:    "equal values with different scale",
			entries: []domain.CategoryBreakdownEntry{entry(2, "10.00"), entry(1, "10")},
			want:    []int32{1, 2},
		},
		{
			name:    "cents matter",
			entries: []domain.CategoryBreakdownEntry{entry(1, "99.99"), entry(2, "100.00")},
			want:    []int32{2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RankByTotal(tt.entries)
			assert.Equal(t, tt.want, rankedIDs(tt.entries))
		})
	}
}

func TestRankByTotal_InputOrderDoesNotMatter(t *testing.T) {
	a := []domain.CategoryBreakdownEntry{entry(3, "1"), entry(1, "1"), entry(2, "2")}
	b := []domain.CategoryBreakdownEntry{entry(2, "2"), entry(1, "1"), entry(3, "1")}

	RankByTotal(a)
	RankByTotal(b)

	assert.Equal(t, rankedIDs(a), rankedIDs(b))
}
