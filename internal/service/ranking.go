package service

import (
	"sort"

	"github.com/spently/spently-backend/internal/domain"
)

// RankByTotal orders entries by total descending, breaking ties by ascending
// category ID. Every ranked list in the service goes through here.
func RankByTotal(entries []domain.CategoryBreakdownEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := entries[i].Total.Cmp(entries[j].Total); cmp != 0 {
			return cmp > 0
		}
		return entries[i].CategoryID < entries[j].CategoryID
	})
}
