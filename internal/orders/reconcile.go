package orders

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dariosuarez/softmart-backend/pkg/db/models"
)

// MergeHistory reconciles a locally-held history timeline with the server's
// authoritative copy after a mutating round trip. Entries sharing an id appear
// once, with the server copy winning. The result is sorted by CreatedAt
// ascending; the sort is stable, so entries with equal timestamps keep their
// merge order (server entries first, then local-only entries). Both inputs
// are left untouched.
func MergeHistory(local, server []models.OrderHistory) []models.OrderHistory {
	merged := make([]models.OrderHistory, 0, len(local)+len(server))
	seen := make(map[uuid.UUID]bool, len(server))

	for _, entry := range server {
		if entry.ID != uuid.Nil {
			if seen[entry.ID] {
				continue
			}
			seen[entry.ID] = true
		}
		merged = append(merged, entry)
	}
	for _, entry := range local {
		if entry.ID != uuid.Nil && seen[entry.ID] {
			continue
		}
		if entry.ID != uuid.Nil {
			seen[entry.ID] = true
		}
		merged = append(merged, entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}
