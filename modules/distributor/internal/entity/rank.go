package entity

import (
	"slices"
	"strings"
)

type RankedDistributor struct {
	Distributor
	// Rank starts at 1. Zero means the distributor is not ranked (not approved).
	Rank int
}

// ComputeRanks ranks approved distributors by total points, descending.
// Ties go to the earlier registrant, then to the smaller id.
func ComputeRanks(distributors []Distributor) map[string]int {
	approved := make([]Distributor, 0, len(distributors))
	for _, d := range distributors {
		if d.IsApproved() {
			approved = append(approved, d)
		}
	}
	slices.SortFunc(approved, compareRank)

	ranks := make(map[string]int, len(approved))
	for i, d := range approved {
		ranks[d.ID] = i + 1
	}
	return ranks
}

// RankDistributors returns approved distributors in rank order.
func RankDistributors(distributors []Distributor) []RankedDistributor {
	ranks := ComputeRanks(distributors)
	ranked := make([]RankedDistributor, 0, len(ranks))
	for _, d := range distributors {
		if rank, ok := ranks[d.ID]; ok {
			ranked = append(ranked, RankedDistributor{Distributor: d, Rank: rank})
		}
	}
	slices.SortFunc(ranked, func(a, b RankedDistributor) int {
		return a.Rank - b.Rank
	})
	return ranked
}

func compareRank(a, b Distributor) int {
	if a.TotalPoints != b.TotalPoints {
		if a.TotalPoints > b.TotalPoints {
			return -1
		}
		return 1
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
