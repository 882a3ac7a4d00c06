package scheduler

import (
	"sort"

	"github.com/alexanderramin/midai/internal/domain"
)

// PriorityRank returns a sort priority (lower = more urgent).
func PriorityRank(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 0
	case domain.PriorityMedium:
		return 1
	default:
		return 2
	}
}

// CanonicalSort sorts scored tasks by the deterministic canonical rules:
// 1. Score: higher first
// 2. Due date: earliest first (none last)
// 3. Priority: H > M > L
// 4. Relevance to today's meetings: higher first
// 5. Input position
func CanonicalSort(tasks []ScoredTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if a.Score != b.Score {
			return a.Score > b.Score
		}

		dueA, okA := a.Input.Task.Due(a.Input.Day.Location())
		dueB, okB := b.Input.Task.Due(b.Input.Day.Location())
		if okA != okB {
			return okA
		}
		if okA && okB && !dueA.Equal(dueB) {
			return dueA.Before(dueB)
		}

		prioA, prioB := PriorityRank(a.Input.Task.Priority), PriorityRank(b.Input.Task.Priority)
		if prioA != prioB {
			return prioA < prioB
		}

		if a.Input.Relevance != b.Input.Relevance {
			return a.Input.Relevance > b.Input.Relevance
		}

		return a.Input.Index < b.Input.Index
	})
}

// sortBlocks orders blocks by start, fixed blocks first on ties, then by id.
func sortBlocks(blocks []domain.DailyPlanBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Fixed() != b.Fixed() {
			return a.Fixed()
		}
		return a.ID < b.ID
	})
}
