package relevance

import (
	"sort"

	"github.com/alexanderramin/midai/internal/domain"
)

// Scored pairs a candidate with its score and its position in the input.
type Scored[T any] struct {
	Item  T
	Score int
	Index int
}

// Rank scores every candidate, keeps those scoring above zero, sorts them by
// score descending (ties keep input order), drops later duplicates of the same
// key and truncates to limit. A limit <= 0 keeps everything.
func Rank[T any](candidates []T, score func(T) int, key func(T) string, limit int) []Scored[T] {
	scored := make([]Scored[T], 0, len(candidates))
	for i, c := range candidates {
		if s := score(c); s > 0 {
			scored = append(scored, Scored[T]{Item: c, Score: s, Index: i})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	seen := make(map[string]struct{}, len(scored))
	out := make([]Scored[T], 0, len(scored))
	for _, s := range scored {
		k := key(s.Item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Items strips scores from a ranked slice.
func Items[T any](ranked []Scored[T]) []T {
	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.Item
	}
	return out
}

func RankTasks(tasks []domain.ContextTask, a Anchor, limit int, prefs *domain.Preferences) []Scored[domain.ContextTask] {
	return Rank(tasks,
		func(t domain.ContextTask) int { return ScoreTask(t, a, prefs) },
		func(t domain.ContextTask) string { return t.ID },
		limit)
}

func RankEmails(threads []domain.ContextEmailThread, a Anchor, limit int, prefs *domain.Preferences) []Scored[domain.ContextEmailThread] {
	return Rank(threads,
		func(th domain.ContextEmailThread) int { return ScoreEmail(th, a, prefs) },
		func(th domain.ContextEmailThread) string { return th.ThreadID },
		limit)
}

func RankDocs(docs []domain.ContextDocSummary, a Anchor, limit int, prefs *domain.Preferences) []Scored[domain.ContextDocSummary] {
	return Rank(docs,
		func(d domain.ContextDocSummary) int { return ScoreDoc(d, a, prefs) },
		func(d domain.ContextDocSummary) string { return d.DocID },
		limit)
}
