package feedback

import "strings"

// mergeKeywords adds words to list with case-insensitive set semantics.
// Re-adding an existing word moves it to the most recent position. When the
// list exceeds max, the oldest entries are evicted first.
func mergeKeywords(list []string, words []string, max int) []string {
	out := append([]string{}, list...)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out = removeFold(out, w)
		out = append(out, w)
	}
	if max > 0 && len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

func removeFold(list []string, w string) []string {
	out := list[:0]
	for _, item := range list {
		if !strings.EqualFold(item, w) {
			out = append(out, item)
		}
	}
	return out
}

func addID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
