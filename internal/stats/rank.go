package stats

import (
	"sort"

	"vocalog/internal/model"
)

// Frequency list caps.
const (
	WordRankLimit   = 100
	ButtonRankLimit = 50
)

// RankWords sorts a word count map into a capped frequency list: count
// descending, ties broken by ascending word. The order is total, so the
// result is identical under any map iteration order.
func RankWords(counts map[string]int, limit int) []model.WordCount {
	out := make([]model.WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, model.WordCount{Text: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankButtons sorts a button count map into a capped frequency list:
// count descending, ties broken by ascending label, then by the map key
// so buttons sharing a label still order deterministically.
func RankButtons(counts map[string]model.ButtonCount, limit int) []model.ButtonCount {
	type entry struct {
		key string
		b   model.ButtonCount
	}
	entries := make([]entry, 0, len(counts))
	for k, b := range counts {
		entries = append(entries, entry{key: k, b: b})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.b.Count != b.b.Count {
			return a.b.Count > b.b.Count
		}
		if a.b.Label != b.b.Label {
			return a.b.Label < b.b.Label
		}
		return a.key < b.key
	})
	out := make([]model.ButtonCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.b)
	}
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
