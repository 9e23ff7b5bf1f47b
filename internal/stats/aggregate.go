package stats

import (
	"time"

	"vocalog/internal/model"
)

// Merge folds any number of Snapshots into one. The operation is
// commutative and associative with the zero Snapshot as identity, so
// cached weekly Snapshots can be mixed freely with freshly computed
// per-day Snapshots, and fan-out order never changes the result. Inputs
// are not mutated; nil inputs merge as identity.
func Merge(snaps ...*model.Snapshot) *model.Snapshot {
	out := model.NewSnapshot()
	for _, s := range snaps {
		if s == nil {
			continue
		}
		out.SessionCount += s.SessionCount
		out.UtteranceCount += s.UtteranceCount
		out.UtteranceWordTotal += s.UtteranceWordTotal
		out.UtteranceButtonTotal += s.UtteranceButtonTotal
		out.SessionSecondsTotal += s.SessionSecondsTotal

		for k, b := range s.ButtonCounts {
			if cur, ok := out.ButtonCounts[k]; ok {
				// add counts, keep the first-seen label and board
				cur.Count += b.Count
				out.ButtonCounts[k] = cur
			} else {
				out.ButtonCounts[k] = b
			}
		}
		for w, n := range s.WordCounts {
			out.WordCounts[w] += n
		}
		for xy, n := range s.TouchCounts {
			out.TouchCounts[xy] += n
		}
		for blk, n := range s.TimeBlockCounts {
			out.TimeBlockCounts[blk] += n
		}
		for tag, n := range s.PosCounts {
			out.PosCounts[tag] += n
		}
		for seq, n := range s.PosSequences {
			out.PosSequences[seq] += n
		}

		for id, d := range s.Devices {
			if cur, ok := out.Devices[id]; ok {
				cur.SessionCount += d.SessionCount
				cur.StartedAt = minTime(cur.StartedAt, d.StartedAt)
				cur.EndedAt = maxTime(cur.EndedAt, d.EndedAt)
				out.Devices[id] = cur
			} else {
				d.StartedAt = cloneTime(d.StartedAt)
				d.EndedAt = cloneTime(d.EndedAt)
				out.Devices[id] = d
			}
		}
		for id, l := range s.Locations {
			if cur, ok := out.Locations[id]; ok {
				cur.SessionCount += l.SessionCount
				cur.StartedAt = minTime(cur.StartedAt, l.StartedAt)
				cur.EndedAt = maxTime(cur.EndedAt, l.EndedAt)
				out.Locations[id] = cur
			} else {
				l.StartedAt = cloneTime(l.StartedAt)
				l.EndedAt = cloneTime(l.EndedAt)
				out.Locations[id] = l
			}
		}

		out.StartedAt = minTime(out.StartedAt, s.StartedAt)
		out.EndedAt = maxTime(out.EndedAt, s.EndedAt)
	}
	return out
}

// Finalize derives the user-facing Rollup from a merged Snapshot: totals,
// rates (zero when the denominator is zero), capped frequency rankings,
// and the touch/time-block maxima.
func Finalize(snap *model.Snapshot) *model.Rollup {
	r := &model.Rollup{Snapshot: *snap}

	for _, n := range snap.WordCounts {
		r.TotalWords += n
	}
	r.UniqueWords = len(snap.WordCounts)
	for _, b := range snap.ButtonCounts {
		r.TotalButtons += b.Count
	}
	r.UniqueButtons = len(snap.ButtonCounts)

	if snap.UtteranceCount > 0 {
		r.WordsPerUtterance = snap.UtteranceWordTotal / snap.UtteranceCount
		r.ButtonsPerUtterance = snap.UtteranceButtonTotal / snap.UtteranceCount
	}
	if snap.SessionSecondsTotal > 0 {
		r.WordsPerMinute = float64(r.TotalWords) / snap.SessionSecondsTotal * 60
		r.ButtonsPerMinute = float64(r.TotalButtons) / snap.SessionSecondsTotal * 60
		r.UtterancesPerMinute = snap.UtteranceCount / snap.SessionSecondsTotal * 60
	}

	r.WordsByFrequency = RankWords(snap.WordCounts, WordRankLimit)
	r.ButtonsByFrequency = RankButtons(snap.ButtonCounts, ButtonRankLimit)

	for _, n := range snap.TouchCounts {
		if n > r.MaxTouches {
			r.MaxTouches = n
		}
	}
	for _, n := range snap.TimeBlockCounts {
		if n > r.MaxTimeBlock {
			r.MaxTimeBlock = n
		}
	}

	return r
}

func minTime(a, b *time.Time) *time.Time {
	if a == nil {
		return cloneTime(b)
	}
	if b == nil {
		return a
	}
	if b.Before(*a) {
		return cloneTime(b)
	}
	return a
}

func maxTime(a, b *time.Time) *time.Time {
	if a == nil {
		return cloneTime(b)
	}
	if b == nil {
		return a
	}
	if b.After(*a) {
		return cloneTime(b)
	}
	return a
}
