// Package stats implements the usage-statistics aggregation engine: it
// turns per-session communication logs into mergeable Snapshots, rolls
// them up into daily/hourly/cached reports, and renders the legacy LAM
// export format.
package stats

const (
	// BlocksPerWeek is the number of 15-minute slots in one week.
	BlocksPerWeek = 7 * 24 * 4

	// weekOffsetBlocks anchors block 0 to the Sunday 00:00 UTC preceding
	// the Unix epoch (the epoch fell on a Thursday, four days in).
	weekOffsetBlocks = 4 * 24 * 4

	blockSeconds = 15 * 60
)

// Block maps a Unix timestamp to its weekly 15-minute block index in
// [0, BlocksPerWeek). No timezone conversion is applied; display-side
// shifting is OffsetBlocks' job.
func Block(unixSeconds int64) int {
	b := (unixSeconds/blockSeconds + weekOffsetBlocks) % BlocksPerWeek
	if b < 0 {
		b += BlocksPerWeek
	}
	return int(b)
}

// OffsetBlocks re-keys a block count map by -offsetMinutes/15 blocks,
// wrapping around the week. It is a pure presentation transform for
// viewer-local display; the input map is never mutated.
func OffsetBlocks(offsetMinutes int, blocks map[int]int) map[int]int {
	shift := offsetMinutes / 15
	out := make(map[int]int, len(blocks))
	for k, n := range blocks {
		nk := ((k-shift)%BlocksPerWeek + BlocksPerWeek) % BlocksPerWeek
		out[nk] += n
	}
	return out
}

// WeekGrid arranges a block count map into a per-weekday table (Sunday
// first, 96 quarter-hour slots per day) and returns the maximum observed
// value, which sets the chart scale.
func WeekGrid(blocks map[int]int) (grid [7][96]int, max int) {
	for k, n := range blocks {
		if k < 0 || k >= BlocksPerWeek {
			continue
		}
		grid[k/96][k%96] = n
		if n > max {
			max = n
		}
	}
	return grid, max
}
