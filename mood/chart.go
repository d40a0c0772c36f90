package mood

import "sort"

const ChartTimeLayout = "15:04:05"

// ChartSeries is a timeline encoded for a line chart: categorical moods are
// mapped onto integer levels in alphabetical order and Ticks names each level.
type ChartSeries struct {
	Times  []string `json:"timestamps"`
	Levels []int    `json:"levels"`
	Ticks  []string `json:"ticks"`
}

// Chart encodes entries for plotting. It reports false when there are fewer
// than two points, which consumers should treat as nothing to draw.
func Chart(entries []Entry) (ChartSeries, bool) {
	if len(entries) < 2 {
		return ChartSeries{}, false
	}

	seen := map[Label]bool{}
	var ticks []string
	for _, e := range entries {
		if !seen[e.Mood] {
			seen[e.Mood] = true
			ticks = append(ticks, string(e.Mood))
		}
	}
	sort.Strings(ticks)
	level := make(map[Label]int, len(ticks))
	for i, t := range ticks {
		level[Label(t)] = i
	}

	cs := ChartSeries{
		Times:  make([]string, len(entries)),
		Levels: make([]int, len(entries)),
		Ticks:  ticks,
	}
	for i, e := range entries {
		cs.Times[i] = e.Time.Format(ChartTimeLayout)
		cs.Levels[i] = level[e.Mood]
	}
	return cs, true
}
