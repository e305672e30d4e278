package resilience

const (
	avgPlaces         = 2
	probabilityPlaces = 4
)

// Summarize reduces per-start-hour survival hours into summary statistics and
// survival-probability curves, overall and grouped by month and hour-of-day.
// An empty input yields an empty result with zero-width curves.
func Summarize(hours []int) *Result {
	n := len(hours)
	res := &Result{SurvivalHours: hours}
	if n == 0 {
		res.SurvivalHours = []int{}
		res.DurationThresholds = []int{}
		res.SurvivalProbability = []float64{}
		res.ByMonth = newCurves(monthsPerYear, 0)
		res.ByHourOfDay = newCurves(hoursPerDay, 0)
		return res
	}

	minH, maxH, sum := hours[0], hours[0], 0
	for _, h := range hours {
		if h < minH {
			minH = h
		}
		if h > maxH {
			maxH = h
		}
		sum += h
	}
	res.MinHours = minH
	res.MaxHours = maxH
	res.AvgHours = roundTo(float64(sum)/float64(n), avgPlaces)

	atLeast := survivorCounts(histogram(hours, maxH))
	res.DurationThresholds = make([]int, maxH)
	res.SurvivalProbability = make([]float64, maxH)
	for d := 1; d <= maxH; d++ {
		res.DurationThresholds[d-1] = d
		res.SurvivalProbability[d-1] = probability(atLeast[d], n)
	}

	res.ByMonth = groupCurves(hours, maxH, monthsPerYear, func(t int) int { return MonthOfIndex(t) - 1 })
	res.ByHourOfDay = groupCurves(hours, maxH, hoursPerDay, HourOfDay)
	return res
}

// groupCurves builds one curve per group from that group's own members, thresholds
// 1..groupMax, padded to the largest group maximum.
func groupCurves(hours []int, maxH, groups int, groupOf func(int) int) Curves {
	stride := maxH + 1
	hist := make([]int, groups*stride)
	members := make([]int, groups)
	groupMax := make([]int, groups)

	for t, h := range hours {
		g := groupOf(t)
		hist[g*stride+h]++
		members[g]++
		if h > groupMax[g] {
			groupMax[g] = h
		}
	}

	width := 0
	for _, m := range groupMax {
		if m > width {
			width = m
		}
	}

	out := newCurves(groups, width)
	for g := 0; g < groups; g++ {
		if members[g] == 0 {
			continue
		}
		atLeast := survivorCounts(hist[g*stride : (g+1)*stride])
		row := out.Row(g)
		for d := 1; d <= groupMax[g]; d++ {
			row[d-1] = probability(atLeast[d], members[g])
		}
	}
	return out
}

// histogram counts how many start hours survived exactly h hours, for h in 0..maxH.
func histogram(hours []int, maxH int) []int {
	out := make([]int, maxH+1)
	for _, h := range hours {
		out[h]++
	}
	return out
}

// survivorCounts turns a histogram into "survived at least d hours" counts.
func survivorCounts(hist []int) []int {
	out := make([]int, len(hist))
	running := 0
	for d := len(hist) - 1; d >= 0; d-- {
		running += hist[d]
		out[d] = running
	}
	return out
}

func probability(count, total int) float64 {
	return roundTo(float64(count)/float64(total), probabilityPlaces)
}
