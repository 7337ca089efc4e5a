package solver

// TwoOpt shortens a closed route by reversing interior segments until no
// reversal strictly decreases total length. The depot endpoints never move
// and the stop set is unchanged. maxPasses caps scan passes (0 = unlimited).
func TwoOpt(route []Stop, maxPasses int) []Stop {
	out, _, _ := twoOpt(route, maxPasses)
	return out
}

// twoOpt runs first-improvement 2-opt: each scan walks all index pairs
// (i, j) with 1 <= i < j <= len-2 and j-i != 1, reversing route[i:j].
// The first strictly shorter variant is adopted and the scan restarts from
// the top. A full scan with no improving move terminates the search.
func twoOpt(route []Stop, maxPasses int) ([]Stop, int, int) {
	best := append([]Stop(nil), route...)
	bestLen := RouteLength(best)
	n := len(best)
	passes, moves := 0, 0

	for {
		passes++
		improved := false
	scan:
		for i := 1; i < n-2; i++ {
			for j := i + 1; j < n-1; j++ {
				if j-i == 1 {
					continue
				}
				cand := reverseSegment(best, i, j)
				if l := RouteLength(cand); l < bestLen {
					best = cand
					bestLen = l
					moves++
					improved = true
					break scan
				}
			}
		}
		if !improved {
			break
		}
		if maxPasses > 0 && passes >= maxPasses {
			break
		}
	}
	return best, passes, moves
}

// reverseSegment copies route with the half-open segment [i, j) reversed.
func reverseSegment(route []Stop, i, j int) []Stop {
	out := append([]Stop(nil), route...)
	for a, b := i, j-1; a < b; a, b = a+1, b-1 {
		out[a], out[b] = out[b], out[a]
	}
	return out
}
