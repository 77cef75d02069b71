package services

import "math"

// improvementEpsilon is the minimum gain (in matrix units) a 2-opt move must
// deliver. Requiring a strict, bounded gain guarantees termination.
const improvementEpsilon = 1e-9

// NearestNeighborTour builds an open tour starting at index 0 by repeatedly
// appending the closest unvisited index. Ties go to the lowest index.
func NearestNeighborTour(matrix [][]float64) []int {
	n := len(matrix)
	if n == 0 {
		return []int{}
	}

	visited := make([]bool, n)
	tour := make([]int, 0, n)
	tour = append(tour, 0)
	visited[0] = true

	for len(tour) < n {
		current := tour[len(tour)-1]

		best := -1
		bestDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			// The first unvisited index seeds the search so unreachable
			// (+Inf/NaN) cells still end up in the tour.
			d := matrix[current][j]
			if best == -1 || d < bestDist || (math.IsNaN(bestDist) && !math.IsNaN(d)) {
				best = j
				bestDist = d
			}
		}

		tour = append(tour, best)
		visited[best] = true
	}

	return tour
}

// TwoOpt improves an open tour with 2-opt edge exchanges.
//
// A move reverses tour[i..j] (1 <= i < j <= n-1); index 0 stays the start.
// The first strictly improving move found is applied and the scan restarts,
// until a full pass finds none. The result is a local optimum: it is never
// longer than the input, but it is not guaranteed to be the shortest tour.
// Reversed sub-paths are costed edge by edge, so asymmetric matrices are fine.
func TwoOpt(matrix [][]float64, tour []int) []int {
	out := append([]int(nil), tour...)
	n := len(out)
	if n <= 2 {
		return out
	}

	for improved := true; improved; {
		improved = improveOnce(matrix, out)
	}

	return out
}

func improveOnce(matrix [][]float64, t []int) bool {
	n := len(t)
	for i := 1; i < n-1; i++ {
		forward, backward := 0.0, 0.0
		for j := i + 1; j < n; j++ {
			forward += matrix[t[j-1]][t[j]]
			backward += matrix[t[j]][t[j-1]]

			before := matrix[t[i-1]][t[i]] + forward
			after := matrix[t[i-1]][t[j]] + backward
			if j+1 < n {
				before += matrix[t[j]][t[j+1]]
				after += matrix[t[i]][t[j+1]]
			}

			if after < before-improvementEpsilon {
				reverse(t, i, j)
				return true
			}
		}
	}
	return false
}

func reverse(t []int, i, j int) {
	for i < j {
		t[i], t[j] = t[j], t[i]
		i++
		j--
	}
}

// TourLength sums the matrix cost of consecutive tour edges (open tour).
func TourLength(matrix [][]float64, tour []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(tour); i++ {
		total += matrix[tour[i]][tour[i+1]]
	}
	return total
}

// OptimizeTour is nearest-neighbor construction followed by 2-opt.
func OptimizeTour(matrix [][]float64) []int {
	return TwoOpt(matrix, NearestNeighborTour(matrix))
}
