package learner

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	clusterSeed     = 42
	clusterRestarts = 10
	clusterMaxIter  = 300
)

var ErrTooFewDistinct = errors.New("learner: fewer distinct tasks than clusters")

// clusterCount is clamp(n/3, 2, 3).
func clusterCount(n int) int {
	return min(3, max(2, n/3))
}

// kmeans partitions points into k clusters with k-means++ seeding. The best
// of several restarts by inertia wins. Labels are renumbered in order of
// first appearance so the output does not depend on seeding order.
func kmeans(points [][]float64, k int) ([]int, error) {
	if k < 1 || len(points) < k {
		return nil, fmt.Errorf("learner: cannot form %d clusters from %d tasks", k, len(points))
	}
	if distinct(points) < k {
		return nil, ErrTooFewDistinct
	}

	rng := rand.New(rand.NewPCG(clusterSeed, clusterSeed))
	var best []int
	bestInertia := math.Inf(1)
	for r := 0; r < clusterRestarts; r++ {
		labels, inertia := lloyd(points, seedCenters(points, k, rng))
		if inertia < bestInertia {
			best, bestInertia = labels, inertia
		}
	}
	return relabel(best), nil
}

func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.IntN(len(points))]))
	d2 := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		last := -1
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				d = min(d, sqDist(p, c))
			}
			d2[i] = d
			total += d
			if d > 0 {
				last = i
			}
		}
		if last < 0 {
			break
		}
		pick := last
		target := rng.Float64() * total
		for i, d := range d2 {
			if d == 0 {
				continue
			}
			target -= d
			if target <= 0 {
				pick = i
				break
			}
		}
		centers = append(centers, clone(points[pick]))
	}
	return centers
}

func lloyd(points [][]float64, centers [][]float64) ([]int, float64) {
	labels := make([]int, len(points))
	dim := len(points[0])
	for iter := 0; iter < clusterMaxIter; iter++ {
		changed := false
		for i, p := range points {
			nearest, nearestDist := 0, math.Inf(1)
			for c, center := range centers {
				if d := sqDist(p, center); d < nearestDist {
					nearest, nearestDist = c, d
				}
			}
			if iter == 0 || labels[i] != nearest {
				changed = true
			}
			labels[i] = nearest
		}
		if !changed {
			break
		}

		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			counts[labels[i]]++
			for j, v := range p {
				sums[labels[i]][j] += v
			}
		}
		for c := range centers {
			// An emptied cluster keeps its previous center.
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			centers[c] = sums[c]
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[labels[i]])
	}
	return labels, inertia
}

func relabel(labels []int) []int {
	mapping := map[int]int{}
	out := make([]int, len(labels))
	for i, l := range labels {
		next, ok := mapping[l]
		if !ok {
			next = len(mapping)
			mapping[l] = next
		}
		out[i] = next
	}
	return out
}

func distinct(points [][]float64) int {
	seen := map[string]struct{}{}
	var b strings.Builder
	for _, p := range points {
		b.Reset()
		for _, v := range p {
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			b.WriteByte(',')
		}
		seen[b.String()] = struct{}{}
	}
	return len(seen)
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
