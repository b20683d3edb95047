package index

import (
	"math"
	"sort"

	"github.com/healthmon-lab/panacea/pkg/domain/model"
)

// clusterSet is a coarse partition of the passage vectors used to prune the
// search space on large corpora. Construction is deterministic: centroids are
// seeded from evenly spaced passages and refined with a fixed number of
// assignment rounds, so two builds over the same corpus behave identically.
type clusterSet struct {
	centroids [][]float32
	members   [][]*model.GuidelinePassage
	probes    int
}

const clusterRounds = 8

func buildClusters(passages []*model.GuidelinePassage) *clusterSet {
	n := len(passages)
	k := int(math.Ceil(math.Sqrt(float64(n))))
	if k < 2 {
		k = 2
	}

	// Seed centroids from evenly spaced passages
	centroids := make([][]float32, k)
	for i := 0; i < k; i++ {
		src := passages[i*n/k].Embedding
		centroids[i] = append([]float32(nil), src...)
	}

	assignment := make([]int, n)
	for round := 0; round < clusterRounds; round++ {
		changed := false
		for i, p := range passages {
			best := nearestCentroid(centroids, p.Embedding)
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if !changed && round > 0 {
			break
		}
		recomputeCentroids(centroids, passages, assignment)
	}

	members := make([][]*model.GuidelinePassage, k)
	for i, p := range passages {
		members[assignment[i]] = append(members[assignment[i]], p)
	}

	probes := k / 4
	if probes < 2 {
		probes = 2
	}
	if probes > k {
		probes = k
	}

	return &clusterSet{
		centroids: centroids,
		members:   members,
		probes:    probes,
	}
}

// candidates returns the passages of the clusters nearest to the query
func (c *clusterSet) candidates(query []float32) []*model.GuidelinePassage {
	type ranked struct {
		cluster    int
		similarity float64
	}

	order := make([]ranked, len(c.centroids))
	for i, centroid := range c.centroids {
		order[i] = ranked{cluster: i, similarity: cosineSimilarity(query, centroid)}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].similarity == order[j].similarity {
			return order[i].cluster < order[j].cluster
		}
		return order[i].similarity > order[j].similarity
	})

	var result []*model.GuidelinePassage
	for i := 0; i < c.probes; i++ {
		result = append(result, c.members[order[i].cluster]...)
	}
	return result
}

func nearestCentroid(centroids [][]float32, vec []float32) int {
	best := 0
	bestSim := math.Inf(-1)
	for i, centroid := range centroids {
		if sim := cosineSimilarity(vec, centroid); sim > bestSim {
			best = i
			bestSim = sim
		}
	}
	return best
}

func recomputeCentroids(centroids [][]float32, passages []*model.GuidelinePassage, assignment []int) {
	dim := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, dim)
	}

	for i, p := range passages {
		c := assignment[i]
		counts[c]++
		for j, v := range p.Embedding {
			sums[c][j] += float64(v)
		}
	}

	for i := range centroids {
		if counts[i] == 0 {
			continue // keep the previous centroid for empty clusters
		}
		for j := range centroids[i] {
			centroids[i][j] = float32(sums[i][j] / float64(counts[i]))
		}
	}
}
