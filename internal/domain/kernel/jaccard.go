package kernel

import (
	"math"
	"sort"
)

// CodedItem is a single document annotated with the set of classification
// codes it carries (e.g. a patent's CPC subclasses) together with the
// calendar year it was filed or published in. Items with fewer than two
// codes carry no co-occurrence signal and are dropped before ranking.
type CodedItem struct {
	Codes map[string]struct{}
	Year  int
}

// CooccurrenceMatrix is the result of the Jaccard co-occurrence kernel: a
// square matrix over the top-N ranked codes, symmetric with a zero
// diagonal, values rounded to four decimals.
type CooccurrenceMatrix struct {
	Labels []string
	Matrix [][]float64
	// TotalItems is the number of items that passed the <2-codes filter,
	// whether or not any of their codes made the top N.
	TotalItems int
	// PerCodeCounts is the document frequency of each label in Labels,
	// letting a caller reconstruct the per-cell intersection/union size
	// from a Jaccard value (union = (fa+fb)/(1+J), inter = J*union) without
	// re-walking the source items — used by the sampling fallback path to
	// feed EstimateJaccardConfidence.
	PerCodeCounts map[string]int
}

// BuildCooccurrence ranks codes across items by document frequency, keeps
// the top N (codes tied at the cutoff are broken by lexicographic order so
// the output is deterministic), and computes the pairwise Jaccard index
// J(a,b) = |P(a) ∩ P(b)| / |P(a) ∪ P(b)| over the patent sets P(c).
func BuildCooccurrence(items []CodedItem, topN int) CooccurrenceMatrix {
	filtered := make([]CodedItem, 0, len(items))
	for _, it := range items {
		if len(it.Codes) >= 2 {
			filtered = append(filtered, it)
		}
	}

	docFreq := make(map[string]int)
	carriers := make(map[string]map[int]struct{})
	for idx, it := range filtered {
		for code := range it.Codes {
			docFreq[code]++
			if carriers[code] == nil {
				carriers[code] = make(map[int]struct{})
			}
			carriers[code][idx] = struct{}{}
		}
	}

	labels := rankTopCodes(docFreq, topN)

	n := len(labels)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := labels[i], labels[j]
			inter := intersectionSize(carriers[a], carriers[b])
			union := len(carriers[a]) + len(carriers[b]) - inter
			var j01 float64
			if union > 0 {
				j01 = roundTo(float64(inter)/float64(union), 4)
			}
			matrix[i][j] = j01
			matrix[j][i] = j01
		}
	}

	perCodeCounts := make(map[string]int, len(labels))
	for _, label := range labels {
		perCodeCounts[label] = docFreq[label]
	}

	return CooccurrenceMatrix{Labels: labels, Matrix: matrix, TotalItems: len(filtered), PerCodeCounts: perCodeCounts}
}

// rankTopCodes orders codes by descending document frequency, breaking ties
// lexicographically, and returns at most topN of them.
func rankTopCodes(docFreq map[string]int, topN int) []string {
	codes := make([]string, 0, len(docFreq))
	for c := range docFreq {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if docFreq[codes[i]] != docFreq[codes[j]] {
			return docFreq[codes[i]] > docFreq[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if topN > 0 && len(codes) > topN {
		codes = codes[:topN]
	}
	return codes
}

func intersectionSize(a, b map[int]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}

// JaccardConfidence is the finite-population-corrected confidence interval
// for a Jaccard cell computed from a sampled subset rather than the full
// population. It is attached only when the co-occurrence matrix was built
// via the sampling fallback path (§4.2); the SQL-native path operates over
// the true population and carries no interval.
type JaccardConfidence struct {
	Jaccard          float64
	StandardError    float64
	MarginOfError95  float64
	CILower          float64
	CIUpper          float64
	EffectiveN       int
}

// EstimateJaccardConfidence derives a 95% confidence interval for a Jaccard
// ratio estimated from a stratified sample, treating the ratio as a
// proportion over the sampled union size and applying a finite-population
// correction scaled from sampleSize/populationSize.
func EstimateJaccardConfidence(intersectionCount, unionCount, sampleSize, populationSize int) JaccardConfidence {
	if unionCount == 0 {
		return JaccardConfidence{}
	}

	p := float64(intersectionCount) / float64(unionCount)

	if sampleSize >= populationSize || unionCount <= 1 {
		pr := roundTo(p, 6)
		return JaccardConfidence{
			Jaccard:    pr,
			CILower:    pr,
			CIUpper:    pr,
			EffectiveN: unionCount,
		}
	}

	scaling := float64(populationSize) / float64(sampleSize)
	estimatedUnionPop := float64(unionCount) * scaling

	fpc := 0.0
	if ratio := 1.0 - float64(unionCount)/estimatedUnionPop; ratio > 0 {
		fpc = math.Sqrt(ratio)
	}

	variance := p * (1.0 - p) / float64(unionCount-1)
	se := math.Sqrt(variance) * fpc

	const z = 1.96
	moe := z * se

	return JaccardConfidence{
		Jaccard:         roundTo(p, 6),
		StandardError:   roundTo(se, 6),
		MarginOfError95: roundTo(moe, 6),
		CILower:         roundTo(clamp(p-moe, 0.0, 1.0), 6),
		CIUpper:         roundTo(clamp(p+moe, 0.0, 1.0), 6),
		EffectiveN:      unionCount,
	}
}
