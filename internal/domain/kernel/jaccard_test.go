package kernel_test

import (
	"testing"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(cs ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		m[c] = struct{}{}
	}
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// TestBuildCooccurrence
// ─────────────────────────────────────────────────────────────────────────────

func TestBuildCooccurrence_DropsSingleCodeItems(t *testing.T) {
	t.Parallel()

	items := []kernel.CodedItem{
		{Codes: codes("A"), Year: 2020},
		{Codes: codes("B", "C"), Year: 2021},
	}
	m := kernel.BuildCooccurrence(items, 10)
	assert.Equal(t, 1, m.TotalItems, "the single-code item is excluded before ranking")
}

func TestBuildCooccurrence_SymmetricZeroDiagonal(t *testing.T) {
	t.Parallel()

	items := []kernel.CodedItem{
		{Codes: codes("A", "B"), Year: 2020},
		{Codes: codes("A", "B", "C"), Year: 2021},
		{Codes: codes("B", "C"), Year: 2021},
	}
	m := kernel.BuildCooccurrence(items, 10)

	require := assert.New(t)
	for i := range m.Matrix {
		require.Equal(0.0, m.Matrix[i][i])
		for j := range m.Matrix {
			require.Equal(m.Matrix[i][j], m.Matrix[j][i])
		}
	}
}

func TestBuildCooccurrence_JaccardValue(t *testing.T) {
	t.Parallel()

	items := []kernel.CodedItem{
		{Codes: codes("A", "B"), Year: 2020},
		{Codes: codes("A", "B"), Year: 2021},
		{Codes: codes("A", "C"), Year: 2021},
	}
	m := kernel.BuildCooccurrence(items, 10)

	idxA, idxB := -1, -1
	for i, l := range m.Labels {
		if l == "A" {
			idxA = i
		}
		if l == "B" {
			idxB = i
		}
	}
	require.GreaterOrEqual(t, idxA, 0)
	require.GreaterOrEqual(t, idxB, 0)
	// A appears in all 3 items, B in 2, intersection(A,B) = 2 -> union = 3
	assert.InDelta(t, 2.0/3.0, m.Matrix[idxA][idxB], 0.0001)
}

func TestBuildCooccurrence_TopNLexicographicTieBreak(t *testing.T) {
	t.Parallel()

	items := []kernel.CodedItem{
		{Codes: codes("Z", "Y"), Year: 2020},
	}
	m := kernel.BuildCooccurrence(items, 1)
	require.Len(t, m.Labels, 1)
	assert.Equal(t, "Y", m.Labels[0], "Y and Z are tied at frequency 1; Y sorts first lexicographically")
}

// ─────────────────────────────────────────────────────────────────────────────
// TestEstimateJaccardConfidence
// ─────────────────────────────────────────────────────────────────────────────

func TestEstimateJaccardConfidence_EmptyUnion(t *testing.T) {
	t.Parallel()

	c := kernel.EstimateJaccardConfidence(0, 0, 100, 1000)
	assert.Equal(t, kernel.JaccardConfidence{}, c)
}

func TestEstimateJaccardConfidence_FullPopulationIsExact(t *testing.T) {
	t.Parallel()

	c := kernel.EstimateJaccardConfidence(5, 10, 1000, 1000)
	require := assert.New(t)
	require.Equal(0.5, c.Jaccard)
	require.Equal(0.5, c.CILower)
	require.Equal(0.5, c.CIUpper)
	require.Equal(0.0, c.StandardError)
}

func TestEstimateJaccardConfidence_SampledHasWiderInterval(t *testing.T) {
	t.Parallel()

	c := kernel.EstimateJaccardConfidence(50, 100, 1000, 10000)
	require := assert.New(t)
	require.Equal(0.5, c.Jaccard)
	require.Greater(c.MarginOfError95, 0.0)
	require.Less(c.CILower, c.Jaccard)
	require.Greater(c.CIUpper, c.Jaccard)
}
