package kernel_test

import (
	"testing"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/stretchr/testify/assert"
)

func TestHIndex_ClassicExample(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, kernel.HIndex([]int{6, 5, 3, 1, 0}))
}

func TestHIndex_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, kernel.HIndex(nil))
}

func TestHIndex_AllZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, kernel.HIndex([]int{0, 0, 0}))
}

func TestHIndex_UnsortedInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, kernel.HIndex([]int{0, 1, 3, 5, 6}))
}
