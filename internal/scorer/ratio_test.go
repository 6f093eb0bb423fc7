package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioIdentical(t *testing.T) {
	assert.Equal(t, 1.0, ratio("smith", "smith"))
}

func TestRatioEmptyBoth(t *testing.T) {
	assert.Equal(t, 1.0, ratio("", ""))
}

func TestRatioOneEmpty(t *testing.T) {
	assert.Equal(t, 0.0, ratio("smith", ""))
}

func TestRatioBounded(t *testing.T) {
	r := ratio("kitten", "sitting")
	assert.GreaterOrEqual(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestSortedJoin(t *testing.T) {
	assert.Equal(t, "john smith", sortedJoin([]string{"smith", "john"}))
}
