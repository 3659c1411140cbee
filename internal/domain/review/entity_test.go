package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	avg, count := Aggregate([]int{5, 4, 3})
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 3, count)

	avg, count = Aggregate(nil)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, count)

	// out-of-range ratings are skipped
	avg, count = Aggregate([]int{5, 0, 9, 1})
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, 2, count)
}
