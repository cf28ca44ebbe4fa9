package repository

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestNormalizeTimeframe(t *testing.T) {
	tests := []struct {
		in   string
		want Timeframe
		pts  int
	}{
		{"24h", TF24h, 24},
		{"7d", TF7d, 7},
		{"30d", TF30d, 30},
		{"90d", TF90d, 90},
		{"", TF90d, 90},
		{"1y", TF90d, 90},
	}
	for _, test := range tests {
		tf := NormalizeTimeframe(test.in)
		assert.Equal(t, test.want, tf)
		assert.Equal(t, test.pts, tf.Points())
	}
}

func TestNormalizeSort(t *testing.T) {
	f, o := NormalizeSort("", "")
	assert.Equal(t, SortAllocation, f)
	assert.Equal(t, SortDesc, o)

	f, o = NormalizeSort("price", "asc")
	assert.Equal(t, SortPrice, f)
	assert.Equal(t, SortAsc, o)

	f, o = NormalizeSort("volume", "sideways")
	assert.Equal(t, SortAllocation, f)
	assert.Equal(t, SortDesc, o)
}
