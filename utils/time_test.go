package utils

import (
	"testing"
	"time"

	"github.com/magiconair/properties/assert"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{elapsed: 0, want: "0.00ms"},
		{elapsed: 12500 * time.Microsecond, want: "12.50ms"},
		{elapsed: 100 * time.Millisecond, want: "0.10s"},
		{elapsed: 2250 * time.Millisecond, want: "2.25s"},
	}
	for _, tt := range tests {
		assert.Equal(t, FormatElapsed(tt.elapsed), tt.want)
	}
}

func TestElapsedSince(t *testing.T) {
	start := time.Unix(1700000000, 0)
	assert.Equal(t, ElapsedSince(start, start.Add(3*time.Second)), "3.00s")
}
