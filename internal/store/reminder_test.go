package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueCutoff(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	zone := time.FixedZone("UTC-5", -5*60*60)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"whole microsecond unchanged", base, base},
		{"sub microsecond rounds up", base.Add(800 * time.Nanosecond), base.Add(time.Microsecond)},
		{"one nanosecond rounds up", base.Add(time.Nanosecond), base.Add(time.Microsecond)},
		{"converted to utc", base.In(zone), base},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DueCutoff(tt.now)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
