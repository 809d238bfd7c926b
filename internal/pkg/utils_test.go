package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUntilNextDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 15*time.Hour, UntilNextDay(now))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), StartOfDay(now))

	endOfMonth := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Minute, UntilNextDay(endOfMonth))
}
