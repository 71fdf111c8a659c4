package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := parsePeriod("2024-03-01", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), p.End)

	p, err = parsePeriod("2024-03-01T08:00:00Z", "2024-03-01T17:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), p.End)
}

func TestParsePeriod_Invalid(t *testing.T) {
	_, err := parsePeriod("yesterday", "2024-03-15")
	assert.Error(t, err)

	_, err = parsePeriod("2024-03-15", "2024-03-01")
	assert.Error(t, err)
}
