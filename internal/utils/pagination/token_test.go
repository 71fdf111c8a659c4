package pagination_test

import (
	"testing"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 30, 0, 123456789, time.UTC)

	token := pagination.EncodeToken(at, "run-42")
	gotAt, gotID, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, "run-42", gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	for _, token := range []string{"%%%", "bm9waXBl", pagination.EncodeToken(time.Now(), "")} {
		_, _, err := pagination.DecodeToken(token)
		assert.Error(t, err, token)
	}
}
