package pagination_test

import (
	"testing"
	"time"

	"github.com/fikiricreative/fikiri_ops_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 14, 10, 30, 0, 123456789, time.UTC)
	id := "9f2c1d66-6a1e-4c3a-8f4d-1f7b2a9c0e11"

	token := pagination.EncodeToken(createdAt, id)
	require.NotEmpty(t, token)

	gotTime, gotID, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	// Valid base64 but missing the separator
	_, _, err = pagination.DecodeToken("aGVsbG8=")
	assert.Error(t, err)
}
