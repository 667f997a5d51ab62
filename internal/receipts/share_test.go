package receipts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareTokenRoundTrip(t *testing.T) {
	issuer := NewShareTokenIssuer("secret-key", time.Hour)
	id := uuid.New()

	token, err := issuer.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestShareTokenExpired(t *testing.T) {
	issuer := NewShareTokenIssuer("secret-key", time.Minute)
	issued := time.Now()
	issuer.WithNow(func() time.Time { return issued })

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	issuer.WithNow(func() time.Time { return issued.Add(2 * time.Minute) })
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidShareToken)
}

func TestShareTokenWrongSecret(t *testing.T) {
	issuer := NewShareTokenIssuer("secret-key", time.Hour)
	other := NewShareTokenIssuer("different-key", time.Hour)

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidShareToken)
}

func TestShareTokenGarbage(t *testing.T) {
	issuer := NewShareTokenIssuer("secret-key", time.Hour)
	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidShareToken)
}
