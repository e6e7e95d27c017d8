package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSealer(t *testing.T) *ResetSealer {
	t.Helper()
	cs, err := NewCryptoService(&CryptoMaterial{KeyID: "test", AESKey: make([]byte, 32)})
	require.NoError(t, err)
	return NewResetSealer(cs)
}

func TestSealUnsealRoundtrip(t *testing.T) {
	s := testSealer(t)
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	token, err := s.Seal("user-42", exp)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	uid, got, err := s.Unseal(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", uid)
	assert.True(t, got.Equal(exp))
}

func TestUnsealRejectsGarbage(t *testing.T) {
	s := testSealer(t)

	_, _, err := s.Unseal("not base64url ***")
	assert.ErrorIs(t, err, ErrBadResetToken)

	_, _, err = s.Unseal("dmFsaWQtYmFzZTY0LWJ1dC1ub3QtYS10b2tlbg")
	assert.ErrorIs(t, err, ErrBadResetToken)
}

func TestUnsealRejectsTamperedToken(t *testing.T) {
	s := testSealer(t)

	token, err := s.Seal("user-42", time.Now().Add(time.Hour))
	require.NoError(t, err)

	tampered := []byte(token)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}
	_, _, err = s.Unseal(string(tampered))
	assert.ErrorIs(t, err, ErrBadResetToken)
}

func TestTokensFromDifferentKeysDoNotUnseal(t *testing.T) {
	s := testSealer(t)

	otherKey := make([]byte, 32)
	otherKey[0] = 1
	otherCS, err := NewCryptoService(&CryptoMaterial{KeyID: "other", AESKey: otherKey})
	require.NoError(t, err)
	other := NewResetSealer(otherCS)

	token, err := s.Seal("user-42", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, _, err = other.Unseal(token)
	assert.ErrorIs(t, err, ErrBadResetToken)
}
