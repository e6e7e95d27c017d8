package security

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

var ErrBadResetToken = errors.New("malformed reset token")

// ResetSealer issues opaque password-reset tokens: a small JSON payload
// sealed with AES-256-GCM and base64url-encoded. The expiry travels inside
// the ciphertext, so tokens need no server-side state.
type ResetSealer struct {
	cs CryptoService
}

func NewResetSealer(cs CryptoService) *ResetSealer {
	return &ResetSealer{cs: cs}
}

type resetPayload struct {
	UserID    string `json:"uid"`
	ExpiresAt int64  `json:"exp"`
}

func (r *ResetSealer) Seal(userID string, expiresAt time.Time) (string, error) {
	raw, err := json.Marshal(resetPayload{UserID: userID, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return "", err
	}
	ct, err := r.cs.Encrypt(raw)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func (r *ResetSealer) Unseal(token string) (string, time.Time, error) {
	ct, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", time.Time{}, ErrBadResetToken
	}
	raw, err := r.cs.Decrypt(ct)
	if err != nil {
		return "", time.Time{}, ErrBadResetToken
	}
	var p resetPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", time.Time{}, ErrBadResetToken
	}
	return p.UserID, time.Unix(p.ExpiresAt, 0), nil
}
