package security

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/coursely/course-api/configs"
)

type CryptoMaterial struct {
	KeyID  string
	AESKey []byte
}

func NewCryptoMaterial(c configs.Config) (*CryptoMaterial, error) {
	if c.CryptoConfig.AES256B64 == "" {
		return nil, errors.New("missing aes256_b64url")
	}
	key, err := base64.RawURLEncoding.DecodeString(c.CryptoConfig.AES256B64)
	if err != nil {
		return nil, fmt.Errorf("decode aes256_b64url: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("aes key must be 32 bytes, got %d", len(key))
	}

	id := c.CryptoConfig.KeyID
	if id == "" {
		id = "v1"
	}
	return &CryptoMaterial{
		KeyID:  id,
		AESKey: key,
	}, nil
}
