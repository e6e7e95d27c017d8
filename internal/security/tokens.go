package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursely/course-api/configs"
)

// Permissions carried in the "perms" claim. Admin accounts get all of them;
// regular accounts get the user pair.
const (
	PermCoursesRead = "courses.read"
	PermOrdersWrite = "orders.write"
	PermAdmin       = "admin"
)

// JWTIssuer mints HS256 session tokens for signed-in users.
type JWTIssuer struct {
	cfg configs.Config
}

func NewJWTIssuer(cfg configs.Config) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

func (i *JWTIssuer) Issue(userID, email string, admin bool) (string, time.Duration, error) {
	perms := []string{PermCoursesRead, PermOrdersWrite}
	if admin {
		perms = append(perms, PermAdmin)
	}

	now := time.Now()
	ttl := i.cfg.Security.TTL
	claims := jwt.MapClaims{
		"iss":   i.cfg.Security.Issuer,   // issuer
		"aud":   i.cfg.Security.Audience, // audience
		"iat":   now.Unix(),              // issued at
		"nbf":   now.Unix(),              // not before
		"exp":   now.Add(ttl).Unix(),     // expire
		"sub":   userID,
		"email": email,
		"perms": perms,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.cfg.Security.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}
