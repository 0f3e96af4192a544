package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidSignature   = errors.New("invalid token signature")
	ErrTokenMalformed     = errors.New("malformed token")
)

// AuthService verifies the single admin credential and issues/validates the
// bearer tokens that gate mutating endpoints. Tokens are self-contained HS256
// JWTs; there is no server-side session state and no revocation list.
type AuthService struct {
	userDigest [sha256.Size]byte
	passDigest [sha256.Size]byte
	passBcrypt []byte // set instead of passDigest when the secret is a bcrypt hash
	jwtSecret  []byte
	ttl        time.Duration
}

// NewAuthService builds an AuthService for the configured admin identity.
// If adminPassword looks like a bcrypt hash ($2a$/$2b$/$2y$ prefix) it is
// compared with bcrypt; otherwise with a constant-time digest comparison.
func NewAuthService(adminUsername, adminPassword, jwtSecret string, ttl time.Duration) *AuthService {
	s := &AuthService{
		userDigest: sha256.Sum256([]byte(adminUsername)),
		jwtSecret:  []byte(jwtSecret),
		ttl:        ttl,
	}
	if isBcryptHash(adminPassword) {
		s.passBcrypt = []byte(adminPassword)
	} else {
		s.passDigest = sha256.Sum256([]byte(adminPassword))
	}
	return s
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// VerifyCredentials reports whether the supplied pair matches the configured
// admin identity. Inputs are hashed before comparison so timing is
// independent of both content and length, and both checks always run.
func (s *AuthService) VerifyCredentials(username, password string) bool {
	userSum := sha256.Sum256([]byte(username))
	userOK := subtle.ConstantTimeCompare(userSum[:], s.userDigest[:])

	var passOK int
	if s.passBcrypt != nil {
		if bcrypt.CompareHashAndPassword(s.passBcrypt, []byte(password)) == nil {
			passOK = 1
		}
	} else {
		passSum := sha256.Sum256([]byte(password))
		passOK = subtle.ConstantTimeCompare(passSum[:], s.passDigest[:])
	}

	return userOK&passOK == 1
}

// TokenTTL returns the configured token lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

// IssueToken creates a signed bearer token for the given subject, expiring
// after the configured TTL.
func (s *AuthService) IssueToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		Issuer:    "quill",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken verifies a bearer token and returns its subject. Failures map
// to the sentinel errors: ErrTokenExpired past expiry, ErrInvalidSignature on
// tampering or a wrong signing method, ErrTokenMalformed when the token can't
// be decoded or carries no subject.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", ErrInvalidSignature
		}
	}
	if !token.Valid {
		return "", ErrInvalidSignature
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
