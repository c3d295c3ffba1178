package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
)

// TokenService issues and validates stateless signed bearer tokens. A token
// carries only the subject (user id) and an absolute expiry; there is no
// server-side session state and no revocation list.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	algs   []string
	ttl    time.Duration
}

// NewTokenService creates a TokenService for one of the HMAC algorithms
// (HS256, HS384, HS512). The algorithm name is pinned: tokens signed with
// any other method fail validation.
func NewTokenService(secret, algorithm string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		method: jwt.GetSigningMethod(algorithm),
		algs:   []string{algorithm},
		ttl:    ttl,
	}
}

// Issue creates a signed token for the given user id with the default TTL.
func (s *TokenService) Issue(subject int64) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL creates a signed token expiring at now + ttl.
func (s *TokenService) IssueWithTTL(subject int64, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subject, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Validate parses and verifies a token string and returns its subject.
// Bad signature, wrong algorithm, malformed payload, missing or non-numeric
// subject and past expiry all collapse into the same Unauthorized error.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods(s.algs), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, apierr.Unauthorized()
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apierr.Unauthorized()
	}
	return subject, nil
}
