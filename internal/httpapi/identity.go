package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken     = errors.New("missing bearer token")
	errInvalidToken     = errors.New("invalid bearer token")
	errIdentityMismatch = errors.New("userId does not match authenticated user")
)

// IdentityVerifier issues and checks HS256 bearer tokens whose subject is the
// user id.
type IdentityVerifier struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIdentityVerifier returns nil when secret is empty, which leaves the API
// trusting the userId sent in request bodies.
func NewIdentityVerifier(secret string, ttl time.Duration) *IdentityVerifier {
	if secret == "" {
		return nil
	}
	return &IdentityVerifier{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (v *IdentityVerifier) IssueToken(subject string) (string, time.Time, error) {
	now := v.now()
	expireAt := now.Add(v.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expireAt),
	})
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expireAt, nil
}

// Subject extracts and verifies the bearer token on r.
func (v *IdentityVerifier) Subject(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: subject is empty", errInvalidToken)
	}
	return claims.Subject, nil
}

// resolveUser picks the acting user for a request. With identity enabled the
// token subject wins and a conflicting body userId is refused.
func (a *API) resolveUser(r *http.Request, bodyUserID string) (string, error) {
	if a.identity == nil {
		return bodyUserID, nil
	}

	subject, err := a.identity.Subject(r)
	if err != nil {
		return "", err
	}
	bodyUserID = strings.TrimSpace(bodyUserID)
	if bodyUserID != "" && !strings.EqualFold(bodyUserID, subject) {
		return "", errIdentityMismatch
	}
	return subject, nil
}
