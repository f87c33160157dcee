package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"integrationhub/internal/shared/biztime"
)

// OperatorClaims identifies the caller of the operator endpoints (link, revoke, contacts).
type OperatorClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

const OperatorScope = "integrations:admin"

// OperatorTokenService issues and verifies HS256 operator bearer tokens.
type OperatorTokenService struct {
	secret []byte
	issuer string
}

func NewOperatorTokenService(secret, issuer string) *OperatorTokenService {
	return &OperatorTokenService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Issue signs a token for subject valid for ttl.
func (s *OperatorTokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}

	now := biztime.NowUTC()
	claims := &OperatorClaims{
		Scope: OperatorScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign operator token: %w", err)
	}
	return signed, nil
}

func (s *OperatorTokenService) Verify(tokenString string) (*OperatorClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Scope != OperatorScope {
		return nil, fmt.Errorf("token scope %q is not allowed", claims.Scope)
	}
	return claims, nil
}
