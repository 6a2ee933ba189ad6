package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

const (
	claimUserID  = "user_id"
	claimService = "service"
)

// Tokens issues and verifies the HS256 tokens used between services and by callers.
type Tokens struct {
	secret      []byte
	expiry      time.Duration
	serviceName string
	now         func() time.Time
}

func NewTokens(secret string, expiry time.Duration, serviceName string) *Tokens {
	return &Tokens{
		secret:      []byte(secret),
		expiry:      expiry,
		serviceName: serviceName,
		now:         time.Now,
	}
}

// GenerateToken issues a token identifying a user
func (t *Tokens) GenerateToken(userID string) (string, error) {
	return t.sign(jwt.MapClaims{
		claimUserID: userID,
		"exp":       t.now().Add(t.expiry).Unix(),
	})
}

// ServiceToken issues a token identifying this service to its collaborators
func (t *Tokens) ServiceToken() (string, error) {
	return t.sign(jwt.MapClaims{
		claimService: t.serviceName,
		"exp":        t.now().Add(t.expiry).Unix(),
	})
}

// ParseToken verifies the token and returns the user id it carries
func (t *Tokens) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidClaims
	}
	userID, ok := claims[claimUserID].(string)
	if !ok || userID == "" {
		return "", ErrInvalidClaims
	}

	return userID, nil
}

func (t *Tokens) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
