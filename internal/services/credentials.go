package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the validity window of an access token
const TokenTTL = 24 * time.Hour

type tokenClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Credentials hashes passwords and issues and verifies access tokens
type Credentials struct {
	secret []byte
	cost   int
	now    func() time.Time
}

// NewCredentials creates a credential service. An empty secret is rejected
// so tokens are never signed with an empty key.
func NewCredentials(secret string, bcryptCost int) (*Credentials, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
	}
	return &Credentials{
		secret: []byte(secret),
		cost:   bcryptCost,
		now:    time.Now,
	}, nil
}

// HashPassword returns a salted bcrypt hash of plain
func (c *Credentials) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches hash
func (c *Credentials) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IssueToken signs a token carrying userID, valid for TokenTTL
func (c *Credentials) IssueToken(userID string) (string, error) {
	now := c.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken validates tokenString and returns the user ID it carries
func (c *Credentials) VerifyToken(tokenString string) (string, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
