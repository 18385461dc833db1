package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"signcraft/internal/repos"
)

// ErrBadCreds covers unknown user and wrong password alike; the response never
// distinguishes which check failed.
var ErrBadCreds = errors.New("invalid credentials")

const SessionTTL = 8 * time.Hour

type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret)}
}

// Login verifies credentials and mints a signed, time-limited session token.
func (s *AuthService) Login(username, password string) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrBadCreds
	}
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", ErrBadCreds
	}

	now := time.Now()
	claims := SessionClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify parses and validates a session token.
func (s *AuthService) Verify(token string) (*SessionClaims, error) {
	if len(s.Secret) == 0 {
		return nil, ErrBadCreds
	}
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrBadCreds
	}
	return claims, nil
}
