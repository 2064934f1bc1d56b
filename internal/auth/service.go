// Package auth issues anonymous identities and the tokens bound to them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/storage"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const maxCollegeLength = 120

var (
	// ErrUnauthenticated covers missing, malformed, forged and expired tokens.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCollege is returned by Login for an empty or oversized college.
	ErrInvalidCollege = errors.New("invalid college")
)

// Session is the result of a login.
type Session struct {
	Token   string `json:"token"`
	AnonID  string `json:"anonId"`
	College string `json:"college"`
}

// Service logs anonymous users in and out. Every login mints a new identity;
// returning users are never recognised.
type Service struct {
	store  storage.Storage
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store storage.Storage, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = config.TokenTTL
	}
	return &Service{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Login creates a fresh anonymous user for college and returns its token.
func (s *Service) Login(ctx context.Context, college string) (*Session, error) {
	college = strings.TrimSpace(college)
	if college == "" {
		return nil, fmt.Errorf("%w: college is required", ErrInvalidCollege)
	}
	if utf8.RuneCountInString(college) > maxCollegeLength {
		return nil, fmt.Errorf("%w: college must be at most %d characters", ErrInvalidCollege, maxCollegeLength)
	}

	user := &models.AnonymousUser{College: college}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.IssueToken(user.AnonID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("anon_id", user.AnonID).Str("college", college).Msg("anonymous user created")
	return &Session{Token: token, AnonID: user.AnonID, College: college}, nil
}

// IssueToken signs an HS256 token carrying only the anonymous id.
func (s *Service) IssueToken(anonID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"anonId": anonID,
		"iss":    config.TokenIssuer,
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate validates signature, algorithm, issuer and expiry and returns
// the anonymous id.
func (s *Service) Authenticate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrUnauthenticated
	}
	anonID, _ := claims["anonId"].(string)
	if anonID == "" {
		return "", fmt.Errorf("%w: token has no anonymous id", ErrUnauthenticated)
	}
	return anonID, nil
}

// Logout deletes the user's check-ins and then the user. The two deletes are
// not atomic; calling Logout again finishes an interrupted purge.
func (s *Service) Logout(ctx context.Context, anonID string) error {
	checkins, err := s.store.DeleteCheckIns(ctx, anonID)
	if err != nil {
		return err
	}
	users, err := s.store.DeleteUser(ctx, anonID)
	if err != nil {
		return err
	}

	log.Info().
		Str("anon_id", anonID).
		Int64("checkins", checkins).
		Int64("users", users).
		Msg("user data deleted")
	return nil
}
