package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

type Session struct {
	Token        string
	SessionID    string
	RestaurantID string
	TableNumber  string
	ExpiresAt    time.Time
}

type Service struct {
	tokens *tokenStore
	ttl    time.Duration
}

func New(ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &Service{tokens: newTokenStore(time.Now), ttl: ttl}
}

func (s *Service) Issue(_ context.Context, restaurantID, tableNumber string) (*Session, error) {
	sess := Session{
		SessionID:    uuid.NewString(),
		RestaurantID: restaurantID,
		TableNumber:  strings.TrimSpace(tableNumber),
	}
	token, expires, err := s.tokens.Issue(sess, s.ttl)
	if err != nil {
		return nil, err
	}
	sess.Token = token
	sess.ExpiresAt = expires
	return &sess, nil
}

func (s *Service) Lookup(_ context.Context, restaurantID, token string) (*Session, error) {
	sess, ok := s.tokens.Validate(token)
	if !ok || sess.RestaurantID != restaurantID {
		return nil, ErrInvalidToken
	}
	return &sess, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
