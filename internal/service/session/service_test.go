package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndLookup(t *testing.T) {
	svc := New(time.Hour)
	ctx := context.Background()

	sess, err := svc.Issue(ctx, "rest-1", " T12 ")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := uuid.Parse(sess.SessionID); err != nil {
		t.Fatalf("session id is not a uuid: %q", sess.SessionID)
	}
	if sess.Token == "" || sess.TableNumber != "T12" {
		t.Fatalf("unexpected session %+v", sess)
	}

	got, err := svc.Lookup(ctx, "rest-1", sess.Token)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.SessionID != sess.SessionID || got.TableNumber != "T12" {
		t.Fatalf("lookup mismatch %+v", got)
	}
	if svc.TTLSeconds() != 3600 {
		t.Fatalf("unexpected ttl %d", svc.TTLSeconds())
	}
}

func TestLookup_Rejections(t *testing.T) {
	svc := New(time.Hour)
	ctx := context.Background()
	sess, err := svc.Issue(ctx, "rest-1", "T1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name         string
		restaurantID string
		token        string
	}{
		{"unknown token", "rest-1", "nope"},
		{"other restaurant", "rest-2", sess.Token},
		{"empty token", "rest-1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Lookup(ctx, tc.restaurantID, tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	store := newTokenStore(func() time.Time { return now })

	token, _, err := store.Issue(Session{SessionID: "s1", RestaurantID: "r"}, 3*time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, ok := store.Validate(token); !ok {
		t.Fatalf("fresh token should validate")
	}

	now = now.Add(3*time.Hour + time.Second)
	if _, ok := store.Validate(token); ok {
		t.Fatalf("expired token should not validate")
	}
	if len(store.tokens) != 0 {
		t.Fatalf("expired token should be removed")
	}
}
