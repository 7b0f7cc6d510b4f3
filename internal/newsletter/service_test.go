package newsletter

import (
	"context"
	"errors"
	"testing"

	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

type stubSubscribers struct {
	created []string
	err     error
}

func (s *stubSubscribers) Create(_ context.Context, subscriber *models.NewsletterSubscriber) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, subscriber.Email)
	return nil
}

func newNewsletterService(t *testing.T, repo *stubSubscribers) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSubscribeNormalizesEmail(t *testing.T) {
	t.Parallel()

	repo := &stubSubscribers{}
	svc := newNewsletterService(t, repo)

	subscriber, err := svc.Subscribe(context.Background(), "  Ana@Example.COM ")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if subscriber.Email != "ana@example.com" {
		t.Fatalf("expected lowercased email, got %q", subscriber.Email)
	}
	if len(repo.created) != 1 || repo.created[0] != "ana@example.com" {
		t.Fatalf("unexpected persisted emails %v", repo.created)
	}
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	t.Parallel()

	repo := &stubSubscribers{}
	svc := newNewsletterService(t, repo)

	for _, email := range []string{"", "   ", "not-an-email", "a@"} {
		_, err := svc.Subscribe(context.Background(), email)
		if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
			t.Errorf("Subscribe(%q): expected validation error, got %v", email, err)
		}
	}
	if len(repo.created) != 0 {
		t.Fatalf("nothing should be persisted, got %v", repo.created)
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	t.Parallel()

	repo := &stubSubscribers{err: errors.New(`duplicate key value violates unique constraint "idx_newsletter_subscribers_email"`)}
	svc := newNewsletterService(t, repo)

	_, err := svc.Subscribe(context.Background(), "ana@example.com")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSubscribeDependencyFailure(t *testing.T) {
	t.Parallel()

	repo := &stubSubscribers{err: errors.New("connection refused")}
	svc := newNewsletterService(t, repo)

	_, err := svc.Subscribe(context.Background(), "ana@example.com")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
