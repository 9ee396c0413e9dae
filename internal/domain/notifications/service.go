package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// EmailLookup resolves a user's address for best-effort email delivery.
type EmailLookup interface {
	UserEmail(ctx context.Context, userID string) (string, error)
}

type Service struct {
	Store  *Store
	Mailer Mailer
	Emails EmailLookup
	From   string
}

func New(store *Store, mailer Mailer, emails EmailLookup, from string) *Service {
	return &Service{Store: store, Mailer: mailer, Emails: emails, From: from}
}

// Notify records an in-app notification and mirrors it by email when a
// mailer is configured. Email failures are logged, never surfaced; the
// in-app record is the source of truth.
func (s *Service) Notify(ctx context.Context, userID, tipo, titulo, mensagem string, origemID *string) error {
	if err := s.Store.Create(ctx, userID, tipo, titulo, mensagem, origemID); err != nil {
		return err
	}
	s.email(ctx, userID, titulo, mensagem)
	return nil
}

// NotifySwept is the sweep variant: one notification per user, type,
// origin, and UTC day. Returns whether this call created the record.
func (s *Service) NotifySwept(ctx context.Context, userID, tipo, titulo, mensagem, origemID string, dia Day) (bool, error) {
	created, err := s.Store.CreateSwept(ctx, userID, tipo, titulo, mensagem, origemID, dia.Time())
	if err != nil {
		return false, err
	}
	if created {
		s.email(ctx, userID, titulo, mensagem)
	}
	return created, nil
}

func (s *Service) email(ctx context.Context, userID, subject, body string) {
	if s.Mailer == nil || s.Emails == nil {
		return
	}
	to, err := s.Emails.UserEmail(ctx, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return
	}
	if to == "" {
		return
	}
	if err := s.Mailer.Send(ctx, s.From, to, subject, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
}

func (s *Service) List(ctx context.Context, userID string, onlyUnread bool, limit int) ([]Notification, error) {
	return s.Store.List(ctx, userID, onlyUnread, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Store.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Store.MarkRead(ctx, userID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.Store.MarkAllRead(ctx, userID)
}
