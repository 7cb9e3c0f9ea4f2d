package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"classbot.app/tutor/common/id"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/store"
	"classbot.app/tutor/internal/tutor"
)

const maxNicknameLength = 32

var (
	ErrInvalidCredentials = errors.New("invalid class or passcode")
	ErrSessionExpired     = errors.New("session expired")
)

type AuthService interface {
	Login(ctx context.Context, class, nickname, passcode string) (*model.Session, error)
	ValidateSession(ctx context.Context, sessionID int64) (*model.Session, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type authService struct {
	sessionStore store.SessionStore
	passcodes    map[string]string
	ttl          time.Duration
}

// NewAuthService checks logins against a fixed class -> passcode roster.
func NewAuthService(sessionStore store.SessionStore, passcodes map[string]string, ttl time.Duration) AuthService {
	return &authService{
		sessionStore: sessionStore,
		passcodes:    passcodes,
		ttl:          ttl,
	}
}

func (s *authService) Login(ctx context.Context, class, nickname, passcode string) (*model.Session, error) {
	class = strings.TrimSpace(class)
	nickname = strings.TrimSpace(nickname)
	if class == "" || nickname == "" || passcode == "" {
		return nil, fmt.Errorf("%w: class, nickname and passcode are required", tutor.ErrValidation)
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		return nil, fmt.Errorf("%w: nickname longer than %d characters", tutor.ErrValidation, maxNicknameLength)
	}

	expected, ok := s.passcodes[class]
	if !ok || subtle.ConstantTimeCompare([]byte(expected), []byte(passcode)) != 1 {
		slog.WarnContext(ctx, "login rejected", "class", class)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &model.Session{
		ID:        id.New(),
		Class:     class,
		Nickname:  nickname,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessionStore.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	slog.InfoContext(ctx, "student logged in",
		"session_id", session.ID,
		"class", class)
	return session, nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.sessionStore.GetValid(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return session, nil
}

func (s *authService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessionStore.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "expired sessions purged", "count", n)
	}
	return n, nil
}
