package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leet_tracker/internal/app/session"
	"leet_tracker/internal/common"
	"leet_tracker/internal/common/security"
	"leet_tracker/internal/domain/model"
	"leet_tracker/internal/platform/logger"
)

// AuthService checks logins against a fixed roster and keeps the resulting
// sessions in an injected store.
type AuthService struct {
	users      map[string]string // username -> bcrypt hash
	sessions   session.Store
	tokens     *security.TokenIssuer
	sessionTTL time.Duration
	log        *logger.Logger
	now        func() time.Time
}

func NewAuthService(users map[string]string, sessions session.Store, tokens *security.TokenIssuer, sessionTTL time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		log:        log,
		now:        time.Now,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User      model.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	hash, ok := s.users[username]
	if !ok || !security.CheckPasswordHash(req.Password, hash) {
		s.log.Warn("login rejected", "username", username)
		return nil, common.ErrUnauthorized
	}

	now := s.now()
	sess := &model.Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.tokens.GenerateToken(username, sess.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info("user logged in", "username", username, "session_id", sess.ID)
	return &AuthResponse{User: model.User{Username: username}, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Session returns the live session, or common.ErrUnauthorized if it is gone.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrUnauthorized)
	}
	return sess, nil
}
