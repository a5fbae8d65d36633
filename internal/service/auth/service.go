package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agrismart/internal/domain/apperr"
	"agrismart/internal/domain/models"
	"agrismart/pkg/clients/identity"
)

// Decision is the outcome of one session gate evaluation.
type Decision int

const (
	Blocked Decision = iota
	Allowed
)

// Service mediates between the identity provider, the in-memory session
// store and the demo bypass flag. The gate decision is evaluated fresh on
// every protected request and never cached.
type Service struct {
	provider    identity.Client
	demoAllowed bool
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]models.Principal
	bypass   bool // demo mode marker, cleared only at logout
}

// NewService wires a new auth service instance. The bypass flag starts
// cleared at process start.
func NewService(provider identity.Client, demoAllowed bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider:    provider,
		demoAllowed: demoAllowed,
		logger:      logger,
		sessions:    make(map[string]models.Principal),
	}
}

// Login verifies the credential pair with the identity provider and, on
// success, opens a session and returns its token.
func (s *Service) Login(ctx context.Context, email, password string) (models.SessionInfo, error) {
	principal, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Warn("sign-in rejected", zap.String("email", email), zap.Error(err))
		return models.SessionInfo{}, err
	}

	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = *principal
	s.mu.Unlock()

	s.logger.Info("session opened", zap.String("uid", principal.UID))
	return models.SessionInfo{Token: token, Principal: principal}, nil
}

// DemoLogin sets the bypass flag without contacting the identity provider.
func (s *Service) DemoLogin() (models.SessionInfo, error) {
	if !s.demoAllowed {
		return models.SessionInfo{}, &apperr.ProviderError{Code: apperr.CodeProviderOther}
	}

	s.mu.Lock()
	s.bypass = true
	s.mu.Unlock()

	s.logger.Info("demo session opened, authentication bypassed")
	return models.SessionInfo{Demo: true}, nil
}

// Logout closes the token's session and clears the bypass flag.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.bypass = false
	s.mu.Unlock()

	s.logger.Info("session closed")
}

// Gate decides whether a navigation into a protected area may proceed:
// the bypass flag resolves Allowed immediately, otherwise a live session
// for the presented token must exist.
func (s *Service) Gate(token string) Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bypass {
		return Allowed
	}
	if _, ok := s.sessions[token]; ok && token != "" {
		return Allowed
	}
	return Blocked
}

// Session describes the current session for the presented token.
func (s *Service) Session(token string) models.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := models.SessionInfo{Demo: s.bypass}
	if principal, ok := s.sessions[token]; ok {
		info.Token = token
		info.Principal = &principal
	}
	return info
}
