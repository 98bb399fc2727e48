// Package auth содержит контекст аутентификации: проверку учётных данных,
// построение сессии и её сохранение между запусками процесса.
//
// Контекст различает два состояния — анонимное и аутентифицированное.
// Успешный вход сохраняет сессию в хранилище; при старте процесса
// сохранённая сессия восстанавливается без повторной проверки пароля.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/speedx-ps/subscriber-hub/internal/lib/jwt"
	"github.com/speedx-ps/subscriber-hub/internal/lib/password"
	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/sessions"
)

// ErrInvalidCredentials возвращается при неверном пароле или неизвестном пользователе.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service реализует контекст аутентификации.
type Service struct {
	creds    CredentialSource
	store    sessions.Store
	jwtMaker jwt.Maker
	log      *slog.Logger

	mu      sync.RWMutex
	current *models.Session
}

// New создает новый экземпляр Service.
func New(creds CredentialSource, store sessions.Store, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		creds:    creds,
		store:    store,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет учётные данные и при точном совпадении строит сессию,
// сохраняет её и переводит контекст в аутентифицированное состояние.
// Возвращает сессию и JWT для HTTP API. При несовпадении состояние не
// меняется и возвращается ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (*models.Session, string, error) {
	const op = "auth.Login"

	cred, ok := s.creds.Lookup(username)
	if !ok {
		return nil, "", ErrInvalidCredentials
	}
	if err := password.CompareHash(cred.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	session := buildSession(cred)
	if err := s.store.Set(ctx, *session); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(cred.Username, cred.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.log.Info("user logged in", slog.String("username", username), slog.String("role", cred.Role))
	return session, token, nil
}

// Logout очищает текущую сессию и её сохранённую копию и безусловно
// переводит контекст в анонимное состояние.
func (s *Service) Logout(ctx context.Context, username string) error {
	const op = "auth.Logout"

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged out", slog.String("username", username))
	return nil
}

// Restore загружает сохранённую сессию при старте процесса без повторной
// проверки учётных данных. Отсутствие сохранённой сессии оставляет
// контекст анонимным и возвращает sessions.ErrNoSession.
func (s *Service) Restore(ctx context.Context, username string) (*models.Session, error) {
	session, err := s.store.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.log.Info("session restored", slog.String("username", username))
	return session, nil
}

// Current возвращает текущую сессию или nil в анонимном состоянии.
func (s *Service) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

// IsAuthenticated сообщает, находится ли контекст в аутентифицированном состоянии.
func (s *Service) IsAuthenticated() bool {
	return s.Current() != nil
}

// buildSession строит сессию из учётной записи. Профильные поля
// включаются только для роли subscriber.
func buildSession(cred *Credential) *models.Session {
	session := &models.Session{
		Username: cred.Username,
		Role:     cred.Role,
		Name:     cred.Name,
	}
	if cred.Role == models.RoleSubscriber {
		session.Phone = &cred.Phone
		session.Location = &cred.Location
		session.Package = &cred.Package
		session.Speed = &cred.Speed
		session.StartDate = &cred.StartDate
		session.EndDate = &cred.EndDate
	}
	return session
}
