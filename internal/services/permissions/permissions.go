// Package permissions реализует матрицу прав доступа в памяти процесса.
//
// Матрица не связана с аутентификационной сессией и не сохраняется
// в удалённом хранилище. Каталог назначаемых прав фиксирован, набор
// супер-администратора неизменяем.
package permissions

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/notify"
)

// SuperAdminID — идентификатор супер-администратора, чей набор прав
// не может быть изменён или удалён ни одной операцией.
const SuperAdminID = "1"

var (
	// ErrEmptyName возвращается при попытке создать пользователя с пустым именем.
	ErrEmptyName = errors.New("user name is empty")
	// ErrSuperAdmin возвращается при попытке изменить или удалить супер-администратора.
	ErrSuperAdmin = errors.New("super admin is immutable")
	// ErrUnknownCapability возвращается для права вне фиксированного каталога.
	ErrUnknownCapability = errors.New("unknown capability")
)

// Store хранит назначения прав по пользователям.
type Store struct {
	notifier notify.Notifier
	log      *slog.Logger

	mu    sync.RWMutex
	users map[string]*models.UserPermission
	order []string // порядок добавления для стабильного вывода
}

// New создаёт матрицу прав, заполненную исходными пользователями:
// супер-администратором со всеми правами и супервизором абонентов.
func New(notifier notify.Notifier, log *slog.Logger) *Store {
	s := &Store{
		notifier: notifier,
		log:      log,
		users:    make(map[string]*models.UserPermission),
	}
	s.seed(models.UserPermission{
		UserID:      SuperAdminID,
		UserName:    "مدير النظام",
		Permissions: models.Capabilities(),
	})
	s.seed(models.UserPermission{
		UserID:   "2",
		UserName: "مشرف المشتركين",
		Permissions: []string{
			models.CapManageSubscribers,
			models.CapManageRequests,
			models.CapViewAnalytics,
		},
	})
	return s
}

func (s *Store) seed(user models.UserPermission) {
	s.users[user.UserID] = &user
	s.order = append(s.order, user.UserID)
}

// SetPermission добавляет или удаляет право в наборе пользователя.
// Несуществующий пользователь — no-op без ошибки. Изменение
// супер-администратора отклоняется, как и право вне каталога.
func (s *Store) SetPermission(userID, capability string, granted bool) error {
	if userID == SuperAdminID {
		s.notifier.Failure("permission_updated", "the super admin permissions cannot be changed")
		return ErrSuperAdmin
	}
	if !knownCapability(capability) {
		s.notifier.Failure("permission_updated", "unknown capability")
		return ErrUnknownCapability
	}

	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	if granted {
		if !contains(user.Permissions, capability) {
			user.Permissions = append(user.Permissions, capability)
		}
	} else {
		filtered := user.Permissions[:0]
		for _, p := range user.Permissions {
			if p != capability {
				filtered = append(filtered, p)
			}
		}
		user.Permissions = filtered
	}
	s.mu.Unlock()

	s.log.Info("updated user permissions", slog.String("user_id", userID), slog.String("capability", capability))
	s.notifier.Success("permission_updated", "the user permissions were updated")
	return nil
}

// AddUser создаёт нового пользователя с указанным набором прав и свежим
// идентификатором. Пустое или состоящее из пробелов имя отклоняется до
// каких-либо изменений, как и права вне каталога.
func (s *Store) AddUser(name string, capabilities []string) (*models.UserPermission, error) {
	if isBlank(name) {
		s.notifier.Failure("user_added", "the user name is required")
		return nil, ErrEmptyName
	}
	for _, capability := range capabilities {
		if !knownCapability(capability) {
			s.notifier.Failure("user_added", "unknown capability")
			return nil, ErrUnknownCapability
		}
	}

	user := &models.UserPermission{
		UserID:      uuid.NewString(),
		UserName:    name,
		Permissions: append([]string(nil), capabilities...),
	}

	s.mu.Lock()
	s.users[user.UserID] = user
	s.order = append(s.order, user.UserID)
	s.mu.Unlock()

	s.log.Info("added permission user", slog.String("user_id", user.UserID))
	s.notifier.Success("user_added", "the new user was added with its permissions")
	result := *user
	return &result, nil
}

// RemoveUser удаляет пользователя и все его назначения прав.
// Удаление супер-администратора отклоняется, несуществующий
// пользователь — no-op.
func (s *Store) RemoveUser(userID string) error {
	if userID == SuperAdminID {
		s.notifier.Failure("user_removed", "the super admin cannot be removed")
		return ErrSuperAdmin
	}

	s.mu.Lock()
	if _, ok := s.users[userID]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.users, userID)
	for i, id := range s.order {
		if id == userID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.log.Info("removed permission user", slog.String("user_id", userID))
	s.notifier.Success("user_removed", "the user and all its permissions were removed")
	return nil
}

// List возвращает копию всех назначений в порядке добавления пользователей.
// Права каждого пользователя отсортированы по порядку каталога.
func (s *Store) List() []models.UserPermission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.UserPermission, 0, len(s.order))
	for _, id := range s.order {
		user := s.users[id]
		permissions := append([]string(nil), user.Permissions...)
		sort.Slice(permissions, func(i, j int) bool {
			return catalogIndex(permissions[i]) < catalogIndex(permissions[j])
		})
		result = append(result, models.UserPermission{
			UserID:      user.UserID,
			UserName:    user.UserName,
			Permissions: permissions,
		})
	}
	return result
}

// Get возвращает копию назначений одного пользователя.
func (s *Store) Get(userID string) (*models.UserPermission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, false
	}
	result := models.UserPermission{
		UserID:      user.UserID,
		UserName:    user.UserName,
		Permissions: append([]string(nil), user.Permissions...),
	}
	return &result, true
}

func knownCapability(capability string) bool {
	return contains(models.Capabilities(), capability)
}

func catalogIndex(capability string) int {
	for i, c := range models.Capabilities() {
		if c == capability {
			return i
		}
	}
	return len(models.Capabilities())
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
