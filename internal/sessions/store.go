// Package sessions хранит сериализованные сессии пользователей.
//
// Redis-реализация играет роль постоянного хранилища сессий: одна запись
// на пользователя под ключом speedx:session:<username>. Отсутствие ключа
// означает анонимное состояние.
package sessions

import (
	"context"
	"errors"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// ErrNoSession возвращается, когда сохранённая сессия отсутствует.
var ErrNoSession = errors.New("no session")

// Store описывает хранилище сессий.
type Store interface {
	// Get возвращает сохранённую сессию пользователя или ErrNoSession.
	Get(ctx context.Context, username string) (*models.Session, error)
	// Set сохраняет сессию пользователя, перезаписывая существующую.
	Set(ctx context.Context, session models.Session) error
	// Delete удаляет сохранённую сессию. Отсутствие ключа не является ошибкой.
	Delete(ctx context.Context, username string) error
}
