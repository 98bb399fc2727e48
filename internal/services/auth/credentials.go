package auth

import (
	"github.com/speedx-ps/subscriber-hub/internal/lib/password"
	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// Credential описывает одну запись таблицы учётных данных.
// Профильные поля заполнены только для роли subscriber.
type Credential struct {
	Username     string
	PasswordHash string
	Role         string
	Name         string
	Phone        string
	Location     string
	Package      string
	Speed        string
	StartDate    string
	EndDate      string
}

// CredentialSource описывает источник учётных данных. Ядро не привязано
// к фиксированной таблице: реальная проверка личности подключается
// другой реализацией этого интерфейса.
type CredentialSource interface {
	// Lookup возвращает учётную запись по имени пользователя.
	Lookup(username string) (*Credential, bool)
}

// StaticCredentials — фиксированная таблица демонстрационных учётных
// записей: администратор и один абонент. Пароли хэшируются при создании
// таблицы и не хранятся открытым текстом.
type StaticCredentials struct {
	users map[string]Credential
}

// NewStaticCredentials создаёт таблицу с демонстрационными записями.
func NewStaticCredentials() (*StaticCredentials, error) {
	adminHash, err := password.GetHash("123")
	if err != nil {
		return nil, err
	}
	noorHash, err := password.GetHash("123")
	if err != nil {
		return nil, err
	}

	return &StaticCredentials{users: map[string]Credential{
		"admin": {
			Username:     "admin",
			PasswordHash: adminHash,
			Role:         models.RoleAdmin,
			Name:         "مدير النظام",
		},
		"noor": {
			Username:     "noor",
			PasswordHash: noorHash,
			Role:         models.RoleSubscriber,
			Name:         "نور محمد",
			Phone:        "0599123456",
			Location:     "رام الله",
			Package:      "باقة المتميز",
			Speed:        "60 ميجا",
			StartDate:    "2024-01-15",
			EndDate:      "2024-08-15",
		},
	}}, nil
}

// Lookup возвращает учётную запись по имени пользователя.
func (c *StaticCredentials) Lookup(username string) (*Credential, bool) {
	cred, ok := c.users[username]
	if !ok {
		return nil, false
	}
	return &cred, true
}
