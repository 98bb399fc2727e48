package models

// Роли пользователей системы.
const (
	RoleAdmin      = "admin"
	RoleSubscriber = "subscriber"
)

// Session представляет аутентифицированную сессию пользователя.
// Профильные поля заполняются только для роли subscriber.
type Session struct {
	Username  string  `json:"username"`
	Role      string  `json:"role"` // admin или subscriber
	Name      string  `json:"name"`
	Phone     *string `json:"phone,omitempty"`
	Location  *string `json:"location,omitempty"`
	Package   *string `json:"package,omitempty"`
	Speed     *string `json:"speed,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

// DummyLogin используется для приёма учётных данных из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DummyPasswordReset используется для приёма запроса на восстановление пароля.
type DummyPasswordReset struct {
	Email string `json:"email" validate:"required,email"`
}
