package models

// Каталог назначаемых прав доступа. Список закрыт: никакая операция
// не может добавить право вне каталога.
const (
	CapManageSubscribers = "manage_subscribers"
	CapManageRequests    = "manage_requests"
	CapManagePayments    = "manage_payments"
	CapManageAdmins      = "manage_admins"
	CapViewAnalytics     = "view_analytics"
	CapSystemSettings    = "system_settings"
)

// Capabilities возвращает полный каталог прав в фиксированном порядке.
func Capabilities() []string {
	return []string{
		CapManageSubscribers,
		CapManageRequests,
		CapManagePayments,
		CapManageAdmins,
		CapViewAnalytics,
		CapSystemSettings,
	}
}

// UserPermission связывает пользователя с набором выданных ему прав.
type UserPermission struct {
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name"`
	Permissions []string `json:"permissions"`
}

// DummyPermissionUser используется для приёма нового пользователя матрицы прав.
type DummyPermissionUser struct {
	UserName    string   `json:"user_name" validate:"required"`
	Permissions []string `json:"permissions"`
}

// DummyPermissionToggle используется для приёма переключения одного права.
type DummyPermissionToggle struct {
	Capability string `json:"capability" validate:"required"`
	Granted    *bool  `json:"granted" validate:"required"`
}
