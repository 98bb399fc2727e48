// Package models содержит доменные структуры абонентов, заявок на обслуживание
// и платежей, а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы абонента.
const (
	SubscriberActive    = "active"
	SubscriberExpired   = "expired"
	SubscriberSuspended = "suspended"
)

// Subscriber представляет запись абонента провайдера.
// Поля ID, CreatedAt и UpdatedAt назначаются сервером при вставке.
// Система не требует, чтобы EndDate была позже StartDate.
type Subscriber struct {
	ID           string          `json:"id"`
	UserID       *string         `json:"user_id,omitempty"` // Ссылка на учётную запись, может отсутствовать
	FullName     string          `json:"full_name"`
	Phone        string          `json:"phone"`
	Location     string          `json:"location"`
	PackageName  string          `json:"package_name"`
	PackageSpeed string          `json:"package_speed"`
	Status       string          `json:"status"` // active, expired или suspended
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	MonthlyFee   decimal.Decimal `json:"monthly_fee"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DummySubscriber используется для приёма данных абонента из JSON-запроса,
// прежде чем конвертировать их в Subscriber. Даты и сумма приходят строками,
// чтобы их можно было валидировать и парсить вручную.
type DummySubscriber struct {
	UserID       *string `json:"user_id,omitempty"`
	FullName     string  `json:"full_name" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	PackageName  string  `json:"package_name" validate:"required"`
	PackageSpeed string  `json:"package_speed" validate:"required"`
	Status       string  `json:"status" validate:"required,oneof=active expired suspended"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	MonthlyFee   string  `json:"monthly_fee" validate:"required"`
}

// SubscriberPatch описывает частичное обновление записи абонента.
// Только ненулевые поля попадают в запрос UPDATE.
type SubscriberPatch struct {
	UserID       *string          `json:"user_id,omitempty"`
	FullName     *string          `json:"full_name,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Location     *string          `json:"location,omitempty"`
	PackageName  *string          `json:"package_name,omitempty"`
	PackageSpeed *string          `json:"package_speed,omitempty"`
	Status       *string          `json:"status,omitempty" validate:"omitempty,oneof=active expired suspended"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	MonthlyFee   *decimal.Decimal `json:"monthly_fee,omitempty"`
}

// IsEmpty сообщает, что патч не содержит ни одного поля.
func (p SubscriberPatch) IsEmpty() bool {
	return p.UserID == nil && p.FullName == nil && p.Phone == nil &&
		p.Location == nil && p.PackageName == nil && p.PackageSpeed == nil &&
		p.Status == nil && p.StartDate == nil && p.EndDate == nil && p.MonthlyFee == nil
}
