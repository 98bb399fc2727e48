package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы платежа.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment представляет платёж абонента. Записи только добавляются,
// операция обновления платежа не предусмотрена.
type Payment struct {
	ID             string          `json:"id"`
	SubscriberID   string          `json:"subscriber_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	Status         string          `json:"status"` // pending, completed, failed или refunded
	TransactionID  *string         `json:"transaction_id,omitempty"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	SubscriberName string          `json:"subscriber_name,omitempty"`
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	SubscriberID  string  `json:"subscriber_id" validate:"required"`
	Amount        string  `json:"amount" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Status        string  `json:"status" validate:"required,oneof=pending completed failed refunded"`
	TransactionID *string `json:"transaction_id,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate       *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
