package models

import "time"

// Типы и статусы заявок на обслуживание.
const (
	RequestTechnical  = "technical"
	RequestUpgrade    = "upgrade"
	RequestRelocation = "relocation"
	RequestRouter     = "router"

	RequestPending    = "pending"
	RequestInProgress = "in-progress"
	RequestCompleted  = "completed"
	RequestCancelled  = "cancelled"
)

// ServiceRequest представляет заявку абонента на обслуживание.
// CompletedAt заполняется только при переводе статуса в completed,
// остальные переходы его не трогают. SubscriberName — денормализованное
// имя абонента из соединённой выборки, используется только для отображения.
type ServiceRequest struct {
	ID             string     `json:"id"`
	SubscriberID   string     `json:"subscriber_id"`
	RequestType    string     `json:"request_type"` // technical, upgrade, relocation или router
	Description    string     `json:"description"`
	Status         string     `json:"status"`   // pending, in-progress, completed или cancelled
	Priority       string     `json:"priority"` // low, medium, high или urgent
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	SubscriberName string     `json:"subscriber_name,omitempty"`
}

// DummyServiceRequest используется для приёма новой заявки из JSON-запроса.
// Приоритет опционален: при отсутствии база назначает medium.
type DummyServiceRequest struct {
	SubscriberID string `json:"subscriber_id" validate:"required"`
	RequestType  string `json:"request_type" validate:"required,oneof=technical upgrade relocation router"`
	Description  string `json:"description" validate:"required"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// DummyStatusUpdate используется для приёма нового статуса заявки.
type DummyStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed cancelled"`
}
