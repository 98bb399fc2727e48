package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

const serviceRequestColumns = `r.id, r.subscriber_id, r.request_type, r.description, r.status,
			      r.priority, r.assigned_to, r.created_at, r.updated_at, r.completed_at,
			      s.full_name`

// ListServiceRequests возвращает все заявки с именем абонента, новые первыми.
func (s *Storage) ListServiceRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	const op = "storage.ListServiceRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + serviceRequestColumns + `
			  FROM service_requests r
			  LEFT JOIN subscribers s ON s.id = r.subscriber_id
			  ORDER BY r.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ServiceRequest
	for rows.Next() {
		item, err := scanServiceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// InsertServiceRequest вставляет новую заявку и возвращает сохранённую сервером
// строку вместе с именем абонента. Статус назначает база (pending), приоритет
// по умолчанию — medium.
func (s *Storage) InsertServiceRequest(ctx context.Context, req models.ServiceRequest) (*models.ServiceRequest, error) {
	const op = "storage.InsertServiceRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	query := `WITH inserted AS (
			      INSERT INTO service_requests (subscriber_id, request_type, description, priority)
			      VALUES ($1, $2, $3, $4)
			      RETURNING *
			  )
			  SELECT ` + serviceRequestColumns + `
			  FROM inserted r
			  LEFT JOIN subscribers s ON s.id = r.subscriber_id`
	row := s.DB.QueryRowContext(ctx, query, req.SubscriberID, req.RequestType, req.Description, priority)

	created, err := scanServiceRequest(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// UpdateServiceRequestStatus обновляет статус заявки по id и возвращает
// обновлённую строку с именем абонента. completedAt передаётся только
// при переводе в completed, для остальных переходов он nil и поле не трогается.
func (s *Storage) UpdateServiceRequestStatus(ctx context.Context, id, status string, completedAt *time.Time) (*models.ServiceRequest, error) {
	const op = "storage.UpdateServiceRequestStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `WITH updated AS (
			      UPDATE service_requests
			      SET status = $1,
			          completed_at = COALESCE($2, completed_at),
			          updated_at = now()
			      WHERE id = $3
			      RETURNING *
			  )
			  SELECT ` + serviceRequestColumns + `
			  FROM updated r
			  LEFT JOIN subscribers s ON s.id = r.subscriber_id`
	row := s.DB.QueryRowContext(ctx, query, status, completedAt, id)

	updated, err := scanServiceRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func scanServiceRequest(row rowScanner) (*models.ServiceRequest, error) {
	var item models.ServiceRequest
	var assignedTo, fullName sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(&item.ID, &item.SubscriberID, &item.RequestType, &item.Description,
		&item.Status, &item.Priority, &assignedTo, &item.CreatedAt, &item.UpdatedAt,
		&completedAt, &fullName); err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		item.AssignedTo = &assignedTo.String
	}
	if completedAt.Valid {
		item.CompletedAt = &completedAt.Time
	}
	item.SubscriberName = fullName.String
	return &item, nil
}
