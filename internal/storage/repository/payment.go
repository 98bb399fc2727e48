package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

const paymentColumns = `p.id, p.subscriber_id, p.amount, p.payment_method, p.status,
			      p.transaction_id, p.payment_date, p.due_date, p.created_at, p.updated_at,
			      s.full_name`

// ListPayments возвращает все платежи с именем абонента, новые первыми.
func (s *Storage) ListPayments(ctx context.Context) ([]models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments p
			  LEFT JOIN subscribers s ON s.id = p.subscriber_id
			  ORDER BY p.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Payment
	for rows.Next() {
		item, err := scanPayment(rows)
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

// InsertPayment вставляет новый платёж и возвращает сохранённую сервером
// строку вместе с именем абонента.
func (s *Storage) InsertPayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	const op = "storage.InsertPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `WITH inserted AS (
			      INSERT INTO payments (subscriber_id, amount, payment_method, status,
			          transaction_id, payment_date, due_date)
			      VALUES ($1, $2, $3, $4, $5, $6, $7)
			      RETURNING *
			  )
			  SELECT ` + paymentColumns + `
			  FROM inserted p
			  LEFT JOIN subscribers s ON s.id = p.subscriber_id`
	row := s.DB.QueryRowContext(ctx, query,
		payment.SubscriberID, payment.Amount, payment.PaymentMethod, payment.Status,
		payment.TransactionID, payment.PaymentDate, payment.DueDate)

	created, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var item models.Payment
	var transactionID, fullName sql.NullString
	var paymentDate, dueDate sql.NullTime
	if err := row.Scan(&item.ID, &item.SubscriberID, &item.Amount, &item.PaymentMethod,
		&item.Status, &transactionID, &paymentDate, &dueDate,
		&item.CreatedAt, &item.UpdatedAt, &fullName); err != nil {
		return nil, err
	}
	if transactionID.Valid {
		item.TransactionID = &transactionID.String
	}
	if paymentDate.Valid {
		item.PaymentDate = &paymentDate.Time
	}
	if dueDate.Valid {
		item.DueDate = &dueDate.Time
	}
	item.SubscriberName = fullName.String
	return &item, nil
}
