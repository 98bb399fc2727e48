package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

const subscriberColumns = `id, user_id, full_name, phone, location, package_name,
			      package_speed, status, start_date, end_date, monthly_fee,
			      created_at, updated_at`

// ListSubscribers возвращает всех абонентов, новые записи первыми.
func (s *Storage) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	const op = "storage.ListSubscribers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriberColumns + `
			  FROM subscribers
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscriber
	for rows.Next() {
		item, err := scanSubscriber(rows)
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

// InsertSubscriber вставляет нового абонента и возвращает строку,
// сохранённую сервером, включая назначенные id и метки времени.
func (s *Storage) InsertSubscriber(ctx context.Context, sub models.Subscriber) (*models.Subscriber, error) {
	const op = "storage.InsertSubscriber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscribers (user_id, full_name, phone, location, package_name,
			      package_speed, status, start_date, end_date, monthly_fee)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + subscriberColumns
	row := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.FullName, sub.Phone, sub.Location, sub.PackageName,
		sub.PackageSpeed, sub.Status, sub.StartDate, sub.EndDate, sub.MonthlyFee)

	created, err := scanSubscriber(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// UpdateSubscriber применяет частичное обновление к абоненту по id
// и возвращает обновлённую сервером строку. Пустой патч отклоняется,
// отсутствующий id возвращает ErrNotFound.
func (s *Storage) UpdateSubscriber(ctx context.Context, id string, patch models.SubscriberPatch) (*models.Subscriber, error) {
	const op = "storage.UpdateSubscriber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if patch.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPatch)
	}

	var set strings.Builder
	var args []any
	add := func(column string, value any) {
		if set.Len() > 0 {
			set.WriteString(", ")
		}
		args = append(args, value)
		fmt.Fprintf(&set, "%s = $%d", column, len(args))
	}
	if patch.UserID != nil {
		add("user_id", *patch.UserID)
	}
	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.PackageName != nil {
		add("package_name", *patch.PackageName)
	}
	if patch.PackageSpeed != nil {
		add("package_speed", *patch.PackageSpeed)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.MonthlyFee != nil {
		add("monthly_fee", *patch.MonthlyFee)
	}

	// updated_at переназначает сервер, не клиент
	query := fmt.Sprintf(`UPDATE subscribers
			  SET %s, updated_at = now()
			  WHERE id = $%d
			  RETURNING `+subscriberColumns, set.String(), len(args)+1)
	args = append(args, id)

	row := s.DB.QueryRowContext(ctx, query, args...)
	updated, err := scanSubscriber(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscriber(row rowScanner) (*models.Subscriber, error) {
	var item models.Subscriber
	var userID sql.NullString
	if err := row.Scan(&item.ID, &userID, &item.FullName, &item.Phone, &item.Location,
		&item.PackageName, &item.PackageSpeed, &item.Status, &item.StartDate,
		&item.EndDate, &item.MonthlyFee, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		item.UserID = &userID.String
	}
	return &item, nil
}
