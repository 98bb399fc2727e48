// Package datasync содержит бизнес-логику синхронизации локальных коллекций
// абонентов, заявок и платежей с удалённым хранилищем.
//
// Все три коллекции зеркалируют таблицы базы. Каждая мутация выполняет запись
// в хранилище и вплетает в локальное состояние строку, которую вернул сервер:
// локально построенный payload никогда не считается истиной, потому что сервер
// назначает id и метки времени. Конфликты не отслеживаются — побеждает
// последний пришедший ответ.
package datasync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
	"github.com/speedx-ps/subscriber-hub/internal/models"
	"github.com/speedx-ps/subscriber-hub/internal/notify"
)

// Repository определяет методы удалённого хранилища, нужные слою синхронизации.
type Repository interface {
	// ListSubscribers возвращает всех абонентов, новые первыми.
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
	// ListServiceRequests возвращает все заявки с именем абонента, новые первыми.
	ListServiceRequests(ctx context.Context) ([]models.ServiceRequest, error)
	// ListPayments возвращает все платежи с именем абонента, новые первыми.
	ListPayments(ctx context.Context) ([]models.Payment, error)
	// InsertSubscriber вставляет абонента и возвращает сохранённую строку.
	InsertSubscriber(ctx context.Context, sub models.Subscriber) (*models.Subscriber, error)
	// UpdateSubscriber применяет частичное обновление и возвращает обновлённую строку.
	UpdateSubscriber(ctx context.Context, id string, patch models.SubscriberPatch) (*models.Subscriber, error)
	// InsertServiceRequest вставляет заявку и возвращает сохранённую строку.
	InsertServiceRequest(ctx context.Context, req models.ServiceRequest) (*models.ServiceRequest, error)
	// UpdateServiceRequestStatus обновляет статус заявки и возвращает обновлённую строку.
	UpdateServiceRequestStatus(ctx context.Context, id, status string, completedAt *time.Time) (*models.ServiceRequest, error)
	// InsertPayment вставляет платёж и возвращает сохранённую строку.
	InsertPayment(ctx context.Context, payment models.Payment) (*models.Payment, error)
}

// Service реализует слой синхронизации данных.
type Service struct {
	repo     Repository
	notifier notify.Notifier
	log      *slog.Logger
	timeout  time.Duration

	mu              sync.RWMutex
	subscribers     []models.Subscriber
	serviceRequests []models.ServiceRequest
	payments        []models.Payment
	loading         bool
}

// New создает новый экземпляр Service. timeout ограничивает каждый
// удалённый вызов; ноль отключает ограничение.
func New(repo Repository, notifier notify.Notifier, log *slog.Logger, timeout time.Duration) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
		timeout:  timeout,
	}
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// FetchAll перечитывает все три коллекции из хранилища. Выполняются три
// независимых чтения; ошибка любого из них прерывает обновление целиком,
// прежнее состояние остаётся нетронутым, сообщается одно уведомление об
// ошибке. Флаг загрузки взводится на время операции и снимается при любом
// исходе.
func (s *Service) FetchAll(ctx context.Context) error {
	const op = "datasync.FetchAll"

	s.setLoading(true)
	defer s.setLoading(false)

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	subscribers, err := s.repo.ListSubscribers(ctx)
	if err != nil {
		return s.failFetch(op, err)
	}
	requests, err := s.repo.ListServiceRequests(ctx)
	if err != nil {
		return s.failFetch(op, err)
	}
	payments, err := s.repo.ListPayments(ctx)
	if err != nil {
		return s.failFetch(op, err)
	}

	s.mu.Lock()
	s.subscribers = subscribers
	s.serviceRequests = requests
	s.payments = payments
	s.mu.Unlock()

	refreshTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *Service) failFetch(op string, err error) error {
	s.log.Error("failed to fetch data", sl.Err(err))
	s.notifier.Failure("fetch_all", "failed to load data from the database")
	refreshTotal.WithLabelValues("failure").Inc()
	return fmt.Errorf("%s: %w", op, err)
}

// AddSubscriber вставляет нового абонента и добавляет возвращённую сервером
// строку в начало локальной коллекции, чтобы порядок совпадал с выборкой.
// При ошибке состояние не меняется, ошибка возвращается вызывающему.
func (s *Service) AddSubscriber(ctx context.Context, req models.DummySubscriber) (*models.Subscriber, error) {
	const op = "datasync.AddSubscriber"

	sub, err := subscriberFromRequest(req)
	if err != nil {
		s.notifier.Failure("subscriber_added", "failed to add the new subscriber")
		mutationsTotal.WithLabelValues("subscriber", "failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	created, err := s.repo.InsertSubscriber(ctx, *sub)
	if err != nil {
		s.log.Error("failed to add subscriber", sl.Err(err))
		s.notifier.Failure("subscriber_added", "failed to add the new subscriber")
		mutationsTotal.WithLabelValues("subscriber", "failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.subscribers = append([]models.Subscriber{*created}, s.subscribers...)
	s.mu.Unlock()

	s.log.Info("added new subscriber", slog.String("id", created.ID))
	s.notifier.Success("subscriber_added", "the new subscriber was added")
	mutationsTotal.WithLabelValues("subscriber", "success").Inc()
	return created, nil
}

// UpdateSubscriber применяет частичное обновление к абоненту и замещает
// элемент локальной коллекции строкой из ответа сервера. Отсутствие id в
// локальной коллекции не приводит к вставке.
func (s *Service) UpdateSubscriber(ctx context.Context, id string, patch models.SubscriberPatch) (*models.Subscriber, error) {
	const op = "datasync.UpdateSubscriber"

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	updated, err := s.repo.UpdateSubscriber(ctx, id, patch)
	if err != nil {
		s.log.Error("failed to update subscriber", slog.String("id", id), sl.Err(err))
		s.notifier.Failure("subscriber_updated", "failed to update the subscriber")
		mutationsTotal.WithLabelValues("subscriber", "failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.subscribers {
		if s.subscribers[i].ID == id {
			s.subscribers[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	s.log.Info("updated subscriber", slog.String("id", id))
	s.notifier.Success("subscriber_updated", "the subscriber was updated")
	mutationsTotal.WithLabelValues("subscriber", "success").Inc()
	return updated, nil
}

// UpdateServiceRequestStatus переводит заявку в новый статус. CompletedAt
// устанавливается в текущее время тогда и только тогда, когда новый статус —
// completed; остальные переходы его не трогают.
func (s *Service) UpdateServiceRequestStatus(ctx context.Context, id, status string) (*models.ServiceRequest, error) {
	const op = "datasync.UpdateServiceRequestStatus"

	var completedAt *time.Time
	if status == models.RequestCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	updated, err := s.repo.UpdateServiceRequestStatus(ctx, id, status, completedAt)
	if err != nil {
		s.log.Error("failed to update service request", slog.String("id", id), sl.Err(err))
		s.notifier.Failure("request_updated", "failed to update the request status")
		mutationsTotal.WithLabelValues("service_request", "failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.serviceRequests {
		if s.serviceRequests[i].ID == id {
			s.serviceRequests[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	s.log.Info("updated service request", slog.String("id", id), slog.String("status", status))
	s.notifier.Success("request_updated", "the request status was updated")
	mutationsTotal.WithLabelValues("service_request", "success").Inc()
	return updated, nil
}

// CreateServiceRequest создаёт новую заявку абонента и добавляет возвращённую
// сервером строку в начало локальной коллекции.
func (s *Service) CreateServiceRequest(ctx context.Context, req models.DummyServiceRequest) (*models.ServiceRequest, error) {
	const op = "datasync.CreateServiceRequest"

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	created, err := s.repo.InsertServiceRequest(ctx, models.ServiceRequest{
		SubscriberID: req.SubscriberID,
		RequestType:  req.RequestType,
		Description:  req.Description,
		Priority:     req.Priority,
	})
	if err != nil {
		s.log.Error("failed to create service request", sl.Err(err))
		s.notifier.Failure("request_created", "failed to submit the service request")
		mutationsTotal.WithLabelValues("service_request", "failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.serviceRequests = append([]models.ServiceRequest{*created}, s.serviceRequests...)
	s.mu.Unlock()

	s.log.Info("created service request", slog.String("id", created.ID))
	s.notifier.Success("request_created", "the service request was submitted")
	mutationsTotal.WithLabelValues("service_request", "success").Inc()
	return created, nil
}

// AddPayment регистрирует новый платёж и добавляет возвращённую сервером
// строку в начало локальной коллекции.
func (s *Service) AddPayment(ctx context.Context, req models.DummyPayment) (*models.Payment, error) {
	const op = "datasync.AddPayment"

	payment, err := paymentFromRequest(req)
	if err != nil {
		s.notifier.Failure("payment_added", "failed to record the payment")
		mutationsTotal.WithLabelValues("payment", "failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	created, err := s.repo.InsertPayment(ctx, *payment)
	if err != nil {
		s.log.Error("failed to add payment", sl.Err(err))
		s.notifier.Failure("payment_added", "failed to record the payment")
		mutationsTotal.WithLabelValues("payment", "failure").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.payments = append([]models.Payment{*created}, s.payments...)
	s.mu.Unlock()

	s.log.Info("added payment", slog.String("id", created.ID))
	s.notifier.Success("payment_added", "the payment was recorded")
	mutationsTotal.WithLabelValues("payment", "success").Inc()
	return created, nil
}

// Subscribers возвращает копию локальной коллекции абонентов.
func (s *Service) Subscribers() []models.Subscriber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Subscriber, len(s.subscribers))
	copy(result, s.subscribers)
	return result
}

// ServiceRequests возвращает копию локальной коллекции заявок.
func (s *Service) ServiceRequests() []models.ServiceRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.ServiceRequest, len(s.serviceRequests))
	copy(result, s.serviceRequests)
	return result
}

// Payments возвращает копию локальной коллекции платежей.
func (s *Service) Payments() []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Payment, len(s.payments))
	copy(result, s.payments)
	return result
}

// Loading сообщает, выполняется ли сейчас полное обновление.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Service) setLoading(value bool) {
	s.mu.Lock()
	s.loading = value
	s.mu.Unlock()
}

func subscriberFromRequest(req models.DummySubscriber) (*models.Subscriber, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	monthlyFee, err := decimal.NewFromString(req.MonthlyFee)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly fee: %w", err)
	}
	if monthlyFee.IsNegative() {
		return nil, fmt.Errorf("monthly fee must not be negative")
	}

	return &models.Subscriber{
		UserID:       req.UserID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Location:     req.Location,
		PackageName:  req.PackageName,
		PackageSpeed: req.PackageSpeed,
		Status:       req.Status,
		StartDate:    startDate,
		EndDate:      endDate,
		MonthlyFee:   monthlyFee,
	}, nil
}

func paymentFromRequest(req models.DummyPayment) (*models.Payment, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	payment := &models.Payment{
		SubscriberID:  req.SubscriberID,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		TransactionID: req.TransactionID,
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("invalid payment date: %w", err)
		}
		payment.PaymentDate = &paymentDate
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due date: %w", err)
		}
		payment.DueDate = &dueDate
	}
	return payment, nil
}
