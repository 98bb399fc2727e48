package datasync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscriber), args.Error(1)
}
func (m *RepoMock) ListServiceRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRequest), args.Error(1)
}
func (m *RepoMock) ListPayments(ctx context.Context) ([]models.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}
func (m *RepoMock) InsertSubscriber(ctx context.Context, sub models.Subscriber) (*models.Subscriber, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}
func (m *RepoMock) UpdateSubscriber(ctx context.Context, id string, patch models.SubscriberPatch) (*models.Subscriber, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}
func (m *RepoMock) InsertServiceRequest(ctx context.Context, req models.ServiceRequest) (*models.ServiceRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}
func (m *RepoMock) UpdateServiceRequestStatus(ctx context.Context, id, status string, completedAt *time.Time) (*models.ServiceRequest, error) {
	args := m.Called(ctx, id, status, completedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceRequest), args.Error(1)
}
func (m *RepoMock) InsertPayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

// NotifierMock считает уведомления, чтобы проверять "ровно одно на операцию".
type NotifierMock struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *NotifierMock) Success(event, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, event)
}
func (n *NotifierMock) Failure(event, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, event)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(repo *RepoMock) (*Service, *NotifierMock) {
	notifier := &NotifierMock{}
	return New(repo, notifier, newNoopLogger(), 0), notifier
}

func sampleSubscriber(id, name string) models.Subscriber {
	return models.Subscriber{
		ID:           id,
		FullName:     name,
		Phone:        "0599123456",
		Location:     "رام الله",
		PackageName:  "باقة المتميز",
		PackageSpeed: "60 ميجا",
		Status:       models.SubscriberActive,
		StartDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
		MonthlyFee:   decimal.NewFromInt(150),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestFetchAll(t *testing.T) {
	subscribers := []models.Subscriber{sampleSubscriber("s2", "نور محمد"), sampleSubscriber("s1", "أحمد خالد")}
	requests := []models.ServiceRequest{{ID: "r1", SubscriberID: "s1", RequestType: models.RequestTechnical, Status: models.RequestPending, Priority: "medium"}}
	payments := []models.Payment{{ID: "p1", SubscriberID: "s1", Amount: decimal.NewFromInt(150), Status: models.PaymentCompleted}}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    bool
	}{
		{
			name: "успешное обновление всех коллекций",
			setupMocks: func(r *RepoMock) {
				r.On("ListSubscribers", mock.Anything).Return(subscribers, nil)
				r.On("ListServiceRequests", mock.Anything).Return(requests, nil)
				r.On("ListPayments", mock.Anything).Return(payments, nil)
			},
		},
		{
			name: "ошибка чтения абонентов прерывает обновление",
			setupMocks: func(r *RepoMock) {
				r.On("ListSubscribers", mock.Anything).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "ошибка чтения заявок прерывает обновление",
			setupMocks: func(r *RepoMock) {
				r.On("ListSubscribers", mock.Anything).Return(subscribers, nil)
				r.On("ListServiceRequests", mock.Anything).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "ошибка чтения платежей прерывает обновление",
			setupMocks: func(r *RepoMock) {
				r.On("ListSubscribers", mock.Anything).Return(subscribers, nil)
				r.On("ListServiceRequests", mock.Anything).Return(requests, nil)
				r.On("ListPayments", mock.Anything).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			tt.setupMocks(repo)
			service, notifier := newService(repo)

			err := service.FetchAll(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				// прежнее состояние нетронуто при любой из трёх ошибок
				assert.Empty(t, service.Subscribers())
				assert.Empty(t, service.ServiceRequests())
				assert.Empty(t, service.Payments())
				assert.Equal(t, []string{"fetch_all"}, notifier.failures)
				assert.Empty(t, notifier.successes)
			} else {
				require.NoError(t, err)
				assert.Equal(t, subscribers, service.Subscribers())
				assert.Equal(t, requests, service.ServiceRequests())
				assert.Equal(t, payments, service.Payments())
				assert.Empty(t, notifier.failures)
			}
			assert.False(t, service.Loading())
			repo.AssertExpectations(t)
		})
	}
}

func TestFetchAll_FailureKeepsPriorState(t *testing.T) {
	subscribers := []models.Subscriber{sampleSubscriber("s1", "نور محمد")}
	requests := []models.ServiceRequest{{ID: "r1", SubscriberID: "s1", RequestType: models.RequestRouter, Status: models.RequestPending, Priority: "low"}}
	payments := []models.Payment{{ID: "p1", SubscriberID: "s1", Amount: decimal.NewFromInt(75), Status: models.PaymentPending}}

	repo := &RepoMock{}
	repo.On("ListSubscribers", mock.Anything).Return(subscribers, nil).Once()
	repo.On("ListServiceRequests", mock.Anything).Return(requests, nil).Once()
	repo.On("ListPayments", mock.Anything).Return(payments, nil).Once()
	service, notifier := newService(repo)
	require.NoError(t, service.FetchAll(context.Background()))

	repo.On("ListSubscribers", mock.Anything).Return(nil, errors.New("db down")).Once()
	assert.Error(t, service.FetchAll(context.Background()))

	assert.Equal(t, subscribers, service.Subscribers())
	assert.Equal(t, requests, service.ServiceRequests())
	assert.Equal(t, payments, service.Payments())
	assert.Equal(t, []string{"fetch_all"}, notifier.failures)
}

func TestAddSubscriber(t *testing.T) {
	req := models.DummySubscriber{
		FullName:     "نور محمد",
		Phone:        "0599123456",
		Location:     "رام الله",
		PackageName:  "باقة المتميز",
		PackageSpeed: "60 ميجا",
		Status:       models.SubscriberActive,
		StartDate:    "2024-01-15",
		EndDate:      "2024-08-15",
		MonthlyFee:   "150.00",
	}

	t.Run("созданная запись встаёт в начало коллекции", func(t *testing.T) {
		existing := sampleSubscriber("s1", "أحمد خالد")
		created := sampleSubscriber("s2", "نور محمد")

		repo := &RepoMock{}
		repo.On("ListSubscribers", mock.Anything).Return([]models.Subscriber{existing}, nil)
		repo.On("ListServiceRequests", mock.Anything).Return([]models.ServiceRequest{}, nil)
		repo.On("ListPayments", mock.Anything).Return([]models.Payment{}, nil)
		repo.On("InsertSubscriber", mock.Anything, mock.AnythingOfType("models.Subscriber")).Return(&created, nil)

		service, notifier := newService(repo)
		require.NoError(t, service.FetchAll(context.Background()))

		got, err := service.AddSubscriber(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, created, *got)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, req.FullName, got.FullName)
		assert.Equal(t, req.Phone, got.Phone)

		subs := service.Subscribers()
		require.Len(t, subs, 2)
		assert.Equal(t, created, subs[0])
		assert.Equal(t, existing, subs[1])
		assert.Equal(t, []string{"subscriber_added"}, notifier.successes)
	})

	t.Run("ошибка вставки не меняет коллекцию и возвращается вызывающему", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("InsertSubscriber", mock.Anything, mock.AnythingOfType("models.Subscriber")).
			Return(nil, errors.New("insert failed"))

		service, notifier := newService(repo)
		got, err := service.AddSubscriber(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.Empty(t, service.Subscribers())
		assert.Equal(t, []string{"subscriber_added"}, notifier.failures)
	})

	t.Run("некорректная сумма отклоняется до обращения к хранилищу", func(t *testing.T) {
		badReq := req
		badReq.MonthlyFee = "not-a-number"

		repo := &RepoMock{}
		service, _ := newService(repo)
		_, err := service.AddSubscriber(context.Background(), badReq)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "InsertSubscriber", mock.Anything, mock.Anything)
	})

	t.Run("отрицательная сумма отклоняется", func(t *testing.T) {
		badReq := req
		badReq.MonthlyFee = "-5"

		repo := &RepoMock{}
		service, _ := newService(repo)
		_, err := service.AddSubscriber(context.Background(), badReq)
		assert.Error(t, err)
	})
}

func TestUpdateSubscriber(t *testing.T) {
	first := sampleSubscriber("s1", "أحمد خالد")
	second := sampleSubscriber("s2", "نور محمد")
	newName := "نور محمد عيسى"

	t.Run("элемент замещается строкой из ответа сервера", func(t *testing.T) {
		updated := second
		updated.FullName = newName

		repo := &RepoMock{}
		repo.On("ListSubscribers", mock.Anything).Return([]models.Subscriber{second, first}, nil)
		repo.On("ListServiceRequests", mock.Anything).Return([]models.ServiceRequest{}, nil)
		repo.On("ListPayments", mock.Anything).Return([]models.Payment{}, nil)
		repo.On("UpdateSubscriber", mock.Anything, "s2", mock.AnythingOfType("models.SubscriberPatch")).
			Return(&updated, nil)

		service, notifier := newService(repo)
		require.NoError(t, service.FetchAll(context.Background()))

		got, err := service.UpdateSubscriber(context.Background(), "s2", models.SubscriberPatch{FullName: &newName})
		require.NoError(t, err)
		assert.Equal(t, updated, *got)

		subs := service.Subscribers()
		require.Len(t, subs, 2)
		assert.Equal(t, updated, subs[0])
		assert.Equal(t, first, subs[1]) // остальные элементы не тронуты
		assert.Equal(t, []string{"subscriber_updated"}, notifier.successes)
	})

	t.Run("отсутствующий в коллекции id не приводит к вставке", func(t *testing.T) {
		updated := sampleSubscriber("s9", "غريب")

		repo := &RepoMock{}
		repo.On("ListSubscribers", mock.Anything).Return([]models.Subscriber{first}, nil)
		repo.On("ListServiceRequests", mock.Anything).Return([]models.ServiceRequest{}, nil)
		repo.On("ListPayments", mock.Anything).Return([]models.Payment{}, nil)
		repo.On("UpdateSubscriber", mock.Anything, "s9", mock.AnythingOfType("models.SubscriberPatch")).
			Return(&updated, nil)

		service, _ := newService(repo)
		require.NoError(t, service.FetchAll(context.Background()))

		_, err := service.UpdateSubscriber(context.Background(), "s9", models.SubscriberPatch{FullName: &newName})
		require.NoError(t, err)
		assert.Len(t, service.Subscribers(), 1)
	})

	t.Run("ошибка обновления не меняет коллекцию", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("ListSubscribers", mock.Anything).Return([]models.Subscriber{first}, nil)
		repo.On("ListServiceRequests", mock.Anything).Return([]models.ServiceRequest{}, nil)
		repo.On("ListPayments", mock.Anything).Return([]models.Payment{}, nil)
		repo.On("UpdateSubscriber", mock.Anything, "s1", mock.AnythingOfType("models.SubscriberPatch")).
			Return(nil, errors.New("update failed"))

		service, notifier := newService(repo)
		require.NoError(t, service.FetchAll(context.Background()))

		_, err := service.UpdateSubscriber(context.Background(), "s1", models.SubscriberPatch{FullName: &newName})
		assert.Error(t, err)
		assert.Equal(t, []models.Subscriber{first}, service.Subscribers())
		assert.Equal(t, []string{"subscriber_updated"}, notifier.failures)
	})
}

func TestUpdateServiceRequestStatus(t *testing.T) {
	t.Run("переход в completed устанавливает completed_at", func(t *testing.T) {
		now := time.Now().UTC()
		updated := models.ServiceRequest{ID: "r1", SubscriberID: "s1", RequestType: models.RequestTechnical,
			Status: models.RequestCompleted, Priority: "medium", CompletedAt: &now}

		repo := &RepoMock{}
		repo.On("UpdateServiceRequestStatus", mock.Anything, "r1", models.RequestCompleted,
			mock.MatchedBy(func(completedAt *time.Time) bool { return completedAt != nil })).
			Return(&updated, nil)

		service, _ := newService(repo)
		got, err := service.UpdateServiceRequestStatus(context.Background(), "r1", models.RequestCompleted)
		require.NoError(t, err)
		assert.NotNil(t, got.CompletedAt)
		repo.AssertExpectations(t)
	})

	t.Run("остальные переходы не трогают completed_at", func(t *testing.T) {
		updated := models.ServiceRequest{ID: "r1", SubscriberID: "s1", RequestType: models.RequestTechnical,
			Status: models.RequestInProgress, Priority: "medium"}

		repo := &RepoMock{}
		repo.On("UpdateServiceRequestStatus", mock.Anything, "r1", models.RequestInProgress,
			(*time.Time)(nil)).Return(&updated, nil)

		service, _ := newService(repo)
		got, err := service.UpdateServiceRequestStatus(context.Background(), "r1", models.RequestInProgress)
		require.NoError(t, err)
		assert.Nil(t, got.CompletedAt)
		repo.AssertExpectations(t)
	})

	t.Run("ошибка обновления сообщается ровно один раз", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("UpdateServiceRequestStatus", mock.Anything, "r1", models.RequestCancelled, (*time.Time)(nil)).
			Return(nil, errors.New("update failed"))

		service, notifier := newService(repo)
		_, err := service.UpdateServiceRequestStatus(context.Background(), "r1", models.RequestCancelled)
		assert.Error(t, err)
		assert.Equal(t, []string{"request_updated"}, notifier.failures)
	})
}

func TestCreateServiceRequest_EndToEnd(t *testing.T) {
	// пустая коллекция → создание заявки → ровно одна запись со статусом pending
	created := models.ServiceRequest{
		ID:           "r1",
		SubscriberID: "s1",
		RequestType:  models.RequestTechnical,
		Description:  "no signal",
		Status:       models.RequestPending,
		Priority:     "medium",
	}

	repo := &RepoMock{}
	repo.On("InsertServiceRequest", mock.Anything, mock.AnythingOfType("models.ServiceRequest")).
		Return(&created, nil)

	service, notifier := newService(repo)
	require.Empty(t, service.ServiceRequests())

	got, err := service.CreateServiceRequest(context.Background(), models.DummyServiceRequest{
		SubscriberID: "s1",
		RequestType:  models.RequestTechnical,
		Description:  "no signal",
		Priority:     "medium",
	})
	require.NoError(t, err)
	assert.Equal(t, created, *got)

	requests := service.ServiceRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, models.RequestPending, requests[0].Status)
	assert.Equal(t, models.RequestTechnical, requests[0].RequestType)
	assert.Nil(t, requests[0].CompletedAt)
	assert.Equal(t, []string{"request_created"}, notifier.successes)
}

func TestAddPayment(t *testing.T) {
	t.Run("платёж встаёт в начало коллекции", func(t *testing.T) {
		created := models.Payment{ID: "p2", SubscriberID: "s1", Amount: decimal.NewFromInt(150),
			PaymentMethod: "cash", Status: models.PaymentCompleted, SubscriberName: "نور محمد"}
		existing := models.Payment{ID: "p1", SubscriberID: "s1", Amount: decimal.NewFromInt(150),
			PaymentMethod: "cash", Status: models.PaymentCompleted}

		repo := &RepoMock{}
		repo.On("ListSubscribers", mock.Anything).Return([]models.Subscriber{}, nil)
		repo.On("ListServiceRequests", mock.Anything).Return([]models.ServiceRequest{}, nil)
		repo.On("ListPayments", mock.Anything).Return([]models.Payment{existing}, nil)
		repo.On("InsertPayment", mock.Anything, mock.AnythingOfType("models.Payment")).Return(&created, nil)

		service, notifier := newService(repo)
		require.NoError(t, service.FetchAll(context.Background()))

		got, err := service.AddPayment(context.Background(), models.DummyPayment{
			SubscriberID:  "s1",
			Amount:        "150.00",
			PaymentMethod: "cash",
			Status:        models.PaymentCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, created, *got)

		payments := service.Payments()
		require.Len(t, payments, 2)
		assert.Equal(t, created, payments[0])
		assert.Equal(t, []string{"payment_added"}, notifier.successes)
	})

	t.Run("некорректная сумма отклоняется до обращения к хранилищу", func(t *testing.T) {
		repo := &RepoMock{}
		service, notifier := newService(repo)

		_, err := service.AddPayment(context.Background(), models.DummyPayment{
			SubscriberID:  "s1",
			Amount:        "abc",
			PaymentMethod: "cash",
			Status:        models.PaymentPending,
		})
		assert.Error(t, err)
		assert.Equal(t, []string{"payment_added"}, notifier.failures)
		repo.AssertNotCalled(t, "InsertPayment", mock.Anything, mock.Anything)
	})
}

func TestSnapshots_AreCopies(t *testing.T) {
	repo := &RepoMock{}
	repo.On("ListSubscribers", mock.Anything).Return([]models.Subscriber{sampleSubscriber("s1", "نور محمد")}, nil)
	repo.On("ListServiceRequests", mock.Anything).Return([]models.ServiceRequest{}, nil)
	repo.On("ListPayments", mock.Anything).Return([]models.Payment{}, nil)

	service, _ := newService(repo)
	require.NoError(t, service.FetchAll(context.Background()))

	snapshot := service.Subscribers()
	snapshot[0].FullName = "mutated"

	assert.Equal(t, "نور محمد", service.Subscribers()[0].FullName)
}
