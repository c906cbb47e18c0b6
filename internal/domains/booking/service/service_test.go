package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"homeserve/config"
	"homeserve/infras/metrics"
	otelMocks "homeserve/infras/otel/mocks"
	bookingMocks "homeserve/internal/domains/booking/mocks"
	"homeserve/internal/domains/booking/model"
	"homeserve/internal/domains/booking/model/dto"
	"homeserve/internal/domains/booking/service"
	catalogMocks "homeserve/internal/domains/catalog/mocks"
	outboxMocks "homeserve/internal/domains/outbox/mocks"
	outboxModel "homeserve/internal/domains/outbox/model"
	providerMocks "homeserve/internal/domains/provider/mocks"
	providerModel "homeserve/internal/domains/provider/model"
	scheduleMocks "homeserve/internal/domains/schedule/mocks"
	scheduleModel "homeserve/internal/domains/schedule/model"
	cacheMocks "homeserve/shared/cache/mocks"
	"homeserve/shared/constant"
	gDto "homeserve/shared/dto"
	"homeserve/shared/failure"
	"homeserve/shared/random"
	"homeserve/shared/timeslot"
)

// 2025-06-02 is a Monday.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	repo      *bookingMocks.MockBooking
	services  *catalogMocks.MockService
	providers *providerMocks.MockProvider
	schedules *scheduleMocks.MockSchedule
	outbox    *outboxMocks.MockOutbox
	cache     *cacheMocks.MockRedisCache
	registry  *prometheus.Registry
	svc       service.Booking
}

func newFixture(t *testing.T, rnd random.Source) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		services:  catalogMocks.NewMockService(ctrl),
		providers: providerMocks.NewMockProvider(ctrl),
		schedules: scheduleMocks.NewMockSchedule(ctrl),
		outbox:    outboxMocks.NewMockOutbox(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		registry:  prometheus.NewRegistry(),
	}

	f.cache.EXPECT().Clear(gomock.Any(), "slots*").Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.services, f.providers, f.schedules, f.outbox, f.cache, rnd,
		metrics.NewBookingMetrics(f.registry), &config.Config{}, otelMocks.NewOtel())

	return f
}

// runTx executes the callback of Transaction inline, the way a committed transaction would.
func (f *fixture) runTx(providerID int64) {
	f.repo.EXPECT().Transaction(gomock.Any(), providerID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func customer(userID int64) context.Context {
	return actor(userID, constant.RoleCustomer)
}

func actor(userID int64, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func confirmedAt(hour, minute int) model.Booking {
	return model.Booking{
		ID:          1,
		ProviderID:  7,
		BookingDate: monday,
		BookingTime: timeslot.NewClock(hour, minute),
		Status:      model.StatusConfirmed,
	}
}

func request(providerID int64, at string, hours float64) dto.CreateBookingRequest {
	req := dto.CreateBookingRequest{
		ServiceID:   1,
		BookingDate: "2025-06-02",
		BookingTime: at,
		Address:     "12 Jalan Sudirman, Jakarta",
		TotalAmount: 150,
	}

	if providerID != 0 {
		req.ProviderID = &providerID
	}

	if hours != 0 {
		req.DurationHours = &hours
	}

	return req
}

var providerP = providerModel.Provider{ID: 7, UserID: 70, ServiceID: 1}

func TestBookingService_Create_ExplicitProvider(t *testing.T) {
	workday := scheduleModel.Default(7, time.Monday, time.Sunday)

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(f *fixture)
		wantKind  failure.Kind
		wantID    int64
	}{
		{
			name: "half hour into an existing booking is taken",
			req:  request(7, "10:30", 0),
			setupMock: func(f *fixture) {
				f.runTx(7)
				f.schedules.EXPECT().DayScheduleTx(gomock.Any(), gomock.Any(), int64(7), time.Monday).Return(workday, nil)
				f.repo.EXPECT().ListActiveTx(gomock.Any(), gomock.Any(), int64(7), monday).
					Return([]model.Booking{confirmedAt(10, 0)}, nil)
			},
			wantKind: failure.KindSlotTaken,
		},
		{
			name: "right after an existing booking is created",
			req:  request(7, "11:00", 0),
			setupMock: func(f *fixture) {
				f.runTx(7)
				f.schedules.EXPECT().DayScheduleTx(gomock.Any(), gomock.Any(), int64(7), time.Monday).Return(workday, nil)
				f.repo.EXPECT().ListActiveTx(gomock.Any(), gomock.Any(), int64(7), monday).
					Return([]model.Booking{confirmedAt(10, 0)}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) (int64, error) {
						assert.Equal(t, model.StatusPending, b.Status)
						assert.Equal(t, int64(42), b.CustomerID)
						require.NotNil(t, b.DurationHours)
						assert.InDelta(t, 1.0, *b.DurationHours, 1e-9)

						return 101, nil
					})
				f.outbox.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, events ...outboxModel.Event) error {
						require.Len(t, events, 1)
						assert.Equal(t, outboxModel.TypeBookingNew, events[0].Type)
						assert.Equal(t, int64(70), events[0].Payload.RecipientID)
						assert.Equal(t, int64(101), events[0].AggregateID)

						return nil
					})
			},
			wantID: 101,
		},
		{
			name: "two hours from 16:00 ends after closing",
			req:  request(7, "16:00", 2),
			setupMock: func(f *fixture) {
				f.runTx(7)
				f.schedules.EXPECT().DayScheduleTx(gomock.Any(), gomock.Any(), int64(7), time.Monday).Return(workday, nil)
			},
			wantKind: failure.KindOutsideWorkingHours,
		},
		{
			name: "provider of another service",
			req:  request(7, "11:00", 0),
			setupMock: func(f *fixture) {
				f.providers.EXPECT().Get(gomock.Any(), int64(7)).Return(providerModel.Provider{ID: 7, ServiceID: 2}, nil)
			},
			wantKind: failure.KindInvalidProvider,
		},
		{
			name: "database rejects the insert",
			req:  request(7, "11:00", 0),
			setupMock: func(f *fixture) {
				f.runTx(7)
				f.schedules.EXPECT().DayScheduleTx(gomock.Any(), gomock.Any(), int64(7), time.Monday).Return(workday, nil)
				f.repo.EXPECT().ListActiveTx(gomock.Any(), gomock.Any(), int64(7), monday).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), fmt.Errorf("failed to insert booking: %w", failure.ErrConstraintViolation))
			},
			wantKind: failure.KindSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, random.Fixed(0))

			f.services.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

			if tt.wantKind != failure.KindInvalidProvider {
				f.providers.EXPECT().Get(gomock.Any(), int64(7)).Return(providerP, nil)
			}

			tt.setupMock(f)

			res, err := f.svc.Create(customer(42), tt.req)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, res.BookingID)
			assert.Equal(t, int64(7), res.ProviderID)
			assert.Equal(t, model.StatusPending, res.Status)
		})
	}
}

func TestBookingService_Create_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateBookingRequest
	}{
		{name: "bad date", req: func() dto.CreateBookingRequest { r := request(0, "10:00", 0); r.BookingDate = "2025-02-30"; return r }()},
		{name: "bad time", req: request(0, "25:00", 0)},
		{name: "negative duration", req: request(0, "10:00", -1)},
		{name: "duration past one day", req: request(0, "10:00", 1e300)},
		{name: "blank address", req: func() dto.CreateBookingRequest { r := request(0, "10:00", 0); r.Address = "   "; return r }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, random.Fixed(0))

			_, err := f.svc.Create(customer(42), tt.req)
			require.Error(t, err)
			assert.Equal(t, failure.KindInvalidInput, failure.GetKind(err))
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}

	t.Run("unknown service", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))
		f.services.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Create(customer(42), request(0, "10:00", 0))
		assert.Equal(t, failure.KindInvalidInput, failure.GetKind(err))
	})
}

func TestBookingService_Create_AutoAssign(t *testing.T) {
	busy := providerModel.Provider{ID: 7, UserID: 70, ServiceID: 1}
	free := providerModel.Provider{ID: 8, UserID: 80, ServiceID: 1}

	t.Run("skips busy providers", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))

		f.services.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.providers.EXPECT().ListByService(gomock.Any(), int64(1)).Return([]providerModel.Provider{busy, free}, nil)
		f.schedules.EXPECT().DaySchedule(gomock.Any(), gomock.Any(), time.Monday).
			DoAndReturn(func(_ context.Context, id int64, day time.Weekday) (scheduleModel.Schedule, error) {
				return scheduleModel.Default(id, day, time.Sunday), nil
			}).Times(2)
		f.repo.EXPECT().ListActive(gomock.Any(), int64(7), monday).Return([]model.Booking{confirmedAt(10, 0)}, nil)
		f.repo.EXPECT().ListActive(gomock.Any(), int64(8), monday).Return(nil, nil)

		f.runTx(8)
		f.schedules.EXPECT().DayScheduleTx(gomock.Any(), gomock.Any(), int64(8), time.Monday).
			Return(scheduleModel.Default(8, time.Monday, time.Sunday), nil)
		f.repo.EXPECT().ListActiveTx(gomock.Any(), gomock.Any(), int64(8), monday).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(5), nil)
		f.outbox.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(customer(42), request(0, "10:00", 0))
		require.NoError(t, err)
		assert.Equal(t, int64(8), res.ProviderID)

		assert.InDelta(t, 1, attempts(t, f.registry, "created", "auto"), 0)
	})

	t.Run("no providers", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))

		f.services.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.providers.EXPECT().ListByService(gomock.Any(), int64(1)).Return(nil, nil)

		_, err := f.svc.Create(customer(42), request(0, "10:00", 0))
		assert.Equal(t, failure.KindNoProviders, failure.GetKind(err))
	})

	t.Run("all busy", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))

		f.services.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.providers.EXPECT().ListByService(gomock.Any(), int64(1)).Return([]providerModel.Provider{busy}, nil)
		f.schedules.EXPECT().DaySchedule(gomock.Any(), int64(7), time.Monday).
			Return(scheduleModel.Default(7, time.Monday, time.Sunday), nil)
		f.repo.EXPECT().ListActive(gomock.Any(), int64(7), monday).Return([]model.Booking{confirmedAt(10, 0)}, nil)

		_, err := f.svc.Create(customer(42), request(0, "10:30", 0))
		assert.Equal(t, failure.KindAllBusy, failure.GetKind(err))
	})

	t.Run("rest day is outside every schedule", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))

		sunday := request(0, "10:00", 0)
		sunday.BookingDate = "2025-06-01"

		f.services.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.providers.EXPECT().ListByService(gomock.Any(), int64(1)).Return([]providerModel.Provider{free}, nil)
		f.schedules.EXPECT().DaySchedule(gomock.Any(), int64(8), time.Sunday).
			Return(scheduleModel.Default(8, time.Sunday, time.Sunday), nil)

		_, err := f.svc.Create(customer(42), sunday)
		assert.Equal(t, failure.KindAllBusy, failure.GetKind(err))
	})
}

func attempts(t *testing.T, reg *prometheus.Registry, outcome, assignment string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "homeserve_booking_attempts_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}

			if labels["outcome"] == outcome && labels["assignment"] == assignment {
				return metric.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func TestBookingService_Create_SlotTakenIsRepeatable(t *testing.T) {
	f := newFixture(t, random.Fixed(0))

	workday := scheduleModel.Default(7, time.Monday, time.Sunday)

	f.services.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	f.providers.EXPECT().Get(gomock.Any(), int64(7)).Return(providerP, nil).Times(2)
	f.repo.EXPECT().Transaction(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		}).Times(2)
	f.schedules.EXPECT().DayScheduleTx(gomock.Any(), gomock.Any(), int64(7), time.Monday).Return(workday, nil).Times(2)
	f.repo.EXPECT().ListActiveTx(gomock.Any(), gomock.Any(), int64(7), monday).
		Return([]model.Booking{confirmedAt(10, 0)}, nil).Times(2)

	for range 2 {
		_, err := f.svc.Create(customer(42), request(7, "10:30", 0))
		assert.Equal(t, failure.KindSlotTaken, failure.GetKind(err))
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	pending := model.Booking{ID: 9, CustomerID: 42, ProviderID: 7, BookingDate: monday, Status: model.StatusPending}

	tests := []struct {
		name      string
		ctx       context.Context
		status    string
		setupMock func(f *fixture)
		wantCode  int
		want      string
	}{
		{
			name:   "provider confirms",
			ctx:    actor(70, constant.RoleProvider),
			status: model.StatusConfirmed,
			setupMock: func(f *fixture) {
				f.runTx(7)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), int64(9)).Return(pending, nil)
				f.repo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), int64(9), model.StatusConfirmed, "70").Return(nil)
				f.outbox.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, events ...outboxModel.Event) error {
						assert.Equal(t, "booking_confirmed", events[0].Type)
						assert.Equal(t, int64(42), events[0].Payload.RecipientID)

						return nil
					})
			},
			want: model.StatusConfirmed,
		},
		{
			name:   "provider rejection is stored as cancelled",
			ctx:    actor(70, constant.RoleProvider),
			status: model.StatusRejected,
			setupMock: func(f *fixture) {
				f.runTx(7)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), int64(9)).Return(pending, nil)
				f.repo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), int64(9), model.StatusCancelled, "70").Return(nil)
				f.outbox.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			want: model.StatusCancelled,
		},
		{
			name:   "customer cannot confirm",
			ctx:    customer(42),
			status: model.StatusConfirmed,
			setupMock: func(f *fixture) {
				f.runTx(7)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), int64(9)).Return(pending, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "completed booking cannot be cancelled",
			ctx:    customer(42),
			status: model.StatusCancelled,
			setupMock: func(f *fixture) {
				completed := pending
				completed.Status = model.StatusCompleted

				f.runTx(7)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), int64(9)).Return(completed, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "stranger",
			ctx:       customer(43),
			status:    model.StatusCancelled,
			setupMock: func(_ *fixture) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "admin is not a party to the booking",
			ctx:       actor(1, constant.RoleAdmin),
			status:    model.StatusCancelled,
			setupMock: func(_ *fixture) {},
			wantCode:  http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, random.Fixed(0))

			f.repo.EXPECT().Get(gomock.Any(), int64(9)).Return(pending, nil)
			f.providers.EXPECT().Get(gomock.Any(), int64(7)).Return(providerP, nil)
			tt.setupMock(f)

			res, err := f.svc.UpdateStatus(tt.ctx, 9, dto.UpdateStatusRequest{Status: tt.status})
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))
		f.repo.EXPECT().Get(gomock.Any(), int64(9)).Return(model.Booking{}, nil)

		_, err := f.svc.UpdateStatus(customer(42), 9, dto.UpdateStatusRequest{Status: model.StatusCancelled})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_List(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("customer sees own bookings", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				require.Len(t, filter.Filters, 1)
				assert.Equal(t, model.FieldCustomerID, filter.Filters[0].(gDto.Filter).Field)

				return 1, nil
			})
		f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Booking{confirmedAt(10, 0)}, nil)

		res, err := f.svc.List(customer(42), params, dto.ListBookingsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, "10:00", res.Bookings[0].BookingTime)
	})

	t.Run("provider sees assigned bookings", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))

		f.providers.EXPECT().GetByUserID(gomock.Any(), int64(70)).Return(providerP, nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				require.Len(t, filter.Filters, 2)
				assert.Equal(t, model.FieldProviderID, filter.Filters[0].(gDto.Filter).Field)
				assert.Equal(t, model.FieldStatus, filter.Filters[1].(gDto.Filter).Field)

				return 0, nil
			})
		f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return(nil, nil)

		res, err := f.svc.List(actor(70, constant.RoleProvider), params, dto.ListBookingsRequest{Status: model.StatusPending})
		require.NoError(t, err)
		assert.Empty(t, res.Bookings)
	})

	t.Run("bad date filter", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))

		_, err := f.svc.List(customer(42), params, dto.ListBookingsRequest{Date: "june"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("count error", func(t *testing.T) {
		f := newFixture(t, random.Fixed(0))
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

		_, err := f.svc.List(customer(42), params, dto.ListBookingsRequest{})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	booking := confirmedAt(10, 0)
	booking.CustomerID = 42

	f := newFixture(t, random.Fixed(0))

	f.repo.EXPECT().Get(gomock.Any(), int64(1)).Return(booking, nil).Times(3)
	f.providers.EXPECT().Get(gomock.Any(), int64(7)).Return(providerP, nil).Times(2)

	_, err := f.svc.Get(customer(42), 1)
	require.NoError(t, err)

	_, err = f.svc.Get(actor(70, constant.RoleProvider), 1)
	require.NoError(t, err)

	_, err = f.svc.Get(customer(43), 1)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
