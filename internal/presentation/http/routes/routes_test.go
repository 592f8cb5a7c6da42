package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/dukapos-api/internal/config"
	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/presentation/http/handler"
	"github.com/dukapos/dukapos-api/pkg/utils"
)

type stubStoreRepo struct{}

func (stubStoreRepo) Create(_ context.Context, _ *entity.Store) error { return nil }
func (stubStoreRepo) GetByID(_ context.Context, _ uuid.UUID) (*entity.Store, error) {
	return nil, nil
}
func (stubStoreRepo) GetByCode(_ context.Context, _ string) (*entity.Store, error) {
	return nil, nil
}
func (stubStoreRepo) Update(_ context.Context, _ *entity.Store) error { return nil }
func (stubStoreRepo) List(_ context.Context) ([]entity.Store, error) { return nil, nil }

type stubIdempotencyRepo struct{}

func (stubIdempotencyRepo) GetByKey(_ context.Context, _ string, _ uuid.UUID) (*entity.IdempotencyKey, error) {
	return nil, nil
}
func (stubIdempotencyRepo) Create(_ context.Context, _ *entity.IdempotencyKey) error { return nil }
func (stubIdempotencyRepo) DeleteExpired(_ context.Context) error                    { return nil }

func testRouter(t *testing.T) (*utils.JWTManager, http.Handler) {
	t.Helper()

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, time.Hour)
	cfg := &config.Config{
		App:       config.AppConfig{Name: "dukapos-api"},
		RateLimit: config.RateLimitConfig{Requests: 100, Duration: 1},
	}

	h := &Handlers{
		Auth:     &handler.AuthHandler{},
		Store:    &handler.StoreHandler{},
		Product:  &handler.ProductHandler{},
		Category: &handler.CategoryHandler{},
		Customer: &handler.CustomerHandler{},
		Order:    &handler.OrderHandler{},
		Payment:  &handler.PaymentHandler{},
		Shift:    &handler.ShiftHandler{},
		Document: &handler.DocumentHandler{},
		Refund:   &handler.RefundHandler{},
	}
	router := Setup(h, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		StoreRepo:       stubStoreRepo{},
		IdempotencyRepo: stubIdempotencyRepo{},
	})
	return jwtManager, router
}

// Cashiers without an X-Store-Code header must be told to pick a store, not
// get a misleading not-found from the store-scoped lookups further down.
func TestCreateRoutesRequireStoreHeader(t *testing.T) {
	jwtManager, router := testRouter(t)

	token, err := jwtManager.GenerateAccessToken(
		uuid.New(), "cashier@dukapos.test",
		[]string{"cashier"},
		[]string{"take-payments", "manage-documents", "approve-refunds"},
	)
	require.NoError(t, err)

	paths := []string{
		"/api/v1/payments",
		"/api/v1/documents",
		"/api/v1/refunds",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, nil)
			req.Header.Set("Authorization", "Bearer "+token)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Store context required")
		})
	}
}
