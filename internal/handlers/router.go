package handlers

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pointledger/internal/handlers/middleware"
	"pointledger/internal/logger"
	"pointledger/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(pointService pointService, logger logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /point/{id}", handleGetPoint(pointService, logger))
	mux.Handle("GET /point/{id}/histories", handleGetHistories(pointService, logger))
	mux.Handle("PATCH /point/{id}/charge", handleCharge(pointService, logger))
	mux.Handle("PATCH /point/{id}/use", handleUse(pointService, logger))

	mux.Handle("GET /healthz", handleHealth())
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := chain(mux,
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

func handleHealth() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

type pointService interface {
	// Add amount to the user balance
	// Has to return apperrors.ErrBalanceLimitExceeded over the configured cap
	Charge(ctx context.Context, userID int64, amount int64) (models.UserPoint, error)

	// Spend amount from the user balance
	// Has to return apperrors.ErrBelowMinUseAmount under the configured minimum
	// and apperrors.ErrInsufficientBalance when the balance can't cover it
	Use(ctx context.Context, userID int64, amount int64) (models.UserPoint, error)

	// Current account state, zero balance for unseen users
	GetBalance(ctx context.Context, userID int64) (models.UserPoint, error)

	// Full history in commit order, empty for unseen users
	GetHistory(ctx context.Context, userID int64) ([]models.PointHistory, error)
}
