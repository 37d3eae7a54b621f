package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pointledger/internal/handlers"
	"pointledger/internal/logger"
	"pointledger/internal/repository/postgres"
	"pointledger/internal/service/point"
	"pointledger/internal/testutil"
)

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, service *point.PointService)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)
		log := logger.NewNoOpLogger()

		service := point.NewService(point.Config{}, storage, log)

		router := handlers.NewRouter(service, log)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, service)
	})
}
