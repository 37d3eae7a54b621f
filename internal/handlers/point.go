package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pointledger/internal/apperrors"
	"pointledger/internal/handlers/render"
	"pointledger/internal/logger"
	"pointledger/internal/models"
)

type pointResponse struct {
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPointResponse(p models.UserPoint) pointResponse {
	return pointResponse{
		UserID:    p.UserID,
		Balance:   p.Balance,
		UpdatedAt: p.UpdatedAt,
	}
}

// userIDFromPath parses the {id} path segment.
// Zero and negative ids are rejected the same way the service would.
func userIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidUserID
	}
	return id, nil
}

// renderPointError maps service failures to HTTP statuses
func renderPointError(w http.ResponseWriter, err error, l logger.Logger) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidUserID), errors.Is(err, apperrors.ErrInvalidAmount):
		render.ServiceError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		render.ServiceError(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, apperrors.ErrBalanceLimitExceeded), errors.Is(err, apperrors.ErrBelowMinUseAmount):
		render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		l.Error("storage failure", "error", err)
		render.ServiceError(w, "Storage unavailable", http.StatusServiceUnavailable)
	default:
		l.Error("unexpected failure", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func handleGetPoint(pointService pointService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromPath(r)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		point, err := pointService.GetBalance(r.Context(), userID)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		render.JSON(w, toPointResponse(point))
	})
}

func handleGetHistories(pointService pointService, l logger.Logger) http.Handler {
	type historyResponse struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"user_id"`
		Amount      int64     `json:"amount"`
		Type        string    `json:"type"`
		ProcessedAt time.Time `json:"processed_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromPath(r)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		entries, err := pointService.GetHistory(r.Context(), userID)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		histories := make([]historyResponse, 0, len(entries))
		for _, e := range entries {
			histories = append(histories, historyResponse{
				ID:          e.ID,
				UserID:      e.UserID,
				Amount:      e.Amount,
				Type:        e.Type,
				ProcessedAt: e.ProcessedAt,
			})
		}

		render.JSON(w, histories)
	})
}

func handleCharge(pointService pointService, l logger.Logger) http.Handler {
	type request struct {
		Amount int64 `json:"amount" validate:"required,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromPath(r)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		charge, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		point, err := pointService.Charge(r.Context(), userID, charge.Amount)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		render.JSON(w, toPointResponse(point))
	})
}

func handleUse(pointService pointService, l logger.Logger) http.Handler {
	type request struct {
		Amount int64 `json:"amount" validate:"required,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromPath(r)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		use, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		point, err := pointService.Use(r.Context(), userID, use.Amount)
		if err != nil {
			renderPointError(w, err, l)
			return
		}

		render.JSON(w, toPointResponse(point))
	})
}
