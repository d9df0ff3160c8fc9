package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/middleware"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/utils"
	"github.com/go-chi/chi/v5"
)

type OrderStatusHandler struct {
	orders OrderService
}

func NewOrderStatusHandler(orders OrderService) *OrderStatusHandler {
	return &OrderStatusHandler{orders: orders}
}

func (h *OrderStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode status request: %v", err)
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	switch req.Status {
	case constants.StatusInProgress, constants.StatusCompleted, constants.StatusCanceled:
	default:
		utils.WriteJSONError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	if err := h.orders.Transition(r.Context(), orderID, req.Status, adminID); err != nil {
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			utils.WriteJSONError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, models.ErrInvalidTransition):
			utils.WriteJSONError(w, http.StatusConflict, "Transition not allowed")
		default:
			log.Printf("Failed to transition order %d: %v", orderID, err)
			utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	log.Printf("Order %d set to %s by admin %d", orderID, req.Status, adminID)
}

type ManualOrderHandler struct {
	orders OrderService
}

func NewManualOrderHandler(orders OrderService) *ManualOrderHandler {
	return &ManualOrderHandler{orders: orders}
}

func (h *ManualOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		UserID     int64  `json:"user_id"`
		ServiceID  int64  `json:"service_id"`
		Link       string `json:"link"`
		Quantity   int    `json:"quantity"`
		ExternalID int64  `json:"external_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode manual order request: %v", err)
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	order, err := h.orders.CreateManual(r.Context(), adminID, req.UserID, req.ServiceID, req.Link, req.Quantity, req.ExternalID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrServiceNotFound):
			utils.WriteJSONError(w, http.StatusNotFound, "Service not found")
		case errors.Is(err, models.ErrInvalidQuantity):
			utils.WriteJSONError(w, http.StatusUnprocessableEntity, "Quantity outside service bounds")
		case errors.Is(err, models.ErrInvalidLink):
			utils.WriteJSONError(w, http.StatusUnprocessableEntity, "Invalid link")
		case errors.Is(err, models.ErrInsufficientBalance):
			utils.WriteJSONError(w, http.StatusPaymentRequired, "Insufficient balance")
		default:
			log.Printf("Failed to create manual order: %v", err)
			utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, order)
	log.Printf("Manual order %d created by admin %d for user %d", order.ID, adminID, req.UserID)
}
