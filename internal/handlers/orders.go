package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AlenaMolokova/smmpanel/internal/middleware"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/utils"
)

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		log.Printf("Unauthorized: missing user_id in context")
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ServiceID int64  `json:"service_id"`
		Link      string `json:"link"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode order request: %v", err)
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	order, err := h.orders.Create(r.Context(), userID, req.ServiceID, req.Link, req.Quantity)
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
			log.Printf("Failed to create order for user %d: %v", userID, err)
			utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, order)
	log.Printf("Order %d accepted for user %d", order.ID, userID)
}
