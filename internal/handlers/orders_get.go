package handlers

import (
	"log"
	"net/http"

	"github.com/AlenaMolokova/smmpanel/internal/middleware"
	"github.com/AlenaMolokova/smmpanel/internal/utils"
)

type MyOrdersHandler struct {
	orders OrderService
}

func NewMyOrdersHandler(orders OrderService) *MyOrdersHandler {
	return &MyOrdersHandler{orders: orders}
}

func (h *MyOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		log.Printf("Unauthorized: missing user_id in context")
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.orders.GetUserOrders(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to get orders for user %d: %v", userID, err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

type AllOrdersHandler struct {
	orders OrderService
}

func NewAllOrdersHandler(orders OrderService) *AllOrdersHandler {
	return &AllOrdersHandler{orders: orders}
}

func (h *AllOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAllOrders(r.Context())
	if err != nil {
		log.Printf("Failed to get all orders: %v", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

type RecentOrdersHandler struct {
	orders OrderService
}

func NewRecentOrdersHandler(orders OrderService) *RecentOrdersHandler {
	return &RecentOrdersHandler{orders: orders}
}

func (h *RecentOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetRecentOrders(r.Context())
	if err != nil {
		log.Printf("Failed to get recent orders: %v", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}
