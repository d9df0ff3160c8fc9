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

type WalletHandler struct {
	wallet WalletService
}

func NewWalletHandler(wallet WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

func (h *WalletHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		log.Printf("Unauthorized: missing user_id in context")
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	balance, transactions, err := h.wallet.GetWallet(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to get wallet for user %d: %v", userID, err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := map[string]interface{}{
		"balance":      balance,
		"transactions": transactions,
	}
	utils.WriteJSON(w, http.StatusOK, response)
}

type WalletCreditHandler struct {
	wallet WalletService
}

func NewWalletCreditHandler(wallet WalletService) *WalletCreditHandler {
	return &WalletCreditHandler{wallet: wallet}
}

func (h *WalletCreditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		UserID int64   `json:"user_id"`
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode credit request: %v", err)
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Amount <= 0 {
		utils.WriteJSONError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	if err := h.wallet.Credit(r.Context(), req.UserID, req.Amount, adminID, req.Note); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			utils.WriteJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Failed to credit user %d: %v", req.UserID, err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusOK)
	log.Printf("User %d credited %.4f by admin %d", req.UserID, req.Amount, adminID)
}
