package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AlenaMolokova/smmpanel/internal/middleware"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ReceiptSubmitHandler struct {
	receipts ReceiptService
}

func NewReceiptSubmitHandler(receipts ReceiptService) *ReceiptSubmitHandler {
	return &ReceiptSubmitHandler{receipts: receipts}
}

func (h *ReceiptSubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		FileURL  string  `json:"file_url"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Note     string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode receipt request: %v", err)
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.FileURL == "" {
		utils.WriteJSONError(w, http.StatusBadRequest, "Receipt file is required")
		return
	}
	if req.Amount <= 0 {
		utils.WriteJSONError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	receipt, err := h.receipts.Submit(r.Context(), userID, req.FileURL, req.Amount, req.Currency, req.Note)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedCurrency) {
			utils.WriteJSONError(w, http.StatusUnprocessableEntity, "Unsupported currency")
			return
		}
		log.Printf("Failed to submit receipt for user %d: %v", userID, err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, receipt)
	log.Printf("Receipt %s accepted from user %d", receipt.ID, userID)
}

type MyReceiptsHandler struct {
	receipts ReceiptService
}

func NewMyReceiptsHandler(receipts ReceiptService) *MyReceiptsHandler {
	return &MyReceiptsHandler{receipts: receipts}
}

func (h *MyReceiptsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	receipts, err := h.receipts.GetUserReceipts(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to get receipts for user %d: %v", userID, err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(receipts) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.WriteJSON(w, http.StatusOK, receipts)
}

type ReceiptReviewHandler struct {
	receipts ReceiptService
}

func NewReceiptReviewHandler(receipts ReceiptService) *ReceiptReviewHandler {
	return &ReceiptReviewHandler{receipts: receipts}
}

func (h *ReceiptReviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	receiptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid receipt id")
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode review request: %v", err)
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	receipt, err := h.receipts.Review(r.Context(), receiptID, req.Approve, adminID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrReceiptNotFound):
			utils.WriteJSONError(w, http.StatusNotFound, "Receipt not found")
		case errors.Is(err, models.ErrReceiptAlreadyReviewed):
			utils.WriteJSONError(w, http.StatusConflict, "Receipt already reviewed")
		default:
			log.Printf("Failed to review receipt %s: %v", receiptID, err)
			utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, receipt)
	log.Printf("Receipt %s reviewed by admin %d", receiptID, adminID)
}
