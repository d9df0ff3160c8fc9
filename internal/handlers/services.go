package handlers

import (
	"log"
	"net/http"

	"github.com/AlenaMolokova/smmpanel/internal/utils"
)

type ServicesHandler struct {
	services ServiceStorage
}

func NewServicesHandler(services ServiceStorage) *ServicesHandler {
	return &ServicesHandler{services: services}
}

func (h *ServicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.GetActiveServices(r.Context())
	if err != nil {
		log.Printf("Failed to get services: %v", err)
		utils.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, services)
}
