package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestOrderStatusHandlerServeHTTP(t *testing.T) {
	adminID := int64(99)

	tests := []struct {
		name           string
		orderID        string
		body           string
		setupMocks     func(*MockOrderService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная смена статуса",
			orderID: "10",
			body:    `{"status":"COMPLETED"}`,
			setupMocks: func(os *MockOrderService) {
				os.On("Transition", mock.Anything, int64(10), constants.StatusCompleted, adminID).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "недопустимый переход",
			orderID: "10",
			body:    `{"status":"CANCELED"}`,
			setupMocks: func(os *MockOrderService) {
				os.On("Transition", mock.Anything, int64(10), constants.StatusCanceled, adminID).Return(models.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"Transition not allowed"}`,
		},
		{
			name:    "заказ не найден",
			orderID: "77",
			body:    `{"status":"COMPLETED"}`,
			setupMocks: func(os *MockOrderService) {
				os.On("Transition", mock.Anything, int64(77), constants.StatusCompleted, adminID).Return(models.ErrOrderNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Order not found"}`,
		},
		{
			name:           "неизвестный статус",
			orderID:        "10",
			body:           `{"status":"SHIPPED"}`,
			setupMocks:     func(os *MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Unknown status"}`,
		},
		{
			name:           "статус PENDING напрямую не устанавливается",
			orderID:        "10",
			body:           `{"status":"PENDING"}`,
			setupMocks:     func(os *MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Unknown status"}`,
		},
		{
			name:           "некорректный идентификатор",
			orderID:        "abc",
			body:           `{"status":"COMPLETED"}`,
			setupMocks:     func(os *MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid order id"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os := &MockOrderService{}
			tt.setupMocks(os)

			handler := NewOrderStatusHandler(os)
			req := authedRequest(http.MethodPut, "/api/orders/"+tt.orderID+"/status", tt.body, adminID, true)
			req = withURLParam(req, "id", tt.orderID)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}

			os.AssertExpectations(t)
		})
	}
}

func TestManualOrderHandlerServeHTTP(t *testing.T) {
	adminID := int64(99)

	t.Run("успешное ручное создание", func(t *testing.T) {
		os := &MockOrderService{}
		os.On("CreateManual", mock.Anything, adminID, int64(2), int64(3), "https://example.com/p", 500, int64(777)).Return(models.Order{
			ID:     15,
			UserID: 2,
			Status: constants.StatusPending,
		}, nil)

		body := `{"user_id":2,"service_id":3,"link":"https://example.com/p","quantity":500,"external_id":777}`
		w := httptest.NewRecorder()
		NewManualOrderHandler(os).ServeHTTP(w, authedRequest(http.MethodPost, "/api/orders/manual", body, adminID, true))

		assert.Equal(t, http.StatusCreated, w.Code)
		os.AssertExpectations(t)
	})

	t.Run("недостаточно средств у пользователя", func(t *testing.T) {
		os := &MockOrderService{}
		os.On("CreateManual", mock.Anything, adminID, int64(2), int64(3), "https://example.com/p", 500, int64(0)).Return(models.Order{}, models.ErrInsufficientBalance)

		body := `{"user_id":2,"service_id":3,"link":"https://example.com/p","quantity":500}`
		w := httptest.NewRecorder()
		NewManualOrderHandler(os).ServeHTTP(w, authedRequest(http.MethodPost, "/api/orders/manual", body, adminID, true))

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		os.AssertExpectations(t)
	})
}
