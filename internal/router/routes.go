package router

import (
	"github.com/AlenaMolokova/smmpanel/internal/handlers"
	"github.com/AlenaMolokova/smmpanel/internal/middleware"
	"github.com/AlenaMolokova/smmpanel/internal/storage"
	"github.com/AlenaMolokova/smmpanel/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LoginPath        = "/api/user/login"
	OrdersPath       = "/api/orders"
	MyOrdersPath     = "/api/orders/myorders"
	RecentOrdersPath = "/api/orders/recent"
	OrderStatusPath  = "/api/orders/{id}/status"
	ManualOrderPath  = "/api/orders/manual"
	ServicesPath     = "/api/services"
	WalletPath       = "/api/wallet"
	CreditPath       = "/api/wallet/credit"
	ReceiptsPath     = "/api/wallet/receipts"
	ReceiptPath      = "/api/wallet/receipts/{id}/review"
	MetricsPath      = "/metrics"
)

func SetupRoutes(store *storage.Storage, orderUC *usecase.OrderUseCase, walletUC *usecase.WalletUseCase, receiptUC *usecase.ReceiptUseCase, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle(MetricsPath, promhttp.Handler())
	r.Post(LoginPath, handlers.NewLoginHandler(store, jwtSecret).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(jwtSecret))

		r.Post(OrdersPath, handlers.NewOrderHandler(orderUC).ServeHTTP)
		r.Get(MyOrdersPath, handlers.NewMyOrdersHandler(orderUC).ServeHTTP)
		r.Get(ServicesPath, handlers.NewServicesHandler(store).ServeHTTP)
		r.Get(WalletPath, handlers.NewWalletHandler(walletUC).ServeHTTP)
		r.Post(ReceiptsPath, handlers.NewReceiptSubmitHandler(receiptUC).ServeHTTP)
		r.Get(ReceiptsPath, handlers.NewMyReceiptsHandler(receiptUC).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)

			r.Get(OrdersPath, handlers.NewAllOrdersHandler(orderUC).ServeHTTP)
			r.Get(RecentOrdersPath, handlers.NewRecentOrdersHandler(orderUC).ServeHTTP)
			r.Put(OrderStatusPath, handlers.NewOrderStatusHandler(orderUC).ServeHTTP)
			r.Post(ManualOrderPath, handlers.NewManualOrderHandler(orderUC).ServeHTTP)
			r.Post(CreditPath, handlers.NewWalletCreditHandler(walletUC).ServeHTTP)
			r.Put(ReceiptPath, handlers.NewReceiptReviewHandler(receiptUC).ServeHTTP)
		})
	})

	return r
}
