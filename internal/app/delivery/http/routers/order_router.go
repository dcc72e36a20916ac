package routers

import (
	"clinirun-service/internal/app/delivery/http/controllers"
	"clinirun-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachOrderRoutes(router chi.Router, middlewares *middlewares.Middlewares, orderController *controllers.OrderController) {
	router.Use(middlewares.RequirePatient)

	router.Get("/", orderController.ListOrders)
	router.Get("/{orderID}", orderController.GetOrder)
	router.Patch("/{orderID}/payment-method", orderController.UpdatePaymentMethod)
	router.Patch("/{orderID}/delivery-address", orderController.UpdateDeliveryAddress)
}

// attachClinicRoutes holds the clinic-facing fulfillment surface: the test
// status machine, result uploads and withdrawals.
func attachClinicRoutes(router chi.Router, middlewares *middlewares.Middlewares, orderController *controllers.OrderController, withdrawalController *controllers.WithdrawalController) {
	router.Use(middlewares.RequireClinic)

	router.Patch("/orders/{orderID}/tests/{testID}/status", orderController.UpdateTestStatus)
	router.Post("/orders/{orderID}/tests/{testID}/result", orderController.UploadResult)
	router.Post("/withdrawals", withdrawalController.SubmitWithdrawal)
}
