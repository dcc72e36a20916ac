package routers

import (
	"clinirun-service/internal/app/delivery/http/controllers"
	"clinirun-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachCheckoutRoutes(router chi.Router, middlewares *middlewares.Middlewares, checkoutController *controllers.CheckoutController) {
	router.With(middlewares.RequirePatient).Post("/", checkoutController.Checkout)
	router.Post("/public", checkoutController.CheckoutPublic)
}
