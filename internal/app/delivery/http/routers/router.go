package routers

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/delivery/http/controllers"
	"clinirun-service/internal/app/delivery/http/middlewares"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	checkoutController *controllers.CheckoutController,
	orderController *controllers.OrderController,
	withdrawalController *controllers.WithdrawalController,
	webhookController *controllers.WebhookController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)
	router.Use(chimiddleware.Timeout(internalConfig.App.RequestTimeout))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/checkout", func(r chi.Router) {
				attachCheckoutRoutes(r, middlewares, checkoutController)
			})

			r.Route("/orders", func(r chi.Router) {
				attachOrderRoutes(r, middlewares, orderController)
			})

			r.Route("/clinics", func(r chi.Router) {
				attachClinicRoutes(r, middlewares, orderController, withdrawalController)
			})

			r.Route("/webhooks", func(r chi.Router) {
				attachWebhookRoutes(r, webhookController)
			})
		})
	})
}
