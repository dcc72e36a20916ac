package routers

import (
	"clinirun-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

// Webhook routes are unauthenticated by design: providers sign their own
// payloads and retries must never be blocked by session checks.
func attachWebhookRoutes(router chi.Router, webhookController *controllers.WebhookController) {
	router.Post("/pawapay/deposits", webhookController.PawaPayDeposit)
	router.Post("/pawapay/payouts", webhookController.PawaPayPayout)
	router.Post("/yellowcard", webhookController.YellowCardEvent)
}
