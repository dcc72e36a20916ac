package constvars

const (
	CheckoutInitiatedSuccess       = "Payment initiated, waiting for provider confirmation"
	PublicCheckoutInitiatedSuccess = "Booking payment initiated, waiting for provider confirmation"
	CheckoutCompletedSuccess       = "Order placed successfully"
	OrderListSuccess               = "Orders retrieved successfully"
	OrderDetailSuccess             = "Order retrieved successfully"
	OrderTestStatusUpdateSuccess   = "Test status updated successfully"
	OrderResultUploadSuccess       = "Result uploaded successfully"
	OrderPaymentMethodSuccess      = "Payment method updated successfully"
	OrderDeliveryAddressSuccess    = "Delivery address updated successfully"
	WithdrawalSubmittedSuccess     = "Withdrawal request submitted"
	WebhookProcessedSuccess        = "Webhook processed"
)

const ResponseUnknown = "unknown"
