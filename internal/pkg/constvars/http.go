package constvars

import "net/http"

const (
	StatusOK                  = http.StatusOK
	StatusCreated             = http.StatusCreated
	StatusBadRequest          = http.StatusBadRequest
	StatusUnauthorized        = http.StatusUnauthorized
	StatusForbidden           = http.StatusForbidden
	StatusNotFound            = http.StatusNotFound
	StatusMethodNotAllowed    = http.StatusMethodNotAllowed
	StatusConflict            = http.StatusConflict
	StatusUnprocessableEntity = http.StatusUnprocessableEntity
	StatusGone                = http.StatusGone
	StatusInternalServerError = http.StatusInternalServerError
	StatusBadGateway          = http.StatusBadGateway
	StatusGatewayTimeout      = http.StatusGatewayTimeout
)

const (
	MethodGet   = http.MethodGet
	MethodPost  = http.MethodPost
	MethodPatch = http.MethodPatch
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	MIMEApplicationJSON = "application/json"
)

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "is_client_request_id"
	CONTEXT_PATIENT_ID_KEY           contextKey = "patient_id"
	CONTEXT_CLINIC_ID_KEY            contextKey = "clinic_id"
)
