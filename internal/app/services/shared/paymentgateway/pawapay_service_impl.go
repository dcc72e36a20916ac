package paymentgateway

import (
	"bytes"
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/dto/responses"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type pawaPayService struct {
	BaseUrl    string
	ApiKey     string
	HttpClient *http.Client
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewPawaPayService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	timeout := internalConfig.PawaPay.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &pawaPayService{
		BaseUrl:    internalConfig.PawaPay.BaseUrl,
		ApiKey:     internalConfig.PawaPay.ApiKey,
		HttpClient: &http.Client{Timeout: timeout},
		Limiter:    rate.NewLimiter(rate.Limit(10), 20),
		Log:        logger,
	}
}

func (s *pawaPayService) Provider() string {
	return constvars.ProviderPawaPay
}

type pawaPayPayer struct {
	Type           string                `json:"type"`
	AccountDetails pawaPayAccountDetails `json:"accountDetails"`
}

type pawaPayAccountDetails struct {
	PhoneNumber string `json:"phoneNumber"`
}

type pawaPayDepositRequest struct {
	DepositID string                          `json:"depositId"`
	Amount    string                          `json:"amount"`
	Currency  string                          `json:"currency"`
	Payer     pawaPayPayer                    `json:"payer"`
	Metadata  []requests.PawaPayMetadataField `json:"metadata,omitempty"`
}

type pawaPayDepositResponse struct {
	DepositID string `json:"depositId"`
	Status    string `json:"status"`
}

// toPawaPayMetadata serializes the typed metadata to the provider's key/value
// array wire shape. This is the only place that conversion happens on the way
// out.
func toPawaPayMetadata(md requests.PaymentMetadata) []requests.PawaPayMetadataField {
	fields := []requests.PawaPayMetadataField{
		{FieldName: "deliveryMethod", FieldValue: md.DeliveryMethod},
	}
	if md.PatientID != "" {
		fields = append(fields, requests.PawaPayMetadataField{FieldName: "patientId", FieldValue: md.PatientID})
	}
	if md.Public {
		fields = append(fields, requests.PawaPayMetadataField{FieldName: "public", FieldValue: "true"})
	}
	if md.DeliveryAddress != "" {
		fields = append(fields, requests.PawaPayMetadataField{FieldName: "deliveryAddress", FieldValue: md.DeliveryAddress})
	}
	return fields
}

func (s *pawaPayService) InitiateDeposit(ctx context.Context, request *requests.InitiateDeposit) (*responses.InitiateDeposit, error) {
	payload := pawaPayDepositRequest{
		DepositID: request.IdempotencyKey,
		Amount:    FormatProviderAmount(request.Amount),
		Currency:  request.Currency,
		Payer: pawaPayPayer{
			Type:           "MMO",
			AccountDetails: pawaPayAccountDetails{PhoneNumber: request.PayerAccount},
		},
		Metadata: toPawaPayMetadata(request.Metadata),
	}

	var result pawaPayDepositResponse
	if err := s.post(ctx, "/deposits", payload, &result); err != nil {
		return nil, err
	}

	s.Log.Info("pawaPayService.InitiateDeposit accepted",
		zap.String(constvars.LoggingProviderRefKey, result.DepositID),
		zap.String(constvars.LoggingPaymentStatusKey, result.Status),
	)
	return &responses.InitiateDeposit{
		ProviderReference: result.DepositID,
		Status:            result.Status,
	}, nil
}

// AcceptCollection is a no-op: pawaPay deposits settle without a merchant
// approval step, its ACCEPTED/ENQUEUED statuses only report progress.
func (s *pawaPayService) AcceptCollection(ctx context.Context, providerReference string) error {
	return nil
}

type pawaPayPayoutRequest struct {
	PayoutID  string       `json:"payoutId"`
	Amount    string       `json:"amount"`
	Currency  string       `json:"currency"`
	Recipient pawaPayPayer `json:"recipient"`
}

type pawaPayPayoutResponse struct {
	PayoutID string `json:"payoutId"`
	Status   string `json:"status"`
}

func (s *pawaPayService) SubmitPayout(ctx context.Context, request *requests.SubmitPayout) (*responses.SubmitPayout, error) {
	payload := pawaPayPayoutRequest{
		PayoutID: request.IdempotencyKey,
		Amount:   FormatProviderAmount(request.Amount),
		Currency: request.Currency,
		Recipient: pawaPayPayer{
			Type:           "MMO",
			AccountDetails: pawaPayAccountDetails{PhoneNumber: request.RecipientAccount},
		},
	}

	var result pawaPayPayoutResponse
	if err := s.post(ctx, "/payouts", payload, &result); err != nil {
		return nil, err
	}

	return &responses.SubmitPayout{
		ProviderReference: result.PayoutID,
		Status:            result.Status,
	}, nil
}

func (s *pawaPayService) post(ctx context.Context, path string, payload, result interface{}) error {
	if err := s.Limiter.Wait(ctx); err != nil {
		return exceptions.ErrProviderRequest(err, constvars.ProviderPawaPay)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", s.BaseUrl, path), bytes.NewReader(body))
	if err != nil {
		return exceptions.ErrProviderRequest(err, constvars.ProviderPawaPay)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf("Bearer %s", s.ApiKey))

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		// A provider timeout fails this call only, never the whole checkout
		// handling around it.
		if errors.Is(err, context.DeadlineExceeded) {
			return exceptions.ErrProviderTimeout(err, constvars.ProviderPawaPay)
		}
		return exceptions.ErrProviderRequest(err, constvars.ProviderPawaPay)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return exceptions.ErrProviderBadStatus(constvars.ProviderPawaPay, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return exceptions.ErrProviderRequest(err, constvars.ProviderPawaPay)
	}
	return nil
}
