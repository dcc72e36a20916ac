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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type yellowCardService struct {
	BaseUrl    string
	ApiKey     string
	ApiSecret  string
	HttpClient *http.Client
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewYellowCardService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	timeout := internalConfig.YellowCard.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &yellowCardService{
		BaseUrl:    internalConfig.YellowCard.BaseUrl,
		ApiKey:     internalConfig.YellowCard.ApiKey,
		ApiSecret:  internalConfig.YellowCard.ApiSecret,
		HttpClient: &http.Client{Timeout: timeout},
		Limiter:    rate.NewLimiter(rate.Limit(5), 10),
		Log:        logger,
	}
}

func (s *yellowCardService) Provider() string {
	return constvars.ProviderYellowCard
}

type yellowCardCollectionRequest struct {
	SequenceID string            `json:"sequenceId"`
	Amount     string            `json:"amount"`
	Currency   string            `json:"currency"`
	Source     yellowCardAccount `json:"source"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type yellowCardAccount struct {
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
}

type yellowCardTransactionResponse struct {
	SequenceID string `json:"sequenceId"`
	Status     string `json:"status"`
}

// toYellowCardMetadata serializes the typed metadata to the provider's flat
// map wire shape at the adapter boundary only.
func toYellowCardMetadata(md requests.PaymentMetadata) map[string]string {
	out := map[string]string{
		"deliveryMethod": md.DeliveryMethod,
	}
	if md.PatientID != "" {
		out["patientId"] = md.PatientID
	}
	if md.Public {
		out["public"] = "true"
	}
	if md.DeliveryAddress != "" {
		out["deliveryAddress"] = md.DeliveryAddress
	}
	return out
}

func (s *yellowCardService) InitiateDeposit(ctx context.Context, request *requests.InitiateDeposit) (*responses.InitiateDeposit, error) {
	payload := yellowCardCollectionRequest{
		SequenceID: request.IdempotencyKey,
		Amount:     FormatProviderAmount(request.Amount),
		Currency:   request.Currency,
		Source: yellowCardAccount{
			AccountNumber: request.PayerAccount,
			AccountType:   "bank",
		},
		Metadata: toYellowCardMetadata(request.Metadata),
	}

	var result yellowCardTransactionResponse
	if err := s.post(ctx, "/business/collections", payload, &result); err != nil {
		return nil, err
	}

	s.Log.Info("yellowCardService.InitiateDeposit accepted",
		zap.String(constvars.LoggingProviderRefKey, result.SequenceID),
		zap.String(constvars.LoggingPaymentStatusKey, result.Status),
	)
	return &responses.InitiateDeposit{
		ProviderReference: result.SequenceID,
		Status:            result.Status,
	}, nil
}

// AcceptCollection approves a collection Yellow Card holds in
// pending_approval. The endpoint is idempotent on the provider side, but the
// caller still checks the reported status first to avoid needless calls.
func (s *yellowCardService) AcceptCollection(ctx context.Context, providerReference string) error {
	var result yellowCardTransactionResponse
	if err := s.post(ctx, fmt.Sprintf("/business/collections/%s/accept", providerReference), struct{}{}, &result); err != nil {
		return err
	}

	s.Log.Info("yellowCardService.AcceptCollection accepted",
		zap.String(constvars.LoggingProviderRefKey, providerReference),
		zap.String(constvars.LoggingPaymentStatusKey, result.Status),
	)
	return nil
}

type yellowCardPaymentRequest struct {
	SequenceID  string            `json:"sequenceId"`
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	Destination yellowCardAccount `json:"destination"`
	Reason      string            `json:"reason,omitempty"`
}

func (s *yellowCardService) SubmitPayout(ctx context.Context, request *requests.SubmitPayout) (*responses.SubmitPayout, error) {
	payload := yellowCardPaymentRequest{
		SequenceID: request.IdempotencyKey,
		Amount:     FormatProviderAmount(request.Amount),
		Currency:   request.Currency,
		Destination: yellowCardAccount{
			AccountNumber: request.RecipientAccount,
			AccountType:   "bank",
		},
		Reason: request.Description,
	}

	var result yellowCardTransactionResponse
	if err := s.post(ctx, "/business/payments", payload, &result); err != nil {
		return nil, err
	}

	return &responses.SubmitPayout{
		ProviderReference: result.SequenceID,
		Status:            result.Status,
	}, nil
}

func (s *yellowCardService) post(ctx context.Context, path string, payload, result interface{}) error {
	if err := s.Limiter.Wait(ctx); err != nil {
		return exceptions.ErrProviderRequest(err, constvars.ProviderYellowCard)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", s.BaseUrl, path), bytes.NewReader(body))
	if err != nil {
		return exceptions.ErrProviderRequest(err, constvars.ProviderYellowCard)
	}
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set("X-YC-Timestamp", timestamp)
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf("YcHmacV1 %s:%s", s.ApiKey, s.sign(timestamp, path, body)))

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return exceptions.ErrProviderTimeout(err, constvars.ProviderYellowCard)
		}
		return exceptions.ErrProviderRequest(err, constvars.ProviderYellowCard)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return exceptions.ErrProviderBadStatus(constvars.ProviderYellowCard, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return exceptions.ErrProviderRequest(err, constvars.ProviderYellowCard)
	}
	return nil
}

func (s *yellowCardService) sign(timestamp, path string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.ApiSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(path))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
