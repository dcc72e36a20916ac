package calendar

import (
	"bytes"
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

type calendarService struct {
	BaseUrl    string
	ApiKey     string
	HttpClient *http.Client
}

func NewCalendarService(internalConfig *config.InternalConfig) contracts.CalendarService {
	timeout := internalConfig.Calendar.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &calendarService{
		BaseUrl:    internalConfig.Calendar.BaseUrl,
		ApiKey:     internalConfig.Calendar.ApiKey,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

type createEventRequest struct {
	ClinicName     string `json:"clinicName"`
	ClinicEmail    string `json:"clinicEmail"`
	AttendeeName   string `json:"attendeeName"`
	AttendeeEmail  string `json:"attendeeEmail"`
	TestName       string `json:"testName"`
	OrderID        string `json:"orderId"`
	DeliveryMethod string `json:"deliveryMethod"`
	Address        string `json:"address,omitempty"`
	StartTime      string `json:"startTime"`
	Timezone       string `json:"timezone"`
}

type createEventResponse struct {
	EventLink string `json:"eventLink"`
	MeetLink  string `json:"meetLink"`
}

func (s *calendarService) CreateEvent(ctx context.Context, clinic *models.Clinic, attendeeName, attendeeEmail, testName, orderID, deliveryMethod, address string, startTime time.Time, timezone string) (*contracts.CalendarEvent, error) {
	payload := createEventRequest{
		ClinicName:     clinic.Name,
		ClinicEmail:    clinic.Email,
		AttendeeName:   attendeeName,
		AttendeeEmail:  attendeeEmail,
		TestName:       testName,
		OrderID:        orderID,
		DeliveryMethod: deliveryMethod,
		Address:        address,
		StartTime:      startTime.Format(time.RFC3339),
		Timezone:       timezone,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/events", s.BaseUrl), bytes.NewReader(body))
	if err != nil {
		return nil, exceptions.BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, "calendar: failed to build request")
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, fmt.Sprintf("Bearer %s", s.ApiKey))

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return nil, exceptions.BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, "calendar: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, exceptions.BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf("calendar: unexpected response status %d", resp.StatusCode))
	}

	var result createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, exceptions.BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientSomethingWrongWithApplication, "calendar: failed to decode response")
	}

	return &contracts.CalendarEvent{
		EventLink: result.EventLink,
		MeetLink:  result.MeetLink,
	}, nil
}
