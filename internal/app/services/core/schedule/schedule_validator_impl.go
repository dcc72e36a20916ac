package schedule

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type scheduleValidator struct {
	ClinicRepository contracts.ClinicRepository
	SlotRepository   contracts.SlotOccupancyRepository
	Log              *zap.Logger
}

var (
	scheduleValidatorInstance contracts.ScheduleValidator
	onceScheduleValidator     sync.Once
)

func NewScheduleValidator(
	clinicRepository contracts.ClinicRepository,
	slotRepository contracts.SlotOccupancyRepository,
	logger *zap.Logger,
) contracts.ScheduleValidator {
	onceScheduleValidator.Do(func() {
		scheduleValidatorInstance = &scheduleValidator{
			ClinicRepository: clinicRepository,
			SlotRepository:   slotRepository,
			Log:              logger,
		}
	})
	return scheduleValidatorInstance
}

func (sv *scheduleValidator) ValidateCheckout(ctx context.Context, clinicIDs []string, deliveryMethod string) error {
	clinics, err := sv.ClinicRepository.FindByIDs(ctx, clinicIDs)
	if err != nil {
		return err
	}

	byID := make(map[string]*models.Clinic, len(clinics))
	for i := range clinics {
		byID[clinics[i].ID] = &clinics[i]
	}

	for _, clinicID := range clinicIDs {
		clinic, ok := byID[clinicID]
		if !ok {
			return exceptions.BuildNewCustomError(nil, constvars.StatusNotFound,
				constvars.ErrClientClinicNotFound,
				fmt.Sprintf("clinic %s referenced by cart does not exist", clinicID),
			)
		}
		if !clinic.Online {
			return exceptions.BuildNewCustomError(nil, constvars.StatusUnprocessableEntity,
				constvars.ErrClientClinicOffline,
				fmt.Sprintf("clinic %s is offline", clinicID),
			)
		}
		if !clinic.SupportsDeliveryMethod(deliveryMethod) {
			return exceptions.BuildNewCustomError(nil, constvars.StatusUnprocessableEntity,
				constvars.ErrClientDeliveryMethodUnsupported,
				fmt.Sprintf("clinic %s does not offer delivery method %q", clinicID, deliveryMethod),
			)
		}
	}
	return nil
}

func (sv *scheduleValidator) ValidateSlot(ctx context.Context, clinicID string, slot time.Time) error {
	clinic, err := sv.ClinicRepository.FindByID(ctx, clinicID)
	if err != nil {
		return err
	}
	if clinic == nil {
		return exceptions.BuildNewCustomError(nil, constvars.StatusNotFound,
			constvars.ErrClientClinicNotFound, "clinic not found while validating slot")
	}

	local := slot.In(clinicLocation(clinic, sv.Log))
	windows := clinic.WeeklyHours.ForWeekday(local.Weekday())
	if len(windows) == 0 {
		return exceptions.BuildNewCustomError(nil, constvars.StatusUnprocessableEntity,
			constvars.ErrClientClinicClosedOnDay,
			fmt.Sprintf("clinic %s has no windows on %s", clinicID, local.Weekday()),
		)
	}
	if !withinAnyWindow(local, windows) {
		return exceptions.BuildNewCustomError(nil, constvars.StatusUnprocessableEntity,
			constvars.ErrClientOutsideOpeningHours,
			fmt.Sprintf("slot %s falls outside clinic %s opening hours", local.Format("15:04"), clinicID),
		)
	}

	taken, err := sv.SlotRepository.IsSlotTaken(ctx, clinicID, slot)
	if err != nil {
		return err
	}
	if taken {
		return exceptions.BuildNewCustomError(nil, constvars.StatusConflict,
			constvars.ErrClientSlotTaken,
			fmt.Sprintf("slot %s at clinic %s already taken", slot.UTC().Format(time.RFC3339), clinicID),
		)
	}
	return nil
}

func clinicLocation(clinic *models.Clinic, log *zap.Logger) *time.Location {
	if clinic.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(clinic.Timezone)
	if err != nil {
		log.Warn("invalid clinic timezone, falling back to UTC",
			zap.String(constvars.LoggingClinicIDKey, clinic.ID),
			zap.String("timezone", clinic.Timezone),
		)
		return time.UTC
	}
	return loc
}

// withinAnyWindow checks the slot's wall-clock minute against each window,
// open inclusive and close exclusive. Malformed windows are skipped.
func withinAnyWindow(local time.Time, windows []models.DayWindow) bool {
	minuteOfDay := local.Hour()*60 + local.Minute()
	for _, window := range windows {
		open, okOpen := parseClock(window.Open)
		closeAt, okClose := parseClock(window.Close)
		if !okOpen || !okClose {
			continue
		}
		if minuteOfDay >= open && minuteOfDay < closeAt {
			return true
		}
	}
	return false
}

func parseClock(value string) (int, bool) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, false
	}
	return parsed.Hour()*60 + parsed.Minute(), true
}
