package contracts

import (
	"clinirun-service/internal/app/models"
	"context"
)

type ClinicRepository interface {
	FindByID(ctx context.Context, clinicID string) (*models.Clinic, error)
	FindByIDs(ctx context.Context, clinicIDs []string) ([]models.Clinic, error)
	// IncrementBalance applies delta (positive or negative) as an atomic
	// increment, never read-modify-write.
	IncrementBalance(ctx context.Context, clinicID string, delta float64) error
	// DebitBalance atomically subtracts amount only when the current balance
	// covers it, and reports whether the debit happened.
	DebitBalance(ctx context.Context, clinicID string, amount float64) (bool, error)
}

type PatientRepository interface {
	FindByID(ctx context.Context, patientID string) (*models.Patient, error)
	// DebitSubscriptionCredit atomically consumes one subscription credit and
	// reports whether there was one to consume.
	DebitSubscriptionCredit(ctx context.Context, patientID string) (bool, error)
	// DebitInsuranceAllowance atomically reserves amount against the
	// remaining policy limit only when the limit still covers it, and
	// reports whether the reservation happened.
	DebitInsuranceAllowance(ctx context.Context, patientID string, amount float64) (bool, error)
}

type LabTestRepository interface {
	FindByID(ctx context.Context, testID string) (*models.LabTest, error)
	FindByClinicAndNumber(ctx context.Context, clinicID string, testNumber int) (*models.LabTest, error)
}
