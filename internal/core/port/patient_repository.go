package port

import (
	"context"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
)

// PatientRepository exposes persistence for patient demographics and the
// user-to-patient link table.
type PatientRepository interface {
	PatientIDForUser(ctx context.Context, userID string) (string, error)
	GetByID(ctx context.Context, patientID string) (*domain.Patient, error)
	Update(ctx context.Context, patientID string, update domain.PatientUpdate) error
	CreateAndLink(ctx context.Context, userID string, patient domain.Patient) (string, error)
}

// ClinicalRepository exposes read and append access to a patient's clinical
// collaterals.
type ClinicalRepository interface {
	ListAllergies(ctx context.Context, patientID string) ([]domain.Allergy, error)
	ListMedications(ctx context.Context, patientID string) ([]domain.Medication, error)
	ListVitals(ctx context.Context, patientID string, limit int) ([]domain.Vital, error)
	AddVital(ctx context.Context, vital domain.Vital) error
	ListNotes(ctx context.Context, patientID string, limit int) ([]domain.ClinicalNote, error)
}
