package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

// ErrPatientNotLinked indicates the user has no linked patient record.
var ErrPatientNotLinked = errors.New("patient not linked")

// PatientService exposes a user's own patient record and clinical collaterals.
type PatientService struct {
	patients port.PatientRepository
	clinical port.ClinicalRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewPatientService constructs a PatientService instance.
func NewPatientService(patients port.PatientRepository, clinical port.ClinicalRepository, log *zap.Logger) *PatientService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PatientService{
		patients: patients,
		clinical: clinical,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, primarily for tests.
func (s *PatientService) WithClock(now func() time.Time) *PatientService {
	if now != nil {
		s.now = now
	}
	return s
}

// Profile returns the patient record linked to the user, or ErrPatientNotLinked.
func (s *PatientService) Profile(ctx context.Context, userID string) (*domain.Patient, error) {
	patientID, err := s.patientID(ctx, userID)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotLinked
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	return patient, nil
}

// UpdateProfile applies a partial demographics update to the linked patient.
func (s *PatientService) UpdateProfile(ctx context.Context, userID string, update domain.PatientUpdate) error {
	patientID, err := s.patientID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.patients.Update(ctx, patientID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPatientNotLinked
		}
		return fmt.Errorf("update patient: %w", err)
	}

	return nil
}

// CreateProfile creates a patient record and links the user as its owner.
// First name, last name, and date of birth are required.
func (s *PatientService) CreateProfile(ctx context.Context, userID string, patient domain.Patient) (string, error) {
	if patient.FirstName == "" || patient.LastName == "" || patient.DateOfBirth == nil {
		return "", fmt.Errorf("first name, last name, and date of birth are required")
	}

	now := s.now()
	patient.ID = uuid.NewString()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	patientID, err := s.patients.CreateAndLink(ctx, userID, patient)
	if err != nil {
		return "", fmt.Errorf("create patient: %w", err)
	}

	s.logger.Info("patient profile created",
		zap.String("user_id", userID),
		zap.String("patient_id", patientID))

	return patientID, nil
}

// Allergies lists known allergies for the linked patient.
func (s *PatientService) Allergies(ctx context.Context, userID string) ([]domain.Allergy, error) {
	patientID, err := s.patientID(ctx, userID)
	if err != nil {
		return nil, err
	}
	allergies, err := s.clinical.ListAllergies(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list allergies: %w", err)
	}
	return allergies, nil
}

// Medications lists medications for the linked patient.
func (s *PatientService) Medications(ctx context.Context, userID string) ([]domain.Medication, error) {
	patientID, err := s.patientID(ctx, userID)
	if err != nil {
		return nil, err
	}
	medications, err := s.clinical.ListMedications(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return medications, nil
}

// Vitals lists recent vital observations for the linked patient.
func (s *PatientService) Vitals(ctx context.Context, userID string, limit int) ([]domain.Vital, error) {
	patientID, err := s.patientID(ctx, userID)
	if err != nil {
		return nil, err
	}
	vitals, err := s.clinical.ListVitals(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list vitals: %w", err)
	}
	return vitals, nil
}

// RecordVital appends a vital observation for the linked patient.
func (s *PatientService) RecordVital(ctx context.Context, userID string, vital domain.Vital) (*domain.Vital, error) {
	if vital.Kind == "" || vital.Unit == "" {
		return nil, fmt.Errorf("kind and unit are required")
	}

	patientID, err := s.patientID(ctx, userID)
	if err != nil {
		return nil, err
	}

	vital.ID = uuid.NewString()
	vital.PatientID = patientID
	if vital.RecordedAt.IsZero() {
		vital.RecordedAt = s.now()
	}

	if err := s.clinical.AddVital(ctx, vital); err != nil {
		return nil, fmt.Errorf("record vital: %w", err)
	}

	return &vital, nil
}

// Notes lists recent clinical notes for the linked patient.
func (s *PatientService) Notes(ctx context.Context, userID string, limit int) ([]domain.ClinicalNote, error) {
	patientID, err := s.patientID(ctx, userID)
	if err != nil {
		return nil, err
	}
	notes, err := s.clinical.ListNotes(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *PatientService) patientID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	patientID, err := s.patients.PatientIDForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrPatientNotLinked
		}
		return "", fmt.Errorf("resolve patient link: %w", err)
	}

	return patientID, nil
}
