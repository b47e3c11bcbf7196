package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

type memoryPatientRepo struct {
	mu       sync.Mutex
	links    map[string]string
	patients map[string]domain.Patient
}

func newMemoryPatientRepo() *memoryPatientRepo {
	return &memoryPatientRepo{
		links:    map[string]string{},
		patients: map[string]domain.Patient{},
	}
}

func (r *memoryPatientRepo) PatientIDForUser(_ context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.links[userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return id, nil
}

func (r *memoryPatientRepo) GetByID(_ context.Context, patientID string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient, ok := r.patients[patientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := patient
	return &copied, nil
}

func (r *memoryPatientRepo) Update(_ context.Context, patientID string, update domain.PatientUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	patient, ok := r.patients[patientID]
	if !ok {
		return repository.ErrNotFound
	}
	if update.FirstName != nil {
		patient.FirstName = *update.FirstName
	}
	if update.City != nil {
		patient.City = update.City
	}
	r.patients[patientID] = patient
	return nil
}

func (r *memoryPatientRepo) CreateAndLink(_ context.Context, userID string, patient domain.Patient) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[patient.ID] = patient
	r.links[userID] = patient.ID
	return patient.ID, nil
}

type memoryClinicalRepo struct {
	mu     sync.Mutex
	vitals map[string][]domain.Vital
}

func newMemoryClinicalRepo() *memoryClinicalRepo {
	return &memoryClinicalRepo{vitals: map[string][]domain.Vital{}}
}

func (r *memoryClinicalRepo) ListAllergies(context.Context, string) ([]domain.Allergy, error) {
	return nil, nil
}

func (r *memoryClinicalRepo) ListMedications(context.Context, string) ([]domain.Medication, error) {
	return nil, nil
}

func (r *memoryClinicalRepo) ListVitals(_ context.Context, patientID string, _ int) ([]domain.Vital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vitals[patientID], nil
}

func (r *memoryClinicalRepo) AddVital(_ context.Context, vital domain.Vital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vitals[vital.PatientID] = append(r.vitals[vital.PatientID], vital)
	return nil
}

func (r *memoryClinicalRepo) ListNotes(context.Context, string, int) ([]domain.ClinicalNote, error) {
	return nil, nil
}

func TestPatientServiceProfileNotLinked(t *testing.T) {
	svc := NewPatientService(newMemoryPatientRepo(), newMemoryClinicalRepo(), zaptest.NewLogger(t))

	if _, err := svc.Profile(context.Background(), "user-1"); !errors.Is(err, ErrPatientNotLinked) {
		t.Fatalf("expected ErrPatientNotLinked, got %v", err)
	}
}

func TestPatientServiceCreateAndFetchProfile(t *testing.T) {
	repo := newMemoryPatientRepo()
	svc := NewPatientService(repo, newMemoryClinicalRepo(), zaptest.NewLogger(t))

	dob := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	patientID, err := svc.CreateProfile(context.Background(), "user-1", domain.Patient{
		FirstName:   "Alice",
		LastName:    "Doe",
		DateOfBirth: &dob,
	})
	if err != nil {
		t.Fatalf("CreateProfile returned error: %v", err)
	}

	profile, err := svc.Profile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.ID != patientID || profile.FirstName != "Alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	city := "Berlin"
	if err := svc.UpdateProfile(context.Background(), "user-1", domain.PatientUpdate{City: &city}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	profile, _ = svc.Profile(context.Background(), "user-1")
	if profile.City == nil || *profile.City != "Berlin" {
		t.Fatalf("expected city updated, got %+v", profile.City)
	}
}

func TestPatientServiceCreateProfileRequiredFields(t *testing.T) {
	svc := NewPatientService(newMemoryPatientRepo(), newMemoryClinicalRepo(), zaptest.NewLogger(t))

	if _, err := svc.CreateProfile(context.Background(), "user-1", domain.Patient{FirstName: "Alice"}); err == nil {
		t.Fatalf("expected error for missing required fields")
	}
}

func TestPatientServiceRecordVital(t *testing.T) {
	repo := newMemoryPatientRepo()
	clinical := newMemoryClinicalRepo()
	svc := NewPatientService(repo, clinical, zaptest.NewLogger(t))

	dob := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	if _, err := svc.CreateProfile(context.Background(), "user-1", domain.Patient{
		FirstName:   "Alice",
		LastName:    "Doe",
		DateOfBirth: &dob,
	}); err != nil {
		t.Fatalf("CreateProfile returned error: %v", err)
	}

	vital, err := svc.RecordVital(context.Background(), "user-1", domain.Vital{
		Kind:  "heart_rate",
		Value: 72,
		Unit:  "bpm",
	})
	if err != nil {
		t.Fatalf("RecordVital returned error: %v", err)
	}
	if vital.ID == "" || vital.RecordedAt.IsZero() {
		t.Fatalf("expected id and timestamp assigned: %+v", vital)
	}

	vitals, err := svc.Vitals(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("Vitals returned error: %v", err)
	}
	if len(vitals) != 1 || vitals[0].Kind != "heart_rate" {
		t.Fatalf("unexpected vitals: %+v", vitals)
	}

	if _, err := svc.RecordVital(context.Background(), "user-1", domain.Vital{Value: 1}); err == nil {
		t.Fatalf("expected error for missing kind and unit")
	}
}
