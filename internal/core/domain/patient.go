package domain

import "time"

// PatientSex enumerates recorded administrative sex values.
type PatientSex string

const (
	PatientSexMale     PatientSex = "male"
	PatientSexFemale   PatientSex = "female"
	PatientSexIntersex PatientSex = "intersex"
	PatientSexOther    PatientSex = "other"
	PatientSexUnknown  PatientSex = "unknown"
)

// Patient holds the demographic and contact record for a patient.
type Patient struct {
	ID           string
	MRN          *string
	FirstName    string
	MiddleName   *string
	LastName     string
	DateOfBirth  *time.Time
	Sex          *PatientSex
	Email        *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	CountryCode  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PatientUpdate carries a partial demographics update. Nil fields are left untouched.
type PatientUpdate struct {
	FirstName    *string
	MiddleName   *string
	LastName     *string
	DateOfBirth  *time.Time
	Sex          *PatientSex
	Email        *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	CountryCode  *string
}

// Allergy records a known allergy for a patient.
type Allergy struct {
	ID         string
	PatientID  string
	Substance  string
	Reaction   *string
	Severity   *string
	RecordedAt time.Time
}

// Medication records an active or historical medication for a patient.
type Medication struct {
	ID        string
	PatientID string
	Name      string
	Dose      *string
	Route     *string
	Frequency *string
	StartedAt *time.Time
	StoppedAt *time.Time
}

// Vital is a single vital-signs observation.
type Vital struct {
	ID          string
	PatientID   string
	Kind        string
	Value       float64
	Unit        string
	RecordedAt  time.Time
	RecordedBy  *string
	EncounterID *string
}

// ClinicalNote is a free-text note attached to an encounter.
type ClinicalNote struct {
	ID          string
	PatientID   string
	EncounterID *string
	Author      *string
	Body        string
	CreatedAt   time.Time
}
