package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes the account view returned by the API.
type UserSummary struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   *string   `json:"full_name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// RegisterResponse contains the created account.
type RegisterResponse struct {
	User UserSummary `json:"user"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes a successful login. The session token itself
// travels only in the Set-Cookie header.
type LoginResponse struct {
	User UserSummary `json:"user"`
}

// ForgotPasswordRequest initiates a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// SessionPayload describes a session view in API responses.
type SessionPayload struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IP        *string   `json:"ip,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
}

// SessionListResponse wraps a list of active sessions for a user.
type SessionListResponse struct {
	Sessions []SessionPayload `json:"sessions"`
	Total    int              `json:"total"`
}

// PatientProfile is the demographics view returned by the patient endpoints.
type PatientProfile struct {
	ID           string     `json:"id"`
	MRN          *string    `json:"mrn,omitempty"`
	FirstName    string     `json:"first_name"`
	MiddleName   *string    `json:"middle_name,omitempty"`
	LastName     string     `json:"last_name"`
	DateOfBirth  *string    `json:"date_of_birth,omitempty"`
	Sex          *string    `json:"sex,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	AddressLine1 *string    `json:"address_line1,omitempty"`
	AddressLine2 *string    `json:"address_line2,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	PostalCode   *string    `json:"postal_code,omitempty"`
	CountryCode  *string    `json:"country_code,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PatientCreateRequest creates and links a patient record for the caller.
type PatientCreateRequest struct {
	FirstName   string  `json:"first_name" binding:"required"`
	MiddleName  *string `json:"middle_name,omitempty"`
	LastName    string  `json:"last_name" binding:"required"`
	DateOfBirth string  `json:"date_of_birth" binding:"required"`
	Sex         *string `json:"sex,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// PatientUpdateRequest carries a partial demographics update.
type PatientUpdateRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	MiddleName   *string `json:"middle_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Sex          *string `json:"sex,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	CountryCode  *string `json:"country_code,omitempty"`
}

// AllergyPayload describes a recorded allergy.
type AllergyPayload struct {
	ID         string    `json:"id"`
	Substance  string    `json:"substance"`
	Reaction   *string   `json:"reaction,omitempty"`
	Severity   *string   `json:"severity,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// MedicationPayload describes a medication entry.
type MedicationPayload struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Dose      *string    `json:"dose,omitempty"`
	Route     *string    `json:"route,omitempty"`
	Frequency *string    `json:"frequency,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
}

// VitalPayload describes a vital-signs observation.
type VitalPayload struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	RecordedAt time.Time `json:"recorded_at"`
	RecordedBy *string   `json:"recorded_by,omitempty"`
}

// RecordVitalRequest captures a new vital-signs observation.
type RecordVitalRequest struct {
	Kind  string  `json:"kind" binding:"required"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit" binding:"required"`
}

// NotePayload describes a clinical note.
type NotePayload struct {
	ID        string    `json:"id"`
	Author    *string   `json:"author,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSendRequest carries a chat message and optional structured tool arguments.
type ChatSendRequest struct {
	Message string         `json:"message"`
	Args    map[string]any `json:"args,omitempty"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// newUserSummary converts a domain user to a summary suitable for API responses.
func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Phone:      user.Phone,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

// newSessionPayload converts a domain session to an API session payload.
func newSessionPayload(session domain.Session) SessionPayload {
	return SessionPayload{
		ID:        session.ID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
		IP:        session.IP,
		UserAgent: session.UserAgent,
	}
}

const dateLayout = "2006-01-02"

// newPatientProfile converts a domain patient to the API representation.
func newPatientProfile(p domain.Patient) PatientProfile {
	profile := PatientProfile{
		ID:           p.ID,
		MRN:          p.MRN,
		FirstName:    p.FirstName,
		MiddleName:   p.MiddleName,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		State:        p.State,
		PostalCode:   p.PostalCode,
		CountryCode:  p.CountryCode,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(dateLayout)
		profile.DateOfBirth = &dob
	}
	if p.Sex != nil {
		sex := string(*p.Sex)
		profile.Sex = &sex
	}

	return profile
}

func newAllergyPayload(a domain.Allergy) AllergyPayload {
	return AllergyPayload{
		ID:         a.ID,
		Substance:  a.Substance,
		Reaction:   a.Reaction,
		Severity:   a.Severity,
		RecordedAt: a.RecordedAt,
	}
}

func newMedicationPayload(m domain.Medication) MedicationPayload {
	return MedicationPayload{
		ID:        m.ID,
		Name:      m.Name,
		Dose:      m.Dose,
		Route:     m.Route,
		Frequency: m.Frequency,
		StartedAt: m.StartedAt,
		StoppedAt: m.StoppedAt,
	}
}

func newVitalPayload(v domain.Vital) VitalPayload {
	return VitalPayload{
		ID:         v.ID,
		Kind:       v.Kind,
		Value:      v.Value,
		Unit:       v.Unit,
		RecordedAt: v.RecordedAt,
		RecordedBy: v.RecordedBy,
	}
}

func newNotePayload(n domain.ClinicalNote) NotePayload {
	return NotePayload{
		ID:        n.ID,
		Author:    n.Author,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}
