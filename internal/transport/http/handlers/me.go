package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/transport/http/middleware"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

const defaultListLimit = 50

// MeHandler exposes the patient profile and clinical record endpoints, all
// scoped to the authenticated user's linked patient.
type MeHandler struct {
	patients *usecase.PatientService
}

// NewMeHandler constructs MeHandler.
func NewMeHandler(patients *usecase.PatientService) *MeHandler {
	return &MeHandler{patients: patients}
}

// RegisterRoutes binds the patient-scoped routes. The group must already
// carry the session authentication middleware.
func (h *MeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.account)
	r.GET("/patient", h.patientProfile)
	r.POST("/patient", h.createPatient)
	r.PUT("/patient", h.updatePatient)
	r.GET("/allergies", h.allergies)
	r.GET("/medications", h.medications)
	r.GET("/vitals", h.vitals)
	r.POST("/vitals", h.recordVital)
	r.GET("/notes", h.notes)
}

func (h *MeHandler) account(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	c.JSON(http.StatusOK, newUserSummary(*user))
}

// patientProfile returns null when no patient record is linked yet, matching
// the behaviour clients rely on to trigger profile creation.
func (h *MeHandler) patientProfile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	patient, err := h.patients.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientNotLinked) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load patient profile"))
		return
	}

	c.JSON(http.StatusOK, newPatientProfile(*patient))
}

func (h *MeHandler) createPatient(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	var req PatientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid patient payload"))
		return
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "date_of_birth must be YYYY-MM-DD"))
		return
	}

	patient := domain.Patient{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		DateOfBirth: &dob,
		Phone:       req.Phone,
	}
	if req.Sex != nil {
		sex := domain.PatientSex(*req.Sex)
		patient.Sex = &sex
	}

	patientID, err := h.patients.CreateProfile(c.Request.Context(), userID, patient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create patient profile"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": patientID})
}

func (h *MeHandler) updatePatient(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	var req PatientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid patient payload"))
		return
	}

	update := domain.PatientUpdate{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		CountryCode:  req.CountryCode,
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "date_of_birth must be YYYY-MM-DD"))
			return
		}
		update.DateOfBirth = &dob
	}
	if req.Sex != nil {
		sex := domain.PatientSex(*req.Sex)
		update.Sex = &sex
	}

	if err := h.patients.UpdateProfile(c.Request.Context(), userID, update); err != nil {
		if errors.Is(err, usecase.ErrPatientNotLinked) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "patient not linked"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to update patient profile"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "patient updated"})
}

func (h *MeHandler) allergies(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	allergies, err := h.patients.Allergies(c.Request.Context(), userID)
	if err != nil {
		h.respondClinicalError(c, err, "failed to list allergies")
		return
	}

	payload := make([]AllergyPayload, 0, len(allergies))
	for _, a := range allergies {
		payload = append(payload, newAllergyPayload(a))
	}

	c.JSON(http.StatusOK, payload)
}

func (h *MeHandler) medications(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	medications, err := h.patients.Medications(c.Request.Context(), userID)
	if err != nil {
		h.respondClinicalError(c, err, "failed to list medications")
		return
	}

	payload := make([]MedicationPayload, 0, len(medications))
	for _, m := range medications {
		payload = append(payload, newMedicationPayload(m))
	}

	c.JSON(http.StatusOK, payload)
}

func (h *MeHandler) vitals(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	vitals, err := h.patients.Vitals(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		h.respondClinicalError(c, err, "failed to list vitals")
		return
	}

	payload := make([]VitalPayload, 0, len(vitals))
	for _, v := range vitals {
		payload = append(payload, newVitalPayload(v))
	}

	c.JSON(http.StatusOK, payload)
}

func (h *MeHandler) recordVital(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	var req RecordVitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid vital payload"))
		return
	}

	vital, err := h.patients.RecordVital(c.Request.Context(), userID, domain.Vital{
		Kind:  req.Kind,
		Value: req.Value,
		Unit:  req.Unit,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPatientNotLinked) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "patient not linked"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to record vital"))
		return
	}

	c.JSON(http.StatusCreated, newVitalPayload(*vital))
}

func (h *MeHandler) notes(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	notes, err := h.patients.Notes(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		h.respondClinicalError(c, err, "failed to list notes")
		return
	}

	payload := make([]NotePayload, 0, len(notes))
	for _, n := range notes {
		payload = append(payload, newNotePayload(n))
	}

	c.JSON(http.StatusOK, payload)
}

func (h *MeHandler) respondClinicalError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, usecase.ErrPatientNotLinked) {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "patient not linked"))
		return
	}
	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, fallback))
}

func listLimit(c *gin.Context) int {
	raw := c.DefaultQuery("limit", "")
	if raw == "" {
		return defaultListLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 500 {
		return defaultListLimit
	}

	return limit
}
