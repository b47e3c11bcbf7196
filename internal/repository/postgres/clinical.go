package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
)

// ClinicalRepository implements port.ClinicalRepository backed by PostgreSQL.
type ClinicalRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewClinicalRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewClinicalRepository(exec pgExecutor) *ClinicalRepository {
	repo := &ClinicalRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// ListAllergies returns known allergies for the patient, newest first.
func (r *ClinicalRepository) ListAllergies(ctx context.Context, patientID string) ([]domain.Allergy, error) {
	stmt, args, err := r.builder.
		Select("id", "patient_id", "substance", "reaction", "severity", "recorded_at").
		From("allergies").
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("recorded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list allergies sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query allergies: %w", err)
	}
	defer rows.Close()

	var allergies []domain.Allergy
	for rows.Next() {
		var allergy domain.Allergy
		if err := rows.Scan(
			&allergy.ID,
			&allergy.PatientID,
			&allergy.Substance,
			&allergy.Reaction,
			&allergy.Severity,
			&allergy.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan allergy: %w", err)
		}
		allergies = append(allergies, allergy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allergies: %w", err)
	}

	return allergies, nil
}

// ListMedications returns medications for the patient, most recently started first.
func (r *ClinicalRepository) ListMedications(ctx context.Context, patientID string) ([]domain.Medication, error) {
	stmt, args, err := r.builder.
		Select("id", "patient_id", "name", "dose", "route", "frequency", "started_at", "stopped_at").
		From("medications").
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("started_at DESC NULLS LAST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list medications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query medications: %w", err)
	}
	defer rows.Close()

	var medications []domain.Medication
	for rows.Next() {
		var medication domain.Medication
		if err := rows.Scan(
			&medication.ID,
			&medication.PatientID,
			&medication.Name,
			&medication.Dose,
			&medication.Route,
			&medication.Frequency,
			&medication.StartedAt,
			&medication.StoppedAt,
		); err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		medications = append(medications, medication)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate medications: %w", err)
	}

	return medications, nil
}

// ListVitals returns the most recent vital observations for the patient.
func (r *ClinicalRepository) ListVitals(ctx context.Context, patientID string, limit int) ([]domain.Vital, error) {
	query := r.builder.
		Select("id", "patient_id", "kind", "value", "unit", "recorded_at", "recorded_by", "encounter_id").
		From("vitals").
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list vitals sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query vitals: %w", err)
	}
	defer rows.Close()

	var vitals []domain.Vital
	for rows.Next() {
		var vital domain.Vital
		if err := rows.Scan(
			&vital.ID,
			&vital.PatientID,
			&vital.Kind,
			&vital.Value,
			&vital.Unit,
			&vital.RecordedAt,
			&vital.RecordedBy,
			&vital.EncounterID,
		); err != nil {
			return nil, fmt.Errorf("scan vital: %w", err)
		}
		vitals = append(vitals, vital)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vitals: %w", err)
	}

	return vitals, nil
}

// AddVital records a new vital observation.
func (r *ClinicalRepository) AddVital(ctx context.Context, vital domain.Vital) error {
	stmt, args, err := r.builder.Insert("vitals").
		Columns("id", "patient_id", "kind", "value", "unit", "recorded_at", "recorded_by", "encounter_id").
		Values(
			vital.ID,
			vital.PatientID,
			vital.Kind,
			vital.Value,
			vital.Unit,
			vital.RecordedAt,
			vital.RecordedBy,
			vital.EncounterID,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert vital sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert vital: %w", err)
	}

	return nil
}

// ListNotes returns the most recent clinical notes for the patient.
func (r *ClinicalRepository) ListNotes(ctx context.Context, patientID string, limit int) ([]domain.ClinicalNote, error) {
	query := r.builder.
		Select("id", "patient_id", "encounter_id", "author", "body", "created_at").
		From("clinical_notes").
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.ClinicalNote
	for rows.Next() {
		var note domain.ClinicalNote
		if err := rows.Scan(
			&note.ID,
			&note.PatientID,
			&note.EncounterID,
			&note.Author,
			&note.Body,
			&note.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

var _ port.ClinicalRepository = (*ClinicalRepository)(nil)
