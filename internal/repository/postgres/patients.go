package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/core/port"
	"github.com/ruslanmv/medical-ai-hospital/internal/repository"
)

var patientColumns = []string{
	"id",
	"mrn",
	"first_name",
	"middle_name",
	"last_name",
	"date_of_birth",
	"sex",
	"email",
	"phone",
	"address_line1",
	"address_line2",
	"city",
	"state",
	"postal_code",
	"country_code",
	"created_at",
	"updated_at",
}

// PatientRepository implements port.PatientRepository backed by PostgreSQL.
type PatientRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPatientRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewPatientRepository(exec pgExecutor) *PatientRepository {
	repo := &PatientRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// PatientIDForUser resolves the patient linked to the user via patient_users.
// When multiple links exist the earliest one wins.
func (r *PatientRepository) PatientIDForUser(ctx context.Context, userID string) (string, error) {
	stmt, args, err := r.builder.
		Select("patient_id").
		From("patient_users").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("linked_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select patient link sql: %w", err)
	}

	var patientID string
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&patientID); err != nil {
		if err == pgx.ErrNoRows {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("scan patient link: %w", err)
	}

	return patientID, nil
}

// GetByID retrieves a patient record.
func (r *PatientRepository) GetByID(ctx context.Context, patientID string) (*domain.Patient, error) {
	stmt, args, err := r.builder.
		Select(patientColumns...).
		From("patients").
		Where(squirrel.Eq{"id": patientID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select patient sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		patient     domain.Patient
		mrn         sql.NullString
		middleName  sql.NullString
		dateOfBirth *time.Time
		sex         sql.NullString
		email       sql.NullString
		phone       sql.NullString
		addr1       sql.NullString
		addr2       sql.NullString
		city        sql.NullString
		state       sql.NullString
		postalCode  sql.NullString
		countryCode sql.NullString
	)

	if err := row.Scan(
		&patient.ID,
		&mrn,
		&patient.FirstName,
		&middleName,
		&patient.LastName,
		&dateOfBirth,
		&sex,
		&email,
		&phone,
		&addr1,
		&addr2,
		&city,
		&state,
		&postalCode,
		&countryCode,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan patient: %w", err)
	}

	patient.MRN = nullStringPtr(mrn)
	patient.MiddleName = nullStringPtr(middleName)
	patient.DateOfBirth = dateOfBirth
	if sex.Valid {
		val := domain.PatientSex(sex.String)
		patient.Sex = &val
	}
	patient.Email = nullStringPtr(email)
	patient.Phone = nullStringPtr(phone)
	patient.AddressLine1 = nullStringPtr(addr1)
	patient.AddressLine2 = nullStringPtr(addr2)
	patient.City = nullStringPtr(city)
	patient.State = nullStringPtr(state)
	patient.PostalCode = nullStringPtr(postalCode)
	patient.CountryCode = nullStringPtr(countryCode)

	return &patient, nil
}

// Update applies a partial demographics update. Nil fields are skipped; an
// update with no populated fields is a no-op.
func (r *PatientRepository) Update(ctx context.Context, patientID string, update domain.PatientUpdate) error {
	assignments := map[string]any{}
	setString := func(col string, val *string) {
		if val != nil {
			assignments[col] = *val
		}
	}

	setString("first_name", update.FirstName)
	setString("middle_name", update.MiddleName)
	setString("last_name", update.LastName)
	setString("email", update.Email)
	setString("phone", update.Phone)
	setString("address_line1", update.AddressLine1)
	setString("address_line2", update.AddressLine2)
	setString("city", update.City)
	setString("state", update.State)
	setString("postal_code", update.PostalCode)
	setString("country_code", update.CountryCode)
	if update.DateOfBirth != nil {
		assignments["date_of_birth"] = *update.DateOfBirth
	}
	if update.Sex != nil {
		assignments["sex"] = string(*update.Sex)
	}

	if len(assignments) == 0 {
		return nil
	}

	assignments["updated_at"] = time.Now().UTC()

	stmt, args, err := r.builder.Update("patients").
		SetMap(assignments).
		Where(squirrel.Eq{"id": patientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update patient sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CreateAndLink inserts a patient record and links the user as its owner.
// The link insert is idempotent on (patient_id, user_id).
func (r *PatientRepository) CreateAndLink(ctx context.Context, userID string, patient domain.Patient) (string, error) {
	stmt, args, err := r.builder.Insert("patients").
		Columns(patientColumns...).
		Values(
			patient.ID,
			patient.MRN,
			patient.FirstName,
			patient.MiddleName,
			patient.LastName,
			patient.DateOfBirth,
			patient.Sex,
			patient.Email,
			patient.Phone,
			patient.AddressLine1,
			patient.AddressLine2,
			patient.City,
			patient.State,
			patient.PostalCode,
			patient.CountryCode,
			patient.CreatedAt,
			patient.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert patient sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return "", fmt.Errorf("insert patient: %w", err)
	}

	linkStmt, linkArgs, err := r.builder.Insert("patient_users").
		Columns("patient_id", "user_id", "role", "linked_at").
		Values(patient.ID, userID, "OWNER", patient.CreatedAt).
		Suffix("ON CONFLICT (patient_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert patient link sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, linkStmt, linkArgs...); err != nil {
		return "", fmt.Errorf("insert patient link: %w", err)
	}

	return patient.ID, nil
}

func nullStringPtr(val sql.NullString) *string {
	if !val.Valid {
		return nil
	}
	out := val.String
	return &out
}

var _ port.PatientRepository = (*PatientRepository)(nil)
