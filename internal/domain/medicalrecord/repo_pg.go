package medicalrecord

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const recordCols = `id, patient_id, doctor_id, consultation_id, date, diagnosis, treatment, prescription, notes, created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.ConsultationID, &rec.Date,
		&rec.Diagnosis, &rec.Treatment, &rec.Prescription, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medical_records (id, patient_id, doctor_id, consultation_id, date, diagnosis, treatment, prescription, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.ConsultationID, rec.Date,
		rec.Diagnosis, rec.Treatment, rec.Prescription, rec.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordCols+` FROM medical_records WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE medical_records SET date=$2, diagnosis=$3, treatment=$4, prescription=$5, notes=$6, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.Date, rec.Diagnosis, rec.Treatment, rec.Prescription, rec.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medical_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordCols+` FROM medical_records WHERE patient_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}
