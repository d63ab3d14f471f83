package consultation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const consultCols = `id, appointment_id, doctor_id, patient_id, status, started_at, ended_at,
	symptoms, diagnosis, treatment, prescription, notes, documents, documents_version,
	created_at, updated_at`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	var docs []byte
	err := row.Scan(&c.ID, &c.AppointmentID, &c.DoctorID, &c.PatientID, &c.Status,
		&c.StartedAt, &c.EndedAt,
		&c.Symptoms, &c.Diagnosis, &c.Treatment, &c.Prescription, &c.Notes,
		&docs, &c.DocumentsVersion, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &c.Documents); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
	}
	if c.Documents == nil {
		c.Documents = []Document{}
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	if c.Documents == nil {
		c.Documents = []Document{}
	}
	docs, err := json.Marshal(c.Documents)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO consultations (id, appointment_id, doctor_id, patient_id, status, started_at, documents)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.AppointmentID, c.DoctorID, c.PatientID, c.Status, c.StartedAt, docs)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return scanConsultation(r.pool.QueryRow(ctx,
		`SELECT `+consultCols+` FROM consultations WHERE id = $1`, id))
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Consultation, error) {
	return scanConsultation(r.pool.QueryRow(ctx,
		`SELECT `+consultCols+` FROM consultations WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) Update(ctx context.Context, c *Consultation) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE consultations SET status=$2, ended_at=$3, symptoms=$4, diagnosis=$5,
			treatment=$6, prescription=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Status, c.EndedAt, c.Symptoms, c.Diagnosis, c.Treatment, c.Prescription, c.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateDocuments(ctx context.Context, id uuid.UUID, docs []Document, expectedVersion int) (*Consultation, error) {
	if docs == nil {
		docs = []Document{}
	}
	encoded, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode documents: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE consultations SET documents=$2, documents_version=documents_version+1, updated_at=NOW()
		WHERE id = $1 AND documents_version = $3
		RETURNING `+consultCols,
		id, encoded, expectedVersion)

	c, err := scanConsultation(row)
	if errors.Is(err, ErrNotFound) {
		// Row missing or version stale. Distinguish by re-reading.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVersionConflict
	}
	return c, err
}

func (r *repoPG) Detail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT c.id, c.appointment_id, c.doctor_id, c.patient_id, c.status, c.started_at, c.ended_at,
			c.symptoms, c.diagnosis, c.treatment, c.prescription, c.notes, c.documents, c.documents_version,
			c.created_at, c.updated_at,
			p.name, p.email, p.phone, d.name
		FROM consultations c
		JOIN users p ON p.id = c.patient_id
		JOIN users d ON d.id = c.doctor_id
		WHERE c.id = $1`, id)

	var det Detail
	var docs []byte
	err := row.Scan(&det.ID, &det.AppointmentID, &det.DoctorID, &det.PatientID, &det.Status,
		&det.StartedAt, &det.EndedAt,
		&det.Symptoms, &det.Diagnosis, &det.Treatment, &det.Prescription, &det.Notes,
		&docs, &det.DocumentsVersion, &det.CreatedAt, &det.UpdatedAt,
		&det.PatientName, &det.PatientEmail, &det.PatientPhone, &det.DoctorName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &det.Documents); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
	}
	if det.Documents == nil {
		det.Documents = []Document{}
	}
	return &det, nil
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error) {
	query := `SELECT ` + consultCols + ` FROM consultations WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM consultations WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["doctor_id"]; ok {
		query += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY started_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
