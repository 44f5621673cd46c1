package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/claims-service/internal/domain"
)

// ClaimRepository defines persistence access for claims. Every operation runs
// a single parameterized statement; connections come and go through the pool.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id int64) (*domain.Claim, error)
	List(ctx context.Context, filter domain.ClaimFilter) ([]domain.Claim, error)
	Exists(ctx context.Context, id int64) (bool, error)
	UpdateStatus(ctx context.Context, statusCode int, id int64) error
	Delete(ctx context.Context, id int64) error
	AggregateByStatus(ctx context.Context, statusCode int) ([]domain.ClaimAggregate, error)
}

type claimRepository struct {
	pool *pgxpool.Pool
}

// NewClaimRepository returns a Postgres-backed implementation.
func NewClaimRepository(pool *pgxpool.Pool) ClaimRepository {
	return &claimRepository{pool: pool}
}

func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	const query = `
        INSERT INTO claims (patient_name, diagnosis_code, procedure_code, claim_amount)
        VALUES ($1, $2, $3, $4)
        RETURNING id, status, submitted_at`

	return r.pool.QueryRow(ctx, query,
		claim.PatientName,
		claim.DiagnosisCode,
		claim.ProcedureCode,
		claim.ClaimAmount,
	).Scan(&claim.ID, &claim.Status, &claim.SubmittedAt)
}

func (r *claimRepository) GetByID(ctx context.Context, id int64) (*domain.Claim, error) {
	const query = `
        SELECT id, patient_name, diagnosis_code, procedure_code, claim_amount, status, submitted_at
        FROM claims WHERE id=$1`

	var claim domain.Claim
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&claim.ID,
		&claim.PatientName,
		&claim.DiagnosisCode,
		&claim.ProcedureCode,
		&claim.ClaimAmount,
		&claim.Status,
		&claim.SubmittedAt,
	); err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) List(ctx context.Context, filter domain.ClaimFilter) ([]domain.Claim, error) {
	const query = `
        SELECT id, patient_name, diagnosis_code, procedure_code, claim_amount, status, submitted_at
        FROM claims
        WHERE ($1::int IS NULL OR diagnosis_code = $1)
          AND ($2::int IS NULL OR procedure_code = $2)
          AND ($3::int IS NULL OR status = $3)
        ORDER BY id
        LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, query,
		filter.DiagnosisCode,
		filter.ProcedureCode,
		filter.Status,
		filter.PerPage,
		filter.Offset(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := make([]domain.Claim, 0)
	for rows.Next() {
		var claim domain.Claim
		if err := rows.Scan(
			&claim.ID,
			&claim.PatientName,
			&claim.DiagnosisCode,
			&claim.ProcedureCode,
			&claim.ClaimAmount,
			&claim.Status,
			&claim.SubmittedAt,
		); err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

func (r *claimRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM claims WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatus updates unconditionally by id; a missing row is not an error.
func (r *claimRepository) UpdateStatus(ctx context.Context, statusCode int, id int64) error {
	const query = `UPDATE claims SET status=$1 WHERE id=$2`

	_, err := r.pool.Exec(ctx, query, statusCode, id)
	return err
}

// Delete verifies the claim exists before deleting and returns pgx.ErrNoRows
// when it does not.
func (r *claimRepository) Delete(ctx context.Context, id int64) error {
	exists, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}

	_, err = r.pool.Exec(ctx, `DELETE FROM claims WHERE id=$1`, id)
	return err
}

func (r *claimRepository) AggregateByStatus(ctx context.Context, statusCode int) ([]domain.ClaimAggregate, error) {
	const query = `
        SELECT patient_name, diagnosis_code, procedure_code, status, SUM(claim_amount)::float8 AS total_claim_amount
        FROM claims
        WHERE status = $1
        GROUP BY patient_name, diagnosis_code, procedure_code, status
        ORDER BY patient_name, diagnosis_code, procedure_code`

	rows, err := r.pool.Query(ctx, query, statusCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]domain.ClaimAggregate, 0)
	for rows.Next() {
		var agg domain.ClaimAggregate
		if err := rows.Scan(
			&agg.PatientName,
			&agg.DiagnosisCode,
			&agg.ProcedureCode,
			&agg.Status,
			&agg.TotalAmount,
		); err != nil {
			return nil, err
		}
		groups = append(groups, agg)
	}
	return groups, rows.Err()
}
