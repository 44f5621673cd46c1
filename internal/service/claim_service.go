package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/repository"
)

// ClaimService wraps claim persistence with logging. Input validation happens
// at the HTTP layer before any of these methods run.
type ClaimService struct {
	claims repository.ClaimRepository
	logger *zap.Logger
}

// NewClaimService builds the service.
func NewClaimService(claims repository.ClaimRepository, logger *zap.Logger) *ClaimService {
	return &ClaimService{claims: claims, logger: logger}
}

// Add inserts a new claim; status defaults to DENIED and the submission
// timestamp is assigned by the database.
func (s *ClaimService) Add(ctx context.Context, patient string, diagnosis, procedure int, amount float64) (*domain.Claim, error) {
	claim := &domain.Claim{
		PatientName:   patient,
		DiagnosisCode: diagnosis,
		ProcedureCode: procedure,
		ClaimAmount:   amount,
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		s.logger.Error("add claim", zap.Error(err))
		return nil, err
	}
	s.logger.Info("claim added", zap.Int64("claim_id", claim.ID))
	return claim, nil
}

// Get retrieves a single claim by id.
func (s *ClaimService) Get(ctx context.Context, id int64) (*domain.Claim, error) {
	return s.claims.GetByID(ctx, id)
}

// List returns claims matching the filter, paginated.
func (s *ClaimService) List(ctx context.Context, filter domain.ClaimFilter) ([]domain.Claim, error) {
	return s.claims.List(ctx, filter)
}

// UpdateStatus sets the status code by id. The update is unconditional: an
// unknown id is reported as success, while Delete checks existence first.
// The asymmetry is inherited behavior, kept on purpose.
func (s *ClaimService) UpdateStatus(ctx context.Context, id int64, statusCode int) error {
	if err := s.claims.UpdateStatus(ctx, statusCode, id); err != nil {
		s.logger.Error("update claim status", zap.Int64("claim_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("claim status updated", zap.Int64("claim_id", id), zap.Int("status", statusCode))
	return nil
}

// Delete removes a claim by id; missing claims yield pgx.ErrNoRows from the
// repository.
func (s *ClaimService) Delete(ctx context.Context, id int64) error {
	if err := s.claims.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("claim deleted", zap.Int64("claim_id", id))
	return nil
}
