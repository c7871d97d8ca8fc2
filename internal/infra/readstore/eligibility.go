package readstore

import (
	"context"

	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/infra/repository"
	"enrollment-sync/internal/usecase/queries"
)

type EligibilityReadStore struct {
	repo *repository.EligibilityRepository
}

func NewEligibilityReadStore(dbtx db.DBTX) *EligibilityReadStore {
	return &EligibilityReadStore{repo: repository.NewEligibilityRepository(dbtx)}
}

func (s *EligibilityReadStore) Find(ctx context.Context, planningPeriod, externalID string) (*queries.EligibilityView, error) {
	snap, err := s.repo.Find(ctx, planningPeriod, externalID)
	if err != nil || snap == nil {
		return nil, err
	}
	conds := snap.BlockingConditions
	if conds == nil {
		conds = []string{}
	}
	updated := snap.UpdatedAt
	return &queries.EligibilityView{
		PlanningPeriod:     snap.PlanningPeriod,
		ExternalID:         snap.ExternalID,
		CanWithdraw:        snap.Allowed,
		Reason:             snap.Reason,
		BlockingConditions: conds,
		UpdatedAt:          &updated,
	}, nil
}
