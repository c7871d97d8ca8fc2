package readstore

import (
	"context"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/infra/repository"
)

type ResourceReadStore struct {
	dbtx db.DBTX
}

func NewResourceReadStore(dbtx db.DBTX) *ResourceReadStore {
	return &ResourceReadStore{dbtx: dbtx}
}

func (s *ResourceReadStore) Find(ctx context.Context, planningPeriod, externalID string) (*canonical.Resource, error) {
	r, err := repository.FindResource(ctx, s.dbtx, planningPeriod, externalID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, infra.NewRepoErr(infra.KindNotFound, "resource not found")
	}
	return r, nil
}
