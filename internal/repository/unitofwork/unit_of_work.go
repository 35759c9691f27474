package unitofwork

import (
	"context"

	"gymflow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AiRecentRepository() contract.AiRecentRepository
	UserToolPreferenceRepository() contract.UserToolPreferenceRepository
}
