package unitofwork

import (
	"context"

	"gymflow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OwnerRepository() contract.OwnerRepository
	PlanRepository() contract.PlanRepository
	MemberRepository() contract.MemberRepository
	RenewalRepository() contract.RenewalRepository
	CheckinRepository() contract.CheckinRepository
}
