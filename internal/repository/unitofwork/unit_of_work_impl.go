package unitofwork

import (
	"context"
	"fmt"

	"gymflow-be/internal/repository/contract"
	"gymflow-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db  *gorm.DB
	tx  *gorm.DB // set between Begin and Commit/Rollback
	ctx context.Context
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	u.ctx = ctx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	// A cancelled context has already doomed the transaction; report why instead of ErrTxDone.
	if err := u.ctx.Err(); err != nil {
		u.tx.Rollback()
		u.tx = nil
		return err
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is a no-op once the transaction is committed, so it can always be deferred.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) OwnerRepository() contract.OwnerRepository {
	return implementation.NewOwnerRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PlanRepository() contract.PlanRepository {
	return implementation.NewPlanRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MemberRepository() contract.MemberRepository {
	return implementation.NewMemberRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RenewalRepository() contract.RenewalRepository {
	return implementation.NewRenewalRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CheckinRepository() contract.CheckinRepository {
	return implementation.NewCheckinRepository(u.getDB())
}
