package inmemdb

import (
	"context"

	"github.com/shulepay/shulepay/core/parent"
)

type parentRepository struct {
	db *DB
}

var _ parent.Repository = (*parentRepository)(nil)

func NewParentRepository(db *DB) *parentRepository {
	return &parentRepository{db: db}
}

func (repo *parentRepository) CreateParent(ctx context.Context, prt parent.Parent) (parent.Parent, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, p := range repo.db.parents {
		if p.Email == prt.Email {
			return parent.Parent{}, parent.ErrEmailExists
		}
	}
	repo.db.parents[prt.ID] = &prt
	return prt, nil
}

func (repo *parentRepository) GetParentByID(ctx context.Context, id string) (parent.Parent, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prt, ok := repo.db.parents[id]; ok {
		return *prt, nil
	}
	return parent.Parent{}, parent.ErrNotFound
}

func (repo *parentRepository) GetParentByEmail(ctx context.Context, email string) (parent.Parent, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prt := range repo.db.parents {
		if prt.Email == email {
			return *prt, nil
		}
	}
	return parent.Parent{}, parent.ErrNotFound
}

func (repo *parentRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prt := range repo.db.parents {
		if prt.Email == email {
			return parent.ErrEmailExists
		}
	}
	return nil
}
