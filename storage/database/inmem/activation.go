package inmemdb

import (
	"context"
	"sort"

	"github.com/shulepay/shulepay/core/activation"
)

type activationRepository struct {
	db *DB
}

var _ activation.Repository = (*activationRepository)(nil)

func NewActivationRepository(db *DB) *activationRepository {
	return &activationRepository{db: db}
}

func (repo *activationRepository) CreateCode(ctx context.Context, code activation.Code) (activation.Code, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.codes[code.Code]; ok {
		return activation.Code{}, activation.ErrCodeExists
	}
	repo.db.codes[code.Code] = &code
	return code, nil
}

func (repo *activationRepository) GetCode(ctx context.Context, code string) (activation.Code, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cd, ok := repo.db.codes[code]; ok {
		return *cd, nil
	}
	return activation.Code{}, activation.ErrNotFound
}

func (repo *activationRepository) QueryAllCodes(ctx context.Context) ([]activation.Code, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	codes := make([]activation.Code, 0, len(repo.db.codes))
	for _, cd := range repo.db.codes {
		codes = append(codes, *cd)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].CreatedAt.Before(codes[j].CreatedAt) })
	return codes, nil
}
