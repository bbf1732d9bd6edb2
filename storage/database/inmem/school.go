package inmemdb

import (
	"context"
	"sort"

	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) GetSchoolByName(ctx context.Context, name string) (school.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sch, ok := repo.db.schools[name]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	schools := make([]school.School, 0, len(repo.db.schools))
	for _, sch := range repo.db.schools {
		schools = append(schools, *sch)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].Name < schools[j].Name })
	return schools, nil
}

func (repo *schoolRepository) CheckNameUniqueness(ctx context.Context, name string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.schools[name]; ok {
		return school.ErrNameTaken
	}
	return nil
}

func (repo *schoolRepository) RegisterSchool(ctx context.Context, sch school.School, code string) (school.School, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cd, ok := repo.db.codes[code]
	if !ok {
		return school.School{}, activation.ErrNotFound
	}
	if cd.Used {
		return school.School{}, activation.ErrUsed
	}
	if _, ok := repo.db.schools[sch.Name]; ok {
		return school.School{}, school.ErrNameTaken
	}

	cd.Used = true
	repo.db.schools[sch.Name] = &sch
	return sch, nil
}
