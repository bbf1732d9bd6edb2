package inmemdb

import (
	"context"
	"sort"

	"github.com/shulepay/shulepay/core/tenant"
)

type tenantRepository struct {
	db *DB
}

var _ tenant.Repository = (*tenantRepository)(nil)

func NewTenantRepository(db *DB) *tenantRepository {
	return &tenantRepository{db: db}
}

func (repo *tenantRepository) QueryStudents(ctx context.Context, schoolName string) ([]tenant.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]tenant.Student, 0)
	for _, std := range repo.db.students {
		if std.SchoolName == schoolName {
			students = append(students, *std)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *tenantRepository) GetStudent(ctx context.Context, schoolName, id string) (tenant.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok && std.SchoolName == schoolName {
		return *std, nil
	}
	return tenant.Student{}, tenant.ErrStudentNotFound
}

func (repo *tenantRepository) CreateStudent(ctx context.Context, std tenant.Student) (tenant.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.studentSeq++
	std.ID = tenant.StudentID(repo.db.studentSeq)
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *tenantRepository) QueryPayments(ctx context.Context, schoolName string) ([]tenant.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	payments := make([]tenant.Payment, 0)
	for _, pmt := range repo.db.payments {
		if pmt.SchoolName == schoolName {
			payments = append(payments, *pmt)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

func (repo *tenantRepository) CreatePayment(ctx context.Context, pmt tenant.Payment, newAmountPaid float64) (tenant.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std, ok := repo.db.students[pmt.StudentID]
	if !ok || std.SchoolName != pmt.SchoolName {
		return tenant.Payment{}, tenant.ErrStudentNotFound
	}

	repo.db.paymentSeq++
	pmt.ID = tenant.PaymentID(repo.db.paymentSeq)
	repo.db.payments[pmt.ID] = &pmt
	std.AmountPaid = newAmountPaid
	return pmt, nil
}

func (repo *tenantRepository) QueryClassFees(ctx context.Context, schoolName string) ([]tenant.ClassFee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]tenant.ClassFee, 0)
	for _, cf := range repo.db.classFees {
		if cf.SchoolName == schoolName {
			classes = append(classes, *cf)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *tenantRepository) GetClassFee(ctx context.Context, schoolName, name string) (tenant.ClassFee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cf, ok := repo.db.classFees[classKey(schoolName, name)]; ok {
		return *cf, nil
	}
	return tenant.ClassFee{}, tenant.ErrClassNotFound
}

func (repo *tenantRepository) CreateClassFee(ctx context.Context, cf tenant.ClassFee) (tenant.ClassFee, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := classKey(cf.SchoolName, cf.Name)
	if _, ok := repo.db.classFees[key]; ok {
		return tenant.ClassFee{}, tenant.ErrClassExists
	}
	repo.db.classFees[key] = &cf
	return cf, nil
}

func (repo *tenantRepository) UpdateClassFee(ctx context.Context, schoolName, oldName, newName string, fee float64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	oldKey := classKey(schoolName, oldName)
	cf, ok := repo.db.classFees[oldKey]
	if !ok {
		return tenant.ErrClassNotFound
	}

	if oldName != newName {
		newKey := classKey(schoolName, newName)
		if _, ok := repo.db.classFees[newKey]; ok {
			return tenant.ErrClassExists
		}
		delete(repo.db.classFees, oldKey)
		cf.Name = newName
		repo.db.classFees[newKey] = cf

		for _, std := range repo.db.students {
			if std.SchoolName == schoolName && std.Class == oldName {
				std.Class = newName
			}
		}
	}
	cf.Fee = fee
	return nil
}
