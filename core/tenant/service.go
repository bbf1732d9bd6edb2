package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/shulepay/shulepay/core"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrClassExists     = errors.New("a class with this name already exists")

	// NowFunc stamps payment dates. Mockable.
	NowFunc = time.Now
)

type (
	// Repository is the tenant-scoped slice of the external data store. Every
	// call carries the school name so implementations must apply it as an
	// equality filter; cross-tenant reads or mutations are not possible
	// through this interface.
	Repository interface {
		QueryStudents(ctx context.Context, schoolName string) ([]Student, error)
		GetStudent(ctx context.Context, schoolName, id string) (Student, error)
		// CreateStudent assigns the next sequential student ID and inserts.
		CreateStudent(ctx context.Context, std Student) (Student, error)

		QueryPayments(ctx context.Context, schoolName string) ([]Payment, error)
		// CreatePayment assigns the next sequential payment ID, inserts the
		// payment row and sets the referenced student's amount_paid to
		// newAmountPaid, all in one transaction.
		CreatePayment(ctx context.Context, pmt Payment, newAmountPaid float64) (Payment, error)

		QueryClassFees(ctx context.Context, schoolName string) ([]ClassFee, error)
		GetClassFee(ctx context.Context, schoolName, name string) (ClassFee, error)
		CreateClassFee(ctx context.Context, cf ClassFee) (ClassFee, error)
		// UpdateClassFee updates the (schoolName, oldName) row to
		// (newName, fee) and, when renamed, rewrites the class of every
		// student of the tenant currently in oldName, in one transaction.
		UpdateClassFee(ctx context.Context, schoolName, oldName, newName string, fee float64) error
	}

	// Service implements the school administrator's domain operations.
	// Authorization is the session layer's concern; everything here assumes
	// the caller is entitled to act for schoolName.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddStudent enrolls a new student with nothing paid yet.
func (svc *Service) AddStudent(ctx context.Context, schoolName string, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	std := Student{
		SchoolName: schoolName,
		Name:       ns.Name,
		Class:      ns.Class,
		TotalFee:   ns.TotalFee,
		AmountPaid: 0,
	}
	return svc.repo.CreateStudent(ctx, std)
}

// RecordPayment creates a payment and bumps the student's balance. It rejects
// amounts that are not positive or exceed the student's outstanding balance.
// Returns the created payment and the updated student.
func (svc *Service) RecordPayment(ctx context.Context, schoolName string, np NewPayment) (Payment, Student, error) {
	if err := np.Validate(); err != nil {
		return Payment{}, Student{}, err
	}

	std, err := svc.repo.GetStudent(ctx, schoolName, np.StudentID)
	if err != nil {
		if err == ErrStudentNotFound {
			return Payment{}, Student{}, core.NewNotFoundError(err.Error())
		}
		return Payment{}, Student{}, err
	}
	if np.Amount > std.Balance() {
		return Payment{}, Student{}, core.NewValidationError(
			errors.New("payment amount exceeds balance"),
			core.FieldError{Field: "amount", Error: "payment amount exceeds balance"},
		)
	}

	pmt := Payment{
		SchoolName: schoolName,
		StudentID:  std.ID,
		Amount:     np.Amount,
		Date:       Today(),
	}
	pmt, err = svc.repo.CreatePayment(ctx, pmt, std.AmountPaid+np.Amount)
	if err != nil {
		return Payment{}, Student{}, err
	}
	std.AmountPaid += np.Amount
	return pmt, std, nil
}

// AddClass creates a class fee schedule. When the class already exists, the
// call degrades to a fee-only update of the existing schedule.
func (svc *Service) AddClass(ctx context.Context, schoolName string, nc NewClassFee) (ClassFee, error) {
	if err := nc.Validate(); err != nil {
		return ClassFee{}, err
	}

	if _, err := svc.repo.GetClassFee(ctx, schoolName, nc.Name); err == nil {
		uc := UpdateClassFee{OldName: nc.Name, NewName: nc.Name, Fee: nc.Fee}
		if err := svc.UpdateClass(ctx, schoolName, uc); err != nil {
			return ClassFee{}, err
		}
		return ClassFee{SchoolName: schoolName, Name: nc.Name, Fee: nc.Fee}, nil
	} else if err != ErrClassNotFound {
		return ClassFee{}, err
	}

	cf := ClassFee{SchoolName: schoolName, Name: nc.Name, Fee: nc.Fee}
	return svc.repo.CreateClassFee(ctx, cf)
}

// UpdateClass updates a class fee schedule; a rename cascades to the tenant's
// students of that class.
func (svc *Service) UpdateClass(ctx context.Context, schoolName string, uc UpdateClassFee) error {
	if err := uc.Validate(); err != nil {
		return err
	}

	if _, err := svc.repo.GetClassFee(ctx, schoolName, uc.OldName); err != nil {
		if err == ErrClassNotFound {
			return core.NewNotFoundError(err.Error())
		}
		return err
	}
	if uc.OldName != uc.NewName {
		if _, err := svc.repo.GetClassFee(ctx, schoolName, uc.NewName); err == nil {
			return core.NewConflictError(ErrClassExists.Error())
		} else if err != ErrClassNotFound {
			return err
		}
	}
	return svc.repo.UpdateClassFee(ctx, schoolName, uc.OldName, uc.NewName, uc.Fee)
}

func (svc *Service) Students(ctx context.Context, schoolName string) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, schoolName)
}

func (svc *Service) Payments(ctx context.Context, schoolName string) ([]Payment, error) {
	return svc.repo.QueryPayments(ctx, schoolName)
}

func (svc *Service) ClassFees(ctx context.Context, schoolName string) ([]ClassFee, error) {
	return svc.repo.QueryClassFees(ctx, schoolName)
}

// UnpaidStudents filters students still owing money, optionally narrowed by
// exact class name and/or exact student ID. Pure; no I/O.
func UnpaidStudents(students []Student, classFilter, idFilter string) []Student {
	unpaid := make([]Student, 0, len(students))
	for _, std := range students {
		if std.Paid() {
			continue
		}
		if classFilter != "" && std.Class != classFilter {
			continue
		}
		if idFilter != "" && std.ID != idFilter {
			continue
		}
		unpaid = append(unpaid, std)
	}
	return unpaid
}

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	y, m, d := NowFunc().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
