package tenant

import (
	"fmt"
	"time"

	"github.com/shulepay/shulepay/core"
)

type (
	// Student belongs to exactly one school, keyed by school name.
	Student struct {
		ID         string  `json:"id"` // STD###
		SchoolName string  `json:"school_name"`
		Name       string  `json:"name"`
		Class      string  `json:"class"` // references ClassFee.Name by value
		TotalFee   float64 `json:"total_fee"`
		AmountPaid float64 `json:"amount_paid"`
	}

	// Payment records money received against a student's fees. Creating one
	// increases the student's AmountPaid by the same amount, atomically.
	Payment struct {
		ID         string    `json:"id"` // PAY###
		SchoolName string    `json:"school_name"`
		StudentID  string    `json:"student_id"`
		Amount     float64   `json:"amount"`
		Date       time.Time `json:"date"` // calendar date, UTC midnight
	}

	// ClassFee sets the fee for a named class; unique per school.
	ClassFee struct {
		SchoolName string  `json:"school_name"`
		Name       string  `json:"name"`
		Fee        float64 `json:"fee"`
	}
)

// Balance is the amount still owed by the student.
func (s Student) Balance() float64 { return s.TotalFee - s.AmountPaid }

// Paid reports whether the student's fees are fully settled.
func (s Student) Paid() bool { return s.AmountPaid >= s.TotalFee }

// StudentID and PaymentID format storage-owned sequence values into the
// public ID shape. Sequences are global across tenants.
func StudentID(seq int64) string { return fmt.Sprintf("STD%03d", seq) }
func PaymentID(seq int64) string { return fmt.Sprintf("PAY%03d", seq) }

// NewStudent contains information needed to enroll a student.
type NewStudent struct {
	Name     string  `json:"name" validate:"required"`
	Class    string  `json:"class" validate:"required"`
	TotalFee float64 `json:"total_fee" validate:"required,gt=0"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Class = core.CleanString(ns.Class)
	return core.Validate.Struct(ns)
}

// NewPayment contains information needed to record a payment.
type NewPayment struct {
	StudentID string  `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

func (np *NewPayment) Validate() error {
	np.StudentID = core.CleanString(np.StudentID)
	return core.Validate.Struct(np)
}

// NewClassFee contains information needed to add a class fee schedule.
type NewClassFee struct {
	Name string  `json:"name" validate:"required"`
	Fee  float64 `json:"fee" validate:"required,gt=0"`
}

func (nc *NewClassFee) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

// UpdateClassFee renames a class and/or updates its fee. A rename cascades to
// all students of the class within the same operation.
type UpdateClassFee struct {
	OldName string  `json:"old_name" validate:"required"`
	NewName string  `json:"new_name" validate:"required"`
	Fee     float64 `json:"fee" validate:"required,gt=0"`
}

func (uc *UpdateClassFee) Validate() error {
	uc.OldName = core.CleanString(uc.OldName)
	uc.NewName = core.CleanString(uc.NewName)
	return core.Validate.Struct(uc)
}
