package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shulepay/shulepay/core/tenant"
)

type (
	studentRow struct {
		ID         string  `db:"id"`
		SchoolName string  `db:"school_name"`
		Name       string  `db:"name"`
		Class      string  `db:"class"`
		TotalFee   float64 `db:"total_fee"`
		AmountPaid float64 `db:"amount_paid"`
	}

	paymentRow struct {
		ID         string    `db:"id"`
		SchoolName string    `db:"school_name"`
		StudentID  string    `db:"student_id"`
		Amount     float64   `db:"amount"`
		Date       time.Time `db:"date"`
	}

	classFeeRow struct {
		SchoolName string  `db:"school_name"`
		Name       string  `db:"name"`
		Fee        float64 `db:"fee"`
	}
)

func (r studentRow) toStudent() tenant.Student {
	return tenant.Student(r)
}

func (r paymentRow) toPayment() tenant.Payment {
	return tenant.Payment(r)
}

func (r classFeeRow) toClassFee() tenant.ClassFee {
	return tenant.ClassFee(r)
}

type tenantRepository struct {
	db *sqlx.DB
}

var _ tenant.Repository = (*tenantRepository)(nil)

func NewTenantRepository(db *sqlx.DB) *tenantRepository {
	return &tenantRepository{db: db}
}

// --- students ---

func (repo *tenantRepository) QueryStudents(ctx context.Context, schoolName string) ([]tenant.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM students WHERE school_name = $1 ORDER BY id`, schoolName)
	if err != nil {
		return nil, wrapErr("querying students", err)
	}
	students := make([]tenant.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo *tenantRepository) GetStudent(ctx context.Context, schoolName, id string) (tenant.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM students WHERE school_name = $1 AND id = $2`, schoolName, id)
	if err == sql.ErrNoRows {
		return tenant.Student{}, tenant.ErrStudentNotFound
	}
	if err != nil {
		return tenant.Student{}, wrapErr("getting student", err)
	}
	return row.toStudent(), nil
}

func (repo *tenantRepository) CreateStudent(ctx context.Context, std tenant.Student) (tenant.Student, error) {
	var seq int64
	if err := repo.db.GetContext(ctx, &seq, `SELECT nextval('student_seq')`); err != nil {
		return tenant.Student{}, wrapErr("assigning student ID", err)
	}
	std.ID = tenant.StudentID(seq)

	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO students (id, school_name, name, class, total_fee, amount_paid)
		VALUES (:id, :school_name, :name, :class, :total_fee, :amount_paid)`,
		studentRow(std))
	if err != nil {
		return tenant.Student{}, wrapErr("inserting student", err)
	}
	return std, nil
}

// --- payments ---

func (repo *tenantRepository) QueryPayments(ctx context.Context, schoolName string) ([]tenant.Payment, error) {
	var rows []paymentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM payments WHERE school_name = $1 ORDER BY id`, schoolName)
	if err != nil {
		return nil, wrapErr("querying payments", err)
	}
	payments := make([]tenant.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.toPayment())
	}
	return payments, nil
}

func (repo *tenantRepository) CreatePayment(ctx context.Context, pmt tenant.Payment, newAmountPaid float64) (tenant.Payment, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return tenant.Payment{}, wrapErr("beginning payment", err)
	}

	var seq int64
	if err := tx.GetContext(ctx, &seq, `SELECT nextval('payment_seq')`); err != nil {
		rollback(tx)
		return tenant.Payment{}, wrapErr("assigning payment ID", err)
	}
	pmt.ID = tenant.PaymentID(seq)

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO payments (id, school_name, student_id, amount, date)
		VALUES (:id, :school_name, :student_id, :amount, :date)`,
		paymentRow(pmt))
	if err != nil {
		rollback(tx)
		return tenant.Payment{}, wrapErr("inserting payment", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE students SET amount_paid = $1 WHERE school_name = $2 AND id = $3`,
		newAmountPaid, pmt.SchoolName, pmt.StudentID)
	if err != nil {
		rollback(tx)
		return tenant.Payment{}, wrapErr("updating student balance", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		rollback(tx)
		return tenant.Payment{}, tenant.ErrStudentNotFound
	}

	if err := tx.Commit(); err != nil {
		return tenant.Payment{}, wrapErr("committing payment", err)
	}
	return pmt, nil
}

// --- class fees ---

func (repo *tenantRepository) QueryClassFees(ctx context.Context, schoolName string) ([]tenant.ClassFee, error) {
	var rows []classFeeRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM class_fees WHERE school_name = $1 ORDER BY name`, schoolName)
	if err != nil {
		return nil, wrapErr("querying class fees", err)
	}
	classes := make([]tenant.ClassFee, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toClassFee())
	}
	return classes, nil
}

func (repo *tenantRepository) GetClassFee(ctx context.Context, schoolName, name string) (tenant.ClassFee, error) {
	var row classFeeRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM class_fees WHERE school_name = $1 AND name = $2`, schoolName, name)
	if err == sql.ErrNoRows {
		return tenant.ClassFee{}, tenant.ErrClassNotFound
	}
	if err != nil {
		return tenant.ClassFee{}, wrapErr("getting class fee", err)
	}
	return row.toClassFee(), nil
}

func (repo *tenantRepository) CreateClassFee(ctx context.Context, cf tenant.ClassFee) (tenant.ClassFee, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO class_fees (school_name, name, fee)
		VALUES (:school_name, :name, :fee)`,
		classFeeRow(cf))
	if err != nil {
		if isUniqueViolation(err) {
			return tenant.ClassFee{}, tenant.ErrClassExists
		}
		return tenant.ClassFee{}, wrapErr("inserting class fee", err)
	}
	return cf, nil
}

func (repo *tenantRepository) UpdateClassFee(ctx context.Context, schoolName, oldName, newName string, fee float64) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("beginning class update", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE class_fees SET name = $1, fee = $2 WHERE school_name = $3 AND name = $4`,
		newName, fee, schoolName, oldName)
	if err != nil {
		rollback(tx)
		if isUniqueViolation(err) {
			return tenant.ErrClassExists
		}
		return wrapErr("updating class fee", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		rollback(tx)
		return tenant.ErrClassNotFound
	}

	if oldName != newName {
		_, err := tx.ExecContext(ctx,
			`UPDATE students SET class = $1 WHERE school_name = $2 AND class = $3`,
			newName, schoolName, oldName)
		if err != nil {
			rollback(tx)
			return wrapErr("cascading class rename", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("committing class update", err)
	}
	return nil
}
