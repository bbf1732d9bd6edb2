package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/school"
)

type schoolRow struct {
	Name              string    `db:"name"`
	Address           string    `db:"address"`
	Email             string    `db:"email"`
	Phone             string    `db:"phone"`
	ActivationCode    string    `db:"activation_code"`
	PaystackPublicKey string    `db:"paystack_public_key"`
	PasswordHash      []byte    `db:"password_hash"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r schoolRow) toSchool() school.School {
	return school.School{
		Name:              r.Name,
		Address:           r.Address,
		Email:             r.Email,
		Phone:             r.Phone,
		ActivationCode:    r.ActivationCode,
		PaystackPublicKey: r.PaystackPublicKey,
		PasswordHash:      r.PasswordHash,
		CreatedAt:         r.CreatedAt,
	}
}

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) GetSchoolByName(ctx context.Context, name string) (school.School, error) {
	var row schoolRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM schools WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return school.School{}, school.ErrNotFound
	}
	if err != nil {
		return school.School{}, wrapErr("getting school", err)
	}
	return row.toSchool(), nil
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	var rows []schoolRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM schools ORDER BY name`); err != nil {
		return nil, wrapErr("querying schools", err)
	}
	schools := make([]school.School, 0, len(rows))
	for _, row := range rows {
		schools = append(schools, row.toSchool())
	}
	return schools, nil
}

func (repo *schoolRepository) CheckNameUniqueness(ctx context.Context, name string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT true FROM schools WHERE name = $1 LIMIT 1`, name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return wrapErr("checking school name", err)
	}
	return school.ErrNameTaken
}

func (repo *schoolRepository) RegisterSchool(ctx context.Context, sch school.School, code string) (school.School, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return school.School{}, wrapErr("beginning registration", err)
	}

	// consume the activation code; the used filter makes the flip one-way.
	res, err := tx.ExecContext(ctx,
		`UPDATE activation_codes SET used = true WHERE code = $1 AND NOT used`, code)
	if err != nil {
		rollback(tx)
		return school.School{}, wrapErr("consuming activation code", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var used bool
		err := tx.GetContext(ctx, &used, `SELECT used FROM activation_codes WHERE code = $1`, code)
		rollback(tx)
		if err == sql.ErrNoRows {
			return school.School{}, activation.ErrNotFound
		}
		if err != nil {
			return school.School{}, wrapErr("checking activation code", err)
		}
		return school.School{}, activation.ErrUsed
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO schools (name, address, email, phone, activation_code, paystack_public_key, password_hash, created_at)
		VALUES (:name, :address, :email, :phone, :activation_code, :paystack_public_key, :password_hash, :created_at)`,
		schoolRow{
			Name:              sch.Name,
			Address:           sch.Address,
			Email:             sch.Email,
			Phone:             sch.Phone,
			ActivationCode:    sch.ActivationCode,
			PaystackPublicKey: sch.PaystackPublicKey,
			PasswordHash:      sch.PasswordHash,
			CreatedAt:         sch.CreatedAt,
		})
	if err != nil {
		rollback(tx)
		if isUniqueViolation(err) {
			return school.School{}, school.ErrNameTaken
		}
		return school.School{}, wrapErr("inserting school", err)
	}

	if err := tx.Commit(); err != nil {
		return school.School{}, wrapErr("committing registration", err)
	}
	return sch, nil
}
