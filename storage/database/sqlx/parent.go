package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shulepay/shulepay/core/parent"
)

type parentRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r parentRow) toParent() parent.Parent {
	return parent.Parent(r)
}

type parentRepository struct {
	db *sqlx.DB
}

var _ parent.Repository = (*parentRepository)(nil)

func NewParentRepository(db *sqlx.DB) *parentRepository {
	return &parentRepository{db: db}
}

func (repo *parentRepository) CreateParent(ctx context.Context, prt parent.Parent) (parent.Parent, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO parents (id, name, email, phone, password_hash, created_at)
		VALUES (:id, :name, :email, :phone, :password_hash, :created_at)`,
		parentRow(prt))
	if err != nil {
		if isUniqueViolation(err) {
			return parent.Parent{}, parent.ErrEmailExists
		}
		return parent.Parent{}, wrapErr("inserting parent", err)
	}
	return prt, nil
}

func (repo *parentRepository) GetParentByID(ctx context.Context, id string) (parent.Parent, error) {
	var row parentRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM parents WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return parent.Parent{}, parent.ErrNotFound
	}
	if err != nil {
		return parent.Parent{}, wrapErr("getting parent", err)
	}
	return row.toParent(), nil
}

func (repo *parentRepository) GetParentByEmail(ctx context.Context, email string) (parent.Parent, error) {
	var row parentRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM parents WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return parent.Parent{}, parent.ErrNotFound
	}
	if err != nil {
		return parent.Parent{}, wrapErr("getting parent by email", err)
	}
	return row.toParent(), nil
}

func (repo *parentRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT true FROM parents WHERE email = $1 LIMIT 1`, email)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return wrapErr("checking parent email", err)
	}
	return parent.ErrEmailExists
}
