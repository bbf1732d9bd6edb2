package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shulepay/shulepay/core/activation"
)

type codeRow struct {
	Code      string    `db:"code"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}

func (r codeRow) toCode() activation.Code {
	return activation.Code{Code: r.Code, Used: r.Used, CreatedAt: r.CreatedAt}
}

type activationRepository struct {
	db *sqlx.DB
}

var _ activation.Repository = (*activationRepository)(nil)

func NewActivationRepository(db *sqlx.DB) *activationRepository {
	return &activationRepository{db: db}
}

func (repo *activationRepository) CreateCode(ctx context.Context, code activation.Code) (activation.Code, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO activation_codes (code, used, created_at) VALUES ($1, $2, $3)`,
		code.Code, code.Used, code.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return activation.Code{}, activation.ErrCodeExists
		}
		return activation.Code{}, wrapErr("inserting activation code", err)
	}
	return code, nil
}

func (repo *activationRepository) GetCode(ctx context.Context, code string) (activation.Code, error) {
	var row codeRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM activation_codes WHERE code = $1`, code)
	if err == sql.ErrNoRows {
		return activation.Code{}, activation.ErrNotFound
	}
	if err != nil {
		return activation.Code{}, wrapErr("getting activation code", err)
	}
	return row.toCode(), nil
}

func (repo *activationRepository) QueryAllCodes(ctx context.Context) ([]activation.Code, error) {
	var rows []codeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM activation_codes ORDER BY created_at`); err != nil {
		return nil, wrapErr("querying activation codes", err)
	}
	codes := make([]activation.Code, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.toCode())
	}
	return codes, nil
}
