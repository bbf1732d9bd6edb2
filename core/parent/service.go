package parent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shulepay/shulepay/core"
)

var (
	// errors
	ErrNotFound    = errors.New("parent not found")
	ErrEmailExists = errors.New("a parent with this email already exists")
)

type (
	Repository interface {
		CreateParent(ctx context.Context, prt Parent) (Parent, error)
		GetParentByID(ctx context.Context, id string) (Parent, error)
		GetParentByEmail(ctx context.Context, email string) (Parent, error)
		// CheckEmailUniqueness returns ErrEmailExists when the email is taken.
		CheckEmailUniqueness(ctx context.Context, email string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new parent account.
func (svc *Service) Register(ctx context.Context, np NewParent) (Parent, error) {
	if err := np.Validate(); err != nil {
		return Parent{}, err
	}
	if err := svc.repo.CheckEmailUniqueness(ctx, np.Email); err != nil {
		if err == ErrEmailExists {
			return Parent{}, core.NewConflictError(err.Error())
		}
		return Parent{}, err
	}

	prt := Parent{
		ID:        uuid.New().String(),
		Name:      np.Name,
		Email:     np.Email,
		Phone:     np.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := prt.SetPassword(np.Password); err != nil {
		return Parent{}, err
	}
	return svc.repo.CreateParent(ctx, prt)
}

// Authenticate matches a parent by email and password.
func (svc *Service) Authenticate(ctx context.Context, email, password string) (Parent, error) {
	prt, err := svc.repo.GetParentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if err == ErrNotFound {
			return Parent{}, core.NewAuthenticationError("invalid email or password")
		}
		return Parent{}, err
	}
	if err := prt.CheckPassword(password); err != nil {
		return Parent{}, core.NewAuthenticationError("invalid email or password")
	}
	return prt, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Parent, error) {
	return svc.repo.GetParentByID(ctx, id)
}
