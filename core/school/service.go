package school

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
)

var (
	// errors
	ErrNotFound  = errors.New("school not found")
	ErrNameTaken = errors.New("a school with this name is already registered")
)

type (
	Repository interface {
		GetSchoolByName(ctx context.Context, name string) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)
		// CheckNameUniqueness returns ErrNameTaken when the name is registered.
		CheckNameUniqueness(ctx context.Context, name string) error
		// RegisterSchool inserts the school row and flips the activation code
		// used=false -> used=true as one transaction. It returns
		// activation.ErrNotFound or activation.ErrUsed when the code cannot be
		// consumed; no school row is written in that case.
		RegisterSchool(ctx context.Context, sch School, code string) (School, error)
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{conf: conf, repo: repo, mailSvc: mailSvc}
}

// Register validates the registration data, consumes the activation code and
// creates the school. Public: it does not authenticate the caller.
func (svc *Service) Register(ctx context.Context, ns NewSchool, code string) (School, error) {
	if err := ns.Validate(); err != nil {
		return School{}, err
	}
	code = core.CleanString(code)
	if code == "" {
		return School{}, core.NewAuthorizationError("invalid activation code")
	}

	if err := svc.repo.CheckNameUniqueness(ctx, ns.Name); err != nil {
		if err == ErrNameTaken {
			return School{}, core.NewConflictError(err.Error())
		}
		return School{}, err
	}

	sch := School{
		Name:              ns.Name,
		Address:           ns.Address,
		Email:             ns.Email,
		Phone:             ns.Phone,
		ActivationCode:    code,
		PaystackPublicKey: ns.PaystackPublicKey,
		CreatedAt:         time.Now().UTC(),
	}
	if err := sch.SetPassword(ns.Password); err != nil {
		return School{}, err
	}

	sch, err := svc.repo.RegisterSchool(ctx, sch, code)
	if err != nil {
		switch err {
		case activation.ErrNotFound:
			return School{}, core.NewAuthorizationError("invalid activation code")
		case activation.ErrUsed:
			return School{}, core.NewAuthorizationError("activation code already used")
		}
		return School{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: sch.Name, Address: sch.Email}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome-school",
		TemplateData: sch,
	})
	return sch, nil
}

// Authenticate matches a school by name and password.
func (svc *Service) Authenticate(ctx context.Context, name, password string) (School, error) {
	sch, err := svc.repo.GetSchoolByName(ctx, core.CleanString(name))
	if err != nil {
		if err == ErrNotFound {
			return School{}, core.NewAuthenticationError("invalid school name or password")
		}
		return School{}, err
	}
	if err := sch.CheckPassword(password); err != nil {
		return School{}, core.NewAuthenticationError("invalid school name or password")
	}
	return sch, nil
}

func (svc *Service) GetByName(ctx context.Context, name string) (School, error) {
	return svc.repo.GetSchoolByName(ctx, core.CleanString(name))
}

func (svc *Service) QueryAll(ctx context.Context) ([]School, error) {
	return svc.repo.QueryAllSchools(ctx)
}
