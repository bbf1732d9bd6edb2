package activation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/mail"
	"time"

	"github.com/shulepay/shulepay/core"
)

var (
	// errors
	ErrNotFound   = errors.New("activation code not found")
	ErrUsed       = errors.New("activation code already used")
	ErrCodeExists = errors.New("activation code already exists")

	// CodeFunc draws a fresh candidate code. Mockable.
	CodeFunc = func() string { return fmt.Sprintf("SCHOOL%04d", 1000+rand.Intn(9000)) }
)

// maxGenAttempts bounds the check-and-retry loop; the code space is only
// 9000 wide so collisions are expected once many codes have been issued.
const maxGenAttempts = 5

func init() {
	rand.Seed(time.Now().UnixNano())
}

type (
	Repository interface {
		// CreateCode inserts a fresh code; returns ErrCodeExists when the code
		// string is already present.
		CreateCode(ctx context.Context, code Code) (Code, error)
		GetCode(ctx context.Context, code string) (Code, error)
		QueryAllCodes(ctx context.Context) ([]Code, error)
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

// Generate issues a new unused activation code, retrying on collision.
func (svc *Service) Generate(ctx context.Context) (Code, error) {
	for i := 0; i < maxGenAttempts; i++ {
		code := Code{
			Code:      CodeFunc(),
			Used:      false,
			CreatedAt: time.Now().UTC(),
		}
		created, err := svc.repo.CreateCode(ctx, code)
		if err == ErrCodeExists {
			continue
		}
		if err != nil {
			return Code{}, err
		}
		return created, nil
	}
	return Code{}, core.NewConflictError("could not issue a unique activation code; retry")
}

// GenerateFor issues a new code and emails it to the recipient.
func (svc *Service) GenerateFor(ctx context.Context, recipient mail.Address) (Code, error) {
	code, err := svc.Generate(ctx)
	if err != nil {
		return Code{}, err
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{recipient},
		Subject:      "Your school activation code",
		TemplateName: "activation-code",
		TemplateData: code,
	})
	return code, nil
}

func (svc *Service) Get(ctx context.Context, code string) (Code, error) {
	return svc.repo.GetCode(ctx, core.CleanString(code))
}

func (svc *Service) QueryAll(ctx context.Context) ([]Code, error) {
	return svc.repo.QueryAllCodes(ctx)
}
