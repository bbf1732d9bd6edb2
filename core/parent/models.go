package parent

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/shulepay/shulepay/core"
)

// Parent is a guardian account; it browses schools and (eventually) pays fees.
type Parent struct {
	ID           string    `json:"id"` // uuid
	Name         string    `json:"name"`
	Email        string    `json:"email"` // unique
	Phone        string    `json:"phone"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

func (p *Parent) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

func (p *Parent) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(pwd))
}

// NewParent contains information needed to register a new Parent.
type NewParent struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (np *NewParent) Validate() error {
	np.Name = core.CleanString(np.Name)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.Phone = core.CleanString(np.Phone)
	return core.Validate.Struct(np)
}

func init() {
	core.Validate.RegisterStructValidation(newParentStructValidation, NewParent{})
}

func newParentStructValidation(sl validator.StructLevel) {
	if np, ok := sl.Current().Interface().(NewParent); ok {
		if np.Password != "" {
			core.ValidatePasswordField(sl, np.Password, np.Name, np.Email)
		}
	}
}
