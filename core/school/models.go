package school

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/shulepay/shulepay/core"
)

// School is the tenant: it owns its students, payments and class fees,
// all keyed by the school name.
type School struct {
	Name              string    `json:"name"` // unique, the tenant key
	Address           string    `json:"address"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	ActivationCode    string    `json:"activation_code"` // the code consumed at registration
	PaystackPublicKey string    `json:"paystack_public_key,omitempty"`
	PasswordHash      []byte    `json:"-"`
	CreatedAt         time.Time `json:"created_at"` // UTC
}

func (s *School) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *School) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewSchool contains information needed to register a new School.
type NewSchool struct {
	Name              string `json:"name" validate:"required,alphanum_"`
	Address           string `json:"address" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone" validate:"required,phone"`
	Password          string `json:"password" validate:"required"`
	PasswordConfirm   string `json:"password_confirm" validate:"required,eqfield=Password"`
	PaystackPublicKey string `json:"paystack_public_key"`
}

func (ns *NewSchool) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Address = core.CleanString(ns.Address)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	return core.Validate.Struct(ns)
}

func init() {
	core.Validate.RegisterStructValidation(newSchoolStructValidation, NewSchool{})
}

// newSchoolStructValidation applies the password policy on registration.
func newSchoolStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewSchool); ok {
		if ns.Password != "" {
			core.ValidatePasswordField(sl, ns.Password, ns.Name, ns.Email)
		}
	}
}
