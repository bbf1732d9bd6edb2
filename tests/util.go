package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/parent"
	"github.com/shulepay/shulepay/core/school"
	"github.com/shulepay/shulepay/core/session"
	"github.com/shulepay/shulepay/core/tenant"
	emailsvc "github.com/shulepay/shulepay/services/email"
	inmemdb "github.com/shulepay/shulepay/storage/database/inmem"
)

// NewConfig returns a fixed test configuration.
func NewConfig() *core.Config {
	return &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Shulepay",
		SecretKey:        "secret",
		AdminPassword:    "aideducation123",
		DefaultFromEmail: "noreply@test.cd",
		FrontendBaseURL:  "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			SessionTTL:         time.Hour,
			ShutdownTimeout:    time.Second,
		},
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// NewServices wires all domain services over a fresh in-memory store.
func NewServices(t *testing.T) (session.Services, *inmemdb.DB) {
	t.Helper()
	emailsvc.ClearSentMessages()

	conf := NewConfig()
	db := inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	svcs := session.Services{
		Conf:       conf,
		Logger:     nopLogger{},
		School:     school.NewService(conf, inmemdb.NewSchoolRepository(db), mailSvc),
		Tenant:     tenant.NewService(inmemdb.NewTenantRepository(db)),
		Activation: activation.NewService(conf, inmemdb.NewActivationRepository(db), mailSvc),
		Parent:     parent.NewService(inmemdb.NewParentRepository(db)),
	}
	return svcs, db
}

// CreateCode inserts an activation code directly.
func CreateCode(t *testing.T, repo activation.Repository, code string, used bool) activation.Code {
	t.Helper()
	cd, err := repo.CreateCode(context.Background(), activation.Code{Code: code, Used: used, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("CreateCode() failed: %v", err)
	}
	return cd
}

// CreateSchool registers a school, consuming the given unused code.
func CreateSchool(t *testing.T, repo school.Repository, name, pwd, code string) school.School {
	t.Helper()
	sch := school.School{
		Name:           name,
		Address:        "1 Test Street",
		Email:          name + "@test.cd",
		Phone:          "+243812345678",
		ActivationCode: code,
		CreatedAt:      time.Now().UTC(),
	}
	if err := sch.SetPassword(pwd); err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	sch, err := repo.RegisterSchool(context.Background(), sch, code)
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

// CreateStudent enrolls a student directly.
func CreateStudent(t *testing.T, repo tenant.Repository, schoolName, name, class string, totalFee, amountPaid float64) tenant.Student {
	t.Helper()
	std, err := repo.CreateStudent(context.Background(), tenant.Student{
		SchoolName: schoolName,
		Name:       name,
		Class:      class,
		TotalFee:   totalFee,
		AmountPaid: amountPaid,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

// CreateClassFee inserts a class fee schedule directly.
func CreateClassFee(t *testing.T, repo tenant.Repository, schoolName, name string, fee float64) tenant.ClassFee {
	t.Helper()
	cf, err := repo.CreateClassFee(context.Background(), tenant.ClassFee{
		SchoolName: schoolName,
		Name:       name,
		Fee:        fee,
	})
	if err != nil {
		t.Fatalf("CreateClassFee() failed: %v", err)
	}
	return cf
}

// CreateParent registers a parent account directly.
func CreateParent(t *testing.T, repo parent.Repository, name, email, pwd string) parent.Parent {
	t.Helper()
	prt := parent.Parent{
		ID:        name + "-id",
		Name:      name,
		Email:     email,
		Phone:     "+243812345678",
		CreatedAt: time.Now().UTC(),
	}
	if err := prt.SetPassword(pwd); err != nil {
		t.Fatalf("CreateParent() failed: %v", err)
	}
	prt, err := repo.CreateParent(context.Background(), prt)
	if err != nil {
		t.Fatalf("CreateParent() failed: %v", err)
	}
	return prt
}
