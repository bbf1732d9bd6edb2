package session

import (
	"context"
	"crypto/subtle"
	"net/mail"
	"sync"

	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/parent"
	"github.com/shulepay/shulepay/core/school"
	"github.com/shulepay/shulepay/core/tenant"
)

// Services bundles everything a Session needs. Sessions are plain values
// constructed with their dependencies; nothing here is process-global.
type Services struct {
	Conf       *core.Config
	Logger     core.Logger
	School     *school.Service
	Tenant     *tenant.Service
	Activation *activation.Service
	Parent     *parent.Service
}

// Session holds the authenticated principal and an in-memory mirror of the
// data that principal may see: the tenant's students, payments and class fee
// schedules for a school administrator, plus the school list and activation
// code registry for any authenticated principal.
//
// A mutex serializes all operations on one Session so overlapping calls from
// the same session cannot lose cache updates. Operations from two different
// sessions against the same tenant are NOT coordinated; the external store
// resolves them last-write-wins. Acceptable for single small-school admin
// usage; documented, not fixed.
type Session struct {
	mu   sync.Mutex
	svcs Services

	user     User // nil when anonymous
	students []tenant.Student
	payments []tenant.Payment
	classes  []tenant.ClassFee
	schools  []school.School
	codes    []activation.Code
}

func New(svcs Services) *Session {
	return &Session{svcs: svcs}
}

// --- authentication ---

// Login authenticates a school administrator. The session must be anonymous;
// authenticated principals pass through Logout first.
func (s *Session) Login(ctx context.Context, schoolName, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return core.NewAuthorizationError("already authenticated; log out first")
	}
	sch, err := s.svcs.School.Authenticate(ctx, schoolName, password)
	if err != nil {
		return err
	}
	s.user = SchoolAdmin{SchoolName: sch.Name}
	s.reload(ctx)
	return nil
}

// AdminLogin authenticates the system administrator against the configured
// secret.
func (s *Session) AdminLogin(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return core.NewAuthorizationError("already authenticated; log out first")
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.svcs.Conf.AdminPassword)) != 1 {
		return core.NewAuthenticationError("invalid admin password")
	}
	s.user = SystemAdmin{}
	s.reload(ctx)
	return nil
}

// ParentLogin authenticates a parent by email and password.
func (s *Session) ParentLogin(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return core.NewAuthorizationError("already authenticated; log out first")
	}
	prt, err := s.svcs.Parent.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	s.user = ParentUser{ParentID: prt.ID}
	s.reload(ctx)
	return nil
}

// Logout clears the principal and empties every cached collection so no
// tenant data can leak into a subsequent different-tenant session.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.students = nil
	s.payments = nil
	s.classes = nil
	s.schools = nil
	s.codes = nil
}

// Reload refreshes the cached collections for the current principal. A
// failed reload is non-fatal: the cache keeps its previous (possibly stale)
// content and the error is returned for the caller to surface.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

// reload fetches per-principal data. Caller holds s.mu. Errors are logged
// and returned; cached state is only replaced by successful fetches.
func (s *Session) reload(ctx context.Context) error {
	if s.user == nil {
		s.students, s.payments, s.classes = nil, nil, nil
		s.schools, s.codes = nil, nil
		return nil
	}

	var firstErr error
	keep := func(err error, op string) {
		if err != nil {
			s.svcs.Logger.Warn("session: cache reload failed", errors.Wrap(err, op))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if schools, err := s.svcs.School.QueryAll(ctx); err != nil {
		keep(err, "loading schools")
	} else {
		s.schools = schools
	}
	if codes, err := s.svcs.Activation.QueryAll(ctx); err != nil {
		keep(err, "loading activation codes")
	} else {
		s.codes = codes
	}

	sa, ok := s.user.(SchoolAdmin)
	if !ok {
		s.students, s.payments, s.classes = nil, nil, nil
		return firstErr
	}
	if classes, err := s.svcs.Tenant.ClassFees(ctx, sa.SchoolName); err != nil {
		keep(err, "loading class fees")
	} else {
		s.classes = classes
	}
	if students, err := s.svcs.Tenant.Students(ctx, sa.SchoolName); err != nil {
		keep(err, "loading students")
	} else {
		s.students = students
	}
	if payments, err := s.svcs.Tenant.Payments(ctx, sa.SchoolName); err != nil {
		keep(err, "loading payments")
	} else {
		s.payments = payments
	}
	return firstErr
}

// --- registration (public, unauthenticated) ---

// RegisterSchool registers a new school against an unused activation code.
// It does not authenticate the caller.
func (s *Session) RegisterSchool(ctx context.Context, ns school.NewSchool, code string) (school.School, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sch, err := s.svcs.School.Register(ctx, ns, code)
	if err != nil {
		return school.School{}, err
	}
	s.schools = append(s.schools, sch)
	for i := range s.codes {
		if s.codes[i].Code == sch.ActivationCode {
			s.codes[i].Used = true
		}
	}
	return sch, nil
}

// RegisterParent registers a new parent account. Public.
func (s *Session) RegisterParent(ctx context.Context, np parent.NewParent) (parent.Parent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svcs.Parent.Register(ctx, np)
}

// --- system administrator operations ---

// GenerateActivationCode issues a fresh activation code.
func (s *Session) GenerateActivationCode(ctx context.Context) (activation.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSystemAdmin(); err != nil {
		return activation.Code{}, err
	}
	code, err := s.svcs.Activation.Generate(ctx)
	if err != nil {
		return activation.Code{}, err
	}
	s.codes = append(s.codes, code)
	return code, nil
}

// GenerateActivationCodeFor issues a fresh activation code and emails it.
func (s *Session) GenerateActivationCodeFor(ctx context.Context, recipient mail.Address) (activation.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSystemAdmin(); err != nil {
		return activation.Code{}, err
	}
	code, err := s.svcs.Activation.GenerateFor(ctx, recipient)
	if err != nil {
		return activation.Code{}, err
	}
	s.codes = append(s.codes, code)
	return code, nil
}

// --- school administrator operations ---

// AddStudent enrolls a student into the administrator's school.
func (s *Session) AddStudent(ctx context.Context, ns tenant.NewStudent) (tenant.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sa, err := s.requireSchoolAdmin()
	if err != nil {
		return tenant.Student{}, err
	}
	std, err := s.svcs.Tenant.AddStudent(ctx, sa.SchoolName, ns)
	if err != nil {
		return tenant.Student{}, err
	}
	s.students = append(s.students, std)
	return std, nil
}

// RecordPayment records a payment against one of the school's students.
func (s *Session) RecordPayment(ctx context.Context, np tenant.NewPayment) (tenant.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sa, err := s.requireSchoolAdmin()
	if err != nil {
		return tenant.Payment{}, err
	}
	pmt, std, err := s.svcs.Tenant.RecordPayment(ctx, sa.SchoolName, np)
	if err != nil {
		return tenant.Payment{}, err
	}
	s.payments = append(s.payments, pmt)
	for i := range s.students {
		if s.students[i].ID == std.ID {
			s.students[i] = std
		}
	}
	return pmt, nil
}

// UnpaidStudents returns the cached students still owing money, optionally
// narrowed by exact class name and/or exact student ID.
func (s *Session) UnpaidStudents(classFilter, idFilter string) ([]tenant.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireSchoolAdmin(); err != nil {
		return nil, err
	}
	return tenant.UnpaidStudents(s.students, classFilter, idFilter), nil
}

// AddClass creates (or, for an existing name, re-prices) a class fee schedule.
func (s *Session) AddClass(ctx context.Context, nc tenant.NewClassFee) (tenant.ClassFee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sa, err := s.requireSchoolAdmin()
	if err != nil {
		return tenant.ClassFee{}, err
	}
	cf, err := s.svcs.Tenant.AddClass(ctx, sa.SchoolName, nc)
	if err != nil {
		return tenant.ClassFee{}, err
	}
	var found bool
	for i := range s.classes {
		if s.classes[i].Name == cf.Name {
			s.classes[i].Fee = cf.Fee
			found = true
		}
	}
	if !found {
		s.classes = append(s.classes, cf)
	}
	return cf, nil
}

// UpdateClass re-prices and/or renames a class; a rename cascades to the
// cached students as it does in the store.
func (s *Session) UpdateClass(ctx context.Context, uc tenant.UpdateClassFee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sa, err := s.requireSchoolAdmin()
	if err != nil {
		return err
	}
	if err := s.svcs.Tenant.UpdateClass(ctx, sa.SchoolName, uc); err != nil {
		return err
	}
	for i := range s.classes {
		if s.classes[i].Name == uc.OldName {
			s.classes[i].Name = uc.NewName
			s.classes[i].Fee = uc.Fee
		}
	}
	if uc.OldName != uc.NewName {
		for i := range s.students {
			if s.students[i].Class == uc.OldName {
				s.students[i].Class = uc.NewName
			}
		}
	}
	return nil
}

// --- read accessors ---

func (s *Session) Current() User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Students() []tenant.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tenant.Student(nil), s.students...)
}

func (s *Session) Payments() []tenant.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tenant.Payment(nil), s.payments...)
}

func (s *Session) Classes() []tenant.ClassFee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tenant.ClassFee(nil), s.classes...)
}

func (s *Session) Schools() []school.School {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]school.School(nil), s.schools...)
}

func (s *Session) GeneratedCodes() []activation.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]activation.Code(nil), s.codes...)
}

// --- role checks ---

func (s *Session) requireSchoolAdmin() (SchoolAdmin, error) {
	switch usr := s.user.(type) {
	case SchoolAdmin:
		return usr, nil
	case SystemAdmin, ParentUser:
		return SchoolAdmin{}, core.NewAuthorizationError("school administrator role required")
	default: // anonymous
		return SchoolAdmin{}, core.NewAuthorizationError("not authenticated")
	}
}

func (s *Session) requireSystemAdmin() error {
	switch s.user.(type) {
	case SystemAdmin:
		return nil
	case SchoolAdmin, ParentUser:
		return core.NewAuthorizationError("system administrator role required")
	default: // anonymous
		return core.NewAuthorizationError("not authenticated")
	}
}
