package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/parent"
	"github.com/shulepay/shulepay/core/school"
	"github.com/shulepay/shulepay/core/session"
	"github.com/shulepay/shulepay/core/tenant"
	inmemdb "github.com/shulepay/shulepay/storage/database/inmem"
	testutil "github.com/shulepay/shulepay/tests"
)

const (
	schoolName = "Mwanga Primary"
	schoolPwd  = "x9#Kpq2m!zu"
	adminPwd   = "aideducation123"
)

type fixture struct {
	sess *session.Session
	db   *inmemdb.DB
}

func setup(t *testing.T) fixture {
	t.Helper()
	svcs, db := testutil.NewServices(t)

	testutil.CreateCode(t, inmemdb.NewActivationRepository(db), "SCHOOL1234", false)
	testutil.CreateSchool(t, inmemdb.NewSchoolRepository(db), schoolName, schoolPwd, "SCHOOL1234")

	return fixture{sess: session.New(svcs), db: db}
}

func (f fixture) loginSchool(t *testing.T) {
	t.Helper()
	require.NoError(t, f.sess.Login(context.Background(), schoolName, schoolPwd))
}

func TestSession_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("school admin", func(t *testing.T) {
		f := setup(t)
		tntRepo := inmemdb.NewTenantRepository(f.db)
		testutil.CreateClassFee(t, tntRepo, schoolName, "P1", 1000)
		testutil.CreateStudent(t, tntRepo, schoolName, "Amani", "P1", 1000, 200)
		testutil.CreateStudent(t, tntRepo, "Other School", "Chiku", "P1", 500, 0)

		require.NoError(t, f.sess.Login(ctx, schoolName, schoolPwd))

		usr, ok := f.sess.Current().(session.SchoolAdmin)
		require.True(t, ok)
		assert.Equal(t, schoolName, usr.SchoolName)

		// cache holds this tenant only
		students := f.sess.Students()
		require.Len(t, students, 1)
		assert.Equal(t, "Amani", students[0].Name)
		assert.Len(t, f.sess.Classes(), 1)
		assert.Len(t, f.sess.Schools(), 1)
		assert.Len(t, f.sess.GeneratedCodes(), 1)
	})

	t.Run("bad credentials", func(t *testing.T) {
		f := setup(t)
		err := f.sess.Login(ctx, schoolName, "nope")
		var aErr *core.AuthenticationError
		require.ErrorAs(t, err, &aErr)
		assert.Nil(t, f.sess.Current())
	})

	t.Run("already authenticated", func(t *testing.T) {
		f := setup(t)
		f.loginSchool(t)
		err := f.sess.Login(ctx, schoolName, schoolPwd)
		var aErr *core.AuthorizationError
		require.ErrorAs(t, err, &aErr)
	})
}

func TestSession_AdminLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.sess.AdminLogin(ctx, adminPwd))
		assert.IsType(t, session.SystemAdmin{}, f.sess.Current())

		// sees schools and codes, no tenant rows
		assert.Len(t, f.sess.Schools(), 1)
		assert.Len(t, f.sess.GeneratedCodes(), 1)
		assert.Empty(t, f.sess.Students())
	})

	t.Run("wrong password", func(t *testing.T) {
		f := setup(t)
		err := f.sess.AdminLogin(ctx, "nope")
		var aErr *core.AuthenticationError
		require.ErrorAs(t, err, &aErr)
	})
}

func TestSession_ParentLogin(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	prt := testutil.CreateParent(t, inmemdb.NewParentRepository(f.db), "Mac", "mac@test.cd", schoolPwd)

	require.NoError(t, f.sess.ParentLogin(ctx, "mac@test.cd", schoolPwd))
	usr, ok := f.sess.Current().(session.ParentUser)
	require.True(t, ok)
	assert.Equal(t, prt.ID, usr.ParentID)

	// parents browse schools but never tenant data
	assert.Len(t, f.sess.Schools(), 1)
	assert.Empty(t, f.sess.Students())
	assert.Empty(t, f.sess.Payments())
}

func TestSession_Logout(t *testing.T) {
	f := setup(t)
	tntRepo := inmemdb.NewTenantRepository(f.db)
	testutil.CreateStudent(t, tntRepo, schoolName, "Amani", "P1", 1000, 0)
	f.loginSchool(t)
	require.NotEmpty(t, f.sess.Students())

	f.sess.Logout()

	assert.Nil(t, f.sess.Current())
	assert.Empty(t, f.sess.Students())
	assert.Empty(t, f.sess.Payments())
	assert.Empty(t, f.sess.Classes())
	assert.Empty(t, f.sess.Schools())
	assert.Empty(t, f.sess.GeneratedCodes())

	// a fresh login works after logout
	f.loginSchool(t)
	assert.NotEmpty(t, f.sess.Students())
}

func TestSession_RoleChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		f := setup(t)
		_, err := f.sess.AddStudent(ctx, tenant.NewStudent{Name: "Amani", Class: "P1", TotalFee: 1000})
		assert.EqualError(t, err, "not authenticated")
		_, err = f.sess.GenerateActivationCode(ctx)
		assert.EqualError(t, err, "not authenticated")
		_, err = f.sess.UnpaidStudents("", "")
		assert.EqualError(t, err, "not authenticated")
	})

	t.Run("system admin cannot run tenant operations", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.sess.AdminLogin(ctx, adminPwd))
		_, err := f.sess.AddStudent(ctx, tenant.NewStudent{Name: "Amani", Class: "P1", TotalFee: 1000})
		assert.EqualError(t, err, "school administrator role required")
	})

	t.Run("school admin cannot issue codes", func(t *testing.T) {
		f := setup(t)
		f.loginSchool(t)
		_, err := f.sess.GenerateActivationCode(ctx)
		assert.EqualError(t, err, "system administrator role required")
	})

	t.Run("parent cannot run tenant operations", func(t *testing.T) {
		f := setup(t)
		testutil.CreateParent(t, inmemdb.NewParentRepository(f.db), "Mac", "mac@test.cd", schoolPwd)
		require.NoError(t, f.sess.ParentLogin(ctx, "mac@test.cd", schoolPwd))
		_, err := f.sess.RecordPayment(ctx, tenant.NewPayment{StudentID: "STD001", Amount: 10})
		assert.EqualError(t, err, "school administrator role required")
	})
}

func TestSession_TenantOperations(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.loginSchool(t)

	t.Run("add class and student", func(t *testing.T) {
		_, err := f.sess.AddClass(ctx, tenant.NewClassFee{Name: "P1", Fee: 1000})
		require.NoError(t, err)
		std, err := f.sess.AddStudent(ctx, tenant.NewStudent{Name: "Amani", Class: "P1", TotalFee: 1000})
		require.NoError(t, err)
		assert.Equal(t, "STD001", std.ID)
		assert.Len(t, f.sess.Students(), 1)
	})

	t.Run("payment patches the cached student", func(t *testing.T) {
		pmt, err := f.sess.RecordPayment(ctx, tenant.NewPayment{StudentID: "STD001", Amount: 400})
		require.NoError(t, err)
		assert.Equal(t, "PAY001", pmt.ID)

		students := f.sess.Students()
		require.Len(t, students, 1)
		assert.Equal(t, float64(400), students[0].AmountPaid)
		assert.Len(t, f.sess.Payments(), 1)
	})

	t.Run("unpaid students", func(t *testing.T) {
		unpaid, err := f.sess.UnpaidStudents("P1", "")
		require.NoError(t, err)
		require.Len(t, unpaid, 1)
		assert.Equal(t, "STD001", unpaid[0].ID)

		unpaid, err = f.sess.UnpaidStudents("P9", "")
		require.NoError(t, err)
		assert.Empty(t, unpaid)
	})

	t.Run("class rename cascades through the cache", func(t *testing.T) {
		err := f.sess.UpdateClass(ctx, tenant.UpdateClassFee{OldName: "P1", NewName: "Primary 1", Fee: 1100})
		require.NoError(t, err)

		classes := f.sess.Classes()
		require.Len(t, classes, 1)
		assert.Equal(t, "Primary 1", classes[0].Name)
		assert.Equal(t, float64(1100), classes[0].Fee)

		students := f.sess.Students()
		require.Len(t, students, 1)
		assert.Equal(t, "Primary 1", students[0].Class)
	})

	t.Run("re-adding an existing class updates the fee", func(t *testing.T) {
		cf, err := f.sess.AddClass(ctx, tenant.NewClassFee{Name: "Primary 1", Fee: 1250})
		require.NoError(t, err)
		assert.Equal(t, float64(1250), cf.Fee)
		assert.Len(t, f.sess.Classes(), 1)
	})
}

func TestSession_RegisterSchool(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.sess.AdminLogin(ctx, adminPwd))

	code, err := f.sess.GenerateActivationCode(ctx)
	require.NoError(t, err)
	assert.Len(t, f.sess.GeneratedCodes(), 2)

	ns := school.NewSchool{
		Name:            "Tumaini Academy",
		Address:         "2 Test Street",
		Email:           "head@tumaini.cd",
		Phone:           "+243812345679",
		Password:        schoolPwd,
		PasswordConfirm: schoolPwd,
	}
	sch, err := f.sess.RegisterSchool(ctx, ns, code.Code)
	require.NoError(t, err)
	assert.Equal(t, "Tumaini Academy", sch.Name)
	assert.Len(t, f.sess.Schools(), 2)

	// the cached code is now marked used
	for _, cd := range f.sess.GeneratedCodes() {
		if cd.Code == code.Code {
			assert.True(t, cd.Used)
		}
	}
}

func TestSession_RegisterParent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// public: works on an anonymous session
	prt, err := f.sess.RegisterParent(ctx, parent.NewParent{
		Name:            "Mac Kusa",
		Email:           "mac@test.cd",
		Phone:           "+243812345678",
		Password:        schoolPwd,
		PasswordConfirm: schoolPwd,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, prt.ID)

	require.NoError(t, f.sess.ParentLogin(ctx, "mac@test.cd", schoolPwd))
}
