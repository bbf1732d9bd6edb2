package school_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/school"
	emailsvc "github.com/shulepay/shulepay/services/email"
	inmemdb "github.com/shulepay/shulepay/storage/database/inmem"
	testutil "github.com/shulepay/shulepay/tests"
)

func newSchoolData(name string) school.NewSchool {
	return school.NewSchool{
		Name:            name,
		Address:         "1 Test Street",
		Email:           "head@mwanga.cd",
		Phone:           "+243812345678",
		Password:        "x9#Kpq2m!zu",
		PasswordConfirm: "x9#Kpq2m!zu",
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success consumes the code", func(t *testing.T) {
		svcs, db := testutil.NewServices(t)
		actRepo := inmemdb.NewActivationRepository(db)
		testutil.CreateCode(t, actRepo, "SCHOOL1234", false)

		sch, err := svcs.School.Register(ctx, newSchoolData("Mwanga Primary"), "SCHOOL1234")
		require.NoError(t, err)
		assert.Equal(t, "Mwanga Primary", sch.Name)
		assert.Equal(t, "SCHOOL1234", sch.ActivationCode)
		assert.NoError(t, sch.CheckPassword("x9#Kpq2m!zu"))
		assert.Error(t, sch.CheckPassword("wrong"))

		code, err := actRepo.GetCode(ctx, "SCHOOL1234")
		require.NoError(t, err)
		assert.True(t, code.Used)

		require.Len(t, emailsvc.SentMessages, 1)
		assert.Equal(t, "Welcome to Shulepay", emailsvc.SentMessages[0].Subject)
		assert.Contains(t, emailsvc.SentMessages[0].TextContent, "Mwanga Primary")
	})

	t.Run("unknown code", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)
		_, err := svcs.School.Register(ctx, newSchoolData("Mwanga Primary"), "SCHOOL9999")
		var aErr *core.AuthorizationError
		require.ErrorAs(t, err, &aErr)
		assert.EqualError(t, err, "invalid activation code")
	})

	t.Run("empty code", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)
		_, err := svcs.School.Register(ctx, newSchoolData("Mwanga Primary"), "  ")
		var aErr *core.AuthorizationError
		require.ErrorAs(t, err, &aErr)
	})

	t.Run("used code", func(t *testing.T) {
		svcs, db := testutil.NewServices(t)
		testutil.CreateCode(t, inmemdb.NewActivationRepository(db), "SCHOOL1234", true)

		_, err := svcs.School.Register(ctx, newSchoolData("Mwanga Primary"), "SCHOOL1234")
		var aErr *core.AuthorizationError
		require.ErrorAs(t, err, &aErr)
		assert.EqualError(t, err, "activation code already used")
	})

	t.Run("a used code cannot register a second school", func(t *testing.T) {
		svcs, db := testutil.NewServices(t)
		testutil.CreateCode(t, inmemdb.NewActivationRepository(db), "SCHOOL1234", false)

		_, err := svcs.School.Register(ctx, newSchoolData("Mwanga Primary"), "SCHOOL1234")
		require.NoError(t, err)

		_, err = svcs.School.Register(ctx, newSchoolData("Tumaini Academy"), "SCHOOL1234")
		var aErr *core.AuthorizationError
		require.ErrorAs(t, err, &aErr)
	})

	t.Run("name taken", func(t *testing.T) {
		svcs, db := testutil.NewServices(t)
		actRepo := inmemdb.NewActivationRepository(db)
		testutil.CreateCode(t, actRepo, "SCHOOL1234", false)
		testutil.CreateCode(t, actRepo, "SCHOOL5678", false)

		_, err := svcs.School.Register(ctx, newSchoolData("Mwanga Primary"), "SCHOOL1234")
		require.NoError(t, err)

		_, err = svcs.School.Register(ctx, newSchoolData("Mwanga Primary"), "SCHOOL5678")
		var cErr *core.ConflictError
		require.ErrorAs(t, err, &cErr)

		// the second code survives the failed attempt
		code, err := actRepo.GetCode(ctx, "SCHOOL5678")
		require.NoError(t, err)
		assert.False(t, code.Used)
	})

	t.Run("validation", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)

		data := newSchoolData("Mwanga Primary")
		data.PasswordConfirm = "different"
		_, err := svcs.School.Register(ctx, data, "SCHOOL1234")
		assert.Error(t, err)

		data = newSchoolData("Mwanga Primary")
		data.Password, data.PasswordConfirm = "short", "short"
		_, err = svcs.School.Register(ctx, data, "SCHOOL1234")
		assert.Error(t, err)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svcs, db := testutil.NewServices(t)

	testutil.CreateCode(t, inmemdb.NewActivationRepository(db), "SCHOOL1234", false)
	testutil.CreateSchool(t, inmemdb.NewSchoolRepository(db), "Mwanga Primary", "x9#Kpq2m!zu", "SCHOOL1234")

	t.Run("success", func(t *testing.T) {
		sch, err := svcs.School.Authenticate(ctx, "Mwanga Primary", "x9#Kpq2m!zu")
		require.NoError(t, err)
		assert.Equal(t, "Mwanga Primary", sch.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svcs.School.Authenticate(ctx, "Mwanga Primary", "nope")
		var aErr *core.AuthenticationError
		require.ErrorAs(t, err, &aErr)
		assert.EqualError(t, err, "invalid school name or password")
	})

	t.Run("unknown school reads the same", func(t *testing.T) {
		_, err := svcs.School.Authenticate(ctx, "Nope Academy", "x9#Kpq2m!zu")
		var aErr *core.AuthenticationError
		require.ErrorAs(t, err, &aErr)
		assert.EqualError(t, err, "invalid school name or password")
	})
}
