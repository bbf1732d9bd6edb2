package parent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/parent"
	inmemdb "github.com/shulepay/shulepay/storage/database/inmem"
	testutil "github.com/shulepay/shulepay/tests"
)

func newParentData(email string) parent.NewParent {
	return parent.NewParent{
		Name:            "Mac Kusa",
		Email:           email,
		Phone:           "+243812345678",
		Password:        "x9#Kpq2m!zu",
		PasswordConfirm: "x9#Kpq2m!zu",
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)
		prt, err := svcs.Parent.Register(ctx, newParentData("mac@test.cd"))
		require.NoError(t, err)
		assert.NotEmpty(t, prt.ID)
		assert.Equal(t, "mac@test.cd", prt.Email)
		assert.NoError(t, prt.CheckPassword("x9#Kpq2m!zu"))
	})

	t.Run("email normalized", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)
		prt, err := svcs.Parent.Register(ctx, newParentData("  Mac@Test.CD "))
		require.NoError(t, err)
		assert.Equal(t, "mac@test.cd", prt.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)
		_, err := svcs.Parent.Register(ctx, newParentData("mac@test.cd"))
		require.NoError(t, err)

		_, err = svcs.Parent.Register(ctx, newParentData("mac@test.cd"))
		var cErr *core.ConflictError
		assert.ErrorAs(t, err, &cErr)
	})

	t.Run("validation", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)

		data := newParentData("not-an-email")
		_, err := svcs.Parent.Register(ctx, data)
		assert.Error(t, err)

		data = newParentData("mac@test.cd")
		data.Password, data.PasswordConfirm = "12345678", "12345678"
		_, err = svcs.Parent.Register(ctx, data)
		assert.Error(t, err)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svcs, db := testutil.NewServices(t)
	prt := testutil.CreateParent(t, inmemdb.NewParentRepository(db), "Mac", "mac@test.cd", "x9#Kpq2m!zu")

	t.Run("success", func(t *testing.T) {
		got, err := svcs.Parent.Authenticate(ctx, "mac@test.cd", "x9#Kpq2m!zu")
		require.NoError(t, err)
		assert.Equal(t, prt.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svcs.Parent.Authenticate(ctx, "mac@test.cd", "nope")
		var aErr *core.AuthenticationError
		require.ErrorAs(t, err, &aErr)
		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("unknown email reads the same", func(t *testing.T) {
		_, err := svcs.Parent.Authenticate(ctx, "ghost@test.cd", "x9#Kpq2m!zu")
		var aErr *core.AuthenticationError
		require.ErrorAs(t, err, &aErr)
	})
}
