package activation_test

import (
	"context"
	"fmt"
	"math/rand"
	"net/mail"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
	emailsvc "github.com/shulepay/shulepay/services/email"
	inmemdb "github.com/shulepay/shulepay/storage/database/inmem"
	testutil "github.com/shulepay/shulepay/tests"
)

var codePattern = regexp.MustCompile(`^SCHOOL\d{4}$`)

func inmemActivationRepo(db *inmemdb.DB) activation.Repository {
	return inmemdb.NewActivationRepository(db)
}

func restoreCodeFunc() {
	activation.CodeFunc = func() string { return fmt.Sprintf("SCHOOL%04d", 1000+rand.Intn(9000)) }
}

func TestCodeFunc(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, codePattern, activation.CodeFunc())
	}
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("issues an unused code", func(t *testing.T) {
		svcs, _ := testutil.NewServices(t)
		code, err := svcs.Activation.Generate(ctx)
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code.Code)
		assert.False(t, code.Used)
		assert.False(t, code.CreatedAt.IsZero())

		got, err := svcs.Activation.Get(ctx, code.Code)
		require.NoError(t, err)
		assert.Equal(t, code, got)
	})

	t.Run("retries on collision", func(t *testing.T) {
		svcs, db := testutil.NewServices(t)
		testutil.CreateCode(t, inmemActivationRepo(db), "SCHOOL1111", false)

		draws := []string{"SCHOOL1111", "SCHOOL2222"}
		activation.CodeFunc = func() string {
			draw := draws[0]
			if len(draws) > 1 {
				draws = draws[1:]
			}
			return draw
		}
		defer restoreCodeFunc()

		code, err := svcs.Activation.Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "SCHOOL2222", code.Code)
	})

	t.Run("gives up after exhausting attempts", func(t *testing.T) {
		svcs, db := testutil.NewServices(t)
		testutil.CreateCode(t, inmemActivationRepo(db), "SCHOOL3333", false)

		activation.CodeFunc = func() string { return "SCHOOL3333" }
		defer restoreCodeFunc()

		_, err := svcs.Activation.Generate(ctx)
		var cErr *core.ConflictError
		assert.ErrorAs(t, err, &cErr)
	})
}

func TestService_GenerateFor(t *testing.T) {
	svcs, _ := testutil.NewServices(t)

	recipient := mail.Address{Address: "head@mwanga.cd"}
	code, err := svcs.Activation.GenerateFor(context.Background(), recipient)
	require.NoError(t, err)

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, []mail.Address{recipient}, msg.To)
	assert.Equal(t, "Your school activation code", msg.Subject)
	assert.Contains(t, msg.TextContent, code.Code)
}

func TestService_QueryAll(t *testing.T) {
	svcs, db := testutil.NewServices(t)
	repo := inmemActivationRepo(db)
	testutil.CreateCode(t, repo, "SCHOOL1000", false)
	testutil.CreateCode(t, repo, "SCHOOL2000", true)

	codes, err := svcs.Activation.QueryAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, codes, 2)
}
