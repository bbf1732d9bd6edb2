package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulepay/shulepay/core/session"
)

func TestStore(t *testing.T) {
	t.Run("put and get", func(t *testing.T) {
		st := session.NewStore(time.Hour)
		sess := session.New(session.Services{})

		id := st.Put(sess)
		require.NotEmpty(t, id)

		got, ok := st.Get(id)
		require.True(t, ok)
		assert.Same(t, sess, got)
	})

	t.Run("unknown id", func(t *testing.T) {
		st := session.NewStore(time.Hour)
		_, ok := st.Get("nope")
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		st := session.NewStore(time.Hour)
		id := st.Put(session.New(session.Services{}))
		st.Delete(id)
		_, ok := st.Get(id)
		assert.False(t, ok)
	})

	t.Run("expiry", func(t *testing.T) {
		st := session.NewStore(-time.Second)
		id := st.Put(session.New(session.Services{}))
		_, ok := st.Get(id)
		assert.False(t, ok)
	})

	t.Run("ids are unique", func(t *testing.T) {
		st := session.NewStore(time.Hour)
		id1 := st.Put(session.New(session.Services{}))
		id2 := st.Put(session.New(session.Services{}))
		assert.NotEqual(t, id1, id2)
	})
}
