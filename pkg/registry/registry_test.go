package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

func TestRegistry(t *testing.T) {
	r := New[int]()

	require.NoError(t, r.Register("packages", 1))
	require.NoError(t, r.Register("snaps", 2))
	require.NoError(t, r.Register("repos", 3))

	t.Run("registration order is kept", func(t *testing.T) {
		assert.Equal(t, []string{"packages", "snaps", "repos"}, r.List())
		assert.Equal(t, 3, r.Count())
	})

	t.Run("duplicate and empty names", func(t *testing.T) {
		err := r.Register("snaps", 9)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

		err = r.Register("", 9)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

		assert.Panics(t, func() { r.MustRegister("repos", 9) })
	})

	t.Run("get", func(t *testing.T) {
		v, err := r.Get("snaps")
		require.NoError(t, err)
		assert.Equal(t, 2, v)
		assert.True(t, r.Has("snaps"))

		_, err = r.Get("gnome")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
		assert.False(t, r.Has("gnome"))
	})

	t.Run("resolve follows the requested order", func(t *testing.T) {
		vs, err := r.Resolve([]string{"repos", "packages"})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1}, vs)

		_, err = r.Resolve([]string{"repos", "gnome", "flatpak"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gnome")
		assert.Contains(t, err.Error(), "flatpak")
	})
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := New[string]()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(string(rune('a'+i)), "x")
			_ = r.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, r.Count())
}
