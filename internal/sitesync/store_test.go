package sitesync

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/sitesync/internal/domain"
)

func TestStore_SetSitesReplacesWholesale(t *testing.T) {
	t.Parallel()

	s := NewStore()
	assert.Empty(t, s.Sites())
	assert.True(t, s.LastSetAt().IsZero())

	s.SetSites([]domain.Site{site("a"), site("b")})
	s.SetSites([]domain.Site{site("c")})

	assert.Equal(t, []string{"c"}, ids(s.Sites()))
	assert.False(t, s.LastSetAt().IsZero())
}

func TestStore_CallerSliceIsNotShared(t *testing.T) {
	t.Parallel()

	s := NewStore()
	in := []domain.Site{site("a")}
	s.SetSites(in)
	in[0] = site("z")

	out := s.Sites()
	out[0] = site("y")

	assert.Equal(t, []string{"a"}, ids(s.Sites()))
}

func TestStore_OnChange(t *testing.T) {
	t.Parallel()

	var seen [][]string
	s := NewStore(WithOnChange(func(sites []domain.Site) {
		seen = append(seen, ids(sites))
	}))
	s.SetSites([]domain.Site{site("a")})
	s.SetSites(nil)

	require.Len(t, seen, 2)
	assert.Equal(t, []string{"a"}, seen[0])
	assert.Equal(t, []string{}, seen[1])
}

func TestStore_IndependentInstances(t *testing.T) {
	t.Parallel()

	one, two := NewStore(), NewStore()
	one.SetSites([]domain.Site{site("a")})

	assert.Len(t, one.Sites(), 1)
	assert.Empty(t, two.Sites())
}

func TestStore_Update(t *testing.T) {
	t.Parallel()

	var changes int
	s := NewStore(WithOnChange(func([]domain.Site) { changes++ }))
	s.SetSites([]domain.Site{site("a")})

	s.Update(func(current []domain.Site) ([]domain.Site, bool) {
		return nil, false
	})
	assert.Equal(t, []string{"a"}, ids(s.Sites()))
	assert.Equal(t, 1, changes, "a declined update commits nothing")

	s.Update(func(current []domain.Site) ([]domain.Site, bool) {
		return append(current, site("b")), true
	})
	assert.Equal(t, []string{"a", "b"}, ids(s.Sites()))
	assert.Equal(t, 2, changes)
}

func TestStore_ConcurrentUpdatesAreNotLost(t *testing.T) {
	t.Parallel()

	s := NewStore()
	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Update(func(current []domain.Site) ([]domain.Site, bool) {
				return append(current, site(fmt.Sprintf("s%d", i))), true
			})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Sites(), writers)
}
