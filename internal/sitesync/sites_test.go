package sitesync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
	"github.com/hamed0406/sitesync/internal/repo/mocks"
)

func TestSites_StartSubscribesThenResyncs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	events := mocks.NewMockEventChannel(ctrl)
	syncSub := mocks.NewMockSubscription(ctrl)
	statusSub := mocks.NewMockSubscription(ctrl)

	var commits [][]string
	s := New(backend, events, WithCommitHook(func(sites []domain.Site) {
		commits = append(commits, ids(sites))
	}))

	var onStatus func(domain.StatusUpdate)
	events.EXPECT().OnStateSyncEvent(gomock.Any()).Return(syncSub, nil).Times(1)
	events.EXPECT().StatusCategories().Return([]domain.StatusCategory{domain.CategoryStatusChanged})
	events.EXPECT().OnStatusUpdate(domain.CategoryStatusChanged, gomock.Any()).DoAndReturn(
		func(_ domain.StatusCategory, h func(domain.StatusUpdate)) (repo.Subscription, error) {
			onStatus = h
			return statusSub, nil
		})
	backend.EXPECT().GetSites(gomock.Any()).Return([]domain.Site{site("a"), site("b")}, nil)

	var seen []string
	res, err := s.Start(context.Background(), func(u domain.StatusUpdate) {
		seen = append(seen, u.Site.Identifier)
	})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, []string{"a", "b"}, ids(s.Store.Sites()))

	updated := site("a", monitor("a-m1", domain.StatusDown))
	onStatus(domain.StatusUpdate{Site: updated, MonitorID: "a-m1", Status: domain.StatusDown})
	assert.Equal(t, []string{"a"}, seen)
	assert.Equal(t, domain.StatusDown, s.Store.Sites()[0].Monitors[0].Status)
	assert.Equal(t, [][]string{{"a", "b"}, {"a", "b"}}, commits)

	syncSub.EXPECT().Cancel().Times(1)
	statusSub.EXPECT().Cancel().Times(1)
	s.Close()
	s.Close()
	assert.False(t, s.Status.Subscribed())
}

func TestSites_StartReportsResyncFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	events := mocks.NewMockEventChannel(ctrl)
	boom := errors.New("backend unavailable")

	events.EXPECT().OnStateSyncEvent(gomock.Any()).Return(repo.SubscriptionFunc(func() {}), nil)
	events.EXPECT().StatusCategories().Return(nil)
	backend.EXPECT().GetSites(gomock.Any()).Return(nil, boom)

	s := New(backend, events)
	res, err := s.Start(context.Background(), nil)
	assert.Same(t, boom, err)
	assert.Zero(t, res.RequestedListeners)
	assert.Empty(t, s.Store.Sites())
}

func TestSites_InstancesAreIndependent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().GetSites(gomock.Any()).Return([]domain.Site{site("only-one")}, nil)

	one := New(backend, nil)
	two := New(backend, nil)

	require.NoError(t, one.Coordinator.SyncSites(context.Background()))
	assert.Equal(t, []string{"only-one"}, ids(one.Store.Sites()))
	assert.Empty(t, two.Store.Sites())
}
