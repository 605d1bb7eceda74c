// internal/service/collector/service_test.go

package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
)

type fakeStore struct {
	snapshots []metrics.ProfileSnapshot
	posts     []metrics.PostRecord
	history   int

	snapshotErr error
	postErr     error
}

func (f *fakeStore) SaveSnapshot(_ context.Context, snapshot metrics.ProfileSnapshot) error {
	if f.snapshotErr != nil {
		return f.snapshotErr
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeStore) UpsertPost(_ context.Context, post metrics.PostRecord) (int64, error) {
	if f.postErr != nil {
		return 0, f.postErr
	}
	f.posts = append(f.posts, post)
	return int64(len(f.posts)), nil
}

func (f *fakeStore) SavePostHistory(_ context.Context, _ int64, _ metrics.PostRecord) error {
	f.history++
	return nil
}

type fakeProvider struct {
	platform string
	snapshot *metrics.ProfileSnapshot
	posts    []metrics.PostRecord
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Supports(platform string) bool { return platform == f.platform }

func (f *fakeProvider) Fetch(_ context.Context, _ author.SocialAccount, _, _ time.Time) (*metrics.ProfileSnapshot, []metrics.PostRecord, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.snapshot, f.posts, nil
}

func TestCollect(t *testing.T) {
	store := &fakeStore{}
	provider := &fakeProvider{
		platform: author.PlatformTikTok,
		snapshot: &metrics.ProfileSnapshot{FollowersCount: 1000},
		posts: []metrics.PostRecord{
			{PlatformPostID: "p1", ViewsCount: 100},
			{PlatformPostID: "p2", ViewsCount: 200},
		},
	}
	svc := NewService(store, []Provider{provider}, nil, "collect")

	account := author.SocialAccount{ID: 7, Platform: author.PlatformTikTok, Username: "creator"}
	result, err := svc.Collect(context.Background(), account, time.Now().AddDate(0, 0, -30), time.Now())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.True(t, result.ProfileUpdated)
	assert.Equal(t, 2, result.PostsCollected)

	require.Len(t, store.snapshots, 1)
	assert.Equal(t, int64(7), store.snapshots[0].AccountID)
	require.Len(t, store.posts, 2)
	assert.Equal(t, int64(7), store.posts[0].AccountID)
	assert.Equal(t, 2, store.history)
}

func TestCollectNoProvider(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil, "collect")

	account := author.SocialAccount{ID: 1, Platform: author.PlatformFacebook}
	_, err := svc.Collect(context.Background(), account, time.Now().AddDate(0, 0, -7), time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestCollectFetchError(t *testing.T) {
	provider := &fakeProvider{platform: author.PlatformTikTok, err: errors.New("upstream down")}
	svc := NewService(&fakeStore{}, []Provider{provider}, nil, "collect")

	account := author.SocialAccount{ID: 1, Platform: author.PlatformTikTok}
	_, err := svc.Collect(context.Background(), account, time.Now().AddDate(0, 0, -7), time.Now())
	assert.Error(t, err)
}

func TestCollectSnapshotSaveError(t *testing.T) {
	store := &fakeStore{snapshotErr: errors.New("db down")}
	provider := &fakeProvider{
		platform: author.PlatformTikTok,
		snapshot: &metrics.ProfileSnapshot{FollowersCount: 10},
	}
	svc := NewService(store, []Provider{provider}, nil, "collect")

	account := author.SocialAccount{ID: 1, Platform: author.PlatformTikTok}
	_, err := svc.Collect(context.Background(), account, time.Now().AddDate(0, 0, -7), time.Now())
	assert.Error(t, err)
}

// A provider may return posts without a snapshot; the run still succeeds and
// reports the profile untouched.
func TestCollectWithoutSnapshot(t *testing.T) {
	store := &fakeStore{}
	provider := &fakeProvider{
		platform: author.PlatformTelegram,
		posts:    []metrics.PostRecord{{PlatformPostID: "m1"}},
	}
	svc := NewService(store, []Provider{provider}, nil, "collect")

	account := author.SocialAccount{ID: 2, Platform: author.PlatformTelegram}
	result, err := svc.Collect(context.Background(), account, time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)

	assert.False(t, result.ProfileUpdated)
	assert.Equal(t, 1, result.PostsCollected)
	assert.Empty(t, store.snapshots)
}
