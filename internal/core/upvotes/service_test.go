package upvotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SkillLog/internal/core/toggles"
	"SkillLog/internal/events"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Apply(ctx context.Context, voterID string, item toggles.Item, desired *bool) (*Result, error) {
	args := m.Called(ctx, voterID, item, desired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

func (m *mockRepository) ListUpvoted(ctx context.Context, voterID string, itemType toggles.ItemType) ([]Upvote, error) {
	args := m.Called(ctx, voterID, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Upvote), args.Error(1)
}

func (m *mockRepository) Recount(ctx context.Context) (*RecountStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RecountStats), args.Error(1)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.Event) error {
	p.events = append(p.events, evt)
	return nil
}

func boolPtr(b bool) *bool { return &b }

var logItem = toggles.Item{ID: "log-1", Type: toggles.ItemTypeLog, AuthorID: "author"}

func TestSetUpvote_Added(t *testing.T) {
	repo := new(mockRepository)
	pub := &recordingPublisher{}
	cache := NewViewerCache(time.Minute, nil)
	cache.SetForViewer("voter", cache.Stamp(), nil)

	repo.On("Apply", mock.Anything, "voter", logItem, boolPtr(true)).
		Return(&Result{ItemID: "log-1", ItemType: toggles.ItemTypeLog, Upvoted: true, Count: 8, Changed: true}, nil)

	svc := NewService(repo, cache, pub, nil)
	res, err := svc.SetUpvote(context.Background(), "voter", SetUpvoteRequest{
		ItemID: "log-1", ItemType: toggles.ItemTypeLog, AuthorID: "author", Upvoted: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Count)

	hit, ok := cache.Lookup("voter", toggles.ItemTypeLog, []string{"log-1"})
	require.True(t, ok)
	assert.True(t, hit["log-1"])

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeUpvoteToggled, pub.events[0].Type)
	assert.Equal(t, "author", pub.events[0].Key)
}

func TestSetUpvote_UnchangedSkipsEvent(t *testing.T) {
	repo := new(mockRepository)
	pub := &recordingPublisher{}
	repo.On("Apply", mock.Anything, "voter", logItem, boolPtr(true)).
		Return(&Result{ItemID: "log-1", Upvoted: true, Count: 8}, nil)

	_, err := NewService(repo, nil, pub, nil).SetUpvote(context.Background(), "voter", SetUpvoteRequest{
		ItemID: "log-1", ItemType: toggles.ItemTypeLog, AuthorID: "author", Upvoted: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Empty(t, pub.events)
}

func TestSetUpvote_Validation(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.SetUpvote(context.Background(), "", SetUpvoteRequest{})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.SetUpvote(context.Background(), "voter", SetUpvoteRequest{ItemID: "x", ItemType: "post", AuthorID: "a"})
	assert.ErrorIs(t, err, toggles.ErrInvalidItemType)
	assert.True(t, IsValidationError(err))

	repo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetUpvote_RepositoryErrors(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Apply", mock.Anything, "voter", logItem, (*bool)(nil)).Return(nil, ErrAuthorMismatch).Once()
	repo.On("Apply", mock.Anything, "voter", logItem, (*bool)(nil)).Return(nil, errors.New("deadlock detected")).Once()
	svc := NewService(repo, nil, nil, nil)
	req := SetUpvoteRequest{ItemID: "log-1", ItemType: toggles.ItemTypeLog, AuthorID: "author"}

	_, err := svc.SetUpvote(context.Background(), "voter", req)
	assert.ErrorIs(t, err, ErrAuthorMismatch)

	_, err = svc.SetUpvote(context.Background(), "voter", req)
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "deadlock")
}

func TestListUpvoted(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ListUpvoted", mock.Anything, "voter", toggles.ItemTypeComment).Return([]Upvote{
		{ItemID: "c1", ItemType: toggles.ItemTypeComment},
		{ItemID: "c2", ItemType: toggles.ItemTypeComment},
	}, nil)
	svc := NewService(repo, nil, nil, nil)

	ids, err := svc.ListUpvoted(context.Background(), "voter", toggles.ItemTypeComment)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, ids)

	_, err = svc.ListUpvoted(context.Background(), "voter", "post")
	assert.ErrorIs(t, err, toggles.ErrInvalidItemType)
}

func TestViewerUpvotes_WarmsCacheOnce(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ListUpvoted", mock.Anything, "viewer", toggles.ItemType("")).Return([]Upvote{
		{ItemID: "log-1", ItemType: toggles.ItemTypeLog},
		{ItemID: "c1", ItemType: toggles.ItemTypeComment},
	}, nil).Once()
	svc := NewService(repo, NewViewerCache(time.Minute, nil), nil, nil)

	got, err := svc.ViewerUpvotes(context.Background(), "viewer", toggles.ItemTypeLog, []string{"log-1", "log-2", "c1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"log-1": true}, got)

	got, err = svc.ViewerUpvotes(context.Background(), "viewer", toggles.ItemTypeComment, []string{"c1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"c1": true}, got)

	repo.AssertNumberOfCalls(t, "ListUpvoted", 1)
}

func TestViewerUpvotes_ConcurrentSetUpvoteNotLost(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, NewViewerCache(time.Minute, nil), nil, nil)

	// The upvote commits while the viewer's set is being read, so the read
	// still returns the old state.
	repo.On("Apply", mock.Anything, "viewer", logItem, boolPtr(true)).
		Return(&Result{ItemID: "log-1", ItemType: toggles.ItemTypeLog, Upvoted: true, Changed: true, Count: 1}, nil)
	repo.On("ListUpvoted", mock.Anything, "viewer", toggles.ItemType("")).
		Run(func(args mock.Arguments) {
			_, err := svc.SetUpvote(context.Background(), "viewer", SetUpvoteRequest{
				ItemID: "log-1", ItemType: toggles.ItemTypeLog, AuthorID: "author", Upvoted: boolPtr(true),
			})
			require.NoError(t, err)
		}).
		Return([]Upvote{}, nil).Once()
	repo.On("ListUpvoted", mock.Anything, "viewer", toggles.ItemType("")).
		Return([]Upvote{{ItemID: "log-1", ItemType: toggles.ItemTypeLog}}, nil).Once()

	got, err := svc.ViewerUpvotes(context.Background(), "viewer", toggles.ItemTypeLog, []string{"log-1"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.ViewerUpvotes(context.Background(), "viewer", toggles.ItemTypeLog, []string{"log-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"log-1": true}, got)
	repo.AssertNumberOfCalls(t, "ListUpvoted", 2)
}

func TestForgetViewers(t *testing.T) {
	repo := new(mockRepository)
	repo.On("ListUpvoted", mock.Anything, "viewer", toggles.ItemType("")).
		Return([]Upvote{{ItemID: "log-1", ItemType: toggles.ItemTypeLog}}, nil).Once()
	repo.On("ListUpvoted", mock.Anything, "viewer", toggles.ItemType("")).
		Return([]Upvote{}, nil).Once()
	svc := NewService(repo, NewViewerCache(time.Minute, nil), nil, nil)

	got, err := svc.ViewerUpvotes(context.Background(), "viewer", toggles.ItemTypeLog, []string{"log-1"})
	require.NoError(t, err)
	assert.True(t, got["log-1"])

	svc.ForgetViewers([]string{"viewer", "someone-else"})

	got, err = svc.ViewerUpvotes(context.Background(), "viewer", toggles.ItemTypeLog, []string{"log-1"})
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertNumberOfCalls(t, "ListUpvoted", 2)

	NewService(repo, nil, nil, nil).ForgetViewers([]string{"viewer"})
}

func TestViewerUpvotes_Anonymous(t *testing.T) {
	repo := new(mockRepository)
	got, err := NewService(repo, nil, nil, nil).ViewerUpvotes(context.Background(), "", toggles.ItemTypeLog, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertNotCalled(t, "ListUpvoted", mock.Anything, mock.Anything, mock.Anything)
}
