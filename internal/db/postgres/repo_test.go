package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SkillLog/internal/core/circles"
	"SkillLog/internal/core/comments"
	"SkillLog/internal/core/logs"
	"SkillLog/internal/core/outreach"
	"SkillLog/internal/core/profiles"
	"SkillLog/internal/core/toggles"
	"SkillLog/internal/core/upvotes"
)

// setupTestDB connects to TEST_DATABASE_URL and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../migrations"), "Failed to run migrations")

	return db
}

// createTestProfile inserts a profile with a unique id and removes it when the test ends
func createTestProfile(t *testing.T, db *sql.DB, role profiles.Role) *profiles.Profile {
	t.Helper()
	repo := NewProfileRepository(db)
	p, err := repo.Create(context.Background(), &profiles.Profile{
		ID:          "test-" + uuid.NewString(),
		DisplayName: "tester",
		Role:        role,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM upvotes WHERE voter_id = $1`, p.ID)
		_, _ = db.Exec(`DELETE FROM profiles WHERE id = $1`, p.ID)
	})
	return p
}

func createTestLog(t *testing.T, db *sql.DB, userID string, public bool, tags ...string) *logs.LogEntry {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	entry, err := NewLogRepository(db).Create(context.Background(), &logs.LogEntry{
		UserID:   userID,
		Text:     "learned something",
		Mood:     logs.MoodGreat,
		Tags:     tags,
		IsPublic: public,
	})
	require.NoError(t, err)
	return entry
}

func reputationOf(t *testing.T, db *sql.DB, id string) int {
	t.Helper()
	p, err := NewProfileRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Reputation
}

func TestProfileRepo_CreateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(db)

	p := createTestProfile(t, db, profiles.RoleDeveloper)
	again, err := repo.Create(ctx, &profiles.Profile{ID: p.ID, DisplayName: "other", Role: profiles.RoleRecruiter})
	require.NoError(t, err)
	assert.Equal(t, "tester", again.DisplayName)
	assert.Equal(t, profiles.RoleDeveloper, again.Role)

	_, err = repo.GetByID(ctx, "test-missing-"+uuid.NewString())
	assert.ErrorIs(t, err, profiles.ErrProfileNotFound)

	found, err := repo.GetByIDs(ctx, []string{p.ID, "test-missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestLogRepo_ListAndActivity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewLogRepository(db)

	owner := createTestProfile(t, db, profiles.RoleDeveloper)
	public := createTestLog(t, db, owner.ID, true, "go", "sql")
	createTestLog(t, db, owner.ID, false)

	assert.Equal(t, []string{"go", "sql"}, public.Tags)
	assert.False(t, public.CreatedAt.IsZero())

	mine, err := repo.ListByUser(ctx, owner.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := repo.ListByUser(ctx, owner.ID, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, public.ID, theirs[0].ID)

	tagged, err := repo.ListPublic(ctx, logs.FeedQuery{Tag: "go", Sort: logs.SortRecent, Limit: 50})
	require.NoError(t, err)
	ids := make([]string, 0, len(tagged))
	for _, e := range tagged {
		ids = append(ids, e.ID)
	}
	assert.Contains(t, ids, public.ID)

	times, err := repo.ListActivityTimes(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, times, 2)
}

func TestUpvoteRepo_Apply(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUpvoteRepository(db)

	author := createTestProfile(t, db, profiles.RoleDeveloper)
	voter := createTestProfile(t, db, profiles.RoleDeveloper)
	entry := createTestLog(t, db, author.ID, true)
	item := toggles.Item{ID: entry.ID, Type: toggles.ItemTypeLog, AuthorID: author.ID}

	on := true
	res, err := repo.Apply(ctx, voter.ID, item, &on)
	require.NoError(t, err)
	assert.True(t, res.Upvoted)
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, reputationOf(t, db, author.ID))

	// Setting the same state again changes nothing
	res, err = repo.Apply(ctx, voter.ID, item, &on)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, reputationOf(t, db, author.ID))

	// nil flips
	res, err = repo.Apply(ctx, voter.ID, item, nil)
	require.NoError(t, err)
	assert.False(t, res.Upvoted)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, 0, reputationOf(t, db, author.ID))

	list, err := repo.ListUpvoted(ctx, voter.ID, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpvoteRepo_Apply_Errors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUpvoteRepository(db)

	author := createTestProfile(t, db, profiles.RoleDeveloper)
	voter := createTestProfile(t, db, profiles.RoleDeveloper)
	entry := createTestLog(t, db, author.ID, true)

	_, err := repo.Apply(ctx, voter.ID, toggles.Item{ID: entry.ID, Type: toggles.ItemTypeLog, AuthorID: voter.ID}, nil)
	assert.ErrorIs(t, err, upvotes.ErrAuthorMismatch)

	_, err = repo.Apply(ctx, voter.ID, toggles.Item{ID: uuid.NewString(), Type: toggles.ItemTypeComment, AuthorID: author.ID}, nil)
	assert.ErrorIs(t, err, upvotes.ErrItemNotFound)
}

func TestUpvoteRepo_Recount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUpvoteRepository(db)

	author := createTestProfile(t, db, profiles.RoleDeveloper)
	voter := createTestProfile(t, db, profiles.RoleDeveloper)
	entry := createTestLog(t, db, author.ID, true)

	_, err := repo.Apply(ctx, voter.ID, toggles.Item{ID: entry.ID, Type: toggles.ItemTypeLog, AuthorID: author.ID}, nil)
	require.NoError(t, err)

	// Simulate drift
	_, err = db.Exec(`UPDATE logs SET upvotes = 7 WHERE id = $1`, entry.ID)
	require.NoError(t, err)

	stats, err := repo.Recount(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.LogsUpdated, 1)

	got, err := NewLogRepository(db).GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 1, reputationOf(t, db, author.ID))
}

func TestLogRepo_DeleteReversesReputation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := createTestProfile(t, db, profiles.RoleDeveloper)
	commenter := createTestProfile(t, db, profiles.RoleDeveloper)
	voter := createTestProfile(t, db, profiles.RoleDeveloper)
	entry := createTestLog(t, db, author.ID, true)

	comment, err := NewCommentRepository(db).Create(ctx, &comments.Comment{LogID: entry.ID, UserID: commenter.ID, Content: "nice"})
	require.NoError(t, err)

	upvoteRepo := NewUpvoteRepository(db)
	_, err = upvoteRepo.Apply(ctx, voter.ID, toggles.Item{ID: entry.ID, Type: toggles.ItemTypeLog, AuthorID: author.ID}, nil)
	require.NoError(t, err)
	_, err = upvoteRepo.Apply(ctx, voter.ID, toggles.Item{ID: comment.ID, Type: toggles.ItemTypeComment, AuthorID: commenter.ID}, nil)
	require.NoError(t, err)

	got, err := NewLogRepository(db).GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)

	voters, err := NewLogRepository(db).Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{voter.ID}, voters)
	assert.Equal(t, 0, reputationOf(t, db, author.ID))
	assert.Equal(t, 0, reputationOf(t, db, commenter.ID))

	list, err := upvoteRepo.ListUpvoted(ctx, voter.ID, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = NewLogRepository(db).Delete(ctx, entry.ID)
	assert.ErrorIs(t, err, logs.ErrLogNotFound)
}

func TestCommentRepo_CreateOnMissingLog(t *testing.T) {
	db := setupTestDB(t)
	user := createTestProfile(t, db, profiles.RoleDeveloper)

	_, err := NewCommentRepository(db).Create(context.Background(), &comments.Comment{
		LogID: uuid.NewString(), UserID: user.ID, Content: "hello",
	})
	assert.ErrorIs(t, err, comments.ErrLogNotFound)
}

func TestCircleRepo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCircleRepository(db)

	owner := createTestProfile(t, db, profiles.RoleDeveloper)
	name := "test-" + uuid.NewString()[:8]

	circle, err := repo.Create(ctx, &circles.Circle{Name: name, CreatedBy: owner.ID})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &circles.Circle{Name: name, CreatedBy: owner.ID})
	assert.ErrorIs(t, err, circles.ErrCircleExists)

	for _, content := range []string{"first", "second", "third"} {
		_, err := repo.CreateMessage(ctx, &circles.Message{CircleID: circle.ID, UserID: owner.ID, Content: content})
		require.NoError(t, err)
	}

	msgs, err := repo.ListMessages(ctx, circle.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[0].Content)
	assert.Equal(t, "third", msgs[1].Content)
}

func TestOutreachRepo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewOutreachRepository(db)

	dev := createTestProfile(t, db, profiles.RoleDeveloper)
	recruiter := createTestProfile(t, db, profiles.RoleRecruiter)

	_, err := repo.Create(ctx, &outreach.Message{DeveloperID: dev.ID, RecruiterID: recruiter.ID, Message: "hi"})
	require.NoError(t, err)

	inbox, err := repo.ListByDeveloper(ctx, dev.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, recruiter.ID, inbox[0].RecruiterID)
}
