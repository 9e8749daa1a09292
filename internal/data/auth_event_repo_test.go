package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
	"github.com/clubdesk/clubdesk-ui-api/internal/testutil"
)

func newEvent(kind domainauth.AuthEventKind, userID string, at time.Time) domainauth.AuthEvent {
	return domainauth.AuthEvent{
		ID:        uuid.NewString(),
		SessionID: "sess-test",
		UserID:    userID,
		Kind:      kind,
		At:        at,
	}
}

func TestAuthEventRepo_RecordAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	repo := NewAuthEventRepo(db)
	ctx := context.Background()
	base := testutil.TestTime()

	first := newEvent(domainauth.AuthEventLoginSucceeded, "u-1", base)
	second := newEvent(domainauth.AuthEventLogout, "u-1", base.Add(time.Minute))
	other := newEvent(domainauth.AuthEventLoginSucceeded, "u-2", base)

	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))
	require.NoError(t, repo.Record(ctx, other))

	events, err := repo.ListRecentByUser(ctx, "u-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, second.ID, events[0].ID, "newest first")
	assert.Equal(t, first.ID, events[1].ID)
	assert.Equal(t, domainauth.AuthEventLogout, events[0].Kind)
}

func TestAuthEventRepo_Record_DuplicateID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	repo := NewAuthEventRepo(db)
	ctx := context.Background()

	event := newEvent(domainauth.AuthEventLoginFailed, "", testutil.TestTime())
	require.NoError(t, repo.Record(ctx, event))

	err := repo.Record(ctx, event)
	assert.ErrorIs(t, err, ErrAuthEventExists)
}

func TestAuthEventRepo_Record_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	repo := NewAuthEventRepo(db)
	ctx := context.Background()

	err := repo.Record(ctx, domainauth.AuthEvent{SessionID: "s", Kind: domainauth.AuthEventLogout})
	assert.ErrorIs(t, err, ErrAuthEventInvalid, "missing ID")

	err = repo.Record(ctx, domainauth.AuthEvent{ID: uuid.NewString(), Kind: domainauth.AuthEventLogout})
	assert.ErrorIs(t, err, ErrAuthEventInvalid, "missing session ID")
}

func TestAuthEventRepo_Record_FillsZeroTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	fixed := NewFixedTimeProvider(testutil.TestTime())
	repo := NewAuthEventRepoWithTimeProvider(db, fixed)
	ctx := context.Background()

	event := domainauth.AuthEvent{
		ID:        uuid.NewString(),
		SessionID: "sess-test",
		UserID:    "u-3",
		Kind:      domainauth.AuthEventLoginSucceeded,
	}
	require.NoError(t, repo.Record(ctx, event))

	events, err := repo.ListRecentByUser(ctx, "u-3", 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, testutil.TestTime().Unix(), events[0].At.Unix())
}

func TestAuthEventRepo_CountFailedLoginsSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	repo := NewAuthEventRepo(db)
	ctx := context.Background()
	base := testutil.TestTime()

	require.NoError(t, repo.Record(ctx, newEvent(domainauth.AuthEventLoginFailed, "", base.Add(-2*time.Hour))))
	require.NoError(t, repo.Record(ctx, newEvent(domainauth.AuthEventLoginFailed, "", base)))
	require.NoError(t, repo.Record(ctx, newEvent(domainauth.AuthEventLoginSucceeded, "u-1", base)))

	count, err := repo.CountFailedLoginsSince(ctx, "sess-test", sql.NullTime{})
	require.NoError(t, err)
	assert.Equal(t, 2, count, "nil cutoff counts all failures")

	count, err = repo.CountFailedLoginsSince(ctx, "sess-test",
		sql.NullTime{Time: base.Add(-time.Hour), Valid: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
