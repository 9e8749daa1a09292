package authstate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
	mocksauth "github.com/clubdesk/clubdesk-ui-api/internal/mocks/auth"
	"github.com/clubdesk/clubdesk-ui-api/internal/ports"
	"github.com/clubdesk/clubdesk-ui-api/internal/testutil"
)

const (
	adminToken = "token-admin"
	coachToken = "token-coach"
)

type stateFixture struct {
	state     *State
	store     *mocksauth.FlakyTokenStore
	provider  *mocksauth.MockIdentityProvider
	extractor *mocksauth.StubClaimExtractor
	recorder  *mocksauth.MemoryEventRecorder
}

func newFixture(t *testing.T) *stateFixture {
	t.Helper()

	f := &stateFixture{
		store:    &mocksauth.FlakyTokenStore{},
		provider: &mocksauth.MockIdentityProvider{},
		recorder: &mocksauth.MemoryEventRecorder{},
		extractor: &mocksauth.StubClaimExtractor{
			Claims: map[string][]string{
				adminToken: {"admin"},
				coachToken: {"entraineur"},
			},
			Expiries: map[string]time.Time{
				adminToken: testutil.TestTime().Add(time.Hour),
				coachToken: testutil.TestTime().Add(time.Hour),
			},
		},
	}

	state, err := New(Options{
		SessionID: "sess-test",
		Store:     f.store,
		Extractor: f.extractor,
		Provider:  f.provider,
		Audit:     f.recorder,
		Now:       testutil.FixedTimeFunc(testutil.TestTime()),
	})
	require.NoError(t, err)
	f.state = state
	return f
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestState_Init_HydratesFromStore(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(adminToken, &domainauth.User{ID: "u-1", Role: "admin"})

	f.state.Init(context.Background())

	assert.True(t, f.state.CurrentRoles().Has(domainauth.RoleAdmin))
	user := f.state.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)
	assert.True(t, f.state.IsAuthenticated())
}

func TestState_Init_StorageErrorsMeanUnauthenticated(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(adminToken, &domainauth.User{ID: "u-1"})
	f.store.LoadTokenErr = assert.AnError
	f.store.LoadUserErr = assert.AnError

	f.state.Init(context.Background())

	assert.False(t, f.state.IsAuthenticated())
	assert.True(t, f.state.CurrentRoles().IsEmpty())
	assert.Nil(t, f.state.CurrentUser())
}

func TestState_Login_Success(t *testing.T) {
	f := newFixture(t)
	f.provider.Result = ports.LoginResult{
		Token: coachToken,
		User:  domainauth.User{ID: "u-coach", Role: "entraineur"},
	}

	require.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "c@x", Password: "pw"}))

	assert.True(t, f.state.CurrentRoles().Has(domainauth.RoleCoach))
	assert.True(t, f.state.IsAuthenticated())

	// Credentials and user land in the store for the next process start.
	token, err := f.store.LoadToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, coachToken, token)

	events := f.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domainauth.AuthEventLoginSucceeded, events[0].Kind)
	assert.Equal(t, "u-coach", events[0].UserID)
	assert.Equal(t, "sess-test", events[0].SessionID)
}

func TestState_Login_FailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(adminToken, &domainauth.User{ID: "u-1", Role: "admin"})
	f.state.Init(context.Background())

	var notifications []domainauth.RoleSet
	unsub := f.state.SubscribeRoles(func(roles domainauth.RoleSet) {
		notifications = append(notifications, roles)
	})
	defer unsub()
	require.Len(t, notifications, 1, "immediate replay")

	f.provider.Err = ports.ErrInvalidCredentials
	err := f.state.Login(context.Background(), ports.Credentials{Email: "c@x", Password: "bad"})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)

	// Prior session survives the failed re-login.
	assert.True(t, f.state.CurrentRoles().Has(domainauth.RoleAdmin))
	assert.True(t, f.state.IsAuthenticated())
	assert.Len(t, notifications, 1, "no role change, no notification")

	events := f.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domainauth.AuthEventLoginFailed, events[0].Kind)
	assert.Equal(t, "invalid_credentials", events[0].Detail)
}

func TestState_Login_PersistFailureStillUpdatesMemory(t *testing.T) {
	f := newFixture(t)
	f.store.SaveTokenErr = assert.AnError
	f.store.SaveUserErr = assert.AnError
	f.provider.Result = ports.LoginResult{
		Token: adminToken,
		User:  domainauth.User{ID: "u-1", Role: "admin"},
	}

	require.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "a@x", Password: "pw"}))
	assert.True(t, f.state.CurrentRoles().Has(domainauth.RoleAdmin))
	assert.True(t, f.state.IsAuthenticated())
}

func TestState_Logout_ClearsEverything(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(adminToken, &domainauth.User{ID: "u-1", Role: "admin"})
	f.state.Init(context.Background())

	var notifications []domainauth.RoleSet
	unsub := f.state.SubscribeRoles(func(roles domainauth.RoleSet) {
		notifications = append(notifications, roles)
	})
	defer unsub()

	f.state.Logout(context.Background())

	assert.False(t, f.state.IsAuthenticated())
	assert.True(t, f.state.CurrentRoles().IsEmpty())
	assert.Nil(t, f.state.CurrentUser())

	token, err := f.store.LoadToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)

	require.Len(t, notifications, 2)
	assert.True(t, notifications[1].IsEmpty())

	events := f.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domainauth.AuthEventLogout, events[0].Kind)
	assert.Equal(t, "u-1", events[0].UserID)
}

func TestState_Logout_StoreFailureStillClearsMemory(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(adminToken, &domainauth.User{ID: "u-1", Role: "admin"})
	f.state.Init(context.Background())
	f.store.ClearErr = assert.AnError

	f.state.Logout(context.Background())

	assert.False(t, f.state.IsAuthenticated())
	assert.True(t, f.state.CurrentRoles().IsEmpty())
}

func TestState_RoleFallbackToProfileRole(t *testing.T) {
	f := newFixture(t)
	// Token yields no role claims; the profile role fills in.
	f.extractor.Claims["opaque"] = nil
	f.store.Seed("opaque", &domainauth.User{ID: "u-2", Role: "Invité"})

	f.state.Init(context.Background())

	roles := f.state.CurrentRoles()
	assert.True(t, roles.Has(domainauth.RoleInvite))
	assert.Equal(t, []domainauth.Role{domainauth.RoleInvite}, roles.Values())
}

func TestState_ClaimRolesWinOverProfileRole(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(coachToken, &domainauth.User{ID: "u-3", Role: "admin"})

	f.state.Init(context.Background())

	roles := f.state.CurrentRoles()
	assert.True(t, roles.Has(domainauth.RoleCoach))
	assert.False(t, roles.Has(domainauth.RoleAdmin), "profile role is only a fallback")
}

func TestState_NotifyOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	f.provider.Result = ports.LoginResult{
		Token: adminToken,
		User:  domainauth.User{ID: "u-1", Role: "admin"},
	}

	count := 0
	unsub := f.state.SubscribeRoles(func(domainauth.RoleSet) { count++ })
	defer unsub()
	require.Equal(t, 1, count, "immediate replay")

	require.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "a@x", Password: "pw"}))
	assert.Equal(t, 2, count)

	// Second login yields the same role set: no notification.
	require.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "a@x", Password: "pw"}))
	assert.Equal(t, 2, count)
}

func TestState_SubscribersNotifiedInSubscriptionOrder(t *testing.T) {
	f := newFixture(t)
	f.provider.Result = ports.LoginResult{Token: adminToken, User: domainauth.User{ID: "u-1"}}

	var order []string
	unsubA := f.state.SubscribeRoles(func(domainauth.RoleSet) { order = append(order, "a") })
	defer unsubA()
	unsubB := f.state.SubscribeRoles(func(domainauth.RoleSet) { order = append(order, "b") })
	defer unsubB()
	order = nil

	require.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "a@x", Password: "pw"}))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestState_Unsubscribe(t *testing.T) {
	f := newFixture(t)
	f.provider.Result = ports.LoginResult{Token: adminToken, User: domainauth.User{ID: "u-1"}}

	count := 0
	unsub := f.state.SubscribeRoles(func(domainauth.RoleSet) { count++ })
	require.Equal(t, 1, count)

	unsub()
	unsub() // second call is a no-op

	require.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "a@x", Password: "pw"}))
	assert.Equal(t, 1, count, "unsubscribed listener receives nothing")
}

func TestState_SubscribeDuringDispatchMissesThatDispatch(t *testing.T) {
	f := newFixture(t)
	f.provider.Result = ports.LoginResult{Token: adminToken, User: domainauth.User{ID: "u-1"}}

	lateCalls := 0
	subscribed := false
	unsubOuter := f.state.SubscribeRoles(func(roles domainauth.RoleSet) {
		if !roles.IsEmpty() && !subscribed {
			subscribed = true
			// The new listener gets its replay but not the in-flight dispatch.
			f.state.SubscribeRoles(func(domainauth.RoleSet) { lateCalls++ })
		}
	})
	defer unsubOuter()

	require.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "a@x", Password: "pw"}))
	assert.Equal(t, 1, lateCalls, "replay only")
}

func TestState_IsAuthenticated(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.state.IsAuthenticated(), "no token")

	f.extractor.Expiries["expired"] = testutil.TestTime().Add(-time.Minute)
	f.extractor.Claims["expired"] = []string{"admin"}
	f.store.Seed("expired", nil)
	f.state.Init(context.Background())
	assert.False(t, f.state.IsAuthenticated(), "expired token")
	assert.True(t, f.state.CurrentRoles().Has(domainauth.RoleAdmin),
		"expiry gates authentication, not the role set")

	f.store.Seed("no-exp-claim", nil)
	f.state.Init(context.Background())
	assert.False(t, f.state.IsAuthenticated(), "unreadable expiry counts as expired")

	f.store.Seed(adminToken, nil)
	f.state.Init(context.Background())
	assert.True(t, f.state.IsAuthenticated())
}

func TestState_SnapshotIsConsistent(t *testing.T) {
	f := newFixture(t)
	f.store.Seed(adminToken, &domainauth.User{ID: "u-1", Role: "admin"})
	f.state.Init(context.Background())

	snap := f.state.Snapshot()
	assert.Equal(t, adminToken, snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u-1", snap.User.ID)
	assert.True(t, snap.Roles.Has(domainauth.RoleAdmin))

	// Mutating the snapshot must not leak back into the state.
	snap.Roles.Add(domainauth.RoleCoach)
	assert.False(t, f.state.CurrentRoles().Has(domainauth.RoleCoach))
}

func TestState_AuditRecorderFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.recorder.Err = assert.AnError
	f.provider.Result = ports.LoginResult{Token: adminToken, User: domainauth.User{ID: "u-1"}}

	assert.NoError(t, f.state.Login(context.Background(), ports.Credentials{Email: "a@x", Password: "pw"}))
}
