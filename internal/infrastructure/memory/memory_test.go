package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/service"
	"github.com/migeprof/stakeholder-mapping/internal/infrastructure/policy"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	s := NewSessionStore(ttl)
	s.now = clock.now
	return s, clock
}

func TestSessionStore_RoundTripAndRemove(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(time.Hour)

	_, ok, err := s.Get(ctx, "smt-user")
	require.NoError(t, err)
	assert.False(t, ok)

	val := []byte(`{"id":"1"}`)
	require.NoError(t, s.Set(ctx, "smt-user", val))
	val[0] = 'x'

	got, ok, err := s.Get(ctx, "smt-user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, string(got))

	require.NoError(t, s.Remove(ctx, "smt-user"))
	require.NoError(t, s.Remove(ctx, "smt-user"))
	_, ok, _ = s.Get(ctx, "smt-user")
	assert.False(t, ok)
}

func TestSessionStore_ExpiredEntryReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	s, clock := newClockedStore(time.Hour)

	require.NoError(t, s.Set(ctx, "smt-user", []byte(`{"id":"1"}`)))
	clock.advance(59 * time.Minute)
	_, ok, err := s.Get(ctx, "smt-user")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.advance(time.Minute)
	_, ok, err = s.Get(ctx, "smt-user")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSessionStore_SetRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newClockedStore(time.Hour)

	require.NoError(t, s.Set(ctx, "k", []byte("a")))
	clock.advance(50 * time.Minute)
	require.NoError(t, s.Set(ctx, "k", []byte("b")))
	clock.advance(50 * time.Minute)

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", string(got))
}

func TestSessionStore_Sweep(t *testing.T) {
	ctx := context.Background()
	s, clock := newClockedStore(time.Hour)

	require.NoError(t, s.Set(ctx, "old-1", []byte("x")))
	require.NoError(t, s.Set(ctx, "old-2", []byte("x")))
	clock.advance(30 * time.Minute)
	require.NoError(t, s.Set(ctx, "fresh", []byte("x")))
	clock.advance(45 * time.Minute)

	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())
	_, ok, _ := s.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestSessionStore_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	s, clock := newClockedStore(0)

	require.NoError(t, s.Set(ctx, "k", []byte("x")))
	clock.advance(365 * 24 * time.Hour)
	assert.Equal(t, 0, s.Sweep())
	_, ok, _ := s.Get(ctx, "k")
	assert.True(t, ok)
}

func TestSessionStore_RunSweeperStopsOnCancel(t *testing.T) {
	s := NewSessionStore(time.Nanosecond)
	require.NoError(t, s.Set(context.Background(), "k", []byte("x")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSessionStore_ExpiredSessionRestoresUnauthenticated(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore(time.Hour)

	pol, err := policy.Default()
	require.NoError(t, err)
	verifier, err := service.NewSharedSecretVerifier("password", bcrypt.MinCost)
	require.NoError(t, err)
	m := service.NewSessionManager(NewUserDirectory(SeedUsers()), store, verifier, pol.Permissions, "secret", time.Hour, zerolog.Nop())

	id := m.NewClientID()
	ok, err := m.Open(ctx, id).Login(ctx, "admin@migeprof.gov.rw", "password")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StateAuthenticated, m.Open(ctx, id).State())

	clock.advance(time.Hour)
	restored := m.Open(ctx, id)
	assert.Equal(t, domain.StateUnauthenticated, restored.State())
	assert.Nil(t, restored.CurrentUser())
}

func TestUserDirectory_FindByIdentifier(t *testing.T) {
	ctx := context.Background()
	d := NewUserDirectory(SeedUsers())

	u, err := d.FindByIdentifier(ctx, "admin@migeprof.gov.rw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	u, err = d.FindByIdentifier(ctx, "focal1")
	require.NoError(t, err)
	assert.Equal(t, "3", u.ID)

	_, err = d.FindByIdentifier(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDirectory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	d := NewUserDirectory(SeedUsers())

	u, err := d.FindByID(ctx, "2")
	require.NoError(t, err)
	u.Role = domain.RoleAdmin

	again, err := d.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStakeholder, again.Role)
}

func TestUserDirectory_CreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	d := NewUserDirectory(SeedUsers())

	_, err := d.Create(ctx, &domain.User{ID: "9", Username: "new", Email: "admin@migeprof.gov.rw", Role: domain.RoleStakeholder, Status: domain.StatusActive})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = d.Create(ctx, &domain.User{ID: "9", Username: "focal1", Email: "x@y.z", Role: domain.RoleStakeholder, Status: domain.StatusActive})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	created, err := d.Create(ctx, &domain.User{ID: "9", Username: "new", Email: "new@ngo.org", Role: domain.RoleStakeholder, Status: domain.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, "9", created.ID)

	all, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "9", all[3].ID)
}

func TestUserDirectory_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	d := NewUserDirectory(SeedUsers())

	u, err := d.ToggleStatus(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, u.Status)

	u, err = d.ToggleStatus(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, u.Status)

	_, err = d.ToggleStatus(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserDirectory_ConcurrentToggleKeepsParity(t *testing.T) {
	ctx := context.Background()
	d := NewUserDirectory(SeedUsers())

	const toggles = 200
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.ToggleStatus(ctx, "2")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := d.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, u.Status)
}

func TestAuditRepository_NewestFirstWithLimitAndCapacity(t *testing.T) {
	ctx := context.Background()
	r := NewAuditRepository(3)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Append(ctx, domain.AuditEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Actor:     "admin",
			Action:    domain.AuditLogin,
		}))
	}

	all, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, base.Add(4*time.Minute), all[0].Timestamp)
	assert.Equal(t, base.Add(2*time.Minute), all[2].Timestamp)

	two, err := r.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}
