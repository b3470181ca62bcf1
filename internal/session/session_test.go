package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduz/internal/store"
)

func TestLoginPersistsToken(t *testing.T) {
	kv := store.NewMemoryKV()
	s := New(kv, nil)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "tok", RoleTeacher))
	assert.Equal(t, State{Token: "tok", Role: RoleTeacher}, s.State())

	v, ok, err := kv.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestLogoutClearsEverything(t *testing.T) {
	kv := store.NewMemoryKV()
	s := New(kv, nil)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "tok", RoleAdmin))

	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, "", s.Token())
	assert.Equal(t, RoleUnknown, s.Role())
	assert.False(t, s.State().Authenticated())
	_, ok, _ := kv.Get(ctx, TokenKey)
	assert.False(t, ok, "persisted token should be removed")
}

type failingDelete struct {
	store.KV
}

func (failingDelete) Delete(context.Context, string) error {
	return errors.New("disk full")
}

func TestLogoutClearsStateWhenDeleteFails(t *testing.T) {
	s := New(failingDelete{store.NewMemoryKV()}, nil)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "tok", RoleStudent))

	err := s.Logout(ctx)
	require.ErrorContains(t, err, "disk full")
	assert.False(t, s.State().Authenticated())
	assert.Equal(t, RoleUnknown, s.Role())
}

func TestLogoutNotifiesAfterTokenRemoved(t *testing.T) {
	kv := store.NewMemoryKV()
	s := New(kv, nil)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "tok", RoleTeacher))

	var persisted []bool
	s.Subscribe(func(st State) {
		_, ok, _ := kv.Get(ctx, TokenKey)
		persisted = append(persisted, ok)
	})
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, []bool{false}, persisted, "token should be gone before subscribers run")
}

func TestRestoreLoadsTokenNotRole(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, TokenKey, "saved"))

	s := New(kv, nil)
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, "saved", s.Token())
	assert.Equal(t, RoleUnknown, s.Role())
}

func TestSetRoleRequiresToken(t *testing.T) {
	s := New(store.NewMemoryKV(), nil)
	s.SetRole(RoleStudent)
	assert.Equal(t, RoleUnknown, s.Role())

	require.NoError(t, s.Login(context.Background(), "tok", RoleUnknown))
	s.SetRole(RoleStudent)
	assert.Equal(t, RoleStudent, s.Role())
}

func TestSubscribe(t *testing.T) {
	s := New(store.NewMemoryKV(), nil)
	ctx := context.Background()

	var seen []State
	unsub := s.Subscribe(func(st State) { seen = append(seen, st) })

	require.NoError(t, s.Login(ctx, "tok", RoleStudent))
	s.SetRole(RoleStudent) // no change, no notification
	require.NoError(t, s.Logout(ctx))
	unsub()
	require.NoError(t, s.Login(ctx, "tok2", RoleTeacher))

	require.Len(t, seen, 2)
	assert.Equal(t, State{Token: "tok", Role: RoleStudent}, seen[0])
	assert.Equal(t, State{}, seen[1])
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleTeacher, ParseRole("teacher"))
	assert.Equal(t, RoleUnknown, ParseRole("superuser"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestRoleFromToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		token  string
		want   Role
		wantOK bool
	}{
		{"teacher claim", signed(t, jwt.MapClaims{"sub": "t@example.com", "role": "teacher", "exp": now.Add(time.Hour).Unix()}), RoleTeacher, true},
		{"no exp", signed(t, jwt.MapClaims{"role": "admin"}), RoleAdmin, true},
		{"expired", signed(t, jwt.MapClaims{"role": "student", "exp": now.Add(-time.Minute).Unix()}), RoleUnknown, false},
		{"unknown role", signed(t, jwt.MapClaims{"role": "root"}), RoleUnknown, false},
		{"no role", signed(t, jwt.MapClaims{"sub": "x"}), RoleUnknown, false},
		{"garbage", "not-a-jwt", RoleUnknown, false},
		{"empty", "", RoleUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RoleFromToken(tt.token, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestPromotion(t *testing.T) {
	next, ok := Promotion(RoleStudent)
	assert.True(t, ok)
	assert.Equal(t, RoleTeacher, next)

	next, ok = Promotion(RoleTeacher)
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, next)

	_, ok = Promotion(RoleAdmin)
	assert.False(t, ok)
}
