package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestIdentity(t *testing.T) {
	assert.False(t, Anonymous.HasUser())
	assert.False(t, Pending.HasUser())
	assert.False(t, Identity{UserID: "U1", Loading: true}.HasUser())
	assert.True(t, Identity{UserID: "U1"}.HasUser())
}

func TestStatic(t *testing.T) {
	p := Static(Identity{UserID: "U1"})
	assert.Equal(t, Identity{UserID: "U1"}, p.Current())
}

func TestHolder(t *testing.T) {
	h := NewHolder()
	assert.Equal(t, Pending, h.Current())

	h.Set(Identity{UserID: "U2"})
	assert.Equal(t, Identity{UserID: "U2"}, h.Current())
}

func TestHolderConcurrentAccess(t *testing.T) {
	h := NewHolder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); h.Set(Identity{UserID: "U"}) }()
		go func() { defer wg.Done(); _ = h.Current() }()
	}
	wg.Wait()
	assert.Equal(t, "U", h.Current().UserID)
}

func TestTokenResolverVerified(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewTokenResolver("s3cret")
	r.now = func() time.Time { return now }

	tests := []struct {
		name    string
		token   string
		want    Identity
		wantErr bool
	}{
		{"empty is anonymous", "", Anonymous, false},
		{"subject claim", signed(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"sub": "U1"}), Identity{UserID: "U1"}, false},
		{"user_id wins", signed(t, jwt.SigningMethodHS512, []byte("s3cret"), jwt.MapClaims{"sub": "x", "user_id": "U9"}), Identity{UserID: "U9"}, false},
		{"bearer prefix", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"sub": "U1"}), Identity{UserID: "U1"}, false},
		{"wrong secret", signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "U1"}), Anonymous, true},
		{"expired", signed(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"sub": "U1", "exp": now.Add(-time.Minute).Unix()}), Anonymous, true},
		{"no user claim", signed(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.MapClaims{"role": "buyer"}), Anonymous, true},
		{"not a jwt", "garbage", Anonymous, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidToken)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenResolverRejectsNoneAlgorithm(t *testing.T) {
	token := signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "U1"})
	_, err := NewTokenResolver("s3cret").Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenResolverUnverified(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewTokenResolver("")
	r.now = func() time.Time { return now }

	token := signed(t, jwt.SigningMethodHS256, []byte("anything"), jwt.MapClaims{"sub": "U1", "exp": now.Add(time.Hour).Unix()})
	got, err := r.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "U1"}, got)

	expired := signed(t, jwt.SigningMethodHS256, []byte("anything"), jwt.MapClaims{"sub": "U1", "exp": now.Add(-time.Hour).Unix()})
	_, err = r.Resolve(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenResolverCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTokenResolver("").Resolve(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenFromURL(t *testing.T) {
	tok, err := TokenFromURL("https://shop.example/art?token=abc.def.ghi&page=2")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = TokenFromURL("https://shop.example/art")
	require.NoError(t, err)
	assert.Empty(t, tok)

	_, err = TokenFromURL("://bad")
	assert.Error(t, err)
}
