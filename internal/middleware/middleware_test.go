package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/store"
)

type fakeUsers struct {
	users map[string]*model.User
	err   error
	calls int
}

func (f *fakeUsers) List(context.Context, store.ListOptions) ([]model.User, error) {
	return nil, nil
}

func (f *fakeUsers) Create(_ context.Context, u model.User) (model.User, error) {
	return u, nil
}

func (f *fakeUsers) Me(_ context.Context, token string) (*model.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, store.ErrUnauthenticated
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", append(handlers, func(c *gin.Context) {
		sess := session.From(c)
		c.JSON(http.StatusOK, gin.H{"user_id": sess.UserID(), "admin": sess.IsAdmin()})
	})...)
	return r
}

func TestSessionResolvesBearerAndCookie(t *testing.T) {
	users := &fakeUsers{users: map[string]*model.User{
		"admin-token": {ID: "1", Role: model.RoleAdmin},
		"user-token":  {ID: "2", Role: model.RoleStandard},
	}}
	r := newRouter(Session(users, "access_token", zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user_id":"1","admin":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "user-token"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user_id":"2","admin":false}`, w.Body.String())
}

func TestSessionFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		users  *fakeUsers
		header string
		calls  int
	}{
		{name: "no token", users: &fakeUsers{}, calls: 0},
		{name: "malformed header", users: &fakeUsers{}, header: "Token abc", calls: 0},
		{name: "unknown token", users: &fakeUsers{}, header: "Bearer nope", calls: 1},
		{name: "directory down", users: &fakeUsers{err: errors.New("connection refused")}, header: "Bearer admin-token", calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(Session(tt.users, "access_token", zap.NewNop()))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"user_id":"","admin":false}`, w.Body.String())
			assert.Equal(t, tt.calls, tt.users.calls)
		})
	}
}

func TestSessionTreatsMissingUserAsAnonymous(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	users := &fakeUsers{users: map[string]*model.User{"ghost-token": nil}}
	r := newRouter(Session(users, "access_token", zap.New(core)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ghost-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"user_id":"","admin":false}`, w.Body.String())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "User directory returned no user for token", entry.Message)
	assert.NotContains(t, entry.ContextMap(), "error")
}

func TestRequireRole(t *testing.T) {
	users := &fakeUsers{users: map[string]*model.User{
		"admin-token": {ID: "1", Role: model.RoleAdmin},
		"user-token":  {ID: "2", Role: model.RoleStandard},
	}}
	r := newRouter(Session(users, "", zap.NewNop()), RequireRole(model.RoleAdmin))

	tests := []struct {
		token string
		want  int
	}{
		{token: "", want: http.StatusUnauthorized},
		{token: "user-token", want: http.StatusForbidden},
		{token: "admin-token", want: http.StatusOK},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, tt.token)
	}
}

func TestRequireUser(t *testing.T) {
	r := newRouter(RequireUser())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit(NewRateLimiter(1, 2)))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResponseCacheDisabledPassesThrough(t *testing.T) {
	cache := NewResponseCache(nil, time.Minute, "dashboard", zap.NewNop())
	r := newRouter(cache.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))

	assert.NoError(t, cache.Flush(context.Background()))
}

func newRedisCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResponseCache(client, time.Minute, "dashboard", zap.NewNop()), mr
}

func TestResponseCacheServesHitsUntilFlush(t *testing.T) {
	cache, mr := newRedisCache(t)

	calls := 0
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/signals", cache.Handler(), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/signals", nil))
		return w
	}

	w := get()
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":1}`, w.Body.String())
	assert.Len(t, mr.Keys(), 1)

	w = get()
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":1}`, w.Body.String())
	assert.Equal(t, 1, calls)

	require.NoError(t, cache.Flush(context.Background()))
	assert.Empty(t, mr.Keys())

	w = get()
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":2}`, w.Body.String())
}

func TestResponseCacheSkipsNoStoreResponses(t *testing.T) {
	cache, mr := newRedisCache(t)

	storeDown := true
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/signals", cache.Handler(), func(c *gin.Context) {
		if storeDown {
			c.Header("Cache-Control", "no-store")
			c.JSON(http.StatusOK, gin.H{"signals": []string{}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"signals": []string{"BTC/USD"}})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/signals", nil))
	assert.JSONEq(t, `{"signals":[]}`, w.Body.String())
	assert.Empty(t, mr.Keys())

	storeDown = false
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/signals", nil))
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"signals":["BTC/USD"]}`, w.Body.String())
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	cache, mr := newRedisCache(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/signals", cache.Handler(), func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "down"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/signals", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, mr.Keys())
}

func TestResponseCacheKey(t *testing.T) {
	cache := NewResponseCache(nil, time.Minute, "dashboard", zap.NewNop())

	plain := cache.key("/api/v1/signals", "")
	withQuery := cache.key("/api/v1/signals", "q=btc")

	assert.Equal(t, plain, cache.key("/api/v1/signals", ""))
	assert.NotEqual(t, plain, withQuery)
	assert.Regexp(t, `^dashboard:cache:[0-9a-f]{64}$`, plain)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc"))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
	assert.Empty(t, bearerToken(""))
}
