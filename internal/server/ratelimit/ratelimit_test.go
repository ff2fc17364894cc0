package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoints ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    5,
		DefaultWindow:   time.Minute,
		EndpointConfigs: endpoints,
	}
}

func mustClientList(t *testing.T, list string) ClientList {
	t.Helper()
	cl, err := ParseClientList(list)
	require.NoError(t, err)
	return cl
}

// newTestLimiter returns a limiter with a controllable clock
func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	l := NewLimiter(cfg)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/diagnoses", "GET")
		require.True(t, allowed, "request %d", i)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/diagnoses", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.True(t, info.ResetTime.After(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)))

	// Other clients have their own buckets
	allowed, _ = l.Allow("10.0.0.2", "/diagnoses", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Refill(t *testing.T) {
	l, now := newTestLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("client", "/profile", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("client", "/profile", "GET")
	require.False(t, allowed)

	// 5 per minute refills one token every 12 seconds
	*now = now.Add(13 * time.Second)
	allowed, _ = l.Allow("client", "/profile", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist = mustClientList(t, "127.0.0.1, 10.1.0.0/16")
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for _, client := range []string{"127.0.0.1", "10.1.200.3"} {
		for i := 0; i < 20; i++ {
			allowed, info := l.Allow(client, "/diagnoses", "POST")
			require.True(t, allowed, client)
			assert.Equal(t, 0, info.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Blacklist = mustClientList(t, "6.6.6.0/24")
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	allowed, _ := l.Allow("6.6.6.6", "/health", "GET")
	assert.False(t, allowed)

	allowed, _ = l.Allow("6.6.7.6", "/health", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("client", "/diagnoses", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l, _ := newTestLimiter(testConfig(DefaultEndpointConfigs()...))
	defer l.Stop()

	// Submission burst is 3
	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("client", "/diagnoses", "POST")
		require.True(t, allowed)
		assert.Equal(t, 20, info.Limit)
	}
	allowed, _ := l.Allow("client", "/diagnoses", "POST")
	assert.False(t, allowed)

	// Listing uses the default limit and is unaffected
	allowed, info := l.Allow("client", "/diagnoses", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 5, info.Limit)
}

func TestLimiter_WildcardPatternSharesBucket(t *testing.T) {
	l, _ := newTestLimiter(testConfig(EndpointConfig{Pattern: "DELETE /diagnoses/{id}", Limit: 2, Window: time.Minute, Burst: 2}))
	defer l.Stop()

	allowed, _ := l.Allow("client", "/diagnoses/a", "DELETE")
	require.True(t, allowed)
	allowed, _ = l.Allow("client", "/diagnoses/b", "DELETE")
	require.True(t, allowed)
	allowed, _ = l.Allow("client", "/diagnoses/c", "DELETE")
	assert.False(t, allowed)
}

func TestLimiter_ExemptRoutes(t *testing.T) {
	l, _ := newTestLimiter(testConfig(DefaultEndpointConfigs()...))
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("client", "/health", "GET")
		require.True(t, allowed)
		allowed, _ = l.Allow("client", "/questions", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(testConfig(EndpointConfig{Pattern: "POST /diagnoses", Limit: 10, Window: time.Hour, Burst: 10}))
	defer l.Stop()

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("client", "/diagnoses", "POST"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), allowedCount.Load())
}

func TestLimiter_Cleanup(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTTL = time.Minute
	l, now := newTestLimiter(cfg)
	defer l.Stop()

	l.Allow("old", "/diagnoses", "GET")
	*now = now.Add(2 * time.Minute)
	l.Allow("fresh", "/diagnoses", "GET")

	l.cleanupBuckets()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	_, ok := l.buckets["fresh|GET /diagnoses"]
	assert.True(t, ok)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	cfg := testConfig()
	cfg.CleanupInterval = time.Hour
	l := NewLimiter(cfg)
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("client", "/diagnoses", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name        string
		path        string
		method      string
		wantPattern string
	}{
		{name: "submit", path: "/diagnoses", method: "POST", wantPattern: "POST /diagnoses"},
		{name: "trailing slash", path: "/diagnoses/", method: "POST", wantPattern: "POST /diagnoses"},
		{name: "memo update", path: "/diagnoses/123", method: "PUT", wantPattern: "PUT /diagnoses/{id}"},
		{name: "health", path: "/health", method: "GET", wantPattern: "GET /health"},
		{name: "get record falls back", path: "/diagnoses/123", method: "GET"},
		{name: "deeper path falls back", path: "/diagnoses/123/extra", method: "PUT"},
		{name: "empty wildcard segment", path: "/diagnoses//", method: "PUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantPattern == "" {
				assert.Nil(t, ec)
				return
			}
			require.NotNil(t, ec)
			assert.Equal(t, tt.wantPattern, ec.Pattern)
		})
	}
}

func TestMatchEndpoint_MalformedPattern(t *testing.T) {
	configs := []EndpointConfig{{Pattern: "/diagnoses", Limit: 1}, {Pattern: "POST diagnoses", Limit: 1}}
	assert.Nil(t, MatchEndpoint("/diagnoses", "POST", configs))
}

func TestParseClientList(t *testing.T) {
	cl, err := ParseClientList(" 127.0.0.1 ,, 10.0.0.0/8, ::1 ")
	require.NoError(t, err)
	assert.Equal(t, 3, cl.Len())

	assert.True(t, cl.Contains("127.0.0.1"))
	assert.True(t, cl.Contains("10.20.30.40"))
	assert.True(t, cl.Contains("::1"))
	assert.True(t, cl.Contains("::ffff:127.0.0.1"))
	assert.False(t, cl.Contains("192.168.0.1"))
	assert.False(t, cl.Contains("not-an-ip"))

	empty, err := ParseClientList("")
	require.NoError(t, err)
	assert.False(t, empty.Contains("127.0.0.1"))

	for _, bad := range []string{"300.0.0.1", "10.0.0.0/99", "host.example"} {
		_, err := ParseClientList(bad)
		assert.Error(t, err, bad)
	}
}

func envMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "42",
		"RATE_LIMIT_DEFAULT_WINDOW": "30s",
		"RATE_LIMIT_WHITELIST":      "127.0.0.1, 10.0.0.0/8",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, time.Hour, cfg.IdleTTL)
	assert.True(t, cfg.Whitelist.Contains("10.9.9.9"))
	assert.Equal(t, DefaultEndpointConfigs(), cfg.EndpointConfigs)

	cfg, err = FromEnv(envMap(map[string]string{"RATE_LIMIT_ENABLED": "false"}))
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
}

func TestFromEnv_ReportsAllErrors(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{
		"RATE_LIMIT_ENABLED":       "sometimes",
		"RATE_LIMIT_DEFAULT_LIMIT": "-1",
		"RATE_LIMIT_IDLE_TTL":      "forever",
		"RATE_LIMIT_BLACKLIST":     "1.2.3",
	}))
	require.Error(t, err)

	for _, key := range []string{"RATE_LIMIT_ENABLED", "RATE_LIMIT_DEFAULT_LIMIT", "RATE_LIMIT_IDLE_TTL", "RATE_LIMIT_BLACKLIST"} {
		assert.Contains(t, err.Error(), key)
	}
}
