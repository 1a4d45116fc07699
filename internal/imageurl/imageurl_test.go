package imageurl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y4m4usr/hl001-quiz-must1/internal/store"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.User = "u"
	cfg.Repo = "r"
	return cfg
}

var brownDay = Product{OriginalCode: "A01", Brand: "Brand X", ColorName: "Brown", WearPeriod: "1Day"}

func TestSoftSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "A01_B_C", "A01_B_C"},
		{"full width", "ＡＢＣ　１２３", "ABC 123"},
		{"control chars", "a\r\n\tb", "a b"},
		{"space runs", "a    b", "a b"},
		{"mixed runs", "a \t b", "a b"},
		{"reserved", `a/b:c*d?e"f<g>h|i\j`, "a_b_c_d_e_f_g_h_i_j"},
		{"full width reserved", "Ａ／Ｂ：Ｃ", "A_B_C"},
		{"trim", "  x  ", "x"},
		{"keeps japanese", "ブラウン ベージュ", "ブラウン ベージュ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SoftSanitize(tt.in))
		})
	}
}

func TestEscapeComponent(t *testing.T) {
	assert.Equal(t, "a%20b%2Bc%26d.jpg", EscapeComponent("a b+c&d.jpg"))
	assert.Equal(t, "(x)!'~*-_.", EscapeComponent("(x)!'~*-_."))
	assert.Equal(t, "%E3%83%96%E3%83%A9%E3%82%A6%E3%83%B3", EscapeComponent("ブラウン"))
	assert.Equal(t, "a%2Fb", EscapeComponent("a/b"))
}

func TestParseImageType(t *testing.T) {
	for in, want := range map[string]ImageType{
		"lens": Lens, "": Lens, "thumbnail": Thumbnail, "samune": Thumbnail, " Thumbnail ": Thumbnail,
	} {
		got, err := ParseImageType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseImageType("poster")
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, testConfig().Validate())

	err := DefaultConfig().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")
	assert.Contains(t, err.Error(), "repository name")
}

func TestResolver_Candidates(t *testing.T) {
	r := NewResolver(testConfig(), nil, nil)

	got := r.Candidates(brownDay, Lens)
	require.Len(t, got, 12)
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/lens/A01_Brand%20X_Brown_1Day_lens.jpg", got[0])
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/lens/A01_Brand%20X_Brown_1Day_lens.JPG", got[1])
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/lens/A01_Brand%20X_Brown_1Day_lens.JPEG", got[3])
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/lens/A01_Brand%20X_Brown_1day_lens.jpg", got[4])
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/lens/A01_Brand%20X_Brown_1DAY_lens.jpg", got[8])

	thumbs := r.Candidates(brownDay, Thumbnail)
	assert.Equal(t, "https://raw.githubusercontent.com/u/r/main/samune/A01_Brand%20X_Brown_1Day_samune.jpg", thumbs[0])
}

func TestResolver_CandidatesDeduplicatePeriods(t *testing.T) {
	r := NewResolver(testConfig(), nil, nil)

	p := brownDay
	p.WearPeriod = "1day"
	assert.Len(t, r.Candidates(p, Lens), 8)

	p.WearPeriod = "2"
	assert.Len(t, r.Candidates(p, Lens), 4)
}

func TestResolver_FallbackIsDeterministic(t *testing.T) {
	stub := NewStubChecker()
	r := NewResolver(testConfig(), stub, nil)
	ctx := context.Background()

	first := r.Resolve(ctx, brownDay, Lens)
	second := r.Resolve(ctx, brownDay, Lens)

	assert.Equal(t, first, second)
	assert.Equal(t, r.Candidates(brownDay, Lens)[0], first)
	assert.Equal(t, r.Fallback(brownDay, Lens), first)
	assert.Equal(t, 24, stub.CallCount())
}

func TestResolver_ShortCircuits(t *testing.T) {
	r := NewResolver(testConfig(), nil, nil)
	candidates := r.Candidates(brownDay, Lens)

	stub := NewStubChecker(candidates[1])
	r = NewResolver(testConfig(), stub, nil)

	got := r.Resolve(context.Background(), brownDay, Lens)
	assert.Equal(t, candidates[1], got)
	assert.Equal(t, candidates[:2], stub.Probed())
}

func TestResolver_FindsLaterPeriodVariant(t *testing.T) {
	r := NewResolver(testConfig(), nil, nil)
	candidates := r.Candidates(brownDay, Thumbnail)

	stub := NewStubChecker(candidates[9])
	r = NewResolver(testConfig(), stub, nil)

	assert.Equal(t, candidates[9], r.Resolve(context.Background(), brownDay, Thumbnail))
	assert.Equal(t, 10, stub.CallCount())
}

func TestResolver_NormalizesEquivalentInputs(t *testing.T) {
	r := NewResolver(testConfig(), nil, nil)

	ascii := Product{OriginalCode: "A01", Brand: "Brand:X", ColorName: "Brown", WearPeriod: "1day"}
	wide := Product{OriginalCode: "Ａ０１", Brand: "Ｂｒａｎｄ：Ｘ", ColorName: "Ｂｒｏｗｎ", WearPeriod: "1day"}

	assert.Equal(t, r.Candidates(ascii, Lens), r.Candidates(wide, Lens))
	assert.Contains(t, r.Candidates(ascii, Lens)[0], "A01_Brand_X_Brown_1day_lens.jpg")
}

func TestHTTPChecker(t *testing.T) {
	var (
		mu      sync.Mutex
		headers []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.jpg", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = append(headers, r.Header.Get("Cache-Control"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/moved.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok.jpg", http.StatusFound)
	})
	mux.HandleFunc("/get-only.jpg", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte("jpeg bytes"))
	})
	mux.HandleFunc("/error.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/slow.jpg", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPChecker(50*time.Millisecond, nil)
	ctx := context.Background()

	tests := []struct {
		path string
		want bool
	}{
		{"/ok.jpg", true},
		{"/missing.jpg", false},
		{"/moved.jpg", true},
		{"/get-only.jpg", true},
		{"/error.jpg", false},
		{"/slow.jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Exists(ctx, srv.URL+tt.path))
		})
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, headers)
	for _, h := range headers {
		assert.Equal(t, "no-cache", h)
	}
}

func TestHTTPChecker_UnreachableIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/x.jpg"
	srv.Close()

	c := NewHTTPChecker(time.Second, nil)
	assert.False(t, c.Exists(context.Background(), url))
	assert.False(t, c.Exists(context.Background(), "://bad url"))
}

func TestHTTPChecker_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, NewHTTPChecker(time.Second, nil).Exists(ctx, srv.URL))
}

type countingChecker struct {
	mu    sync.Mutex
	calls int
	found bool
}

func (c *countingChecker) Exists(context.Context, string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.found
}

func TestCachingChecker(t *testing.T) {
	inner := &countingChecker{found: true}
	c := WithCache(inner, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, c.Exists(ctx, "a"))
	assert.True(t, c.Exists(ctx, "a"))
	assert.Equal(t, 1, inner.calls)

	c.Exists(ctx, "b")
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, c.Len())

	now = now.Add(2 * time.Minute)
	c.Exists(ctx, "a")
	assert.Equal(t, 3, inner.calls)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCachingChecker_CachesNegatives(t *testing.T) {
	inner := &countingChecker{}
	c := WithCache(inner, 0)
	ctx := context.Background()

	for range 5 {
		assert.False(t, c.Exists(ctx, "missing"))
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachingChecker_SkipsCancelledProbes(t *testing.T) {
	inner := &countingChecker{}
	c := WithCache(inner, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Exists(ctx, "x")
	assert.Equal(t, 0, c.Len())
}

func TestCachingChecker_Concurrent(t *testing.T) {
	c := WithCache(NewStubChecker("a"), 0)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, c.Exists(context.Background(), "a"))
		}()
	}
	wg.Wait()
}

type blockingChecker struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingChecker) Exists(context.Context, string) bool {
	b.calls.Add(1)
	<-b.release
	return true
}

func TestCachingChecker_SharesInFlightCheck(t *testing.T) {
	inner := &blockingChecker{release: make(chan struct{})}
	c := WithCache(inner, 0)

	var wg sync.WaitGroup
	results := make(chan bool, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.Exists(context.Background(), "https://h/same.jpg")
		}()
	}

	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()
	close(results)

	for found := range results {
		assert.True(t, found)
	}
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestLoggingChecker_RecordsProbes(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "probes.db"))
	require.NoError(t, err)
	defer s.Close()

	base := NewResolver(testConfig(), nil, nil)
	hit := base.Candidates(brownDay, Thumbnail)[2]

	checker := WithLogging(NewStubChecker(hit), s.EventRepo(), nil)
	r := NewResolver(testConfig(), checker, nil)
	ctx := context.Background()

	assert.Equal(t, hit, r.Resolve(ctx, brownDay, Thumbnail))

	events, err := s.EventRepo().QueryProbeEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, hit, events[0].URL)
	assert.True(t, events[0].Found)
	assert.False(t, events[1].Found)
	for _, e := range events {
		assert.Equal(t, "thumbnail", e.ImageType)
	}
}

type failingRepo struct {
	store.EventRepo
}

func (failingRepo) AppendProbe(context.Context, store.ProbeEventData) error {
	return errors.New("disk full")
}

func TestLoggingChecker_IgnoresStoreFailure(t *testing.T) {
	checker := WithLogging(NewStubChecker("u"), failingRepo{}, nil)
	assert.True(t, checker.Exists(context.Background(), "u"))
	assert.False(t, checker.Exists(context.Background(), "v"))
}

func TestImageTypeFrom(t *testing.T) {
	assert.Equal(t, ImageType("unknown"), ImageTypeFrom(context.Background()))
	assert.Equal(t, Lens, ImageTypeFrom(WithImageType(context.Background(), Lens)))
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	for range 3 {
		assert.False(t, NotFound.Exists(ctx, "https://h/x.jpg"))
	}

	var seen []string
	f := CheckerFunc(func(_ context.Context, url string) bool {
		seen = append(seen, url)
		return url == "b"
	})
	assert.False(t, f.Exists(ctx, "a"))
	assert.True(t, f.Exists(ctx, "b"))
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestResolver_NilCheckerResolvesToFallback(t *testing.T) {
	r := NewResolver(testConfig(), nil, nil)
	for range 10 {
		assert.Equal(t, r.Fallback(brownDay, Lens), r.Resolve(context.Background(), brownDay, Lens))
	}
}
