package meetup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/pershin-daniil/meetups/pkg/config"
)

func testConfig(apiURL string) config.Config {
	return config.Config{
		Search: config.DefaultSearch(),
		APIURL: apiURL,
		APIKey: "secret",
	}
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func parseQuery(t *testing.T, reqURL string) url.Values {
	t.Helper()
	u, err := url.Parse(reqURL)
	require.NoError(t, err)
	require.Equal(t, upcomingEventsPath, u.Path)
	return u.Query()
}

func TestRequestURL(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 41, 27, 0, time.Local)
	cfg := testConfig("https://api.meetup.com")

	t.Run("with search term", func(t *testing.T) {
		term := "go lang"
		q := parseQuery(t, RequestURL(cfg, now, &term))
		require.Equal(t, []string{"go lang"}, q["text"])
		require.Equal(t, "secret", q.Get("key"))
		require.Equal(t, "-71.13", q.Get("lon"))
		require.Equal(t, "42.38", q.Get("lat"))
		require.Equal(t, "3", q.Get("radius"))
		require.Equal(t, descriptionField, q.Get("fields"))
		require.Equal(t, "2026-10-19T17:00:00", q.Get("start_date_range"))
		require.Equal(t, "2026-10-26T20:00:00", q.Get("end_date_range"))
	})

	t.Run("unfiltered", func(t *testing.T) {
		q := parseQuery(t, RequestURL(cfg, now, nil))
		_, ok := q["text"]
		require.False(t, ok)
	})

	t.Run("access token replaces key", func(t *testing.T) {
		tokenCfg := cfg
		tokenCfg.APIKey = ""
		tokenCfg.AccessToken = "token"
		q := parseQuery(t, RequestURL(tokenCfg, now, nil))
		_, ok := q["key"]
		require.False(t, ok)
	})

	t.Run("trailing slash in base url", func(t *testing.T) {
		reqURL := RequestURL(testConfig("http://localhost:8080/"), now, nil)
		require.True(t, strings.HasPrefix(reqURL, "http://localhost:8080/find/upcoming_events?"))
	})
}

func TestRequestURLWindowIgnoresTimeOfDay(t *testing.T) {
	cfg := testConfig("https://api.meetup.com")
	for _, hour := range []int{0, 12, 17, 23} {
		now := time.Date(2026, 12, 28, hour, 59, 59, 0, time.Local)
		q := parseQuery(t, RequestURL(cfg, now, nil))
		require.Equal(t, "2026-12-29T17:00:00", q.Get("start_date_range"), hour)
		require.Equal(t, "2027-01-05T20:00:00", q.Get("end_date_range"), hour)
	}
}

const upcomingBody = `{
  "city": {"city": "Cambridge", "state": "MA", "country": "us", "zip": "02139", "member_count": 1000},
  "events": [
    {"group": {"name": "Go Boston"}, "name": "Gophers", "local_date": "2026-10-20", "local_time": "18:00", "yes_rsvp_count": 12}
  ]
}`

func TestUpcomingEvents(t *testing.T) {
	var gotRequestID, gotAuth, gotKey string
	r := chi.NewRouter()
	r.Get(upcomingEventsPath, func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, upcomingBody)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	ctx := context.Background()

	t.Run("api key", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		client := New(ctx, testLogger(), cfg, "run-1")
		resp, err := client.UpcomingEvents(ctx, RequestURL(cfg, time.Now(), nil))
		require.NoError(t, err)
		require.Equal(t, "Cambridge", *resp.City.City)
		require.NotNil(t, resp.Events)
		require.Len(t, *resp.Events, 1)
		require.Equal(t, 12, *(*resp.Events)[0].YesRSVPCount)
		require.Equal(t, "run-1", gotRequestID)
		require.Equal(t, "secret", gotKey)
		require.Empty(t, gotAuth)
	})

	t.Run("access token", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		cfg.APIKey = ""
		cfg.AccessToken = "token"
		client := New(ctx, testLogger(), cfg, "run-2")
		_, err := client.UpcomingEvents(ctx, RequestURL(cfg, time.Now(), nil))
		require.NoError(t, err)
		require.Equal(t, "Bearer token", gotAuth)
		require.Empty(t, gotKey)
	})
}

func TestUpcomingEventsErrors(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/bad-status"+upcomingEventsPath, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"code":"auth_fail"}]}`, http.StatusUnauthorized)
	})
	r.Get("/bad-json"+upcomingEventsPath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, "<html>not json</html>")
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		cfg := testConfig(srv.URL + "/bad-status")
		_, err := New(ctx, testLogger(), cfg, "").UpcomingEvents(ctx, RequestURL(cfg, time.Now(), nil))
		require.ErrorIs(t, err, ErrUnexpectedStatus)
		require.Contains(t, err.Error(), "401")
		require.Contains(t, err.Error(), "auth_fail")
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(srv.URL + "/bad-json")
		_, err := New(ctx, testLogger(), cfg, "").UpcomingEvents(ctx, RequestURL(cfg, time.Now(), nil))
		require.Error(t, err)
		require.Contains(t, err.Error(), "err decoding upcoming events")
	})

	t.Run("transport", func(t *testing.T) {
		cfg := testConfig("http://127.0.0.1:1")
		_, err := New(ctx, testLogger(), cfg, "").UpcomingEvents(ctx, RequestURL(cfg, time.Now(), nil))
		require.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		cfg := testConfig(srv.URL + "/bad-json")
		_, err := New(ctx, testLogger(), cfg, "").UpcomingEvents(cancelled, RequestURL(cfg, time.Now(), nil))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRedact(t *testing.T) {
	got := redact("https://api.meetup.com/find/upcoming_events?key=secret&lat=1")
	require.NotContains(t, got, "secret")
	require.Contains(t, got, "key=REDACTED")
	require.Equal(t, "https://x/y?lat=1", redact("https://x/y?lat=1"))
}
