package meetup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/pershin-daniil/meetups/pkg/config"
	"github.com/pershin-daniil/meetups/pkg/models"
)

const (
	upcomingEventsPath = "/find/upcoming_events"
	dateRangeLayout    = "2006-01-02T15:04:05"
	descriptionField   = "plain_text_no_images_description"
	bodySnippetLimit   = 512
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type Client struct {
	log       *logrus.Entry
	http      *http.Client
	requestID string
}

// New returns a client authenticating with the OAuth2 access token when one is
// configured. Otherwise the API key travels in the query string.
func New(ctx context.Context, log *logrus.Entry, cfg config.Config, requestID string) *Client {
	httpClient := &http.Client{}
	if cfg.AccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	return &Client{
		log:       log.WithField("component", "meetup"),
		http:      httpClient,
		requestID: requestID,
	}
}

// RequestURL builds the upcoming events query for the search window relative to now.
// A nil search term means an unfiltered search.
func RequestURL(cfg config.Config, now time.Time, search *string) string {
	s := cfg.Search
	start := s.StartTime.On(now.AddDate(0, 0, s.StartDay))
	end := s.EndTime.On(now.AddDate(0, 0, s.EndDay))

	q := url.Values{}
	if cfg.AccessToken == "" {
		q.Set("key", cfg.APIKey)
	}
	q.Set("lon", formatFloat(s.Lon))
	q.Set("lat", formatFloat(s.Lat))
	q.Set("radius", formatFloat(s.Radius))
	q.Set("start_date_range", start.Format(dateRangeLayout))
	q.Set("end_date_range", end.Format(dateRangeLayout))
	q.Set("fields", descriptionField)
	if search != nil {
		q.Set("text", *search)
	}
	return strings.TrimRight(cfg.APIURL, "/") + upcomingEventsPath + "?" + q.Encode()
}

func (c *Client) UpcomingEvents(ctx context.Context, reqURL string) (models.UpcomingEvents, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.UpcomingEvents{}, fmt.Errorf("err creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.requestID != "" {
		req.Header.Set("X-Request-Id", c.requestID)
	}
	c.log.Debugf("GET %s", redact(reqURL))

	resp, err := c.http.Do(req)
	if err != nil {
		return models.UpcomingEvents{}, fmt.Errorf("err requesting upcoming events: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			c.log.Warnf("err during closing body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		return models.UpcomingEvents{}, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result models.UpcomingEvents
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.UpcomingEvents{}, fmt.Errorf("err decoding upcoming events: %w", err)
	}
	if result.Events != nil {
		c.log.Debugf("received %d events", len(*result.Events))
	}
	return result, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func redact(reqURL string) string {
	u, err := url.Parse(reqURL)
	if err != nil {
		return reqURL
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
