package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/pershin-daniil/meetups/internal/meetup"
	"github.com/pershin-daniil/meetups/internal/report"
	"github.com/pershin-daniil/meetups/pkg/config"
	"github.com/pershin-daniil/meetups/pkg/metrics"
	"github.com/pershin-daniil/meetups/pkg/models"
	"github.com/pershin-daniil/meetups/pkg/sorter"
)

type Client interface {
	UpcomingEvents(ctx context.Context, reqURL string) (models.UpcomingEvents, error)
}

// Options are the per-invocation choices taken from the command line.
// A nil Search runs an unfiltered search.
type Options struct {
	Search *string
	Max    int
	Sort   sorter.SortMethod
}

type MeetupService struct {
	log     *logrus.Entry
	cfg     config.Config
	client  Client
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewMeetupService(log *logrus.Entry, cfg config.Config, client Client, m *metrics.Metrics) *MeetupService {
	s := MeetupService{
		log:     log.WithField("component", "service"),
		cfg:     cfg,
		client:  client,
		metrics: m,
		now:     time.Now,
	}
	return &s
}

// Run fetches upcoming events, sorts them and writes the report to out.
func (s *MeetupService) Run(ctx context.Context, opts Options, out io.Writer) error {
	reqURL := meetup.RequestURL(s.cfg, s.now(), opts.Search)

	timer := prometheus.NewTimer(s.metrics.RequestDuration)
	resp, err := s.client.UpcomingEvents(ctx, reqURL)
	timer.ObserveDuration()
	if err != nil {
		s.metrics.ErrCount.WithLabelValues("request").Inc()
		return fmt.Errorf("err fetching events: %w", err)
	}
	if resp.Events == nil {
		s.metrics.ErrCount.WithLabelValues("response").Inc()
		return fmt.Errorf("err reading events: %w: events", report.ErrMissingField)
	}
	events := *resp.Events
	s.metrics.EventsFetched.Set(float64(len(events)))

	s.log.Debugf("sorting %d events by %v", len(events), opts.Sort)
	if err = sorter.Sort(opts.Sort, events); err != nil {
		s.metrics.ErrCount.WithLabelValues("sort").Inc()
		return fmt.Errorf("err sorting events: %w", err)
	}

	shown, err := report.NewWriter(out).Render(resp, opts.Max)
	if err != nil {
		s.metrics.ErrCount.WithLabelValues("render").Inc()
		return fmt.Errorf("err writing report: %w", err)
	}
	s.metrics.EventsDisplayed.Set(float64(shown))
	s.metrics.LastSuccess.SetToCurrentTime()
	s.log.Debugf("displayed %d of %d events", shown, len(events))
	return nil
}
