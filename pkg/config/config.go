package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/pershin-daniil/meetups/pkg/sorter"
)

const (
	DefaultAPIURL = "https://api.meetup.com"
	dotEnvFile    = ".env"
	clockLayout   = "15:04:05"
)

var (
	ErrMissingCredentials = errors.New("meetup credentials not set: provide MEETUP_KEY or MEETUP_ACCESS_TOKEN")
	ErrInvalidWindow      = errors.New("invalid search window")
)

type Config struct {
	Search         Search
	APIURL         string
	APIKey         string
	AccessToken    string
	LogLevel       string
	PushgatewayURL string
}

// Search is the fixed profile every request is built from.
type Search struct {
	Text         string
	Lat          float64
	Lon          float64
	Radius       float64 // miles
	StartDay     int     // minimum number of days before the event starts
	EndDay       int     // maximum number of days before the event starts
	StartTime    TimeOfDay
	EndTime      TimeOfDay
	MaxDisplayed int
	Sort         sorter.SortMethod
}

type TimeOfDay struct {
	Hour, Minute, Second int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("err parsing time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// On returns t's calendar day at this time of day.
func (d TimeOfDay) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), d.Hour, d.Minute, d.Second, 0, t.Location())
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
}

type env struct {
	APIURL         string `envconfig:"MEETUP_API_URL" default:"https://api.meetup.com"`
	APIKey         string `envconfig:"MEETUP_KEY"`
	AccessToken    string `envconfig:"MEETUP_ACCESS_TOKEN"`
	LogLevel       string `envconfig:"MEETUPS_LOG_LEVEL" default:"info"`
	PushgatewayURL string `envconfig:"MEETUPS_PUSHGATEWAY_URL"`
}

type profile struct {
	Text         *string  `yaml:"text"`
	Lat          *float64 `yaml:"lat"`
	Lon          *float64 `yaml:"lon"`
	Radius       *float64 `yaml:"radius"`
	StartDay     *int     `yaml:"start_day"`
	EndDay       *int     `yaml:"end_day"`
	StartTime    *string  `yaml:"start_time"`
	EndTime      *string  `yaml:"end_time"`
	MaxDisplayed *int     `yaml:"max_displayed"`
	Sort         *string  `yaml:"sort"`
}

// DefaultSearch searches Cambridge, MA for tech meetups next week.
func DefaultSearch() Search {
	return Search{
		Text:         "tech",
		Lat:          42.38,
		Lon:          -71.13,
		Radius:       3,
		StartDay:     1,
		EndDay:       8,
		StartTime:    TimeOfDay{Hour: 17},
		EndTime:      TimeOfDay{Hour: 20},
		MaxDisplayed: 3,
		Sort:         sorter.RSVPCount,
	}
}

// Load builds the configuration from defaults, .env, the process environment
// and, when profilePath is set, a YAML search profile.
func Load(profilePath string) (Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("err loading %s: %w", dotEnvFile, err)
	}
	var e env
	if err := envconfig.Process("", &e); err != nil {
		return Config{}, fmt.Errorf("err reading environment: %w", err)
	}
	cfg := Config{
		Search:         DefaultSearch(),
		APIURL:         e.APIURL,
		APIKey:         e.APIKey,
		AccessToken:    e.AccessToken,
		LogLevel:       e.LogLevel,
		PushgatewayURL: e.PushgatewayURL,
	}
	if profilePath != "" {
		search, err := loadProfile(profilePath, cfg.Search)
		if err != nil {
			return Config{}, err
		}
		cfg.Search = search
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" && c.AccessToken == "" {
		return ErrMissingCredentials
	}
	if c.Search.StartDay < 0 || c.Search.EndDay < c.Search.StartDay {
		return fmt.Errorf("%w: start day %d, end day %d", ErrInvalidWindow, c.Search.StartDay, c.Search.EndDay)
	}
	return nil
}

func loadProfile(path string, search Search) (Search, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Search{}, fmt.Errorf("err reading profile: %w", err)
	}
	var p profile
	if err = yaml.Unmarshal(b, &p); err != nil {
		return Search{}, fmt.Errorf("err parsing profile %s: %w", path, err)
	}
	if p.Text != nil {
		search.Text = *p.Text
	}
	if p.Lat != nil {
		search.Lat = *p.Lat
	}
	if p.Lon != nil {
		search.Lon = *p.Lon
	}
	if p.Radius != nil {
		search.Radius = *p.Radius
	}
	if p.StartDay != nil {
		search.StartDay = *p.StartDay
	}
	if p.EndDay != nil {
		search.EndDay = *p.EndDay
	}
	if p.StartTime != nil {
		if search.StartTime, err = ParseTimeOfDay(*p.StartTime); err != nil {
			return Search{}, err
		}
	}
	if p.EndTime != nil {
		if search.EndTime, err = ParseTimeOfDay(*p.EndTime); err != nil {
			return Search{}, err
		}
	}
	if p.MaxDisplayed != nil {
		search.MaxDisplayed = *p.MaxDisplayed
	}
	if p.Sort != nil {
		if search.Sort, err = sorter.ParseSortMethod(*p.Sort); err != nil {
			return Search{}, err
		}
	}
	return search, nil
}
