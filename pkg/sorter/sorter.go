package sorter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pershin-daniil/meetups/pkg/models"
)

type SortMethod int

const (
	Unsorted SortMethod = iota
	RSVPCount
)

var (
	ErrUnknownSortMethod = errors.New("unknown sort method")
	ErrMissingRSVPCount  = errors.New("event has no yes_rsvp_count")
)

var names = map[SortMethod]string{
	Unsorted:  "unsorted",
	RSVPCount: "rsvp_count",
}

func ParseSortMethod(s string) (SortMethod, error) {
	for m, name := range names {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return Unsorted, fmt.Errorf("%w %q: use one of %s", ErrUnknownSortMethod, s, strings.Join(Names(), ", "))
}

func Names() []string {
	return []string{names[Unsorted], names[RSVPCount]}
}

func (m SortMethod) String() string {
	if name, ok := names[m]; ok {
		return name
	}
	return fmt.Sprintf("SortMethod(%d)", int(m))
}

// Set implements flag.Value.
func (m *SortMethod) Set(s string) error {
	parsed, err := ParseSortMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sort reorders events in place. The slice is left untouched on error.
func Sort(m SortMethod, events []models.Event) error {
	switch m {
	case Unsorted:
		return nil
	case RSVPCount:
		for i, e := range events {
			if e.YesRSVPCount == nil {
				return fmt.Errorf("err sorting event %d: %w", i, ErrMissingRSVPCount)
			}
		}
		sort.SliceStable(events, func(i, j int) bool {
			return *events[i].YesRSVPCount > *events[j].YesRSVPCount
		})
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownSortMethod, m)
	}
}
