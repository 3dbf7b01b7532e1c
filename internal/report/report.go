package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pershin-daniil/meetups/pkg/models"
)

const (
	labelColor = "\033[93m"
	resetColor = "\033[0m"

	noDescription = "None provided"
	noFee         = "No fee"
	noRSVPLimit   = "-1"

	separatorWidth = 80
)

var ErrMissingField = errors.New("missing required field")

// Separator is the line printed after every event block.
func Separator() string {
	return strings.Repeat("*", separatorWidth)
}

func FormatHeader(c models.City) (string, error) {
	switch {
	case c.City == nil:
		return "", fmt.Errorf("%w: city", ErrMissingField)
	case c.State == nil:
		return "", fmt.Errorf("%w: state", ErrMissingField)
	case c.Country == nil:
		return "", fmt.Errorf("%w: country", ErrMissingField)
	case c.Zip == nil:
		return "", fmt.Errorf("%w: zip", ErrMissingField)
	case c.MemberCount == nil:
		return "", fmt.Errorf("%w: member_count", ErrMissingField)
	}
	return fmt.Sprintf("city: %s, state: %s, country: %s, zip: %s, total members: %d",
		*c.City, *c.State, *c.Country, *c.Zip, *c.MemberCount), nil
}

func FormatEvent(e models.Event) (string, error) {
	switch {
	case e.Group == nil || e.Group.Name == nil:
		return "", fmt.Errorf("%w: group.name", ErrMissingField)
	case e.Name == nil:
		return "", fmt.Errorf("%w: name", ErrMissingField)
	case e.LocalDate == nil:
		return "", fmt.Errorf("%w: local_date", ErrMissingField)
	case e.LocalTime == nil:
		return "", fmt.Errorf("%w: local_time", ErrMissingField)
	case e.YesRSVPCount == nil:
		return "", fmt.Errorf("%w: yes_rsvp_count", ErrMissingField)
	}

	description := noDescription
	if e.Description != nil {
		description = *e.Description
	}
	fee := noFee
	if e.Fee != nil {
		fee = e.Fee.String()
	}
	limit := noRSVPLimit
	if e.RSVPLimit != nil {
		limit = strconv.Itoa(*e.RSVPLimit)
	}

	var b strings.Builder
	writeField(&b, "GROUP", *e.Group.Name)
	writeField(&b, "EVENT", *e.Name)
	writeField(&b, "DATE", *e.LocalDate)
	writeField(&b, "TIME", *e.LocalTime)
	writeField(&b, "ATTENDANCE COUNT", fmt.Sprintf("%d/%s", *e.YesRSVPCount, limit))
	writeField(&b, "FEE", fee)
	writeField(&b, "DESCRIPTION", description)
	return b.String(), nil
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(labelColor)
	b.WriteString(label)
	b.WriteString(":")
	b.WriteString(resetColor)
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Render writes the header and at most max events. Nothing reaches the
// underlying writer unless the whole report renders.
func (w *Writer) Render(resp models.UpcomingEvents, max int) (int, error) {
	var buf bytes.Buffer
	header, err := FormatHeader(resp.City)
	if err != nil {
		return 0, fmt.Errorf("err formatting header: %w", err)
	}
	fmt.Fprintf(&buf, "%s\n\n", header)
	if resp.Events == nil {
		return 0, fmt.Errorf("%w: events", ErrMissingField)
	}

	separator := Separator()
	shown := 0
	for i, e := range *resp.Events {
		if i == max {
			break
		}
		block, err := FormatEvent(e)
		if err != nil {
			return 0, fmt.Errorf("err formatting event %d: %w", i, err)
		}
		fmt.Fprintf(&buf, "%s\n%s\n", block, separator)
		shown++
	}
	if _, err = buf.WriteTo(w.out); err != nil {
		return 0, fmt.Errorf("err writing report: %w", err)
	}
	return shown, nil
}
