package models

import (
	"strconv"
	"strings"
)

// UpcomingEvents is the body returned by the find/upcoming_events endpoint.
// Events is nil when the key is missing and points to an empty slice for "events": [].
type UpcomingEvents struct {
	City   City     `json:"city"`
	Events *[]Event `json:"events"`
}

// City describes the location the search was resolved to.
type City struct {
	City        *string `json:"city"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
	Zip         *string `json:"zip"`
	MemberCount *int    `json:"member_count"`
}

type Group struct {
	Name *string `json:"name"`
}

// Event fields are pointers so a missing key can be told apart from a zero value.
// Description, Fee and RSVPLimit are optional, everything else is required.
type Event struct {
	Group        *Group  `json:"group"`
	Name         *string `json:"name"`
	LocalDate    *string `json:"local_date"`
	LocalTime    *string `json:"local_time"`
	YesRSVPCount *int    `json:"yes_rsvp_count"`
	Description  *string `json:"plain_text_no_images_description"`
	Fee          *Fee    `json:"fee"`
	RSVPLimit    *int    `json:"rsvp_limit"`
}

type Fee struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Accepts     string  `json:"accepts"`
	Required    bool    `json:"required"`
}

func (f Fee) String() string {
	amount := strconv.FormatFloat(f.Amount, 'f', 2, 64)
	return strings.TrimSpace(amount + " " + f.Currency)
}
