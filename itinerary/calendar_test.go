package itinerary

import (
	"net/url"
	"strings"
	"testing"

	"tripwallet/models"
)

func TestFormatCalendarStamp(t *testing.T) {
	cases := []struct {
		date, clock, want string
	}{
		{"2025-03-10", "10:00", "20250310T100000"},
		{"2025-03-10", "", "20250310T000000"},
		{"", "10:00", ""},
		{"garbage", "10:00", ""},
	}
	for _, c := range cases {
		if got := formatCalendarStamp(c.date, c.clock); got != c.want {
			t.Errorf("formatCalendarStamp(%q, %q): expected %q, got %q", c.date, c.clock, got, c.want)
		}
	}
}

func TestGoogleCalendarLinkFlight(t *testing.T) {
	link := GoogleCalendarLink(models.ItineraryItem{
		Type:             models.ItemTypeFlight,
		Airline:          "Oceanic",
		FlightNumber:     "815",
		DepartureAirport: "SYD",
		ArrivalAirport:   "LAX",
		DepartureDate:    "2025-03-10",
		DepartureTime:    "10:00",
		ArrivalTime:      "14:00",
	})

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	if u.Host != "calendar.google.com" {
		t.Fatalf("unexpected host %q", u.Host)
	}

	q := u.Query()
	if q.Get("action") != "TEMPLATE" {
		t.Fatalf("expected action=TEMPLATE, got %q", q.Get("action"))
	}
	if q.Get("text") != "Oceanic Flight 815" {
		t.Fatalf("unexpected title: %q", q.Get("text"))
	}
	if q.Get("dates") != "20250310T100000/20250310T140000" {
		t.Fatalf("unexpected dates: %q", q.Get("dates"))
	}
	if q.Get("location") != "SYD to LAX" {
		t.Fatalf("unexpected location: %q", q.Get("location"))
	}
	if !strings.Contains(q.Get("details"), "Notes: N/A") {
		t.Fatalf("empty notes should render as N/A, got %q", q.Get("details"))
	}
}

func TestGoogleCalendarLinkEventFallsBackToStart(t *testing.T) {
	link := GoogleCalendarLink(models.ItineraryItem{
		Type:      models.ItemTypeEvent,
		Title:     "Concert",
		Location:  "Town Hall",
		StartDate: "2025-06-01",
		StartTime: "19:30",
	})

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	q := u.Query()
	if q.Get("dates") != "20250601T193000/20250601T193000" {
		t.Fatalf("expected end to fall back to start, got %q", q.Get("dates"))
	}
	if q.Get("text") != "Concert" {
		t.Fatalf("unexpected title: %q", q.Get("text"))
	}
}

func TestGoogleCalendarLinkCarRental(t *testing.T) {
	link := GoogleCalendarLink(models.ItineraryItem{
		Type:               models.ItemTypeCar,
		Company:            "Hurtz",
		ConfirmationNumber: "CONF42",
		PickupLocation:     "Airport",
		ReturnLocation:     "Downtown",
		PickupDate:         "2025-05-01",
		PickupTime:         "09:00",
		ReturnDate:         "2025-05-04",
		ReturnTime:         "17:00",
	})

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	q := u.Query()
	if q.Get("text") != "Hurtz Car Rental" {
		t.Fatalf("unexpected title: %q", q.Get("text"))
	}
	if q.Get("dates") != "20250501T090000/20250504T170000" {
		t.Fatalf("unexpected dates: %q", q.Get("dates"))
	}
	if !strings.Contains(q.Get("details"), "Confirmation: CONF42") {
		t.Fatalf("details missing confirmation: %q", q.Get("details"))
	}
}
