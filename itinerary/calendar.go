package itinerary

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tripwallet/models"
	"tripwallet/utils"

	"github.com/julienschmidt/httprouter"
)

// formatCalendarStamp turns a YYYY-MM-DD date plus optional HH:MM clock into
// the compact local-time form the calendar render URL expects
// (YYYYMMDDTHHMMSS, no separators). Unparseable input yields "".
func formatCalendarStamp(date, clock string) string {
	if date == "" {
		return ""
	}
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		return ""
	}
	return t.Format("20060102T150405")
}

// GoogleCalendarLink builds the outbound deep link that pre-fills a Google
// Calendar event from an itinerary item. The link is never consumed by this
// service; it is handed to the user as-is.
func GoogleCalendarLink(item models.ItineraryItem) string {
	var title, details, location, start, end string

	switch item.Type {
	case models.ItemTypeFlight:
		title = fmt.Sprintf("%s Flight %s", item.Airline, item.FlightNumber)
		details = fmt.Sprintf("From: %s\nTo: %s\nNotes: %s", item.DepartureAirport, item.ArrivalAirport, orNA(item.Notes))
		location = fmt.Sprintf("%s to %s", item.DepartureAirport, item.ArrivalAirport)
		start = formatCalendarStamp(item.DepartureDate, item.DepartureTime)
		// arrival assumed on the departure date
		end = formatCalendarStamp(item.DepartureDate, item.ArrivalTime)
	case models.ItemTypeCar:
		title = item.Company + " Car Rental"
		details = fmt.Sprintf("Confirmation: %s\nPickup: %s\nReturn: %s\nNotes: %s",
			item.ConfirmationNumber, item.PickupLocation, item.ReturnLocation, orNA(item.Notes))
		location = item.PickupLocation
		start = formatCalendarStamp(item.PickupDate, item.PickupTime)
		end = formatCalendarStamp(item.ReturnDate, item.ReturnTime)
	default:
		title = item.Title
		details = item.Notes
		location = item.Location
		endDate, endTime := item.EndDate, item.EndTime
		if endDate == "" {
			endDate = item.StartDate
		}
		if endTime == "" {
			endTime = item.StartTime
		}
		start = formatCalendarStamp(item.StartDate, item.StartTime)
		end = formatCalendarStamp(endDate, endTime)
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", start+"/"+end)
	q.Set("details", details)
	q.Set("location", location)
	q.Set("ctz", time.Local.String())

	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// GET /api/itinerary/items/:id/calendar
func GetItemCalendarLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	item, err := findOwnedItem(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Item not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"url": GoogleCalendarLink(item)})
}
