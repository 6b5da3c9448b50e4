package models

// Item types stored in the "type" discriminator field.
const (
	ItemTypeFlight = "flight"
	ItemTypeCar    = "car"
	ItemTypeEvent  = "event"
)

// ItineraryItem is one entry in a user's travel wallet. The struct is flat;
// which fields are populated depends on Type. Date fields are opaque
// YYYY-MM-DD strings and clock fields HH:MM strings, exactly as submitted —
// calendar correctness is never validated.
type ItineraryItem struct {
	ItemID    string `json:"id,omitempty" bson:"itemid,omitempty"`
	OwnerID   string `json:"-" bson:"ownerid,omitempty"`
	Type      string `json:"type" bson:"type"`
	Timestamp string `json:"timestamp,omitempty" bson:"timestamp,omitempty"` // client submission time, ISO 8601

	// flight
	Airline          string `json:"airline,omitempty" bson:"airline,omitempty"`
	FlightNumber     string `json:"flightNumber,omitempty" bson:"flightnumber,omitempty"`
	DepartureAirport string `json:"departureAirport,omitempty" bson:"departureairport,omitempty"`
	ArrivalAirport   string `json:"arrivalAirport,omitempty" bson:"arrivalairport,omitempty"`
	DepartureDate    string `json:"departureDate,omitempty" bson:"departuredate,omitempty"`
	DepartureTime    string `json:"departureTime,omitempty" bson:"departuretime,omitempty"`
	ArrivalTime      string `json:"arrivalTime,omitempty" bson:"arrivaltime,omitempty"`

	// car rental
	Company            string `json:"company,omitempty" bson:"company,omitempty"`
	ConfirmationNumber string `json:"confirmationNumber,omitempty" bson:"confirmationnumber,omitempty"`
	PickupLocation     string `json:"pickupLocation,omitempty" bson:"pickuplocation,omitempty"`
	ReturnLocation     string `json:"returnLocation,omitempty" bson:"returnlocation,omitempty"`
	PickupDate         string `json:"pickupDate,omitempty" bson:"pickupdate,omitempty"`
	PickupTime         string `json:"pickupTime,omitempty" bson:"pickuptime,omitempty"`
	ReturnDate         string `json:"returnDate,omitempty" bson:"returndate,omitempty"`
	ReturnTime         string `json:"returnTime,omitempty" bson:"returntime,omitempty"`

	// event
	Title     string `json:"title,omitempty" bson:"title,omitempty"`
	Location  string `json:"location,omitempty" bson:"location,omitempty"`
	StartDate string `json:"startDate,omitempty" bson:"startdate,omitempty"`
	StartTime string `json:"startTime,omitempty" bson:"starttime,omitempty"`
	EndDate   string `json:"endDate,omitempty" bson:"enddate,omitempty"`
	EndTime   string `json:"endTime,omitempty" bson:"endtime,omitempty"`

	// common optional fields
	Website string `json:"website,omitempty" bson:"website,omitempty"`
	Notes   string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// PrimaryDate returns the field the itinerary is ordered by: the first
// present of departure, pickup and start date.
func (it ItineraryItem) PrimaryDate() string {
	if it.DepartureDate != "" {
		return it.DepartureDate
	}
	if it.PickupDate != "" {
		return it.PickupDate
	}
	return it.StartDate
}

// SharedItinerary is an immutable published snapshot of a user's item list.
// Publishing again always creates a new snapshot; existing ones are never
// updated or deleted.
type SharedItinerary struct {
	SharedID       string          `json:"id" bson:"sharedid"`
	ItineraryItems []ItineraryItem `json:"itineraryItems" bson:"itineraryItems"`
	OriginalUserID string          `json:"originalUserId" bson:"originaluserid"`
	PublishedAt    string          `json:"publishedAt" bson:"publishedat"`

	// IsOwner is computed per request for authenticated viewers; never stored.
	IsOwner bool `json:"isOwner,omitempty" bson:"-"`
}
