package itinerary

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"tripwallet/db"
	"tripwallet/models"
	"tripwallet/syncer"
	"tripwallet/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// GET /api/itinerary/shared/:id/qr
func SharedItineraryQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sharedID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := findShared(ctx, sharedID); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Shared itinerary not found or invalid ID.")
		return
	}

	qrPNG, err := qrcode.Encode(sharedID, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(qrPNG)
}

// GET /api/itinerary/print
func PrintItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := utils.FindAndDecode[models.ItineraryItem](ctx, db.ItineraryItemsCollection, bson.M{"ownerid": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error loading your itinerary. Please try again.")
		return
	}
	syncer.SortByPrimaryDate(items)

	pdfBytes, err := renderItineraryPDF("My Travel Wallet", items, "")
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	servePDF(w, "itinerary.pdf", pdfBytes)
}

// GET /api/itinerary/shared/:id/print
func PrintSharedItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sharedID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	shared, err := findShared(ctx, sharedID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Shared itinerary not found or invalid ID.")
		return
	}

	items := append([]models.ItineraryItem(nil), shared.ItineraryItems...)
	syncer.SortByPrimaryDate(items)

	// QR encodes the share id so the printout stays scannable
	pdfBytes, err := renderItineraryPDF("Shared Itinerary", items, sharedID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	servePDF(w, "itinerary-"+sharedID+".pdf", pdfBytes)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func renderItineraryPDF(title string, items []models.ItineraryItem, qrPayload string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(12)

	if qrPayload != "" {
		qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
		if err != nil {
			return nil, err
		}
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")
	}

	pdf.SetFont("Arial", "", 12)
	if len(items) == 0 {
		pdf.Cell(0, 10, "No items.")
	}
	for _, item := range items {
		switch item.Type {
		case models.ItemTypeFlight:
			pdf.Cell(0, 8, fmt.Sprintf("Flight: %s %s  %s -> %s", item.Airline, item.FlightNumber, item.DepartureAirport, item.ArrivalAirport))
			pdf.Ln(6)
			pdf.Cell(0, 8, fmt.Sprintf("    %s  departs %s, arrives %s", item.DepartureDate, item.DepartureTime, item.ArrivalTime))
		case models.ItemTypeCar:
			pdf.Cell(0, 8, fmt.Sprintf("Car Rental: %s (confirmation %s)", item.Company, item.ConfirmationNumber))
			pdf.Ln(6)
			pdf.Cell(0, 8, fmt.Sprintf("    Pickup %s %s at %s / Return %s %s at %s",
				item.PickupDate, item.PickupTime, item.PickupLocation,
				item.ReturnDate, item.ReturnTime, item.ReturnLocation))
		case models.ItemTypeEvent:
			pdf.Cell(0, 8, fmt.Sprintf("Event: %s", item.Title))
			pdf.Ln(6)
			pdf.Cell(0, 8, fmt.Sprintf("    %s %s  %s", item.StartDate, item.StartTime, item.Location))
		}
		if item.Notes != "" {
			pdf.Ln(6)
			pdf.Cell(0, 8, "    Notes: "+item.Notes)
		}
		pdf.Ln(10)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
