package syncer

import (
	"testing"

	"tripwallet/models"
)

func flightOn(date, id string) models.ItineraryItem {
	return models.ItineraryItem{ItemID: id, Type: models.ItemTypeFlight, DepartureDate: date}
}

func carOn(date, id string) models.ItineraryItem {
	return models.ItineraryItem{ItemID: id, Type: models.ItemTypeCar, PickupDate: date}
}

func eventOn(date, id string) models.ItineraryItem {
	return models.ItineraryItem{ItemID: id, Type: models.ItemTypeEvent, StartDate: date}
}

func TestSortByPrimaryDateMixedKinds(t *testing.T) {
	items := []models.ItineraryItem{
		eventOn("2025-07-01", "e1"),
		flightOn("2025-03-10", "f1"),
		carOn("2025-05-20", "c1"),
		flightOn("2025-01-02", "f2"),
	}

	SortByPrimaryDate(items)

	want := []string{"f2", "f1", "c1", "e1"}
	for i, id := range want {
		if items[i].ItemID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ItemID)
		}
	}
}

func TestSortByPrimaryDateTieKeepsInputOrder(t *testing.T) {
	items := []models.ItineraryItem{
		carOn("2025-04-01", "first"),
		eventOn("2025-04-01", "second"),
		flightOn("2025-04-01", "third"),
	}

	SortByPrimaryDate(items)

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if items[i].ItemID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ItemID)
		}
	}
}

func TestSortByPrimaryDateUnparseableSortsFirst(t *testing.T) {
	items := []models.ItineraryItem{
		flightOn("2025-02-01", "dated"),
		eventOn("not-a-date", "bogus"),
		carOn("", "blank"),
	}

	SortByPrimaryDate(items)

	if items[0].ItemID != "bogus" || items[1].ItemID != "blank" {
		t.Fatalf("expected undated items first, got %s, %s, %s",
			items[0].ItemID, items[1].ItemID, items[2].ItemID)
	}
	if items[2].ItemID != "dated" {
		t.Fatalf("expected dated item last, got %s", items[2].ItemID)
	}
}
