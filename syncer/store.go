package syncer

import (
	"context"

	"tripwallet/models"
)

// Mode selects which record set a controller observes and whether mutations
// are allowed.
type Mode string

const (
	ModePersonal Mode = "personal"
	ModeShared   Mode = "shared"
)

// Source identifies the single logical record set a subscription observes.
type Source struct {
	Mode     Mode
	OwnerID  string
	SharedID string
}

// Snapshot is one change notification payload. Found is false when a shared
// source's snapshot document does not exist.
type Snapshot struct {
	Items []models.ItineraryItem
	Found bool
}

// Store is the external document store the controller is wired to. It is an
// explicit dependency so the controller can be driven by a fake in tests.
//
// Subscribe opens a live feed for src and delivers the current record set on
// every change, starting with an initial snapshot. The returned cancel
// function tears the feed down and is safe to call more than once.
type Store interface {
	Subscribe(ctx context.Context, src Source, onChange func(Snapshot), onError func(error)) (cancel func(), err error)
	CreateItem(ctx context.Context, item models.ItineraryItem) (string, error)
	UpdateItem(ctx context.Context, item models.ItineraryItem) error
	DeleteItem(ctx context.Context, ownerID, itemID string) error
	Publish(ctx context.Context, ownerID string, items []models.ItineraryItem) (string, error)
}
