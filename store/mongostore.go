package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"tripwallet/db"
	"tripwallet/models"
	"tripwallet/mq"
	"tripwallet/syncer"
	"tripwallet/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when an update or delete matches no record owned
// by the caller.
var ErrNotFound = errors.New("item not found")

const opTimeout = 5 * time.Second

// Mongo implements syncer.Store on the shared MongoDB collections, using
// Redis pub/sub as the change notification transport: every write publishes
// an event on the scope's channel, and subscribers re-query the collection
// when one arrives.
type Mongo struct{}

func (Mongo) Subscribe(ctx context.Context, src syncer.Source, onChange func(syncer.Snapshot), onError func(error)) (func(), error) {
	var channel string
	switch src.Mode {
	case syncer.ModeShared:
		channel = mq.SharedChannel(src.SharedID)
	default:
		channel = mq.UserChannel(src.OwnerID)
	}

	subCtx, cancel := context.WithCancel(ctx)
	events, stop := mq.Subscribe(subCtx, channel)

	fetch := func() {
		snap, err := fetchSource(subCtx, src)
		if err != nil {
			if subCtx.Err() == nil {
				onError(err)
			}
			return
		}
		onChange(snap)
	}

	go func() {
		fetch() // initial snapshot
		for range events {
			fetch()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			cancel()
		})
	}, nil
}

func fetchSource(ctx context.Context, src syncer.Source) (syncer.Snapshot, error) {
	opCtx, cancelOp := context.WithTimeout(ctx, opTimeout)
	defer cancelOp()

	if src.Mode == syncer.ModeShared {
		var shared models.SharedItinerary
		err := db.SharedItinerariesCollection.FindOne(opCtx, bson.M{"sharedid": src.SharedID}).Decode(&shared)
		if err == mongo.ErrNoDocuments {
			return syncer.Snapshot{Found: false}, nil
		}
		if err != nil {
			return syncer.Snapshot{}, err
		}
		return syncer.Snapshot{Items: shared.ItineraryItems, Found: true}, nil
	}

	items, err := utils.FindAndDecode[models.ItineraryItem](opCtx, db.ItineraryItemsCollection, bson.M{"ownerid": src.OwnerID})
	if err != nil {
		return syncer.Snapshot{}, err
	}
	return syncer.Snapshot{Items: items, Found: true}, nil
}

func (Mongo) CreateItem(ctx context.Context, item models.ItineraryItem) (string, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	item.ItemID = utils.GenerateRandomString(13)
	if _, err := db.ItineraryItemsCollection.InsertOne(opCtx, item); err != nil {
		return "", err
	}

	mq.Emit(ctx, mq.UserChannel(item.OwnerID), mq.ItineraryEvent{Action: "created", ItemID: item.ItemID})
	return item.ItemID, nil
}

func (Mongo) UpdateItem(ctx context.Context, item models.ItineraryItem) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// full-document replace: update semantics are overwrite-all-fields
	result, err := db.ItineraryItemsCollection.ReplaceOne(opCtx,
		bson.M{"itemid": item.ItemID, "ownerid": item.OwnerID}, item)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	mq.Emit(ctx, mq.UserChannel(item.OwnerID), mq.ItineraryEvent{Action: "updated", ItemID: item.ItemID})
	return nil
}

func (Mongo) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result, err := db.ItineraryItemsCollection.DeleteOne(opCtx, bson.M{"itemid": itemID, "ownerid": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	mq.Emit(ctx, mq.UserChannel(ownerID), mq.ItineraryEvent{Action: "deleted", ItemID: itemID})
	return nil
}

func (Mongo) Publish(ctx context.Context, ownerID string, items []models.ItineraryItem) (string, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	shared := models.SharedItinerary{
		SharedID:       utils.GenerateRandomString(13),
		ItineraryItems: append([]models.ItineraryItem(nil), items...),
		OriginalUserID: ownerID,
		PublishedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := db.SharedItinerariesCollection.InsertOne(opCtx, shared); err != nil {
		return "", err
	}

	mq.Emit(ctx, mq.SharedChannel(shared.SharedID), mq.ItineraryEvent{Action: "published"})
	return shared.SharedID, nil
}
