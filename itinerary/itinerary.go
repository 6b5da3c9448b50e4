// itinerary.go
package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tripwallet/db"
	"tripwallet/models"
	"tripwallet/rdx"
	"tripwallet/store"
	"tripwallet/syncer"
	"tripwallet/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// itinStore is the shared write path; it emits the change events live
// viewers depend on, so handlers must not write to the collections directly.
var itinStore syncer.Store = store.Mongo{}

// GET /api/itinerary/items
func GetItineraryItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
	if items == nil {
		items = []models.ItineraryItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// POST /api/itinerary/items
func CreateItineraryItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var item models.ItineraryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	item.OwnerID = userID
	item.ItemID = ""
	if item.Timestamp == "" {
		item.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	id, err := itinStore.CreateItem(r.Context(), item)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	item.ItemID = id
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

// PUT /api/itinerary/items/:id
func UpdateItineraryItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var item models.ItineraryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item.ItemID = ps.ByName("id")
	item.OwnerID = userID

	if err := itinStore.UpdateItem(r.Context(), item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Item updated successfully!"})
}

// DELETE /api/itinerary/items/:id
func DeleteItineraryItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := itinStore.DeleteItem(r.Context(), userID, ps.ByName("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Item deleted successfully!"})
}

// POST /api/itinerary/publish
func PublishItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
	if len(items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Your itinerary is empty. Add items before publishing.")
		return
	}
	syncer.SortByPrimaryDate(items)

	id, err := itinStore.Publish(ctx, userID, items)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"id":      id,
		"message": "Itinerary published! Share this ID: " + id,
	})
}

// GET /api/itinerary/shared/:id
// Public, but behind OptionalAuth: an authenticated owner sees isOwner set.
func GetSharedItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	shared, err := findShared(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Shared itinerary not found or invalid ID.")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	shared.IsOwner = userID != "" && userID == shared.OriginalUserID

	syncer.SortByPrimaryDate(shared.ItineraryItems)
	utils.RespondWithJSON(w, http.StatusOK, shared)
}

const sharedCacheTTL = 10 * time.Minute

// findShared resolves a published snapshot, via a Redis cache when possible.
// Snapshots never change after publish, so a TTL cache cannot go stale.
func findShared(ctx context.Context, sharedID string) (models.SharedItinerary, error) {
	var shared models.SharedItinerary
	if cached, err := rdx.RdxGet("shared:" + sharedID); err == nil && cached != "" {
		if err := json.Unmarshal([]byte(cached), &shared); err == nil {
			return shared, nil
		}
	}

	err := db.SharedItinerariesCollection.FindOne(ctx, bson.M{"sharedid": sharedID}).Decode(&shared)
	if err != nil {
		return shared, err
	}

	if data, err := json.Marshal(shared); err == nil {
		if err := rdx.SetWithExpiry("shared:"+sharedID, string(data), sharedCacheTTL); err != nil {
			log.Printf("Failed to cache shared itinerary %s: %v", sharedID, err)
		}
	}
	return shared, nil
}

func findOwnedItem(ctx context.Context, ownerID, itemID string) (models.ItineraryItem, error) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item models.ItineraryItem
	err := db.ItineraryItemsCollection.FindOne(opCtx, bson.M{"itemid": itemID, "ownerid": ownerID}).Decode(&item)
	return item, err
}
