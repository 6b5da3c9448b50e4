package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tripwallet/models"
)

// noticeTTL is how long success notices stay visible before clearing.
var noticeTTL = 3 * time.Second

// State is what a viewer of the itinerary sees: the active mode, the sorted
// item list and the current notice text.
type State struct {
	Mode            Mode                   `json:"mode"`
	SharedID        string                 `json:"sharedId,omitempty"`
	Items           []models.ItineraryItem `json:"items"`
	Notice          string                 `json:"notice,omitempty"`
	PendingDeleteID string                 `json:"pendingDeleteId,omitempty"`
}

// Controller keeps one user's itinerary view in sync with the store. It owns
// at most one live subscription at a time, keyed by (mode, shared id, owner);
// changing any of those tears the old subscription down before the next one
// is opened. Mutations are forwarded to the store in personal mode and
// rejected in shared mode.
//
// Known quirk, kept on purpose: callbacks from a superseded subscription or a
// slow mutation are still applied to current state, with no generation check.
type Controller struct {
	store   Store
	ownerID string
	notify  func(State)

	mu            sync.Mutex
	ctx           context.Context
	mode          Mode
	sharedID      string
	items         []models.ItineraryItem
	notice        string
	noticeTimer   *time.Timer
	pendingDelete *models.ItineraryItem
	cancelSub     func()
}

// New builds a controller in personal mode. notify is invoked with a state
// copy after every change; it may be nil.
func New(store Store, ownerID string, notify func(State)) *Controller {
	return &Controller{
		store:   store,
		ownerID: ownerID,
		notify:  notify,
		mode:    ModePersonal,
	}
}

// Start opens the initial personal subscription. ctx bounds every
// subscription the controller opens afterwards.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
	c.resubscribeLocked()
	c.pushLocked()
}

// Stop tears down the live subscription and any pending notice timer.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelSub != nil {
		c.cancelSub()
		c.cancelSub = nil
	}
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// AddOrUpdate creates the item when it has no id yet, otherwise overwrites
// the stored record wholesale. Rejected in shared view.
func (c *Controller) AddOrUpdate(ctx context.Context, item models.ItineraryItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeShared {
		c.notice = "Cannot add/update items in shared view or database not ready."
		c.pushLocked()
		return
	}

	item.OwnerID = c.ownerID
	if item.ItemID == "" {
		if _, err := c.store.CreateItem(ctx, item); err != nil {
			c.notice = fmt.Sprintf("Error adding/updating item: %v", err)
			c.pushLocked()
			return
		}
		c.setTransientNoticeLocked("Item added successfully!")
	} else {
		if err := c.store.UpdateItem(ctx, item); err != nil {
			c.notice = fmt.Sprintf("Error adding/updating item: %v", err)
			c.pushLocked()
			return
		}
		c.setTransientNoticeLocked("Item updated successfully!")
	}
	c.pushLocked()
}

// SelectDelete marks an item for deletion; nothing is removed until
// ConfirmDelete. Destructive actions always take this two-step path.
func (c *Controller) SelectDelete(item models.ItineraryItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeShared {
		c.notice = "Cannot delete items in shared view."
		c.pushLocked()
		return
	}
	c.pendingDelete = &item
	c.pushLocked()
}

// CancelDelete clears the pending selection.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
	c.pushLocked()
}

// ConfirmDelete removes the previously selected item. Without a selection it
// performs no store call.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingDelete == nil || c.mode == ModeShared {
		c.notice = "Cannot delete: Database not ready, no item selected, or in shared view."
		c.pushLocked()
		return
	}

	if err := c.store.DeleteItem(ctx, c.ownerID, c.pendingDelete.ItemID); err != nil {
		c.notice = fmt.Sprintf("Error deleting item: %v", err)
		c.pushLocked()
		return
	}
	c.pendingDelete = nil
	c.setTransientNoticeLocked("Item deleted successfully!")
	c.pushLocked()
}

// Publish snapshots the current list into a new shared itinerary and then
// switches the controller to viewing it. Publishing an empty list is
// rejected.
func (c *Controller) Publish(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeShared {
		c.notice = "Cannot publish while viewing a shared itinerary."
		c.pushLocked()
		return
	}
	if len(c.items) == 0 {
		c.notice = "Your itinerary is empty. Add items before publishing."
		c.pushLocked()
		return
	}

	snapshot := append([]models.ItineraryItem(nil), c.items...)
	id, err := c.store.Publish(ctx, c.ownerID, snapshot)
	if err != nil {
		c.notice = fmt.Sprintf("Error publishing itinerary: %v", err)
		c.pushLocked()
		return
	}

	c.notice = fmt.Sprintf("Itinerary published! Share this ID: %s", id)
	c.sharedID = id
	c.mode = ModeShared
	c.resubscribeLocked()
	c.pushLocked()
}

// ViewShared switches to viewing the snapshot with the given id. A blank id
// is rejected without changing modes.
func (c *Controller) ViewShared(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id = strings.TrimSpace(id)
	if id == "" {
		c.notice = "Please enter a valid Shared Itinerary ID."
		c.pushLocked()
		return
	}

	c.sharedID = id
	c.mode = ModeShared
	c.resubscribeLocked()
	c.pushLocked()
}

// ViewMine switches back to the personal itinerary unconditionally.
func (c *Controller) ViewMine() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mode = ModePersonal
	c.sharedID = ""
	c.notice = "Viewing your personal itinerary."
	c.resubscribeLocked()
	c.pushLocked()
}

// resubscribeLocked tears down the active subscription and opens the one
// matching current (mode, shared id). Cancel-before-subscribe is the
// invariant here; cancelling twice or with nothing open is a no-op.
func (c *Controller) resubscribeLocked() {
	if c.cancelSub != nil {
		c.cancelSub()
		c.cancelSub = nil
	}
	if c.ctx == nil {
		return
	}

	if c.mode == ModeShared && c.sharedID == "" {
		c.items = nil
		return
	}

	src := Source{Mode: c.mode, OwnerID: c.ownerID, SharedID: c.sharedID}
	cancel, err := c.store.Subscribe(c.ctx, src,
		func(snap Snapshot) { c.applySnapshot(src, snap) },
		func(err error) { c.applySubError(src, err) },
	)
	if err != nil {
		c.items = nil
		c.applyLoadErrorLocked(src)
		return
	}
	c.cancelSub = cancel
}

// applySnapshot handles one change notification. The snapshot is interpreted
// per the source it was requested for, but written to current state.
func (c *Controller) applySnapshot(src Source, snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if src.Mode == ModeShared {
		if !snap.Found {
			c.items = nil
			c.notice = "Shared itinerary not found or invalid ID."
			c.pushLocked()
			return
		}
		items := append([]models.ItineraryItem(nil), snap.Items...)
		SortByPrimaryDate(items)
		c.items = items
		c.notice = fmt.Sprintf("Viewing shared itinerary: %s", src.SharedID)
		c.pushLocked()
		return
	}

	items := append([]models.ItineraryItem(nil), snap.Items...)
	SortByPrimaryDate(items)
	c.items = items
	c.notice = ""
	c.pushLocked()
}

func (c *Controller) applySubError(src Source, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.applyLoadErrorLocked(src)
	c.pushLocked()
}

func (c *Controller) applyLoadErrorLocked(src Source) {
	if src.Mode == ModeShared {
		c.notice = "Error loading shared itinerary. Please try again."
	} else {
		c.notice = "Error loading your itinerary. Please try again."
	}
}

// setTransientNoticeLocked shows a notice that clears itself after
// noticeTTL, unless another notice replaced it in the meantime.
func (c *Controller) setTransientNoticeLocked(msg string) {
	c.notice = msg
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.noticeTimer = time.AfterFunc(noticeTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.notice == msg {
			c.notice = ""
			c.pushLocked()
		}
	})
}

func (c *Controller) stateLocked() State {
	st := State{
		Mode:     c.mode,
		SharedID: c.sharedID,
		Items:    append([]models.ItineraryItem(nil), c.items...),
		Notice:   c.notice,
	}
	if c.pendingDelete != nil {
		st.PendingDeleteID = c.pendingDelete.ItemID
	}
	return st
}

func (c *Controller) pushLocked() {
	if c.notify != nil {
		c.notify(c.stateLocked())
	}
}
