package livefeed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tripwallet/middleware"
	"tripwallet/models"
	"tripwallet/syncer"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// inboundPayload is one client command on the feed socket.
type inboundPayload struct {
	Action   string                `json:"action"`
	Item     *models.ItineraryItem `json:"item,omitempty"`
	SharedID string                `json:"sharedId,omitempty"`
}

// Session ties one websocket connection to its own controller. State frames
// flow out through send; commands coming in are dispatched to the controller.
type Session struct {
	conn *websocket.Conn
	send chan []byte
	ctrl *syncer.Controller
}

// ItineraryFeed upgrades GET /ws/itinerary to a live feed. The token travels
// as a query parameter because browsers cannot set headers on websockets.
func ItineraryFeed(st syncer.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, err := middleware.ValidateJWT(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		session := &Session{
			conn: conn,
			send: make(chan []byte, 16),
		}
		session.ctrl = syncer.New(st, claims.UserID, session.pushState)

		ctx, cancel := context.WithCancel(context.Background())
		session.ctrl.Start(ctx)

		go session.writePump()
		session.readPump(ctx, cancel)
	}
}

func (s *Session) readPump(ctx context.Context, cancel context.CancelFunc) {
	// send is never closed: a late controller callback may still push after
	// teardown, and pushState dropping into a dead buffer is harmless.
	defer func() {
		cancel()
		s.ctrl.Stop()
		s.conn.Close()
	}()

	s.conn.SetReadLimit(64 << 10)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Println("read error:", err)
			}
			return
		}

		var payload inboundPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Println("bad payload:", err)
			continue
		}
		s.handleAction(ctx, payload)
	}
}

func (s *Session) handleAction(ctx context.Context, p inboundPayload) {
	switch p.Action {
	case "add", "update":
		if p.Item != nil {
			s.ctrl.AddOrUpdate(ctx, *p.Item)
		}
	case "delete":
		if p.Item != nil {
			s.ctrl.SelectDelete(*p.Item)
		}
	case "confirmDelete":
		s.ctrl.ConfirmDelete(ctx)
	case "cancelDelete":
		s.ctrl.CancelDelete()
	case "publish":
		s.ctrl.Publish(ctx)
	case "viewShared":
		s.ctrl.ViewShared(p.SharedID)
	case "viewMine":
		s.ctrl.ViewMine()
	default:
		log.Printf("unknown action: %q", p.Action)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// pushState serializes a state frame onto the send queue. A viewer that
// cannot keep up drops frames rather than stalling the controller.
func (s *Session) pushState(st syncer.State) {
	frame, err := json.Marshal(st)
	if err != nil {
		log.Println("state marshal:", err)
		return
	}
	select {
	case s.send <- frame:
	default:
	}
}
