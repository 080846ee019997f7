package dispatcher

import (
	socketio_types "Kkutmal/services/socket_io/types"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	// timerEventPrefix marks the high-frequency timer-tick event family
	timerEventPrefix = "game_time_"
	// criticalWindowSec: timer events inside this window bypass dedup
	criticalWindowSec = 10
	// maxTrackedRooms bounds the dedup cache
	maxTrackedRooms = 100
)

// Dispatcher fans engine events out to clients: room broadcasts and personal
// sends. High-frequency events are deduplicated per (room, event type) so a
// payload identical to the previous one (ignoring the timestamp) is not
// retransmitted, except timer ticks inside the critical window.
type Dispatcher struct {
	sio *socketio_types.SocketServer

	mu   sync.Mutex
	last map[string]map[string]string // room_id -> event type -> payload fingerprint
}

func NewDispatcher(sio *socketio_types.SocketServer) *Dispatcher {
	return &Dispatcher{
		sio:  sio,
		last: make(map[string]map[string]string),
	}
}

// Broadcast sends an event to every session joined to the room
func (d *Dispatcher) Broadcast(roomID string, event string, data gin.H) {
	if d.suppress(roomID, event, data) {
		return
	}
	stamped := withTimestamp(data)
	d.sio.Sio_server.To(socket.Room(roomID)).Emit(event, stamped)
}

// SendToUser sends an event to one session, if connected. A failed send
// drops the connection from the map.
func (d *Dispatcher) SendToUser(userID int, event string, data gin.H) {
	client, exists := d.sio.GetConnection(userID)
	if !exists {
		return
	}
	if err := client.Emit(event, withTimestamp(data)); err != nil {
		log.Printf("[DISPATCH-ERROR] Failed to send %s to user %d, dropping connection: %v",
			event, userID, err)
		d.sio.RemoveConnection(userID)
	}
}

// PurgeRoom drops the dedup entries for a finished room so the bounded
// cache never leaks entries past end_game
func (d *Dispatcher) PurgeRoom(roomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.last, roomID)
}

// suppress reports whether the event is an unchanged retransmission.
// Timer-tick events in the critical window are always delivered.
func (d *Dispatcher) suppress(roomID string, event string, data gin.H) bool {
	if strings.HasPrefix(event, timerEventPrefix) {
		if sec, ok := remainingSeconds(data); ok && sec <= criticalWindowSec {
			return false
		}
	}

	fingerprint := fingerprintOf(data)

	d.mu.Lock()
	defer d.mu.Unlock()

	events, ok := d.last[roomID]
	if !ok {
		if len(d.last) >= maxTrackedRooms {
			// Bounded cache: evict an arbitrary room to make space
			for k := range d.last {
				delete(d.last, k)
				break
			}
		}
		events = make(map[string]string)
		d.last[roomID] = events
	}

	if prev, seen := events[event]; seen && prev == fingerprint {
		return true
	}
	events[event] = fingerprint
	return false
}

func fingerprintOf(data gin.H) string {
	// The timestamp always differs; exclude it from the comparison
	clone := make(gin.H, len(data))
	for k, v := range data {
		if k == "timestamp" {
			continue
		}
		clone[k] = v
	}
	raw, err := json.Marshal(clone)
	if err != nil {
		return ""
	}
	return string(raw)
}

func withTimestamp(data gin.H) gin.H {
	stamped := make(gin.H, len(data)+1)
	for k, v := range data {
		stamped[k] = v
	}
	stamped["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return stamped
}

func remainingSeconds(data gin.H) (int, bool) {
	switch v := data["remaining_seconds"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
