package realtime

import (
	"context"
	"encoding/json"
	"sync"

	appointmentRepo "dencare/database/repository/appointment"
	notificationRepo "dencare/database/repository/notification"
	userRepo "dencare/database/repository/user"
	"dencare/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub owns all live connections plus the presence and room state behind
// them. Every mutation funnels through here so connect, disconnect, join
// and leave stay consistent under concurrency.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]sink

	Presence *PresenceRegistry
	Rooms    *RoomRouter

	users         userRepo.Repository
	notifications notificationRepo.Repository
	appointments  appointmentRepo.Repository
	backlogLimit  int64
	logger        *zap.Logger
}

func NewHub(
	users userRepo.Repository,
	notifications notificationRepo.Repository,
	appointments appointmentRepo.Repository,
	backlogLimit int64,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:       make(map[string]sink),
		Presence:      NewPresenceRegistry(),
		Rooms:         NewRoomRouter(),
		users:         users,
		notifications: notifications,
		appointments:  appointments,
		backlogLimit:  backlogLimit,
		logger:        logger,
	}
}

// Register wires a freshly upgraded websocket connection into the hub
// and starts its pumps.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	client := &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.attach(client.id, client)

	go client.writePump()
	go client.readPump()

	h.pushToConn(client.id, PushConnected, map[string]string{"status": "connected", "connId": client.id})
	return client
}

func (h *Hub) attach(connID string, s sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[connID] = s
}

// drop removes every trace of a connection: client registry, presence,
// room memberships. After it returns no push can target the connection.
func (h *Hub) drop(connID string) {
	h.mu.Lock()
	delete(h.clients, connID)
	h.mu.Unlock()

	userID, wasLast := h.Presence.Disconnect(connID)
	h.Rooms.LeaveAll(connID)
	if userID != "" {
		h.logger.Info("connection closed",
			zap.String("connId", connID),
			zap.String("userId", userID),
			zap.Bool("lastConnection", wasLast))
	}
}

// pushToConn delivers one event to one connection. Failures are dropped
// silently; the durable store is the recovery path.
func (h *Hub) pushToConn(connID, event string, data any) bool {
	h.mu.RLock()
	s, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return s.push(PushMessage{Event: event, Data: data})
}

// PushToRoom fans an event out to every connection in the room and
// returns how many pushes were accepted.
func (h *Hub) PushToRoom(room, event string, data any) int {
	delivered := 0
	for _, connID := range h.Rooms.Members(room) {
		if h.pushToConn(connID, event, data) {
			delivered++
		}
	}
	return delivered
}

// PushToUser fans an event out to all of a user's connections.
func (h *Hub) PushToUser(userID, event string, data any) int {
	return h.PushToRoom(UserRoom(userID), event, data)
}

// eventHandlers is the closed dispatch table for inbound events.
var eventHandlers = map[EventKind]func(h *Hub, connID string, data json.RawMessage){
	EventAuthenticate:             (*Hub).handleAuthenticate,
	EventJoinRoom:                 (*Hub).handleJoinRoom,
	EventLeaveRoom:                (*Hub).handleLeaveRoom,
	EventMarkNotificationRead:     (*Hub).handleMarkRead,
	EventRequestAppointmentUpdate: (*Hub).handleAppointmentUpdateRequest,
}

func (h *Hub) handleEvent(connID string, env Envelope) {
	handler, ok := eventHandlers[ParseEventKind(env.Event)]
	if !ok {
		h.pushError(connID, "unknown event")
		return
	}
	handler(h, connID, env.Data)
}

func (h *Hub) pushError(connID, message string) {
	h.pushToConn(connID, PushError, map[string]string{"message": message})
}

// handleAuthenticate binds the connection to a verified user, joins the
// personal room (plus the admin room for privileged users) and replays
// the unread notification backlog.
func (h *Hub) handleAuthenticate(connID string, data json.RawMessage) {
	var payload authenticatePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.UserID == "" {
		h.pushToConn(connID, PushAuthenticated, map[string]string{"status": "error", "message": "missing userId"})
		return
	}

	ctx := context.Background()
	user, err := h.users.GetByID(ctx, payload.UserID)
	if err != nil || !user.IsActive {
		h.pushToConn(connID, PushAuthenticated, map[string]string{"status": "error", "message": "invalid user"})
		return
	}

	h.Presence.Connect(user.ID, connID)
	h.Rooms.Join(connID, UserRoom(user.ID))
	if user.IsAdmin {
		h.Rooms.Join(connID, AdminRoom)
	}

	h.pushToConn(connID, PushAuthenticated, map[string]any{
		"status":  "success",
		"userId":  user.ID,
		"isAdmin": user.IsAdmin,
	})
	h.sendBacklog(ctx, connID, user.ID)

	h.logger.Info("connection authenticated", zap.String("connId", connID), zap.String("userId", user.ID))
}

// sendBacklog replays unread, unexpired notifications, newest first.
func (h *Hub) sendBacklog(ctx context.Context, connID, userID string) {
	backlog, err := h.notifications.ListUnread(ctx, userID, h.backlogLimit)
	if err != nil {
		h.logger.Warn("failed to load notification backlog", zap.String("userId", userID), zap.Error(err))
		return
	}
	for _, n := range backlog {
		h.pushToConn(connID, PushExistingNotification, n)
	}
}

// authorizeAppointment resolves the caller and checks they may see the
// appointment. Unknown and foreign records get the same generic denial.
func (h *Hub) authorizeAppointment(ctx context.Context, connID, appointmentID string) (*models.Appointment, bool) {
	userID, authed := h.Presence.UserFor(connID)
	if !authed {
		h.pushError(connID, "not authenticated")
		return nil, false
	}
	if appointmentID == "" {
		h.pushError(connID, "missing appointmentId")
		return nil, false
	}
	record, err := h.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		h.pushError(connID, "access denied")
		return nil, false
	}
	if record.UserID != userID {
		user, err := h.users.GetByID(ctx, userID)
		if err != nil || !user.IsAdmin {
			h.pushError(connID, "access denied")
			return nil, false
		}
	}
	return record, true
}

func (h *Hub) handleJoinRoom(connID string, data json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.pushError(connID, "malformed event")
		return
	}
	if _, ok := h.authorizeAppointment(context.Background(), connID, payload.AppointmentID); !ok {
		return
	}
	room := AppointmentRoom(payload.AppointmentID)
	h.Rooms.Join(connID, room)
	h.pushToConn(connID, PushJoinedRoom, map[string]string{"room": room, "appointmentId": payload.AppointmentID})
}

func (h *Hub) handleLeaveRoom(connID string, data json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.AppointmentID == "" {
		h.pushError(connID, "malformed event")
		return
	}
	room := AppointmentRoom(payload.AppointmentID)
	h.Rooms.Leave(connID, room)
	h.pushToConn(connID, PushLeftRoom, map[string]string{"room": room, "appointmentId": payload.AppointmentID})
}

func (h *Hub) handleMarkRead(connID string, data json.RawMessage) {
	var payload markReadPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.NotificationID == "" {
		h.pushError(connID, "malformed event")
		return
	}
	userID, authed := h.Presence.UserFor(connID)
	if !authed {
		h.pushError(connID, "not authenticated")
		return
	}
	updated, err := h.notifications.MarkRead(context.Background(), payload.NotificationID, userID)
	if err != nil || !updated {
		h.pushError(connID, "access denied")
		return
	}
	h.pushToConn(connID, PushNotificationUpdated, map[string]any{
		"notificationId": payload.NotificationID,
		"isRead":         true,
	})
}

func (h *Hub) handleAppointmentUpdateRequest(connID string, data json.RawMessage) {
	var payload appointmentUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.pushError(connID, "malformed event")
		return
	}
	record, ok := h.authorizeAppointment(context.Background(), connID, payload.AppointmentID)
	if !ok {
		return
	}
	h.pushToConn(connID, PushAppointmentUpdate, map[string]any{
		"appointmentId": record.ID,
		"status":        record.Status,
		"notes":         record.Notes,
		"updatedAt":     record.UpdatedAt,
	})
}
