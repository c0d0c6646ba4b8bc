package realtime

import "encoding/json"

// EventKind enumerates every inbound connection event. Dispatch runs off
// a closed table so an unhandled kind is a programming error, not a
// silently ignored string.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventAuthenticate
	EventJoinRoom
	EventLeaveRoom
	EventMarkNotificationRead
	EventRequestAppointmentUpdate
)

var eventKinds = map[string]EventKind{
	"authenticate":               EventAuthenticate,
	"join_room":                  EventJoinRoom,
	"leave_room":                 EventLeaveRoom,
	"mark_notification_read":     EventMarkNotificationRead,
	"request_appointment_update": EventRequestAppointmentUpdate,
}

// ParseEventKind maps a wire event name onto its kind.
func ParseEventKind(name string) EventKind {
	if k, ok := eventKinds[name]; ok {
		return k
	}
	return EventUnknown
}

// Outbound event names.
const (
	PushConnected            = "connected"
	PushAuthenticated        = "authenticated"
	PushJoinedRoom           = "joined_room"
	PushLeftRoom             = "left_room"
	PushNewNotification      = "new_notification"
	PushExistingNotification = "existing_notification"
	PushNotificationUpdated  = "notification_updated"
	PushAppointmentUpdate    = "appointment_update"
	PushAdminAlert           = "admin_alert"
	PushSystemHealth         = "system_health"
	PushError                = "error"
)

// Envelope is the inbound wire frame: an event name plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PushMessage is the outbound wire frame.
type PushMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Inbound payloads.

type authenticatePayload struct {
	UserID string `json:"userId"`
}

type roomPayload struct {
	AppointmentID string `json:"appointmentId"`
}

type markReadPayload struct {
	NotificationID string `json:"notificationId"`
}

type appointmentUpdatePayload struct {
	AppointmentID string `json:"appointmentId"`
}
