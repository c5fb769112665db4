package domain

// NotificationKind tags a message emitted by the serial worker.
type NotificationKind string

const (
	KindLog          NotificationKind = "log"
	KindSuccess      NotificationKind = "success"
	KindError        NotificationKind = "error"
	KindUIDCaptured  NotificationKind = "uid_captured"
	KindDataChanged  NotificationKind = "data_changed"
	KindDisconnected NotificationKind = "disconnected"
)

// Notification is the unit carried on the worker→consumer channel.
// Consumers must tolerate kinds they do not recognize.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message,omitempty"`
	UID     string           `json:"uid,omitempty"`
}
