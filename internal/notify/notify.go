// Package notify shows engine notices as desktop notifications: over D-Bus
// on Linux and through the platform notification center elsewhere.
package notify

// AppName is shown as the sender of every notification.
const AppName = "Serenade"

// Urgency levels as defined by the freedesktop notification protocol.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyCritical:
		return "critical"
	}
	return "unknown"
}

// Notification is one desktop notification.
type Notification struct {
	Title string
	Body  string // plain text
	Icon  string // file path or icon theme name

	// Timeout in milliseconds; -1 lets the server decide, 0 never expires.
	Timeout int32
	// ReplacesID updates a notification shown earlier instead of adding one.
	ReplacesID uint32
	Urgency    Urgency
	// Transient notifications skip the server's history.
	Transient bool
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its server ID, or 0 when the backend
	// cannot track notifications.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

type nopNotifier struct{}

// Nop returns a Notifier that drops everything.
func Nop() Notifier { return nopNotifier{} }

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (nopNotifier) Close(uint32) error                  { return nil }
