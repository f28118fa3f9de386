//go:build linux

package notify

import (
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	busMethod = busName + ".Notify"
	busClose  = busName + ".CloseNotification"
	busCaps   = busName + ".GetCapabilities"
)

type dbusNotifier struct {
	obj dbus.BusObject
	// markup is set when the server parses bodies as markup.
	markup bool
}

// New returns a Notifier talking to the session's notification server. It
// falls back to Nop when there is no session bus.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Nop(), nil //nolint:nilerr // no session bus, no notifications
	}
	n := &dbusNotifier{obj: conn.Object(busName, busPath)}

	var caps []string
	if err := n.obj.Call(busCaps, 0).Store(&caps); err == nil {
		n.markup = slices.Contains(caps, "body-markup")
	}
	return n, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	call := n.obj.Call(busMethod, 0,
		AppName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		bodyFor(notif.Body, n.markup),
		[]string{},
		hintsFor(notif),
		notif.Timeout,
	)
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(busClose, 0, id).Err
}

func hintsFor(n Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant("serenade"),
	}
	if n.Transient {
		hints["transient"] = dbus.MakeVariant(true)
	}
	return hints
}

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// bodyFor escapes body for servers that would otherwise read song titles
// like "Rock & Roll" as markup.
func bodyFor(body string, markup bool) string {
	if !markup {
		return body
	}
	return markupEscaper.Replace(body)
}
