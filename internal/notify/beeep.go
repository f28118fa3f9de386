//go:build !linux

package notify

import (
	"github.com/gen2brain/beeep"
)

// beeepNotifier shows notifications through the platform's native center.
// It cannot replace or close a notification once shown.
type beeepNotifier struct{}

// New returns a Notifier backed by the platform notification center.
func New() (Notifier, error) {
	beeep.AppName = AppName
	return beeepNotifier{}, nil
}

func (beeepNotifier) Notify(n Notification) (uint32, error) {
	if n.Urgency == UrgencyCritical {
		return 0, beeep.Alert(n.Title, n.Body, n.Icon)
	}
	return 0, beeep.Notify(n.Title, n.Body, n.Icon)
}

func (beeepNotifier) Close(_ uint32) error {
	return nil
}
