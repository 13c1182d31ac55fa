package notify

import (
	"io"
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Desktop shows notifications through the platform's notification
// service. Delivery is best effort: failures are logged and dropped.
type Desktop struct {
	enabled bool
	logger  *slog.Logger
	send    func(title, message string) error
}

func New(enabled bool, logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Desktop{
		enabled: enabled,
		logger:  logger,
		send:    SendNotification,
	}
}

func (d *Desktop) Notify(title, body, subtitle string) {
	if !d.enabled {
		return
	}
	message := body
	if subtitle != "" {
		message = body + "\n" + subtitle
	}
	if err := d.send(title, message); err != nil {
		d.logger.Debug("notification not delivered", "title", title, "error", err)
	}
}

func SendNotification(title, message string) error {
	beeep.AppName = "worktime"
	return beeep.Notify(title, message, "")
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(title, body, subtitle string) {}
