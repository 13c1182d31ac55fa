// Package lockstate reports whether the user's graphical session is
// locked.
package lockstate

import (
	"context"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	login1Service    = "org.freedesktop.login1"
	login1Manager    = "org.freedesktop.login1.Manager"
	login1Session    = "org.freedesktop.login1.Session"
	login1Path       = dbus.ObjectPath("/org/freedesktop/login1")
	autoSessionPath  = dbus.ObjectPath("/org/freedesktop/login1/session/auto")
	lockedHintMember = login1Session + ".LockedHint"
)

type Detector interface {
	Locked(ctx context.Context) (bool, error)
}

// Logind reads the LockedHint property of the caller's logind session
// from the system bus.
type Logind struct {
	sessionID string
}

// NewLogind uses the session named by XDG_SESSION_ID, or logind's
// "auto" session when the variable is unset (e.g. when run from cron).
func NewLogind() *Logind {
	return &Logind{sessionID: os.Getenv("XDG_SESSION_ID")}
}

func (l *Logind) Locked(ctx context.Context) (bool, error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("connecting to system bus: %w", err)
	}
	defer conn.Close()

	path, err := l.sessionPath(ctx, conn)
	if err != nil {
		return false, err
	}

	v, err := conn.Object(login1Service, path).GetProperty(lockedHintMember)
	if err != nil {
		return false, fmt.Errorf("reading LockedHint of %s: %w", path, err)
	}
	return lockedFromVariant(v)
}

func (l *Logind) sessionPath(ctx context.Context, conn *dbus.Conn) (dbus.ObjectPath, error) {
	if l.sessionID == "" {
		return autoSessionPath, nil
	}
	var path dbus.ObjectPath
	err := conn.Object(login1Service, login1Path).
		CallWithContext(ctx, login1Manager+".GetSession", 0, l.sessionID).
		Store(&path)
	if err != nil {
		return "", fmt.Errorf("looking up session %s: %w", l.sessionID, err)
	}
	return path, nil
}

func lockedFromVariant(v dbus.Variant) (bool, error) {
	locked, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("unexpected LockedHint type %s", v.Signature())
	}
	return locked, nil
}

// Static always reports the same state. It backs the --locked and
// --unlocked overrides and tests.
type Static bool

func (s Static) Locked(context.Context) (bool, error) {
	return bool(s), nil
}
