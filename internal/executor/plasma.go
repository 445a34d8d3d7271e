package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	plasmaService   = "org.kde.plasmashell"
	plasmaPath      = "/PlasmaShell"
	plasmaEvaluate  = "org.kde.PlasmaShell.evaluateScript"
	plasmaImagePlug = "org.kde.image"
)

// PlasmaShell sends desktop scripts to a running KDE Plasma shell.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/plasma_mock.go -package=mocks github.com/genricoloni/weatherdesk/internal/executor PlasmaShell
type PlasmaShell interface {
	EvaluateScript(ctx context.Context, script string) error
}

// DBusPlasmaShell is the real implementation using godbus.
// The session bus connection is opened on first use.
type DBusPlasmaShell struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewDBusPlasmaShell creates a client; it does not connect yet
func NewDBusPlasmaShell() *DBusPlasmaShell {
	return &DBusPlasmaShell{}
}

// EvaluateScript calls org.kde.PlasmaShell.evaluateScript on the session bus
func (p *DBusPlasmaShell) EvaluateScript(ctx context.Context, script string) error {
	conn, err := p.connection()
	if err != nil {
		return err
	}

	obj := conn.Object(plasmaService, dbus.ObjectPath(plasmaPath))
	call := obj.CallWithContext(ctx, plasmaEvaluate, 0, script)
	if call.Err != nil {
		return fmt.Errorf("evaluateScript failed: %w", call.Err)
	}
	return nil
}

// Close releases the session bus connection, if one was opened
func (p *DBusPlasmaShell) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

func (p *DBusPlasmaShell) connection() (*dbus.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && p.conn.Connected() {
		return p.conn, nil
	}

	// A private connection so Close does not tear down the shared session bus
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}
	p.conn = conn
	return conn, nil
}
