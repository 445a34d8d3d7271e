package desktop

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// WindowManagerProber reports the name the running window manager advertises
type WindowManagerProber interface {
	WindowManagerName(ctx context.Context) (string, error)
}

// X11Prober reads the EWMH _NET_WM_NAME of the window named by
// _NET_SUPPORTING_WM_CHECK on the root window
type X11Prober struct{}

// NewX11Prober creates a prober that connects to $DISPLAY on each call
func NewX11Prober() *X11Prober {
	return &X11Prober{}
}

type probeResult struct {
	name string
	err  error
}

// WindowManagerName queries the X server; xgb has no cancellation so the
// query runs in a goroutine and ctx bounds how long we wait for it
func (p *X11Prober) WindowManagerName(ctx context.Context) (string, error) {
	done := make(chan probeResult, 1)
	go func() {
		name, err := queryWindowManager()
		done <- probeResult{name: name, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.name, res.err
	}
}

func queryWindowManager() (string, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return "", fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	root := xproto.Setup(conn).DefaultScreen(conn).Root

	atoms := make(map[string]xproto.Atom)
	for _, name := range []string{"_NET_SUPPORTING_WM_CHECK", "_NET_WM_NAME", "UTF8_STRING"} {
		reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
		if err != nil {
			return "", fmt.Errorf("failed to intern %s: %w", name, err)
		}
		atoms[name] = reply.Atom
	}

	check, err := xproto.GetProperty(conn, false, root,
		atoms["_NET_SUPPORTING_WM_CHECK"], xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return "", fmt.Errorf("failed to read _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if len(check.Value) < 4 {
		return "", errors.New("window manager is not EWMH compliant")
	}
	wmWindow := xproto.Window(binary.LittleEndian.Uint32(check.Value))

	name, err := xproto.GetProperty(conn, false, wmWindow,
		atoms["_NET_WM_NAME"], atoms["UTF8_STRING"], 0, 256).Reply()
	if err != nil {
		return "", fmt.Errorf("failed to read _NET_WM_NAME: %w", err)
	}
	return strings.TrimRight(string(name.Value), "\x00"), nil
}

// windowManagerNames maps lowercase substrings of _NET_WM_NAME to environments
var windowManagerNames = []struct {
	fragment string
	env      domain.DesktopEnvironment
}{
	{"xfwm4", domain.EnvXfce4},
	{"kwin", domain.EnvKDE},
	{"marco", domain.EnvMate},
	{"muffin", domain.EnvCinnamon},
	{"gala", domain.EnvPantheon},
	{"gnome shell", domain.EnvGnome},
	{"mutter", domain.EnvGnome},
	{"openbox", domain.EnvOpenbox},
	{"fluxbox", domain.EnvFluxbox},
	{"blackbox", domain.EnvBlackbox},
	{"icewm", domain.EnvIceWM},
	{"jwm", domain.EnvJWM},
	{"afterstep", domain.EnvAfterStep},
	{"window maker", domain.EnvWindowMaker},
	{"wmaker", domain.EnvWindowMaker},
	{"enlightenment", domain.EnvEnlightenment},
	{"awesome", domain.EnvAwesome},
	{"i3", domain.EnvI3},
}

// ClassifyWindowManager maps an advertised window manager name to an environment
func ClassifyWindowManager(name string) (domain.DesktopEnvironment, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	for _, wm := range windowManagerNames {
		if strings.Contains(name, wm.fragment) {
			return wm.env, true
		}
	}
	return "", false
}
