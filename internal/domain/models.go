package domain

import "time"

// DesktopEnvironment identifies the desktop shell or window manager that owns
// the wallpaper on the current host
type DesktopEnvironment string

const (
	EnvWindows       DesktopEnvironment = "windows"
	EnvMac           DesktopEnvironment = "mac"
	EnvGnome         DesktopEnvironment = "gnome"
	EnvUnity         DesktopEnvironment = "unity"
	EnvCinnamon      DesktopEnvironment = "cinnamon"
	EnvPantheon      DesktopEnvironment = "pantheon"
	EnvMate          DesktopEnvironment = "mate"
	EnvGnome2        DesktopEnvironment = "gnome2"
	EnvKDE           DesktopEnvironment = "kde"
	EnvKDE3          DesktopEnvironment = "kde3"
	EnvTrinity       DesktopEnvironment = "trinity"
	EnvXfce4         DesktopEnvironment = "xfce4"
	EnvRazorQt       DesktopEnvironment = "razor-qt"
	EnvLXDE          DesktopEnvironment = "lxde"
	EnvLXQt          DesktopEnvironment = "lxqt"
	EnvFluxbox       DesktopEnvironment = "fluxbox"
	EnvJWM           DesktopEnvironment = "jwm"
	EnvOpenbox       DesktopEnvironment = "openbox"
	EnvAfterStep     DesktopEnvironment = "afterstep"
	EnvI3            DesktopEnvironment = "i3"
	EnvIceWM         DesktopEnvironment = "icewm"
	EnvBlackbox      DesktopEnvironment = "blackbox"
	EnvWindowMaker   DesktopEnvironment = "windowmaker"
	EnvEnlightenment DesktopEnvironment = "enlightenment"
	EnvAwesome       DesktopEnvironment = "awesome"
	EnvUnknown       DesktopEnvironment = "unknown"
)

// DesktopEnvironments lists every desktop tag that can be reported through
// XDG_CURRENT_DESKTOP or DESKTOP_SESSION. Platform tags are not included.
var DesktopEnvironments = []DesktopEnvironment{
	EnvGnome, EnvUnity, EnvCinnamon, EnvPantheon, EnvMate, EnvGnome2,
	EnvKDE, EnvKDE3, EnvTrinity, EnvXfce4, EnvRazorQt, EnvLXDE, EnvLXQt,
	EnvFluxbox, EnvJWM, EnvOpenbox, EnvAfterStep, EnvI3, EnvIceWM,
	EnvBlackbox, EnvWindowMaker, EnvEnlightenment, EnvAwesome,
}

// ParseDesktopEnvironment returns the tag matching name exactly, or EnvUnknown
func ParseDesktopEnvironment(name string) DesktopEnvironment {
	switch DesktopEnvironment(name) {
	case EnvWindows, EnvMac:
		return DesktopEnvironment(name)
	}
	for _, env := range DesktopEnvironments {
		if string(env) == name {
			return env
		}
	}
	return EnvUnknown
}

func (e DesktopEnvironment) String() string {
	return string(e)
}

// TimeOfDay is the prefix used to pick day/night variants of a wallpaper
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Day     TimeOfDay = "day"
	Evening TimeOfDay = "evening"
	Night   TimeOfDay = "night"
)

// WeatherReport is the result of a single weather lookup
type WeatherReport struct {
	// City the condition was resolved for
	City string
	// Condition is the lowercase condition phrase, e.g. "light rain shower"
	Condition string
	// FetchedAt is when the lookup completed
	FetchedAt time.Time
}

// WallpaperChange describes one completed scheduler cycle
type WallpaperChange struct {
	Timestamp   time.Time
	City        string
	Condition   string
	Environment DesktopEnvironment
	SourcePath  string
	AppliedPath string
	Err         error
}

// ScreenResolution holds the display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}
