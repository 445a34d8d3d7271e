package domain

import "testing"

func TestParseDesktopEnvironment(t *testing.T) {
	tests := []struct {
		name string
		want DesktopEnvironment
	}{
		{"gnome", EnvGnome},
		{"razor-qt", EnvRazorQt},
		{"windowmaker", EnvWindowMaker},
		{"windows", EnvWindows},
		{"mac", EnvMac},
		{"unknown", EnvUnknown},
		{"GNOME", EnvUnknown},
		{"x-cinnamon", EnvUnknown},
		{"", EnvUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDesktopEnvironment(tt.name); got != tt.want {
				t.Errorf("ParseDesktopEnvironment(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseDesktopEnvironment_RoundTrip(t *testing.T) {
	for _, env := range DesktopEnvironments {
		if got := ParseDesktopEnvironment(env.String()); got != env {
			t.Errorf("ParseDesktopEnvironment(%q) = %s", env, got)
		}
	}
}
