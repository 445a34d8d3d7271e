// Package naming maps weather conditions and the time of day to wallpaper file names.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/genricoloni/weatherdesk/internal/domain"
)

// Weather summaries, each one the stem of a wallpaper file name
const (
	Rain    = "rain"
	Wind    = "wind"
	Thunder = "thunder"
	Snow    = "snow"
	Cloudy  = "cloudy"
	Normal  = "normal"
)

// summary pairs a file stem with the condition fragments that select it
type summary struct {
	name  string
	words []string
}

// summaries is checked in order; the first fragment found in the condition wins.
// "breez" matches both breeze and breezy.
var summaries = []summary{
	{Rain, []string{"drizzle", "rain", "shower"}},
	{Wind, []string{"breez", "gale", "wind"}},
	{Thunder, []string{"thunder"}},
	{Snow, []string{"snow"}},
	{Cloudy, []string{"cloud"}},
}

// Summaries lists every stem a directory must provide, in help-table order
var Summaries = []string{Rain, Snow, Normal, Cloudy, Wind, Thunder}

// Summarize reduces a condition phrase such as "light rain shower" to a file stem
func Summarize(condition string) string {
	condition = strings.ToLower(condition)
	for _, s := range summaries {
		for _, word := range s.words {
			if strings.Contains(condition, word) {
				return s.name
			}
		}
	}
	return Normal
}

// ValidLevel reports whether level is a time detail level; 0 disables time prefixes
func ValidLevel(level int) bool {
	switch level {
	case 0, 2, 3, 4:
		return true
	}
	return false
}

// Moments returns the time-of-day prefixes used at level, or nil when disabled
func Moments(level int) []domain.TimeOfDay {
	switch level {
	case 2:
		return []domain.TimeOfDay{domain.Day, domain.Night}
	case 3:
		return []domain.TimeOfDay{domain.Day, domain.Evening, domain.Night}
	case 4:
		return []domain.TimeOfDay{domain.Morning, domain.Day, domain.Evening, domain.Night}
	}
	return nil
}

// TimeOfDay buckets the hour of t for the given detail level:
//
//	2: day 06-20, night otherwise
//	3: day 06-17, evening 17-20, night otherwise
//	4: morning 06-08, day 08-17, evening 17-20, night otherwise
func TimeOfDay(level int, t time.Time) domain.TimeOfDay {
	h := t.Hour()
	switch level {
	case 4:
		switch {
		case h >= 6 && h < 8:
			return domain.Morning
		case h >= 8 && h < 17:
			return domain.Day
		case h >= 17 && h < 20:
			return domain.Evening
		}
		return domain.Night
	case 3:
		switch {
		case h >= 6 && h < 17:
			return domain.Day
		case h >= 17 && h < 20:
			return domain.Evening
		}
		return domain.Night
	default:
		if h >= 6 && h < 20 {
			return domain.Day
		}
		return domain.Night
	}
}

// NormalizeExt makes sure a file format starts with a dot
func NormalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// FileName builds {time-}{summary}{ext} for a condition observed at t
func FileName(condition string, level int, t time.Time, ext string) string {
	name := Summarize(condition) + NormalizeExt(ext)
	if level == 0 {
		return name
	}
	return string(TimeOfDay(level, t)) + "-" + name
}

// RequiredFiles lists every file a wallpaper directory needs for level
func RequiredFiles(level int, ext string) []string {
	ext = NormalizeExt(ext)
	moments := Moments(level)
	if len(moments) == 0 {
		files := make([]string, 0, len(Summaries))
		for _, s := range Summaries {
			files = append(files, s+ext)
		}
		return files
	}

	files := make([]string, 0, len(moments)*len(Summaries))
	for _, m := range moments {
		for _, s := range Summaries {
			files = append(files, string(m)+"-"+s+ext)
		}
	}
	return files
}

// Missing returns the full paths of required files absent from dir
func Missing(dir string, level int, ext string) []string {
	var missing []string
	for _, name := range RequiredFiles(level, ext) {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, path)
		}
	}
	return missing
}

// Rules renders the file-naming help shown by the naming command
func Rules(ext string) string {
	ext = NormalizeExt(ext)
	var b strings.Builder
	b.WriteString("This is how to name files in the wallpaper directory:\n\n")
	fmt.Fprintf(&b, " %-24s | %s\n", "WEATHER", "FILENAME")
	b.WriteString("_" + strings.Repeat("_", 25) + "|" + strings.Repeat("_", 16) + "\n")

	rows := []struct{ weather, stem string }{
		{"Clear, Calm, Fair:", Normal},
		{"Thunderstorm:", Thunder},
		{"Windy, Breeze, Gale:", Wind},
		{"Drizzle, Rain, Showers:", Rain},
		{"Snow:", Snow},
		{"Cloudy:", Cloudy},
		{"Other:", Normal},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, " %-24s | %s%s\n", r.weather, r.stem, ext)
	}

	b.WriteString(`
 If using with --time or --time 3, add:
 "day-", "evening-" or "night-" in front of filename.

 If using with --time 4, add:
 "morning-", "day-", "evening-" or "night-"

 If using with --time 2, add:
 "day-" or "night-"
`)
	return b.String()
}
