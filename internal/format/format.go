// Package format turns stored mission data into display strings. It holds no
// business logic.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const Unknown = "Unknown"

// Title converts snake_case identifiers to title-cased words. A cases.Caser
// keeps state between calls, so each call gets its own.
func Title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Distance picks km, thousand km or million km.
func Distance(km float64) string {
	switch {
	case km < 1000:
		return fmt.Sprintf("%.1f km", km)
	case km < 1_000_000:
		return fmt.Sprintf("%.1f thousand km", km/1000)
	default:
		return fmt.Sprintf("%.1f million km", km/1_000_000)
	}
}

func Velocity(kmPerSecond float64) string {
	return fmt.Sprintf("%.1f km/s", kmPerSecond)
}

// Duration picks days, months (30 days) or years (365 days).
func Duration(days float64) string {
	switch {
	case days < 30:
		return fmt.Sprintf("%.1f days", days)
	case days < 365:
		return fmt.Sprintf("%.1f months", days/30)
	default:
		return fmt.Sprintf("%.1f years", days/365)
	}
}

func Mass(kg float64) string {
	return fmt.Sprintf("%.2e kg", kg)
}

func Gravity(ms2 float64) string {
	return fmt.Sprintf("%.2f m/s²", ms2)
}

func Percentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// DateTime formats t in UTC, or Unknown for the zero time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// Kilograms renders a whole-kilogram amount with thousands separators.
func Kilograms(kg float64) string {
	return humanize.Comma(int64(math.Round(kg))) + " kg"
}

// Days renders a whole number of days.
func Days(n int) string {
	return fmt.Sprintf("%d days", n)
}

// People renders a crew size.
func People(n int) string {
	if n == 1 {
		return "1 person"
	}
	return fmt.Sprintf("%d people", n)
}

// Badge is a display label with a color class and icon name.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type badgeStyle struct {
	color string
	icon  string
}

var riskStyles = map[string]badgeStyle{
	"low":      {color: "success", icon: "check-circle"},
	"medium":   {color: "warning", icon: "exclamation-triangle"},
	"high":     {color: "danger", icon: "exclamation-circle"},
	"critical": {color: "danger", icon: "times-circle"},
}

var statusStyles = map[string]badgeStyle{
	"draft":     {color: "secondary", icon: "edit"},
	"analyzing": {color: "info", icon: "spinner"},
	"completed": {color: "success", icon: "check"},
	"failed":    {color: "danger", icon: "times"},
}

var defaultStyle = badgeStyle{color: "secondary", icon: "question-circle"}

func RiskBadge(level string) Badge {
	return badge(level, riskStyles)
}

func StatusBadge(status string) Badge {
	return badge(status, statusStyles)
}

func badge(key string, styles map[string]badgeStyle) Badge {
	style, ok := styles[key]
	if !ok {
		style = defaultStyle
	}
	return Badge{Label: Title(key), Color: style.color, Icon: style.icon}
}
