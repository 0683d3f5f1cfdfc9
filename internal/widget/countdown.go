package widget

import (
	"strconv"
	"strings"
	"time"
)

// Countdown renders the time remaining until a target date.
type Countdown struct {
	Base
	label  string
	target time.Time
	now    func() time.Time

	showDays, showHours, showMinutes, showSeconds bool

	remaining time.Duration
}

var countdownLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

func newCountdown(cfg RawConfig, deps Deps) (Widget, error) {
	const typ = "countdown"
	label, err := cfg.getString(typ, "label", "")
	if err != nil {
		return nil, err
	}
	targetStr, err := cfg.getString(typ, "target_date", "")
	if err != nil {
		return nil, err
	}
	var target time.Time
	var parseErr error
	for _, layout := range countdownLayouts {
		target, parseErr = time.ParseInLocation(layout, targetStr, time.Local)
		if parseErr == nil {
			break
		}
	}
	if parseErr != nil {
		return nil, invalid(typ, "target_date", "not parseable as YYYY-MM-DD or YYYY-MM-DD HH:MM:SS: %v", parseErr)
	}

	showDays, err := cfg.getBool(typ, "show_days", true)
	if err != nil {
		return nil, err
	}
	showHours, err := cfg.getBool(typ, "show_hours", true)
	if err != nil {
		return nil, err
	}
	showMinutes, err := cfg.getBool(typ, "show_minutes", true)
	if err != nil {
		return nil, err
	}
	showSeconds, err := cfg.getBool(typ, "show_seconds", false)
	if err != nil {
		return nil, err
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	c := &Countdown{
		label: label, target: target, now: now,
		showDays: showDays, showHours: showHours,
		showMinutes: showMinutes, showSeconds: showSeconds,
	}
	c.Tick()
	return c, nil
}

func (c *Countdown) Info() Info {
	return Info{ID: "countdown", DisplayName: "Countdown", PreferredHeight: 44, MinHeight: 20}
}

func (c *Countdown) UpdateInterval() time.Duration {
	if c.showSeconds {
		return time.Second
	}
	return time.Minute
}

func (c *Countdown) Tick() {
	c.remaining = c.target.Sub(c.now())
	if c.remaining < 0 {
		c.remaining = 0
	}
}

func (c *Countdown) Content() Content {
	d := c.remaining
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	text := c.label
	if text != "" {
		text += ": "
	}
	parts := 0
	if c.showDays {
		text += itoaPad(days) + "d "
		parts++
	}
	if c.showHours {
		text += itoaPad(hours) + "h "
		parts++
	}
	if c.showMinutes {
		text += itoaPad(minutes) + "m "
		parts++
	}
	if c.showSeconds {
		text += itoaPad(seconds) + "s "
		parts++
	}
	if parts == 0 {
		text += itoaPad(days) + "d"
	}
	return TextContent(strings.TrimRight(text, " "), SizeMedium)
}

func itoaPad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
