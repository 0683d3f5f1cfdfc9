package widget

import "time"

// Clock renders the current time, optionally with seconds and date.
type Clock struct {
	Base
	format      string // "12h" or "24h"
	showSeconds bool
	showDate    bool
	now         func() time.Time

	last time.Time
}

func newClock(cfg RawConfig, deps Deps) (Widget, error) {
	const typ = "clock"
	format, err := cfg.getString(typ, "format", "24h")
	if err != nil {
		return nil, err
	}
	if err := cfg.requireOneOf(typ, "format", format, "12h", "24h"); err != nil {
		return nil, err
	}
	showSeconds, err := cfg.getBool(typ, "show_seconds", false)
	if err != nil {
		return nil, err
	}
	showDate, err := cfg.getBool(typ, "show_date", false)
	if err != nil {
		return nil, err
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	c := &Clock{format: format, showSeconds: showSeconds, showDate: showDate, now: now}
	c.last = now()
	return c, nil
}

func (c *Clock) Info() Info {
	return Info{ID: "clock", DisplayName: "Clock", PreferredHeight: 44, MinHeight: 20}
}

func (c *Clock) Tick() { c.last = c.now() }

func (c *Clock) Content() Content {
	layout := "15:04"
	if c.format == "12h" {
		layout = "3:04 PM"
		if c.showSeconds {
			layout = "3:04:05 PM"
		}
	} else if c.showSeconds {
		layout = "15:04:05"
	}
	text := c.last.Format(layout)
	if c.showDate {
		text += "  " + c.last.Format("2006-01-02")
	}
	return TextContent(text, SizeLarge)
}

func (c *Clock) UpdateInterval() time.Duration {
	if c.showSeconds {
		return time.Second
	}
	return time.Minute
}
