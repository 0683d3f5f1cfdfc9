package widget

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Factory builds a widget instance from its opaque per-widget config
// table, or returns a *ValidationError naming the offending field.
type Factory func(cfg RawConfig, deps Deps) (Widget, error)

// Deps bundles the collaborators widget factories may need (weather
// fetching, a clock for testability, a logger). Now may be left nil: the
// clock and countdown widgets then use time.Now. Weather may be left nil:
// the weather widget then never fetches.
type Deps struct {
	Weather WeatherFetcher
	Now     func() time.Time
	Log     zerolog.Logger
}

var factories = map[string]Factory{
	"clock":           newClock,
	"weather":         newWeather,
	"system_monitor":  newSystemMonitor,
	"countdown":       newCountdown,
	"quotes":          newQuotes,
}

// New instantiates the widget registered under typeTag, or an error if
// the tag is unknown or cfg fails that type's validation.
func New(typeTag string, cfg RawConfig, deps Deps) (Widget, error) {
	f, ok := factories[typeTag]
	if !ok {
		return nil, fmt.Errorf("widget: unknown type %q", typeTag)
	}
	return f(cfg, deps)
}

// Known reports whether typeTag names a registered widget type, used by
// the config loader to decide whether a [[widgets]] block counts toward
// the produced widget list (spec §8 invariant 1).
func Known(typeTag string) bool {
	_, ok := factories[typeTag]
	return ok
}
