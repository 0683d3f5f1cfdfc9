package widget

import (
	"context"
	"strconv"
	"time"
)

// WeatherSnapshot is the result of a weather fetch, per §6.
type WeatherSnapshot struct {
	TemperatureC float64
	Condition    string
	FetchedAt    time.Time
}

// WeatherFetcher is the external collaborator from §6: fetch(city, units,
// api_key) -> future<WeatherSnapshot>. The widget offloads the call onto a
// goroutine and receives the result over a channel so Tick() never blocks
// (§4.5: "Must not block").
type WeatherFetcher interface {
	Fetch(ctx context.Context, city, units, apiKey string) (WeatherSnapshot, error)
}

// Weather renders a city's current temperature, refetched on its own
// update interval.
type Weather struct {
	Base
	city        string
	apiKey      string
	unit        string // "celsius" or "fahrenheit"
	interval    time.Duration
	fetcher     WeatherFetcher

	pending  chan fetchResult
	inFlight bool
	cancel   context.CancelFunc

	snapshot WeatherSnapshot
	errMsg   string
	haveData bool
}

type fetchResult struct {
	snap WeatherSnapshot
	err  error
}

func newWeather(cfg RawConfig, deps Deps) (Widget, error) {
	const typ = "weather"
	city, err := cfg.getString(typ, "city", "")
	if err != nil {
		return nil, err
	}
	apiKey, err := cfg.getString(typ, "api_key", "")
	if err != nil {
		return nil, err
	}
	unit, err := cfg.getString(typ, "temperature_unit", "celsius")
	if err != nil {
		return nil, err
	}
	if err := cfg.requireOneOf(typ, "temperature_unit", unit, "celsius", "fahrenheit"); err != nil {
		return nil, err
	}
	interval, err := cfg.getInt(typ, "update_interval", 600)
	if err != nil {
		return nil, err
	}
	if interval < 60 {
		deps.Log.Warn().Int("update_interval", interval).Msg("weather update_interval below 60s floods the upstream API")
		if interval < 1 {
			interval = 1
		}
	}

	w := &Weather{
		city:     city,
		apiKey:   apiKey,
		unit:     unit,
		interval: time.Duration(interval) * time.Second,
		fetcher:  deps.Weather,
		pending:  make(chan fetchResult, 1),
	}
	return w, nil
}

func (w *Weather) Info() Info {
	return Info{ID: "weather", DisplayName: "Weather", PreferredHeight: 44, MinHeight: 20}
}

func (w *Weather) UpdateInterval() time.Duration { return w.interval }

func (w *Weather) Tick() {
	// Drain any completed fetch without blocking.
	select {
	case r := <-w.pending:
		w.inFlight = false
		if r.err != nil {
			w.errMsg = r.err.Error()
			w.haveData = false
		} else {
			w.snapshot = r.snap
			w.haveData = true
			w.errMsg = ""
		}
	default:
	}

	if w.apiKey == "" {
		w.errMsg = "no api key"
		return
	}
	if w.fetcher == nil || w.inFlight {
		return
	}

	w.inFlight = true
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	w.cancel = cancel
	go func() {
		defer cancel()
		snap, err := w.fetcher.Fetch(ctx, w.city, w.unit, w.apiKey)
		w.pending <- fetchResult{snap: snap, err: err}
	}()
}

func (w *Weather) Content() Content {
	if w.apiKey == "" {
		return TextContent("⚠ Weather: no api key", SizeSmall)
	}
	if w.errMsg != "" && !w.haveData {
		return TextContent("⚠ Weather: "+w.errMsg, SizeSmall)
	}
	if !w.haveData {
		return EmptyContent()
	}
	unitSuffix := "°C"
	temp := w.snapshot.TemperatureC
	if w.unit == "fahrenheit" {
		temp = temp*9/5 + 32
		unitSuffix = "°F"
	}
	return MultiLineContent([]Line{
		{Text: w.city, Size: SizeMedium},
		{Text: formatTemp(temp) + unitSuffix + " " + w.snapshot.Condition, Size: SizeSmall},
	})
}

func formatTemp(c float64) string {
	// Round to nearest integer degree; sub-degree precision isn't
	// meaningful for a glanceable desktop widget.
	rounded := int(c + 0.5)
	if c < 0 {
		rounded = int(c - 0.5)
	}
	return strconv.Itoa(rounded)
}
