package widget

import (
	"bufio"
	"math/rand"
	"os"
	"strings"
	"time"
)

// DefaultQuotes ships so the widget is useful with no quotes_file
// configured (spec §4.5: "when absent, a built-in list is used").
var DefaultQuotes = []string{
	"Simplicity is the ultimate sophistication.",
	"The only way to do great work is to love what you do.",
	"Code is read more often than it is written.",
	"Premature optimization is the root of all evil.",
	"Make it work, make it right, make it fast.",
}

// Quotes rotates through a list of quotations, advancing on its own
// interval or on a click/scroll (§8 scenario 5).
type Quotes struct {
	Base
	quotes   []string
	random   bool
	interval time.Duration
	index    int
	rng      *rand.Rand
}

func newQuotes(cfg RawConfig, deps Deps) (Widget, error) {
	const typ = "quotes"
	interval, err := cfg.getInt(typ, "rotation_interval", 30)
	if err != nil {
		return nil, err
	}
	if interval < 1 {
		interval = 1
	}
	random, err := cfg.getBool(typ, "random", false)
	if err != nil {
		return nil, err
	}
	quotesFile, err := cfg.getString(typ, "quotes_file", "")
	if err != nil {
		return nil, err
	}

	quotes := DefaultQuotes
	if quotesFile != "" {
		loaded, err := loadQuotesFile(quotesFile)
		if err != nil {
			return nil, invalid(typ, "quotes_file", "%v", err)
		}
		if len(loaded) > 0 {
			quotes = loaded
		}
	}

	return &Quotes{
		quotes:   quotes,
		random:   random,
		interval: time.Duration(interval) * time.Second,
		rng:      rand.New(rand.NewSource(1)),
	}, nil
}

func loadQuotesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func (q *Quotes) Info() Info {
	return Info{ID: "quotes", DisplayName: "Quotes", PreferredHeight: 60, MinHeight: 30}
}

func (q *Quotes) UpdateInterval() time.Duration { return q.interval }

func (q *Quotes) Tick() {
	if q.random {
		q.index = q.rng.Intn(len(q.quotes))
	} else {
		q.index = (q.index + 1) % len(q.quotes)
	}
}

func (q *Quotes) Content() Content {
	if len(q.quotes) == 0 {
		return EmptyContent()
	}
	return TextContent(q.quotes[q.index], SizeSmall)
}

func (q *Quotes) IsInteractive() bool { return true }

func (q *Quotes) OnClick(button MouseButton, nx, ny float64) Action {
	if button != MouseLeft {
		return NoAction()
	}
	q.advance(1)
	return NextItem()
}

func (q *Quotes) OnScroll(dir ScrollDirection, nx, ny float64) Action {
	switch dir {
	case ScrollDown:
		q.advance(1)
		return NextItem()
	case ScrollUp:
		q.advance(-1)
		return PreviousItem()
	default:
		return NoAction()
	}
}

func (q *Quotes) advance(delta int) {
	n := len(q.quotes)
	if n == 0 {
		return
	}
	q.index = ((q.index+delta)%n + n) % n
}
