package darcyk

import (
	"time"

	"github.com/pkg/errors"
)

// Default timings
const (
	DefaultNavigationTimeout = time.Minute
	DefaultPollInterval      = 50 * time.Millisecond
)

// ViewConfig declares a view by its load condition
type ViewConfig struct {
	Name    string `toml:"name"`
	URL     string `toml:"url"`
	Match   string `toml:"match"`   // exact (default), prefix, contains or pattern
	Script  string `toml:"script"`  // js expression over url and title, overrides Match
	Locator string `toml:"locator"` // strategy=value, view is loaded when displayed
}

// URLMatch for this view's url and match mode
func (v *ViewConfig) URLMatch() (URLMatch, error) {
	switch v.Match {
	case "", "exact":
		return URLMatch{Mode: URLExact, Value: v.URL}, nil
	case "prefix":
		return URLMatch{Mode: URLPrefix, Value: v.URL}, nil
	case "contains":
		return URLMatch{Mode: URLContains, Value: v.URL}, nil
	case "pattern":
		return URLMatch{Mode: URLPattern, Value: v.URL}, nil
	}
	return URLMatch{}, errors.Errorf("unknown url match mode %q for view %s", v.Match, v.Name)
}

// Config for darcyk
type Config struct {
	URL               string        `toml:"url"`
	DataPath          string        `toml:"datapath"`
	ChromePath        string        `toml:"chrome"`
	Headless          bool          `toml:"headless"`
	NavigationTimeout string        `toml:"navigation_timeout"` // time.ParseDuration format
	PollInterval      string        `toml:"poll_interval"`
	Views             []ViewConfig  `toml:"views"`
}

// Timeout parses NavigationTimeout, falling back to DefaultNavigationTimeout
func (c *Config) Timeout() (time.Duration, error) {
	return parseDuration(c.NavigationTimeout, DefaultNavigationTimeout)
}

// Poll parses PollInterval, falling back to DefaultPollInterval
func (c *Config) Poll() (time.Duration, error) {
	return parseDuration(c.PollInterval, DefaultPollInterval)
}

// View returns the named view config or nil
func (c *Config) View(name string) *ViewConfig {
	for i := range c.Views {
		if c.Views[i].Name == name {
			return &c.Views[i]
		}
	}
	return nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(err, "invalid duration")
	}
	if d <= 0 {
		return 0, errors.Errorf("duration must be positive: %s", s)
	}
	return d, nil
}
