package clicmds

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/darcyk/browser"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/metrics"
	"gitlab.com/darcyk/navigator"
	"gitlab.com/darcyk/store"
	"gitlab.com/darcyk/view"
)

// session is a launched chrome whose transitions are recorded to the data directory
type session struct {
	cfg     *darcyk.Config
	chrome  *browser.Chrome
	tab     *browser.Tab
	graph   *store.TransitionGraph
	metrics *http.Server
	browser *navigator.Browser
}

func openSession(ctx context.Context, c *cli.Context, cfg *darcyk.Config) (*session, error) {
	s := &session{cfg: cfg}

	s.graph = store.NewTransitionGraph("bolt", graphPath(cfg))
	if err := s.graph.Init(); err != nil {
		return nil, err
	}

	var recorder darcyk.Recorder = s.graph
	opts := make([]navigator.Option, 0)
	if addr := c.String("metrics"); addr != "" {
		reg := prometheus.NewRegistry()
		collector := metrics.NewWaitCollector(reg)
		recorder = collector.Recording(s.graph)
		opts = append(opts, navigator.WithObservers(collector))

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		s.metrics = &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := s.metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
			}
		}()
	}
	opts = append(opts, navigator.WithRecorder(recorder))

	var err error
	s.chrome, err = browser.Launch(ctx, cfg)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.tab, err = s.chrome.FirstTab(ctx)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.browser, err = navigator.NewFromConfig(s.tab, cfg, opts...)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	return s, nil
}

// destination is the configured view named name, or the url itself
func (s *session) destination(name, url string) (darcyk.View, error) {
	if name != "" {
		vc := s.cfg.View(name)
		if vc == nil {
			return nil, &UnknownViewErr{Name: name}
		}
		return view.FromConfig(vc)
	}
	return view.NewURLView(url).WithMatcher(darcyk.URLMatch{Mode: darcyk.URLPrefix, Value: url}), nil
}

func (s *session) open(ctx context.Context, url, name string) (darcyk.View, error) {
	dest, err := s.destination(name, url)
	if err != nil {
		return nil, err
	}
	return s.browser.OpenAndWait(ctx, url, dest)
}

func (s *session) close(ctx context.Context) {
	if s.chrome != nil {
		if err := s.chrome.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close browser")
		}
	}
	if s.graph != nil && s.graph.Store != nil {
		if err := s.graph.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close history")
		}
	}
	if s.metrics != nil {
		s.metrics.Shutdown(ctx)
	}
}

// UnknownViewErr is returned when --view names a view the config does not declare
type UnknownViewErr struct {
	Name string
}

func (e *UnknownViewErr) Error() string {
	return "no view named " + e.Name + " in config"
}
