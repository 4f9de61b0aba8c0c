package service

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher keeps the snapshot warm on a cron schedule. It only matters for
// the long-running local server: each tick re-fetches the catalogue so the
// shared cache stays populated between viewer requests. Fetch failures are
// logged and left for the next tick; retry policy belongs to the data
// service, not here.
type Refresher struct {
	cron *cron.Cron
}

func StartRefresher(spec string, catalog CatalogService) (*Refresher, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		events, err := catalog.Snapshot(context.Background())
		if err != nil {
			slog.Error("scheduled snapshot refresh failed", "err", err)
			return
		}
		slog.Info("snapshot refreshed", "events", len(events))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return &Refresher{cron: c}, nil
}

// Stop halts the schedule; a tick already running is allowed to finish.
func (r *Refresher) Stop() {
	if r != nil && r.cron != nil {
		r.cron.Stop()
	}
}
