package scheduler

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
)

// Daily triggers a job once a day at a fixed local wall-clock time.
// Nothing persists between iterations, each trigger is an independent run.
type Daily struct {
	hour       int
	minute     int
	loc        *time.Location
	now        func() time.Time
	onSchedule func(next time.Time)
}

// NewDaily creates a scheduler for the given wall-clock time in loc
func NewDaily(hour, minute int, loc *time.Location) *Daily {
	return &Daily{
		hour:   hour,
		minute: minute,
		loc:    loc,
		now:    time.Now,
	}
}

// OnSchedule registers a callback invoked with each computed trigger time,
// used by the status endpoint. Must be set before Run.
func (d *Daily) OnSchedule(fn func(next time.Time)) {
	d.onSchedule = fn
}

// Next computes the next trigger instant after now. If today's target
// time has passed (or is exactly now), the target is tomorrow.
func (d *Daily) Next(now time.Time) time.Time {
	local := now.In(d.loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !local.Before(target) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// Run sleeps until each trigger and executes the job. A failing iteration
// is logged and never stops the loop, the next day still runs. Returns
// when the context is canceled.
func (d *Daily) Run(ctx context.Context, job func(ctx context.Context) error) {
	for {
		next := d.Next(d.now())
		wait := next.Sub(d.now())
		lgr.Printf("[INFO] next run at %s (in %v)", next.Format("2006-01-02 15:04 MST"), wait.Round(time.Second))
		if d.onSchedule != nil {
			d.onSchedule(next)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			lgr.Printf("[INFO] scheduler stopped")
			return
		case <-timer.C:
		}

		if err := job(ctx); err != nil {
			lgr.Printf("[ERROR] scheduled run failed: %v", err)
		}
	}
}
