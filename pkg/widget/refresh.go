package widget

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/spencer-p/moondash/pkg/sky"
)

// DefaultSchedule rebuilds the timeline at the top of every hour, which is
// when its first entry goes stale.
const DefaultSchedule = "0 * * * *"

// Refresher keeps a timeline for one place up to date on a cron schedule.
type Refresher struct {
	place     sky.Place
	n         int
	onRefresh func([]Entry)
	now       func() time.Time

	mu      sync.RWMutex
	entries []Entry

	sched *gocron.Scheduler
}

// NewRefresher returns a Refresher for n entries at place. onRefresh, if not
// nil, is called with every new timeline.
func NewRefresher(place sky.Place, n int, onRefresh func([]Entry)) *Refresher {
	return &Refresher{
		place:     place,
		n:         n,
		onRefresh: onRefresh,
		now:       time.Now,
	}
}

// Refresh rebuilds the timeline now.
func (r *Refresher) Refresh() []Entry {
	entries := Timeline(r.now(), r.place, r.n)
	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	if r.onRefresh != nil {
		r.onRefresh(entries)
	}
	return entries
}

// Entries returns the current timeline, building one if there is none yet.
func (r *Refresher) Entries() []Entry {
	r.mu.RLock()
	entries := r.entries
	r.mu.RUnlock()
	if entries == nil {
		return r.Refresh()
	}
	return entries
}

// Start refreshes once and then on the cron schedule until Stop.
func (r *Refresher) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	s := gocron.NewScheduler(r.place.Loc())
	if _, err := s.Cron(schedule).Do(func() { r.Refresh() }); err != nil {
		return err
	}
	r.Refresh()
	s.StartAsync()
	r.sched = s
	return nil
}

// Stop halts the schedule.
func (r *Refresher) Stop() {
	if r.sched != nil {
		r.sched.Stop()
	}
}
