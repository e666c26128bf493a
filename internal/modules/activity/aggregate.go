package activity

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

const (
	// TopN bounds each kind's table and so the number of lookups per run.
	TopN = 20
	// DefaultEnrichConcurrency caps concurrent place lookups per run.
	DefaultEnrichConcurrency = 8
)

type FrequencyEntry struct {
	TitleCleaned string `json:"title_cleaned"`
	Count        int    `json:"count"`
}

type EnrichedEntry struct {
	FrequencyEntry
	PlaceType PlaceType `json:"place_type"`
}

// RawCounts are the number of retained, classified records per kind before
// top-N selection.
type RawCounts struct {
	Searches   int `json:"searches"`
	Directions int `json:"directions"`
	Views      int `json:"views"`
}

type Result struct {
	Searches   []EnrichedEntry `json:"searches"`
	Directions []EnrichedEntry `json:"directions"`
	Views      []EnrichedEntry `json:"views"`
	RawCounts  RawCounts       `json:"rawCounts"`
}

type Aggregator struct {
	log         *logger.Logger
	resolver    *Resolver
	concurrency int
}

func NewAggregator(log *logger.Logger, resolver *Resolver, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	return &Aggregator{
		log:         log.With("service", "ActivityAggregator"),
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// Aggregate parses raw and summarizes the records dated within one year
// before asOf. Records with unparseable times are dropped.
func (a *Aggregator) Aggregate(ctx context.Context, raw []byte, asOf time.Time) (*Result, error) {
	records, err := ParseRecords(raw)
	if err != nil {
		return nil, err
	}
	return a.AggregateRecords(ctx, records, asOf)
}

func (a *Aggregator) AggregateRecords(ctx context.Context, records []Record, asOf time.Time) (*Result, error) {
	cutoff := asOf.AddDate(-1, 0, 0)

	counters := map[Kind]*counter{
		KindSearch:    newCounter(),
		KindDirection: newCounter(),
		KindView:      newCounter(),
	}
	var unparseable, stale, excluded int
	for _, rec := range records {
		t, ok := ParseTime(rec.Time)
		if !ok {
			unparseable++
			continue
		}
		if t.Before(cutoff) {
			stale++
			continue
		}
		cr, ok := Classify(rec)
		if !ok {
			excluded++
			continue
		}
		counters[cr.Kind].add(cr.TitleCleaned)
	}

	res := &Result{
		Searches:   counters[KindSearch].top(TopN),
		Directions: counters[KindDirection].top(TopN),
		Views:      counters[KindView].top(TopN),
		RawCounts: RawCounts{
			Searches:   counters[KindSearch].total,
			Directions: counters[KindDirection].total,
			Views:      counters[KindView].total,
		},
	}

	if err := a.enrich(ctx, res); err != nil {
		return nil, err
	}

	a.log.Info("Activity aggregated",
		"records", len(records),
		"unparseable_time", unparseable,
		"outside_window", stale,
		"excluded_views", excluded,
		"searches", res.RawCounts.Searches,
		"directions", res.RawCounts.Directions,
		"views", res.RawCounts.Views,
	)
	return res, nil
}

// enrich resolves every table entry. Entries are independent and each
// goroutine writes only its own slot.
func (a *Aggregator) enrich(ctx context.Context, res *Result) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, table := range [][]EnrichedEntry{res.Searches, res.Directions, res.Views} {
		for i := range table {
			entry := &table[i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if a.resolver == nil {
					return nil
				}
				entry.PlaceType = a.resolver.Resolve(gctx, entry.TitleCleaned)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// counter counts titles and remembers first-seen order for tie breaks.
type counter struct {
	order  []string
	counts map[string]int
	total  int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(title string) {
	if _, seen := c.counts[title]; !seen {
		c.order = append(c.order, title)
	}
	c.counts[title]++
	c.total++
}

func (c *counter) top(n int) []EnrichedEntry {
	entries := make([]EnrichedEntry, 0, len(c.order))
	for _, title := range c.order {
		entries = append(entries, EnrichedEntry{FrequencyEntry: FrequencyEntry{TitleCleaned: title, Count: c.counts[title]}})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
