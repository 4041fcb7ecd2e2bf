// Package perf keeps recent timings in memory for the admin panel.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 5000

// EntryKind distinguishes what was timed.
type EntryKind uint8

const (
	// KindRequest is an inbound HTTP request.
	KindRequest EntryKind = iota
	// KindQuery is a local database call.
	KindQuery
	// KindUpstream is a call to the remote recipes API.
	KindUpstream
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /dashboard", "QueryContext" or an API endpoint name
	StatusCode int    // 0 for queries and failed upstream calls
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries.
// When full, the oldest entries are overwritten. Aggregation happens on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector with the given capacity.
// PRE: size > 0 (non-positive uses DefaultRingSize)
// POST: Returns an empty collector
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores an entry, overwriting the oldest when full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// RecordUpstream is an api.Observer-shaped helper for upstream calls.
func (c *Collector) RecordUpstream(endpoint string, status int, d time.Duration) {
	c.Record(Entry{
		Kind:       KindUpstream,
		Path:       endpoint,
		StatusCode: status,
		DurationMs: float64(d.Microseconds()) / 1000.0,
		Timestamp:  time.Now().Add(-d),
	})
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregate shown on the admin panel.
type Snapshot struct {
	TotalRecorded   int64
	RequestP50Ms    float64
	RequestP95Ms    float64
	RequestP99Ms    float64
	UpstreamP95Ms   float64
	UpstreamErrors  int
	SlowestPaths    []PathStat
	SlowestQueries  []PathStat
	SlowestUpstream []PathStat
}

// PathStat aggregates timings for one path, query op or endpoint.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

type bucket struct {
	durations []float64
	stats     map[string]*PathStat
}

func (b *bucket) add(e Entry) {
	b.durations = append(b.durations, e.DurationMs)
	s, ok := b.stats[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		b.stats[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
}

// Snapshot aggregates entries recorded at or after since.
// PRE: topN > 0
// POST: Returns percentiles and the topN slowest paths per kind
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	buckets := map[EntryKind]*bucket{
		KindRequest:  {stats: map[string]*PathStat{}},
		KindQuery:    {stats: map[string]*PathStat{}},
		KindUpstream: {stats: map[string]*PathStat{}},
	}
	upstreamErrors := 0
	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		b, ok := buckets[e.Kind]
		if !ok {
			continue
		}
		b.add(e)
		if e.Kind == KindUpstream && (e.StatusCode == 0 || e.StatusCode >= 400) {
			upstreamErrors++
		}
	}

	req := buckets[KindRequest]
	up := buckets[KindUpstream]
	sort.Float64s(req.durations)
	sort.Float64s(up.durations)

	return Snapshot{
		TotalRecorded:   c.TotalRecorded(),
		RequestP50Ms:    percentile(req.durations, 50),
		RequestP95Ms:    percentile(req.durations, 95),
		RequestP99Ms:    percentile(req.durations, 99),
		UpstreamP95Ms:   percentile(up.durations, 95),
		UpstreamErrors:  upstreamErrors,
		SlowestPaths:    topByAvg(req.stats, topN),
		SlowestQueries:  topByAvg(buckets[KindQuery].stats, topN),
		SlowestUpstream: topByAvg(up.stats, topN),
	}
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the n stats with the highest average, slowest first.
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Path < list[j].Path
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
