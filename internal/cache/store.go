// Package cache keeps a polled, generation-tracked local view of remote
// state. Entries are keyed by canonical resource keys, refreshed in the
// background while subscribed, and invalidated by mutations.
//
// Consistency rules:
//
//   - Stale-while-revalidate: a failed refresh keeps the previously fetched
//     data and records the error alongside it.
//   - Generation tracking: every fetch is issued for the entry's generation
//     at the time it starts; a completion is applied only if the generation
//     is still current, so a slow stale fetch can never overwrite fresher
//     data or resurrect pre-mutation state.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/avirajkale50/cloud-guardian/internal/logger"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusReady
	StatusError
)

// Fetcher loads the value for a key from the server.
type Fetcher func(ctx context.Context) (interface{}, error)

// Update is delivered to subscribers after every refresh attempt. Data is
// the freshest value held for the key, which may predate Err.
type Update struct {
	Key  string
	Data interface{}
	Err  error
}

// entry is the cached state for one key.
type entry struct {
	data    interface{}
	hasData bool
	err     error
	status  Status

	// gen is the entry's current target generation; dataGen is the
	// generation data was fetched under. They diverge after Invalidate,
	// which is what marks the entry stale.
	gen     uint64
	dataGen uint64
}

func (e *entry) fresh() bool {
	return e.hasData && e.dataGen == e.gen
}

// subscription is the shared poll loop for one key, reference-counted across
// consumers.
type subscription struct {
	refs     int
	interval time.Duration
	fetcher  Fetcher
	kick     chan struct{}
	stop     chan struct{}
	subs     map[int]chan Update
	nextID   int
}

// Store is the resource cache.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	polls   map[string]*subscription
	log     logger.Logger
}

// NewStore creates an empty cache.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		polls:   make(map[string]*subscription),
		log:     logger.NewEnvLogger("[cache]"),
	}
}

// SetLogger overrides the store's logger.
func (s *Store) SetLogger(l logger.Logger) {
	s.log = l
}

// Get returns the cached value for key, fetching first when the entry is
// missing or stale. A fresh cached value is served without touching the
// network.
func (s *Store) Get(ctx context.Context, key string, fetch Fetcher) (interface{}, error) {
	s.mu.Lock()
	e := s.ensureEntry(key)
	if e.fresh() {
		data := e.data
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()

	return s.refresh(ctx, key, fetch)
}

// Peek returns the cached value and its recorded error without fetching.
func (s *Store) Peek(key string) (data interface{}, err error, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.entries[key]
	if !exists || !e.hasData {
		return nil, nil, false
	}
	return e.data, e.err, true
}

// Status returns the entry's lifecycle status; StatusIdle for unknown keys.
func (s *Store) Status(key string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e.status
	}
	return StatusIdle
}

// Invalidate marks every entry matching the pattern stale by bumping its
// generation, superseding any fetch in flight for the old generation, and
// kicks an immediate background refresh for every subscribed match.
// Unmounted consumers refetch lazily on their next Get.
func (s *Store) Invalidate(pattern string) {
	s.mu.Lock()
	var kicks []chan struct{}
	for key, e := range s.entries {
		if Match(pattern, key) {
			e.gen++
		}
	}
	for key, p := range s.polls {
		if Match(pattern, key) {
			kicks = append(kicks, p.kick)
		}
	}
	s.mu.Unlock()

	s.log.Debug("invalidated %s", pattern)
	for _, kick := range kicks {
		select {
		case kick <- struct{}{}:
		default: // refresh already pending
		}
	}
}

// Refetch forces an immediate fetch for a subscribed key, outside the poll
// cadence, and resets the poll timer's phase. It reports whether the key had
// an active subscription.
func (s *Store) Refetch(key string) bool {
	s.mu.Lock()
	p, ok := s.polls[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case p.kick <- struct{}{}:
	default:
	}
	return true
}

// Subscribe registers a consumer for a key. The first subscriber starts the
// poll loop; the last cancel stops it. Every refresh attempt (poll tick,
// kick, or initial fetch) delivers an Update on the returned channel. The
// cancel function must be called when the consumer unmounts; afterwards no
// further updates are delivered to that channel.
func (s *Store) Subscribe(key string, fetch Fetcher, interval time.Duration) (<-chan Update, func()) {
	s.mu.Lock()
	p, ok := s.polls[key]
	if !ok {
		p = &subscription{
			interval: interval,
			fetcher:  fetch,
			kick:     make(chan struct{}, 1),
			stop:     make(chan struct{}),
			subs:     make(map[int]chan Update),
		}
		s.polls[key] = p
		go s.pollLoop(key, p)
	}
	p.refs++
	id := p.nextID
	p.nextID++
	ch := make(chan Update, 4)
	p.subs[id] = ch
	s.mu.Unlock()

	// Prime the subscription immediately rather than waiting a full interval.
	select {
	case p.kick <- struct{}{}:
	default:
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(p.subs, id)
			close(ch) // signals consumers blocked on a receive
			p.refs--
			last := p.refs == 0
			if last {
				delete(s.polls, key)
			}
			s.mu.Unlock()
			if last {
				close(p.stop)
			}
		})
	}
	return ch, cancel
}

// pollLoop drives background refreshes for one key until the last
// subscriber cancels.
func (s *Store) pollLoop(key string, p *subscription) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-timer.C:
			s.refreshAndBroadcast(key, p)
			timer.Reset(p.interval)
		case <-p.kick:
			// Forced fetch resets the interval phase.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			s.refreshAndBroadcast(key, p)
			timer.Reset(p.interval)
		}
	}
}

func (s *Store) refreshAndBroadcast(key string, p *subscription) {
	data, err := s.refresh(context.Background(), key, p.fetcher)

	// Sending under the lock keeps delivery ordered against cancel, which
	// closes subscriber channels under the same lock.
	s.mu.Lock()
	defer s.mu.Unlock()
	u := Update{Key: key, Data: data, Err: err}
	for _, ch := range p.subs {
		select {
		case ch <- u:
		default: // slow consumer; it will catch up on the next tick
		}
	}
}

// refresh fetches the key for its current generation and applies the result
// only if the generation is still current when the fetch completes. Failed
// fetches are retried exactly once before the error is recorded.
func (s *Store) refresh(ctx context.Context, key string, fetch Fetcher) (interface{}, error) {
	s.mu.Lock()
	e := s.ensureEntry(key)
	gen := e.gen
	e.status = StatusFetching
	s.mu.Unlock()

	data, err := fetch(ctx)
	if err != nil {
		s.log.Debug("fetch %s failed, retrying once: %v", key, err)
		data, err = fetch(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.gen != gen {
		// A mutation invalidated this key mid-flight; the result belongs to
		// a superseded generation and must not land in the cache. The caller
		// still gets what it asked for.
		s.log.Debug("discarding stale fetch for %s (gen %d != %d)", key, gen, e.gen)
		if err != nil {
			return e.data, err
		}
		return data, nil
	}

	if err != nil {
		// Keep previously fetched data visible alongside the error.
		e.err = err
		e.status = StatusError
		return e.data, err
	}

	e.data = data
	e.hasData = true
	e.dataGen = gen
	e.err = nil
	e.status = StatusReady
	return data, nil
}

// ensureEntry returns the entry for key, creating it if needed. Caller holds mu.
func (s *Store) ensureEntry(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{status: StatusIdle}
		s.entries[key] = e
	}
	return e
}
