package clock

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"auction-engine/utils"

	"github.com/beevik/ntp"
)

// Clock is the time source for bid validation and settlement
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// queryFunc matches ntp.QueryWithOptions so tests can stub the network
type queryFunc func(host string, opts ntp.QueryOptions) (*ntp.Response, error)

// NTPClock is the local clock corrected by the median offset reported by a
// set of NTP servers. Until the first successful Sync it behaves like System.
type NTPClock struct {
	servers []string
	timeout time.Duration
	query   queryFunc

	mu     sync.RWMutex
	offset time.Duration
	synced time.Time
}

// NewNTPClock builds a clock for servers given as "host" or "host:port"
func NewNTPClock(servers []string, timeout time.Duration) *NTPClock {
	clean := make([]string, 0, len(servers))
	for _, s := range servers {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return &NTPClock{servers: clean, timeout: timeout, query: ntp.QueryWithOptions}
}

func (c *NTPClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().Add(c.offset).UTC()
}

// Offset returns the correction currently applied to the local clock
func (c *NTPClock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

type ntpResult struct {
	server string
	offset time.Duration
	err    error
}

// Sync queries every server in parallel and applies the median offset of the
// valid responses. The previous offset is kept when no server answers.
func (c *NTPClock) Sync() error {
	if len(c.servers) == 0 {
		return fmt.Errorf("clock: no NTP servers configured")
	}

	results := make(chan ntpResult, len(c.servers))
	var wg sync.WaitGroup
	for _, server := range c.servers {
		wg.Add(1)
		go func(server string) {
			defer wg.Done()
			results <- c.queryOne(server)
		}(server)
	}
	wg.Wait()
	close(results)

	var offsets []time.Duration
	var failed []string
	for r := range results {
		if r.err != nil {
			utils.Warn("clock: NTP query failed", map[string]any{"server": r.server, "error": r.err.Error()})
			failed = append(failed, r.server)
			continue
		}
		offsets = append(offsets, r.offset)
	}
	if len(offsets) == 0 {
		return fmt.Errorf("clock: no NTP server responded (%s)", strings.Join(failed, ", "))
	}

	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	median := offsets[len(offsets)/2]

	c.mu.Lock()
	c.offset = median
	c.synced = time.Now()
	c.mu.Unlock()

	utils.Debug("clock: synced with NTP", map[string]any{
		"offset":    median.String(),
		"responses": len(offsets),
		"failed":    len(failed),
	})
	return nil
}

func (c *NTPClock) queryOne(server string) ntpResult {
	result := ntpResult{server: server}

	host := server
	opts := ntp.QueryOptions{Timeout: c.timeout}
	if h, p, ok := strings.Cut(server, ":"); ok {
		var port int
		if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
			result.err = fmt.Errorf("bad port in %q: %w", server, err)
			return result
		}
		host, opts.Port = h, port
	}

	resp, err := c.query(host, opts)
	if err != nil || resp == nil {
		result.err = fmt.Errorf("query %s: %v", server, err)
		return result
	}
	if err := resp.Validate(); err != nil {
		result.err = fmt.Errorf("validate %s: %w", server, err)
		return result
	}
	result.offset = resp.ClockOffset
	return result
}

// Manual is a settable clock for tests
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now.UTC()}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set jumps the clock to t
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.UTC()
}
