package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/broker"
	"github.com/MrEthical07/goSSO/cache"
	"github.com/MrEthical07/goSSO/credential"
	"github.com/MrEthical07/goSSO/session"
)

const (
	loadBroker = "load"
	loadSecret = "loadtest-secret"
)

// linkState holds the precomputed requests for one seeded broker token.
type linkState struct {
	sessionID string
	bearer    staticRequest
	attach    staticRequest
}

// staticRequest is a prebuilt goSSO.Request so the hot loop does no
// per-operation allocation beyond what the server itself does.
type staticRequest struct {
	authorization string
	params        map[string]string
}

func (r staticRequest) Header(name string) string {
	if name == "Authorization" {
		return r.authorization
	}
	return ""
}

func (r staticRequest) QueryParam(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

func main() {
	var (
		links       = flag.Int("links", 100000, "number of broker tokens to attach")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (bearer + attach)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gosso", "link key prefix")
	)
	flag.Parse()

	if *links <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "links, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	brokers := broker.NewStatic()
	brokers.Put(loadBroker, goSSO.BrokerInfo{Secret: loadSecret})

	srv, err := goSSO.New().
		WithCache(cache.NewRedis(client, *prefix, 0)).
		WithBrokers(brokers).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build server: %v\n", err)
		os.Exit(1)
	}
	defer srv.Close()

	states := make([]linkState, *links)
	fmt.Printf("attaching %d broker tokens...\n", *links)
	startSeed := time.Now()
	for i := 0; i < *links; i++ {
		token := fmt.Sprintf("tok%d", i)
		states[i] = linkState{
			sessionID: fmt.Sprintf("sid-%d", i),
			bearer: staticRequest{
				authorization: "Bearer " + credential.Render(
					loadBroker, token, credential.Checksum(loadSecret, credential.CommandBearer, token)),
			},
			attach: staticRequest{
				params: map[string]string{
					"broker":   loadBroker,
					"token":    token,
					"checksum": credential.Checksum(loadSecret, credential.CommandAttach, token),
				},
			},
		}
		if _, err := srv.Attach(ctx, states[i].attach, session.Resume(states[i].sessionID)); err != nil {
			fmt.Fprintf(os.Stderr, "attach failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("attached in %s\n", time.Since(startSeed).Round(time.Millisecond))

	bearerStats := runBearerPhase(ctx, srv, states, *ops, *concurrency)
	attachStats := runAttachPhase(ctx, srv, states, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("bearer", bearerStats)
	printStats("attach", attachStats)
}

// runBearerPhase resumes linked sessions from bearer credentials, the hot
// path of the handshake.
func runBearerPhase(ctx context.Context, srv *goSSO.Server, states []linkState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				_, err := srv.StartBrokerSession(ctx, states[idx].bearer, session.NewMemory())
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runAttachPhase re-attaches tokens to their sessions, overwriting the link
// each time.
func runAttachPhase(ctx context.Context, srv *goSSO.Server, states []linkState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				state := &states[idx]

				t0 := time.Now()
				_, err := srv.Attach(ctx, state.attach, session.Resume(state.sessionID))
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
