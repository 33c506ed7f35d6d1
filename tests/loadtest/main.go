package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const numWorkers = 50

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:8090", "bot HTTP address")
	duration := flag.Duration("duration", 10*time.Second, "length of each phase")
	flag.Parse()

	fmt.Println("=== InviteBot read API load test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, *duration)

	fmt.Print("Waiting for server... ")
	var guilds []string
	for i := 0; ; i++ {
		ids, err := fetchGuilds(*baseURL)
		if err == nil {
			guilds = ids
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Printf("OK, %d guilds tracked\n", len(guilds))
	if len(guilds) == 0 {
		// unknown guilds still exercise the 404 path
		guilds = []string{"0"}
	}

	fmt.Println("\n--- Phase 1: health and guild listing ---")
	runPhase(*duration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doGet(*baseURL, "GET /health", "/health", nil)
		}
		return doGet(*baseURL, "GET /guilds", "/guilds", nil)
	})

	fmt.Println("\n--- Phase 2: per-guild reads ---")
	runPhase(*duration, func(rng *rand.Rand) result {
		q := url.Values{"guild": {guilds[rng.Intn(len(guilds))]}}
		r := rng.Float64()
		switch {
		case r < 0.45:
			return doGet(*baseURL, "GET /snapshot", "/snapshot", q)
		case r < 0.90:
			return doGet(*baseURL, "GET /attributions", "/attributions", q)
		default:
			return doGet(*baseURL, "GET /guilds", "/guilds", nil)
		}
	})
}

func fetchGuilds(baseURL string) ([]string, error) {
	resp, err := httpClient.Get(baseURL + "/guilds")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var summaries []struct {
		GuildID string `json:"guild_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return nil, err
	}
	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.GuildID
	}
	return ids, nil
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
					totalOps.Inc()
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// doGet counts 200 and 404 as success; 404 is the answer for an untracked guild.
func doGet(baseURL, label, path string, query url.Values) result {
	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	start := time.Now()
	resp, err := httpClient.Get(target)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	ok := resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound
	return result{label, resp.StatusCode, lat, !ok}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
