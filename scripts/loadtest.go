// Loadtest drives traffic through a load balancer fronting one or more demo
// backend instances and reports how requests were distributed, using the
// instance.hostname field each backend puts in its response.
//
// Usage:
//
//	go run loadtest.go -url http://localhost:8080/ -concurrency 10 -requests 1000
//	go run loadtest.go -url http://localhost:8080/heavy -concurrency 50 -requests 200
//
// Features:
//   - Concurrent workers for high throughput testing
//   - Per-instance request distribution and latency statistics
//   - Latency percentiles (p50, p90, p95, p99)
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// instanceResponse is the subset of the backend response the tool cares
// about.
type instanceResponse struct {
	Instance struct {
		Hostname      string `json:"hostname"`
		InstanceID    string `json:"instance_id"`
		InstanceColor string `json:"instance_color"`
	} `json:"instance"`
}

// instanceStats tracks statistics for a single backend instance.
type instanceStats struct {
	Count     int32
	Latencies []time.Duration
}

func main() {
	var (
		url         = flag.String("url", "http://localhost:8080/", "Target URL")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 100, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		verbose     = flag.Bool("v", false, "Verbose per-request logging to stdout")
	)
	flag.Parse()

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	jobs := make(chan int)
	var wg sync.WaitGroup

	var success int32
	var failure int32

	perInstance := make(map[string]*instanceStats)
	var instanceMu sync.Mutex

	var allLatencies []time.Duration
	var latMu sync.Mutex

	start := time.Now()

	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				reqStart := time.Now()
				resp, err := client.Get(*url)
				latency := time.Since(reqStart)

				if err != nil {
					atomic.AddInt32(&failure, 1)
					if *verbose {
						fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
					}
					continue
				}

				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()

				if resp.StatusCode != http.StatusOK {
					atomic.AddInt32(&failure, 1)
					continue
				}
				atomic.AddInt32(&success, 1)

				var ir instanceResponse
				hostname := "unparsed"
				if err := json.Unmarshal(body, &ir); err == nil && ir.Instance.Hostname != "" {
					hostname = ir.Instance.Hostname
				}

				if *verbose {
					fmt.Printf("%s %d %s %v\n", *url, resp.StatusCode, hostname, latency)
				}

				instanceMu.Lock()
				st, ok := perInstance[hostname]
				if !ok {
					st = &instanceStats{}
					perInstance[hostname] = st
				}
				st.Count++
				st.Latencies = append(st.Latencies, latency)
				instanceMu.Unlock()

				latMu.Lock()
				allLatencies = append(allLatencies, latency)
				latMu.Unlock()
			}
		}()
	}

	for i := 0; i < *requests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)

	fmt.Printf("\n=== Load test summary ===\n")
	fmt.Printf("target:       %s\n", *url)
	fmt.Printf("requests:     %d (ok=%d failed=%d)\n", *requests, success, failure)
	fmt.Printf("elapsed:      %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Printf("throughput:   %.1f req/s\n", float64(success)/elapsed.Seconds())
	}

	if len(allLatencies) > 0 {
		sort.Slice(allLatencies, func(i, j int) bool { return allLatencies[i] < allLatencies[j] })
		fmt.Printf("latency:      p50=%v p90=%v p95=%v p99=%v\n",
			pct(allLatencies, 0.50), pct(allLatencies, 0.90),
			pct(allLatencies, 0.95), pct(allLatencies, 0.99))
	}

	fmt.Printf("\n=== Distribution by instance ===\n")
	names := make([]string, 0, len(perInstance))
	for name := range perInstance {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		st := perInstance[name]
		share := float64(st.Count) / float64(success) * 100
		sort.Slice(st.Latencies, func(i, j int) bool { return st.Latencies[i] < st.Latencies[j] })
		fmt.Printf("%-24s %5d (%5.1f%%)  p50=%v p95=%v\n",
			name, st.Count, share, pct(st.Latencies, 0.50), pct(st.Latencies, 0.95))
	}
}

func pct(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
