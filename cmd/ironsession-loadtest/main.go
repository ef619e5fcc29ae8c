package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ironpack/ironsession/seal"
)

func main() {
	var (
		tokens      = flag.Int("tokens", 10000, "number of sealed tokens to seed")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "operations per phase (seal + unseal)")
		bagKeys     = flag.Int("bag-keys", 8, "entries per session bag")
		rotated     = flag.Int("keys", 2, "entries in the key rotation list")
		iterations  = flag.Int("iterations", seal.DefaultIterations, "PBKDF2 iteration count")
	)
	flag.Parse()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 || *bagKeys <= 0 || *rotated <= 0 {
		fmt.Fprintln(os.Stderr, "tokens, concurrency, ops, bag-keys, and keys must be > 0")
		os.Exit(2)
	}

	keys := make(seal.Keys, *rotated)
	for i := range keys {
		keys[i] = seal.Key{
			ID:     fmt.Sprintf("%d", *rotated-i),
			Secret: fmt.Sprintf("loadtest-secret-%032d", i),
		}
	}

	sealer, err := seal.New(keys, seal.Options{
		TTL:        24 * time.Hour,
		Iterations: *iterations,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sealer init failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeding %d tokens (%d bag keys each)...\n", *tokens, *bagKeys)
	startSeed := time.Now()
	seeded := make([]string, *tokens)
	for i := range seeded {
		token, err := sealer.Seal(buildBag(*bagKeys))
		if err != nil {
			fmt.Fprintf(os.Stderr, "seal failed: %v\n", err)
			os.Exit(1)
		}
		seeded[i] = token
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	sealStats := runSealPhase(sealer, *bagKeys, *ops, *concurrency)
	unsealStats := runUnsealPhase(sealer, seeded, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("seal", sealStats)
	printStats("unseal", unsealStats)
}

func buildBag(keys int) map[string]any {
	bag := make(map[string]any, keys)
	for i := 0; i < keys; i++ {
		bag[fmt.Sprintf("k%d", i)] = uuid.NewString()
	}
	return bag
}

func runSealPhase(sealer *seal.Sealer, bagKeys, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	bag := buildBag(bagKeys)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				_, err := sealer.Seal(bag)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runUnsealPhase(sealer *seal.Sealer, seeded []string, ops, concurrency int) phaseStats {
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
				idx := r.Intn(len(seeded))
				t0 := time.Now()
				_, ok, err := sealer.Unseal(seeded[idx])
				d := time.Since(t0)
				if err != nil || !ok {
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
		p50:      samples[len(samples)*50/100],
		p95:      samples[len(samples)*95/100],
		p99:      samples[len(samples)*99/100],
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%-8s ops=%d failures=%d total=%s ops/s=%.0f p50=%s p95=%s p99=%s\n",
		name, s.ops, s.failures, s.total.Round(time.Millisecond), s.opsPerS,
		s.p50.Round(time.Microsecond), s.p95.Round(time.Microsecond), s.p99.Round(time.Microsecond))
}
