package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	principal   string
)

// Metrics
var (
	totalRequests  uint64
	casesCreated   uint64
	refsAccepted   uint64
	failValidation uint64
	failOther      uint64
)

var methods = []struct {
	method  string
	refType string
	refVal  string
}{
	{"paypal", "paypalTransactionId", "PAYID-BENCH"},
	{"cashapp", "cashappUsername", "$bench"},
	{"inPersonCash", "storePaymentCode", ""}, // derived per submission
}

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "confirm", "Workload type: create | confirm")
	flag.StringVar(&principal, "principal", "bench-user", "Caller principal header value")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		m := methods[rand.Intn(len(methods))]

		id, ok := createCase(client, m.method)
		if !ok {
			continue
		}
		atomic.AddUint64(&casesCreated, 1)

		if workload == "create" {
			continue
		}

		refVal := m.refVal
		if m.refType == "storePaymentCode" {
			refVal = storeCode(id)
		}
		submitReference(client, id, m.refType, refVal)
	}
}

func createCase(client *http.Client, method string) (string, bool) {
	payload := map[string]string{
		"details":       fmt.Sprintf("benchmark case %d", time.Now().UnixNano()),
		"paymentMethod": method,
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", targetURL+"/api/v1/cases", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", principal)

	resp, err := client.Do(req)
	if err != nil {
		atomic.AddUint64(&failOther, 1)
		return "", false
	}
	defer resp.Body.Close()
	atomic.AddUint64(&totalRequests, 1)

	if resp.StatusCode != 201 {
		count(resp.StatusCode)
		return "", false
	}

	var out struct {
		SubmissionID string `json:"submissionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.SubmissionID == "" {
		atomic.AddUint64(&failOther, 1)
		return "", false
	}
	return out.SubmissionID, true
}

func submitReference(client *http.Client, id, refType, refVal string) {
	payload := map[string]string{
		"referenceType":  refType,
		"referenceValue": refVal,
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("PUT", targetURL+"/api/v1/cases/"+id+"/payment-reference", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", principal)

	resp, err := client.Do(req)
	if err != nil {
		atomic.AddUint64(&failOther, 1)
		return
	}
	resp.Body.Close()
	atomic.AddUint64(&totalRequests, 1)

	if resp.StatusCode == 200 {
		atomic.AddUint64(&refsAccepted, 1)
		return
	}
	count(resp.StatusCode)
}

func count(status int) {
	if status == 422 {
		atomic.AddUint64(&failValidation, 1)
		return
	}
	atomic.AddUint64(&failOther, 1)
}

// storeCode mirrors the server-side cash receipt derivation.
func storeCode(id string) string {
	slice := id
	if len(slice) > 8 {
		slice = slice[:8]
	}
	out := []byte(slice)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
	}
	return "CD305-" + string(out)
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	created := atomic.LoadUint64(&casesCreated)
	confirmed := atomic.LoadUint64(&refsAccepted)
	fVal := atomic.LoadUint64(&failValidation)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()

	results := map[string]interface{}{
		"workload":           workload,
		"duration_sec":       d.Seconds(),
		"total_requests":     total,
		"throughput_tps":     tps,
		"cases_created":      created,
		"payments_confirmed": confirmed,
		"validation_errors":  fVal,
		"errors":             fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	// Also save to file
	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
