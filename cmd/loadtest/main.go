package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
)

// Operation names used in the report
const (
	opOrder = "place order"
	opScan  = "kiosk scan"
)

// TestResult contains metrics for a single request
type TestResult struct {
	Operation    string
	ResponseTime time.Duration
	StatusCode   int
	ErrorCode    int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalTime     time.Duration
	ResponseTimes map[string][]time.Duration
	StatusCounts  map[string]map[int]int
	ErrorCounts   map[string]int
	Lock          sync.Mutex
}

func (s *TestStats) record(r TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	s.ResponseTimes[r.Operation] = append(s.ResponseTimes[r.Operation], r.ResponseTime)
	if s.StatusCounts[r.Operation] == nil {
		s.StatusCounts[r.Operation] = make(map[int]int)
	}
	s.StatusCounts[r.Operation][r.StatusCode]++
	if r.Error != nil {
		s.ErrorCounts[r.Error.Error()]++
	}
}

func (s *TestStats) count(op string, status int) int {
	s.Lock.Lock()
	defer s.Lock.Unlock()
	return s.StatusCounts[op][status]
}

// client wraps the canteen HTTP API
type client struct {
	baseURL string
	http    *http.Client
}

// apiError is a non-2xx response
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	return fmt.Sprintf("HTTP %d code %d: %s", e.Status, e.Body.Code, e.Body.Message)
}

func (c *client) do(method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return resp.StatusCode, apiErr
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// fixture is the funded account the load runs against
type fixture struct {
	userID     string
	rfid       string
	product    dto.ProductResponse
	priceCents int64
	funded     int64
}

func main() {
	concurrency := flag.Int("c", 10, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 200, "Total number of requests to make")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	topUp := flag.String("topup", "500.00", "Amount loaded into the test wallet")
	scanRatio := flag.Float64("scans", 0.5, "Share of requests that are kiosk scans instead of orders")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	api := &client{baseURL: *baseURL, http: &http.Client{Timeout: 10 * time.Second}}

	fx, err := prepare(api, *topUp)
	if err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Load testing %s as user %s\n", *baseURL, fx.userID)
	fmt.Printf("Wallet funded with %s, ordering %q at %s\n",
		entity.AmountInCentsToString(fx.funded), fx.product.Name, fx.product.Price)
	fmt.Printf("Concurrency: %d goroutines, %d requests, %.0f%% scans\n", *concurrency, *totalRequests, *scanRatio*100)

	stats := &TestStats{
		ResponseTimes: make(map[string][]time.Duration),
		StatusCounts:  make(map[string]map[int]int),
		ErrorCounts:   make(map[string]int),
	}

	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(api, fx, *scanRatio, *delayMs, jobs, stats)
		}()
	}
	wg.Wait()
	stats.TotalTime = time.Since(startTime)

	ok := printResults(api, fx, stats)
	if !ok {
		os.Exit(1)
	}
}

// prepare registers a staff account, funds it through an approved top-up,
// binds a card and picks the cheapest available product
func prepare(api *client, topUp string) (*fixture, error) {
	suffix := time.Now().UnixNano()

	var user dto.UserResponse
	if _, err := api.do(http.MethodPost, "/users", dto.RegisterUserRequest{
		Name:  fmt.Sprintf("Load Test %d", suffix),
		Email: fmt.Sprintf("loadtest-%d@example.com", suffix),
		Role:  string(entity.RoleStaff),
	}, &user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	var pending dto.TransactionResponse
	if _, err := api.do(http.MethodPost, "/users/"+user.ID+"/topups", dto.TopUpRequest{Amount: topUp}, &pending); err != nil {
		return nil, fmt.Errorf("request top-up: %w", err)
	}
	var decision dto.TopUpDecisionResponse
	if _, err := api.do(http.MethodPost, "/admin/topups/"+pending.ID+"/approve", nil, &decision); err != nil {
		return nil, fmt.Errorf("approve top-up: %w", err)
	}
	funded, err := entity.ValidatePositiveAmount(decision.ResultBalance)
	if err != nil {
		return nil, fmt.Errorf("read funded balance: %w", err)
	}

	rfid := fmt.Sprintf("LT%d", suffix)
	if _, err := api.do(http.MethodPost, "/cards", dto.RegisterCardRequest{Email: user.Email, RFID: rfid}, nil); err != nil {
		return nil, fmt.Errorf("register card: %w", err)
	}

	var products []dto.ProductResponse
	if _, err := api.do(http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	fx := &fixture{userID: user.ID, rfid: rfid, funded: funded}
	for _, p := range products {
		if !p.Available {
			continue
		}
		price, err := entity.ValidatePositiveAmount(p.Price)
		if err != nil {
			continue
		}
		if fx.priceCents == 0 || price < fx.priceCents {
			fx.product = p
			fx.priceCents = price
		}
	}
	if fx.priceCents == 0 {
		return nil, errors.New("no available product on the menu")
	}
	return fx, nil
}

func worker(api *client, fx *fixture, scanRatio float64, delayMs int, jobs <-chan int, stats *TestStats) {
	order := dto.PlaceOrderRequest{
		Items: []dto.OrderItemRequest{{
			ProductID: fx.product.ID,
			Name:      fx.product.Name,
			Price:     fx.product.Price,
			Category:  fx.product.Category,
			Quantity:  1,
		}},
		TotalAmount: fx.product.Price,
		MealType:    string(entity.MealLunch),
	}

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		result := TestResult{Operation: opOrder}
		startTime := time.Now()
		if rand.Float64() < scanRatio {
			result.Operation = opScan
			result.StatusCode, result.Error = api.do(http.MethodPost, "/kiosk/scan", dto.ScanRequest{RFID: fx.rfid}, nil)
		} else {
			result.StatusCode, result.Error = api.do(http.MethodPost, "/users/"+fx.userID+"/orders", order, nil)
		}
		result.ResponseTime = time.Since(startTime)

		var apiErr *apiError
		if errors.As(result.Error, &apiErr) {
			result.ErrorCode = apiErr.Body.Code
		}
		stats.record(result)
	}
}

// printResults prints the report and checks the ledger stayed consistent
func printResults(api *client, fx *fixture, stats *TestStats) bool {
	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())

	for _, op := range []string{opOrder, opScan} {
		times := stats.ResponseTimes[op]
		if len(times) == 0 {
			continue
		}
		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
		var total time.Duration
		for _, t := range times {
			total += t
		}

		fmt.Printf("\n----------------- %s -----------------\n", op)
		fmt.Printf("Requests:            %d (%.2f per second)\n", len(times), float64(len(times))/stats.TotalTime.Seconds())
		fmt.Printf("Average Response:    %v\n", total/time.Duration(len(times)))
		fmt.Printf("P50 Response:        %v\n", times[len(times)*50/100])
		fmt.Printf("P95 Response:        %v\n", times[len(times)*95/100])
		fmt.Printf("Maximum Response:    %v\n", times[len(times)-1])
		for status, count := range stats.StatusCounts[op] {
			fmt.Printf("HTTP %d:            %d\n", status, count)
		}
	}

	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-60s: %d\n", errMsg, count)
		}
	}

	var balance dto.BalanceResponse
	if _, err := api.do(http.MethodGet, "/users/"+fx.userID+"/balance", nil, &balance); err != nil {
		fmt.Printf("Failed to read final balance: %v\n", err)
		return false
	}
	final, err := entity.ValidateAndConvertAmount(balance.Balance)
	if err != nil {
		fmt.Printf("Unreadable final balance %q: %v\n", balance.Balance, err)
		return false
	}

	placed := int64(stats.count(opOrder, http.StatusCreated))
	expected := fx.funded - placed*fx.priceCents
	claimed := stats.count(opScan, http.StatusOK)

	fmt.Println("\n================= CONSISTENCY =================")
	fmt.Printf("Orders placed:       %d\n", placed)
	fmt.Printf("Orders claimed:      %d\n", claimed)
	fmt.Printf("Final balance:       %s (expected %s)\n", balance.Balance, entity.AmountInCentsToString(expected))

	ok := true
	if final < 0 {
		fmt.Println("FAIL: wallet balance went negative")
		ok = false
	}
	if final != expected {
		fmt.Println("FAIL: balance does not match the accepted orders")
		ok = false
	}
	if int64(claimed) > placed {
		fmt.Println("FAIL: more claims than orders")
		ok = false
	}
	if ok {
		fmt.Println("PASS: no lost debits, no overdraft, no double claims")
	}
	fmt.Println("================================================")
	return ok
}
