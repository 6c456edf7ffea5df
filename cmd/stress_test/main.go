package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/catalog"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/config"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

const (
	cartKey        = "stress:cart"
	productID      = 1
	extraRequests  = 30
	requestTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Clear previous test data
	rdb.Del(ctx, cartKey)

	catalogClient := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogTimeout)
	stock, err := catalogClient.GetStock(ctx, productID)
	if err != nil {
		log.Fatalf("failed to read stock: %v", err)
	}
	totalRequests := stock.Amount + extraRequests

	quiet := logrus.New()
	quiet.SetLevel(logrus.WarnLevel)

	cartService, err := service.NewCartService(ctx, storage.NewRedisAdapter(rdb, cartKey, 0), catalogClient, logrus.NewEntry(quiet))
	if err != nil {
		log.Fatalf("failed to initialize cart: %v", err)
	}
	defer cartService.Close()

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			defer cancel()

			if err := cartService.AddProduct(reqCtx, productID); err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Available Stock:  %d\n", stock.Amount)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == int32(stock.Amount) && fail == int32(extraRequests) {
		fmt.Printf("PASS: Exactly %d adds succeeded, %d failed\n", stock.Amount, extraRequests)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			stock.Amount, extraRequests, success, fail)
	}

	// Verify the persisted cart
	persisted, err := storage.NewRedisAdapter(rdb, cartKey, 0).Load(ctx)
	if err != nil {
		log.Fatalf("failed to reload cart: %v", err)
	}

	amount := 0
	if item, ok := persisted.Find(productID); ok {
		amount = item.Amount
	}
	fmt.Printf("Persisted Amount: %d\n", amount)

	if amount == stock.Amount {
		fmt.Println("PASS: Cart amount matches stock")
	} else {
		fmt.Printf("FAIL: Expected amount %d, got %d\n", stock.Amount, amount)
	}
}
