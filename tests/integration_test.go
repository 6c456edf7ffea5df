package tests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/catalog"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/handler"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

type testEnv struct {
	redis      *redis.Client
	mysql      *sql.DB
	catalogURL string
	cleanup    func()
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/rocketshoes?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	catalogService := service.NewCatalogService(
		storage.NewMySQLAdapter(db),
		storage.NewRedisAdapter(rdb, "", time.Minute),
		quietLogger(),
	)
	router := mux.NewRouter()
	handler.NewCatalogHTTPHandler(catalogService, quietLogger()).Register(router)
	srv := httptest.NewServer(router)

	return &testEnv{
		redis:      rdb,
		mysql:      db,
		catalogURL: srv.URL,
		cleanup: func() {
			srv.Close()
			rdb.Close()
			db.Close()
		},
	}
}

func (env *testEnv) seed(t *testing.T, productID, amount int) {
	ctx := context.Background()
	_, err := env.mysql.ExecContext(ctx, `
		INSERT INTO products (id, title, price, image) VALUES (?, 'integration shoe', 149.9, 'https://example.com/shoe.jpg')
		ON DUPLICATE KEY UPDATE title = 'integration shoe', price = 149.9`, productID)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	_, err = env.mysql.ExecContext(ctx, `
		INSERT INTO stock (product_id, amount, version) VALUES (?, ?, 0)
		ON DUPLICATE KEY UPDATE amount = ?, version = 0`, productID, amount, amount)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	env.redis.Del(ctx, fmt.Sprintf("stock:%d", productID))
}

func (env *testEnv) newCart(t *testing.T, key string) (*service.CartService, *storage.RedisAdapter) {
	store := storage.NewRedisAdapter(env.redis, key, 0)
	svc, err := service.NewCartService(context.Background(), store, catalog.NewHTTPClient(env.catalogURL, 5*time.Second), quietLogger())
	if err != nil {
		t.Fatalf("NewCartService failed: %v", err)
	}
	return svc, store
}

func TestIntegration_FullCartFlow(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	productID := 9101
	env.seed(t, productID, 3)

	key := "test:cart:" + uuid.NewString()
	defer env.redis.Del(ctx, key)

	svc, store := env.newCart(t, key)
	defer svc.Close()

	if err := svc.AddProduct(ctx, productID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddProduct(ctx, productID); err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if err := svc.UpdateProductAmount(ctx, service.UpdateProductAmount{ProductID: productID, Amount: 4}); !errors.Is(err, service.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got: %v", err)
	}
	if err := svc.UpdateProductAmount(ctx, service.UpdateProductAmount{ProductID: productID, Amount: 3}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(svc.Cart(), persisted); diff != "" {
		t.Errorf("persisted cart differs (-memory +persisted):\n%s", diff)
	}
	if persisted[0].Amount != 3 || persisted[0].Title != "integration shoe" {
		t.Errorf("unexpected line item: %+v", persisted[0])
	}

	if err := svc.RemoveProduct(ctx, productID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	raw, _ := env.redis.Get(ctx, key).Result()
	if raw != "[]" {
		t.Errorf("expected empty persisted cart, got %s", raw)
	}
}

func TestIntegration_CartSurvivesRestart(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	productID := 9102
	env.seed(t, productID, 10)

	key := "test:cart:" + uuid.NewString()
	defer env.redis.Del(ctx, key)

	first, _ := env.newCart(t, key)
	if err := first.AddProduct(ctx, productID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	first.Close()

	second, _ := env.newCart(t, key)
	defer second.Close()

	if diff := cmp.Diff(first.Cart(), second.Cart()); diff != "" {
		t.Errorf("hydrated cart differs (-before +after):\n%s", diff)
	}
}

func TestIntegration_ConcurrentAddsNeverOversell(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	productID := 9103
	initialStock := 10
	env.seed(t, productID, initialStock)

	key := "test:cart:" + uuid.NewString()
	defer env.redis.Del(ctx, key)

	svc, _ := env.newCart(t, key)
	defer svc.Close()

	var successCount atomic.Int32
	var wg sync.WaitGroup
	totalRequests := 25

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.AddProduct(ctx, productID); err == nil {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successful adds, got %d", initialStock, successCount.Load())
	}
	if amount := svc.Cart()[0].Amount; amount != initialStock {
		t.Errorf("expected amount %d, got %d", initialStock, amount)
	}
}

func TestIntegration_StockUpdateVisibleToCart(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	productID := 9104
	env.seed(t, productID, 0)

	key := "test:cart:" + uuid.NewString()
	defer env.redis.Del(ctx, key)

	svc, _ := env.newCart(t, key)
	defer svc.Close()

	if err := svc.AddProduct(ctx, productID); !errors.Is(err, service.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got: %v", err)
	}

	catalogService := service.NewCatalogService(
		storage.NewMySQLAdapter(env.mysql),
		storage.NewRedisAdapter(env.redis, "", time.Minute),
		quietLogger(),
	)
	if err := catalogService.SetStock(ctx, productID, 2); err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}

	if err := svc.AddProduct(ctx, productID); err != nil {
		t.Errorf("expected add to succeed after restock, got: %v", err)
	}
}
