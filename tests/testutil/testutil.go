// Package testutil provides common test utilities for the stock ledger.
// It sets up in-memory databases, a ready-to-use unit of work runner and
// seeded catalog data, plus small assertion helpers.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/erp/stockledger/internal/infrastructure/lock"
	"github.com/erp/stockledger/internal/infrastructure/persistence"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a mock PostgreSQL database, closed on test cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// NewSQLiteDB opens a private in-memory SQLite database with every table migrated.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err, "Failed to open sqlite")
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...), "Failed to migrate")
	return database.DB
}

// Fixture is a migrated database with a runner, an acting tenant and a
// settable clock. Services under test are built on Runner.
type Fixture struct {
	DB     *gorm.DB
	Runner *appshared.Runner
	Locker *lock.MemoryLocker
	Actor  shared.Actor

	mu  sync.Mutex
	now time.Time
}

// NewFixture creates a fixture on in-memory SQLite whose clock starts at
// 2024-03-15 10:00 UTC.
func NewFixture(t *testing.T, opts ...appshared.RunnerOption) *Fixture {
	t.Helper()
	return NewFixtureOn(t, NewSQLiteDB(t), opts...)
}

// NewFixtureOn creates a fixture on an already migrated database, with a
// fresh tenant so fixtures can share one database.
func NewFixtureOn(t *testing.T, db *gorm.DB, opts ...appshared.RunnerOption) *Fixture {
	t.Helper()
	f := &Fixture{
		DB:     db,
		Locker: lock.NewMemoryLocker(),
		Actor:  shared.NewActor(uuid.New(), uuid.New()),
		now:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	base := []appshared.RunnerOption{appshared.WithLocker(f.Locker), appshared.WithClock(f.Now)}
	f.Runner = appshared.NewRunner(persistence.NewGormTransactionScope(f.DB), append(base, opts...)...)
	return f
}

// Now returns the fixture clock
func (f *Fixture) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// SetNow moves the fixture clock
func (f *Fixture) SetNow(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Repos returns repositories on the plain connection, for assertions
func (f *Fixture) Repos() appshared.Repositories {
	return persistence.NewRepositories(f.DB)
}

// OtherTenant returns an actor of a different tenant
func (f *Fixture) OtherTenant() shared.Actor {
	return shared.NewActor(uuid.New(), f.Actor.UserID)
}

// SeedUnit stores a unit of measure for the fixture tenant
func (f *Fixture) SeedUnit(t *testing.T, code string, isPack bool) *stock.Unit {
	t.Helper()
	unit, err := stock.NewUnit(f.Actor, code, code, isPack)
	require.NoError(t, err)
	require.NoError(t, f.Repos().CatalogRepo().SaveUnit(context.Background(), unit))
	return unit
}

// SeedItem stores an item with the given base unit for the fixture tenant
func (f *Fixture) SeedItem(t *testing.T, sku string, baseUnitID uuid.UUID) *stock.Item {
	t.Helper()
	item, err := stock.NewItem(f.Actor, sku, sku, baseUnitID)
	require.NoError(t, err)
	require.NoError(t, f.Repos().CatalogRepo().SaveItem(context.Background(), item))
	return item
}

// Lot reloads a lot by id
func (f *Fixture) Lot(t *testing.T, id uuid.UUID) *stock.StockLot {
	t.Helper()
	lot, err := f.Repos().LotRepo().FindByID(context.Background(), f.Actor.TenantID, id)
	require.NoError(t, err)
	return lot
}

// Dec parses a decimal literal, panicking on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// AssertDecimal compares decimals by value, so "15" equals "15.000".
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !Dec(want).Equal(got) {
		assert.Fail(t, "decimal mismatch: want "+want+", got "+got.String(), msgAndArgs...)
	}
}

// Day returns midnight UTC of the given date
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestContext wraps a Gin test context with HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a new Gin test context.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID generates a deterministic UUID for testing.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}
