package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	"github.com/zaviagodev/ai-commerce-sub002/internal/discount"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/coupon"
	"github.com/zaviagodev/ai-commerce-sub002/internal/domain/order"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
	"github.com/zaviagodev/ai-commerce-sub002/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	CouponRepo coupon.Repository
	OrderRepo  order.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	engine *discount.Engine
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.logger = logger.NewNoopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.engine = discount.NewEngineFromConfig(s.config)
	s.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CouponRepo: NewInMemoryCouponStore(),
		OrderRepo:  NewInMemoryOrderStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.CouponRepo.(*InMemoryCouponStore).Clear()
	s.stores.OrderRepo.(*InMemoryOrderStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetContextForStore returns the test context switched to another store
func (s *BaseServiceTestSuite) GetContextForStore(storeName string) context.Context {
	return context.WithValue(s.ctx, types.CtxStoreName, storeName)
}

// GetStoreContext returns the store the test context acts for
func (s *BaseServiceTestSuite) GetStoreContext() types.StoreContext {
	return types.GetStoreContext(s.ctx)
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetEngine returns the discount engine built from the test configuration
func (s *BaseServiceTestSuite) GetEngine() *discount.Engine {
	return s.engine
}

// SetEngine replaces the engine, for tests that need a different policy
func (s *BaseServiceTestSuite) SetEngine(engine *discount.Engine) {
	s.engine = engine
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the fixed test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
