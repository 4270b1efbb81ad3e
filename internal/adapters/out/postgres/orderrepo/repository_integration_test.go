package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"workload/internal/adapters/out/postgres/orderrepo"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(key string, aggregate any) {
	m.Called(key, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_items, orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_NewOrder_Success() {
	ctx := context.Background()
	o := suite.newOrder("O1", time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC))

	suite.tracker.On("TrackAggregate", "O1", o).Once()
	suite.Require().NoError(suite.repository.Save(ctx, o))

	stored, err := suite.repository.Get(ctx, o.Number())
	suite.Require().NoError(err)
	suite.Equal(o.Number(), stored.Number())
	suite.Equal(order.Placed, stored.Status())
	suite.Equal(int64(1), stored.Version())
	suite.True(o.CreatedAt().Equal(stored.CreatedAt()))
	suite.Nil(stored.CompletedAt())
	suite.Require().Len(stored.Items(), 2)
	suite.Equal("Veg Pizza", stored.Items()[0].ProductType().String())
	suite.Equal(2, stored.Items()[0].Quantity())
	suite.Equal("Drinks", stored.Items()[1].ProductType().String())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_NewerVersionReplacesStoredCopy() {
	ctx := context.Background()
	o := suite.newOrder("O1", time.Now())
	suite.tracker.On("TrackAggregate", "O1", mock.Anything)

	suite.Require().NoError(suite.repository.Save(ctx, o))

	suite.Require().NoError(o.StartWork())
	suite.Require().NoError(o.CompleteItems([]int{1}))
	suite.Require().NoError(suite.repository.Save(ctx, o))

	stored, err := suite.repository.Get(ctx, o.Number())
	suite.Require().NoError(err)
	suite.Equal(order.WorkInProgress, stored.Status())
	suite.Equal(o.Version(), stored.Version())
	suite.False(stored.Items()[0].IsCompleted())
	suite.True(stored.Items()[1].IsCompleted())

	completedAt := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	suite.Require().NoError(o.Complete(completedAt))
	suite.Require().NoError(suite.repository.Save(ctx, o))

	stored, err = suite.repository.Get(ctx, o.Number())
	suite.Require().NoError(err)
	suite.Equal(order.Complete, stored.Status())
	suite.Require().NotNil(stored.CompletedAt())
	suite.True(completedAt.Equal(*stored.CompletedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_StaleVersionIsIgnored() {
	ctx := context.Background()
	o := suite.newOrder("O1", time.Now())
	stale := o.Clone()
	suite.Require().NoError(o.StartWork())

	suite.tracker.On("TrackAggregate", "O1", o).Once()
	suite.Require().NoError(suite.repository.Save(ctx, o))
	suite.Require().NoError(suite.repository.Save(ctx, stale))

	stored, err := suite.repository.Get(ctx, o.Number())
	suite.Require().NoError(err)
	suite.Equal(order.WorkInProgress, stored.Status())
	suite.Equal(o.Version(), stored.Version())

	suite.tracker.AssertExpectations(suite.T())
	suite.tracker.AssertNumberOfCalls(suite.T(), "TrackAggregate", 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_InvalidOrder_ReturnsError() {
	err := suite.repository.Save(context.Background(), &order.Order{})
	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertOrderCount(0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	number, err := kernel.NewOrderNumber("O404")
	suite.Require().NoError(err)

	stored, err := suite.repository.Get(context.Background(), number)
	suite.Nil(stored)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.Require().ErrorIs(err, order.ErrUnknownOrder)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInStatus_ReturnsOldestFirst() {
	ctx := context.Background()
	base := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	late := suite.newOrder("O3", base.Add(2*time.Minute))
	early := suite.newOrder("O1", base)
	started := suite.newOrder("O2", base.Add(time.Minute))
	suite.Require().NoError(started.StartWork())
	for _, o := range []*order.Order{late, early, started} {
		suite.Require().NoError(suite.repository.Save(ctx, o))
	}

	placed, err := suite.repository.GetAllInStatus(ctx, order.Placed)
	suite.Require().NoError(err)
	suite.Require().Len(placed, 2)
	suite.Equal("O1", placed[0].Number().String())
	suite.Equal("O3", placed[1].Number().String())
	suite.Len(placed[0].Items(), 2)

	wip, err := suite.repository.GetAllInStatus(ctx, order.WorkInProgress)
	suite.Require().NoError(err)
	suite.Require().Len(wip, 1)
	suite.Equal("O2", wip[0].Number().String())

	complete, err := suite.repository.GetAllInStatus(ctx, order.Complete)
	suite.Require().NoError(err)
	suite.NotNil(complete)
	suite.Empty(complete)

	_, err = suite.repository.GetAllInStatus(ctx, order.Unknown)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(number string, createdAt time.Time) *order.Order {
	n, err := kernel.NewOrderNumber(number)
	suite.Require().NoError(err)

	pizza, err := order.NewItem(skillgroup.MustProductType("Veg Pizza"), 2)
	suite.Require().NoError(err)
	drinks, err := order.NewItem(skillgroup.MustProductType("Drinks"), 1)
	suite.Require().NoError(err)

	o, err := order.NewOrder(n, []order.Item{pizza, drinks}, createdAt)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
