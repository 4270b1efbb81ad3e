package postgres_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "workload/internal/adapters/out/postgres"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	suite.Require().NoError(err)

	// A database that does not exist yet exercises EnsureDatabase.
	cfg := postgresadapter.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "testuser",
		Password: "testpass",
		Name:     "workload_test",
		SSLMode:  "disable",
	}
	suite.Require().NoError(postgresadapter.EnsureDatabase(ctx, cfg))
	suite.Require().NoError(postgresadapter.EnsureDatabase(ctx, cfg))

	db, err := postgresadapter.Open(cfg)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgresadapter.Migrate(db))
	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE order_items, orders, staff_skill_groups, staff").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.StaffRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "nested Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitSpansRepositories() {
	ctx := context.Background()
	o := suite.newOrder("ORD19102026-000001")
	m := suite.newMember("S1", "Monica", "Veg Pizza")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Save(ctx, o))
	suite.Require().NoError(uow.StaffRepository().Add(ctx, m))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	storedOrder, err := reader.OrderRepository().Get(ctx, o.Number())
	suite.Require().NoError(err)
	suite.Equal(o.Number(), storedOrder.Number())

	storedMember, err := reader.StaffRepository().Get(ctx, m.ID())
	suite.Require().NoError(err)
	suite.Equal("Monica", storedMember.Name())

	tracked := uow.(*postgresadapter.GormUnitOfWork).TrackedAggregates()
	suite.Require().Len(tracked, 2)
	suite.Equal(o.Number().String(), tracked[0].Key)
	suite.Same(o, tracked[0].Aggregate)
	suite.Equal("S1", tracked[1].Key)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsWrites() {
	ctx := context.Background()
	o := suite.newOrder("ORD19102026-000002")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Save(ctx, o))
	suite.Require().NoError(uow.StaffRepository().Add(ctx, suite.newMember("S2", "Ross", "Drinks")))
	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	_, err := reader.OrderRepository().Get(ctx, o.Number())
	suite.Require().ErrorIs(err, order.ErrUnknownOrder)
	_, err = reader.StaffRepository().Get(ctx, staff.MustID("S2"))
	suite.Require().ErrorIs(err, staff.ErrUnknownStaff)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransactionWritesImmediately() {
	ctx := context.Background()
	o := suite.newOrder("ORD19102026-000003")

	suite.Require().NoError(suite.factory.Create().OrderRepository().Save(ctx, o))

	stored, err := suite.factory.Create().OrderRepository().GetAllInStatus(ctx, order.Placed)
	suite.Require().NoError(err)
	suite.Require().Len(stored, 1)
	suite.Equal(o.Number(), stored[0].Number())
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(number string) *order.Order {
	n, err := kernel.NewOrderNumber(number)
	suite.Require().NoError(err)
	item, err := order.NewItem(skillgroup.MustProductType("Sandwich"), 1)
	suite.Require().NoError(err)
	o, err := order.NewOrder(n, []order.Item{item}, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) newMember(id, name, group string) *staff.Member {
	m, err := staff.NewMember(staff.MustID(id), name, []skillgroup.SkillGroup{skillgroup.MustSkillGroup(group)})
	suite.Require().NoError(err)
	return m
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
