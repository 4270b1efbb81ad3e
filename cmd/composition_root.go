package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "workload/internal/adapters/in/http"
	"workload/internal/adapters/out/memory"
	"workload/internal/adapters/out/postgres"
	redisadapter "workload/internal/adapters/out/redis"
	"workload/internal/core/application/dispatch"
	"workload/internal/core/application/usecases/commands"
	"workload/internal/core/application/usecases/queries"
	"workload/internal/core/domain/events"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/ports"
	"workload/internal/jobs"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived collaborators of the service and hands out
// handlers wired to them.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	registry   *skillgroup.Registry
	engine     *dispatch.Engine
	bus        *events.Bus
	uowFactory ports.UnitOfWorkFactory

	gormDB    *gorm.DB
	redis     *goredis.Client
	publisher *redisadapter.StatusPublisher
}

// NewCompositionRoot builds the service from cfg and catalog. The durable copy is
// loaded first so that order numbers issued by earlier runs stay taken and stored
// staff are known to the engine before the catalog is seeded.
func NewCompositionRoot(ctx context.Context, cfg Config, catalog Catalog, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := catalog.Registry()
	if err != nil {
		return nil, fmt.Errorf("skill group catalog: %w", err)
	}
	seed, err := catalog.Members()
	if err != nil {
		return nil, fmt.Errorf("staff catalog: %w", err)
	}

	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
	}

	if err = c.openStorage(ctx); err != nil {
		return nil, err
	}

	taken, last, err := c.takenNumbers(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("loading stored orders: %w", err)
	}

	c.bus = events.NewBus(logger)
	c.bus.SubscribeAll(c.logEvent)
	c.attachRedis(ctx)

	c.engine, err = dispatch.NewEngine(dispatch.Config{
		Registry:         registry,
		Publisher:        c.bus,
		MaxUnitsPerStaff: cfg.MaxUnitsPerStaff,
		Numbers:          kernel.NewOrderNumberSequence(last, nil),
		TakenNumbers:     taken,
		Logger:           logger,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	if err = c.seedStaff(ctx, seed); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) openStorage(ctx context.Context) error {
	if !c.cfg.UsePostgres() {
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		c.logger.Info("using in-memory storage")
		return nil
	}

	pg := c.cfg.PostgresConfig()
	if err := postgres.EnsureDatabase(ctx, pg); err != nil {
		return fmt.Errorf("ensuring database: %w", err)
	}
	db, err := postgres.Open(pg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if err = postgres.Migrate(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	c.gormDB = db
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	c.logger.Info("using postgres storage", "host", pg.Host, "database", pg.Name)
	return nil
}

// takenNumbers lists every stored order number together with the highest generated
// counter among them.
func (c *CompositionRoot) takenNumbers(ctx context.Context) ([]kernel.OrderNumber, uint64, error) {
	repo := c.uowFactory.Create().OrderRepository()

	var (
		taken []kernel.OrderNumber
		last  uint64
	)
	for _, status := range order.Statuses() {
		orders, err := repo.GetAllInStatus(ctx, status)
		if err != nil {
			return nil, 0, err
		}
		for _, o := range orders {
			taken = append(taken, o.Number())
			if counter, ok := o.Number().Counter(); ok && counter > last {
				last = counter
			}
		}
	}

	if len(taken) > 0 {
		c.logger.Info("restored order numbers", "count", len(taken), "last_counter", last)
	}
	return taken, last, nil
}

func (c *CompositionRoot) attachRedis(ctx context.Context) {
	if c.cfg.RedisAddr == "" {
		return
	}

	client, err := redisadapter.NewClient(ctx, c.cfg.RedisAddr)
	if err != nil {
		c.logger.Warn("redis unavailable, status changes are not published",
			"addr", c.cfg.RedisAddr, "error", err)
		return
	}

	channel := c.cfg.RedisChannel
	if channel == "" {
		channel = redisadapter.DefaultChannel
	}
	c.publisher = redisadapter.NewStatusPublisher(client, channel, c.logger)
	c.publisher.Attach(c.bus)
	c.redis = client
	c.logger.Info("publishing status changes to redis", "addr", c.cfg.RedisAddr, "channel", channel)
}

// seedStaff registers stored members with the engine, then adds catalog members that
// are not stored yet. A stored member wins over a catalog entry with the same id.
func (c *CompositionRoot) seedStaff(ctx context.Context, seed []*staff.Member) error {
	stored, err := c.uowFactory.Create().StaffRepository().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading stored staff: %w", err)
	}

	known := make(map[staff.ID]struct{}, len(stored))
	for _, m := range stored {
		if _, err = c.engine.RegisterStaff(ctx, m.ID(), m.Name(), m.Groups()); err != nil {
			return fmt.Errorf("restoring staff %s: %w", m.ID(), err)
		}
		known[m.ID()] = struct{}{}
	}

	handler := c.CreateRegisterStaffCommandHandler()
	for _, m := range seed {
		if _, ok := known[m.ID()]; ok {
			continue
		}

		cmd, cmdErr := commands.NewRegisterStaffCommand(m.ID().String(), m.Name(), groupNames(m.Groups()))
		if cmdErr != nil {
			return cmdErr
		}
		_, err = handler.Handle(ctx, cmd)
		switch {
		case errors.Is(err, commands.ErrNotPersisted):
			c.logger.Warn("seeded staff not stored", "staff_id", m.ID().String(), "error", err)
		case err != nil:
			return fmt.Errorf("seeding staff %s: %w", m.ID(), err)
		}
	}
	return nil
}

func (c *CompositionRoot) logEvent(ctx context.Context, event events.Event) {
	c.logger.DebugContext(ctx, "dispatch event",
		"type", string(event.EventType()), "at", event.Timestamp())
}

// Engine returns the dispatch engine.
func (c *CompositionRoot) Engine() *dispatch.Engine {
	return c.engine
}

// Bus returns the event bus the engine publishes to.
func (c *CompositionRoot) Bus() *events.Bus {
	return c.bus
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	return commands.NewSubmitOrderCommandHandler(c.engine, c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRegisterStaffCommandHandler() commands.RegisterStaffCommandHandler {
	var f commands.StaffUoWFactory = FuncStaffUoWFactory(func() commands.StaffUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterStaffCommandHandler(c.engine, f)
}

func (c *CompositionRoot) CreateStaffLoginCommandHandler() commands.StaffLoginCommandHandler {
	return commands.NewStaffLoginCommandHandler(c.engine, c.orderUoWFactory())
}

func (c *CompositionRoot) CreateStaffLogoutCommandHandler() commands.StaffLogoutCommandHandler {
	return commands.NewStaffLogoutCommandHandler(c.engine, c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompleteWorkUnitCommandHandler() commands.CompleteWorkUnitCommandHandler {
	return commands.NewCompleteWorkUnitCommandHandler(c.engine, c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.engine, c.orderReader())
}

func (c *CompositionRoot) CreateGetOrdersByStatusQueryHandler() queries.GetOrdersByStatusQueryHandler {
	return queries.NewGetOrdersByStatusQueryHandler(c.engine, c.orderReader())
}

func (c *CompositionRoot) CreateGetAvailableProductsQueryHandler() queries.GetAvailableProductsQueryHandler {
	return queries.NewGetAvailableProductsQueryHandler(c.engine)
}

func (c *CompositionRoot) CreateGetQueueDepthsQueryHandler() queries.GetQueueDepthsQueryHandler {
	return queries.NewGetQueueDepthsQueryHandler(c.engine)
}

func (c *CompositionRoot) CreateGetAllStaffQueryHandler() queries.GetAllStaffQueryHandler {
	return queries.NewGetAllStaffQueryHandler(c.engine)
}

// Handlers collects every HTTP-facing handler.
func (c *CompositionRoot) Handlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		SubmitOrder:          c.CreateSubmitOrderCommandHandler(),
		RegisterStaff:        c.CreateRegisterStaffCommandHandler(),
		StaffLogin:           c.CreateStaffLoginCommandHandler(),
		StaffLogout:          c.CreateStaffLogoutCommandHandler(),
		CompleteWorkUnit:     c.CreateCompleteWorkUnitCommandHandler(),
		GetOrderStatus:       c.CreateGetOrderStatusQueryHandler(),
		GetOrdersByStatus:    c.CreateGetOrdersByStatusQueryHandler(),
		GetAvailableProducts: c.CreateGetAvailableProductsQueryHandler(),
		GetQueueDepths:       c.CreateGetQueueDepthsQueryHandler(),
		GetAllStaff:          c.CreateGetAllStaffQueryHandler(),
	}
}

// Router builds the HTTP router.
func (c *CompositionRoot) Router() (*echo.Echo, error) {
	return httpadapter.NewRouter(httpadapter.NewServer(c.Handlers(), c.logger), c.logger)
}

// Jobs builds the scheduled jobs.
func (c *CompositionRoot) Jobs() *jobs.JobManager {
	return jobs.NewJobManager(jobs.NewBacklogMonitorJob(
		c.engine, c.cfg.BacklogCheckSchedule, c.cfg.BacklogStaleAfter, c.logger))
}

// Close drains the Redis publisher, then releases the database and Redis connections.
func (c *CompositionRoot) Close() {
	if c.publisher != nil {
		c.publisher.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Warn("closing redis client", "error", err)
		}
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			if err = sqlDB.Close(); err != nil {
				c.logger.Warn("closing database", "error", err)
			}
		}
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// orderReader is an order repository outside any transaction.
func (c *CompositionRoot) orderReader() ports.OrderRepository {
	return c.uowFactory.Create().OrderRepository()
}

func groupNames(groups []skillgroup.SkillGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.String()
	}
	return names
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncStaffUoWFactory func() commands.StaffUoW

func (f FuncStaffUoWFactory) Create() commands.StaffUoW {
	return f()
}
