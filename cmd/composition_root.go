package cmd

import (
	"log/slog"
	"strings"

	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. Handlers are built
// on demand; the repositories and the publisher are shared.
type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *slog.Logger

	orderRepo    ports.OrderRepository
	customerRepo ports.CustomerRepository
	stepLedger   ports.StepLedger
	publisher    ports.EventPublisher
}

// NewCompositionRoot builds the object graph from the open database handle.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	writer := kafka.NewWriter(
		strings.Split(config.KafkaHost, ","),
		config.KafkaEventsTopic,
	)

	return CompositionRoot{
		config:       config,
		gormDB:       gormDB,
		logger:       logger,
		orderRepo:    orderrepo.NewGormOrderRepository(gormDB),
		customerRepo: customerrepo.NewGormCustomerRepository(gormDB),
		stepLedger:   ledgerrepo.NewGormStepLedger(gormDB),
		publisher:    kafka.NewEventPublisher(writer, logger),
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderRepo, c.customerRepo, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCreateCustomerCommandHandler() commands.CreateCustomerCommandHandler {
	return commands.NewCreateCustomerCommandHandler(c.customerRepo)
}

func (c *CompositionRoot) CreateTransitionStageCommandHandler() commands.TransitionStageCommandHandler {
	return commands.NewTransitionStageCommandHandler(
		c.orderRepo, c.stepLedger, c.publisher, commands.NoopStageAction(), c.logger)
}

func (c *CompositionRoot) CreateGetCustomerQueryHandler() queries.GetCustomerQueryHandler {
	return queries.NewGetCustomerQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersByCustomerQueryHandler() queries.GetOrdersByCustomerQueryHandler {
	return queries.NewGetOrdersByCustomerQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

// CreateJobManager wires the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	resumeJob := jobs.NewTransitionResumeJob(
		c.CreateTransitionStageCommandHandler(),
		c.stepLedger,
		c.config.ResumeStallTimeout,
		c.logger,
	)

	return jobs.NewJobManager(resumeJob)
}
