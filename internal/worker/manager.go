package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gamehub/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines.
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages read per batch.
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long a read blocks waiting for messages.
	DefaultBlockTimeout = 5 * time.Second
)

// Manager runs the goroutines that consume the catalog stream.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds worker pool settings.
type ManagerConfig struct {
	WorkerCount  int
	BatchSize    int64
	BlockTimeout time.Duration
}

// NewManager creates a worker manager; zero config fields get defaults.
func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start spins up the worker goroutines. Call Stop to shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamCatalog, queue.ConsumerGroupCatalog); err != nil {
		return err
	}

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		consumerName := fmt.Sprintf("worker-%d", workerID)

		m.wg.Add(1)
		go m.runWorker(workerID, consumerName)
	}

	log.Printf("[Manager] started %d workers on stream=%s group=%s",
		m.workerCount, queue.StreamCatalog, queue.ConsumerGroupCatalog)
	return nil
}

// Stop shuts the workers down and waits for them to finish.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	log.Printf("[Manager] all workers stopped")
}

func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	// Recover messages that were in flight when a previous run died.
	m.processPending(workerID, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			log.Printf("[Worker-%d] shutting down", workerID)
			return
		default:
			m.processMessages(workerID, consumerName)
		}
	}
}

func (m *Manager) processPending(workerID int, consumerName string) {
	rc, ok := m.consumer.(*queue.RedisConsumer)
	if !ok {
		return
	}

	for {
		messages, err := rc.ReadPending(m.ctx, queue.StreamCatalog, queue.ConsumerGroupCatalog, consumerName, m.batchSize)
		if err != nil {
			log.Printf("[Worker-%d] error reading pending: %v", workerID, err)
			return
		}
		if len(messages) == 0 {
			return
		}

		log.Printf("[Worker-%d] recovering %d pending messages", workerID, len(messages))
		m.handleMessages(workerID, messages)
	}
}

func (m *Manager) processMessages(workerID int, consumerName string) {
	messages, err := m.consumer.Read(
		m.ctx,
		queue.StreamCatalog,
		queue.ConsumerGroupCatalog,
		consumerName,
		m.batchSize,
		m.blockTime,
	)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		log.Printf("[Worker-%d] error reading: %v", workerID, err)
		time.Sleep(time.Second) // back off on error
		return
	}
	if len(messages) == 0 {
		return
	}

	m.handleMessages(workerID, messages)
}

func (m *Manager) handleMessages(workerID int, messages []queue.Message) {
	for _, msg := range messages {
		if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			// ACK anyway: these events are best-effort and an infinite
			// redelivery loop would be worse than a missed cache warm.
			log.Printf("[Worker-%d] handler error msgID=%s: %v", workerID, msg.ID, err)
		}

		if err := m.consumer.Ack(m.ctx, queue.StreamCatalog, queue.ConsumerGroupCatalog, msg.ID); err != nil {
			log.Printf("[Worker-%d] ack error msgID=%s: %v", workerID, msg.ID, err)
		}
	}
}
