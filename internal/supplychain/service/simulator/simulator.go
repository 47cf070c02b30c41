// Package simulator drives the supply chain state machine: it synthesizes a transaction
// for the active stage, waits out the processing delay and then commits the block,
// the inventory change and the stage advance as one state update.
package simulator

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/goodnatureofminers/supplychain-simulator/internal/clock"
	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/inventory"
	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/ledger"
	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/stepper"
	"go.uber.org/zap"
)

// Options overrides the simulator defaults. Zero values keep the defaults.
type Options struct {
	Stages           []model.Stage
	TickInterval     time.Duration
	TriggerThreshold float64
	ProcessingDelay  time.Duration
	Clock            bclock.Clock
	Sleep            clock.SleepFunc
	Random           func() float64
}

// Simulator owns the stage index, the ledger, the inventory and the pending transaction.
// All state changes happen under mu; at most one transaction is in flight.
type Simulator struct {
	logger  *zap.Logger
	metrics Metrics
	sink    BlockSink

	clock  bclock.Clock
	sleep  clock.SleepFunc
	random func() float64

	stages           []model.Stage
	tickInterval     time.Duration
	triggerThreshold float64
	processingDelay  time.Duration

	mu        sync.Mutex
	step      int
	ledger    *ledger.Ledger
	inventory model.Inventory
	pending   *pendingCommit
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type pendingCommit struct {
	tx      model.Transaction
	next    int
	source  model.TriggerSource
	started time.Time
}

// NewSimulator builds a Simulator in its starting state. sink may be nil.
func NewSimulator(metrics Metrics, sink BlockSink, logger *zap.Logger, opts Options) (*Simulator, error) {
	if metrics == nil {
		return nil, errors.New("simulator metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stages := opts.Stages
	if len(stages) == 0 {
		stages = model.DefaultStages()
	}
	c := opts.Clock
	if c == nil {
		c = bclock.New()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = clock.Sleeper(c)
	}
	random := opts.Random
	if random == nil {
		random = rand.Float64
	}

	s := &Simulator{
		logger:           logger,
		metrics:          metrics,
		sink:             sink,
		clock:            c,
		sleep:            sleep,
		random:           random,
		stages:           append([]model.Stage(nil), stages...),
		tickInterval:     durationOr(opts.TickInterval, defaultTickInterval),
		triggerThreshold: defaultTriggerThreshold,
		processingDelay:  durationOr(opts.ProcessingDelay, defaultProcessingDelay),
		ledger:           ledger.New(),
		inventory:        inventory.Initial(),
	}
	if opts.TriggerThreshold > 0 {
		s.triggerThreshold = opts.TriggerThreshold
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.metrics.SetInventory(s.inventory.Clone())
	s.metrics.SetChainHeight(0)

	return s, nil
}

// Trigger starts a transaction for the active stage and commits it in the background
// after the processing delay. It returns false and changes nothing when a transaction
// is already in flight or the simulator is closed.
func (s *Simulator) Trigger() (model.Transaction, bool) {
	p, ok := s.begin(model.TriggerManual)
	if !ok {
		return model.Transaction{}, false
	}

	go func() {
		_, _ = s.complete(s.ctx, p)
	}()
	return p.tx, true
}

// Progress starts a transaction for the active stage and waits for its commit.
// ok is false when the command was rejected because a transaction is in flight.
// A non-nil error means ctx ended or the simulator closed during the processing
// delay; the transaction was discarded.
func (s *Simulator) Progress(ctx context.Context) (block model.Block, ok bool, err error) {
	return s.progress(ctx, model.TriggerManual)
}

func (s *Simulator) progress(ctx context.Context, source model.TriggerSource) (model.Block, bool, error) {
	p, ok := s.begin(source)
	if !ok {
		return model.Block{}, false, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	block, err := s.complete(ctx, p)
	return block, true, err
}

// Snapshot returns a copy of the current state.
func (s *Simulator) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.Snapshot{
		Step:       s.step,
		Stage:      s.stages[s.step],
		Stages:     append([]model.Stage(nil), s.stages...),
		Blocks:     s.ledger.Blocks(),
		Inventory:  s.inventory.Clone(),
		Processing: s.pending != nil,
	}
	if s.pending != nil {
		tx := s.pending.tx
		snap.Pending = &tx
	}
	return snap
}

// Block returns the committed block with the given id.
func (s *Simulator) Block(id int) (model.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Block(id)
}

// Verify checks the integrity of the committed chain.
func (s *Simulator) Verify() (int, error) {
	s.mu.Lock()
	blocks := s.ledger.Blocks()
	s.mu.Unlock()
	return len(blocks), ledger.Verify(blocks)
}

// Processing reports whether a transaction is in flight.
func (s *Simulator) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Close rejects further transactions, discards the in-flight one and waits for it.
func (s *Simulator) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Simulator) begin(source model.TriggerSource) (pendingCommit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pending != nil {
		s.metrics.ObserveTrigger(source, false)
		return pendingCommit{}, false
	}

	tx, next := stepper.Advance(s.stages, s.step)
	s.pending = &pendingCommit{
		tx:      tx,
		next:    next,
		source:  source,
		started: s.clock.Now(),
	}
	s.wg.Add(1)
	s.metrics.ObserveTrigger(source, true)
	s.logger.Debug("transaction pending",
		zap.String("source", string(source)),
		zap.String("from", tx.From),
		zap.String("to", tx.To),
	)
	return *s.pending, true
}

func (s *Simulator) complete(ctx context.Context, p pendingCommit) (model.Block, error) {
	defer s.wg.Done()

	if err := s.sleep(ctx, s.processingDelay); err != nil {
		s.discard()
		s.metrics.ObserveCommit(err, p.tx.To, p.started)
		s.logger.Warn("pending transaction discarded", zap.String("to", p.tx.To), zap.Error(err))
		return model.Block{}, err
	}

	block, inv, height := s.commit(p)
	s.metrics.ObserveCommit(nil, block.Stage, p.started)
	s.metrics.SetInventory(inv)
	s.metrics.SetChainHeight(height)

	s.logger.Info("block committed",
		zap.Int("id", block.ID),
		zap.String("stage", block.Stage),
		zap.String("digest", block.Digest),
		zap.String("previous_digest", block.PreviousDigest),
		zap.String("source", string(p.source)),
	)
	if neg := inv.Negative(); len(neg) > 0 {
		s.logger.Warn("inventory went negative", zap.Any("categories", neg), zap.Any("inventory", inv))
	}

	if s.sink != nil {
		if err := s.sink.WriteBlock(ctx, block); err != nil {
			s.logger.Error("export block failed", zap.Int("id", block.ID), zap.Error(err))
		}
	}
	return block, nil
}

func (s *Simulator) commit(p pendingCommit) (model.Block, model.Inventory, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block := s.ledger.Append(p.tx, s.clock.Now())
	s.inventory = inventory.ApplyStage(p.tx.To, s.inventory)
	s.step = p.next
	s.pending = nil

	return block, s.inventory.Clone(), s.ledger.Len()
}

func (s *Simulator) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
