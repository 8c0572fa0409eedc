package machine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"coffeemachine/pkg/journal"
	"coffeemachine/pkg/metrics"
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
)

var (
	// ErrBusy is returned when the machine loop does not accept or answer a command in time.
	ErrBusy = errors.New("machine is busy")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("machine service is closed")
)

const defaultTimeout = 2 * time.Second

type action int

const (
	actionBuy action = iota + 1
	actionFill
	actionTake
	actionClean
	actionStatus
	actionMaxCups
	actionSales
)

// command carries one request into the loop goroutine.
type command struct {
	action action
	recipe recipe.Recipe
	fill   supply.Levels
	reply  chan result
}

// result carries whatever the action produced back to the caller.
type result struct {
	outcome Outcome
	status  Status
	amount  int
	entries []journal.Entry
	summary journal.Summary
	err     error
}

// Service gives concurrent callers access to one Machine. A single goroutine
// owns the machine, so each sale runs gate check, debit and credit without
// interleaving.
type Service struct {
	machine  *Machine
	journal  *journal.Journal
	metrics  *metrics.Recorder
	logger   *zap.Logger
	timeout  time.Duration
	commands chan command
	quit     chan struct{}
	once     sync.Once
}

// NewService starts the loop goroutine. journal, recorder and logger may be nil.
func NewService(m *Machine, j *journal.Journal, recorder *metrics.Recorder, logger *zap.Logger) *Service {
	if j == nil {
		j = journal.New(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		machine:  m,
		journal:  j,
		metrics:  recorder,
		logger:   logger,
		timeout:  defaultTimeout,
		commands: make(chan command),
		quit:     make(chan struct{}),
	}
	svc.refreshGauges()
	go svc.loop()
	return svc
}

// loop executes commands one at a time so the machine needs no locks.
func (s *Service) loop() {
	for {
		select {
		case cmd := <-s.commands:
			cmd.reply <- s.apply(cmd)
		case <-s.quit:
			return
		}
	}
}

func (s *Service) apply(cmd command) result {
	switch cmd.action {
	case actionBuy:
		return s.buy(cmd.recipe)
	case actionFill:
		err := s.machine.Fill(cmd.fill.Water, cmd.fill.Milk, cmd.fill.CoffeeBeans, cmd.fill.DisposableCups)
		if err != nil {
			s.logger.Warn("fill rejected", zap.Error(err))
			return result{err: err}
		}
		s.logger.Info("supplies filled",
			zap.Int("water", cmd.fill.Water),
			zap.Int("milk", cmd.fill.Milk),
			zap.Int("coffee_beans", cmd.fill.CoffeeBeans),
			zap.Int("disposable_cups", cmd.fill.DisposableCups))
		s.refreshGauges()
		return result{status: s.machine.Status()}
	case actionTake:
		amount := s.machine.Take()
		s.logger.Info("money taken", zap.Int("amount", amount))
		if s.metrics != nil {
			s.metrics.ObserveWithdrawal(amount)
		}
		s.refreshGauges()
		return result{amount: amount}
	case actionClean:
		s.machine.Clean()
		s.logger.Info("machine cleaned")
		if s.metrics != nil {
			s.metrics.ObserveCleaning()
		}
		s.refreshGauges()
		return result{}
	case actionStatus:
		return result{status: s.machine.Status()}
	case actionMaxCups:
		return result{amount: s.machine.MaxCupsFor(cmd.recipe)}
	case actionSales:
		return result{entries: s.journal.List(), summary: s.journal.Summary()}
	default:
		return result{err: errors.New("unknown machine action")}
	}
}

func (s *Service) buy(r recipe.Recipe) result {
	outcome, err := s.machine.Sell(r)
	if err != nil {
		s.logger.Warn("sale refused", zap.String("recipe", r.Name), zap.Error(err))
		return result{err: err}
	}

	entry := journal.Entry{Recipe: r.Name, Outcome: outcome.Kind.String(), Price: r.Price}
	fields := []zap.Field{zap.String("recipe", r.Name), zap.String("outcome", outcome.Kind.String())}
	if outcome.Kind == Rejected {
		entry.Missing = outcome.Missing.String()
		fields = append(fields, zap.String("missing", entry.Missing))
	}
	s.journal.Record(entry)
	s.logger.Info("sale attempt", fields...)

	if s.metrics != nil {
		s.metrics.ObserveSale(r.Name, outcome.Kind.String())
	}
	s.refreshGauges()
	return result{outcome: outcome}
}

func (s *Service) refreshGauges() {
	if s.metrics == nil {
		return
	}
	st := s.machine.Status()
	s.metrics.SetState(st.Levels, st.Balance, st.CoffeesSinceClean)
}

// do hands cmd to the loop and waits for its result.
func (s *Service) do(ctx context.Context, cmd command) (result, error) {
	cmd.reply = make(chan result, 1)

	select {
	case <-s.quit:
		return result{}, ErrClosed
	default:
	}

	select {
	case s.commands <- cmd:
	case <-s.quit:
		return result{}, ErrClosed
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-time.After(s.timeout):
		return result{}, ErrBusy
	}

	select {
	case res := <-cmd.reply:
		return res, res.err
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-time.After(s.timeout):
		return result{}, ErrBusy
	}
}

// Buy runs one sale attempt. ErrBusy or a context error after the loop has
// taken the command does not undo it: the sale may still have been made, so
// callers should check Remaining or Sales before retrying.
func (s *Service) Buy(ctx context.Context, r recipe.Recipe) (Outcome, error) {
	res, err := s.do(ctx, command{action: actionBuy, recipe: r})
	return res.outcome, err
}

// Fill replenishes stock and returns the new status.
func (s *Service) Fill(ctx context.Context, add supply.Levels) (Status, error) {
	res, err := s.do(ctx, command{action: actionFill, fill: add})
	return res.status, err
}

// Take withdraws all money.
func (s *Service) Take(ctx context.Context) (int, error) {
	res, err := s.do(ctx, command{action: actionTake})
	return res.amount, err
}

// Clean resets the cleaning counter.
func (s *Service) Clean(ctx context.Context) error {
	_, err := s.do(ctx, command{action: actionClean})
	return err
}

// Remaining returns the current machine status without changing it.
func (s *Service) Remaining(ctx context.Context) (Status, error) {
	res, err := s.do(ctx, command{action: actionStatus})
	return res.status, err
}

// MaxCups reports how many drinks of r the current stock allows.
func (s *Service) MaxCups(ctx context.Context, r recipe.Recipe) (int, error) {
	res, err := s.do(ctx, command{action: actionMaxCups, recipe: r})
	return res.amount, err
}

// Sales returns the journal, newest first, with totals.
func (s *Service) Sales(ctx context.Context) ([]journal.Entry, journal.Summary, error) {
	res, err := s.do(ctx, command{action: actionSales})
	return res.entries, res.summary, err
}

// Close stops the loop goroutine. It is safe to call more than once.
func (s *Service) Close() {
	s.once.Do(func() { close(s.quit) })
}
