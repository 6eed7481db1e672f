package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/internal/game"
)

var (
	// ErrCanceled is returned by PlayTurn when Cancel aborted a pending
	// decision.
	ErrCanceled = errors.New("bot: turn canceled")

	// ErrBusy is returned when the presentation stays busy for longer than
	// the processor is willing to keep skipping.
	ErrBusy = errors.New("bot: presentation stayed busy")
)

// DefaultMaxSkips bounds consecutive Skip decisions in one turn.
const DefaultMaxSkips = 50

// Presentation reports transient UI state that makes a bot hold off.
type Presentation interface {
	Typing() bool
	Animating() bool
}

type idle struct{}

func (idle) Typing() bool    { return false }
func (idle) Animating() bool { return false }

// Processor plays bot turns of one game. It executes queued decisions one
// at a time, waiting each decision's delay on its clock, and drops the rest
// of the queue as soon as the turn it was planned for is over.
//
// The game is mutated from the goroutine calling PlayTurn. Callers that
// share the game with other writers must serialize around PlayTurn.
type Processor struct {
	game      *game.Game
	service   *Service
	queue     Queue
	clock     quartz.Clock
	ui        Presentation
	observers []Observer
	maxSkips  int
	logger    zerolog.Logger
	actor     *game.Player

	mu         sync.Mutex
	canceled   bool
	cancelWait context.CancelFunc
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithClock sets the clock used for delays.
func WithClock(c quartz.Clock) ProcessorOption {
	return func(p *Processor) { p.clock = c }
}

// WithPresentation sets the source of UI busy flags.
func WithPresentation(ui Presentation) ProcessorOption {
	return func(p *Processor) { p.ui = ui }
}

// WithObserver adds an observer.
func WithObserver(o Observer) ProcessorOption {
	return func(p *Processor) { p.observers = append(p.observers, o) }
}

// WithMaxSkips bounds consecutive Skip decisions per turn.
func WithMaxSkips(n int) ProcessorOption {
	return func(p *Processor) { p.maxSkips = n }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = logger.With().Str("component", "bot").Logger() }
}

// NewProcessor returns a processor for g.
func NewProcessor(g *game.Game, service *Service, opts ...ProcessorOption) *Processor {
	p := &Processor{
		game:     g,
		service:  service,
		clock:    quartz.NewReal(),
		ui:       idle{},
		maxSkips: DefaultMaxSkips,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.service == nil {
		p.service = NewService(DefaultDelays())
	}
	return p
}

// Game returns the game being played.
func (p *Processor) Game() *game.Game { return p.game }

// Queue exposes the pending decisions.
func (p *Processor) Queue() *Queue { return &p.queue }

// Cancel aborts the pending wait, if any, and makes the running turn drop
// its remaining decisions. It is safe to call from any goroutine.
func (p *Processor) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.canceled = true
	if p.cancelWait != nil {
		p.cancelWait()
	}
}

// turn identifies the turn a plan was made for.
type turn struct {
	player int
	round  int
}

func (p *Processor) current() turn {
	return turn{player: p.game.CurrentIndex(), round: p.game.Round()}
}

// valid reports whether decisions planned for t may still run.
func (p *Processor) valid(t turn) bool {
	if p.game.Finished() || p.current() != t {
		return false
	}
	cur := p.game.Current()
	return cur.IsBot() && !cur.Bankrupt
}

// PlayTurn plays the current player's turn if it is a bot. It returns nil
// once the turn is over or the plan went stale, ErrCanceled after Cancel,
// and the context error if ctx ends first.
func (p *Processor) PlayTurn(ctx context.Context) error {
	p.mu.Lock()
	p.canceled = false
	p.mu.Unlock()

	t := p.current()
	if !p.valid(t) {
		return nil
	}
	player := p.game.Current()
	p.actor = player
	rolled := false
	skips := 0

	p.push(p.service.EvaluateTurnStart(p.context(player, rolled, false)))

	for {
		d, ok := p.queue.Pop()
		if !ok {
			break
		}
		if p.isCanceled() {
			p.drop(d)
			return ErrCanceled
		}
		if !p.valid(t) {
			p.drop(d)
			break
		}

		if err := p.wait(ctx, d.Delay, d.Cancelable, &d); err != nil {
			p.drop(d)
			return err
		}
		if !p.valid(t) {
			p.drop(d)
			break
		}

		switch d.Type {
		case Roll:
			d1, d2, total := p.game.RollDice()
			res := p.game.MoveCurrentPlayer(total)
			rolled = true
			p.emit(Event{Kind: EventExecuted, Decision: &d, OK: true})
			p.emit(Event{Kind: EventMoved, Dice: [2]int{d1, d2}, Move: &res})

			if !p.valid(t) {
				break
			}
			if err := p.wait(ctx, p.service.Delays.Thinking, true, nil); err != nil {
				return err
			}
			c := p.context(player, rolled, true)
			c.Block = p.game.BlockUnder(player)
			p.push(p.service.EvaluateModal(c)...)

		case Buy:
			ok := p.game.TryBuyProperty(player, p.game.Block(d.Target))
			p.emit(Event{Kind: EventExecuted, Decision: &d, OK: ok})
			p.push(simple(EndTurn, "done after purchase", PriorityEndTurnAfter, p.service.Delays.ModalEndTurn))

		case Upgrade:
			ok := p.game.Upgrade(player, p.game.Block(d.Target))
			p.emit(Event{Kind: EventExecuted, Decision: &d, OK: ok})

		case EndTurn:
			p.emit(Event{Kind: EventExecuted, Decision: &d, OK: true})
			p.game.NextTurn()
			p.emit(Event{Kind: EventTurnEnded})

		case Skip:
			skips++
			p.emit(Event{Kind: EventExecuted, Decision: &d, OK: true})
			if p.maxSkips > 0 && skips >= p.maxSkips {
				p.dropAll()
				return ErrBusy
			}
			p.push(p.service.EvaluateTurnStart(p.context(player, rolled, false)))

		case None:
			p.emit(Event{Kind: EventExecuted, Decision: &d})
		}
	}

	p.dropAll()
	if p.game.Finished() {
		ev := Event{Kind: EventFinished}
		if w := p.game.Winner(); w != nil {
			ev.Winner = w.Name
		}
		p.emit(ev)
	}
	return nil
}

func (p *Processor) context(player *game.Player, rolled, fromMove bool) Context {
	return Context{
		Game:      p.game,
		Player:    player,
		HasRolled: rolled,
		Typing:    p.ui.Typing(),
		Animating: p.ui.Animating(),
		FromMove:  fromMove,
	}
}

func (p *Processor) push(ds ...Decision) {
	for _, d := range ds {
		if p.queue.Push(d) == 1 {
			p.emit(Event{Kind: EventQueued, Decision: &d})
		}
	}
}

func (p *Processor) drop(d Decision) {
	p.emit(Event{Kind: EventDropped, Decision: &d})
	p.dropAll()
}

func (p *Processor) dropAll() {
	for _, d := range p.queue.Clear() {
		p.emit(Event{Kind: EventDropped, Decision: &d})
	}
}

func (p *Processor) isCanceled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canceled
}

// wait sleeps for delay on the processor clock. Cancel only interrupts
// cancelable waits; ctx interrupts all of them.
func (p *Processor) wait(ctx context.Context, delay time.Duration, cancelable bool, d *Decision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if delay <= 0 {
		return nil
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cancelable {
		p.mu.Lock()
		if p.canceled {
			p.mu.Unlock()
			return ErrCanceled
		}
		p.cancelWait = cancel
		p.mu.Unlock()
		defer func() {
			p.mu.Lock()
			p.cancelWait = nil
			p.mu.Unlock()
		}()
	}

	fired := make(chan struct{})
	timer := p.clock.AfterFunc(delay, func() { close(fired) })
	defer timer.Stop()

	p.emit(Event{Kind: EventWaiting, Decision: d})

	select {
	case <-fired:
		return nil
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrCanceled
	}
}

func (p *Processor) emit(e Event) {
	actor := p.actor
	if actor == nil {
		actor = p.game.Current()
	}
	e.Player = actor.Index
	e.PlayerName = actor.Name
	e.Round = p.game.Round()

	ev := p.logger.Debug().Stringer("event", e.Kind).Str("player", e.PlayerName)
	if e.Decision != nil {
		ev = ev.Stringer("decision", e.Decision.Type).Int("priority", e.Decision.Priority)
	}
	ev.Msg("bot event")

	for _, o := range p.observers {
		o.Observe(e)
	}
}
