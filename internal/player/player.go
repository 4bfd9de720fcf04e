// Package player composes the vocabulary loader, the transform engine and
// the playback scheduler into the flashcard session the shells render.
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashreel/internal/playback"
	"codeberg.org/snonux/flashreel/internal/settings"
	"codeberg.org/snonux/flashreel/internal/transform"
	"codeberg.org/snonux/flashreel/internal/vocab"
)

// WrapMessage is announced when playback returns to the first card
const WrapMessage = "Completed all flashcards! Starting over..."

// Config holds player dependencies. Only Store is required.
type Config struct {
	Store    *settings.Store
	Loader   *vocab.Loader
	Engine   *transform.Engine
	Clock    playback.Clock
	Notifier Notifier
	Logger   *zap.Logger
}

// Player is a flashcard session
type Player struct {
	store     *settings.Store
	loader    *vocab.Loader
	engine    *transform.Engine
	scheduler *playback.Scheduler
	notifier  Notifier
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	entries     []vocab.Entry
	lastSeq     uint64
	subscribers []func(Frame)
	listeners   []func(Notice)
	closed      bool

	// reloading hides the stopped state between Stop and Start of a load
	reloading bool
}

// New creates a player. Nothing plays until Load succeeds.
func New(config *Config) *Player {
	if config == nil || config.Store == nil {
		panic("player: Config.Store is required")
	}

	p := &Player{
		store:    config.Store,
		loader:   config.Loader,
		engine:   config.Engine,
		notifier: config.Notifier,
		logger:   config.Logger,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.loader == nil {
		cfg := vocab.DefaultConfig()
		cfg.Logger = p.logger
		p.loader = vocab.NewLoader(cfg)
	}
	if p.engine == nil {
		p.engine = transform.NewEngine(&transform.Config{Logger: p.logger})
	}
	if p.notifier == nil {
		p.notifier = nopNotifier{}
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.scheduler = playback.NewScheduler(config.Clock, func() (word, both time.Duration) {
		s := p.store.Get()
		return s.WordDuration(), s.BothDuration()
	})
	p.scheduler.OnChange(p.onTransition)
	p.store.Subscribe(p.onSettingsChange)

	return p
}

// Engine returns the transform engine used for cards
func (p *Player) Engine() *transform.Engine {
	return p.engine
}

// Store returns the settings store
func (p *Player) Store() *settings.Store {
	return p.store
}

// Subscribe registers fn to receive a frame after every transition and
// after transform changes. fn must not block.
func (p *Player) Subscribe(fn func(Frame)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// OnNotice registers fn to receive notices in addition to the configured
// Notifier. fn must not block.
func (p *Player) OnNotice(fn func(Notice)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Load fetches the configured vocabulary and restarts playback from the
// first card. On failure the current session keeps playing.
func (p *Player) Load(ctx context.Context) error {
	url := p.store.Get().VocabularyURL

	entries, err := p.loader.Load(ctx, url)
	if err != nil {
		p.notify(Notice{Level: LevelError, Message: "Failed to load vocabulary", Err: err})
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("player is closed")
	}
	p.reloading = true
	p.mu.Unlock()

	// Pending timers of the old sequence are cancelled before the new
	// entries are installed
	p.scheduler.Stop()

	p.mu.Lock()
	p.entries = entries
	p.reloading = false
	p.mu.Unlock()

	p.logger.Info("Vocabulary loaded",
		zap.String("url", url),
		zap.Int("entries", len(entries)),
	)
	p.notify(Notice{Level: LevelInfo, Message: fmt.Sprintf("Loaded %d flashcards", len(entries))})

	p.scheduler.Start(len(entries))
	return nil
}

// Entries returns the loaded entries
func (p *Player) Entries() []vocab.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]vocab.Entry{}, p.entries...)
}

// Frame renders the current card. ok is false while stopped.
func (p *Player) Frame(ctx context.Context) (Frame, bool) {
	frame := p.render(ctx, p.scheduler.State())
	return frame, frame.Running
}

// Close stops playback. The player cannot be reloaded afterwards.
func (p *Player) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.scheduler.Stop()
	p.cancel()
}

func (p *Player) render(ctx context.Context, state playback.State) Frame {
	frame := Frame{
		Phase:         state.Phase,
		Index:         state.Index,
		Total:         state.Total,
		Running:       state.Running,
		PhaseStarted:  state.PhaseStarted,
		PhaseDuration: state.PhaseDuration,
		seq:           state.Seq,
	}
	if !state.Running {
		return frame
	}

	p.mu.Lock()
	var entry vocab.Entry
	inRange := state.Index < len(p.entries) && state.Total == len(p.entries)
	if inRange {
		entry = p.entries[state.Index]
	}
	p.mu.Unlock()

	if !inRange {
		// State of a sequence that was replaced
		frame.Running = false
		return frame
	}

	s := p.store.Get()
	result := p.engine.Apply(ctx, entry, s.SwapWordTranslation, s.TransformSource)
	frame.Pair = result.Pair
	frame.TransformErr = result.Err
	return frame
}

func (p *Player) onTransition(state playback.State) {
	if !state.Running {
		p.mu.Lock()
		reloading := p.reloading
		p.mu.Unlock()
		if reloading {
			return
		}
	}
	if state.Running && state.Wrapped {
		p.notify(Notice{Level: LevelInfo, Message: WrapMessage})
	}
	p.publish(p.render(p.ctx, state))
}

func (p *Player) onSettingsChange(old, new settings.Settings) {
	if old.TransformSource == new.TransformSource && old.SwapWordTranslation == new.SwapWordTranslation {
		return
	}

	state := p.scheduler.State()
	if !state.Running {
		return
	}
	p.publish(p.render(p.ctx, state))
}

// publish drops frames older than the last one delivered
func (p *Player) publish(frame Frame) {
	p.mu.Lock()
	if frame.seq < p.lastSeq {
		p.mu.Unlock()
		return
	}
	p.lastSeq = frame.seq
	subscribers := append([]func(Frame){}, p.subscribers...)
	p.mu.Unlock()

	for _, fn := range subscribers {
		fn(frame)
	}
}

func (p *Player) notify(n Notice) {
	if n.Level == LevelError {
		p.logger.Error(n.Message, zap.Error(n.Err))
	}
	p.notifier.Notify(n)

	p.mu.Lock()
	listeners := append([]func(Notice){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(n)
	}
}
