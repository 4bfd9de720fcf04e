package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/flashreel/internal/cli"
	"codeberg.org/snonux/flashreel/internal/gui"
	"codeberg.org/snonux/flashreel/internal/playback"
	"codeberg.org/snonux/flashreel/internal/player"
	"codeberg.org/snonux/flashreel/internal/settings"
	"codeberg.org/snonux/flashreel/internal/transform"
	"codeberg.org/snonux/flashreel/internal/transform/lib"
	"codeberg.org/snonux/flashreel/internal/tui"
	"codeberg.org/snonux/flashreel/internal/vocab"
)

// Config holds processor configuration
type Config struct {
	Flags *cli.Flags
	Args  []string

	// Out receives headless frames and transform test output
	Out io.Writer

	// Clock drives playback; nil uses the wall clock
	Clock playback.Clock

	// LogSinks replace the default log destination
	LogSinks []zapcore.WriteSyncer
}

// Processor wires the player for the selected run mode
type Processor struct {
	flags     *cli.Flags
	mode      string
	out       io.Writer
	logger    *zap.Logger
	logBuffer *gui.LogBuffer
	logFile   *os.File

	store   *settings.Store
	engine  *transform.Engine
	player  *player.Player
	watcher *settings.Watcher
}

// NewProcessor reads the configuration and builds the player
func NewProcessor(config *Config) (*Processor, error) {
	if config == nil || config.Flags == nil {
		return nil, fmt.Errorf("processor: flags are required")
	}

	mode, err := cli.Mode()
	if err != nil {
		return nil, err
	}

	initial, err := cli.LoadSettings(config.Args)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		flags: config.Flags,
		mode:  mode,
		out:   config.Out,
		store: settings.NewStore(initial),
	}
	if p.out == nil {
		p.out = os.Stdout
	}

	if err := p.setupLogger(config.LogSinks); err != nil {
		return nil, err
	}

	p.engine = transform.NewEngine(&transform.Config{
		Libraries: lib.All(),
		Timeout:   cli.TransformTimeout(),
		Logger:    p.logger.Named("transform"),
	})

	loaderConfig := vocab.DefaultConfig()
	loaderConfig.Logger = p.logger.Named("vocab")

	p.player = player.New(&player.Config{
		Store:    p.store,
		Loader:   vocab.NewLoader(loaderConfig),
		Engine:   p.engine,
		Clock:    config.Clock,
		Notifier: player.NotifierFunc(p.logNotice),
		Logger:   p.logger.Named("player"),
	})

	return p, nil
}

func (p *Processor) setupLogger(sinks []zapcore.WriteSyncer) error {
	verbose := cli.Verbose()

	switch {
	case len(sinks) > 0:
		p.logger = cli.NewLogger(verbose, sinks...)

	case p.mode == cli.ModeGUI && !p.flags.TestTransform:
		p.logBuffer = gui.NewLogBuffer(0)
		p.logger = cli.NewLogger(verbose, zapcore.Lock(os.Stderr), p.logBuffer)

	case p.mode == cli.ModeTUI && !p.flags.TestTransform:
		// The terminal belongs to the UI; logs go to a file when verbose
		if !verbose {
			p.logger = zap.NewNop()
			return nil
		}
		path := filepath.Join(os.TempDir(), "flashreel.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		p.logFile = f
		p.logger = cli.NewLogger(verbose, zapcore.AddSync(f))

	default:
		p.logger = cli.NewLogger(verbose)
	}
	return nil
}

// logNotice mirrors user notices into the log
func (p *Processor) logNotice(n player.Notice) {
	if n.Level == player.LevelInfo {
		p.logger.Info(n.Message)
	}
}

// Player returns the configured player
func (p *Processor) Player() *player.Player {
	return p.player
}

// Run executes the selected mode until it finishes or ctx is done
func (p *Processor) Run(ctx context.Context) error {
	if p.flags.TestTransform {
		return p.RunTransformTest(ctx)
	}

	if err := p.startWatcher(ctx); err != nil {
		return err
	}

	switch p.mode {
	case cli.ModeTUI:
		return p.RunTUIMode(ctx)
	case cli.ModeHeadless:
		return p.RunHeadless(ctx)
	default:
		return p.RunGUIMode()
	}
}

func (p *Processor) startWatcher(ctx context.Context) error {
	file := cli.TransformFile()
	if file == "" || !cli.WatchTransform() {
		return nil
	}

	w, err := settings.NewWatcher(file, p.store, p.logger.Named("watcher"))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	p.watcher = w
	return nil
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	app := gui.New(&gui.Config{
		Player:    p.player,
		LogBuffer: p.logBuffer,
		Logger:    p.logger.Named("gui"),
		AutoLoad:  p.store.Get().VocabularyURL != "",
	})
	app.Run()
	return nil
}

// RunTUIMode plays in the terminal
func (p *Processor) RunTUIMode(ctx context.Context) error {
	return tui.Run(ctx, p.player)
}

// RunHeadless prints one line per frame until MaxFrames frames were
// printed or ctx is done
func (p *Processor) RunHeadless(ctx context.Context) error {
	frames := make(chan player.Frame, 16)
	done := make(chan struct{})
	defer close(done)

	p.player.Subscribe(func(f player.Frame) {
		if !f.Running {
			return
		}
		select {
		case frames <- f:
		case <-done:
		}
	})

	if err := p.player.Load(ctx); err != nil {
		return err
	}

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-frames:
			fmt.Fprintln(p.out, f.String())
			if f.TransformErr != nil {
				fmt.Fprintf(p.out, "  transform failed: %v\n", f.TransformErr)
			}
			printed++
			if p.flags.MaxFrames > 0 && printed >= p.flags.MaxFrames {
				return nil
			}
		}
	}
}

// RunTransformTest runs the configured transform against the sample card
// and prints what it returned
func (p *Processor) RunTransformTest(ctx context.Context) error {
	source := p.store.Get().TransformSource
	result := p.engine.Test(ctx, source)

	sample := transform.SampleEntry
	fmt.Fprintf(p.out, "Input: word=%q translation=%q\n", sample.Word, sample.Translation)

	if result.Err != nil {
		fmt.Fprintf(p.out, "Error: %v\n", result.Err)
		fmt.Fprintf(p.out, "Fallback: %s\n", result.Pair)
		return result.Err
	}

	keys := make([]string, 0, len(result.Output))
	for k := range result.Output {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(p.out, "Output:")
	for _, k := range keys {
		fmt.Fprintf(p.out, "  %s: %v\n", k, result.Output[k])
	}
	fmt.Fprintf(p.out, "Displayed: %s\n", result.Pair)
	if result.Pair.HasWordHTML() {
		fmt.Fprintf(p.out, "Word HTML: %s\n", result.Pair.WordHTML)
	}
	if result.Pair.HasTranslationHTML() {
		fmt.Fprintf(p.out, "Translation HTML: %s\n", result.Pair.TranslationHTML)
	}
	return nil
}

// Close releases the watcher, the player and the logger
func (p *Processor) Close() {
	if p.watcher != nil {
		p.watcher.Stop()
		p.watcher = nil
	}
	p.player.Close()
	p.logger.Sync()
	if p.logFile != nil {
		p.logFile.Close()
		p.logFile = nil
	}
}
