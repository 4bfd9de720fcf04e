package gui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/flashreel/internal"
	"codeberg.org/snonux/flashreel/internal/player"
	"codeberg.org/snonux/flashreel/internal/settings"
)

const progressInterval = 100 * time.Millisecond

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	card          *CardDisplay
	positionLabel *widget.Label
	phaseBar      *widget.ProgressBar
	statusLabel   *widget.Label
	logViewer     *LogViewer
	logPanel      fyne.CanvasObject

	// Toolbar buttons
	reloadBtn   *ttwidget.Button
	swapBtn     *ttwidget.Button
	settingsBtn *ttwidget.Button
	editorBtn   *ttwidget.Button
	logBtn      *ttwidget.Button
	helpBtn     *ttwidget.Button

	// Session
	player *player.Player
	store  *settings.Store
	logger *zap.Logger
	config *Config

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	frame player.Frame

	// Only touched on the main thread
	activePanel dialog.Dialog
}

// Config holds GUI application configuration
type Config struct {
	Player    *player.Player
	LogBuffer *LogBuffer
	Logger    *zap.Logger

	// AutoLoad loads the configured vocabulary on start
	AutoLoad bool
}

// New creates a new GUI application
func New(config *Config) *Application {
	if config == nil || config.Player == nil {
		panic("gui: Config.Player is required")
	}
	if config.LogBuffer == nil {
		config.LogBuffer = NewLogBuffer(0)
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("org.codeberg.snonux.flashreel")
	myApp.SetIcon(GetAppIcon())

	a := &Application{
		app:    myApp,
		player: config.Player,
		store:  config.Player.Store(),
		logger: config.Logger,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	a.setupUI()

	a.player.Subscribe(a.onFrame)
	a.player.OnNotice(a.onNotice)

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("flashreel v%s", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(900, 640))

	a.card = NewCardDisplay()

	a.positionLabel = widget.NewLabel("0 / 0")
	a.phaseBar = widget.NewProgressBar()
	a.phaseBar.TextFormatter = func() string { return "" }

	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.Wrapping = fyne.TextWrapWord

	a.reloadBtn = ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.onReload)
	a.swapBtn = ttwidget.NewButtonWithIcon("", theme.MediaReplayIcon(), a.onToggleSwap)
	a.settingsBtn = ttwidget.NewButtonWithIcon("", theme.SettingsIcon(), a.onShowSettings)
	a.editorBtn = ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.onShowEditor)
	a.logBtn = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.onToggleLog)
	a.helpBtn = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)
	a.setupTooltips()

	toolbar := container.NewHBox(
		a.reloadBtn,
		a.swapBtn,
		layout.NewSpacer(),
		a.positionLabel,
		layout.NewSpacer(),
		a.settingsBtn,
		a.editorBtn,
		a.logBtn,
		a.helpBtn,
	)

	a.logViewer = NewLogViewer(a.config.LogBuffer)
	a.logPanel = a.logViewer
	a.logPanel.Hide()

	bottom := container.NewVBox(
		a.phaseBar,
		a.statusLabel,
		a.logPanel,
	)

	content := container.NewBorder(toolbar, bottom, nil, nil, a.card)
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.setupKeyboardShortcuts()
}

func (a *Application) setupTooltips() {
	a.reloadBtn.SetToolTip("Reload vocabulary (r)")
	a.swapBtn.SetToolTip("Swap word and translation (w)")
	a.settingsBtn.SetToolTip("Settings (s)")
	a.editorBtn.SetToolTip("Transform editor (e)")
	a.logBtn.SetToolTip("Show log (l)")
	a.helpBtn.SetToolTip("Keyboard shortcuts (h)")
}

// Run shows the window and blocks until it is closed
func (a *Application) Run() {
	a.app.Lifecycle().SetOnStarted(func() {
		a.startProgressTicker()
		if a.config.AutoLoad {
			a.onReload()
		}
	})

	a.window.ShowAndRun()
	a.shutdown()
}

func (a *Application) shutdown() {
	a.cancel()
	a.wg.Wait()
	a.player.Close()
}

// startProgressTicker animates the phase bar
func (a *Application) startProgressTicker() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-a.ctx.Done():
				return
			case <-ticker.C:
				fyne.Do(a.updateProgress)
			}
		}
	}()
}

func (a *Application) updateProgress() {
	a.mu.Lock()
	frame := a.frame
	a.mu.Unlock()

	if !frame.Running {
		a.phaseBar.SetValue(0)
		return
	}
	a.phaseBar.SetValue(frame.Progress(time.Now()))
}

func (a *Application) onFrame(frame player.Frame) {
	a.mu.Lock()
	a.frame = frame
	a.mu.Unlock()

	fyne.Do(func() {
		a.card.SetFrame(frame)

		current, total := frame.Position()
		a.positionLabel.SetText(fmt.Sprintf("%d / %d", current, total))

		if frame.TransformErr != nil {
			a.statusLabel.Importance = widget.DangerImportance
			a.statusLabel.SetText(fmt.Sprintf("Transform failed, showing original: %v", frame.TransformErr))
		}
		a.updateProgress()
	})
}

func (a *Application) onNotice(n player.Notice) {
	fyne.Do(func() {
		a.statusLabel.Importance = widget.MediumImportance
		if n.Level == player.LevelError {
			a.statusLabel.Importance = widget.DangerImportance
		}
		a.statusLabel.SetText(n.String())
	})
}

func (a *Application) onReload() {
	a.statusLabel.Importance = widget.MediumImportance
	a.statusLabel.SetText("Loading vocabulary...")
	go a.load()
}

// load must not run on the main thread
func (a *Application) load() {
	if err := a.player.Load(a.ctx); err != nil {
		a.logger.Debug("Load failed", zap.Error(err))
	}
}

func (a *Application) onToggleSwap() {
	go a.store.Update(func(s *settings.Settings) {
		s.SwapWordTranslation = !s.SwapWordTranslation
	})
}

func (a *Application) onToggleLog() {
	if a.logPanel.Visible() {
		a.logPanel.Hide()
		a.logBtn.SetToolTip("Show log (l)")
	} else {
		a.logPanel.Show()
		a.logBtn.SetToolTip("Hide log (l)")
	}
}

func (a *Application) openPanel(d dialog.Dialog) {
	a.closePanel()
	a.activePanel = d
	d.SetOnClosed(func() {
		if a.activePanel == d {
			a.activePanel = nil
		}
	})
	d.Show()
}

func (a *Application) closePanel() {
	if a.activePanel == nil {
		return
	}
	d := a.activePanel
	a.activePanel = nil
	d.Hide()
}

func (a *Application) panelOpen() bool {
	return a.activePanel != nil
}
