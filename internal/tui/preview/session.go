package preview

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	appearanceapp "github.com/alexisbeaulieu97/conservancy/internal/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/dom"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/storage"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Options configures a preview session.
type Options struct {
	// StoragePath backs the persisted client storage. Empty, or a path that
	// cannot be opened, runs the session with storage disabled.
	StoragePath string
	// PrefersDark seeds the simulated OS preference.
	PrefersDark bool
	// Fallback plays the role of the server-rendered state.
	Fallback appearance.State
	Logger   ports.Logger
	Input    io.Reader
	Output   io.Writer
	// AltScreen runs the program in the terminal's alternate screen.
	AltScreen bool
	// Events receives a change event whenever a manager applies a new value.
	// Defaults to a publisher that logs through Logger.
	Events ports.EventPublisher
}

// Session is a hydrated browser-environment appearance Context together with
// the surfaces it writes to.
type Session struct {
	Factory  *appearanceapp.Factory
	Context  *appearanceapp.Context
	Document *dom.Document
	Media    *dom.MediaQuery
	Storage  ports.Storage

	unsubscribe []func()
}

// NewSession hydrates the shared Context against file storage, an in-memory
// document and a simulated colour-scheme source.
func NewSession(ctx context.Context, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	logger = logger.With("component", "preview")

	var store ports.Storage = storage.Disabled{}
	if opts.StoragePath != "" {
		file, err := storage.NewFile(opts.StoragePath)
		if err != nil {
			logger.Warn(ctx, "client storage unavailable, continuing without it", "path", opts.StoragePath, "error", err)
		} else {
			store = file
		}
	}

	doc := dom.NewDocument()
	media := dom.NewMediaQuery(opts.PrefersDark)
	factory := appearanceapp.NewFactory(appearanceapp.Browser, appearanceapp.Dependencies{
		Storage:  store,
		Document: doc,
		Cookies:  doc,
		Media:    media,
		Logger:   logger,
	})

	publisher := opts.Events
	if publisher == nil {
		publisher = events.NewLoggingPublisher(logger)
	}

	actx := factory.Context(opts.Fallback)
	session := &Session{
		Factory:  factory,
		Context:  actx,
		Document: doc,
		Media:    media,
		Storage:  store,
	}
	session.unsubscribe = append(session.unsubscribe,
		actx.Theme.Subscribe(func(mode appearance.ThemeMode, resolved appearance.ResolvedTheme) {
			_ = publisher.Publish(ctx, events.ThemeChanged(mode, resolved, events.SourcePreview))
		}),
		actx.Palette.Subscribe(func(palette appearance.PaletteMode) {
			_ = publisher.Publish(ctx, events.PaletteChanged(palette, events.SourcePreview))
		}),
	)
	return session
}

// Close stops publishing change events and releases the shared Context.
func (s *Session) Close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.Factory.Close()
}

// Run starts the interactive preview and blocks until the user quits or ctx
// is cancelled. It returns the final appearance state.
func Run(ctx context.Context, opts Options) (appearance.State, error) {
	session := NewSession(ctx, opts)
	defer session.Close()

	model := NewModel(session.Context, session.Document, session.Media)
	defer model.Close()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(model, programOpts...).Run(); err != nil {
		return session.Context.State(), fmt.Errorf("run preview: %w", err)
	}
	return session.Context.State(), nil
}
