package desktop

import (
	"time"

	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/config"
	"github.com/1broseidon/glassdesk/internal/credential"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/session"
)

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc is the default.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Recorder observes engine activity. Metrics hosts implement it.
type Recorder interface {
	DragStarted(class string)
	DropAccepted(appID string)
	DropRejected(reason string)
	LoginSubmitted(ok bool)
	PasswordGenerated()
	CanvasResized(size geometry.Size)
}

type nopRecorder struct{}

func (nopRecorder) DragStarted(string) {}
func (nopRecorder) DropAccepted(string) {}
func (nopRecorder) DropRejected(string) {}
func (nopRecorder) LoginSubmitted(bool) {}
func (nopRecorder) PasswordGenerated() {}
func (nopRecorder) CanvasResized(geometry.Size) {}

// Options configures a Desktop. Zero values fall back to the defaults of
// config.DefaultConfig.
type Options struct {
	Catalog   *catalog.Catalog
	Generator session.Generator

	// Canvas is the initial canvas size and Origin its top-left corner in
	// client coordinates.
	Canvas geometry.Size
	Origin geometry.Point
	Icon   geometry.Footprint
	Finder Chrome
	Login  Chrome

	ToastDuration  time.Duration
	TypingInterval time.Duration

	Scheduler Scheduler
	Recorder  Recorder
	// Salt returns the time-ordered part of new icon ids.
	Salt func() string
}

// OptionsFromConfig maps the effective config onto engine options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	cat, err := cfg.Catalog()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Catalog:        cat,
		Generator:      credential.NewGenerator(nil),
		Canvas:         cfg.CanvasSize(),
		Icon:           cfg.Icon,
		Finder:         chromeFromConfig(cfg.Windows.Finder),
		Login:          chromeFromConfig(cfg.Windows.Login),
		ToastDuration:  cfg.Timers.Toast(),
		TypingInterval: cfg.Timers.Typing(),
	}, nil
}

func chromeFromConfig(w config.WindowConfig) Chrome {
	return Chrome{
		Size:     geometry.Size{Width: w.Width, Height: w.Height},
		TitleBar: w.TitleBar,
		Controls: w.Controls,
	}
}

func (o Options) withDefaults() Options {
	def := config.DefaultConfig()
	if o.Catalog == nil {
		o.Catalog = catalog.Builtin()
	}
	if o.Generator == nil {
		o.Generator = credential.NewGenerator(nil)
	}
	if o.Icon == (geometry.Footprint{}) {
		o.Icon = def.Icon
	}
	if o.Finder == (Chrome{}) {
		o.Finder = chromeFromConfig(def.Windows.Finder)
	}
	if o.Login == (Chrome{}) {
		o.Login = chromeFromConfig(def.Windows.Login)
	}
	if o.ToastDuration <= 0 {
		o.ToastDuration = def.Timers.Toast()
	}
	if o.TypingInterval <= 0 {
		o.TypingInterval = def.Timers.Typing()
	}
	if o.Scheduler == nil {
		o.Scheduler = realScheduler
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	if o.Salt == nil {
		o.Salt = uuidSalt
	}
	return o
}
