package gui

import (
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/orrery"
)

const starSpread = 2000.0

type App struct {
	ctrl   *orrery.Controller
	camera rl.Camera3D
	font   rl.Font
	stars  []rl.Vector3
	panel  *Panel

	hovered   orrery.CelestialBody
	isHovered bool
	quit      bool
	log       *slog.Logger
}

// initWindow opens a resizable window and disables the default exit key.
func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	rl.SetTargetFPS(int32(cfg.Window.FPS))
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the controller with the app as its renderer. The window
// must already be open.
func NewApp(cfg *config.Config, seed int64, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	app := &App{
		font:  loadFont(),
		stars: makeStars(cfg.Stars, seed),
		panel: NewPanel(orrery.Catalog()),
		log:   log,
	}

	opts := append(cfg.ControllerOptions(), orrery.WithLogger(log))
	app.ctrl = orrery.New(app, &RayPicker{}, opts...)
	if err := cfg.Apply(app.ctrl); err != nil {
		return nil, err
	}
	if err := app.ctrl.Resize(rl.GetScreenWidth(), rl.GetScreenHeight()); err != nil {
		log.Debug("initial resize skipped", "err", err)
	}
	app.syncCamera(app.ctrl.Camera())
	return app, nil
}

// makeStars scatters n points uniformly in a cube of side starSpread
// centered on the sun.
func makeStars(n int, seed int64) []rl.Vector3 {
	rng := rand.New(rand.NewSource(seed))
	stars := make([]rl.Vector3, n)
	for i := range stars {
		stars[i] = rl.NewVector3(
			float32((rng.Float64()-0.5)*starSpread),
			float32((rng.Float64()-0.5)*starSpread),
			float32((rng.Float64()-0.5)*starSpread),
		)
	}
	return stars
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(cfg *config.Config, seed int64, log *slog.Logger) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, seed, log)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

// RunLoop handles input and then ticks the controller, which calls Render
// exactly once per iteration.
func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.ctrl.Tick(float64(rl.GetFrameTime()))
	}
}

func (a *App) Controller() *orrery.Controller { return a.ctrl }

// Update applies this frame's input to the controller.
func (a *App) Update() {
	if rl.IsWindowResized() {
		if err := a.ctrl.Resize(rl.GetScreenWidth(), rl.GetScreenHeight()); err != nil {
			a.log.Debug("resize skipped", "err", err)
		}
	}

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
		return
	case rl.IsKeyPressed(rl.KeySpace):
		a.ctrl.TogglePause()
	case rl.IsKeyPressed(rl.KeyT):
		a.ctrl.ToggleTheme()
	case rl.IsKeyPressed(rl.KeyTab):
		a.panel.Collapsed = !a.panel.Collapsed
	}

	mouse := rl.GetMousePosition()
	if a.panel.Update(a.ctrl, mouse) {
		a.setHover(orrery.CelestialBody{}, false)
		return
	}

	body, ok := a.ctrl.Pick(float64(mouse.X), float64(mouse.Y))
	a.setHover(body, ok)
	if ok && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		if err := a.ctrl.FocusOn(body.ID); err != nil {
			a.log.Warn("focus failed", "body", body.ID, "err", err)
		}
	}
}

func (a *App) setHover(b orrery.CelestialBody, ok bool) {
	if ok != a.isHovered {
		if ok {
			rl.SetMouseCursor(rl.MouseCursorPointingHand)
		} else {
			rl.SetMouseCursor(rl.MouseCursorDefault)
		}
	}
	a.hovered, a.isHovered = b, ok
}
