package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/olivierh59500/holder-aquarium-go/holders"
	"github.com/olivierh59500/holder-aquarium-go/identity"
	"github.com/olivierh59500/holder-aquarium-go/logging"
	"github.com/olivierh59500/holder-aquarium-go/swarm"
	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// Viewer constants
const (
	TPS            = 60
	DT             = 1.0 / TPS
	RefreshTicks   = 30 * TPS // demo snapshot refresh, 30s
	WinnerTicks    = TPS * 5 / 2
	SurvivorRate   = 0.8 // share of holders kept across a refresh
	FishRadius     = 0.12
	MinZoom        = 0.1
	ViewMargin     = 1.15
	DefaultConfig  = "aquarium.json"
	ModeBowl       = "bowl"
	ModeTank       = "tank"
	LabelMaxFishes = 80
)

var (
	waterColor = colorful.Color{R: 0.012, G: 0.063, B: 0.094}
	glassColor = color.RGBA{120, 190, 220, 90}
)

// AquariumOptions configures NewAquarium
type AquariumOptions struct {
	Width, Height float64
	Mode          string
	Config        *swarm.Config // overrides Mode when set
	Wander        swarm.WanderKind
	ConfigPath    string
	NumHolders    int
	MinTokens     float64
	Seed          int64
	Logger        logging.Logger
}

// Aquarium is the ebiten game drawing the holder swarm
type Aquarium struct {
	Width, Height float64
	Mode          string
	Holders       []holders.Record
	Paused        bool
	ShowLabels    bool
	Zoom          float64
	CamX, CamY    float64 // camera pan in world units
	PrevMX        float64
	PrevMY        float64
	TickCount     int

	swarm       *swarm.Swarm
	cfg         swarm.Config
	snaps       []swarm.Snapshot
	winner      holders.Record
	winnerTicks int
	numHolders  int
	wander      swarm.WanderKind
	minTokens   float64
	configPath  string
	rng         *rand.Rand
	log         logging.Logger
}

// configForMode returns the preset for a viewer mode
func configForMode(mode string) (swarm.Config, error) {
	switch mode {
	case "":
		return swarm.DefaultConfig(), nil
	case ModeBowl:
		return swarm.BowlConfig(), nil
	case ModeTank:
		return swarm.TankConfig(), nil
	default:
		return swarm.Config{}, fmt.Errorf("unknown mode %q (want %s or %s)", mode, ModeBowl, ModeTank)
	}
}

func modeOf(cfg swarm.Config) string {
	if cfg.Bounds.Kind == swarm.BoundsBox {
		return ModeTank
	}
	return ModeBowl
}

// NewAquarium creates the viewer and populates it with a demo snapshot
func NewAquarium(opts AquariumOptions) (*Aquarium, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = DefaultConfig
	}

	var cfg swarm.Config
	if opts.Config != nil {
		cfg = *opts.Config
	} else {
		var err error
		if cfg, err = configForMode(opts.Mode); err != nil {
			return nil, err
		}
	}

	a := &Aquarium{
		Width:      opts.Width,
		Height:     opts.Height,
		ShowLabels: true,
		Zoom:       1.0,
		numHolders: opts.NumHolders,
		wander:     opts.Wander,
		minTokens:  opts.MinTokens,
		configPath: opts.ConfigPath,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		log:        opts.Logger,
	}
	if a.wander != "" {
		cfg = cfg.WithWander(a.wander)
	}
	if err := a.rebuild(cfg); err != nil {
		return nil, err
	}
	a.respawn()
	return a, nil
}

// rebuild swaps in a new swarm for cfg and re-seats the current holders in it
func (a *Aquarium) rebuild(cfg swarm.Config) error {
	s, err := swarm.New(cfg, swarm.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.swarm = s
	a.cfg = s.Config()
	a.Mode = modeOf(cfg)
	a.CamX, a.CamY = 0, 0
	if len(a.Holders) > 0 {
		a.reconcile()
	}
	a.log.Info("swarm ready", "mode", a.Mode, "wander", cfg.Wander.Kind, "holders", len(a.Holders))
	return nil
}

// respawn replaces every holder with a fresh demo snapshot
func (a *Aquarium) respawn() {
	a.Holders = holders.Demo(a.rng, a.numHolders, a.minTokens)
	a.reconcile()
}

// refresh churns part of the snapshot, as a live feed would between polls
func (a *Aquarium) refresh() {
	a.Holders = holders.Churn(a.rng, a.Holders, SurvivorRate, a.minTokens)
	stats := a.reconcile()
	a.log.Info("holders refreshed", "added", stats.Added, "removed", stats.Removed, "agents", a.swarm.Len())
}

func (a *Aquarium) reconcile() swarm.ReconcileStats {
	recs, _ := holders.Normalize(a.Holders, a.minTokens)
	stats := a.swarm.Reconcile(recs)
	a.snaps = a.swarm.Snapshots(a.snaps)
	return stats
}

// Update is called each tick by Ebitengine
func (a *Aquarium) Update() error {
	a.handleInput()

	if a.winnerTicks > 0 {
		a.winnerTicks--
	}
	if a.Paused {
		return nil
	}

	a.TickCount++
	if a.TickCount%RefreshTicks == 0 {
		a.refresh()
	}

	a.swarm.Tick(DT)
	a.snaps = a.swarm.Snapshots(a.snaps)
	return nil
}

// handleInput processes keyboard and mouse input
func (a *Aquarium) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.Paused = !a.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.respawn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		a.pickWinner()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.ShowLabels = !a.ShowLabels
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		a.toggleMode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.saveConfig()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		a.loadConfig()
	}

	// Zoom
	_, wheelY := ebiten.Wheel()
	a.Zoom += wheelY * 0.1
	if a.Zoom < MinZoom {
		a.Zoom = MinZoom
	}

	// Pan (drag)
	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		ppu := a.pixelsPerUnit()
		a.CamX -= (float64(mx) - a.PrevMX) / ppu
		a.CamY += (float64(my) - a.PrevMY) / ppu
	}
	a.PrevMX = float64(mx)
	a.PrevMY = float64(my)
}

func (a *Aquarium) pickWinner() {
	w, ok := holders.PickWinner(a.rng, a.Holders)
	if !ok {
		return
	}
	a.winner = w
	a.winnerTicks = WinnerTicks
	a.log.Info("winner picked", "address", w.Address, "balance", w.BalanceTokens)
}

func (a *Aquarium) toggleMode() {
	next := ModeTank
	if a.Mode == ModeTank {
		next = ModeBowl
	}
	cfg, _ := configForMode(next)
	if a.wander != "" {
		cfg = cfg.WithWander(a.wander)
	}
	if err := a.rebuild(cfg); err != nil {
		a.log.Error("switch mode failed", "mode", next, "err", err)
	}
}

// saveConfig writes the active swarm config as JSON
func (a *Aquarium) saveConfig() {
	if err := swarm.SaveConfig(a.configPath, a.swarm.Config()); err != nil {
		a.log.Error("save config failed", "path", a.configPath, "err", err)
		return
	}
	a.log.Info("config saved", "path", a.configPath)
}

// loadConfig replaces the swarm with one built from the JSON config on disk
func (a *Aquarium) loadConfig() {
	cfg, err := swarm.LoadConfig(a.configPath)
	if err != nil {
		a.log.Error("load config failed", "path", a.configPath, "err", err)
		return
	}
	if err := a.rebuild(cfg); err != nil {
		a.log.Error("apply config failed", "path", a.configPath, "err", err)
	}
}

// viewExtent is the world-space half size the default zoom fits on screen,
// along with the world point drawn at the screen centre
func (a *Aquarium) viewExtent() (half float64, center vmath.Vec3) {
	cfg := a.cfg
	if cfg.Bounds.Kind == swarm.BoundsBox {
		b := cfg.Bounds.Box
		half = math.Max(b.X, (b.YUp+b.YDown)/2)
		center = vmath.Vec3{Y: (b.YUp - b.YDown) / 2}
		return half * ViewMargin, center
	}
	s := cfg.Bounds.Sphere
	return s.Radius * ViewMargin, s.Center
}

func (a *Aquarium) pixelsPerUnit() float64 {
	half, _ := a.viewExtent()
	return math.Min(a.Width, a.Height) / (2 * half) * a.Zoom
}

// worldToScreen projects onto the XY plane, Y up
func (a *Aquarium) worldToScreen(p vmath.Vec3) (float64, float64) {
	_, c := a.viewExtent()
	ppu := a.pixelsPerUnit()
	sx := a.Width/2 + (p.X-c.X-a.CamX)*ppu
	sy := a.Height/2 - (p.Y-c.Y-a.CamY)*ppu
	return sx, sy
}

// depthOf maps world z to [0, 1], 1 nearest the viewer
func (a *Aquarium) depthOf(z float64) float64 {
	half, c := a.viewExtent()
	return math.Max(0, math.Min(1, (z-c.Z+half)/(2*half)))
}

// Draw is called each frame by Ebitengine
func (a *Aquarium) Draw(screen *ebiten.Image) {
	screen.Fill(toRGBA(waterColor))
	a.drawBounds(screen)

	ppu := a.pixelsPerUnit()
	for _, s := range a.snaps {
		sx, sy := a.worldToScreen(s.Position)
		depth := a.depthOf(s.Position.Z)
		r := FishRadius * s.Scale * ppu * (0.7 + 0.6*depth)
		if sx < -r || sx > a.Width+r || sy < -r || sy > a.Height+r {
			continue
		}

		palette := identity.NewAppearance(s.Seed, identity.VariantCount).Palette()
		body := palette[0].BlendLab(waterColor, 0.55*(1-depth))
		tail := palette[1].BlendLab(waterColor, 0.55*(1-depth))

		heading := vmath.QuatRotate(s.Orientation, vmath.Forward)
		tx, ty := sx-heading.X*r*1.8, sy+heading.Y*r*1.8
		vector.StrokeLine(screen, float32(sx), float32(sy), float32(tx), float32(ty), float32(math.Max(1, r*0.6)), toRGBA(tail), true)
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(r), toRGBA(body), true)

		if a.ShowLabels && len(a.snaps) <= LabelMaxFishes {
			ebitenutil.DebugPrintAt(screen, identity.Short(s.Address), int(sx)-36, int(sy+r)+2)
		}
	}

	a.drawHUD(screen)
}

func (a *Aquarium) drawBounds(screen *ebiten.Image) {
	cfg := a.cfg
	ppu := a.pixelsPerUnit()
	if cfg.Bounds.Kind == swarm.BoundsBox {
		b := cfg.Bounds.Box
		x0, y0 := a.worldToScreen(vmath.Vec3{X: -b.X, Y: b.YUp})
		vector.StrokeRect(screen, float32(x0), float32(y0), float32(2*b.X*ppu), float32((b.YUp+b.YDown)*ppu), 2, glassColor, true)
		return
	}
	s := cfg.Bounds.Sphere
	cx, cy := a.worldToScreen(s.Center)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(s.Radius*ppu), 2, glassColor, true)
}

func (a *Aquarium) drawHUD(screen *ebiten.Image) {
	status := fmt.Sprintf("%s | fish %d | TPS %.0f | [Space] pause [R] respawn [W] winner [H] labels [B] bowl/tank [S/L] save/load",
		a.Mode, a.swarm.Len(), ebiten.ActualTPS())
	if a.Paused {
		status = "PAUSED | " + status
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)

	if a.winnerTicks > 0 {
		msg := fmt.Sprintf("WINNER %s  %.0f tokens", identity.Short(a.winner.Address), a.winner.BalanceTokens)
		ebitenutil.DebugPrintAt(screen, msg, int(a.Width)/2-len(msg)*3, int(a.Height)/2-40)
	}
}

// Layout returns the screen size
func (a *Aquarium) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.Width), int(a.Height)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}
