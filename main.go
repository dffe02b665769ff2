package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/batcher"
	"github.com/bloeys/nbatch/demo"
	"github.com/bloeys/nbatch/engine"
	"github.com/bloeys/nbatch/input"
	"github.com/bloeys/nbatch/logging"
	"github.com/bloeys/nbatch/renderer/rend3dgl"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/term"
)

const (
	spriteShaderPath = "./res/shaders/sprite.glsl"
	meshShaderPath   = "./res/shaders/mesh.glsl"
)

var (
	configPath = flag.String("config", "", "Path to a yaml demo config")
	headless   = flag.Bool("headless", false, "Run without a window on an in-memory device and log batch stats")
	frames     = flag.Int("frames", 0, "Frames to run in headless mode. Overrides the config when set")
	debug      = flag.Bool("debug", false, "Enable debug logs")
	cpuProfile = flag.String("cpuprofile", "", "Write a CPU profile to this file")
)

type Game struct {
	WinWidth  int32
	WinHeight int32
	Win       *engine.Window
	Rend      *rend3dgl.Rend3DGL
	Scene     *demo.Scene
	Zoom      float32
}

func main() {

	flag.Parse()

	cfg := demo.DefaultConfig()
	if *configPath != "" {

		var err error
		cfg, err = demo.LoadConfig(*configPath)
		if err != nil {
			logging.ErrLog.Fatalln("Failed to load config. Err:", err)
		}
	}

	if *frames > 0 {
		cfg.Frames = *frames
	}

	logging.SetDebug(cfg.Debug || *debug)

	if *cpuProfile != "" {

		pf, err := os.Create(*cpuProfile)
		if err == nil {
			defer pf.Close()
			pprof.StartCPUProfile(pf)
			defer pprof.StopCPUProfile()
		} else {
			logging.ErrLog.Printf("Creating %s failed. CPU profiling will not run. Err=%v\n", *cpuProfile, err)
		}
	}

	src := loadShaders()
	if *headless {
		runHeadless(cfg, src)
		return
	}

	runWindowed(cfg, src)
}

func loadShaders() demo.ShaderSources {

	spriteSrc, err := os.ReadFile(spriteShaderPath)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to read sprite shader. Err:", err)
	}

	meshSrc, err := os.ReadFile(meshShaderPath)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to read mesh shader. Err:", err)
	}

	return demo.ShaderSources{Sprite: spriteSrc, Mesh: meshSrc}
}

func runHeadless(cfg demo.Config, src demo.ShaderSources) {

	// Per frame logs would fight with the progress bar, so it is only shown on a terminal
	showProgress := term.IsTerminal(int(os.Stdout.Fd())) && !cfg.Debug && !*debug

	r := demo.RunHeadless(cfg, src, showProgress)
	logging.InfoLog.Printf(
		"Headless run done. frames=%d; avg models=%.2f; draw calls=%d; indices=%d; device uploads=%d; model pool size=%d; commit time=%s\n",
		r.Frames, r.AvgModels(), r.DrawCalls, r.Indices, r.Uploads, r.PoolSize, r.CommitTime,
	)
}

func runWindowed(cfg demo.Config, src demo.ShaderSources) {

	//Init engine
	err := engine.Init()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init engine. Err:", err)
	}
	defer engine.Quit()

	rend := rend3dgl.NewRend3DGL()
	window, err := engine.CreateOpenGLWindowCentered("nbatch", cfg.Window.Width, cfg.Window.Height, engine.WindowFlags_RESIZABLE|engine.WindowFlags_ALLOW_HIGHDPI, rend)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err: ", err)
	}
	defer window.Destroy()

	engine.SetVSync(cfg.Window.VSync)

	game := &Game{
		Win:       window,
		WinWidth:  cfg.Window.Width,
		WinHeight: cfg.Window.Height,
		Rend:      rend,
		Zoom:      1,
		Scene:     demo.NewScene(cfg, rend3dgl.NewGLDevice(), src),
	}
	window.EventCallbacks = append(window.EventCallbacks, game.handleWindowEvents)
	game.updateProjection()

	defer rend.Delete()

	lastTicks := sdl.GetTicks()
	for {

		window.HandleInputs()
		if input.IsQuitClicked() || input.KeyClicked(sdl.K_ESCAPE) {
			break
		}

		now := sdl.GetTicks()
		dt := float32(now-lastTicks) / 1000
		lastTicks = now

		game.handleKeys()

		game.Scene.Update(dt)
		game.Scene.Commit()

		window.FrameStart()
		game.Scene.Draw(rend)
		window.FrameEnd()
	}
}

func (g *Game) handleKeys() {

	// R toggles reordering, P switches the fallback placement, the wheel zooms, S logs stats
	if input.KeyClicked(sdl.K_r) {
		opts := g.Scene.Options()
		opts.Reorder = !opts.Reorder
		g.Scene.SetOptions(opts)
	}

	if input.KeyClicked(sdl.K_p) {
		opts := g.Scene.Options()
		if opts.FallbackPlacement == batcher.Placement_Front {
			opts.FallbackPlacement = batcher.Placement_Back
		} else {
			opts.FallbackPlacement = batcher.Placement_Front
		}
		g.Scene.SetOptions(opts)
	}

	if wheel := input.GetMouseWheelYNorm(); wheel != 0 {
		g.Zoom = min(max(g.Zoom*(1+0.1*float32(wheel)), 0.25), 4)
		g.updateProjection()
	}

	if input.KeyClicked(sdl.K_s) {
		st := g.Scene.Batcher.Stats()
		logging.InfoLog.Printf("Batch stats: commands=%d; models=%d; buffers uploaded=%d\n", st.Commands, st.Models, st.BuffersUploaded)
	}
}

func (g *Game) handleWindowEvents(e sdl.Event) {

	switch e := e.(type) {
	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {

			g.WinWidth = e.Data1
			g.WinHeight = e.Data2
			g.updateProjection()
		}
	}
}

// updateProjection sets a pixel space orthographic projection with the origin at the bottom left,
// scaled by the zoom
func (g *Game) updateProjection() {

	w, h := float32(g.WinWidth)/g.Zoom, float32(g.WinHeight)/g.Zoom

	m := gglm.NewMat4Diag(1)
	m.Data[0][0] = 2 / w
	m.Data[1][1] = 2 / h
	m.Data[2][2] = -1
	m.Data[3][0] = -1
	m.Data[3][1] = -1
	g.Rend.ProjViewMat = m

	// Programs pick the new matrix up when they are bound next
	g.Rend.BoundProgId = 0

	fbWidth, fbHeight := g.Win.Size()
	gl.Viewport(0, 0, fbWidth, fbHeight)
}
