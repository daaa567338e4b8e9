package main

import (
	"flag"
	"time"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/inkyblackness/imgui-go/v2"
	"github.com/xlab/closer"
	"go.uber.org/zap"

	"github.com/owenfell/silt/config"
	"github.com/owenfell/silt/core"
	"github.com/owenfell/silt/erosion"
	"github.com/owenfell/silt/generators"
	"github.com/owenfell/silt/gui"
	"github.com/owenfell/silt/logger"
)

const (
	vertexShaderPath = "./shaders/main.vert"
	fragShaderPath   = "./shaders/main.frag"
)

// State carries everything the render loop touches.
type State struct {
	Program  uint32
	Uniforms map[string]int32 // name -> handle

	Projection mgl32.Mat4
	Camera     mgl32.Mat4
	Model      mgl32.Mat4
	WorldPos   mgl32.Vec3

	Angle, HeightScale, FOV float32

	Plane   *core.Plane
	Fields  *core.FieldTextures
	Sim     *erosion.Simulator
	Params  erosion.Params
	Cfg     *config.Config
	WindowW int
	WindowH int

	BrushRadius  float32
	BrushAmount  float32
	BrushTerrain bool
}

func main() {
	configPath := flag.String("config", "silt.yaml", "path to YAML configuration")
	headless := flag.Bool("headless", false, "run without a window")
	ticks := flag.Int("ticks", 1000, "simulation ticks to run in headless mode")
	out := flag.String("out", "terrain.png", "heightmap output path in headless mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("info", "")
		logger.Log.Fatal("load config", zap.Error(err))
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.File)
	defer logger.Sync()

	sim, err := buildSimulator(cfg)
	if err != nil {
		logger.Log.Fatal("seed simulation", zap.Error(err))
	}
	if cfg.Simulation.Workers > 0 {
		sim.SetWorkers(cfg.Simulation.Workers)
	}

	if *headless {
		runHeadless(sim, *ticks, *out)
		return
	}
	runWindowed(cfg, sim)
}

// buildSimulator seeds a simulator from the configured terrain source.
func buildSimulator(cfg *config.Config) (*erosion.Simulator, error) {
	g := cfg.Grid
	switch g.Generator {
	case "midpoint", "":
		gen := generators.NewMidpointDisplacement(g.Width, g.Height, g.Spread, g.Reduce, g.Seed)
		gen.Generate()
		return erosion.NewFromGenerator(gen, cfg.Params()), nil
	case "perlin":
		gen := generators.NewPerlin(g.Width, g.Height, 2, 2, 3, g.Scale, g.Seed)
		gen.Generate()
		return erosion.NewFromGenerator(gen, cfg.Params()), nil
	default:
		// Anything else names an image file with full-state channels.
		m, err := generators.LoadImageMap(g.Generator)
		if err != nil {
			return nil, err
		}
		w, h := m.Dimensions()
		sim := erosion.NewSimulator(w, h, cfg.Params())
		sim.SeedState(m.Channels())
		return sim, nil
	}
}

// runHeadless advances the simulation without GL and writes the eroded
// heightmap as a 16-bit grayscale PNG.
func runHeadless(sim *erosion.Simulator, ticks int, out string) {
	w, h := sim.Dimensions()
	logger.Log.Info("headless run",
		zap.Int("width", w), zap.Int("height", h), zap.Int("ticks", ticks))

	start := time.Now()
	for i := 0; i < ticks; i++ {
		sim.Step(erosion.Brush{})
		if (i+1)%500 == 0 {
			logger.Log.Info("progress",
				zap.Int("tick", i+1),
				zap.Float64("water_volume", sim.TotalWater()))
		}
	}
	logger.Log.Info("simulation finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("water_volume", sim.TotalWater()))

	if err := generators.WriteHeightmapPNG(out, w, h, sim.TerrainHeight()); err != nil {
		logger.Log.Fatal("write heightmap", zap.Error(err))
	}
	logger.Log.Info("heightmap written", zap.String("path", out))
}

func runWindowed(cfg *config.Config, sim *erosion.Simulator) {
	newGUI, err := gui.NewGUI(cfg.Window.Width, cfg.Window.Height, "silt")
	if err != nil {
		logger.Log.Fatal("create window", zap.Error(err))
	}
	defer newGUI.Dispose()

	gridW, gridH := sim.Dimensions()
	plane := core.NewPlane(gridH, gridW)
	plane.Construct()

	state := &State{
		Uniforms:    make(map[string]int32),
		WorldPos:    mgl32.Vec3{-200, 200, -200},
		Angle:       0,
		HeightScale: 60,
		FOV:         50,
		Plane:       plane,
		Fields:      core.NewFieldTextures(gridW * gridH),
		Sim:         sim,
		Params:      sim.Params(),
		Cfg:         cfg,
		WindowW:     cfg.Window.Width,
		WindowH:     cfg.Window.Height,
		BrushRadius: 0.05,
		BrushAmount: 1,
	}

	program, err := core.NewProgramFromPath(vertexShaderPath, fragShaderPath)
	if err != nil {
		logger.Log.Fatal("compile terrain shaders", zap.Error(err))
	}
	state.Program = program
	setupUniforms(state)

	exitC := make(chan struct{}, 1)
	doneC := make(chan struct{}, 1)
	closer.Bind(func() {
		close(exitC)
		<-doneC
	})

	tps := cfg.Window.TPS
	if tps <= 0 {
		tps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	for {
		select {
		case <-exitC:
			ticker.Stop()
			close(doneC)
			return
		case <-ticker.C:
			if newGUI.ShouldClose() {
				close(exitC)
				continue
			}
			glfw.PollEvents()
			newGUI.Update()

			state.Sim.SetParams(state.Params)
			state.Sim.Update(brushInput(newGUI, state))
			render(newGUI, state)
		}
	}
}

// brushInput maps the held mouse button to a brush in normalized grid space.
func brushInput(g *gui.GUI, state *State) erosion.Brush {
	if g.WantCaptureMouse() || !g.MouseDown(0) {
		return erosion.Brush{}
	}
	mx, my := g.CursorPos()
	w, h := g.GetSize()
	radius := state.BrushRadius
	if state.BrushTerrain {
		radius = -radius
	}
	return erosion.Brush{
		Position: mgl32.Vec2{float32(mx) / float32(w), float32(my) / float32(h)},
		Radius:   radius,
		Amount:   state.BrushAmount,
	}
}

func setupUniforms(state *State) {
	program := state.Program
	gl.UseProgram(program)

	aspect := float32(state.WindowW) / float32(state.WindowH)
	state.Projection = mgl32.Perspective(mgl32.DegToRad(state.FOV), aspect, 0.01, 10000.0)
	projectionUniform := gl.GetUniformLocation(program, gl.Str("projection\x00"))
	gl.UniformMatrix4fv(projectionUniform, 1, false, &state.Projection[0])

	state.Camera = mgl32.LookAtV(state.WorldPos, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	cameraUniform := gl.GetUniformLocation(program, gl.Str("camera\x00"))
	gl.UniformMatrix4fv(cameraUniform, 1, false, &state.Camera[0])

	state.Model = mgl32.Ident4()
	modelUniform := gl.GetUniformLocation(program, gl.Str("model\x00"))
	gl.UniformMatrix4fv(modelUniform, 1, false, &state.Model[0])

	heightUniform := gl.GetUniformLocation(program, gl.Str("heightScale\x00"))
	gl.Uniform1fv(heightUniform, 1, &state.HeightScale)

	heightmapUniform := gl.GetUniformLocation(program, gl.Str("tboHeightmap\x00"))
	gl.Uniform1i(heightmapUniform, 0)
	waterUniform := gl.GetUniformLocation(program, gl.Str("tboWaterHeight\x00"))
	gl.Uniform1i(waterUniform, 1)
	sedimentUniform := gl.GetUniformLocation(program, gl.Str("tboSediment\x00"))
	gl.Uniform1i(sedimentUniform, 2)

	state.Uniforms["projection"] = projectionUniform
	state.Uniforms["camera"] = cameraUniform
	state.Uniforms["model"] = modelUniform
	state.Uniforms["heightScale"] = heightUniform
}

func updateUniforms(state *State) {
	cameraPos := mgl32.Rotate3DY(state.Angle).Mul3x1(state.WorldPos)
	state.Camera = mgl32.LookAtV(cameraPos, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	aspect := float32(state.WindowW) / float32(state.WindowH)
	state.Projection = mgl32.Perspective(mgl32.DegToRad(state.FOV), aspect, 0.01, 10000.0)

	gl.UniformMatrix4fv(state.Uniforms["projection"], 1, false, &state.Projection[0])
	gl.UniformMatrix4fv(state.Uniforms["camera"], 1, false, &state.Camera[0])
	gl.Uniform1fv(state.Uniforms["heightScale"], 1, &state.HeightScale)
}

func (state *State) renderUI() {
	imgui.NewFrame()

	treeNodeFlags := imgui.TreeNodeFlagsDefaultOpen
	if imgui.Begin("Hydraulic Erosion") {
		if imgui.TreeNodeV("Camera", treeNodeFlags) {
			imgui.PushItemWidth(120)
			imgui.SliderFloat("FOV", &state.FOV, 10, 100)
			imgui.SliderFloat("Angle", &state.Angle, 0, 6.28318)
			imgui.SliderFloat("Height Scale", &state.HeightScale, 1, 200)
			imgui.PopItemWidth()
			imgui.TreePop()
		}
		imgui.Separator()
		if imgui.TreeNodeV("Simulation", treeNodeFlags) {
			runningLabel := "Start Simulation"
			if state.Sim.IsRunning() {
				runningLabel = "Stop Simulation"
			}
			if imgui.Button(runningLabel) {
				state.Sim.Toggle()
			}
			imgui.SameLine()
			if imgui.Button("Step") {
				state.Sim.Step(erosion.Brush{})
			}
			imgui.SameLine()
			if imgui.Button("Reset") {
				state.Sim.Reset()
			}

			imgui.PushItemWidth(120)
			imgui.SliderFloat("Time Delta", &state.Params.TimeDelta, 0.001, 0.05)
			imgui.SliderFloat("Rain Rate", &state.Params.RainRate, 0, 0.05)
			imgui.SliderFloat("Evaporation", &state.Params.Evaporation, 0, 1)
			imgui.SliderFloat("Pipe Area", &state.Params.PipeArea, 0.1, 60)
			imgui.SliderFloat("Gravity", &state.Params.Gravity, 0.1, 20)
			imgui.SliderFloat("Capacity", &state.Params.SedimentCapacity, 0, 4)
			imgui.SliderFloat("Suspension", &state.Params.SuspensionRate, 0, 2)
			imgui.SliderFloat("Deposition", &state.Params.DepositionRate, 0, 2)
			imgui.SliderFloat("Max Erode Depth", &state.Params.MaxErosionDepth, 0.0001, 20)
			imgui.PopItemWidth()
			imgui.TreePop()
		}
		imgui.Separator()
		if imgui.TreeNodeV("Brush", treeNodeFlags) {
			imgui.PushItemWidth(120)
			imgui.SliderFloat("Radius", &state.BrushRadius, 0.005, 0.25)
			imgui.SliderFloat("Amount", &state.BrushAmount, -10, 10)
			imgui.PopItemWidth()
			imgui.Checkbox("Sculpt Terrain", &state.BrushTerrain)
			imgui.TreePop()
		}
	}
	imgui.End()

	imgui.EndFrame()
	imgui.Render()
}

func render(g *gui.GUI, state *State) {
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.08, 0.09, 0.11, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(state.Program)
	updateUniforms(state)

	state.Fields.Upload(state.Sim.TerrainHeight(), state.Sim.WaterDepth(), state.Sim.Sediment())
	state.Fields.Bind()
	state.Plane.M().Draw()

	g.Render(state.renderUI)

	width, height := g.GetSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	g.SwapBuffers()
}
