// Package gui owns the GLFW window and the imgui context for the sandbox.
package gui

import (
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/inkyblackness/imgui-go/v2"
	"go.uber.org/zap"

	"github.com/owenfell/silt/gui/renderers"
	"github.com/owenfell/silt/logger"
)

// GUI couples a GLFW window with an imgui context and renderer.
type GUI struct {
	window         *glfw.Window
	context        *imgui.Context
	renderer       *renderers.OpenGL3
	io             imgui.IO
	buttonsPressed [3]bool
	time           float64
}

// NewGUI creates the window, the GL context and the imgui renderer.
func NewGUI(windowWidth, windowHeight int, title string) (*GUI, error) {
	runtime.LockOSThread()
	g := new(GUI)

	g.context = imgui.CreateContext(nil)
	g.io = imgui.CurrentIO()

	window, err := initGLFW(windowWidth, windowHeight, title)
	if err != nil {
		g.context.Destroy()
		return nil, err
	}
	g.window = window
	g.installCallbacks()

	renderer, err := renderers.NewOpenGL3(g.io)
	if err != nil {
		g.Dispose()
		return nil, fmt.Errorf("create imgui renderer: %w", err)
	}
	g.renderer = renderer
	return g, nil
}

// ShouldClose reports whether the user asked to close the window.
func (g *GUI) ShouldClose() bool {
	return g.window.ShouldClose()
}

// SwapBuffers presents the rendered frame.
func (g *GUI) SwapBuffers() {
	g.window.SwapBuffers()
}

// GetSize returns the window size in screen coordinates.
func (g *GUI) GetSize() (int, int) {
	return g.window.GetSize()
}

// CursorPos returns the mouse position in screen coordinates.
func (g *GUI) CursorPos() (float64, float64) {
	return g.window.GetCursorPos()
}

// MouseDown reports whether the given button (0 = left) is held.
func (g *GUI) MouseDown(button int) bool {
	return g.window.GetMouseButton(glfwButtonIDByIndex[button]) == glfw.Press
}

// Render draws the frame composed by the supplied imgui pass.
func (g *GUI) Render(drawUI func()) {
	drawUI()
	w, h := g.window.GetSize()
	fw, fh := g.window.GetFramebufferSize()
	g.renderer.Render(
		[2]float32{float32(w), float32(h)},
		[2]float32{float32(fw), float32(fh)},
		imgui.RenderedDrawData())
}

// Update feeds display size, timing and input state to imgui. Call once per
// frame before building UI.
func (g *GUI) Update() {
	w, h := g.window.GetSize()
	g.io.SetDisplaySize(imgui.Vec2{X: float32(w), Y: float32(h)})

	currentTime := glfw.GetTime()
	if g.time > 0 {
		g.io.SetDeltaTime(float32(currentTime - g.time))
	}
	g.time = currentTime

	if g.window.GetAttrib(glfw.Focused) != 0 {
		x, y := g.window.GetCursorPos()
		g.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		g.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	for i := 0; i < len(g.buttonsPressed); i++ {
		down := g.buttonsPressed[i] || (g.window.GetMouseButton(glfwButtonIDByIndex[i]) == glfw.Press)
		g.io.SetMouseButtonDown(i, down)
		g.buttonsPressed[i] = false
	}
}

// WantCaptureMouse reports whether imgui is using the mouse this frame, so
// the host can keep panel clicks away from the brush.
func (g *GUI) WantCaptureMouse() bool {
	return g.io.WantCaptureMouse()
}

// Dispose tears down the renderer, context and window.
func (g *GUI) Dispose() {
	if g.renderer != nil {
		g.renderer.Dispose()
	}
	g.context.Destroy()
	g.window.Destroy()
	glfw.Terminate()
}

func initGLFW(windowWidth, windowHeight int, title string) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	logger.Log.Info("OpenGL ready", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
	return window, nil
}

func (g *GUI) installCallbacks() {
	g.window.SetMouseButtonCallback(g.mouseButtonChange)
	g.window.SetScrollCallback(g.mouseScrollChange)
	g.window.SetKeyCallback(g.keyChange)
	g.window.SetCharCallback(g.charChange)
}

func (g *GUI) mouseScrollChange(w *glfw.Window, xoff, yoff float64) {
	g.io.AddMouseWheelDelta(float32(xoff), float32(yoff))
}

var glfwButtonIndexByID = map[glfw.MouseButton]int{
	glfw.MouseButton1: 0,
	glfw.MouseButton2: 1,
	glfw.MouseButton3: 2,
}

var glfwButtonIDByIndex = map[int]glfw.MouseButton{
	0: glfw.MouseButton1,
	1: glfw.MouseButton2,
	2: glfw.MouseButton3,
}

func (g *GUI) mouseButtonChange(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	buttonIndex, known := glfwButtonIndexByID[button]
	if known && action == glfw.Press {
		g.buttonsPressed[buttonIndex] = true
	}
}

func (g *GUI) keyChange(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Press {
		g.io.KeyPress(int(key))
	}
	if action == glfw.Release {
		g.io.KeyRelease(int(key))
	}
	// Modifiers are not reliable across systems
	g.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
	g.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
	g.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
	g.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
}

func (g *GUI) charChange(w *glfw.Window, char rune) {
	g.io.AddInputCharacters(string(char))
}
