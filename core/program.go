package core

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"

	"github.com/owenfell/silt/utils"
)

// NewProgramFromPath compiles and links a vertex + fragment shader pair.
func NewProgramFromPath(vertexPath, fragmentPath string) (uint32, error) {
	vertexSource, err := utils.ReadTextFile(vertexPath)
	if err != nil {
		return 0, err
	}
	fragmentSource, err := utils.ReadTextFile(fragmentPath)
	if err != nil {
		return 0, err
	}

	vertex, err := compileShader(vertexSource+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader %s: %w", vertexPath, err)
	}
	fragment, err := compileShader(fragmentSource+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader %s: %w", fragmentPath, err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link program: %v", log)
	}

	gl.DeleteShader(vertex)
	gl.DeleteShader(fragment)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile: %v", log)
	}
	return shader, nil
}
