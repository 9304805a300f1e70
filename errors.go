package grok

import (
	"errors"
	"fmt"

	"github.com/vangroan/grok-glow/glapi"
)

// Sentinel errors. Every error returned by the package matches one of these
// via errors.Is, and carries its details in a typed value for errors.As.
var (
	ErrInvalidTextureSize = errors.New("grok: invalid texture size")
	ErrInvalidSubTexture  = errors.New("grok: invalid sub texture")
	ErrInvalidImageData   = errors.New("grok: invalid image data")
	ErrShaderCompile      = errors.New("grok: shader compile failed")
	ErrShaderLink         = errors.New("grok: shader link failed")
	ErrOpenGL             = errors.New("grok: opengl error")

	// ErrDeviceClosed is returned when a resource is released after the
	// device that created it has been closed.
	ErrDeviceClosed = errors.New("grok: device closed")
)

// InvalidTextureSizeError reports a texture dimension that is zero, or not a
// power of two on a device that requires it.
type InvalidTextureSizeError struct {
	Width, Height uint32
}

func (e *InvalidTextureSizeError) Error() string {
	if e.Width == 0 || e.Height == 0 {
		return fmt.Sprintf("invalid texture size (%d, %d): ensure that neither dimension is zero", e.Width, e.Height)
	}
	return fmt.Sprintf("invalid texture size (%d, %d): dimensions must be powers of two, or fit an atlas", e.Width, e.Height)
}

func (e *InvalidTextureSizeError) Is(target error) bool { return target == ErrInvalidTextureSize }

// InvalidSubTextureError reports a sub-texture rectangle that does not fit
// inside the texture view it was cut from.
type InvalidSubTextureError struct {
	Source Rect[uint32]
	Target Rect[uint32]
}

func (e *InvalidSubTextureError) Error() string {
	return fmt.Sprintf("sub texture %s does not fit inside %s", e.Target, e.Source)
}

func (e *InvalidSubTextureError) Is(target error) bool { return target == ErrInvalidSubTexture }

// InvalidImageDataError reports pixel data whose length does not match the
// RGBA storage of the target region.
type InvalidImageDataError struct {
	Expected int
	Actual   int
}

func (e *InvalidImageDataError) Error() string {
	return fmt.Sprintf("image data does not match texture storage size: expected %d bytes, actual %d bytes", e.Expected, e.Actual)
}

func (e *InvalidImageDataError) Is(target error) bool { return target == ErrInvalidImageData }

// ShaderCompileError carries the info log of a stage that failed to compile.
type ShaderCompileError struct {
	Stage string
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

func (e *ShaderCompileError) Is(target error) bool { return target == ErrShaderCompile }

// ShaderLinkError carries the info log of a program that failed to link.
type ShaderLinkError struct {
	Log string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("shader program linking failed: %s", e.Log)
}

func (e *ShaderLinkError) Is(target error) bool { return target == ErrShaderLink }

// OpenGLError is a code reported by glGetError.
type OpenGLError struct {
	Code glapi.Enum
}

func (e *OpenGLError) Error() string {
	return fmt.Sprintf("opengl error: 0x%x", e.Code)
}

func (e *OpenGLError) Is(target error) bool { return target == ErrOpenGL }

// OpenGLMessageError is a GL failure that only came with a message, such
// as an object creation call returning no name.
type OpenGLMessageError struct {
	Message string
}

func (e *OpenGLMessageError) Error() string {
	return "opengl error: " + e.Message
}

func (e *OpenGLMessageError) Is(target error) bool { return target == ErrOpenGL }

// glError returns the pending GL error, if any.
func glError(gl glapi.Backend) error {
	if code := gl.GetError(); code != glapi.NO_ERROR {
		return &OpenGLError{Code: code}
	}
	return nil
}

// glCreated checks the result of an object creation call.
func glCreated(gl glapi.Backend, handle uint32, what string) (uint32, error) {
	if err := glError(gl); err != nil {
		return 0, fmt.Errorf("create %s: %w", what, err)
	}
	if handle == 0 {
		return 0, &OpenGLMessageError{Message: "failed to create " + what}
	}
	return handle, nil
}
