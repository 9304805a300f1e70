/*
Package grok is a small 2D sprite renderer for OpenGL 4 core contexts.

It draws textured rectangles in pixel coordinates, with the origin at the
top-left of the viewport, batched into as few draw calls as the texture
changes allow.

# Overview

A [Device] wraps a [glapi.Backend] (see backend/opengl for the go-gl
implementation) and owns the destruction queue. Every GPU resource is
created from the device:

  - [Texture]: an RGBA8 texture, or a view into one. Views share the
    allocation, which is deleted when the last view is released.
  - [TexturePack]: packs many small images into atlas textures using a
    guillotine [Packer] and hands back views.
  - [VertexBuffer]: a vertex array with its vertex and index buffers.
  - [Shader]: a linked program. [SpriteVertexShader] and
    [SpriteFragmentShader] are the sources the batch expects.
  - [SpriteBatch]: collects [Sprite] values over a frame and draws them.

# Threading

All GL calls happen on the goroutine that holds the context, locked with
runtime.LockOSThread. Release may be called from any goroutine: it only
queues the deletion, which [Device.Maintain] performs on the GL thread.

# Quick Start

	d := grok.NewDevice(backend, grok.WithViewportSize(800, 600))
	shader, _ := grok.NewShader(d, grok.SpriteVertexShader, grok.SpriteFragmentShader)
	pack, _ := grok.NewTexturePack(d)
	batch, _ := grok.NewSpriteBatch(d)

	tex, _ := pack.AddImage(d, img)
	s := grok.NewSprite([2]int32{10, 10}, [2]uint32{32, 32})
	s.SetTexture(tex)

	for !window.ShouldClose() {
	    d.Maintain()
	    d.Clear(grok.Black)
	    batch.Add(s)
	    batch.Draw(d, shader)
	    window.SwapBuffers()
	}

# Shutdown

Resources must be released before the device is closed:

	d.Shutdown()     // draws become no-ops
	tex.Release()
	pack.Release()
	batch.Release()
	shader.Release()
	d.Close()        // final drain; later releases panic
*/
package grok
