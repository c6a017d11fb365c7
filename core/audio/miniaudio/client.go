// Package miniaudio binds the assistant's audio input and output to the
// system's default devices through malgo.
package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/omnifolio/assistant-core/core/audio"
)

const sampleRate = 48000

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient
}

// NewClient initializes the playback side immediately; the capture side is
// left untouched until explicitly acquired or started.
func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("malgo InitContext failed: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
	}

	if err := client.playbackClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playbackClient.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	return &client, nil
}

// AcquireCapture opens the capture device and returns a release that stops it
// again without tearing the device down. Opening and immediately releasing is
// how a permission prompt is triggered without holding the microphone open.
func (c *Client) AcquireCapture(_ context.Context) (func(), error) {
	if err := c.captureClient.Init(c.audioContext); err != nil {
		return nil, err
	}

	return func() { _ = c.captureClient.Stop() }, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	if err := c.captureClient.Init(c.audioContext); err != nil {
		return err
	}

	return c.captureClient.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) StartPlayback(_ context.Context) error {
	return c.playbackClient.Start()
}

func (c *Client) StopPlayback() error {
	return c.playbackClient.Stop()
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.playbackClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

func (c *Client) SendAudio(audio []byte) error {
	return c.playbackClient.SendAudio(audio)
}

func (c *Client) ClearBuffer() {
	c.playbackClient.ClearBuffer()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: sampleRate,
		Format:     audio.EncodingLinear16,
	}
}
