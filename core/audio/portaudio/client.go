// Package portaudio provides a capture-only audio input client backed by
// PortAudio, used where miniaudio is unavailable.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/omnifolio/assistant-core/core/audio"
)

type Client struct {
	bufferSize int

	mu     sync.Mutex
	stream *portaudio.Stream
	in     []int16
}

// NewClient initializes the PortAudio runtime but does not open a stream; the
// microphone is first touched by AcquireCapture or Stream.
func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		in:         make([]int16, bufferSize),
	}, nil
}

func (c *Client) open() error {
	if c.stream != nil {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, audio.DefaultSampleRate, c.bufferSize, c.in)
	if err != nil {
		return fmt.Errorf("failed to open PortAudio stream: %w", err)
	}

	c.stream = stream
	return nil
}

// AcquireCapture opens the default input stream and returns a release that
// stops it. Acquiring and immediately releasing triggers any system-level
// microphone permission prompt without keeping the device hot.
func (c *Client) AcquireCapture(_ context.Context) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.open(); err != nil {
		return nil, err
	}

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.stream != nil {
			_ = c.stream.Stop()
		}
	}, nil
}

func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	if err := c.open(); err != nil {
		c.mu.Unlock()
		return err
	}
	stream := c.stream
	c.mu.Unlock()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := stream.Read(); err != nil {
				return fmt.Errorf("failed to read from PortAudio stream: %w", err)
			}

			audioBuffer := bytes.Buffer{}
			binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
