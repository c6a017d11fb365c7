package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// playbackClient feeds queued PCM to the playback device. Marks are byte
// offsets into the stream; a mark's callback fires once the device has
// consumed past it, which is how playback completion is observed.
type playbackClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	queueMu  sync.Mutex
	queue    []byte
	consumed int
	marks    []playbackMark

	deviceMu sync.Mutex
}

type playbackMark struct {
	name string
	// offset is absolute within the stream, comparable against consumed.
	offset   int
	callback func(string)
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	const channels = 1
	format := malgo.FormatS16
	frameSize := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(sampleRate)
	config.Playback.Format = format
	config.Playback.Channels = channels
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = uint32(sampleRate) / 10
	config.Periods = 4

	c.config = config
	c.audioContext = audioContext

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			c.fill(pOutput, int(frameCount)*frameSize)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	c.device = device
	return nil
}

func (c *playbackClient) Start() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (c *playbackClient) Stop() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.ClearBuffer()
	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	c.queue = append(c.queue, audio...)
	return nil
}

// Mark registers a callback at the current end of the queued stream. Clearing
// the buffer drops unreached marks without firing them.
func (c *playbackClient) Mark(mark string, callback func(string)) error {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     mark,
		offset:   c.consumed + len(c.queue),
		callback: callback,
	})
	return nil
}

func (c *playbackClient) ClearBuffer() {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	c.queue = nil
	c.marks = nil
	c.consumed = 0
}

func (c *playbackClient) Uninit() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil
	return nil
}

// fill copies up to want bytes of queued audio into the device buffer and
// fires any marks the copy consumed past. Callbacks run off the audio thread.
func (c *playbackClient) fill(pOutput []byte, want int) {
	c.queueMu.Lock()

	n := copy(pOutput, c.queue)
	c.queue = c.queue[n:]
	c.consumed += want
	if n < want && len(c.queue) == 0 {
		c.queue = nil
	}

	var reached []playbackMark
	remaining := c.marks[:0]
	for _, mark := range c.marks {
		if mark.offset <= c.consumed {
			reached = append(reached, mark)
		} else {
			remaining = append(remaining, mark)
		}
	}
	c.marks = remaining

	c.queueMu.Unlock()

	if len(reached) > 0 {
		go func() {
			for _, mark := range reached {
				mark.callback(mark.name)
			}
		}()
	}
}
