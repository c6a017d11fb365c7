package orchestration

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/omnifolio/assistant-core/core/audio"
)

// audioPlayback owns the single active playback handle. Starting a new
// buffer stops the previous one first; no other component touches the output
// device directly.
type audioPlayback struct {
	mu     sync.Mutex
	client AudioOutput
	active *playbackHandle
}

type playbackHandle struct {
	releaseOnce sync.Once

	timerMu sync.Mutex
	timer   *time.Timer

	onEnded func()
}

func newAudioPlayback() *audioPlayback {
	return &audioPlayback{}
}

func (p *audioPlayback) set(client AudioOutput) {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
}

func (p *audioPlayback) isConfigured() bool {
	if p == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client != nil
}

func (p *audioPlayback) encodingInfo() audio.EncodingInfo {
	if p == nil {
		return audio.EncodingInfo{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return audio.EncodingInfo{}
	}
	return p.client.EncodingInfo()
}

// play sends the buffer to the output device and arranges for onEnded to run
// exactly once when playback completes. Completion is mark-confirmed when the
// device supports marks, estimated from the buffer duration otherwise.
func (p *audioPlayback) play(audioData []byte, onEnded func()) error {
	if p == nil {
		return fmt.Errorf("audio playback not initialized")
	}

	p.mu.Lock()
	if p.client == nil {
		p.mu.Unlock()
		return fmt.Errorf("no audio output configured")
	}

	if previous := p.active; previous != nil {
		p.client.ClearBuffer()
		previous.cancel()
	}

	handle := &playbackHandle{onEnded: onEnded}
	p.active = handle
	client := p.client
	p.mu.Unlock()

	if err := client.SendAudio(audioData); err != nil {
		p.mu.Lock()
		if p.active == handle {
			p.active = nil
		}
		p.mu.Unlock()
		return fmt.Errorf("failed to send audio to output: %w", err)
	}

	if marked, ok := client.(AudioOutputWithMarks); ok {
		if err := marked.Mark(uuid.NewString(), func(string) { p.finish(handle) }); err == nil {
			return nil
		}
	}

	duration := client.EncodingInfo().Duration(len(audioData))
	handle.timerMu.Lock()
	handle.timer = time.AfterFunc(duration, func() { p.finish(handle) })
	handle.timerMu.Unlock()

	return nil
}

// stop aborts the active handle, if any, without invoking its completion
// callback.
func (p *audioPlayback) stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	handle := p.active
	p.active = nil
	client := p.client
	p.mu.Unlock()

	if handle == nil {
		return
	}
	if client != nil {
		client.ClearBuffer()
	}
	handle.cancel()
}

func (p *audioPlayback) finish(handle *playbackHandle) {
	handle.releaseOnce.Do(func() {
		p.mu.Lock()
		if p.active == handle {
			p.active = nil
		}
		p.mu.Unlock()

		handle.stopTimer()
		if handle.onEnded != nil {
			handle.onEnded()
		}
	})
}

func (h *playbackHandle) cancel() {
	h.releaseOnce.Do(h.stopTimer)
}

func (h *playbackHandle) stopTimer() {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
	}
}
