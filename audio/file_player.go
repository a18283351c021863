package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"
)

const (
	sampleRate = beep.SampleRate(48000)
	// Resampling quality passed to beep.Resample
	resampleQuality = 4
)

// FilePlayer plays WAV files through the system speaker
// Falls back to silent mode when no output device is available
type FilePlayer struct {
	mu      sync.Mutex
	buffers map[string]*beep.Buffer
	volume  float64 // Linear 0.0-1.0

	initialized atomic.Bool
	silent      atomic.Bool
	log         *zap.Logger
}

// NewFilePlayer creates an uninitialized player with linear volume 0.0-1.0
func NewFilePlayer(volume float64, log *zap.Logger) *FilePlayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &FilePlayer{
		buffers: make(map[string]*beep.Buffer),
		volume:  clampVolume(volume),
		log:     log,
	}
}

// Init opens the speaker; failure switches to silent mode and is not an error
func (p *FilePlayer) Init() {
	if !p.initialized.CompareAndSwap(false, true) {
		return
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.silent.Store(true)
		p.log.Warn("audio output unavailable, continuing silent", zap.Error(err))
	}
}

// Silent reports whether output is disabled
func (p *FilePlayer) Silent() bool {
	return p.silent.Load() || !p.initialized.Load()
}

// Preload decodes path into memory once
func (p *FilePlayer) Preload(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.buffers[path]; ok {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSoundMissing, err)
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrSoundMissing, path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != sampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, sampleRate, stream)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	p.buffers[path] = buf
	return nil
}

// Play mixes a preloaded sound into the speaker output
func (p *FilePlayer) Play(path string) error {
	p.mu.Lock()
	buf, ok := p.buffers[path]
	vol := p.volume
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s not preloaded", ErrSoundMissing, path)
	}
	if p.Silent() {
		return nil
	}

	speaker.Play(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   math.Log2(max(vol, 1e-3)),
		Silent:   vol <= 0,
	})
	return nil
}

// SetVolume updates linear volume for subsequent sounds
func (p *FilePlayer) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = clampVolume(v)
	p.mu.Unlock()
}

// Close stops all sounds and releases the device
func (p *FilePlayer) Close() {
	if !p.initialized.CompareAndSwap(true, false) {
		return
	}
	if p.silent.Load() {
		return
	}
	speaker.Clear()
	speaker.Close()
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
