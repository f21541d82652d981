package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/logging"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

// Metronome plays a click on the default output device every time the
// field it follows crosses a beat. The render loop calls Follow with each
// tick; the audio callback synthesizes.
type Metronome struct {
	Stream *portaudio.Stream

	mu      sync.Mutex
	age     float64 // seconds since the last onset, <0 when idle
	accent  bool
	volume  float64
	filterL float64

	log    *zap.Logger
	Active bool
}

func NewMetronome(log *zap.Logger) *Metronome {
	return &Metronome{age: -1, volume: 0.8, log: logging.OrNop(log)}
}

func (m *Metronome) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "portaudio init")
	}
	// output only; duplex streams often fail on Linux when devices differ
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, m.Process)
	if err != nil {
		portaudio.Terminate()
		return errors.Wrap(err, "open output stream")
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return errors.Wrap(err, "start output stream")
	}
	m.Stream = stream
	m.Active = true
	m.log.Info("metronome started", zap.Int("sample_rate", SampleRate), zap.Int("buffer", BufferSize))
	return nil
}

func (m *Metronome) Stop() {
	if m.Stream != nil {
		m.Stream.Stop()
		m.Stream.Close()
		m.Stream = nil
	}
	if m.Active {
		portaudio.Terminate()
	}
	m.Active = false
}

// Follow triggers a click for a tick that crossed a beat.
func (m *Metronome) Follow(tick ringfield.Tick) {
	if tick.Beats == 0 {
		return
	}
	m.Trigger(tick.Downbeats > 0)
}

func (m *Metronome) Trigger(accent bool) {
	m.mu.Lock()
	m.age = 0
	m.accent = accent
	m.mu.Unlock()
}

func (m *Metronome) SetVolume(v float64) {
	m.mu.Lock()
	m.volume = math.Max(0, math.Min(1, v))
	m.mu.Unlock()
}

// one pole low pass
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process is the stream callback. It is exported so it can be driven
// without a device.
func (m *Metronome) Process(out [][]float32) {
	const dt = 1.0 / SampleRate

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range out[0] {
		v := 0.0
		if m.age >= 0 {
			v = clickSample(m.age, m.accent)
			m.age += dt
			if m.age >= clickLength {
				m.age = -1
			}
		}
		m.filterL = lpf(v, 6000, dt, m.filterL)
		s := float32(m.filterL * m.volume)
		out[0][i] = s
		out[1][i] = s
	}
}
