package gesture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// DefaultInterval is the delay between the end of one classification
// cycle and the start of the next.
const DefaultInterval = 1500 * time.Millisecond

// CommandSink receives the movement commands the pilot produces.
// *rover.Driver is the canonical implementation.
type CommandSink interface {
	Drive(ctx context.Context, cmd rover.Command, source string) error
}

// Status is the UI-facing snapshot of the gesture pilot.
type Status struct {
	Running     bool          `json:"running"`
	Busy        bool          `json:"busy"`
	IntervalMS  int64         `json:"interval_ms"`
	LastLabel   string        `json:"last_label,omitempty"`
	LastCommand rover.Command `json:"last_command,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
	LastCycleAt time.Time     `json:"last_cycle_at,omitzero"`
}

// Pilot runs the fixed-interval capture-and-classify loop. The timer is
// re-armed only after a cycle completes, and a busy flag guarantees a
// single classification in flight.
type Pilot struct {
	source     FrameSource
	classifier Classifier
	sink       CommandSink
	interval   time.Duration

	mu          sync.Mutex
	running     bool
	busy        bool
	stopCh      chan struct{}
	done        chan struct{}
	lastLabel   string
	lastCmd     rover.Command
	lastErr     string
	lastCycleAt time.Time
}

// NewPilot creates a gesture pilot. interval <= 0 selects DefaultInterval.
func NewPilot(source FrameSource, classifier Classifier, sink CommandSink, interval time.Duration) *Pilot {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pilot{
		source:     source,
		classifier: classifier,
		sink:       sink,
		interval:   interval,
	}
}

// Start launches the loop. Starting a running pilot is an error.
func (p *Pilot) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("gesture pilot already running")
	}
	if p.source == nil || p.classifier == nil {
		return errors.New("gesture pilot not configured (no camera or classifier)")
	}

	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true

	go p.run(p.stopCh, p.done)

	log.Info().Dur("interval", p.interval).Msg("Gesture pilot started")
	return nil
}

// Stop halts the loop and waits for an in-flight cycle to finish.
func (p *Pilot) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	done := p.done
	p.mu.Unlock()

	<-done
	log.Info().Msg("Gesture pilot stopped")
}

// Status returns the current snapshot.
func (p *Pilot) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Running:     p.running,
		Busy:        p.busy,
		IntervalMS:  p.interval.Milliseconds(),
		LastLabel:   p.lastLabel,
		LastCommand: p.lastCmd,
		LastError:   p.lastErr,
		LastCycleAt: p.lastCycleAt,
	}
}

// run waits the interval, executes one cycle, and only then re-arms the
// timer, so a slow inference stretches the period instead of stacking
// requests.
func (p *Pilot) run(stopCh, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stopCh:
			return
		case <-time.After(p.interval):
			p.Cycle(context.Background())
		}
	}
}

// Cycle performs one capture-classify-dispatch pass. If a pass is
// already in flight the call is dropped; the loop never issues a second
// inference request while one is outstanding.
func (p *Pilot) Cycle(ctx context.Context) {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return
	}
	p.busy = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy = false
		p.lastCycleAt = time.Now()
		p.mu.Unlock()
	}()

	frame, err := p.source.Capture(ctx)
	if err != nil {
		p.recordError(err)
		return
	}

	label, err := p.classifier.Classify(ctx, frame)
	if err != nil {
		p.recordError(err)
		return
	}

	cmd, ok := MatchCommand(label)

	p.mu.Lock()
	p.lastLabel = label
	p.lastErr = ""
	if ok {
		p.lastCmd = cmd
	}
	p.mu.Unlock()

	if !ok || !rover.IsMovement(cmd) {
		return
	}

	if err := p.sink.Drive(ctx, cmd, "gesture"); err != nil {
		// Disconnected or powered-off rover: the pilot keeps looping,
		// it just has nowhere to send.
		if errors.Is(err, rover.ErrNotConnected) || errors.Is(err, rover.ErrPoweredOff) {
			log.Debug().Str("command", string(cmd)).Msg("Gesture command not transmitted")
			return
		}
		p.recordError(err)
	}
}

func (p *Pilot) recordError(err error) {
	log.Warn().Err(err).Msg("Gesture cycle failed")
	p.mu.Lock()
	p.lastErr = err.Error()
	p.mu.Unlock()
}
