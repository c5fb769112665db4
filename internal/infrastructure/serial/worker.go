package serial

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/pontonfc/ponto-system/internal/api/metrics"
	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

const (
	defaultReadBackoff = 300 * time.Millisecond
	defaultPausePoll   = 50 * time.Millisecond
)

// captureMailbox is the one-shot "learn the next scanned UID" rendezvous.
// Armed from the HTTP context, consumed inside the worker goroutine.
type captureMailbox struct {
	mu    sync.Mutex
	armed bool
}

func (c *captureMailbox) Arm() {
	c.mu.Lock()
	c.armed = true
	c.mu.Unlock()
}

// take consumes the armed flag, reporting whether it was set.
func (c *captureMailbox) take() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.armed {
		return false
	}
	c.armed = false
	return true
}

// ManagerConfig wires the manager's collaborators and tunables.
type ManagerConfig struct {
	Opener  ports.TransportOpener
	Lister  func() ([]string, error)
	Timings Timings
	// ReadBackoff is the pause after a transient read failure.
	ReadBackoff time.Duration
	// PausePoll is the sleep between pause-flag checks while paused.
	PausePoll time.Duration
}

// Manager runs at most one background worker goroutine that owns the
// serial transport, and implements ports.DeviceManager for the API.
type Manager struct {
	opener      ports.TransportOpener
	lister      func() ([]string, error)
	timings     Timings
	readBackoff time.Duration
	pausePoll   time.Duration

	state    *state.State
	punches  ports.PunchService
	records  ports.AttendanceRepository
	notifier ports.Notifier
	log      zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	port   string

	connected atomic.Bool
	paused    atomic.Bool
	capture   captureMailbox
}

func NewManager(
	cfg ManagerConfig,
	st *state.State,
	punches ports.PunchService,
	records ports.AttendanceRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *Manager {
	if cfg.Opener == nil {
		cfg.Opener = Opener(DefaultBaudRate, DefaultReadTimeout)
	}
	if cfg.Lister == nil {
		cfg.Lister = ListPorts
	}
	if cfg.Timings == (Timings{}) {
		cfg.Timings = DefaultTimings()
	}
	if cfg.ReadBackoff <= 0 {
		cfg.ReadBackoff = defaultReadBackoff
	}
	if cfg.PausePoll <= 0 {
		cfg.PausePoll = defaultPausePoll
	}
	return &Manager{
		opener:      cfg.Opener,
		lister:      cfg.Lister,
		timings:     cfg.Timings,
		readBackoff: cfg.ReadBackoff,
		pausePoll:   cfg.PausePoll,
		state:       st,
		punches:     punches,
		records:     records,
		notifier:    notifier,
		log:         log,
	}
}

// Connect opens the port and starts the worker goroutine. The open happens
// synchronously so an unreachable port fails this call instead of a
// background retry; the offline batch sync then runs on the worker before
// live scanning begins.
func (m *Manager) Connect(portName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected.Load() {
		return domain.ErrDeviceConnected
	}

	t, err := m.opener(portName)
	if err != nil {
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindError,
			Message: fmt.Sprintf("failed to open port %s: %v", portName, err),
		})
		return fmt.Errorf("connect %s: %w", portName, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.port = portName
	m.connected.Store(true)
	m.paused.Store(false)

	go m.run(ctx, t, portName)
	return nil
}

// Disconnect requests a cooperative stop and waits for the worker to
// exit; the wait is bounded by the transport read timeout.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	if !m.connected.Load() {
		m.mu.Unlock()
		return domain.ErrDeviceNotConnected
	}
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Pause suspends live scanning without tearing down the connection.
func (m *Manager) Pause() error {
	if !m.connected.Load() {
		return domain.ErrDeviceNotConnected
	}
	m.paused.Store(true)
	return nil
}

// Resume re-enables live scanning.
func (m *Manager) Resume() error {
	if !m.connected.Load() {
		return domain.ErrDeviceNotConnected
	}
	m.paused.Store(false)
	return nil
}

// Status implements ports.DeviceManager.
func (m *Manager) Status() ports.DeviceStatus {
	st := ports.DeviceStatus{
		Connected: m.connected.Load(),
		Paused:    m.paused.Load(),
	}
	if st.Connected {
		m.mu.Lock()
		st.Port = m.port
		m.mu.Unlock()
	}
	return st
}

// ArmCapture makes the next scanned UID be reported instead of registered.
func (m *Manager) ArmCapture() error {
	if !m.connected.Load() {
		return domain.ErrDeviceNotConnected
	}
	m.capture.Arm()
	m.notifier.Publish(domain.Notification{
		Kind:    domain.KindLog,
		Message: "capture armed: present a card to read its UID",
	})
	return nil
}

// ListPorts implements ports.DeviceManager.
func (m *Manager) ListPorts() ([]string, error) {
	return m.lister()
}

// run is the worker goroutine: offline sync first, then the live scan
// loop until the context is cancelled or the transport fails hard.
func (m *Manager) run(ctx context.Context, t ports.LineTransport, portName string) {
	defer func() {
		_ = t.Close()
		m.connected.Store(false)
		m.paused.Store(false)
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindDisconnected,
			Message: "serial disconnected",
		})
		close(m.done)
	}()

	m.initialSync(ctx, t, portName)
	m.liveLoop(ctx, t)
}

func (m *Manager) liveLoop(ctx context.Context, t ports.LineTransport) {
	for {
		if ctx.Err() != nil {
			return
		}
		if m.paused.Load() {
			sleepCtx(ctx, m.pausePoll)
			continue
		}

		line, err := t.ReadLine()
		if err != nil {
			var portErr *serial.PortError
			if errors.As(err, &portErr) {
				m.notifier.Publish(domain.Notification{
					Kind:    domain.KindError,
					Message: fmt.Sprintf("serial connection lost: %v", err),
				})
				return
			}
			metrics.SerialReadErrorsTotal.Inc()
			m.log.Warn().Err(err).Msg("serial read failed, backing off")
			m.notifier.Publish(domain.Notification{
				Kind:    domain.KindLog,
				Message: fmt.Sprintf("read failure: %v", err),
			})
			sleepCtx(ctx, m.readBackoff)
			continue
		}
		if line == "" {
			continue
		}

		uid, ok := ExtractUID(line)
		if !ok {
			continue
		}

		if m.capture.take() {
			m.ack(t, true)
			m.notifier.Publish(domain.Notification{
				Kind:    domain.KindUIDCaptured,
				UID:     uid,
				Message: fmt.Sprintf("captured UID %s", uid),
			})
			continue
		}

		m.handlePunch(ctx, t, uid)
	}
}

func (m *Manager) handlePunch(ctx context.Context, t ports.LineTransport, uid string) {
	punch, err := m.punches.Register(ctx, uid)
	m.ack(t, err == nil)

	if err != nil {
		metrics.PunchesRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindError,
			UID:     uid,
			Message: fmt.Sprintf("UID %s: %v", uid, err),
		})
		return
	}

	metrics.PunchesAcceptedTotal.WithLabelValues(string(punch.Event)).Inc()
	m.notifier.Publish(domain.Notification{
		Kind:    domain.KindSuccess,
		UID:     uid,
		Message: punch.Message,
	})
	m.notifier.Publish(domain.Notification{Kind: domain.KindDataChanged})
}

// ack sends the positive or negative acknowledgement token. A failed ack
// is logged and scanning continues; the device simply misses its beep.
func (m *Manager) ack(t ports.LineTransport, ok bool) {
	token := TokenAckOK
	if !ok {
		token = TokenAckErr
	}
	if err := t.WriteLine(token); err != nil {
		m.log.Warn().Err(err).Str("token", token).Msg("failed to send ack")
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindLog,
			Message: fmt.Sprintf("failed to send %s ack: %v", token, err),
		})
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrRepeatedTouch):
		return "repeated_touch"
	case errors.Is(err, domain.ErrUnknownUID):
		return "unknown_uid"
	case errors.Is(err, domain.ErrDayComplete):
		return "day_complete"
	case errors.Is(err, domain.ErrEmptyUID):
		return "empty_uid"
	}
	return "error"
}

// sleepCtx sleeps for d unless ctx is cancelled first; reports whether the
// full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
