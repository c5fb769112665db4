package serial

import (
	"context"
	"fmt"
	"time"

	"github.com/pontonfc/ponto-system/internal/api/metrics"
	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
	"github.com/pontonfc/ponto-system/internal/core/service"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

// Timings are the fixed delays of the connect-time synchronization.
type Timings struct {
	// BootDelay is the wait after opening the port: opening the transport
	// can itself reset the device.
	BootDelay time.Duration
	// DrainWindow bounds the boot-banner flush before the first EDUMP.
	DrainWindow time.Duration
	// RetryDrainWindow is the shorter flush before the retry.
	RetryDrainWindow time.Duration
	// RetryDelay is the pause before retrying a dump that never started.
	RetryDelay time.Duration
	// DumpTimeout bounds one whole EDUMP transcript.
	DumpTimeout time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		BootDelay:        3 * time.Second,
		DrainWindow:      800 * time.Millisecond,
		RetryDrainWindow: 500 * time.Millisecond,
		RetryDelay:       time.Second,
		DumpTimeout:      15 * time.Second,
	}
}

// initialSync drains the device's offline batch on (re)connect: wait for
// the device reset, flush boot noise, request the dump (with one retry if
// EBEGIN never shows), merge, persist, and clear the device buffer. All
// outcomes are non-fatal: live scanning proceeds regardless.
func (m *Manager) initialSync(ctx context.Context, t ports.LineTransport, portName string) {
	m.notifier.Publish(domain.Notification{
		Kind: domain.KindLog,
		Message: fmt.Sprintf("connected on %s, waiting for device reset (%.1fs)",
			portName, m.timings.BootDelay.Seconds()),
	})

	if !sleepCtx(ctx, m.timings.BootDelay) {
		return
	}
	m.drainLines(ctx, t, m.timings.DrainWindow)

	started, lines, err := m.collectDump(ctx, t)
	if err == nil && !started && ctx.Err() == nil {
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindLog,
			Message: "no EBEGIN on first attempt, retrying",
		})
		if !sleepCtx(ctx, m.timings.RetryDelay) {
			return
		}
		m.drainLines(ctx, t, m.timings.RetryDrainWindow)
		started, lines, err = m.collectDump(ctx, t)
	}

	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindError,
			Message: fmt.Sprintf("offline sync failed: %v", err),
		})
		return
	}
	if !started {
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindLog,
			Message: "device did not answer EDUMP on connect, skipping offline sync",
		})
		return
	}

	m.applyDump(ctx, t, lines)
}

// collectDump sends EDUMP and gathers the lines between EBEGIN and EEND
// under the dump timeout. A read error aborts the transcript without
// merging: the batch stays on the device and is re-offered next connect.
func (m *Manager) collectDump(ctx context.Context, t ports.LineTransport) (started bool, lines []string, err error) {
	_ = t.ResetInput()
	if err := t.WriteLine(CmdDump); err != nil {
		return false, nil, fmt.Errorf("request dump: %w", err)
	}

	deadline := time.Now().Add(m.timings.DumpTimeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false, nil, nil
		}

		line, err := t.ReadLine()
		if err != nil {
			return started, nil, fmt.Errorf("read dump: %w", err)
		}
		if line == "" {
			continue
		}
		if line == TokenDumpBegin {
			started = true
			continue
		}
		if line == TokenDumpEnd {
			break
		}
		if started {
			lines = append(lines, line)
		}
	}
	return started, lines, nil
}

// applyDump merges the transcript into the ledger and, when anything new
// landed, persists and asks the device to clear its buffer. A panic while
// parsing or merging is reported as a sync failure, never allowed to kill
// the live loop that follows.
func (m *Manager) applyDump(ctx context.Context, t ports.LineTransport, lines []string) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
			m.log.Error().Interface("panic", r).Msg("dump processing panicked")
			m.notifier.Publish(domain.Notification{
				Kind:    domain.KindError,
				Message: fmt.Sprintf("failed to process dump: %v", r),
			})
		}
	}()

	var (
		res     service.MergeResult
		saveErr error
	)
	m.state.Update(func(d *state.Data) {
		res = service.MergeScans(lines, d.Employees, d.Records)
		if res.New > 0 {
			saveErr = m.records.Save(ctx, d.Records)
		}
	})

	metrics.SyncScansTotal.WithLabelValues("merged").Add(float64(res.New))
	metrics.SyncScansTotal.WithLabelValues("ignored").Add(float64(res.Ignored))
	metrics.SyncScansTotal.WithLabelValues("dropped").Add(float64(res.Dropped))

	if saveErr != nil {
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindError,
			Message: fmt.Sprintf("failed to persist merged batch: %v", saveErr),
		})
		return
	}

	if res.New == 0 {
		metrics.SyncRunsTotal.WithLabelValues("empty").Inc()
		msg := "no pending punches on device"
		if res.Ignored > 0 {
			msg = fmt.Sprintf("0 valid punches, %d ignored (unregistered or malformed)", res.Ignored)
		}
		m.notifier.Publish(domain.Notification{Kind: domain.KindLog, Message: msg})
		return
	}

	// Clearing is best effort: on failure the device re-offers the same
	// batch next connect and the merge re-run assigns nothing new.
	if err := t.WriteLine(CmdClear); err != nil {
		m.log.Warn().Err(err).Msg("failed to send ECLEAR")
		m.notifier.Publish(domain.Notification{
			Kind:    domain.KindLog,
			Message: fmt.Sprintf("failed to send ECLEAR: %v", err),
		})
	}

	metrics.SyncRunsTotal.WithLabelValues("merged").Inc()
	msg := fmt.Sprintf("imported %d pending punches", res.New)
	if res.Ignored > 0 {
		msg += fmt.Sprintf(", %d ignored", res.Ignored)
	}
	if res.Dropped > 0 {
		msg += fmt.Sprintf(", %d dropped (day already complete)", res.Dropped)
	}
	m.notifier.Publish(domain.Notification{Kind: domain.KindSuccess, Message: msg})
	m.notifier.Publish(domain.Notification{Kind: domain.KindDataChanged})
}

// drainLines reads and discards lines for at most window, stopping early
// on the first empty tick, to flush boot banner noise.
func (m *Manager) drainLines(ctx context.Context, t ports.LineTransport, window time.Duration) {
	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return
		}
		line, err := t.ReadLine()
		if err != nil || line == "" {
			return
		}
	}
}
