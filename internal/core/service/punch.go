package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

const defaultMinGap = 60 * time.Second

// PunchService registers live scans one at a time: debounce, registry
// check, slot assignment, synchronous ledger persistence.
type PunchService struct {
	state   *state.State
	records ports.AttendanceRepository
	minGap  time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewPunchService returns a PunchService. minGap <= 0 selects the 60s default.
func NewPunchService(st *state.State, records ports.AttendanceRepository, minGap time.Duration, log zerolog.Logger) *PunchService {
	if minGap <= 0 {
		minGap = defaultMinGap
	}
	return &PunchService{
		state:   st,
		records: records,
		minGap:  minGap,
		now:     time.Now,
		log:     log,
	}
}

// Register implements ports.PunchService.
//
// The debounce cache is updated on every attempt, accepted or not, so
// consecutive fast taps each push the deadline forward; an unregistered
// card still consumes the debounce slot (anti-flood). Rejections come back
// as domain sentinel errors.
func (s *PunchService) Register(ctx context.Context, uid string) (domain.Punch, error) {
	uid = domain.NormalizeUID(uid)
	if uid == "" {
		return domain.Punch{}, domain.ErrEmptyUID
	}

	now := s.now()

	var (
		punch   domain.Punch
		reject  error
		saveErr error
	)
	s.state.Update(func(d *state.Data) {
		last, seen := d.LastPunch[uid]
		d.LastPunch[uid] = now
		if seen && now.Sub(last) < s.minGap {
			reject = domain.ErrRepeatedTouch
			return
		}

		name, ok := d.Employees[uid]
		if !ok {
			reject = domain.ErrUnknownUID
			return
		}

		date := now.Format(dateLayout)
		hhmm := now.Format(clockLayout)
		day := d.Records.Day(uid, date)
		ev, filled := day.Fill(hhmm)
		if !filled {
			reject = domain.ErrDayComplete
			return
		}

		punch = domain.Punch{
			UID:     uid,
			Name:    name,
			Event:   ev,
			Time:    hhmm,
			Date:    date,
			Message: fmt.Sprintf("%s: %s at %s (%s)", name, ev.Label(), hhmm, date),
		}

		// Persist while still holding the lock so saved snapshots can
		// never be reordered against a concurrent writer.
		saveErr = s.records.Save(ctx, d.Records)
	})

	if reject != nil {
		return domain.Punch{}, reject
	}
	if saveErr != nil {
		s.log.Error().Err(saveErr).Str("uid", uid).Msg("ledger save failed after punch")
		return domain.Punch{}, fmt.Errorf("save records: %w", saveErr)
	}

	s.log.Info().
		Str("uid", uid).
		Str("event", string(punch.Event)).
		Str("date", punch.Date).
		Msg("punch registered")

	return punch, nil
}
