package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

func TestWorkedMinutes(t *testing.T) {
	cases := []struct {
		name string
		day  domain.DayRecord
		want int
	}{
		{
			name: "full day with interval",
			day: domain.DayRecord{
				domain.EventEntrada:        "08:00",
				domain.EventSaidaIntervalo: "12:00",
				domain.EventVoltaIntervalo: "13:00",
				domain.EventSaida:          "17:00",
			},
			want: 8 * 60,
		},
		{
			name: "no interval marks",
			day: domain.DayRecord{
				domain.EventEntrada: "08:00",
				domain.EventSaida:   "12:30",
			},
			want: 4*60 + 30,
		},
		{
			name: "half-filled interval not deducted",
			day: domain.DayRecord{
				domain.EventEntrada:        "08:00",
				domain.EventSaidaIntervalo: "12:00",
				domain.EventSaida:          "16:00",
			},
			want: 8 * 60,
		},
		{name: "missing saida", day: domain.DayRecord{domain.EventEntrada: "08:00"}, want: 0},
		{name: "empty day", day: domain.DayRecord{}, want: 0},
		{
			name: "negative clamped to zero",
			day: domain.DayRecord{
				domain.EventEntrada: "17:00",
				domain.EventSaida:   "08:00",
			},
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WorkedMinutes(tc.day); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestReportMonth(t *testing.T) {
	st := state.New(
		domain.Registry{"04A1B2C3": "Ana", "DEADBEEF": "Bruno"},
		domain.Ledger{
			"04A1B2C3": {
				"2025-03-10": domain.DayRecord{
					domain.EventEntrada: "08:00",
					domain.EventSaida:   "12:00",
				},
			},
		},
	)
	svc := NewReportService(st, nil, zerolog.Nop())

	reports, err := svc.Month(context.Background(), "2025-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Name != "Ana" || reports[1].Name != "Bruno" {
		t.Errorf("reports must be sorted by name: %s, %s", reports[0].Name, reports[1].Name)
	}

	ana := reports[0]
	if len(ana.Days) != 31 {
		t.Errorf("march has 31 days, got %d", len(ana.Days))
	}
	if ana.TotalMinutes != 4*60 {
		t.Errorf("total minutes = %d, want 240", ana.TotalMinutes)
	}
	if ana.Days[9].Date != "2025-03-10" || ana.Days[9].WorkedMinutes != 240 {
		t.Errorf("unexpected day row: %+v", ana.Days[9])
	}
}

func TestReportMonth_InvalidMonth(t *testing.T) {
	svc := NewReportService(state.New(nil, nil), nil, zerolog.Nop())

	for _, month := range []string{"2025", "2025-13", "03-2025", "2025-3"} {
		if _, err := svc.Month(context.Background(), month); !errors.Is(err, domain.ErrInvalidMonth) {
			t.Errorf("month %q: got %v, want ErrInvalidMonth", month, err)
		}
	}
}
