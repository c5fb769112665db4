package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

const monthLayout = "2006-01"

// MonthRenderer turns a computed month into a downloadable workbook.
// Implemented by the excel infrastructure package.
type MonthRenderer interface {
	RenderMonth(month string, reports []ports.EmployeeReport) ([]byte, error)
}

// ReportService computes monthly worked-hours summaries.
type ReportService struct {
	state    *state.State
	renderer MonthRenderer
	log      zerolog.Logger
}

func NewReportService(st *state.State, renderer MonthRenderer, log zerolog.Logger) *ReportService {
	return &ReportService{state: st, renderer: renderer, log: log}
}

// Month builds one report per employee covering every calendar day of the
// given YYYY-MM month, sorted by display name.
func (s *ReportService) Month(ctx context.Context, month string) ([]ports.EmployeeReport, error) {
	first, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	employees := s.state.Employees()
	records := s.state.Records()

	uids := make([]string, 0, len(employees))
	for uid := range employees {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool {
		ni, nj := strings.ToLower(employees[uids[i]]), strings.ToLower(employees[uids[j]])
		if ni != nj {
			return ni < nj
		}
		return uids[i] < uids[j]
	})

	reports := make([]ports.EmployeeReport, 0, len(uids))
	for _, uid := range uids {
		rep := ports.EmployeeReport{UID: uid, Name: employees[uid]}

		for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
			date := d.Format(dateLayout)
			day := records[uid][date]
			worked := WorkedMinutes(day)
			rep.Days = append(rep.Days, ports.DaySummary{
				Date:          date,
				Events:        day,
				WorkedMinutes: worked,
			})
			rep.TotalMinutes += worked
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// ExportMonth renders the month as an XLSX workbook.
func (s *ReportService) ExportMonth(ctx context.Context, month string) ([]byte, string, error) {
	reports, err := s.Month(ctx, month)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.RenderMonth(month, reports)
	if err != nil {
		return nil, "", fmt.Errorf("render month %s: %w", month, err)
	}

	first, _ := parseMonth(month)
	filename := fmt.Sprintf("Registros_%s.xlsx", first.Format("01-2006"))
	return data, filename, nil
}

// WorkedMinutes computes the worked time of one day record:
// (saida − entrada) − (volta_intervalo − saida_intervalo), clamped at zero.
// Missing entrada or saida yields 0; a half-filled interval is not deducted.
func WorkedMinutes(day domain.DayRecord) int {
	entrada, okE := parseClock(day[domain.EventEntrada])
	saida, okS := parseClock(day[domain.EventSaida])
	if !okE || !okS {
		return 0
	}

	worked := saida - entrada

	si, okSI := parseClock(day[domain.EventSaidaIntervalo])
	vi, okVI := parseClock(day[domain.EventVoltaIntervalo])
	if okSI && okVI {
		worked -= vi - si
	}

	if worked < 0 {
		return 0
	}
	return worked
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func parseMonth(month string) (time.Time, error) {
	if len(month) != len(monthLayout) {
		return time.Time{}, domain.ErrInvalidMonth
	}
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, domain.ErrInvalidMonth
	}
	return t, nil
}
