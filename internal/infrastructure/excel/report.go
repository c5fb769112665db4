// Package excel renders monthly attendance reports as XLSX workbooks:
// one sheet per employee plus a leading summary sheet with totals.
package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
)

const (
	summarySheet = "Resumo"
	dateLayout   = "2006-01-02"

	// maxSheetTitle is the XLSX limit on sheet names.
	maxSheetTitle = 31
)

// weekdayNames is indexed Monday-first to match the printed reports.
var weekdayNames = [7]string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

var dayColumns = []string{"Data", "Dia", "Entrada", "Saída Intervalo", "Volta Intervalo", "Saída", "Horas"}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// styleSet holds the style IDs registered once per workbook.
type styleSet struct {
	header    int
	cell      int
	hours     int
	total     int
	totalText int
}

func (r *Renderer) RenderMonth(month string, reports []ports.EmployeeReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	styles, err := registerStyles(f)
	if err != nil {
		return nil, err
	}

	used := map[string]bool{summarySheet: true}
	for _, rep := range reports {
		if err := writeEmployeeSheet(f, styles, rep, used); err != nil {
			return nil, fmt.Errorf("sheet for %s: %w", rep.UID, err)
		}
	}

	if err := writeSummarySheet(f, styles, month, reports); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEmployeeSheet(f *excelize.File, styles styleSet, rep ports.EmployeeReport, used map[string]bool) error {
	title := sheetTitle(rep, used)
	if _, err := f.NewSheet(title); err != nil {
		return err
	}

	if err := f.SetSheetRow(title, "A1", &dayColumns); err != nil {
		return err
	}
	if err := f.SetCellStyle(title, "A1", "G1", styles.header); err != nil {
		return err
	}

	for i, day := range rep.Days {
		row := i + 2
		d, err := time.Parse(dateLayout, day.Date)
		if err != nil {
			return fmt.Errorf("day %s: %w", day.Date, err)
		}

		values := []any{
			d.Format("02/01/2006"),
			weekdayNames[(int(d.Weekday())+6)%7],
			day.Events[domain.EventEntrada],
			day.Events[domain.EventSaidaIntervalo],
			day.Events[domain.EventVoltaIntervalo],
			day.Events[domain.EventSaida],
			dayFraction(day.WorkedMinutes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(title, cell, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(title, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), styles.cell); err != nil {
			return err
		}
		if err := f.SetCellStyle(title, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), styles.hours); err != nil {
			return err
		}
	}

	totalRow := len(rep.Days) + 2
	f.SetCellValue(title, fmt.Sprintf("E%d", totalRow), "TOTAL")
	f.SetCellValue(title, fmt.Sprintf("G%d", totalRow), dayFraction(rep.TotalMinutes))
	if err := f.SetCellStyle(title, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("F%d", totalRow), styles.totalText); err != nil {
		return err
	}
	if err := f.SetCellStyle(title, fmt.Sprintf("G%d", totalRow), fmt.Sprintf("G%d", totalRow), styles.total); err != nil {
		return err
	}

	widths := []float64{11, 6, 10, 16, 16, 10, 9}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(title, col, col, w); err != nil {
			return err
		}
	}

	if err := freezeHeader(f, title); err != nil {
		return err
	}
	return f.AutoFilter(title, fmt.Sprintf("A1:G%d", totalRow), nil)
}

func writeSummarySheet(f *excelize.File, styles styleSet, month string, reports []ports.EmployeeReport) error {
	header := []any{"Funcionário", "UID", "Total Horas"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "C1", styles.header); err != nil {
		return err
	}

	if len(reports) == 0 {
		f.SetCellValue(summarySheet, "A2", "Sem registros para")
		f.SetCellValue(summarySheet, "B2", month)
	}
	for i, rep := range reports {
		row := i + 2
		values := []any{rep.Name, rep.UID, dayFraction(rep.TotalMinutes)}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), styles.cell); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), styles.hours); err != nil {
			return err
		}
	}

	f.SetColWidth(summarySheet, "A", "A", 36)
	f.SetColWidth(summarySheet, "B", "B", 20)
	f.SetColWidth(summarySheet, "C", "C", 12)

	if err := freezeHeader(f, summarySheet); err != nil {
		return err
	}
	return f.AutoFilter(summarySheet, fmt.Sprintf("A1:C%d", len(reports)+1), nil)
}

func registerStyles(f *excelize.File) (styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Color: "CCCCCC", Style: 1},
		{Type: "right", Color: "CCCCCC", Style: 1},
		{Type: "top", Color: "CCCCCC", Style: 1},
		{Type: "bottom", Color: "CCCCCC", Style: 1},
	}
	hoursFmt := "[h]:mm"

	var (
		s   styleSet
		err error
	)
	if s.header, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.cell, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.hours, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &hoursFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       border,
	}); err != nil {
		return s, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &hoursFmt,
		Font:         &excelize.Font{Bold: true},
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       border,
	}); err != nil {
		return s, err
	}
	s.totalText, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
	})
	return s, err
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// sheetTitle derives a workbook-safe, unique sheet name from the display
// name, falling back to the card UID.
func sheetTitle(rep ports.EmployeeReport, used map[string]bool) string {
	title := strings.TrimSpace(rep.Name)
	title = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "-", "?", "-", "[", "-", "]", "-").Replace(title)
	if r := []rune(title); len(r) > maxSheetTitle {
		title = string(r[:maxSheetTitle])
	}
	if title == "" {
		title = rep.UID
		if len(title) > 8 {
			title = title[:8]
		}
	}
	base := []rune(title)
	for n := 2; used[title]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetTitle {
			trimmed = trimmed[:maxSheetTitle-len(suffix)]
		}
		title = string(trimmed) + suffix
	}
	used[title] = true
	return title
}

// dayFraction converts worked minutes into the day-fraction convention
// spreadsheets use for the [h]:mm format.
func dayFraction(minutes int) float64 {
	return float64(minutes) / (24 * 60)
}
