package service

import (
	"reflect"
	"testing"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

func testRegistry() domain.Registry {
	return domain.Registry{"04A1B2C3": "Ana"}
}

func TestMergeScans_EndToEnd(t *testing.T) {
	ledger := make(domain.Ledger)
	lines := []string{
		`{"uid":"04a1b2c3","ts":"2025-03-10T08:01:00","src":"eeprom"}`,
		`{"uid":"04a1b2c3","ts":"2025-03-10T12:00:00","src":"eeprom"}`,
		`{"uid":"FFFFFFFF","ts":"2025-03-10T08:05:00","src":"eeprom"}`,
	}

	res := MergeScans(lines, testRegistry(), ledger)

	if res.New != 2 || res.Ignored != 1 || res.Dropped != 0 {
		t.Fatalf("got new=%d ignored=%d dropped=%d, want 2/1/0", res.New, res.Ignored, res.Dropped)
	}

	want := domain.DayRecord{
		domain.EventEntrada:        "08:01",
		domain.EventSaidaIntervalo: "12:00",
	}
	if got := ledger["04A1B2C3"]["2025-03-10"]; !reflect.DeepEqual(got, want) {
		t.Errorf("day record mismatch: got %v, want %v", got, want)
	}
	if _, ok := ledger["FFFFFFFF"]; ok {
		t.Error("unregistered UID must not pollute the ledger")
	}
}

func TestMergeScans_Idempotent(t *testing.T) {
	lines := []string{
		`{"uid":"04A1B2C3","ts":"2025-03-10T08:01:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T12:00:00","src":"eeprom"}`,
	}

	ledger := make(domain.Ledger)
	MergeScans(lines, testRegistry(), ledger)
	once := ledger.Clone()

	res := MergeScans(lines, testRegistry(), ledger)
	if res.New != 0 {
		t.Errorf("re-run assigned %d new slots, want 0", res.New)
	}
	if !reflect.DeepEqual(ledger, once) {
		t.Errorf("ledger changed on re-run: got %v, want %v", ledger, once)
	}
}

func TestMergeScans_OutOfOrderFillsCanonicalOrder(t *testing.T) {
	lines := []string{
		`{"uid":"04A1B2C3","ts":"2025-03-10T17:30:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T08:01:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T13:02:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T12:00:00","src":"eeprom"}`,
	}

	ledger := make(domain.Ledger)
	res := MergeScans(lines, testRegistry(), ledger)
	if res.New != 4 {
		t.Fatalf("got %d new, want 4", res.New)
	}

	want := domain.DayRecord{
		domain.EventEntrada:        "08:01",
		domain.EventSaidaIntervalo: "12:00",
		domain.EventVoltaIntervalo: "13:02",
		domain.EventSaida:          "17:30",
	}
	if got := ledger["04A1B2C3"]["2025-03-10"]; !reflect.DeepEqual(got, want) {
		t.Errorf("day record mismatch: got %v, want %v", got, want)
	}
}

func TestMergeScans_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"malformed json", `{"uid":"04A1B2C3","ts":`},
		{"missing uid", `{"ts":"2025-03-10T08:01:00","src":"eeprom"}`},
		{"unknown uid", `{"uid":"FFFFFFFF","ts":"2025-03-10T08:01:00","src":"eeprom"}`},
		{"truncated timestamp", `{"uid":"04A1B2C3","ts":"2025-03-10T08:01","src":"eeprom"}`},
		{"unparseable timestamp", `{"uid":"04A1B2C3","ts":"2025-13-99TXX:01:00","src":"eeprom"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := make(domain.Ledger)
			res := MergeScans([]string{tc.line}, testRegistry(), ledger)
			if res.Ignored != 1 || res.New != 0 {
				t.Errorf("got new=%d ignored=%d, want 0/1", res.New, res.Ignored)
			}
			if len(ledger) != 0 {
				t.Errorf("ledger must stay untouched, got %v", ledger)
			}
		})
	}
}

func TestMergeScans_BlankLinesNotCounted(t *testing.T) {
	res := MergeScans([]string{"", "   ", "\t"}, testRegistry(), make(domain.Ledger))
	if res.New != 0 || res.Ignored != 0 || res.Dropped != 0 {
		t.Errorf("blank lines must not count: got %+v", res)
	}
}

func TestMergeScans_FullDayCountsDropped(t *testing.T) {
	lines := []string{
		`{"uid":"04A1B2C3","ts":"2025-03-10T08:00:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T12:00:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T13:00:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T17:00:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T18:00:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-10T19:00:00","src":"eeprom"}`,
	}

	ledger := make(domain.Ledger)
	res := MergeScans(lines, testRegistry(), ledger)

	if res.New != 4 || res.Dropped != 2 || res.Ignored != 0 {
		t.Errorf("got new=%d ignored=%d dropped=%d, want 4/0/2", res.New, res.Ignored, res.Dropped)
	}
	if got := ledger["04A1B2C3"]["2025-03-10"][domain.EventSaida]; got != "17:00" {
		t.Errorf("saida = %q, want 17:00 (stray reads must not overwrite)", got)
	}
}

func TestMergeScans_MultipleDaysAndEmployees(t *testing.T) {
	registry := domain.Registry{"04A1B2C3": "Ana", "DEADBEEF": "Bruno"}
	lines := []string{
		`{"uid":"04A1B2C3","ts":"2025-03-10T08:01:00","src":"eeprom"}`,
		`{"uid":"04A1B2C3","ts":"2025-03-11T08:03:00","src":"eeprom"}`,
		`{"uid":"deadbeef","ts":"2025-03-10T08:02:00","src":"eeprom"}`,
	}

	ledger := make(domain.Ledger)
	res := MergeScans(lines, registry, ledger)

	if res.New != 3 {
		t.Fatalf("got %d new, want 3", res.New)
	}
	if got := ledger["04A1B2C3"]["2025-03-11"][domain.EventEntrada]; got != "08:03" {
		t.Errorf("second day entrada = %q, want 08:03", got)
	}
	if got := ledger["DEADBEEF"]["2025-03-10"][domain.EventEntrada]; got != "08:02" {
		t.Errorf("lowercase uid must merge under normalized key, got %q", got)
	}
}
