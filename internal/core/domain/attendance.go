package domain

import (
	"errors"
	"strings"
)

// EventName identifies one of the four daily punch slots.
type EventName string

const (
	EventEntrada        EventName = "entrada"
	EventSaidaIntervalo EventName = "saida_intervalo"
	EventVoltaIntervalo EventName = "volta_intervalo"
	EventSaida          EventName = "saida"
)

// CanonicalEvents is the fixed order in which a day's slots are filled.
// A day record never has a later slot set while an earlier one is empty.
var CanonicalEvents = []EventName{
	EventEntrada,
	EventSaidaIntervalo,
	EventVoltaIntervalo,
	EventSaida,
}

var ErrEmptyUID = errors.New("empty identifier")
var ErrRepeatedTouch = errors.New("repeated touch within debounce window")
var ErrUnknownUID = errors.New("identity not registered")
var ErrDayComplete = errors.New("day already complete")
var ErrInvalidUID = errors.New("invalid identifier")
var ErrEmployeeExists = errors.New("identifier already registered")
var ErrEmployeeNotFound = errors.New("employee not found")
var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrDeviceConnected = errors.New("device already connected")
var ErrDeviceNotConnected = errors.New("device not connected")

// Label returns the human-readable form of the event name
// ("saida_intervalo" → "saida intervalo").
func (e EventName) Label() string {
	return strings.ReplaceAll(string(e), "_", " ")
}

// DayRecord maps an event name to its "HH:MM" time of day. Slots are only
// ever assigned through Fill, which keeps the set of filled slots a prefix
// of CanonicalEvents; a slot, once set, is never overwritten.
type DayRecord map[EventName]string

// NextMissing returns the first canonical slot that has no time yet.
func (d DayRecord) NextMissing() (EventName, bool) {
	for _, ev := range CanonicalEvents {
		if _, ok := d[ev]; !ok {
			return ev, true
		}
	}
	return "", false
}

// Complete reports whether all four slots are filled.
func (d DayRecord) Complete() bool {
	_, missing := d.NextMissing()
	return !missing
}

// Fill assigns hhmm to the first missing slot and returns it.
// It returns false when the day is already complete.
func (d DayRecord) Fill(hhmm string) (EventName, bool) {
	ev, ok := d.NextMissing()
	if !ok {
		return "", false
	}
	d[ev] = hhmm
	return ev, true
}

// Clone returns a copy of the day record.
func (d DayRecord) Clone() DayRecord {
	out := make(DayRecord, len(d))
	for ev, hhmm := range d {
		out[ev] = hhmm
	}
	return out
}

// Ledger is the attendance record set: uid → ISO date (YYYY-MM-DD) → day record.
type Ledger map[string]map[string]DayRecord

// Day returns the day record for (uid, date), creating it when absent.
func (l Ledger) Day(uid, date string) DayRecord {
	days, ok := l[uid]
	if !ok {
		days = make(map[string]DayRecord)
		l[uid] = days
	}
	day, ok := days[date]
	if !ok {
		day = make(DayRecord)
		days[date] = day
	}
	return day
}

// Clone returns a deep copy, safe to hand to readers outside the state lock.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for uid, days := range l {
		cd := make(map[string]DayRecord, len(days))
		for date, day := range days {
			cd[date] = day.Clone()
		}
		out[uid] = cd
	}
	return out
}

// Punch is the outcome of one accepted live scan.
type Punch struct {
	UID     string    `json:"uid"`
	Name    string    `json:"name"`
	Event   EventName `json:"event"`
	Time    string    `json:"time"`
	Date    string    `json:"date"`
	Message string    `json:"message"`
}
