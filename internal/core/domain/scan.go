package domain

// ScanRecord is one line of a device dump: a raw punch buffered on the
// reader's EEPROM while the host was offline. Discarded after merge.
type ScanRecord struct {
	UID       string `json:"uid"`
	Timestamp string `json:"ts"`  // ISO-8601-like, at least YYYY-MM-DDTHH:MM:SS
	Source    string `json:"src"` // origin tag, informational only
}
