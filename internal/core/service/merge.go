package service

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

const (
	scanTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
)

// MergeResult reports the outcome of merging one device dump.
type MergeResult struct {
	// New is the number of slots assigned by this merge.
	New int
	// Ignored counts records rejected as input errors: malformed lines,
	// unknown UIDs, truncated or unparseable timestamps.
	Ignored int
	// Dropped counts well-formed scans discarded because the day record
	// was already complete. Kept separate from Ignored so audit counts
	// do not under-report noise.
	Dropped int
}

// MergeScans folds an unordered batch of dump lines into the ledger.
// Records are grouped by (uid, date), sorted by time of day, and assigned
// to the first missing canonical slot; filled slots are never overwritten,
// which makes the merge idempotent and safe to retry after a partial
// failure. The ledger is mutated in place; the caller owns persistence.
func MergeScans(lines []string, registry domain.Registry, ledger domain.Ledger) MergeResult {
	var res MergeResult

	known := make(map[string]struct{}, len(registry))
	for uid := range registry {
		known[domain.NormalizeUID(uid)] = struct{}{}
	}

	type bucketKey struct {
		uid  string
		date string
	}
	buckets := make(map[bucketKey][]string)
	var order []bucketKey

	for _, raw := range lines {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		var rec domain.ScanRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			res.Ignored++
			continue
		}

		uid := domain.NormalizeUID(rec.UID)
		if uid == "" {
			res.Ignored++
			continue
		}
		if _, ok := known[uid]; !ok {
			res.Ignored++
			continue
		}

		ts := strings.TrimSpace(rec.Timestamp)
		if len(ts) < 19 {
			res.Ignored++
			continue
		}
		dt, err := time.Parse(scanTimeLayout, ts[:19])
		if err != nil {
			res.Ignored++
			continue
		}

		k := bucketKey{uid: uid, date: dt.Format(dateLayout)}
		if _, seen := buckets[k]; !seen {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], dt.Format(clockLayout))
	}

	for _, k := range order {
		times := buckets[k]
		sort.Strings(times)

		day := ledger.Day(k.uid, k.date)
		for i, hhmm := range times {
			if day.Complete() {
				res.Dropped += len(times) - i
				break
			}
			if _, ok := day.Fill(hhmm); ok {
				res.New++
			}
		}
	}

	return res
}
