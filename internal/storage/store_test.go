package storage

import (
	"testing"
	"time"
)

var checkTime = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func TestIsFresh_WithinTTL(t *testing.T) {
	r := Record{CreatedUTC: NowUTC(checkTime.Add(-time.Hour))}
	if !IsFresh(r, 7*24*time.Hour, checkTime) {
		t.Error("a 1h-old record must be fresh under a 7d TTL")
	}
}

func TestIsFresh_PastTTL(t *testing.T) {
	r := Record{CreatedUTC: NowUTC(checkTime.Add(-8 * 24 * time.Hour))}
	if IsFresh(r, 7*24*time.Hour, checkTime) {
		t.Error("an 8d-old record must be stale under a 7d TTL")
	}
}

func TestIsFresh_ExactBoundaryIsFresh(t *testing.T) {
	ttl := 7 * 24 * time.Hour
	r := Record{CreatedUTC: NowUTC(checkTime.Add(-ttl))}
	if !IsFresh(r, ttl, checkTime) {
		t.Error("a record exactly TTL old still counts as fresh")
	}
}

func TestIsFresh_UnparseableTimestampIsStale(t *testing.T) {
	for _, ts := range []string{"", "not-a-time", "2026-13-45"} {
		if IsFresh(Record{CreatedUTC: ts}, 7*24*time.Hour, checkTime) {
			t.Errorf("record with timestamp %q must never be fresh", ts)
		}
	}
}
