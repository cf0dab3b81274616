package combat

import (
	"time"

	"turf-war/server/internal/physics"
)

// ProjectileRecord is the server-retained description of a validated fire,
// keyed by the client-supplied fire timestamp. It is what makes a later
// client-reported hit checkable.
type ProjectileRecord struct {
	PlayerID  string
	FiredAt   int64 // client timestamp, unix milliseconds
	Origin    physics.Vec3
	Direction physics.Vec3 // unit vector
	Speed     float64
	Gravity   physics.Vec3
	Lifetime  time.Duration
	expiresAt time.Time
}

// VelocityAtLaunch returns the initial velocity vector.
func (r ProjectileRecord) VelocityAtLaunch() physics.Vec3 {
	return r.Direction.Scale(r.Speed)
}

// RecordStore holds pending projectile records per firing player. Records
// expire after the projectile's lifetime plus ping slack and are used at most
// once. Driven only from the hub goroutine.
type RecordStore struct {
	records map[string]map[int64]ProjectileRecord
}

// NewRecordStore builds an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string]map[int64]ProjectileRecord)}
}

// Insert files a record. A duplicate (player, timestamp) pair is refused:
// one record per fire event.
func (s *RecordStore) Insert(record ProjectileRecord, now time.Time, slack time.Duration) bool {
	byTime := s.records[record.PlayerID]
	if byTime == nil {
		byTime = make(map[int64]ProjectileRecord)
		s.records[record.PlayerID] = byTime
	}
	if _, exists := byTime[record.FiredAt]; exists {
		return false
	}
	record.expiresAt = now.Add(record.Lifetime + slack)
	byTime[record.FiredAt] = record
	return true
}

// Take consumes the record for a claimed fire timestamp. Missing or expired
// records fail the lookup; a successful lookup removes the record so it
// validates exactly one hit.
func (s *RecordStore) Take(playerID string, firedAt int64, now time.Time) (ProjectileRecord, bool) {
	byTime, ok := s.records[playerID]
	if !ok {
		return ProjectileRecord{}, false
	}
	record, ok := byTime[firedAt]
	if !ok {
		return ProjectileRecord{}, false
	}
	delete(byTime, firedAt)
	if now.After(record.expiresAt) {
		return ProjectileRecord{}, false
	}
	return record, true
}

// PurgeExpired drops stale records; called from the tick loop in place of
// per-record timers.
func (s *RecordStore) PurgeExpired(now time.Time) int {
	purged := 0
	for playerID, byTime := range s.records {
		for firedAt, record := range byTime {
			if now.After(record.expiresAt) {
				delete(byTime, firedAt)
				purged++
			}
		}
		if len(byTime) == 0 {
			delete(s.records, playerID)
		}
	}
	return purged
}

// Forget drops every record of a disconnecting player.
func (s *RecordStore) Forget(playerID string) {
	delete(s.records, playerID)
}

// Len reports the number of pending records, for diagnostics.
func (s *RecordStore) Len() int {
	total := 0
	for _, byTime := range s.records {
		total += len(byTime)
	}
	return total
}
