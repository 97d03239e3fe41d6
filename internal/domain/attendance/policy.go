package attendance

import "time"

// Policy holds the tunable constants of the DTR pipeline.
type Policy struct {
	// Scans closer than this with a compatible direction are one scan.
	DuplicateTolerance time.Duration
	// Farthest a scan may sit from an expected schedule event and still match it.
	MatchProximity time.Duration
	// Appended to a cross-midnight schedule end when bounding scan windows.
	OverflowGrace time.Duration
	// How far before the scheduled start scans are still considered.
	EarlyWindow time.Duration
	// A single unbroken work span longer than this is assumed to contain an
	// unrecorded break when the schedule configures none.
	BreakInferenceMinSpanMinutes int
	// Break deducted when one is inferred.
	DefaultBreakMinutes int
	// Longest date range a single recompute request may cover.
	MaxRangeDays int
}

func DefaultPolicy() Policy {
	return Policy{
		DuplicateTolerance:           2 * time.Minute,
		MatchProximity:               4 * time.Hour,
		OverflowGrace:                2 * time.Hour,
		EarlyWindow:                  3 * time.Hour,
		BreakInferenceMinSpanMinutes: 300,
		DefaultBreakMinutes:          60,
		MaxRangeDays:                 62,
	}
}
