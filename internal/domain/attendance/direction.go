package attendance

import "strings"

// Direction is the closed set of punch directions the core works with.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionIn
	DirectionOut
	DirectionBreakOut
	DirectionBreakIn
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionBreakOut:
		return "break_out"
	case DirectionBreakIn:
		return "break_in"
	default:
		return "unknown"
	}
}

// PunchType maps a resolved direction onto the persisted punch type.
func (d Direction) PunchType() (PunchType, bool) {
	switch d {
	case DirectionIn:
		return PunchIn, true
	case DirectionOut:
		return PunchOut, true
	case DirectionBreakOut:
		return PunchBreakOut, true
	case DirectionBreakIn:
		return PunchBreakIn, true
	}
	return "", false
}

// Device vocabularies seen in the field. Keys are lowercased with spaces and
// dashes folded to underscores.
var directionTable = map[string]Direction{
	"in":          DirectionIn,
	"i":           DirectionIn,
	"1":           DirectionIn,
	"checkin":     DirectionIn,
	"check_in":    DirectionIn,
	"clockin":     DirectionIn,
	"clock_in":    DirectionIn,
	"timein":      DirectionIn,
	"time_in":     DirectionIn,
	"c/in":        DirectionIn,
	"out":         DirectionOut,
	"o":           DirectionOut,
	"2":           DirectionOut,
	"checkout":    DirectionOut,
	"check_out":   DirectionOut,
	"clockout":    DirectionOut,
	"clock_out":   DirectionOut,
	"timeout":     DirectionOut,
	"time_out":    DirectionOut,
	"c/out":       DirectionOut,
	"3":           DirectionBreakOut,
	"breakout":    DirectionBreakOut,
	"break_out":   DirectionBreakOut,
	"break_start": DirectionBreakOut,
	"lunchout":    DirectionBreakOut,
	"lunch_out":   DirectionBreakOut,
	"4":           DirectionBreakIn,
	"breakin":     DirectionBreakIn,
	"break_in":    DirectionBreakIn,
	"break_end":   DirectionBreakIn,
	"lunchin":     DirectionBreakIn,
	"lunch_in":    DirectionBreakIn,
}

// NormalizeDirection converts a raw device tag into a Direction. Anything
// not in the table is DirectionUnknown.
func NormalizeDirection(raw string) Direction {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if d, ok := directionTable[key]; ok {
		return d
	}
	return DirectionUnknown
}
