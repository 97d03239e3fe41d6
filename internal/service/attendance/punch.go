package attendance

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
)

// Punch is a scan with a (possibly still unknown) direction.
type Punch struct {
	ScanEventID string
	At          time.Time
	Direction   attendance.Direction
}

// WorkPair is a continuous work interval. Out is nil when the time-out is missing.
type WorkPair struct {
	In  Punch
	Out *Punch
}

func (p WorkPair) Complete() bool {
	return p.Out != nil
}

// Minutes is zero for incomplete pairs.
func (p WorkPair) Minutes() int {
	if p.Out == nil {
		return 0
	}
	return max(0, minutesBetween(p.In.At, p.Out.At))
}

// BreakPair is a break interval; either side may be missing.
type BreakPair struct {
	Out *Punch
	In  *Punch
}

func (p BreakPair) Complete() bool {
	return p.Out != nil && p.In != nil
}

type PairResult struct {
	Pairs       []WorkPair
	BreakPairs  []BreakPair
	UnpairedIn  []Punch
	UnpairedOut []Punch
	FirstIn     *time.Time
	LastOut     *time.Time
}

// ExpectedEvent is a point in the schedule a scan is expected near.
type ExpectedEvent struct {
	At        time.Time
	Direction attendance.Direction
}

// PunchProcessor turns noisy scans into work and break intervals.
type PunchProcessor struct {
	policy attendance.Policy
}

func NewPunchProcessor(policy attendance.Policy) *PunchProcessor {
	return &PunchProcessor{policy: policy}
}

// PunchesFromScans normalizes raw scans into punches in loc.
func PunchesFromScans(scans []attendance.ScanEvent, loc *time.Location) []Punch {
	punches := make([]Punch, 0, len(scans))
	for _, s := range scans {
		punches = append(punches, Punch{
			ScanEventID: s.ID,
			At:          s.LoggedAt.In(loc),
			Direction:   s.Direction(),
		})
	}
	return punches
}

func sortPunches(punches []Punch) []Punch {
	sorted := slices.Clone(punches)
	slices.SortStableFunc(sorted, func(a, b Punch) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return cmp.Compare(a.ScanEventID, b.ScanEventID)
	})
	return sorted
}

// CollapseDuplicates sorts punches by time and folds scans that follow the
// last kept scan within the duplicate tolerance with a compatible direction.
// The earliest scan is kept; it adopts a known direction from its duplicate
// when its own is unknown.
func (p *PunchProcessor) CollapseDuplicates(punches []Punch) []Punch {
	sorted := sortPunches(punches)
	if len(sorted) == 0 {
		return sorted
	}

	kept := []Punch{sorted[0]}
	for _, punch := range sorted[1:] {
		last := &kept[len(kept)-1]
		if punch.At.Sub(last.At) <= p.policy.DuplicateTolerance && compatible(last.Direction, punch.Direction) {
			if last.Direction == attendance.DirectionUnknown {
				last.Direction = punch.Direction
			}
			continue
		}
		kept = append(kept, punch)
	}
	return kept
}

func compatible(a, b attendance.Direction) bool {
	return a == b || a == attendance.DirectionUnknown || b == attendance.DirectionUnknown
}

// ExpectedEvents lists the schedule points scans should land on: start (In),
// break start (Out), break end (In), end (Out). Break events are included
// only when both break bounds are known.
func ExpectedEvents(start, end, breakStart, breakEnd *time.Time) []ExpectedEvent {
	var events []ExpectedEvent
	if start != nil {
		events = append(events, ExpectedEvent{At: *start, Direction: attendance.DirectionIn})
	}
	if breakStart != nil && breakEnd != nil {
		events = append(events,
			ExpectedEvent{At: *breakStart, Direction: attendance.DirectionOut},
			ExpectedEvent{At: *breakEnd, Direction: attendance.DirectionIn},
		)
	}
	if end != nil {
		events = append(events, ExpectedEvent{At: *end, Direction: attendance.DirectionOut})
	}
	return events
}

type matchCandidate struct {
	punch    int
	event    int
	distance time.Duration
}

// MatchToSchedule fixes punch directions against the expected events.
// Punches with a device direction keep it and only reserve the nearest event
// of the same kind. Every other punch takes the nearest unclaimed event within
// the match proximity, ties going to the earliest event; punches left without
// an event are returned as dropped.
func (p *PunchProcessor) MatchToSchedule(punches []Punch, expected []ExpectedEvent) (matched []Punch, dropped []Punch) {
	sorted := sortPunches(punches)
	claimedEvent := make([]bool, len(expected))
	assigned := make([]bool, len(sorted))

	var known, unknown []matchCandidate
	for i, punch := range sorted {
		for j, ev := range expected {
			distance := punch.At.Sub(ev.At).Abs()
			if distance > p.policy.MatchProximity {
				continue
			}
			c := matchCandidate{punch: i, event: j, distance: distance}
			if punch.Direction == attendance.DirectionUnknown {
				unknown = append(unknown, c)
			} else if sameFamily(punch.Direction, ev.Direction) {
				known = append(known, c)
			}
		}
	}

	claim := func(candidates []matchCandidate, apply bool) {
		slices.SortStableFunc(candidates, func(a, b matchCandidate) int {
			if c := cmp.Compare(a.distance, b.distance); c != 0 {
				return c
			}
			if c := expected[a.event].At.Compare(expected[b.event].At); c != 0 {
				return c
			}
			if c := cmp.Compare(a.event, b.event); c != 0 {
				return c
			}
			return cmp.Compare(a.punch, b.punch)
		})
		for _, c := range candidates {
			if assigned[c.punch] || claimedEvent[c.event] {
				continue
			}
			assigned[c.punch] = true
			claimedEvent[c.event] = true
			if apply {
				sorted[c.punch].Direction = expected[c.event].Direction
			}
		}
	}
	claim(known, false)
	claim(unknown, true)

	for i, punch := range sorted {
		if assigned[i] || punch.Direction != attendance.DirectionUnknown {
			matched = append(matched, punch)
			continue
		}
		dropped = append(dropped, punch)
	}
	return matched, dropped
}

// sameFamily treats break punches as the work direction they resemble at a
// schedule boundary: leaving (Out, BreakOut) or arriving (In, BreakIn).
func sameFamily(actual, expected attendance.Direction) bool {
	switch actual {
	case attendance.DirectionIn, attendance.DirectionBreakIn:
		return expected == attendance.DirectionIn
	case attendance.DirectionOut, attendance.DirectionBreakOut:
		return expected == attendance.DirectionOut
	}
	return false
}

// InferDirections fills unknown directions by strict alternation starting
// with In. Known directions are kept and steer the alternation.
func (p *PunchProcessor) InferDirections(punches []Punch) []Punch {
	sorted := sortPunches(punches)
	previous := attendance.DirectionUnknown
	for i := range sorted {
		if sorted[i].Direction == attendance.DirectionUnknown {
			sorted[i].Direction = nextDirection(previous)
		}
		previous = sorted[i].Direction
	}
	return sorted
}

func nextDirection(previous attendance.Direction) attendance.Direction {
	switch previous {
	case attendance.DirectionIn, attendance.DirectionBreakIn:
		return attendance.DirectionOut
	case attendance.DirectionBreakOut:
		return attendance.DirectionBreakIn
	default:
		return attendance.DirectionIn
	}
}

type pairState struct {
	openIn    *Punch
	openBreak *Punch
	result    PairResult
}

func (s pairState) step(punch Punch) pairState {
	switch punch.Direction {
	case attendance.DirectionIn:
		if s.openIn != nil {
			s.result.Pairs = append(s.result.Pairs, WorkPair{In: *s.openIn})
			s.result.UnpairedIn = append(s.result.UnpairedIn, *s.openIn)
		}
		if s.result.FirstIn == nil {
			s.result.FirstIn = &punch.At
		}
		s.openIn = &punch
	case attendance.DirectionOut:
		s.result.LastOut = &punch.At
		if s.openIn != nil {
			s.result.Pairs = append(s.result.Pairs, WorkPair{In: *s.openIn, Out: &punch})
			s.openIn = nil
		} else {
			s.result.UnpairedOut = append(s.result.UnpairedOut, punch)
		}
	case attendance.DirectionBreakOut:
		if s.openBreak != nil {
			s.result.BreakPairs = append(s.result.BreakPairs, BreakPair{Out: s.openBreak})
		}
		s.openBreak = &punch
	case attendance.DirectionBreakIn:
		if s.openBreak != nil {
			s.result.BreakPairs = append(s.result.BreakPairs, BreakPair{Out: s.openBreak, In: &punch})
			s.openBreak = nil
		} else {
			s.result.BreakPairs = append(s.result.BreakPairs, BreakPair{In: &punch})
		}
	}
	return s
}

func (s pairState) finish() PairResult {
	if s.openIn != nil {
		s.result.Pairs = append(s.result.Pairs, WorkPair{In: *s.openIn})
		s.result.UnpairedIn = append(s.result.UnpairedIn, *s.openIn)
	}
	if s.openBreak != nil {
		s.result.BreakPairs = append(s.result.BreakPairs, BreakPair{Out: s.openBreak})
	}
	return s.result
}

// Process folds direction-resolved punches, in time order, into work and
// break pairs. Punches whose direction is still unknown are ignored.
func (p *PunchProcessor) Process(punches []Punch) PairResult {
	state := pairState{}
	for _, punch := range sortPunches(punches) {
		state = state.step(punch)
	}
	return state.finish()
}

// TotalWorkMinutes sums complete pairs; incomplete pairs contribute zero.
func (p *PunchProcessor) TotalWorkMinutes(pairs []WorkPair) int {
	total := 0
	for _, pair := range pairs {
		total += pair.Minutes()
	}
	return total
}

// GapBreakMinutes infers break time from the gaps between consecutive work
// pairs. Used only when no break scans exist.
func (p *PunchProcessor) GapBreakMinutes(pairs []WorkPair) int {
	total := 0
	for i := 0; i+1 < len(pairs); i++ {
		if pairs[i].Out == nil {
			continue
		}
		total += max(0, minutesBetween(pairs[i].Out.At, pairs[i+1].In.At))
	}
	return total
}

// ActualBreakMinutes sums complete break pairs.
func (p *PunchProcessor) ActualBreakMinutes(breakPairs []BreakPair) int {
	total := 0
	for _, bp := range breakPairs {
		if bp.Complete() {
			total += max(0, minutesBetween(bp.Out.At, bp.In.At))
		}
	}
	return total
}

// PunchRecords flattens pairs back into time-ordered punch rows.
func (p *PunchProcessor) PunchRecords(pairs []WorkPair, breakPairs []BreakPair) []attendance.PunchRecord {
	var punches []Punch
	for _, pair := range pairs {
		punches = append(punches, pair.In)
		if pair.Out != nil {
			punches = append(punches, *pair.Out)
		}
	}
	for _, bp := range breakPairs {
		if bp.Out != nil {
			punches = append(punches, *bp.Out)
		}
		if bp.In != nil {
			punches = append(punches, *bp.In)
		}
	}

	records := make([]attendance.PunchRecord, 0, len(punches))
	for _, punch := range sortPunches(punches) {
		punchType, ok := punch.Direction.PunchType()
		if !ok {
			continue
		}
		records = append(records, attendance.PunchRecord{
			ScanEventID: punch.ScanEventID,
			PunchType:   punchType,
			PunchedAt:   punch.At,
		})
	}
	return records
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}
