package models

// Size classifies implementation complexity, from simplest to hardest.
type Size string

const (
	SizeTrivial         Size = "trivial"
	SizeStraightforward Size = "straightforward"
	SizeComplex         Size = "complex"
	SizeUncertain       Size = "uncertain"
	SizePioneering      Size = "pioneering"
)

// Sizes lists all sizes in ascending complexity order.
var Sizes = []Size{SizeTrivial, SizeStraightforward, SizeComplex, SizeUncertain, SizePioneering}

var sizeRank = map[Size]int{
	SizeTrivial:         0,
	SizeStraightforward: 1,
	SizeComplex:         2,
	SizeUncertain:       3,
	SizePioneering:      4,
}

// Valid returns true if the size is a known value.
func (s Size) Valid() bool {
	_, ok := sizeRank[s]
	return ok
}

// Rank returns the position of the size in the complexity order.
// Unknown values rank below trivial so they never win a comparison.
func (s Size) Rank() int {
	if r, ok := sizeRank[s]; ok {
		return r
	}
	return -1
}

// Simpler returns the size one rank down, stopping at trivial.
func (s Size) Simpler() Size {
	r := s.Rank()
	if r <= 0 {
		return SizeTrivial
	}
	return Sizes[r-1]
}

// TimeEstimate classifies expected duration, from shortest to longest.
type TimeEstimate string

const (
	TimeHours       TimeEstimate = "hours"
	TimeDays        TimeEstimate = "days"
	TimeWeek        TimeEstimate = "week"
	TimeSprint      TimeEstimate = "sprint"
	TimeMultiSprint TimeEstimate = "multi-sprint"
)

// TimeEstimates lists all estimates in ascending duration order.
var TimeEstimates = []TimeEstimate{TimeHours, TimeDays, TimeWeek, TimeSprint, TimeMultiSprint}

var timeRank = map[TimeEstimate]int{
	TimeHours:       0,
	TimeDays:        1,
	TimeWeek:        2,
	TimeSprint:      3,
	TimeMultiSprint: 4,
}

// Valid returns true if the estimate is a known value.
func (t TimeEstimate) Valid() bool {
	_, ok := timeRank[t]
	return ok
}

// Rank returns the position of the estimate in the duration order.
// Unknown values rank below hours so they never win a comparison.
func (t TimeEstimate) Rank() int {
	if r, ok := timeRank[t]; ok {
		return r
	}
	return -1
}

// Simpler returns the default estimate for a child of this duration.
// Sprint-or-longer parents collapse straight to days, not the next rank
// down: a subtask of a sprint of work should be a visible chunk of
// progress, not another near-sprint. Shorter parents step one rank
// down, stopping at hours.
func (t TimeEstimate) Simpler() TimeEstimate {
	if t.LongDuration() {
		return TimeDays
	}
	r := t.Rank()
	if r <= 0 {
		return TimeHours
	}
	return TimeEstimates[r-1]
}

// LongDuration reports whether the estimate is sprint-length or longer.
func (t TimeEstimate) LongDuration() bool {
	return t.Rank() >= timeRank[TimeSprint]
}
