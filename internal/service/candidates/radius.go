package candidates

// Ladder is the radius expansion schedule for a search: start at InitialKm
// and widen by StepKm per empty cycle until MaxKm.
type Ladder struct {
	InitialKm float64
	StepKm    float64
	MaxKm     float64
}

// Next returns the radius to try after cur, and false when cur has already
// reached the maximum or the ladder cannot make progress. The last step is
// clamped to MaxKm, so the ladder always terminates.
func (l Ladder) Next(cur float64) (float64, bool) {
	if cur >= l.MaxKm || l.StepKm <= 0 {
		return 0, false
	}
	next := cur + l.StepKm
	if next > l.MaxKm {
		next = l.MaxKm
	}
	return next, true
}
