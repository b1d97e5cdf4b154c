package candidates

import "math"

// Composite score weights. They sum to 1.0; the acceptance-rate share is
// reserved and contributes zero until a signal source exists.
const (
	weightDistance   = 0.4
	weightRating     = 0.3
	weightExperience = 0.2
	weightAcceptance = 0.1

	maxRating = 5.0
	// experienceCap is the completed-delivery count at which the experience
	// term saturates: log10(1000)/3 == 1.
	experienceCap = 3.0
)

// Score computes the composite suitability score for a candidate at
// distanceKm from the pickup, searched within radiusKm. The distance term is
// 1.0 at the pickup and 0 at the radius boundary, so a tighter radius rewards
// proximity more sharply.
func Score(distanceKm, radiusKm, rating float64, completedDeliveries int64) float64 {
	distance := weightDistance * (1 - distanceKm/radiusKm)
	rated := weightRating * (rating / maxRating)
	experience := weightExperience * math.Min(math.Log10(float64(completedDeliveries)+1)/experienceCap, 1)
	acceptance := weightAcceptance * 0

	return distance + rated + experience + acceptance
}
