package services

import (
	"github.com/harborcare/opdflow/internal/domain/entities"
)

// Scoring weights. The components are additive and the total is capped at
// MaxPriorityScore.
const (
	MaxPriorityScore = 100

	emergencyWeight        = 40
	chronicConditionWeight = 10

	seniorAgeWeight  = 15 // age >= 70
	elderlyAgeWeight = 10 // 60 <= age < 70
	infantAgeWeight  = 12 // age <= 5
	childAgeWeight   = 8  // 6 <= age <= 12
)

var severityWeights = map[entities.Severity]int{
	entities.SeverityCritical: 30,
	entities.SeverityHigh:     20,
	entities.SeverityModerate: 10,
	entities.SeverityLow:      5,
}

var visitTypeWeights = map[entities.VisitType]int{
	entities.VisitTypeEmergency:   5,
	entities.VisitTypeFollowUp:    3,
	entities.VisitTypeAppointment: 2,
	entities.VisitTypeWalkIn:      0,
}

// PriorityScorer maps arrival attributes to a bounded urgency score.
// Scoring is deterministic and side-effect free.
type PriorityScorer struct{}

// NewPriorityScorer creates a new priority scorer
func NewPriorityScorer() *PriorityScorer {
	return &PriorityScorer{}
}

// Score computes the urgency score for an arrival, in [0, MaxPriorityScore].
// Unknown severity values fall back to the Moderate weight and unknown visit
// types to the Walk-in weight, so the function is total over its inputs.
func (s *PriorityScorer) Score(arrival entities.PatientArrival) int {
	score := 0

	if arrival.IsEmergency {
		score += emergencyWeight
	}

	if weight, ok := severityWeights[arrival.SymptomSeverity]; ok {
		score += weight
	} else {
		score += severityWeights[entities.SeverityModerate]
	}

	score += ageWeight(arrival.Age)

	if arrival.HasChronicCondition {
		score += chronicConditionWeight
	}

	if weight, ok := visitTypeWeights[arrival.VisitType]; ok {
		score += weight
	} else {
		score += visitTypeWeights[entities.VisitTypeWalkIn]
	}

	if score > MaxPriorityScore {
		return MaxPriorityScore
	}
	return score
}

// ageWeight evaluates the age brackets in order of precedence: the older-age
// bands win over the pediatric bands, so a 70-year-old is scored as senior
// even though no pediatric band could apply anyway, and the bands never
// stack.
func ageWeight(age int) int {
	switch {
	case age >= 70:
		return seniorAgeWeight
	case age >= 60:
		return elderlyAgeWeight
	case age <= 5:
		return infantAgeWeight
	case age <= 12:
		return childAgeWeight
	default:
		return 0
	}
}
