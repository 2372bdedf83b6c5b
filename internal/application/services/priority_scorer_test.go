package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborcare/opdflow/internal/application/services"
	"github.com/harborcare/opdflow/internal/domain/entities"
)

func TestPriorityScorer_Score(t *testing.T) {
	scorer := services.NewPriorityScorer()

	tests := []struct {
		name     string
		arrival  entities.PatientArrival
		expected int
	}{
		{
			name: "maximal arrival caps at 100",
			arrival: entities.PatientArrival{
				IsEmergency:         true,
				SymptomSeverity:     entities.SeverityCritical,
				Age:                 75,
				HasChronicCondition: true,
				VisitType:           entities.VisitTypeEmergency,
			},
			expected: 100,
		},
		{
			name: "regular walk-in scores 10",
			arrival: entities.PatientArrival{
				IsEmergency:         false,
				SymptomSeverity:     entities.SeverityModerate,
				Age:                 35,
				HasChronicCondition: false,
				VisitType:           entities.VisitTypeWalkIn,
			},
			expected: 10,
		},
		{
			name: "senior band wins at the 70 boundary",
			arrival: entities.PatientArrival{
				SymptomSeverity: entities.SeverityLow,
				Age:             70,
				VisitType:       entities.VisitTypeWalkIn,
			},
			expected: 5 + 15,
		},
		{
			name: "age 65 falls in the sixty-plus band only",
			arrival: entities.PatientArrival{
				SymptomSeverity: entities.SeverityLow,
				Age:             65,
				VisitType:       entities.VisitTypeWalkIn,
			},
			expected: 5 + 10,
		},
		{
			name: "infant band at age 5",
			arrival: entities.PatientArrival{
				SymptomSeverity: entities.SeverityLow,
				Age:             5,
				VisitType:       entities.VisitTypeWalkIn,
			},
			expected: 5 + 12,
		},
		{
			name: "child band at age 12",
			arrival: entities.PatientArrival{
				SymptomSeverity: entities.SeverityLow,
				Age:             12,
				VisitType:       entities.VisitTypeWalkIn,
			},
			expected: 5 + 8,
		},
		{
			name: "age 13 gets no age weight",
			arrival: entities.PatientArrival{
				SymptomSeverity: entities.SeverityLow,
				Age:             13,
				VisitType:       entities.VisitTypeWalkIn,
			},
			expected: 5,
		},
		{
			name: "unknown severity falls back to moderate",
			arrival: entities.PatientArrival{
				SymptomSeverity: entities.Severity("Dire"),
				Age:             35,
				VisitType:       entities.VisitTypeWalkIn,
			},
			expected: 10,
		},
		{
			name: "unknown visit type falls back to walk-in",
			arrival: entities.PatientArrival{
				SymptomSeverity: entities.SeverityModerate,
				Age:             35,
				VisitType:       entities.VisitType("Teleconsult"),
			},
			expected: 10,
		},
		{
			name: "follow-up visit with chronic condition",
			arrival: entities.PatientArrival{
				SymptomSeverity:     entities.SeverityHigh,
				Age:                 62,
				HasChronicCondition: true,
				VisitType:           entities.VisitTypeFollowUp,
			},
			expected: 20 + 10 + 10 + 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scorer.Score(tt.arrival))
		})
	}
}

func TestPriorityScorer_ScoreIsBounded(t *testing.T) {
	scorer := services.NewPriorityScorer()

	severities := []entities.Severity{
		entities.SeverityCritical, entities.SeverityHigh,
		entities.SeverityModerate, entities.SeverityLow, "",
	}
	visits := []entities.VisitType{
		entities.VisitTypeEmergency, entities.VisitTypeFollowUp,
		entities.VisitTypeAppointment, entities.VisitTypeWalkIn, "",
	}
	ages := []int{0, 3, 5, 6, 12, 13, 30, 59, 60, 69, 70, 95}

	for _, severity := range severities {
		for _, visit := range visits {
			for _, age := range ages {
				for _, emergency := range []bool{true, false} {
					for _, chronic := range []bool{true, false} {
						score := scorer.Score(entities.PatientArrival{
							IsEmergency:         emergency,
							SymptomSeverity:     severity,
							Age:                 age,
							HasChronicCondition: chronic,
							VisitType:           visit,
						})
						assert.GreaterOrEqual(t, score, 0)
						assert.LessOrEqual(t, score, services.MaxPriorityScore)
					}
				}
			}
		}
	}
}
