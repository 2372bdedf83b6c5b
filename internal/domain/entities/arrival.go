package entities

// Severity classifies the reported symptom severity at check-in
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityModerate Severity = "Moderate"
	SeverityLow      Severity = "Low"
)

// VisitType classifies how the patient arrived at the OPD
type VisitType string

const (
	VisitTypeEmergency   VisitType = "Emergency"
	VisitTypeFollowUp    VisitType = "Follow-up"
	VisitTypeAppointment VisitType = "Appointment"
	VisitTypeWalkIn      VisitType = "Walk-in"
)

// PatientArrival is the immutable input to priority scoring. It is assembled
// at check-in from the patient record (age, chronic conditions) and the
// check-in request (severity, visit type, emergency flag).
type PatientArrival struct {
	IsEmergency         bool      `json:"is_emergency"`
	SymptomSeverity     Severity  `json:"symptom_severity"`
	Age                 int       `json:"age"`
	HasChronicCondition bool      `json:"has_chronic_condition"`
	VisitType           VisitType `json:"visit_type"`
}
