package models

// Urgency classifies how pressing a task is.
type Urgency string

const (
	UrgencyMissionCritical Urgency = "mission-critical"
	UrgencyStrategic       Urgency = "strategic"
	UrgencyGrowth          Urgency = "growth"
	UrgencyMaintenance     Urgency = "maintenance"
)

// Valid returns true if the urgency is a known value.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyMissionCritical, UrgencyStrategic, UrgencyGrowth, UrgencyMaintenance:
		return true
	default:
		return false
	}
}

// OutcomeType classifies the kind of result a task produces.
type OutcomeType string

const (
	OutcomeCustomerFacing OutcomeType = "customer-facing"
	OutcomeBusinessMetric OutcomeType = "business-metric"
	OutcomeTechnicalDebt  OutcomeType = "technical-debt"
	OutcomeOperational    OutcomeType = "operational"
	OutcomeLearning       OutcomeType = "learning"
)

// Valid returns true if the outcome type is a known value.
func (o OutcomeType) Valid() bool {
	switch o {
	case OutcomeCustomerFacing, OutcomeBusinessMetric, OutcomeTechnicalDebt, OutcomeOperational, OutcomeLearning:
		return true
	default:
		return false
	}
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusDiscovery  Status = "discovery"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
	StatusArchived   Status = "archived"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusDiscovery, StatusInProgress, StatusReview, StatusDone, StatusArchived:
		return true
	default:
		return false
	}
}

// Confidence expresses how sure we are about a task's estimates.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid returns true if the confidence is a known value.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

// Team identifies the group expected to carry out a task.
type Team string

const (
	TeamProduct  Team = "Product"
	TeamDesign   Team = "Design"
	TeamFrontend Team = "Frontend"
	TeamBackend  Team = "Backend"
	TeamML       Team = "ML"
	TeamInfra    Team = "Infra"
	TeamTesting  Team = "Testing"
	TeamOther    Team = "Other"
)

// Teams lists every valid team assignment.
var Teams = []Team{TeamProduct, TeamDesign, TeamFrontend, TeamBackend, TeamML, TeamInfra, TeamTesting, TeamOther}

// Valid returns true if the team is a known value.
func (t Team) Valid() bool {
	switch t {
	case TeamProduct, TeamDesign, TeamFrontend, TeamBackend, TeamML, TeamInfra, TeamTesting, TeamOther:
		return true
	default:
		return false
	}
}
