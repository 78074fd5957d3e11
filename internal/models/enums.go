package models

// Status is the lifecycle state of a job application. Any status may be set
// to any other status; the groupings below drive the statistics.
type Status string

const (
	StatusLead          Status = "Lead" // saved, not applied yet
	StatusApplied       Status = "Applied"
	StatusViewed        Status = "Viewed"
	StatusContacted     Status = "Contacted"
	StatusInterview     Status = "Interview"
	StatusTechnicalTest Status = "TechnicalTest"
	StatusOffer         Status = "Offer"
	StatusAccepted      Status = "Accepted"
	StatusRejected      Status = "Rejected"
	StatusWithdrawn     Status = "Withdrawn"
	StatusClosed        Status = "Closed"
)

var Statuses = []Status{
	StatusLead,
	StatusApplied,
	StatusViewed,
	StatusContacted,
	StatusInterview,
	StatusTechnicalTest,
	StatusOffer,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
	StatusClosed,
}

var (
	InProgressStatuses = []Status{StatusApplied, StatusViewed, StatusContacted, StatusInterview, StatusTechnicalTest}
	OfferStatuses      = []Status{StatusOffer, StatusAccepted}
	// ConcludingStatuses end the "actively waiting" phase.
	ConcludingStatuses = []Status{StatusOffer, StatusAccepted, StatusRejected, StatusWithdrawn, StatusClosed}
)

func (s Status) Valid() bool { return contains(Statuses, s) }
func (s Status) InProgress() bool { return contains(InProgressStatuses, s) }
func (s Status) IsOffer() bool { return contains(OfferStatuses, s) }
func (s Status) Concluding() bool { return contains(ConcludingStatuses, s) }
func (s Status) IsLead() bool { return s == StatusLead }
func (s Status) String() string { return string(s) }

// Track is the domain/specialization tag of an application.
type Track string

const (
	TrackAI        Track = "AI"
	TrackFullStack Track = "FULL_STACK"
	TrackCloud     Track = "CLOUD"
)

var Tracks = []Track{TrackAI, TrackFullStack, TrackCloud}

func (t Track) Valid() bool { return contains(Tracks, t) }

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FullTime"
	EmploymentPartTime   EmploymentType = "PartTime"
	EmploymentContract   EmploymentType = "Contract"
	EmploymentInternship EmploymentType = "Internship"
	EmploymentUnknown    EmploymentType = "Unknown"
)

var EmploymentTypes = []EmploymentType{EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentUnknown}

func (e EmploymentType) Valid() bool { return contains(EmploymentTypes, e) }

type WorkModel string

const (
	WorkModelRemote WorkModel = "remote"
	WorkModelHybrid WorkModel = "hybrid"
	WorkModelOnSite WorkModel = "on-site"
)

var WorkModels = []WorkModel{WorkModelRemote, WorkModelHybrid, WorkModelOnSite}

func (w WorkModel) Valid() bool { return contains(WorkModels, w) }

type Seniority string

const (
	SeniorityIntern  Seniority = "Intern"
	SeniorityJunior  Seniority = "Junior"
	SeniorityMid     Seniority = "Mid"
	SenioritySenior  Seniority = "Senior"
	SeniorityLead    Seniority = "Lead"
	SeniorityUnknown Seniority = "Unknown"
)

var Seniorities = []Seniority{SeniorityIntern, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead, SeniorityUnknown}

func (s Seniority) Valid() bool { return contains(Seniorities, s) }

type Priority string

const (
	PriorityHigh   Priority = "P1"
	PriorityMedium Priority = "P2"
	PriorityLow    Priority = "P3"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// DefaultPriority is applied when a record is created without one.
const DefaultPriority = PriorityMedium

func (p Priority) Valid() bool { return contains(Priorities, p) }

// Timeline icons used by synthesized history entries.
const (
	IconCheck    = "check"
	IconActivity = "activity"
	IconClock    = "clock"
	IconMessage  = "message"
)

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
