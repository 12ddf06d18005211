package domain

import "fmt"

// TimelineMode selects the bucket width of the timeline aggregation.
type TimelineMode string

const (
	ModeDay   TimelineMode = "day"
	ModeWeek  TimelineMode = "week"
	ModeMonth TimelineMode = "month"
	ModeYear  TimelineMode = "year"
)

// ParseTimelineMode validates a query value.
func ParseTimelineMode(v string) (TimelineMode, error) {
	switch TimelineMode(v) {
	case ModeDay, ModeWeek, ModeMonth, ModeYear:
		return TimelineMode(v), nil
	}
	return "", &ErrValidation{Field: "mode", Message: fmt.Sprintf("unknown value %q", v)}
}

// TimelineBucket is one fixed-width slice of the realized-vs-planned series.
// Start and end are ISO-8601 with millisecond precision, UTC. Cumulative
// figures include all history before the requested window.
type TimelineBucket struct {
	Start             string                 `json:"start"`
	End               string                 `json:"end"`
	RealIncome        float64                `json:"real_income"`
	RealExpense       float64                `json:"real_expense"`
	PlannedIncome     float64                `json:"planned_income"`
	PlannedExpense    float64                `json:"planned_expense"`
	NetReal           float64                `json:"net_real"`
	NetPlanned        float64                `json:"net_planned"`
	CumulativeReal    float64                `json:"cumulative_real"`
	CumulativePlanned float64                `json:"cumulative_planned"`
	Transactions      []TimelineTransaction  `json:"transactions"`
	PlannedEntries    []TimelinePlannedEntry `json:"planned_entries"`
}

// TimelineTransaction is the drill-down view of a contributing transaction.
type TimelineTransaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
}

// TimelinePlannedEntry is the drill-down view of a contributing planned entry.
type TimelinePlannedEntry struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	AmountEstimated float64       `json:"amount_estimated"`
	DueDate         string        `json:"due_date"`
	FlowType        FlowType      `json:"flow_type"`
	Status          PlannedStatus `json:"status"`
}
