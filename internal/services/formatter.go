package services

import (
	"fmt"
	"time"

	"callpanel/internal/sipuni"
)

// FormattedCampaign is the clean campaign shape the frontend tables consume.
type FormattedCampaign struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// FormattedCallResult is one call row with the vendor's aliases collapsed.
type FormattedCallResult struct {
	PhoneNumber string `json:"phoneNumber"`
	Status      string `json:"status"`
	Duration    int64  `json:"duration"`
	Timestamp   string `json:"timestamp,omitempty"`
	Operator    string `json:"operator"`
}

// FormattedReport is the summary the report page renders.
type FormattedReport struct {
	TotalCalls    int64                 `json:"totalCalls"`
	AnsweredCalls int64                 `json:"answeredCalls"`
	MissedCalls   int64                 `json:"missedCalls"`
	ActiveCalls   int64                 `json:"activeCalls"`
	SuccessRate   string                `json:"successRate"`
	MissedRate    string                `json:"missedRate"`
	ActiveRate    string                `json:"activeRate"`
	Calls         []FormattedCallResult `json:"calls"`
}

// formatCampaign maps a vendor campaign onto the frontend shape. The
// vendor encodes status as a state integer: 0 paused, 1 active.
func formatCampaign(c *sipuni.Campaign) FormattedCampaign {
	id := c.ID.String()
	if id == "" {
		id = c.AutocallID.String()
	}

	status := "unknown"
	if c.State != nil {
		switch *c.State {
		case 0:
			status = "paused"
		case 1:
			status = "active"
		}
	}

	campaignType := c.Type
	if campaignType == "" {
		campaignType = "default"
	}

	createdAt := c.CreatedAt
	if createdAt == "" {
		createdAt = c.CreatedAtAlt
	}
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	return FormattedCampaign{
		ID:        id,
		Name:      c.Name,
		Type:      campaignType,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func formatCampaignList(campaigns []sipuni.Campaign) []FormattedCampaign {
	out := make([]FormattedCampaign, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, formatCampaign(&campaigns[i]))
	}
	return out
}

// formatCallRow decides answered/missed by whether the client actually
// picked up (clientAnswerTime > 0), the only reliable signal the vendor
// provides.
func formatCallRow(row *sipuni.CallRow) FormattedCallResult {
	status := "missed"
	if row.ClientAnswerTime > 0 {
		status = "answered"
	}

	duration := int64(row.Duration)
	if duration == 0 {
		duration = int64(row.CallDuration)
	}

	timestamp := row.Time
	if timestamp == "" {
		timestamp = row.Timestamp
	}
	if timestamp == "" {
		timestamp = row.CreatedAt
	}

	operator := row.AnyOperator()
	if operator == "" {
		operator = "Auto"
	}

	return FormattedCallResult{
		PhoneNumber: row.AnyNumber(),
		Status:      status,
		Duration:    duration,
		Timestamp:   timestamp,
		Operator:    operator,
	}
}

// formatReport aggregates the report stats, preferring the statistic block
// and falling back to top-level totals where the vendor omits it.
func formatReport(report *sipuni.Report) FormattedReport {
	stats := report.Statistic
	if stats == nil {
		stats = report.Stats
	}

	var total, answered, missed, active int64
	if stats != nil {
		total = int64(stats.All)
		answered = int64(stats.Answered)
		missed = int64(stats.NotAnswered)
		active = int64(stats.ActiveCall)
	}
	if total == 0 {
		total = firstNonZero(int64(report.Total), int64(report.NumbersTotal), int64(len(report.Calls)))
	}
	if answered == 0 {
		answered = firstNonZero(int64(report.Answered), int64(report.NumbersSuccess))
	}
	if missed == 0 {
		missed = firstNonZero(int64(report.Missed), int64(report.NumbersFailed))
	}

	calls := make([]FormattedCallResult, 0, len(report.Calls))
	for i := range report.Calls {
		calls = append(calls, formatCallRow(&report.Calls[i]))
	}

	return FormattedReport{
		TotalCalls:    total,
		AnsweredCalls: answered,
		MissedCalls:   missed,
		ActiveCalls:   active,
		SuccessRate:   rate(answered, total),
		MissedRate:    rate(missed, total),
		ActiveRate:    rate(active, total),
		Calls:         calls,
	}
}

func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func rate(part, total int64) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int64(float64(part)/float64(total)*100+0.5))
}
