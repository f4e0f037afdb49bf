package services

import (
	"testing"

	"callpanel/internal/sipuni"

	"github.com/stretchr/testify/assert"
)

func TestFormatCampaign_States(t *testing.T) {
	paused := sipuni.FlexInt(0)
	active := sipuni.FlexInt(1)
	weird := sipuni.FlexInt(7)

	assert.Equal(t, "paused", formatCampaign(&sipuni.Campaign{State: &paused}).Status)
	assert.Equal(t, "active", formatCampaign(&sipuni.Campaign{State: &active}).Status)
	assert.Equal(t, "unknown", formatCampaign(&sipuni.Campaign{State: &weird}).Status)
	assert.Equal(t, "unknown", formatCampaign(&sipuni.Campaign{}).Status)
}

func TestFormatCampaign_IDFallback(t *testing.T) {
	formatted := formatCampaign(&sipuni.Campaign{AutocallID: sipuni.FlexID("55")})
	assert.Equal(t, "55", formatted.ID)
}

func TestFormatCampaign_TypeDefault(t *testing.T) {
	assert.Equal(t, "default", formatCampaign(&sipuni.Campaign{}).Type)
	assert.Equal(t, "predict", formatCampaign(&sipuni.Campaign{Type: "predict"}).Type)
}

func TestFormatCallRow_AnsweredByClientAnswerTime(t *testing.T) {
	answered := formatCallRow(&sipuni.CallRow{ClientAnswerTime: 5, Phone: "79001234567"})
	assert.Equal(t, "answered", answered.Status)
	assert.Equal(t, "79001234567", answered.PhoneNumber)

	missed := formatCallRow(&sipuni.CallRow{ClientAnswerTime: 0, Duration: 12})
	assert.Equal(t, "missed", missed.Status)
	assert.Equal(t, int64(12), missed.Duration)
}

func TestFormatCallRow_OperatorDefault(t *testing.T) {
	row := formatCallRow(&sipuni.CallRow{})
	assert.Equal(t, "Auto", row.Operator)

	named := formatCallRow(&sipuni.CallRow{OperatorName: "Olga"})
	assert.Equal(t, "Olga", named.Operator)
}

func TestFormatReport_PrefersStatisticBlock(t *testing.T) {
	report := formatReport(&sipuni.Report{
		Statistic: &sipuni.ReportStats{All: 20, Answered: 15, NotAnswered: 5, ActiveCall: 2},
		Total:     99, // top-level totals must lose to the stats block
	})

	assert.Equal(t, int64(20), report.TotalCalls)
	assert.Equal(t, int64(15), report.AnsweredCalls)
	assert.Equal(t, int64(5), report.MissedCalls)
	assert.Equal(t, int64(2), report.ActiveCalls)
	assert.Equal(t, "75%", report.SuccessRate)
	assert.Equal(t, "25%", report.MissedRate)
}

func TestFormatReport_TopLevelFallback(t *testing.T) {
	report := formatReport(&sipuni.Report{
		NumbersTotal:   40,
		NumbersSuccess: 30,
		NumbersFailed:  10,
	})

	assert.Equal(t, int64(40), report.TotalCalls)
	assert.Equal(t, int64(30), report.AnsweredCalls)
	assert.Equal(t, int64(10), report.MissedCalls)
}

func TestFormatReport_CountsCallsWhenNoTotals(t *testing.T) {
	report := formatReport(&sipuni.Report{
		Calls: []sipuni.CallRow{
			{ClientAnswerTime: 3},
			{ClientAnswerTime: 0},
		},
	})

	assert.Equal(t, int64(2), report.TotalCalls)
	assert.Len(t, report.Calls, 2)
	assert.Equal(t, "answered", report.Calls[0].Status)
	assert.Equal(t, "missed", report.Calls[1].Status)
}

func TestFormatReport_EmptyReport(t *testing.T) {
	report := formatReport(&sipuni.Report{})
	assert.Equal(t, int64(0), report.TotalCalls)
	assert.Equal(t, "0%", report.SuccessRate)
	assert.NotNil(t, report.Calls)
}

func TestRate_Rounding(t *testing.T) {
	assert.Equal(t, "33%", rate(1, 3))
	assert.Equal(t, "67%", rate(2, 3))
	assert.Equal(t, "100%", rate(3, 3))
	assert.Equal(t, "0%", rate(5, 0))
}
