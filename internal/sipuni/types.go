package sipuni

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexID tolerates the vendor's habit of returning ids as either JSON
// strings or numbers.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// FlexInt tolerates numbers encoded as JSON numbers or numeric strings.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	// Durations occasionally arrive as "12.0".
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Campaign is an autocall campaign as the vendor returns it.
type Campaign struct {
	ID           FlexID   `json:"id"`
	AutocallID   FlexID   `json:"autocallId"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	State        *FlexInt `json:"state"`
	CreatedAt    string   `json:"created_at"`
	CreatedAtAlt string   `json:"createdAt"`
}

// Operator is a call-center operator / employee record.
type Operator struct {
	ID    FlexID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Line is an outbound phone line attached to a campaign outline.
type Line struct {
	ID       FlexID `json:"id"`
	Autocall FlexID `json:"autocall"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	Selected bool   `json:"selected"`
}

// NumberEntry is a phone number uploaded to a campaign.
type NumberEntry struct {
	ID       FlexID  `json:"id"`
	Autocall FlexID  `json:"autocall"`
	Number   FlexInt `json:"number"`
	Comment  string  `json:"comment"`
	Status   string  `json:"status"`
}

// CallRow is one dialed call inside a report. Field aliases cover the
// vendor's inconsistent key naming across endpoints.
type CallRow struct {
	Number            string  `json:"number"`
	Phone             string  `json:"phone"`
	PhoneNumber       string  `json:"phoneNumber"`
	Status            string  `json:"status"`
	Duration          FlexInt `json:"duration"`
	CallDuration      FlexInt `json:"callDuration"`
	ClientAnswerTime  FlexInt `json:"clientAnswerTime"`
	Time              string  `json:"time"`
	Timestamp         string  `json:"timestamp"`
	CreatedAt         string  `json:"created_at"`
	Operator          string  `json:"operator"`
	OperatorName      string  `json:"operatorName"`
	SipClientOperator string  `json:"sipClientOperator"`
}

// AnyNumber returns the first populated phone-number alias.
func (c *CallRow) AnyNumber() string {
	switch {
	case c.Number != "":
		return c.Number
	case c.Phone != "":
		return c.Phone
	case c.PhoneNumber != "":
		return c.PhoneNumber
	}
	return ""
}

// AnyOperator returns the first populated operator alias.
func (c *CallRow) AnyOperator() string {
	switch {
	case c.Operator != "":
		return c.Operator
	case c.OperatorName != "":
		return c.OperatorName
	case c.SipClientOperator != "":
		return c.SipClientOperator
	}
	return ""
}

// ReportStats is the aggregate block of a call report.
type ReportStats struct {
	All         FlexInt `json:"all"`
	Answered    FlexInt `json:"answered"`
	NotAnswered FlexInt `json:"notAnswered"`
	ActiveCall  FlexInt `json:"activeCall"`
}

// Report is a campaign call report. The stats block arrives under either
// "statistic" or "stats"; totals may also appear at the top level.
type Report struct {
	Statistic      *ReportStats `json:"statistic"`
	Stats          *ReportStats `json:"stats"`
	Calls          []CallRow    `json:"calls"`
	Total          FlexInt      `json:"total"`
	Answered       FlexInt      `json:"answered"`
	Missed         FlexInt      `json:"missed"`
	NumbersTotal   FlexInt      `json:"numbersTotal"`
	NumbersSuccess FlexInt      `json:"numbersSuccess"`
	NumbersFailed  FlexInt      `json:"numbersFailed"`
	AvgDuration    string       `json:"avgDuration"`
	AvgAnswerTime  string       `json:"avgAnswerTime"`
}

// CreateCampaignPayload is the one canonical request shape for creating a
// campaign, validated against the current vendor API.
type CreateCampaignPayload struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Cooldown       int    `json:"cooldown"`
	Strategy       int    `json:"strategy"`
	IsRoboCall     int    `json:"isRoboCall"`
	Type           string `json:"type"`
	MaxConnections int    `json:"maxConnections"`
	Distributor    int    `json:"distributor"`
	DefaultInTree  int    `json:"defaultInTree"`
	OutLineID      int    `json:"outLineId"`
	TreeID         int    `json:"treeId"`
	UserID         int    `json:"userId"`
}
