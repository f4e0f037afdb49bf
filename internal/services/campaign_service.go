package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"callpanel/internal/caching"
	"callpanel/internal/sipuni"
)

// directoryCacheTTL bounds how stale the lines/employees directories can get.
const directoryCacheTTL = 5 * time.Minute

// VendorAPI is the slice of the Sipuni client the campaign service consumes.
// *sipuni.Client implements it; tests substitute a fake.
type VendorAPI interface {
	ListCampaigns(ctx context.Context, max, pos int) ([]sipuni.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*sipuni.Campaign, error)
	CreateCampaign(ctx context.Context, payload *sipuni.CreateCampaignPayload) (*sipuni.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, fields map[string]interface{}) (json.RawMessage, error)
	DeleteCampaign(ctx context.Context, id string) error
	StartCampaign(ctx context.Context, id string) error
	StopCampaign(ctx context.Context, id string) error
	Operators(ctx context.Context, campaignID string) ([]sipuni.Operator, error)
	AssignOperators(ctx context.Context, campaignID string, operatorIDs []int64) error
	UnassignOperator(ctx context.Context, campaignID, operatorID string) error
	Numbers(ctx context.Context, campaignID string, max, pos int) ([]sipuni.NumberEntry, error)
	UploadNumber(ctx context.Context, campaignID string, number int64) error
	CallResults(ctx context.Context, campaignID string, max, pos int) ([]sipuni.CallRow, error)
	CallReport(ctx context.Context, campaignID string) (*sipuni.Report, error)
	Lines(ctx context.Context) ([]sipuni.Line, error)
	SelectLine(ctx context.Context, campaignID, lineID int64, selected bool) error
	Employees(ctx context.Context) ([]sipuni.Operator, error)
	EmployeeExtensions(ctx context.Context) (sipuni.List, error)
}

// CreateCampaignRequest is the simplified payload the frontend form sends.
// Zero values are filled with the canonical defaults before the request is
// forwarded to the vendor.
type CreateCampaignRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Cooldown       int    `json:"cooldown"`
	Strategy       int    `json:"strategy"`
	IsRoboCall     int    `json:"isRoboCall"`
	Type           string `json:"type"`
	MaxConnections int    `json:"maxConnections"`
	Distributor    int    `json:"distributor"`
	DefaultInTree  *int   `json:"defaultInTree"`
	OutLineID      int    `json:"outLineId"`
	TreeID         int    `json:"treeId"`
	UserID         int    `json:"userId"`
}

// NumberUploadResult records the outcome for one uploaded number.
type NumberUploadResult struct {
	Number  string `json:"number"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NumberUploadSummary aggregates a whole upload batch.
type NumberUploadSummary struct {
	TotalCount   int                  `json:"totalCount"`
	SuccessCount int                  `json:"successCount"`
	FailureCount int                  `json:"failureCount"`
	Results      []NumberUploadResult `json:"results"`
}

// CampaignService is the business layer between the HTTP handlers and the
// vendor API.
type CampaignService interface {
	ListCampaigns(ctx context.Context, max, pos int) ([]FormattedCampaign, error)
	GetCampaign(ctx context.Context, id string) (*FormattedCampaign, error)
	CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*FormattedCampaign, error)
	UpdateCampaign(ctx context.Context, id string, fields map[string]interface{}) (json.RawMessage, error)
	DeleteCampaign(ctx context.Context, id string) error
	StartCampaign(ctx context.Context, id string) error
	StopCampaign(ctx context.Context, id string) error

	Operators(ctx context.Context, campaignID string) ([]sipuni.Operator, error)
	AssignOperators(ctx context.Context, campaignID string, operatorIDs []int64) error
	UnassignOperator(ctx context.Context, campaignID, operatorID string) error

	ListNumbers(ctx context.Context, campaignID string, max, pos int) ([]sipuni.NumberEntry, error)
	UploadNumbers(ctx context.Context, campaignID string, numbers []string) (*NumberUploadSummary, error)

	CallResults(ctx context.Context, campaignID string, max, pos int) ([]FormattedCallResult, error)
	CallReport(ctx context.Context, campaignID string) (*FormattedReport, error)

	Lines(ctx context.Context) ([]sipuni.Line, error)
	SelectLine(ctx context.Context, campaignID, lineID int64, selected bool) error
	Employees(ctx context.Context) ([]sipuni.Operator, error)
	EmployeeExtensions(ctx context.Context) (sipuni.List, error)
}

type campaignService struct {
	vendor   VendorAPI
	cacheSvc caching.CacheService
	storage  StorageService
}

// NewCampaignService wires the vendor client, the directory cache and the
// number-list archive. cacheSvc and storage may be nil in tests.
func NewCampaignService(vendor VendorAPI, cacheSvc caching.CacheService, storage StorageService) CampaignService {
	return &campaignService{
		vendor:   vendor,
		cacheSvc: cacheSvc,
		storage:  storage,
	}
}

func (s *campaignService) ListCampaigns(ctx context.Context, max, pos int) ([]FormattedCampaign, error) {
	campaigns, err := s.vendor.ListCampaigns(ctx, max, pos)
	if err != nil {
		return nil, err
	}
	return formatCampaignList(campaigns), nil
}

func (s *campaignService) GetCampaign(ctx context.Context, id string) (*FormattedCampaign, error) {
	campaign, err := s.vendor.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	formatted := formatCampaign(campaign)
	return &formatted, nil
}

func (s *campaignService) CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*FormattedCampaign, error) {
	campaign, err := s.vendor.CreateCampaign(ctx, canonicalPayload(req))
	if err != nil {
		return nil, err
	}
	formatted := formatCampaign(campaign)
	return &formatted, nil
}

// canonicalPayload maps the frontend form onto the one campaign-creation
// shape the vendor accepts.
func canonicalPayload(req *CreateCampaignRequest) *sipuni.CreateCampaignPayload {
	payload := &sipuni.CreateCampaignPayload{
		Name:           req.Name,
		Description:    req.Description,
		Cooldown:       req.Cooldown,
		Strategy:       req.Strategy,
		IsRoboCall:     req.IsRoboCall,
		Type:           req.Type,
		MaxConnections: req.MaxConnections,
		Distributor:    req.Distributor,
		DefaultInTree:  1,
		OutLineID:      req.OutLineID,
		TreeID:         req.TreeID,
		UserID:         req.UserID,
	}
	if payload.Cooldown == 0 {
		payload.Cooldown = 60
	}
	if payload.Strategy == 0 {
		payload.Strategy = 1
	}
	if payload.Type == "" {
		payload.Type = "predict"
	}
	if payload.MaxConnections == 0 {
		payload.MaxConnections = 1
	}
	if req.DefaultInTree != nil {
		payload.DefaultInTree = *req.DefaultInTree
	}
	return payload
}

func (s *campaignService) UpdateCampaign(ctx context.Context, id string, fields map[string]interface{}) (json.RawMessage, error) {
	return s.vendor.UpdateCampaign(ctx, id, fields)
}

func (s *campaignService) DeleteCampaign(ctx context.Context, id string) error {
	return s.vendor.DeleteCampaign(ctx, id)
}

func (s *campaignService) StartCampaign(ctx context.Context, id string) error {
	return s.vendor.StartCampaign(ctx, id)
}

func (s *campaignService) StopCampaign(ctx context.Context, id string) error {
	return s.vendor.StopCampaign(ctx, id)
}

func (s *campaignService) Operators(ctx context.Context, campaignID string) ([]sipuni.Operator, error) {
	return s.vendor.Operators(ctx, campaignID)
}

func (s *campaignService) AssignOperators(ctx context.Context, campaignID string, operatorIDs []int64) error {
	return s.vendor.AssignOperators(ctx, campaignID, operatorIDs)
}

func (s *campaignService) UnassignOperator(ctx context.Context, campaignID, operatorID string) error {
	return s.vendor.UnassignOperator(ctx, campaignID, operatorID)
}

func (s *campaignService) ListNumbers(ctx context.Context, campaignID string, max, pos int) ([]sipuni.NumberEntry, error) {
	return s.vendor.Numbers(ctx, campaignID, max, pos)
}

// UploadNumbers pushes one vendor request per number (the endpoint accepts
// no batches) and aggregates the per-number outcomes. The raw list is
// archived to object storage best-effort; an archive failure never fails
// the upload.
func (s *campaignService) UploadNumbers(ctx context.Context, campaignID string, numbers []string) (*NumberUploadSummary, error) {
	summary := &NumberUploadSummary{
		TotalCount: len(numbers),
		Results:    make([]NumberUploadResult, 0, len(numbers)),
	}

	for _, raw := range numbers {
		parsed, ok := sanitizeNumber(raw)
		if !ok {
			summary.FailureCount++
			summary.Results = append(summary.Results, NumberUploadResult{
				Number: raw, Success: false, Error: "not a valid phone number",
			})
			continue
		}

		if err := s.vendor.UploadNumber(ctx, campaignID, parsed); err != nil {
			summary.FailureCount++
			summary.Results = append(summary.Results, NumberUploadResult{
				Number: raw, Success: false, Error: err.Error(),
			})
			continue
		}

		summary.SuccessCount++
		summary.Results = append(summary.Results, NumberUploadResult{Number: raw, Success: true})
	}

	if s.storage != nil && len(numbers) > 0 {
		if _, err := s.storage.ArchiveNumberList(ctx, campaignID, strings.Join(numbers, "\n")); err != nil {
			log.Printf("failed to archive number list for campaign %s: %v", campaignID, err)
		}
	}

	return summary, nil
}

// sanitizeNumber strips everything but digits and parses the remainder.
func sanitizeNumber(raw string) (int64, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	var n int64
	for _, r := range digits.String() {
		n = n*10 + int64(r-'0')
		if n < 0 { // overflow
			return 0, false
		}
	}
	return n, true
}

func (s *campaignService) CallResults(ctx context.Context, campaignID string, max, pos int) ([]FormattedCallResult, error) {
	rows, err := s.vendor.CallResults(ctx, campaignID, max, pos)
	if err != nil {
		return nil, err
	}
	out := make([]FormattedCallResult, 0, len(rows))
	for i := range rows {
		out = append(out, formatCallRow(&rows[i]))
	}
	return out, nil
}

func (s *campaignService) CallReport(ctx context.Context, campaignID string) (*FormattedReport, error) {
	report, err := s.vendor.CallReport(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	formatted := formatReport(report)
	return &formatted, nil
}

// Lines reads through the directory cache.
func (s *campaignService) Lines(ctx context.Context) ([]sipuni.Line, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetLines(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	lines, err := s.vendor.Lines(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetLines(ctx, lines, directoryCacheTTL); err != nil {
			log.Printf("failed to cache lines: %v", err)
		}
	}
	return lines, nil
}

// SelectLine invalidates the lines cache since selection state changed.
func (s *campaignService) SelectLine(ctx context.Context, campaignID, lineID int64, selected bool) error {
	if err := s.vendor.SelectLine(ctx, campaignID, lineID, selected); err != nil {
		return err
	}
	if s.cacheSvc != nil {
		if err := s.cacheSvc.Delete(ctx, "callpanel:lines"); err != nil {
			log.Printf("failed to invalidate lines cache: %v", err)
		}
	}
	return nil
}

// Employees reads through the directory cache.
func (s *campaignService) Employees(ctx context.Context) ([]sipuni.Operator, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetEmployees(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	employees, err := s.vendor.Employees(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetEmployees(ctx, employees, directoryCacheTTL); err != nil {
			log.Printf("failed to cache employees: %v", err)
		}
	}
	return employees, nil
}

func (s *campaignService) EmployeeExtensions(ctx context.Context) (sipuni.List, error) {
	return s.vendor.EmployeeExtensions(ctx)
}
