package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"callpanel/internal/sipuni"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockVendorAPI struct {
	mock.Mock
}

func (m *MockVendorAPI) ListCampaigns(ctx context.Context, max, pos int) ([]sipuni.Campaign, error) {
	args := m.Called(ctx, max, pos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sipuni.Campaign), args.Error(1)
}

func (m *MockVendorAPI) GetCampaign(ctx context.Context, id string) (*sipuni.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sipuni.Campaign), args.Error(1)
}

func (m *MockVendorAPI) CreateCampaign(ctx context.Context, payload *sipuni.CreateCampaignPayload) (*sipuni.Campaign, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sipuni.Campaign), args.Error(1)
}

func (m *MockVendorAPI) UpdateCampaign(ctx context.Context, id string, fields map[string]interface{}) (json.RawMessage, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockVendorAPI) DeleteCampaign(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVendorAPI) StartCampaign(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVendorAPI) StopCampaign(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVendorAPI) Operators(ctx context.Context, campaignID string) ([]sipuni.Operator, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sipuni.Operator), args.Error(1)
}

func (m *MockVendorAPI) AssignOperators(ctx context.Context, campaignID string, operatorIDs []int64) error {
	return m.Called(ctx, campaignID, operatorIDs).Error(0)
}

func (m *MockVendorAPI) UnassignOperator(ctx context.Context, campaignID, operatorID string) error {
	return m.Called(ctx, campaignID, operatorID).Error(0)
}

func (m *MockVendorAPI) Numbers(ctx context.Context, campaignID string, max, pos int) ([]sipuni.NumberEntry, error) {
	args := m.Called(ctx, campaignID, max, pos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sipuni.NumberEntry), args.Error(1)
}

func (m *MockVendorAPI) UploadNumber(ctx context.Context, campaignID string, number int64) error {
	return m.Called(ctx, campaignID, number).Error(0)
}

func (m *MockVendorAPI) CallResults(ctx context.Context, campaignID string, max, pos int) ([]sipuni.CallRow, error) {
	args := m.Called(ctx, campaignID, max, pos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sipuni.CallRow), args.Error(1)
}

func (m *MockVendorAPI) CallReport(ctx context.Context, campaignID string) (*sipuni.Report, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sipuni.Report), args.Error(1)
}

func (m *MockVendorAPI) Lines(ctx context.Context) ([]sipuni.Line, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sipuni.Line), args.Error(1)
}

func (m *MockVendorAPI) SelectLine(ctx context.Context, campaignID, lineID int64, selected bool) error {
	return m.Called(ctx, campaignID, lineID, selected).Error(0)
}

func (m *MockVendorAPI) Employees(ctx context.Context) ([]sipuni.Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sipuni.Operator), args.Error(1)
}

func (m *MockVendorAPI) EmployeeExtensions(ctx context.Context) (sipuni.List, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sipuni.List), args.Error(1)
}

// fakeCache is an in-memory CacheService for exercising the read-through
// paths without Redis.
type fakeCache struct {
	lines     []sipuni.Line
	employees []sipuni.Operator
	deleted   []string
	setLines  int
}

func (f *fakeCache) GetLines(ctx context.Context) ([]sipuni.Line, error) { return f.lines, nil }
func (f *fakeCache) SetLines(ctx context.Context, lines []sipuni.Line, ttl time.Duration) error {
	f.lines = lines
	f.setLines++
	return nil
}
func (f *fakeCache) GetEmployees(ctx context.Context) ([]sipuni.Operator, error) {
	return f.employees, nil
}
func (f *fakeCache) SetEmployees(ctx context.Context, employees []sipuni.Operator, ttl time.Duration) error {
	f.employees = employees
	return nil
}
func (f *fakeCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) GetString(ctx context.Context, key string) (string, error) { return "", nil }
func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	f.lines = nil
	return nil
}
func (f *fakeCache) Ping(ctx context.Context) error { return nil }

type CampaignServiceTestSuite struct {
	suite.Suite
	vendor  *MockVendorAPI
	cache   *fakeCache
	service CampaignService
	ctx     context.Context
}

func (s *CampaignServiceTestSuite) SetupTest() {
	s.vendor = new(MockVendorAPI)
	s.cache = &fakeCache{}
	s.service = NewCampaignService(s.vendor, s.cache, nil)
	s.ctx = context.Background()
}

func (s *CampaignServiceTestSuite) TearDownTest() {
	s.vendor.AssertExpectations(s.T())
}

func (s *CampaignServiceTestSuite) TestListCampaigns_Formats() {
	state := sipuni.FlexInt(1)
	s.vendor.On("ListCampaigns", s.ctx, 50, 0).Return([]sipuni.Campaign{
		{ID: sipuni.FlexID("7"), Name: "morning wave", State: &state},
	}, nil)

	campaigns, err := s.service.ListCampaigns(s.ctx, 50, 0)
	s.Require().NoError(err)
	s.Require().Len(campaigns, 1)
	s.Equal("7", campaigns[0].ID)
	s.Equal("active", campaigns[0].Status)
}

func (s *CampaignServiceTestSuite) TestCreateCampaign_FillsDefaults() {
	s.vendor.On("CreateCampaign", s.ctx, mock.MatchedBy(func(p *sipuni.CreateCampaignPayload) bool {
		return p.Name == "fresh" &&
			p.Cooldown == 60 &&
			p.Strategy == 1 &&
			p.Type == "predict" &&
			p.MaxConnections == 1 &&
			p.DefaultInTree == 1
	})).Return(&sipuni.Campaign{ID: sipuni.FlexID("12"), Name: "fresh"}, nil)

	campaign, err := s.service.CreateCampaign(s.ctx, &CreateCampaignRequest{Name: "fresh"})
	s.Require().NoError(err)
	s.Equal("12", campaign.ID)
}

func (s *CampaignServiceTestSuite) TestCreateCampaign_KeepsExplicitValues() {
	override := 0
	s.vendor.On("CreateCampaign", s.ctx, mock.MatchedBy(func(p *sipuni.CreateCampaignPayload) bool {
		return p.Cooldown == 120 && p.Type == "progressive" && p.DefaultInTree == 0
	})).Return(&sipuni.Campaign{ID: sipuni.FlexID("13")}, nil)

	_, err := s.service.CreateCampaign(s.ctx, &CreateCampaignRequest{
		Name:          "custom",
		Cooldown:      120,
		Type:          "progressive",
		DefaultInTree: &override,
	})
	s.Require().NoError(err)
}

func (s *CampaignServiceTestSuite) TestUploadNumbers_AggregatesOutcomes() {
	s.vendor.On("UploadNumber", s.ctx, "9", int64(79001234567)).Return(nil)
	s.vendor.On("UploadNumber", s.ctx, "9", int64(79007654321)).Return(errors.New("duplicate number"))

	summary, err := s.service.UploadNumbers(s.ctx, "9", []string{
		"+7 (900) 123-45-67",
		"79007654321",
		"not-a-number",
	})
	s.Require().NoError(err)
	s.Equal(3, summary.TotalCount)
	s.Equal(1, summary.SuccessCount)
	s.Equal(2, summary.FailureCount)
	s.Require().Len(summary.Results, 3)
	s.True(summary.Results[0].Success)
	s.False(summary.Results[1].Success)
	s.Equal("duplicate number", summary.Results[1].Error)
	s.Equal("not a valid phone number", summary.Results[2].Error)
}

func (s *CampaignServiceTestSuite) TestUploadNumbers_EmptyBatch() {
	summary, err := s.service.UploadNumbers(s.ctx, "9", nil)
	s.Require().NoError(err)
	s.Equal(0, summary.TotalCount)
	s.Empty(summary.Results)
}

func (s *CampaignServiceTestSuite) TestLines_CacheMissThenHit() {
	s.vendor.On("Lines", s.ctx).Return([]sipuni.Line{
		{ID: sipuni.FlexID("1"), Name: "main line"},
	}, nil).Once()

	lines, err := s.service.Lines(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(1, s.cache.setLines)

	// Second call is served from cache; the vendor mock would fail on a
	// second invocation.
	lines, err = s.service.Lines(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
}

func (s *CampaignServiceTestSuite) TestSelectLine_InvalidatesCache() {
	s.cache.lines = []sipuni.Line{{ID: sipuni.FlexID("1")}}
	s.vendor.On("SelectLine", s.ctx, int64(5), int64(1), true).Return(nil)

	err := s.service.SelectLine(s.ctx, 5, 1, true)
	s.Require().NoError(err)
	s.Contains(s.cache.deleted, "callpanel:lines")
}

func (s *CampaignServiceTestSuite) TestSelectLine_VendorErrorKeepsCache() {
	s.cache.lines = []sipuni.Line{{ID: sipuni.FlexID("1")}}
	s.vendor.On("SelectLine", s.ctx, int64(5), int64(1), false).Return(errors.New("boom"))

	err := s.service.SelectLine(s.ctx, 5, 1, false)
	s.Require().Error(err)
	s.Empty(s.cache.deleted)
}

func (s *CampaignServiceTestSuite) TestEmployees_ReadThrough() {
	s.vendor.On("Employees", s.ctx).Return([]sipuni.Operator{
		{ID: sipuni.FlexID("3"), Name: "Ivan"},
	}, nil).Once()

	employees, err := s.service.Employees(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(employees, 1)

	employees, err = s.service.Employees(s.ctx)
	s.Require().NoError(err)
	s.Equal("Ivan", employees[0].Name)
}

func (s *CampaignServiceTestSuite) TestCallReport_Formats() {
	s.vendor.On("CallReport", s.ctx, "4").Return(&sipuni.Report{
		Statistic: &sipuni.ReportStats{All: 10, Answered: 7, NotAnswered: 3},
	}, nil)

	report, err := s.service.CallReport(s.ctx, "4")
	s.Require().NoError(err)
	s.Equal(int64(10), report.TotalCalls)
	s.Equal("70%", report.SuccessRate)
}

func (s *CampaignServiceTestSuite) TestVendorErrorPassesThrough() {
	s.vendor.On("ListCampaigns", s.ctx, 50, 0).Return(nil, sipuni.ErrNotConfigured)

	_, err := s.service.ListCampaigns(s.ctx, 50, 0)
	s.Require().ErrorIs(err, sipuni.ErrNotConfigured)
}

func TestCampaignServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}

func TestSanitizeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"+7 (900) 123-45-67", 79001234567, true},
		{"79001234567", 79001234567, true},
		{"8-800-555-35-35", 88005553535, true},
		{"call me maybe", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := sanitizeNumber(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		if ok {
			require.Equal(t, tc.want, got, tc.in)
		}
	}
}
