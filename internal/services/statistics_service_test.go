// internal/services/statistics_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type StatisticsServiceSuite struct {
	serviceSuite
	svc        *StatisticsService
	franchisor *models.User
	franchisee *models.User
	unit       *models.Unit
}

func TestStatisticsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatisticsServiceSuite))
}

func mustTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *StatisticsServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewStatisticsService(s.db, s.scopes)
	s.svc.now = func() time.Time { return mustTime("2024-03-20T12:00:00Z") }

	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchisee = s.fx.User(models.RoleFranchisee)
	s.unit = s.fx.Unit(s.fx.Franchise(s.franchisor), s.franchisee)

	s.fx.Revenue(s.unit, s.franchisee, 1000, mustTime("2024-03-05T00:00:00Z"))
	s.fx.Revenue(s.unit, s.franchisee, 750, mustTime("2024-02-10T00:00:00Z"), func(r *models.Revenue) {
		r.Status = models.RevenueStatusVerified
	})
	s.fx.Revenue(s.unit, s.franchisee, 400, mustTime("2024-03-06T00:00:00Z"), func(r *models.Revenue) {
		r.Status = models.RevenueStatusDisputed
	})
}

func (s *StatisticsServiceSuite) TestDashboardRevenueGrowth() {
	s.fx.Ticket(s.unit, s.franchisee)
	s.fx.Ticket(s.unit, s.franchisee, func(t *models.TechnicalRequest) { t.Status = models.TicketStatusClosed })

	stats, err := s.svc.Dashboard(s.ctx, s.as(s.franchisor))
	s.Require().NoError(err)

	s.Equal(int64(1), stats.Franchises)
	s.Equal(int64(1), stats.Units)
	s.Equal(int64(1), stats.ActiveUnits)
	s.Equal(int64(1), stats.OpenTickets)
	s.True(dec("1000").Equal(stats.RevenueThisMonth), stats.RevenueThisMonth.String())
	s.True(dec("750").Equal(stats.RevenuePreviousMonth), stats.RevenuePreviousMonth.String())
	s.Equal(33.33, stats.RevenueGrowth)
}

func (s *StatisticsServiceSuite) TestDashboardIsScoped() {
	stats, err := s.svc.Dashboard(s.ctx, s.as(s.fx.User(models.RoleFranchisor)))
	s.Require().NoError(err)

	s.Zero(stats.Franchises)
	s.Zero(stats.Units)
	s.True(stats.RevenueThisMonth.IsZero())
	s.Zero(stats.RevenueGrowth)
}

func (s *StatisticsServiceSuite) TestDailySeriesHasFixedLength() {
	broker := s.fx.User(models.RoleBroker)
	for _, created := range []string{"2024-03-13T09:00:00Z", "2024-03-14T09:00:00Z", "2024-03-20T08:00:00Z", "2024-03-20T10:30:00Z"} {
		ts := mustTime(created)
		s.fx.Lead(broker, func(l *models.Lead) { l.CreatedAt = ts })
	}
	s.fx.Lead(s.fx.User(models.RoleBroker), func(l *models.Lead) { l.CreatedAt = mustTime("2024-03-18T09:00:00Z") })

	points, err := s.svc.DailySeries(s.ctx, s.as(broker), MetricLeads, 0)
	s.Require().NoError(err)
	s.Require().Len(points, DefaultSeriesDays)

	s.Equal("2024-03-14", points[0].Date)
	s.Equal("2024-03-20", points[6].Date)
	s.True(points[0].Value.Equal(dec("1")))
	s.True(points[4].Value.IsZero())
	s.True(points[6].Value.Equal(dec("2")))
}

func (s *StatisticsServiceSuite) TestMonthlyRevenueSeries() {
	points, err := s.svc.MonthlySeries(s.ctx, s.as(s.franchisee), MetricRevenue, 0)
	s.Require().NoError(err)
	s.Require().Len(points, DefaultSeriesMonths)

	s.Equal("2023-04-01", points[0].Date)
	s.Equal("Mar 2024", points[11].Label)
	s.True(points[10].Value.Equal(dec("750")), points[10].Value.String())
	s.True(points[11].Value.Equal(dec("1000")), points[11].Value.String())
	s.True(points[0].Value.IsZero())
}

func (s *StatisticsServiceSuite) TestShortMonthlySeries() {
	points, err := s.svc.MonthlySeries(s.ctx, s.as(s.franchisee), MetricRevenue, 1)
	s.Require().NoError(err)
	s.Require().Len(points, 1)
	s.True(points[0].Value.Equal(dec("1000")))
}

func (s *StatisticsServiceSuite) TestUnknownMetric() {
	_, err := s.svc.DailySeries(s.ctx, s.as(s.franchisor), "visitors", 7)
	s.requireFieldError(err, "metric")
}
