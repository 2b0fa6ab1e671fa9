// internal/services/statistics_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

const (
	MetricLeads             = "leads"
	MetricTasks             = "tasks"
	MetricTechnicalRequests = "technical_requests"
	MetricRevenue           = "revenue"

	DefaultSeriesDays   = 7
	DefaultSeriesMonths = 12
)

var openTicketStatuses = []models.TechnicalRequestStatus{
	models.TicketStatusOpen,
	models.TicketStatusInProgress,
	models.TicketStatusPendingInfo,
}

type StatisticsService struct {
	db     *gorm.DB
	scopes *scope.Resolver
	now    func() time.Time
}

type DashboardStats struct {
	Franchises           int64           `json:"franchises"`
	Units                int64           `json:"units"`
	ActiveUnits          int64           `json:"active_units"`
	Leads                int64           `json:"leads"`
	OpenTickets          int64           `json:"open_tickets"`
	PendingTasks         int64           `json:"pending_tasks"`
	RevenueThisMonth     decimal.Decimal `json:"revenue_this_month"`
	RevenuePreviousMonth decimal.Decimal `json:"revenue_previous_month"`
	RevenueGrowth        float64         `json:"revenue_growth"`
}

// SeriesPoint is one bucket of a chart series. Date is the first day of the
// bucket.
type SeriesPoint struct {
	Date  string          `json:"date"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type sample struct {
	at    time.Time
	value decimal.Decimal
}

func NewStatisticsService(db *gorm.DB, scopes *scope.Resolver) *StatisticsService {
	return &StatisticsService{db: db, scopes: scopes, now: time.Now}
}

func (s *StatisticsService) Dashboard(ctx context.Context, p scope.Principal) (*DashboardStats, error) {
	stats := &DashboardStats{}
	counts := []struct {
		res   scope.Resource
		model interface{}
		where func(*gorm.DB) *gorm.DB
		dst   *int64
	}{
		{scope.Franchise, &models.Franchise{}, nil, &stats.Franchises},
		{scope.Unit, &models.Unit{}, nil, &stats.Units},
		{scope.Unit, &models.Unit{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("units.status = ?", models.UnitStatusActive)
		}, &stats.ActiveUnits},
		{scope.Lead, &models.Lead{}, nil, &stats.Leads},
		{scope.TechnicalRequest, &models.TechnicalRequest{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("technical_requests.status IN ?", openTicketStatuses)
		}, &stats.OpenTickets},
		{scope.Task, &models.Task{}, func(q *gorm.DB) *gorm.DB {
			return q.Where("tasks.status = ?", models.TaskStatusPending)
		}, &stats.PendingTasks},
	}

	for _, c := range counts {
		n, err := s.count(ctx, p, c.res, c.model, c.where)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	now := s.now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	samples, err := s.samples(ctx, p, MetricRevenue, lastMonth, thisMonth.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	stats.RevenueThisMonth = decimal.Zero
	stats.RevenuePreviousMonth = decimal.Zero
	for _, smp := range samples {
		if smp.at.Before(thisMonth) {
			stats.RevenuePreviousMonth = stats.RevenuePreviousMonth.Add(smp.value)
		} else {
			stats.RevenueThisMonth = stats.RevenueThisMonth.Add(smp.value)
		}
	}
	stats.RevenueGrowth = utils.GrowthPercentage(stats.RevenueThisMonth.InexactFloat64(), stats.RevenuePreviousMonth.InexactFloat64())

	return stats, nil
}

func (s *StatisticsService) count(ctx context.Context, p scope.Principal, res scope.Resource, model interface{}, where func(*gorm.DB) *gorm.DB) (int64, error) {
	sc, err := s.scopes.Resolve(ctx, p, res)
	if err != nil {
		return 0, err
	}
	if sc.Empty() {
		return 0, nil
	}
	query := sc.Apply(s.db.WithContext(ctx).Model(model))
	if where != nil {
		query = where(query)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", res, err)
	}
	return n, nil
}

// DailySeries returns exactly days points ending today.
func (s *StatisticsService) DailySeries(ctx context.Context, p scope.Principal, metric string, days int) ([]SeriesPoint, error) {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	today := models.NewDate(s.now().UTC()).Time
	start := today.AddDate(0, 0, -(days - 1))

	points := make([]SeriesPoint, days)
	for i := range points {
		day := start.AddDate(0, 0, i)
		points[i] = SeriesPoint{Date: day.Format(models.DateLayout), Label: day.Format("Jan 2"), Value: decimal.Zero}
	}

	samples, err := s.samples(ctx, p, metric, start, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	for _, smp := range samples {
		i := int(models.NewDate(smp.at).Sub(start).Hours() / 24)
		if i >= 0 && i < days {
			points[i].Value = points[i].Value.Add(smp.value)
		}
	}
	return points, nil
}

// MonthlySeries returns exactly months points ending with the current month.
func (s *StatisticsService) MonthlySeries(ctx context.Context, p scope.Principal, metric string, months int) ([]SeriesPoint, error) {
	if months <= 0 {
		months = DefaultSeriesMonths
	}
	now := s.now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := current.AddDate(0, -(months - 1), 0)

	points := make([]SeriesPoint, months)
	for i := range points {
		month := start.AddDate(0, i, 0)
		points[i] = SeriesPoint{Date: month.Format(models.DateLayout), Label: month.Format("Jan 2006"), Value: decimal.Zero}
	}

	samples, err := s.samples(ctx, p, metric, start, current.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	for _, smp := range samples {
		at := smp.at.UTC()
		i := (at.Year()-start.Year())*12 + int(at.Month()) - int(start.Month())
		if i >= 0 && i < months {
			points[i].Value = points[i].Value.Add(smp.value)
		}
	}
	return points, nil
}

// samples loads the scoped rows of a metric inside [from, to). Counts carry
// a value of one; revenue carries its net amount.
func (s *StatisticsService) samples(ctx context.Context, p scope.Principal, metric string, from, to time.Time) ([]sample, error) {
	one := decimal.NewFromInt(1)

	switch metric {
	case MetricLeads:
		var rows []models.Lead
		if err := s.window(ctx, p, scope.Lead, "leads.created_at", from, to, &rows); err != nil {
			return nil, err
		}
		out := make([]sample, 0, len(rows))
		for _, r := range rows {
			out = append(out, sample{at: r.CreatedAt, value: one})
		}
		return out, nil
	case MetricTasks:
		var rows []models.Task
		if err := s.window(ctx, p, scope.Task, "tasks.created_at", from, to, &rows); err != nil {
			return nil, err
		}
		out := make([]sample, 0, len(rows))
		for _, r := range rows {
			out = append(out, sample{at: r.CreatedAt, value: one})
		}
		return out, nil
	case MetricTechnicalRequests:
		var rows []models.TechnicalRequest
		if err := s.window(ctx, p, scope.TechnicalRequest, "technical_requests.created_at", from, to, &rows); err != nil {
			return nil, err
		}
		out := make([]sample, 0, len(rows))
		for _, r := range rows {
			out = append(out, sample{at: r.CreatedAt, value: one})
		}
		return out, nil
	case MetricRevenue:
		var rows []models.Revenue
		if err := s.window(ctx, p, scope.Revenue, "revenues.revenue_date", models.NewDate(from).String(), models.NewDate(to).String(), &rows,
			func(q *gorm.DB) *gorm.DB { return q.Where("revenues.status IN ?", billableRevenue) }); err != nil {
			return nil, err
		}
		out := make([]sample, 0, len(rows))
		for _, r := range rows {
			out = append(out, sample{at: r.RevenueDate.Time, value: r.NetAmount})
		}
		return out, nil
	}
	return nil, NewValidationError("metric", "The selected metric is invalid")
}

// window loads rows of res whose column falls in [from, to). Date columns
// take YYYY-MM-DD bounds, timestamp columns take times.
func (s *StatisticsService) window(ctx context.Context, p scope.Principal, res scope.Resource, column string, from, to, dst interface{}, extra ...func(*gorm.DB) *gorm.DB) error {
	sc, err := s.scopes.Resolve(ctx, p, res)
	if err != nil {
		return err
	}
	if sc.Empty() {
		return nil
	}

	query := sc.Apply(s.db.WithContext(ctx).Model(dst))
	query = query.Where(column+" >= ? AND "+column+" < ?", from, to)
	for _, fn := range extra {
		query = fn(query)
	}
	if err := query.Find(dst).Error; err != nil {
		return fmt.Errorf("load %s series: %w", res, err)
	}
	return nil
}
