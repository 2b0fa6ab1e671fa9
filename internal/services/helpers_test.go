// internal/services/helpers_test.go
package services

import (
	"context"
	"net/url"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/testutil"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

// serviceSuite gives each test a fresh database, fixtures and a publisher
// that records what services emit.
type serviceSuite struct {
	suite.Suite
	ctx    context.Context
	db     *gorm.DB
	fx     *testutil.Fixtures
	scopes *scope.Resolver
	pub    *recordingPublisher
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.fx = testutil.NewFixtures(s.T(), s.db)
	s.scopes = scope.NewResolver(s.db)
	s.pub = &recordingPublisher{}
}

func (s *serviceSuite) as(u *models.User) scope.Principal {
	return scope.Principal{UserID: u.ID, Role: u.Role}
}

func (s *serviceSuite) requireDomainError(err error, code string) {
	s.T().Helper()
	var derr *DomainError
	s.Require().ErrorAs(err, &derr)
	s.Equal(code, derr.Code)
}

func (s *serviceSuite) requireFieldError(err error, field string) {
	s.T().Helper()
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, field)
}

func (s *serviceSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func listQuery(values url.Values) utils.ListQuery {
	return utils.ParseListQuery(values)
}

func ptr[T any](v T) *T { return &v }

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type MockMailer struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody, textBody string) error
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, htmlBody, textBody)
	}
	return nil
}

type MockTexter struct {
	SendFunc func(ctx context.Context, phone, message string) error
}

func (m *MockTexter) Send(ctx context.Context, phone, message string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone, message)
	}
	return nil
}

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{}, nil
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{}, nil
}

type MockPaymentGateway struct {
	CreateIntentFunc func(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*PaymentIntent, error)
	GetIntentFunc    func(ctx context.Context, id string) (*PaymentIntent, error)
}

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*PaymentIntent, error) {
	return m.CreateIntentFunc(ctx, amount, currency, metadata)
}

func (m *MockPaymentGateway) GetIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	return m.GetIntentFunc(ctx, id)
}
