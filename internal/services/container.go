// internal/services/container.go
package services

import (
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/scope"
)

// Dependencies are the collaborators built by the binaries. Nil values get
// safe defaults: events are discarded, tokens are revoked in memory and
// uploads or payments fail with NOT_CONFIGURED.
type Dependencies struct {
	Publisher     events.Publisher
	Storage       *StorageService
	Payments      PaymentGateway
	Denylist      TokenDenylist
	Notifications *NotificationService
}

// Container holds one instance of every service sharing a scope resolver.
type Container struct {
	Auth             *AuthService
	User             *UserService
	Admin            *AdminService
	Franchise        *FranchiseService
	Unit             *UnitService
	Lead             *LeadService
	Task             *TaskService
	TechnicalRequest *TechnicalRequestService
	Revenue          *RevenueService
	Royalty          *RoyaltyService
	Product          *ProductService
	Document         *DocumentService
	Review           *ReviewService
	Transaction      *TransactionService
	Staff            *StaffService
	Property         *PropertyService
	Notification     *NotificationService
	Statistics       *StatisticsService
}

func NewContainer(db *gorm.DB, cfg *config.Config, deps Dependencies) *Container {
	scopes := scope.NewResolver(db)

	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Discard{}
	}
	notifications := deps.Notifications
	if notifications == nil {
		notifications = NewNotificationService(db, scopes, LogMailer{}, LogTexter{}, cfg.Frontend.BaseURL)
	}

	return &Container{
		Auth:             NewAuthService(db, cfg, deps.Denylist),
		User:             NewUserService(db, scopes),
		Admin:            NewAdminService(db),
		Franchise:        NewFranchiseService(db, scopes),
		Unit:             NewUnitService(db, scopes, publisher),
		Lead:             NewLeadService(db, scopes, publisher),
		Task:             NewTaskService(db, scopes, publisher),
		TechnicalRequest: NewTechnicalRequestService(db, scopes, publisher, deps.Storage),
		Revenue:          NewRevenueService(db, scopes, publisher),
		Royalty:          NewRoyaltyService(db, scopes, publisher, deps.Storage, deps.Payments, cfg.Royalty.DueDay),
		Product:          NewProductService(db, scopes),
		Document:         NewDocumentService(db, scopes, deps.Storage),
		Review:           NewReviewService(db, scopes),
		Transaction:      NewTransactionService(db, scopes),
		Staff:            NewStaffService(db, scopes),
		Property:         NewPropertyService(db, scopes),
		Notification:     notifications,
		Statistics:       NewStatisticsService(db, scopes),
	}
}
