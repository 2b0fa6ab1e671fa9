// internal/models/options.go
package models

// Option groups served to clients and used by the validation rule tables.
const (
	OptUserRoles           = "user_roles"
	OptUserStatuses        = "user_statuses"
	OptPriorities          = "priorities"
	OptFranchiseStatuses   = "franchise_statuses"
	OptIndustries          = "industries"
	OptUnitStatuses        = "unit_statuses"
	OptLeadStatuses        = "lead_statuses"
	OptLeadSources         = "lead_sources"
	OptTaskStatuses        = "task_statuses"
	OptTaskCategories      = "task_categories"
	OptTicketStatuses      = "technical_request_statuses"
	OptTicketCategories    = "technical_request_categories"
	OptRevenueStatuses     = "revenue_statuses"
	OptRevenueTypes        = "revenue_types"
	OptPaymentMethods      = "payment_methods"
	OptPaymentStatuses     = "payment_statuses"
	OptRoyaltyStatuses     = "royalty_statuses"
	OptPropertyStatuses    = "property_statuses"
	OptPropertyTypes       = "property_types"
	OptStaffStatuses       = "staff_statuses"
	OptEmploymentTypes     = "employment_types"
	OptProductStatuses     = "product_statuses"
	OptDocumentTypes       = "document_types"
	OptDocumentStatuses    = "document_statuses"
	OptReviewStatuses      = "review_statuses"
	OptTransactionTypes    = "transaction_types"
	OptTransactionStatuses = "transaction_statuses"
	OptModerationDecisions = "moderation_decisions"
	OptSelfRegisterRoles   = "self_register_roles"
	OptStatisticsMetrics   = "statistics_metrics"
)

var Options = map[string][]string{
	OptUserRoles:           {string(RoleAdmin), string(RoleFranchisor), string(RoleFranchisee), string(RoleBroker)},
	OptUserStatuses:        {string(UserStatusActive), string(UserStatusInactive), string(UserStatusPending), string(UserStatusSuspended)},
	OptPriorities:          {string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent)},
	OptFranchiseStatuses:   {string(FranchiseStatusActive), string(FranchiseStatusInactive), string(FranchiseStatusPending), string(FranchiseStatusSuspended)},
	OptIndustries:          {"food_beverage", "retail", "health_fitness", "education", "automotive", "services", "hospitality", "beauty", "other"},
	OptUnitStatuses:        {string(UnitStatusPlanning), string(UnitStatusConstruction), string(UnitStatusTraining), string(UnitStatusActive), string(UnitStatusTemporarilyClosed), string(UnitStatusClosed)},
	OptLeadStatuses:        {string(LeadStatusNew), string(LeadStatusContacted), string(LeadStatusQualified), string(LeadStatusProposalSent), string(LeadStatusNegotiating), string(LeadStatusClosedWon), string(LeadStatusClosedLost)},
	OptLeadSources:         {"website", "referral", "social_media", "advertisement", "cold_call", "event", "other"},
	OptTaskStatuses:        {string(TaskStatusPending), string(TaskStatusInProgress), string(TaskStatusCompleted), string(TaskStatusCancelled), string(TaskStatusOnHold)},
	OptTaskCategories:      {"onboarding", "training", "maintenance", "marketing", "compliance", "sales", "operations", "other"},
	OptTicketStatuses:      {string(TicketStatusOpen), string(TicketStatusInProgress), string(TicketStatusPendingInfo), string(TicketStatusResolved), string(TicketStatusClosed), string(TicketStatusCancelled)},
	OptTicketCategories:    {"hardware", "software", "network", "pos_system", "equipment", "facility", "other"},
	OptRevenueStatuses:     {string(RevenueStatusDraft), string(RevenueStatusPending), string(RevenueStatusVerified), string(RevenueStatusDisputed)},
	OptRevenueTypes:        {"sales", "service", "product", "marketing_fee", "other"},
	OptPaymentMethods:      {"cash", "card", "bank_transfer", "check", "online", "other"},
	OptPaymentStatuses:     {string(PaymentStatusPending), string(PaymentStatusCompleted), string(PaymentStatusFailed), string(PaymentStatusRefunded)},
	OptRoyaltyStatuses:     {string(RoyaltyStatusDraft), string(RoyaltyStatusPending), string(RoyaltyStatusPaid), string(RoyaltyStatusOverdue), string(RoyaltyStatusDisputed), string(RoyaltyStatusCancelled)},
	OptPropertyStatuses:    {string(PropertyStatusAvailable), string(PropertyStatusUnderNegotiation), string(PropertyStatusLeased), string(PropertyStatusUnavailable)},
	OptPropertyTypes:       {"retail", "office", "industrial", "mixed_use", "land", "restaurant"},
	OptStaffStatuses:       {string(StaffStatusActive), string(StaffStatusInactive), string(StaffStatusOnLeave), string(StaffStatusTerminated)},
	OptEmploymentTypes:     {"full_time", "part_time", "contract", "seasonal"},
	OptProductStatuses:     {string(ProductStatusActive), string(ProductStatusInactive), string(ProductStatusDiscontinued)},
	OptDocumentTypes:       {"contract", "agreement", "manual", "policy", "license", "certificate", "report", "invoice", "other"},
	OptDocumentStatuses:    {string(DocumentStatusActive), string(DocumentStatusArchived), string(DocumentStatusExpired)},
	OptReviewStatuses:      {string(ReviewStatusPending), string(ReviewStatusApproved), string(ReviewStatusRejected)},
	OptTransactionTypes:    {string(TransactionTypeIncome), string(TransactionTypeExpense), string(TransactionTypeRoyaltyPayment), string(TransactionTypeRefund), string(TransactionTypeTransfer)},
	OptTransactionStatuses: {string(TransactionStatusPending), string(TransactionStatusCompleted), string(TransactionStatusFailed), string(TransactionStatusCancelled)},
	OptModerationDecisions: {string(ReviewStatusApproved), string(ReviewStatusRejected)},
	OptSelfRegisterRoles:   {string(RoleFranchisor), string(RoleBroker)},
	OptStatisticsMetrics:   {"leads", "tasks", "technical_requests", "revenue"},
}

// StatusColors maps status values to the badge colour the dashboard uses.
var StatusColors = map[string]string{
	"active":             "success",
	"available":          "success",
	"approved":           "success",
	"verified":           "success",
	"paid":               "success",
	"completed":          "success",
	"closed_won":         "success",
	"resolved":           "success",
	"pending":            "warning",
	"draft":              "grey",
	"planning":           "info",
	"construction":       "info",
	"training":           "info",
	"in_progress":        "info",
	"new":                "info",
	"contacted":          "info",
	"qualified":          "primary",
	"proposal_sent":      "primary",
	"negotiating":        "primary",
	"under_negotiation":  "primary",
	"pending_info":       "warning",
	"on_hold":            "warning",
	"overdue":            "error",
	"disputed":           "error",
	"rejected":           "error",
	"suspended":          "error",
	"closed_lost":        "error",
	"cancelled":          "grey",
	"inactive":           "grey",
	"closed":             "grey",
	"leased":             "grey",
	"unavailable":        "grey",
	"temporarily_closed": "warning",
}

var PriorityColors = map[string]string{
	string(PriorityLow):    "grey",
	string(PriorityMedium): "info",
	string(PriorityHigh):   "warning",
	string(PriorityUrgent): "error",
}
