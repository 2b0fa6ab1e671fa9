// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess          = "success"
	KeyCreated          = "resource.created"
	KeyUpdated          = "resource.updated"
	KeyDeleted          = "resource.deleted"
	KeyNotFound         = "resource.not_found"
	KeyConflict         = "resource.conflict"
	KeyForbidden        = "access.forbidden"
	KeyValidationFailed = "validation.failed"
	KeyInvalidID        = "validation.invalid_id"
	KeyInvalidPayload   = "validation.invalid_payload"
	KeyStatusUpdated    = "status.updated"
	KeyInternalError    = "server.internal_error"
	KeyRateLimited      = "rate_limit.exceeded"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthAccountInactive    = "auth.account_inactive"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthTokenRefreshed     = "auth.token_refreshed"
	KeyAuthPasswordChanged    = "auth.password_changed"
	KeyAuthProfileUpdated     = "auth.profile_updated"

	// Users
	KeyUserPasswordReset = "user.password_reset"

	// Franchises and units
	KeyFranchiseBrokerAssigned = "franchise.broker_assigned"
	KeyFranchiseMarketplace    = "franchise.marketplace_toggled"
	KeyUnitFranchiseeAssigned  = "unit.franchisee_assigned"
	KeyFranchiseeProvisioned   = "franchisee.provisioned"

	// Leads
	KeyLeadAssigned  = "lead.assigned"
	KeyLeadConverted = "lead.converted"
	KeyLeadLost      = "lead.lost"
	KeyLeadNoteAdded = "lead.note_added"

	// Tasks
	KeyTaskAssigned  = "task.assigned"
	KeyTaskCompleted = "task.completed"

	// Technical requests
	KeyTicketAssigned   = "technical_request.assigned"
	KeyTicketResolved   = "technical_request.resolved"
	KeyTicketClosed     = "technical_request.closed"
	KeyTicketEscalated  = "technical_request.escalated"
	KeyTicketRated      = "technical_request.rated"
	KeyTicketAttachment = "technical_request.attachment_added"

	// Revenue and royalties
	KeyRevenueVerified      = "revenue.verified"
	KeyRevenueDisputed      = "revenue.disputed"
	KeyRevenueRefunded      = "revenue.refunded"
	KeyRoyaltiesGenerated   = "royalty.generated"
	KeyRoyaltyPaid          = "royalty.paid"
	KeyRoyaltyDisputed      = "royalty.disputed"
	KeyRoyaltyCancelled     = "royalty.cancelled"
	KeyRoyaltyProofUploaded = "royalty.proof_uploaded"
	KeyRoyaltiesOverdue     = "royalty.overdue_marked"

	// Other resources
	KeyReviewModerated      = "review.moderated"
	KeyStaffAssigned        = "staff.assigned"
	KeyStaffUnassigned      = "staff.unassigned"
	KeyTransactionCompleted = "transaction.completed"
	KeyTransactionCancelled = "transaction.cancelled"
	KeyDocumentUploaded     = "document.uploaded"
	KeyNotificationRead     = "notification.read"
	KeyNotificationsReadAll = "notification.read_all"
)
