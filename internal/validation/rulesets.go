// internal/validation/rulesets.go
package validation

import (
	"github.com/javajoker/franchise-backoffice/internal/models"
)

// Key names a rule set as resource.operation.
type Key string

const (
	AuthRegister       Key = "auth.register"
	AuthProfile        Key = "auth.profile"
	AuthChangePassword Key = "auth.change_password"

	UserCreate        Key = "user.create"
	UserUpdate        Key = "user.update"
	UserStatus        Key = "user.status"
	UserResetPassword Key = "user.reset_password"

	FranchiseCreate       Key = "franchise.create"
	FranchiseUpdate       Key = "franchise.update"
	FranchiseAssignBroker Key = "franchise.assign_broker"
	FranchiseStatus       Key = "franchise.status"

	UnitCreate           Key = "unit.create"
	UnitUpdate           Key = "unit.update"
	UnitAssignFranchisee Key = "unit.assign_franchisee"
	UnitStatus           Key = "unit.status"
	FranchiseeProvision  Key = "franchisee.provision"
	FranchiseeUnit       Key = "franchisee.unit"

	LeadCreate   Key = "lead.create"
	LeadUpdate   Key = "lead.update"
	LeadAssign   Key = "lead.assign"
	LeadStatus   Key = "lead.status"
	LeadConvert  Key = "lead.convert"
	LeadMarkLost Key = "lead.mark_lost"
	LeadNote     Key = "lead.note"

	TaskCreate Key = "task.create"
	TaskUpdate Key = "task.update"
	TaskAssign Key = "task.assign"
	TaskStatus Key = "task.status"

	TicketCreate     Key = "technical_request.create"
	TicketUpdate     Key = "technical_request.update"
	TicketAssign     Key = "technical_request.assign"
	TicketStatus     Key = "technical_request.status"
	TicketResolve    Key = "technical_request.resolve"
	TicketRate       Key = "technical_request.rate"
	TicketAttachment Key = "technical_request.attachment"

	RevenueCreate  Key = "revenue.create"
	RevenueUpdate  Key = "revenue.update"
	RevenueDispute Key = "revenue.dispute"
	RevenueRefund  Key = "revenue.refund"

	RoyaltyCreate       Key = "royalty.create"
	RoyaltyUpdate       Key = "royalty.update"
	RoyaltyGenerate     Key = "royalty.generate"
	RoyaltyMarkPaid     Key = "royalty.mark_paid"
	RoyaltyDispute      Key = "royalty.dispute"
	RoyaltyPaymentProof Key = "royalty.payment_proof"

	ProductCreate Key = "product.create"
	ProductUpdate Key = "product.update"

	DocumentUpload Key = "document.upload"
	DocumentUpdate Key = "document.update"

	ReviewCreate   Key = "review.create"
	ReviewUpdate   Key = "review.update"
	ReviewModerate Key = "review.moderate"

	TransactionCreate Key = "transaction.create"
	TransactionUpdate Key = "transaction.update"

	StaffCreate     Key = "staff.create"
	StaffUpdate     Key = "staff.update"
	StaffAssignUnit Key = "staff.assign_unit"

	PropertyCreate Key = "property.create"
	PropertyUpdate Key = "property.update"
	PropertyStatus Key = "property.status"
)

const (
	maxUploadMB     = 10
	maxAttachmentMB = 5
)

var documentTypes = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".jpg", ".jpeg", ".png", ".txt"}

var attachmentTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".txt", ".log", ".zip"}

var proofTypes = []string{".pdf", ".jpg", ".jpeg", ".png"}

var userCreate = RuleSet{
	"name":         {Required(), String(), MaxLength(255)},
	"email":        {Required(), Email(), MaxLength(255)},
	"phone":        {Phone()},
	"password":     {Required(), MinLength(8), Confirmed("password_confirmation")},
	"role":         {Required(), OneOf(models.OptUserRoles)},
	"status":       {OneOf(models.OptUserStatuses)},
	"franchise_id": {UUID()},
}

var franchiseCreate = RuleSet{
	"franchisor_id":            {UUID()},
	"broker_id":                {UUID()},
	"name":                     {Required(), String(), MaxLength(255)},
	"business_name":            {String(), MaxLength(255)},
	"industry":                 {Required(), OneOf(models.OptIndustries)},
	"description":              {String()},
	"website":                  {URL()},
	"contact_email":            {Email()},
	"contact_phone":            {Phone()},
	"headquarters_address":     {String(), MaxLength(255)},
	"headquarters_city":        {String(), MaxLength(100)},
	"headquarters_state":       {String(), MaxLength(100)},
	"headquarters_country":     {String(), MaxLength(100)},
	"franchise_fee":            {Numeric(), Min(0)},
	"royalty_percentage":       {Required(), Numeric(), Between(0, 100)},
	"marketing_fee_percentage": {Numeric(), Between(0, 100)},
	"total_investment_min":     {Numeric(), Min(0)},
	"total_investment_max":     {Numeric(), Min(0)},
	"established_date":         {Date(), BeforeOrEqual("today")},
	"status":                   {OneOf(models.OptFranchiseStatuses)},
	"is_marketplace_listed":    {Boolean()},
}

var unitCreate = RuleSet{
	"franchise_id":  {Required(), UUID()},
	"franchisee_id": {UUID()},
	"unit_name":     {Required(), String(), MaxLength(255)},
	"address":       {Required(), String(), MaxLength(255)},
	"city":          {Required(), String(), MaxLength(100)},
	"state":         {String(), MaxLength(100)},
	"postal_code":   {String(), MaxLength(20)},
	"country":       {Required(), String(), MaxLength(100)},
	"phone":         {Phone()},
	"email":         {Email()},
	"size_sqft":     {Integer(), Min(0)},
	"monthly_rent":  {Numeric(), Min(0)},
	"opening_date":  {Date()},
	"status":        {OneOf(models.OptUnitStatuses)},
}

var leadCreate = RuleSet{
	"franchise_id":        {UUID()},
	"assigned_to":         {UUID()},
	"first_name":          {Required(), String(), MaxLength(100)},
	"last_name":           {Required(), String(), MaxLength(100)},
	"email":               {Required(), Email()},
	"phone":               {Phone()},
	"city":                {String(), MaxLength(100)},
	"state":               {String(), MaxLength(100)},
	"country":             {String(), MaxLength(100)},
	"source":              {Required(), OneOf(models.OptLeadSources)},
	"status":              {OneOf(models.OptLeadStatuses)},
	"priority":            {OneOf(models.OptPriorities)},
	"investment_budget":   {Numeric(), Min(0)},
	"expected_close_date": {Date(), AfterOrEqualToday()},
}

var taskCreate = RuleSet{
	"title":        {Required(), String(), MaxLength(255)},
	"description":  {String()},
	"assigned_to":  {Required(), UUID()},
	"franchise_id": {UUID()},
	"unit_id":      {UUID()},
	"lead_id":      {UUID()},
	"category":     {Required(), OneOf(models.OptTaskCategories)},
	"priority":     {OneOf(models.OptPriorities)},
	"status":       {OneOf(models.OptTaskStatuses)},
	"due_date":     {Date(), AfterOrEqualToday()},
}

var ticketCreate = RuleSet{
	"title":        {Required(), String(), MaxLength(255)},
	"description":  {Required(), String(), MinLength(10)},
	"category":     {Required(), OneOf(models.OptTicketCategories)},
	"priority":     {Required(), OneOf(models.OptPriorities)},
	"franchise_id": {UUID()},
	"unit_id":      {UUID()},
	"assigned_to":  {UUID()},
}

var revenueCreate = RuleSet{
	"unit_id":         {Required(), UUID()},
	"type":            {Required(), OneOf(models.OptRevenueTypes)},
	"category":        {String(), MaxLength(100)},
	"amount":          {Required(), Numeric(), Min(0.01)},
	"tax_amount":      {Numeric(), Min(0)},
	"discount_amount": {Numeric(), Min(0)},
	"revenue_date":    {Required(), Date(), BeforeOrEqual("today")},
	"payment_method":  {Required(), OneOf(models.OptPaymentMethods)},
	"payment_status":  {OneOf(models.OptPaymentStatuses)},
	"status":          {InArray(string(models.RevenueStatusDraft), string(models.RevenueStatusPending))},
	"description":     {String()},
}

var royaltyCreate = RuleSet{
	"unit_id":       {Required(), UUID()},
	"period_year":   {Required(), Integer(), Between(2000, 2100)},
	"period_month":  {Required(), Integer(), Between(1, 12)},
	"gross_revenue": {Required(), Numeric(), Min(0)},
	"due_date":      {Required(), Date()},
	"notes":         {String()},
}

var productCreate = RuleSet{
	"franchise_id":   {Required(), UUID()},
	"name":           {Required(), String(), MaxLength(255)},
	"sku":            {Required(), Regex(`^[A-Za-z0-9._-]{1,64}$`, "SKU may only contain letters, digits, dots, dashes and underscores")},
	"description":    {String()},
	"category":       {String(), MaxLength(100)},
	"unit_price":     {Required(), Numeric(), Min(0)},
	"cost_price":     {Numeric(), Min(0)},
	"stock_quantity": {Integer(), Min(0)},
	"images":         {Array()},
	"status":         {OneOf(models.OptProductStatuses)},
}

var reviewCreate = RuleSet{
	"franchise_id": {Required(), UUID()},
	"rating":       {Required(), Integer(), Between(1, 5)},
	"title":        {String(), MaxLength(255)},
	"comment":      {Required(), String(), MinLength(10), MaxLength(2000)},
}

var transactionCreate = RuleSet{
	"franchise_id":     {Required(), UUID()},
	"unit_id":          {UUID()},
	"royalty_id":       {UUID()},
	"type":             {Required(), OneOf(models.OptTransactionTypes)},
	"category":         {String(), MaxLength(100)},
	"amount":           {Required(), Numeric(), Min(0.01)},
	"transaction_date": {Required(), Date()},
	"payment_method":   {OneOf(models.OptPaymentMethods)},
	"reference_number": {String(), MaxLength(255)},
	"description":      {String()},
}

var staffCreate = RuleSet{
	"franchise_id":    {Required(), UUID()},
	"first_name":      {Required(), String(), MaxLength(100)},
	"last_name":       {Required(), String(), MaxLength(100)},
	"email":           {Email()},
	"phone":           {Phone()},
	"position":        {Required(), String(), MaxLength(100)},
	"employment_type": {Required(), OneOf(models.OptEmploymentTypes)},
	"hire_date":       {Date(), BeforeOrEqual("today")},
	"salary":          {Numeric(), Min(0)},
	"status":          {OneOf(models.OptStaffStatuses)},
}

var propertyCreate = RuleSet{
	"title":          {Required(), String(), MaxLength(255)},
	"property_type":  {Required(), OneOf(models.OptPropertyTypes)},
	"address":        {Required(), String(), MaxLength(255)},
	"city":           {Required(), String(), MaxLength(100)},
	"state":          {String(), MaxLength(100)},
	"postal_code":    {String(), MaxLength(20)},
	"country":        {String(), MaxLength(100)},
	"size_sqft":      {Integer(), Min(0)},
	"monthly_rent":   {Numeric(), Min(0)},
	"sale_price":     {Numeric(), Min(0)},
	"available_from": {Date()},
	"description":    {String()},
	"status":         {OneOf(models.OptPropertyStatuses)},
}

var documentUpload = RuleSet{
	"file":         {FilePresent(), FileType(documentTypes...), FileSize(maxUploadMB)},
	"title":        {Required(), String(), MaxLength(255)},
	"type":         {Required(), OneOf(models.OptDocumentTypes)},
	"franchise_id": {UUID()},
	"unit_id":      {UUID()},
	"expires_at":   {Date(), AfterToday()},
}

var table = map[Key]RuleSet{
	AuthRegister: Extend(Only(userCreate, "name", "email", "phone", "password"), RuleSet{
		"role": {Required(), OneOf(models.OptSelfRegisterRoles)},
	}),
	AuthProfile: Partial(Only(userCreate, "name", "phone")),
	AuthChangePassword: {
		"current_password": {Required()},
		"new_password":     {Required(), MinLength(8), Confirmed("new_password_confirmation")},
	},

	UserCreate:        userCreate,
	UserUpdate:        Partial(Extend(userCreate, RuleSet{"password": {MinLength(8)}})),
	UserStatus:        {"status": {Required(), OneOf(models.OptUserStatuses)}},
	UserResetPassword: {"password": {Required(), MinLength(8), Confirmed("password_confirmation")}},

	FranchiseCreate:       franchiseCreate,
	FranchiseUpdate:       Partial(franchiseCreate),
	FranchiseAssignBroker: {"broker_id": {UUID()}},
	FranchiseStatus:       {"status": {Required(), OneOf(models.OptFranchiseStatuses)}},

	UnitCreate:           unitCreate,
	UnitUpdate:           Partial(unitCreate),
	UnitAssignFranchisee: {"franchisee_id": {Required(), UUID()}},
	UnitStatus:           {"status": {Required(), OneOf(models.OptUnitStatuses)}},
	FranchiseeProvision: Extend(Only(userCreate, "name", "email", "phone", "password"), RuleSet{
		"unit": {Required()},
	}),
	FranchiseeUnit: Extend(unitCreate, RuleSet{"franchisee_id": {}}),

	LeadCreate: leadCreate,
	LeadUpdate: Partial(leadCreate),
	LeadAssign: {"assigned_to": {Required(), UUID()}},
	LeadStatus: {
		"status":      {Required(), OneOf(models.OptLeadStatuses)},
		"lost_reason": {RequiredIf("status", string(models.LeadStatusClosedLost)), String()},
	},
	LeadConvert:  {"notes": {String()}},
	LeadMarkLost: {"lost_reason": {Required(), String(), MinLength(3)}},
	LeadNote:     {"note": {Required(), String(), MaxLength(5000)}},

	TaskCreate: taskCreate,
	TaskUpdate: Partial(taskCreate),
	TaskAssign: {"assigned_to": {Required(), UUID()}},
	TaskStatus: {"status": {Required(), OneOf(models.OptTaskStatuses)}},

	TicketCreate: ticketCreate,
	TicketUpdate: Partial(Only(ticketCreate, "title", "description", "category", "priority")),
	TicketAssign: {"assigned_to": {Required(), UUID()}},
	TicketStatus: {
		"status":     {Required(), OneOf(models.OptTicketStatuses)},
		"resolution": {RequiredIf("status", string(models.TicketStatusResolved)), String()},
	},
	TicketResolve:    {"resolution": {Required(), String(), MinLength(5)}},
	TicketRate:       {"satisfaction_rating": {Required(), Integer(), Between(1, 5)}},
	TicketAttachment: {"file": {FilePresent(), FileType(attachmentTypes...), FileSize(maxAttachmentMB)}},

	RevenueCreate:  revenueCreate,
	RevenueUpdate:  Partial(Only(revenueCreate, "type", "category", "amount", "tax_amount", "discount_amount", "revenue_date", "payment_method", "payment_status", "description")),
	RevenueDispute: {"dispute_reason": {Required(), String(), MinLength(5)}},
	RevenueRefund: {
		"amount": {Numeric(), Min(0.01)},
		"reason": {Required(), String()},
	},

	RoyaltyCreate: royaltyCreate,
	RoyaltyUpdate: Partial(Only(royaltyCreate, "gross_revenue", "due_date", "notes")),
	RoyaltyGenerate: {
		"period_year":  {Required(), Integer(), Between(2000, 2100)},
		"period_month": {Required(), Integer(), Between(1, 12)},
		"franchise_id": {UUID()},
	},
	RoyaltyMarkPaid: {
		"payment_reference": {Required(), String(), MaxLength(255)},
		"paid_at":           {Date()},
	},
	RoyaltyDispute:      {"dispute_reason": {Required(), String(), MinLength(5)}},
	RoyaltyPaymentProof: {"file": {FilePresent(), FileType(proofTypes...), FileSize(maxAttachmentMB)}},

	ProductCreate: productCreate,
	ProductUpdate: Partial(productCreate),

	DocumentUpload: documentUpload,
	DocumentUpdate: Partial(Extend(Only(documentUpload, "title", "type", "expires_at"), RuleSet{
		"status": {OneOf(models.OptDocumentStatuses)},
	})),

	ReviewCreate:   reviewCreate,
	ReviewUpdate:   Partial(Only(reviewCreate, "rating", "title", "comment")),
	ReviewModerate: {"status": {Required(), OneOf(models.OptModerationDecisions)}},

	TransactionCreate: transactionCreate,
	TransactionUpdate: Partial(Only(transactionCreate, "category", "amount", "transaction_date", "payment_method", "reference_number", "description")),

	StaffCreate: staffCreate,
	StaffUpdate: Partial(staffCreate),
	StaffAssignUnit: {
		"unit_id":    {Required(), UUID()},
		"role":       {String(), MaxLength(100)},
		"is_primary": {Boolean()},
	},

	PropertyCreate: propertyCreate,
	PropertyUpdate: Partial(propertyCreate),
	PropertyStatus: {"status": {Required(), OneOf(models.OptPropertyStatuses)}},
}

// Lookup returns the rule set registered under key.
func Lookup(key Key) (RuleSet, bool) {
	set, ok := table[key]
	return set, ok
}

// Check validates data against the set registered under key. An unknown
// key yields an error on the "_" field instead of silently passing.
func Check(key Key, data Data) Errors {
	set, ok := Lookup(key)
	if !ok {
		return Errors{"_": {"Unknown rule set " + string(key)}}
	}
	return Validate(data, set)
}
