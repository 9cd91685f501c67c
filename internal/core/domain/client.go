package domain

// Client is a company that posts requisitions and is billed for approved
// timesheets. BillingCustomerID is the handle at the external billing
// provider; settlement is impossible while it is empty.
type Client struct {
	ClientID          string `json:"clientID"`
	Name              string `json:"name"`
	ContactEmail      string `json:"contactEmail"`
	BillingCustomerID string `json:"billingCustomerID,omitempty"`
	Archived          bool   `json:"archived"`
	AuditFields
}
