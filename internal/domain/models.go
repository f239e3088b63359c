package domain

import "time"

// LineKey identifies the (dress pattern, piece, layer) unit of work a line
// item describes. Accessories pending for the line currently being composed
// are keyed the same way.
type LineKey struct {
	DressPattern string `json:"dress_pattern"`
	PieceName    string `json:"piece_name"`
	LayerName    string `json:"layer_name"`
}

// LineItem is one costed (pattern, piece, layer) row of an invoice. Field
// order matters: the ledger file serializes these keys in exactly this order,
// and the edit-recompute rule in the billing package walks the numeric fields
// positionally.
type LineItem struct {
	DressPattern           string           `json:"dress_pattern"`
	PieceName              string           `json:"piece_name"`
	LayerName              string           `json:"layer_name"`
	TotalCost              Number           `json:"total_cost"`
	LayerQuantity          Number           `json:"layer_qnty"`
	LayerPrice             Number           `json:"layer_price"`
	MachineHours           Number           `json:"machine_hours"`
	MachineCost            Number           `json:"machine_cost"`
	EmbroideryHours        Number           `json:"embroidery_hours"`
	EmbroideryCost         Number           `json:"embroidery_cost"`
	EmbroideryMaterialCost Number           `json:"embroidery_material_cost"`
	DyingCharges           Number           `json:"dying_charges"`
	OtherCost              Number           `json:"other_cost"`
	FixedCost              Number           `json:"fixed_cost"`
	Accessories            []AccessoryEntry `json:"accessories"`
}

func (li LineItem) Key() LineKey {
	return LineKey{DressPattern: li.DressPattern, PieceName: li.PieceName, LayerName: li.LayerName}
}

// Invoice is a finalized bill: a numbered, financial-year-scoped snapshot of
// the draft's line items.
type Invoice struct {
	BillNo     string     `json:"bill_no"`
	BillDate   time.Time  `json:"bill_date"`
	ClientName string     `json:"client_name"`
	LineItems  []LineItem `json:"line_items"`
	GrandTotal Number     `json:"grand_total"`
}

// BillRecord is one entry of the ledger's results list.
type BillRecord struct {
	BillNo    string     `json:"bill_no"`
	LineItems []LineItem `json:"line_items"`
}

// CatalogRow is one row of a reference-price table as read from the workbook.
// Price stays raw text here: the catalog rebuild decides whether the row is
// usable (blank or non-numeric prices drop the row).
type CatalogRow struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type ClientDetail struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type CompanyDetail struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	GSTN         string `json:"gstn"`
}

// PatternTotal is one numbered row of the invoice document's pattern summary.
type PatternTotal struct {
	SNo          int     `json:"s_no"`
	DressPattern string  `json:"dress_pattern"`
	TotalCost    float64 `json:"total_cost"`
}

// InvoiceDocument is the render collaborator's input: everything the printed
// bill needs, already aggregated.
type InvoiceDocument struct {
	CompanyName        string         `json:"company_name"`
	AddressLine1       string         `json:"address_line_1"`
	AddressLine2       string         `json:"address_line_2"`
	GSTN               string         `json:"gstn_no"`
	ClientName         string         `json:"name"`
	ClientState        string         `json:"state"`
	ClientEmail        string         `json:"email_id"`
	ClientPhone        string         `json:"phone_number"`
	BillNo             string         `json:"bill_no"`
	BillDate           string         `json:"bill_date"`
	DressRecords       []PatternTotal `json:"dress_records"`
	TotalCostForClient float64        `json:"total_cost_for_client"`
	OtherCharges       float64        `json:"other_charges"`
	InvoiceValue       float64        `json:"invoice_value"`
	AmountReceivable   float64        `json:"amount_receivable"`
	TotalInWords       string         `json:"total_in_words"`
}

type LineItemCreateRequest struct {
	DressPattern           string `json:"dress_pattern"`
	PieceName              string `json:"piece_name"`
	LayerName              string `json:"layer_name"`
	LayerQuantity          Number `json:"layer_qnty"`
	LayerPrice             Number `json:"layer_price"`
	MachineHours           Number `json:"machine_hours"`
	MachineCost            Number `json:"machine_cost"`
	EmbroideryHours        Number `json:"embroidery_hours"`
	EmbroideryCost         Number `json:"embroidery_cost"`
	EmbroideryMaterialCost Number `json:"embroidery_material_cost"`
	DyingCharges           Number `json:"dying_charges"`
	OtherCost              Number `json:"other_cost"`
	FixedCost              Number `json:"fixed_cost"`
}

// LineItemResponse reports the committed line item plus the composer's
// fixed-price signal: when Locked is true the caller should disable the
// itemized cost inputs for this pattern.
type LineItemResponse struct {
	Index    int      `json:"index"`
	LineItem LineItem `json:"line_item"`
	Locked   bool     `json:"locked"`
}

type AccessoryRequest struct {
	DressPattern string `json:"dress_pattern"`
	PieceName    string `json:"piece_name"`
	LayerName    string `json:"layer_name"`
	Name         string `json:"name"`
	Quantity     Number `json:"quantity"`
	Price        Number `json:"price"`
}

func (r AccessoryRequest) Key() LineKey {
	return LineKey{DressPattern: r.DressPattern, PieceName: r.PieceName, LayerName: r.LayerName}
}

type AccessoryListResponse struct {
	Entries []AccessoryEntry `json:"entries"`
}

type PriceQuoteResponse struct {
	Kind      string  `json:"kind"`
	Key       string  `json:"key"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
}

type CatalogResponse struct {
	Patterns    []string `json:"patterns"`
	Layers      []string `json:"layers"`
	Accessories []string `json:"accessories"`
	Clients     []string `json:"clients"`
}

type DraftResponse struct {
	NextBillNo   string         `json:"next_bill_no"`
	LineItems    []LineItem     `json:"line_items"`
	GrandTotal   float64        `json:"grand_total"`
	TotalInWords string         `json:"total_in_words"`
	ByPattern    []PatternTotal `json:"by_pattern"`
}

type FinalizeRequest struct {
	ClientName string `json:"client_name"`
	BillDate   string `json:"bill_date"`
}

type FinalizeResponse struct {
	Invoice       Invoice `json:"invoice"`
	FinancialYear string  `json:"financial_year"`
}

type InvoiceListResponse struct {
	Invoices []BillRecord `json:"invoices"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type BillingUserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type BillingUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

const (
	RoleAdmin   = "admin"
	RoleBilling = "billing"
)

const (
	CatalogKindLayer            = "layer"
	CatalogKindPattern          = "pattern"
	CatalogKindAccessory        = "accessory"
	CatalogKindMachineLabour    = "machine_labour"
	CatalogKindEmbroideryLabour = "embroidery_labour"
)
