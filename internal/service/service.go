package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tailorbill/backend/internal/billing"
	"tailorbill/backend/internal/cache"
	"tailorbill/backend/internal/catalog"
	"tailorbill/backend/internal/domain"
	"tailorbill/backend/internal/render"
	"tailorbill/backend/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const billDateLayout = "2006-01-02"

// documentCacheTTL keeps rendered bills around for a week; they are immutable
// and cheap to re-render, so expiry only bounds Redis memory.
const documentCacheTTL = 7 * 24 * time.Hour

// Config carries the tunables the billing service needs beyond its
// collaborators.
type Config struct {
	WorkbookPath   string
	BillPrefix     string
	TaxRatePercent float64
}

// Service owns the single in-progress draft invoice and everything around
// it: the reference catalog, the pending-accessory ledger, and access to the
// durable bill ledger. One mutex serializes all draft mutation, matching the
// single-terminal workflow the business runs.
type Service struct {
	repo     store.Repository
	docCache cache.DocumentCache
	log      *logrus.Logger
	cfg      Config
	now      func() time.Time

	mu          sync.Mutex
	workbook    *catalog.Workbook
	catalog     *catalog.Catalog
	accessories *billing.AccessoryLedger
	draft       *billing.Accumulator
}

func New(repo store.Repository, docCache cache.DocumentCache, log *logrus.Logger, cfg Config) *Service {
	if cfg.BillPrefix == "" {
		cfg.BillPrefix = billing.DefaultBillPrefix
	}
	if docCache == nil {
		docCache = cache.NoopDocumentCache{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Service{
		repo:        repo,
		docCache:    docCache,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
		workbook:    &catalog.Workbook{},
		catalog:     catalog.Empty(),
		accessories: billing.NewAccessoryLedger(),
		draft:       billing.NewAccumulator(),
	}
}

// RefreshCatalog re-reads the pricing workbook and swaps in a fresh catalog
// snapshot. Admin only: a mid-draft price change is something the operator
// should ask for, not trip over.
func (s *Service) RefreshCatalog(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}
	return s.loadCatalog()
}

// LoadCatalogAtBoot reads the workbook without an actor check. Called once
// from main before the server accepts traffic.
func (s *Service) LoadCatalogAtBoot() error {
	return s.loadCatalog()
}

func (s *Service) loadCatalog() error {
	wb, err := catalog.LoadWorkbook(s.cfg.WorkbookPath)
	if err != nil {
		return fmt.Errorf("load workbook %s: %w", s.cfg.WorkbookPath, err)
	}

	s.mu.Lock()
	s.workbook = wb
	s.catalog = catalog.Rebuild(wb.Layers, wb.Patterns, wb.Accessories)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"layers":      len(wb.Layers),
		"patterns":    len(wb.Patterns),
		"accessories": len(wb.Accessories),
		"clients":     len(wb.Clients),
	}).Info("catalog refreshed")
	return nil
}

func (s *Service) Catalog(_ context.Context) domain.CatalogResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CatalogResponse{
		Patterns:    s.catalog.Patterns(),
		Layers:      s.catalog.Layers(),
		Accessories: s.catalog.Accessories(),
		Clients:     s.workbook.ClientNames(),
	}
}

// PriceQuote resolves a catalog unit price and extends it over quantity.
// Unknown names quote as zero rather than failing: blank and dash-priced
// catalog rows have always meant "price it by hand". For the labour kinds the
// unit price is the hourly rate and quantity is hours, so the quote is the
// labour cost of the job.
func (s *Service) PriceQuote(_ context.Context, kind string, key string, quantity float64) (domain.PriceQuoteResponse, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case domain.CatalogKindLayer, domain.CatalogKindPattern, domain.CatalogKindAccessory,
		domain.CatalogKindMachineLabour, domain.CatalogKindEmbroideryLabour:
	default:
		return domain.PriceQuoteResponse{}, fmt.Errorf("%w: unknown catalog kind %q", store.ErrInvalidInput, kind)
	}
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	unit := s.catalog.ResolvePrice(kind, key)
	s.mu.Unlock()

	return domain.PriceQuoteResponse{
		Kind:      kind,
		Key:       key,
		UnitPrice: unit,
		Quantity:  quantity,
		Price:     unit * quantity,
	}, nil
}

// AddAccessory stages an accessory against the (pattern, piece, layer) being
// composed. A zero price is filled from the catalog; an explicit price wins.
func (s *Service) AddAccessory(_ context.Context, req domain.AccessoryRequest) (domain.AccessoryListResponse, error) {
	if req.Name == "" {
		return domain.AccessoryListResponse{}, fmt.Errorf("%w: accessory name required", store.ErrInvalidInput)
	}
	qty := float64(req.Quantity)
	if qty <= 0 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	price := float64(req.Price)
	if price == 0 {
		price = s.catalog.AccessoryPrice(req.Name) * qty
	}
	entry := domain.AccessoryEntry{
		Name:     req.Name,
		Quantity: domain.Number(qty),
		Price:    domain.Number(price),
	}
	s.accessories.Add(req.Key(), entry)
	return domain.AccessoryListResponse{Entries: s.accessories.EntriesFor(req.Key())}, nil
}

// RemoveAccessory drops the first staged entry matching the request exactly.
// Removing an absent entry is a no-op.
func (s *Service) RemoveAccessory(_ context.Context, req domain.AccessoryRequest) (domain.AccessoryListResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.AccessoryEntry{Name: req.Name, Quantity: req.Quantity, Price: req.Price}
	s.accessories.Remove(req.Key(), entry)
	return domain.AccessoryListResponse{Entries: s.accessories.EntriesFor(req.Key())}, nil
}

func (s *Service) ListAccessories(_ context.Context, key domain.LineKey) domain.AccessoryListResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.AccessoryListResponse{Entries: s.accessories.EntriesFor(key)}
}

// AddLineItem composes a line item from the request and whatever accessories
// are staged for its key, consumes those accessories, and appends the item to
// the draft.
func (s *Service) AddLineItem(_ context.Context, req domain.LineItemCreateRequest) (domain.LineItemResponse, error) {
	if strings.TrimSpace(req.DressPattern) == "" {
		return domain.LineItemResponse{}, fmt.Errorf("%w: dress pattern required", store.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.LineKey{DressPattern: req.DressPattern, PieceName: req.PieceName, LayerName: req.LayerName}
	item, locked := billing.Compose(s.catalog, req, s.accessories.Drain(key))
	index := s.draft.Append(item)

	s.log.WithFields(logrus.Fields{
		"dress_pattern": item.DressPattern,
		"layer_name":    item.LayerName,
		"total_cost":    float64(item.TotalCost),
		"locked":        locked,
	}).Info("line item added")

	return domain.LineItemResponse{Index: index, LineItem: item, Locked: locked}, nil
}

// ReplaceLineItem overwrites a draft row after an operator edit. The total is
// recomputed from the edited record itself, not re-composed from the catalog:
// edits happen to records, and records already carry their costs.
func (s *Service) ReplaceLineItem(_ context.Context, index int, item domain.LineItem) (domain.LineItemResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.TotalCost = domain.Number(billing.RecomputeEditedTotal(item))
	if err := s.draft.ReplaceAt(index, item); err != nil {
		return domain.LineItemResponse{}, err
	}
	return domain.LineItemResponse{Index: index, LineItem: item}, nil
}

func (s *Service) RemoveLineItem(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.RemoveAt(index)
}

// Draft reports the current in-progress invoice, including the bill number it
// will take when finalized today.
func (s *Service) Draft(ctx context.Context) (domain.DraftResponse, error) {
	label := billing.FinancialYear(s.now())
	last, err := s.repo.LastBillNumber(ctx, label)
	if err != nil {
		return domain.DraftResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.DraftResponse{
		NextBillNo:   billing.FormatBillNo(s.cfg.BillPrefix, label, last+1),
		LineItems:    s.draft.Items(),
		GrandTotal:   s.draft.GrandTotal(),
		TotalInWords: s.draft.TotalInWords(),
		ByPattern:    s.draft.TotalsByPattern(),
	}, nil
}

// DraftPreviewText renders the draft as the plain-text summary the terminal
// shows before finalizing.
func (s *Service) DraftPreviewText(ctx context.Context) (string, error) {
	draft, err := s.Draft(ctx)
	if err != nil {
		return "", err
	}
	return render.PlainTextSummary(draft.NextBillNo, draft.ByPattern, draft.GrandTotal), nil
}

// Finalize assigns the next bill number for the bill date's financial year,
// appends the draft to the durable ledger, and resets the draft. The ledger
// write and the sequence advance are atomic in the store; on any error the
// draft is left untouched for retry.
func (s *Service) Finalize(ctx context.Context, req domain.FinalizeRequest) (domain.FinalizeResponse, error) {
	billDate := s.now()
	if strings.TrimSpace(req.BillDate) != "" {
		parsed, err := time.Parse(billDateLayout, req.BillDate)
		if err != nil {
			return domain.FinalizeResponse{}, fmt.Errorf("%w: bill_date must be YYYY-MM-DD", store.ErrInvalidInput)
		}
		billDate = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.Len() == 0 {
		return domain.FinalizeResponse{}, fmt.Errorf("%w: draft has no line items", store.ErrInvalidInput)
	}

	label := billing.FinancialYear(billDate)
	last, err := s.repo.LastBillNumber(ctx, label)
	if err != nil {
		return domain.FinalizeResponse{}, err
	}
	_, number := billing.NextBillNumber(last, billDate)

	invoice := domain.Invoice{
		BillNo:     billing.FormatBillNo(s.cfg.BillPrefix, label, number),
		BillDate:   billDate,
		ClientName: req.ClientName,
		LineItems:  s.draft.Items(),
		GrandTotal: domain.Number(s.draft.GrandTotal()),
	}

	if err := s.repo.FinalizeInvoice(ctx, invoice, label, number); err != nil {
		return domain.FinalizeResponse{}, err
	}

	doc := render.BuildDocument(invoice, s.draft.TotalsByPattern(),
		s.workbook.ClientByName(req.ClientName), s.workbook.Company, s.cfg.TaxRatePercent)
	if err := s.docCache.Set(ctx, invoice.BillNo, render.InvoiceHTML(doc), documentCacheTTL); err != nil {
		s.log.WithError(err).WithField("bill_no", invoice.BillNo).Warn("cache invoice document")
	}

	s.draft.Reset()
	s.accessories.Clear()

	s.log.WithFields(logrus.Fields{
		"bill_no":     invoice.BillNo,
		"client_name": invoice.ClientName,
		"grand_total": float64(invoice.GrandTotal),
		"line_items":  len(invoice.LineItems),
	}).Info("invoice finalized")

	return domain.FinalizeResponse{Invoice: invoice, FinancialYear: label}, nil
}

func (s *Service) ListInvoices(ctx context.Context, limit int) (domain.InvoiceListResponse, error) {
	records, err := s.repo.ListInvoices(ctx, limit)
	if err != nil {
		return domain.InvoiceListResponse{}, err
	}
	return domain.InvoiceListResponse{Invoices: records}, nil
}

func (s *Service) GetInvoice(ctx context.Context, billNo string) (*domain.BillRecord, error) {
	return s.repo.GetInvoice(ctx, billNo)
}

// InvoiceDocumentHTML returns the printable bill. Documents rendered at
// finalize time come from the cache; older bills are re-rendered from the
// ledger, with the client looked up by the optional clientName hint since the
// results list predates client tracking.
func (s *Service) InvoiceDocumentHTML(ctx context.Context, billNo string, clientName string) (string, error) {
	if doc, ok, err := s.docCache.Get(ctx, billNo); err == nil && ok {
		return doc, nil
	} else if err != nil {
		s.log.WithError(err).WithField("bill_no", billNo).Warn("read invoice document cache")
	}

	record, err := s.repo.GetInvoice(ctx, billNo)
	if err != nil {
		return "", err
	}

	rebuilt := billing.NewAccumulator()
	for _, item := range record.LineItems {
		rebuilt.Append(item)
	}
	invoice := domain.Invoice{
		BillNo:     record.BillNo,
		BillDate:   s.now(),
		ClientName: clientName,
		LineItems:  record.LineItems,
		GrandTotal: domain.Number(rebuilt.GrandTotal()),
	}

	s.mu.Lock()
	client := s.workbook.ClientByName(clientName)
	company := s.workbook.Company
	s.mu.Unlock()

	doc := render.BuildDocument(invoice, rebuilt.TotalsByPattern(), client, company, s.cfg.TaxRatePercent)
	html := render.InvoiceHTML(doc)
	if err := s.docCache.Set(ctx, billNo, html, documentCacheTTL); err != nil {
		s.log.WithError(err).WithField("bill_no", billNo).Warn("cache invoice document")
	}
	return html, nil
}

// ExportBillDetails returns the per-layer xlsx export for a finalized bill.
func (s *Service) ExportBillDetails(ctx context.Context, billNo string, clientName string) ([]byte, error) {
	record, err := s.repo.GetInvoice(ctx, billNo)
	if err != nil {
		return nil, err
	}
	return render.ExportBillDetails(*record, clientName, s.now().Format(billDateLayout))
}

// CreateBillingUser provisions a billing-role operator account. Admin only.
func (s *Service) CreateBillingUser(ctx context.Context, req domain.BillingUserCreateRequest) (domain.BillingUser, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.BillingUser{}, fmt.Errorf("admin role required")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || len(req.Password) < 8 {
		return domain.BillingUser{}, fmt.Errorf("%w: username and a password of at least 8 characters required", store.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.BillingUser{}, err
	}

	account := domain.UserAccount{
		Username:  req.Username,
		Password:  string(hash),
		Role:      domain.RoleBilling,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, account); err != nil {
		return domain.BillingUser{}, err
	}

	s.log.WithFields(logrus.Fields{
		"username":   account.Username,
		"created_by": actor.Username,
	}).Info("billing user created")

	return domain.BillingUser{
		Username:  account.Username,
		Role:      account.Role,
		Active:    account.Active,
		CreatedAt: account.CreatedAt,
	}, nil
}

// ListUsers reports operator accounts without credentials. Admin only.
func (s *Service) ListUsers(ctx context.Context) ([]domain.BillingUser, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}

	accounts, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.BillingUser, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, domain.BillingUser{
			Username:  account.Username,
			Role:      account.Role,
			Active:    account.Active,
			CreatedAt: account.CreatedAt,
		})
	}
	return users, nil
}
