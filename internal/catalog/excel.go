package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"tailorbill/backend/internal/domain"
)

// Sheet names of the business's input workbook.
const (
	SheetStock   = "Stock Statement"
	SheetData    = "Data & Assumption"
	SheetClients = "Client Details"
	SheetCompany = "Company Details"
)

// The stock sheet mixes dress-layer materials and accessories in one table,
// split by serial number: rows numbered up to 200 are layers, 200 and above
// are accessories.
const accessorySerialStart = 200

// Workbook is the raw content of the catalog workbook: the three reference
// price tables plus the client and company detail sheets.
type Workbook struct {
	Layers      []domain.CatalogRow
	Patterns    []domain.CatalogRow
	Accessories []domain.CatalogRow
	Clients     []domain.ClientDetail
	Company     domain.CompanyDetail
}

// LoadWorkbook reads the input workbook from disk. Rows with a blank name are
// skipped; price cells are kept raw so the catalog rebuild applies the single
// skip rule for unusable prices.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &Workbook{}
	if err := wb.readStock(f); err != nil {
		return nil, err
	}
	if err := wb.readPatterns(f); err != nil {
		return nil, err
	}
	if err := wb.readClients(f); err != nil {
		return nil, err
	}
	if err := wb.readCompany(f); err != nil {
		return nil, err
	}
	return wb, nil
}

func (wb *Workbook) readStock(f *excelize.File) error {
	rows, err := f.GetRows(SheetStock)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", SheetStock, err)
	}
	if len(rows) == 0 {
		return nil
	}

	serialCol := columnIndex(rows[0], "S. No.")
	nameCol := columnIndex(rows[0], "Name of Item")
	priceCol := columnIndex(rows[0], "Selling Price of Material / Mtr")
	if nameCol < 0 {
		return fmt.Errorf("sheet %q: missing %q column", SheetStock, "Name of Item")
	}

	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(cell(row, serialCol)), 64)
		if err != nil {
			continue
		}
		item := domain.CatalogRow{Name: name, Price: cell(row, priceCol)}
		if serial <= accessorySerialStart {
			wb.Layers = append(wb.Layers, item)
		}
		if serial >= accessorySerialStart {
			wb.Accessories = append(wb.Accessories, item)
		}
	}
	return nil
}

func (wb *Workbook) readPatterns(f *excelize.File) error {
	rows, err := f.GetRows(SheetData)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", SheetData, err)
	}
	if len(rows) == 0 {
		return nil
	}

	nameCol := columnIndex(rows[0], "Dress Patterns")
	rateCol := columnIndex(rows[0], "Rate/ Piece")
	if nameCol < 0 {
		return fmt.Errorf("sheet %q: missing %q column", SheetData, "Dress Patterns")
	}

	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		wb.Patterns = append(wb.Patterns, domain.CatalogRow{Name: name, Price: cell(row, rateCol)})
	}
	return nil
}

func (wb *Workbook) readClients(f *excelize.File) error {
	rows, err := f.GetRows(SheetClients)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", SheetClients, err)
	}
	if len(rows) == 0 {
		return nil
	}

	nameCol := columnIndex(rows[0], "Client Names")
	stateCol := columnIndex(rows[0], "State")
	emailCol := columnIndex(rows[0], "Email")
	phoneCol := columnIndex(rows[0], "Phone Number")

	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		wb.Clients = append(wb.Clients, domain.ClientDetail{
			Name:        name,
			State:       strings.TrimSpace(cell(row, stateCol)),
			Email:       strings.TrimSpace(cell(row, emailCol)),
			PhoneNumber: strings.TrimSpace(cell(row, phoneCol)),
		})
	}
	return nil
}

func (wb *Workbook) readCompany(f *excelize.File) error {
	rows, err := f.GetRows(SheetCompany)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", SheetCompany, err)
	}
	if len(rows) < 2 {
		return nil
	}

	nameCol := columnIndex(rows[0], "Name")
	addr1Col := columnIndex(rows[0], "Address_Line_1")
	addr2Col := columnIndex(rows[0], "Address_Line_2")
	gstnCol := columnIndex(rows[0], "GSTN")

	row := rows[1]
	wb.Company = domain.CompanyDetail{
		Name:         strings.TrimSpace(cell(row, nameCol)),
		AddressLine1: strings.TrimSpace(cell(row, addr1Col)),
		AddressLine2: strings.TrimSpace(cell(row, addr2Col)),
		GSTN:         strings.TrimSpace(cell(row, gstnCol)),
	}
	return nil
}

// ClientByName finds a client's details; the zero value with just the name is
// returned when the workbook does not list them.
func (wb *Workbook) ClientByName(name string) domain.ClientDetail {
	for _, client := range wb.Clients {
		if client.Name == name {
			return client
		}
	}
	return domain.ClientDetail{Name: name}
}

// ClientNames lists the workbook's client names in sheet order.
func (wb *Workbook) ClientNames() []string {
	names := make([]string, 0, len(wb.Clients))
	for _, client := range wb.Clients {
		names = append(names, client.Name)
	}
	return names
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
