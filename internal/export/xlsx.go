package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/i18n"
	"billcraft-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnreadableWorkbook = errors.New("workbook could not be read")
	ErrEmptyWorkbook      = errors.New("workbook has no line items")
)

const createdAtLayout = "2006-01-02 15:04"

// WriteInvoicesXLSX writes the saved-invoice list as one sheet, in the order
// given.
func WriteInvoicesXLSX(w io.Writer, invoices []models.Invoice, locale i18n.Locale) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.T(locale, i18n.LabelInvoice)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx: sheet: %w", err)
	}

	header := []any{
		i18n.T(locale, i18n.LabelNumber),
		i18n.T(locale, i18n.LabelDate),
		i18n.T(locale, i18n.LabelDueDate),
		i18n.T(locale, i18n.LabelClient),
		i18n.T(locale, i18n.LabelCurrency),
		i18n.T(locale, i18n.LabelSubtotal),
		i18n.T(locale, i18n.LabelTax),
		i18n.T(locale, i18n.LabelTotal),
		i18n.T(locale, i18n.LabelCreatedAt),
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}

	for i, inv := range invoices {
		doc := inv.Document.Data()
		cur := doc.Currency
		if cur == "" {
			cur = billing.CurrencyTRY
		}
		row := []any{
			doc.Number,
			doc.Date,
			doc.DueDate,
			doc.Client.Name,
			cur.Code(),
			inv.Subtotal,
			inv.TaxAmount,
			inv.Total,
			inv.CreatedAt.Format(createdAtLayout),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	if len(invoices) > 0 {
		// #,##0.00
		money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
		if err != nil {
			return fmt.Errorf("xlsx: style: %w", err)
		}
		last := fmt.Sprintf("H%d", len(invoices)+1)
		if err := f.SetCellStyle(sheet, "F2", last, money); err != nil {
			return fmt.Errorf("xlsx: style: %w", err)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "D", "D", 28)
	_ = f.SetColWidth(sheet, "I", "I", 18)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

// ImportItemsXLSX reads line items from the first sheet: description,
// quantity and price in the first three columns. A leading header row is
// skipped, as are blank rows. Each item gets an id from newID.
func ImportItemsXLSX(r io.Reader, newID func() string) ([]billing.LineItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}

	var items []billing.LineItem
	for i, row := range rows {
		desc := strings.TrimSpace(cell(row, 0))
		qtyText, priceText := cell(row, 1), cell(row, 2)
		if desc == "" && strings.TrimSpace(qtyText) == "" && strings.TrimSpace(priceText) == "" {
			continue
		}

		qty, qerr := billing.ParseAmount(qtyText)
		price, perr := billing.ParseAmount(priceText)
		if i == 0 && (qerr != nil || perr != nil) {
			// başlık satırı
			continue
		}
		if qerr != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, qerr)
		}
		if perr != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, perr)
		}
		if strings.TrimSpace(qtyText) == "" {
			qty = 1
		}
		items = append(items, billing.LineItem{
			ID:          newID(),
			Description: desc,
			Quantity:    qty,
			Price:       price,
		})
	}
	if len(items) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return items, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
