// Package export renders invoices to files: PDF for the document itself and
// XLSX for lists and item imports.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/i18n"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	margin     = 15.0
	logoMaxW   = 40.0
	logoMaxH   = 20.0
	lineHeight = 5.0
)

// RenderPDF writes the draft as a single A4 portrait document. Long item
// lists continue on the next page.
func RenderPDF(w io.Writer, d billing.Draft, locale i18n.Locale) error {
	doc := d.Invoice
	totals := d.Totals()
	cur := doc.Currency
	label := func(k i18n.Key) string { return i18n.T(locale, k) }

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+5)
	pdf.SetTitle(doc.Number, true)
	pdf.SetCreator("BillCraft", true)
	tx := newTextEncoder()

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 4, tx(label(i18n.LabelCreatedWith)), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	// ── Başlık ───────────────────────────────────────────────────────────────
	top := pdf.GetY()
	if doc.LogoDataURL != nil {
		drawLogo(pdf, *doc.LogoDataURL, margin, top)
	}

	pdf.SetXY(margin, top)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(contentW, 10, tx(label(i18n.LabelInvoice)), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(71, 85, 105)
	meta := [][2]string{
		{label(i18n.LabelNumber), doc.Number},
		{label(i18n.LabelDate), doc.Date},
		{label(i18n.LabelDueDate), doc.DueDate},
	}
	for _, m := range meta {
		pdf.CellFormat(contentW, lineHeight, tx(m[0]+": "+m[1]), "", 1, "R", false, 0, "")
	}

	if y := top + logoMaxH + 2; pdf.GetY() < y {
		pdf.SetY(y)
	}
	pdf.Ln(4)

	// ── Gönderen / alıcı ─────────────────────────────────────────────────────
	half := contentW / 2
	y := pdf.GetY()
	partyBlock(pdf, tx, margin, y, half-4, "", doc.Sender, label(i18n.LabelCompanyPlaceholder))
	senderEnd := pdf.GetY()
	partyBlock(pdf, tx, margin+half, y, half, label(i18n.LabelBillTo), doc.Client, label(i18n.LabelClientPlaceholder))
	if pdf.GetY() < senderEnd {
		pdf.SetY(senderEnd)
	}
	pdf.Ln(6)

	// ── Kalemler ─────────────────────────────────────────────────────────────
	colDesc := contentW * 0.46
	colQty := contentW * 0.14
	colPrice := contentW * 0.20
	colTotal := contentW * 0.20

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(241, 245, 249)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(colDesc, 7, tx(label(i18n.LabelDescription)), "B", 0, "L", true, 0, "")
		pdf.CellFormat(colQty, 7, tx(label(i18n.LabelQuantity)), "B", 0, "C", true, 0, "")
		pdf.CellFormat(colPrice, 7, tx(label(i18n.LabelPrice)), "B", 0, "R", true, 0, "")
		pdf.CellFormat(colTotal, 7, tx(label(i18n.LabelLineTotal)), "B", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(51, 65, 85)
	}
	header()

	_, pageH := pdf.GetPageSize()
	for _, it := range d.Items {
		if pdf.GetY()+6 > pageH-margin-5 {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colDesc, 6, tx(truncate(it.Description, 60)), "B", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, formatQuantity(it.Quantity), "B", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 6, tx(billing.FormatMoney(it.Price, cur)), "B", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, tx(billing.FormatMoney(it.LineTotal(), cur)), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Toplamlar ────────────────────────────────────────────────────────────
	labelW := colPrice
	left := margin + colDesc + colQty
	row := func(name, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetX(left)
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 6, tx(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(colTotal, 6, tx(value), "", 1, "R", false, 0, "")
	}
	row(label(i18n.LabelSubtotal), billing.FormatMoney(totals.Subtotal, cur), false)
	row(fmt.Sprintf("%s (%%%s)", label(i18n.LabelTax), formatQuantity(doc.TaxRate)), billing.FormatMoney(totals.TaxAmount, cur), false)
	pdf.Line(left, pdf.GetY()+1, pageW-margin, pdf.GetY()+1)
	pdf.Ln(2)
	row(label(i18n.LabelTotal), billing.FormatMoney(totals.Total, cur), true)

	// ── Not ──────────────────────────────────────────────────────────────────
	if note := strings.TrimSpace(doc.Note); note != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, lineHeight, tx(label(i18n.LabelNote)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, lineHeight, tx(note), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

func partyBlock(pdf *fpdf.Fpdf, tx func(string) string, x, y, w float64, title string, p billing.Party, placeholder string) {
	pdf.SetXY(x, y)
	if title != "" {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(w, lineHeight, tx(title), "", 2, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(30, 41, 59)
	name := p.Name
	if name == "" {
		pdf.SetTextColor(148, 163, 184)
		name = placeholder
	}
	pdf.CellFormat(w, 6, tx(name), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(71, 85, 105)
	if p.Email != "" {
		pdf.CellFormat(w, lineHeight, tx(p.Email), "", 2, "L", false, 0, "")
	}
	if p.Address != "" {
		pdf.SetX(x)
		pdf.MultiCell(w, lineHeight, tx(p.Address), "", "L", false)
	}
}

// drawLogo places the data URL image in the top-left corner. An image that
// fpdf cannot read is left out.
func drawLogo(pdf *fpdf.Fpdf, dataURL string, x, y float64) {
	imgType, data, ok := decodeDataURL(dataURL)
	if !ok {
		return
	}
	opts := fpdf.ImageOptions{ImageType: imgType}
	info := pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(data))
	if pdf.Err() || info == nil {
		pdf.ClearError()
		return
	}
	w, h := info.Width(), info.Height()
	if w <= 0 || h <= 0 {
		return
	}
	scale := min(logoMaxW/w, logoMaxH/h)
	pdf.ImageOptions("logo", x, y, w*scale, h*scale, false, opts, 0, "")
}

func decodeDataURL(s string) (string, []byte, bool) {
	if !billing.IsImageDataURL(s) {
		return "", nil, false
	}
	meta, payload, _ := strings.Cut(s, ",")
	mime := strings.TrimSuffix(strings.TrimPrefix(meta, "data:image/"), ";base64")
	var imgType string
	switch strings.ToLower(mime) {
	case "png":
		imgType = "PNG"
	case "jpeg", "jpg":
		imgType = "JPG"
	case "gif":
		imgType = "GIF"
	default:
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return imgType, data, true
}

// Filename is the download name for an invoice PDF.
func Filename(number string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ' || r == '/' || r == '\\':
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(number))
	name = strings.Trim(name, ".-")
	if name == "" {
		name = "invoice"
	}
	return name + ".pdf"
}

var turkish = strings.NewReplacer(
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
	string(billing.CurrencyTRY), "TL ",
)

// newTextEncoder converts UTF-8 to the Windows-1252 bytes the core PDF fonts
// expect. Turkish letters missing from that code page are transliterated,
// anything else unsupported is replaced.
func newTextEncoder() func(string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	return func(s string) string {
		out, err := enc.String(turkish.Replace(s))
		if err != nil {
			return s
		}
		return out
	}
}

func formatQuantity(q float64) string {
	return strings.Replace(strconv.FormatFloat(q, 'f', -1, 64), ".", ",", 1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
