package billing

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DefaultDueDays = 7
	DefaultTaxRate = 20.0
)

// Party is a sender or client contact as it appears on the invoice.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (p Party) trimmed() Party {
	return Party{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.TrimSpace(p.Email),
		Address: strings.TrimSpace(p.Address),
	}
}

// Document holds the editable header of an invoice. It carries no computed
// fields; see Draft.Totals.
type Document struct {
	Number      string   `json:"number"`
	Date        string   `json:"date"`
	DueDate     string   `json:"due_date"`
	Sender      Party    `json:"sender"`
	Client      Party    `json:"client"`
	Currency    Currency `json:"currency"`
	TaxRate     float64  `json:"tax_rate"`
	Note        string   `json:"note"`
	LogoDataURL *string  `json:"logo_data_url"`
}

// Defaults are the owner's saved preferences used to start a new invoice.
type Defaults struct {
	Sender      Party
	Currency    Currency
	TaxRate     *float64
	LogoDataURL *string
}

// Draft is one invoice being edited: the document and its line items.
// A Draft value is never mutated; Apply returns a new one.
type Draft struct {
	Invoice Document   `json:"invoice"`
	Items   []LineItem `json:"items"`
}

// NewDraft starts a blank invoice dated today and due seven days later.
func NewDraft(number string, today time.Time, def Defaults, note string) Draft {
	cur := def.Currency
	if cur == "" {
		cur = CurrencyTRY
	}
	tax := DefaultTaxRate
	if def.TaxRate != nil {
		tax = *def.TaxRate
	}
	return Draft{
		Invoice: Document{
			Number:      number,
			Date:        today.Format(DateLayout),
			DueDate:     today.AddDate(0, 0, DefaultDueDays).Format(DateLayout),
			Sender:      def.Sender.trimmed(),
			Currency:    cur,
			TaxRate:     tax,
			Note:        note,
			LogoDataURL: cloneString(def.LogoDataURL),
		},
		Items: []LineItem{},
	}
}

// FromSnapshot builds a Draft from a persisted invoice, sharing no memory
// with the arguments.
func FromSnapshot(doc Document, items []LineItem) Draft {
	d := Draft{Invoice: doc, Items: slices.Clone(items)}
	if d.Items == nil {
		d.Items = []LineItem{}
	}
	d.Invoice.LogoDataURL = cloneString(doc.LogoDataURL)
	return d
}

func (d Draft) Clone() Draft {
	return FromSnapshot(d.Invoice, d.Items)
}

func (d Draft) Totals() Totals {
	return ComputeTotals(d.Items, d.Invoice.TaxRate)
}

// Edit is one field-level change to a Draft.
type Edit struct {
	name  string
	apply func(*Draft) error
}

func (e Edit) String() string { return e.name }

// Apply runs edits in order on a copy of d. If any edit fails, d is returned
// unchanged together with the error.
func (d Draft) Apply(edits ...Edit) (Draft, error) {
	next := d.Clone()
	for _, e := range edits {
		if err := e.apply(&next); err != nil {
			return d, fmt.Errorf("%s: %w", e.name, err)
		}
	}
	return next, nil
}

func SetNumber(number string) Edit {
	return Edit{"number", func(d *Draft) error {
		d.Invoice.Number = strings.TrimSpace(number)
		return nil
	}}
}

func SetDate(date string) Edit {
	return Edit{"date", func(d *Draft) error {
		v, err := parseDate(date)
		if err != nil {
			return err
		}
		d.Invoice.Date = v
		return nil
	}}
}

func SetDueDate(date string) Edit {
	return Edit{"due_date", func(d *Draft) error {
		v, err := parseDate(date)
		if err != nil {
			return err
		}
		d.Invoice.DueDate = v
		return nil
	}}
}

func SetSender(p Party) Edit {
	return Edit{"sender", func(d *Draft) error {
		d.Invoice.Sender = p.trimmed()
		return nil
	}}
}

// SetClient replaces the client contact and nothing else.
func SetClient(p Party) Edit {
	return Edit{"client", func(d *Draft) error {
		d.Invoice.Client = p.trimmed()
		return nil
	}}
}

func SetCurrency(c Currency) Edit {
	return Edit{"currency", func(d *Draft) error {
		cur, err := ParseCurrency(string(c))
		if err != nil {
			return err
		}
		d.Invoice.Currency = cur
		return nil
	}}
}

func SetTaxRate(rate float64) Edit {
	return Edit{"tax_rate", func(d *Draft) error {
		rate = finite(rate)
		if rate < 0 {
			return ErrNegativeTaxRate
		}
		d.Invoice.TaxRate = rate
		return nil
	}}
}

func SetNote(note string) Edit {
	return Edit{"note", func(d *Draft) error {
		d.Invoice.Note = note
		return nil
	}}
}

// SetLogo stores an inline image. An empty string removes the logo.
func SetLogo(dataURL string) Edit {
	return Edit{"logo", func(d *Draft) error {
		dataURL = strings.TrimSpace(dataURL)
		if dataURL == "" {
			d.Invoice.LogoDataURL = nil
			return nil
		}
		if !IsImageDataURL(dataURL) {
			return ErrInvalidLogo
		}
		d.Invoice.LogoDataURL = &dataURL
		return nil
	}}
}

// AddItem appends a line. Quantity and price that are not numbers become 0.
func AddItem(id, description string, quantity, price float64) Edit {
	return Edit{"add_item", func(d *Draft) error {
		item, err := newItem(id, description, quantity, price)
		if err != nil {
			return err
		}
		if d.itemIndex(item.ID) >= 0 {
			return ErrDuplicateItemID
		}
		d.Items = append(d.Items, item)
		return nil
	}}
}

// ItemPatch changes only the fields that are set.
type ItemPatch struct {
	Description *string
	Quantity    *float64
	Price       *float64
}

func UpdateItem(id string, patch ItemPatch) Edit {
	return Edit{"update_item", func(d *Draft) error {
		i := d.itemIndex(id)
		if i < 0 {
			return ErrItemNotFound
		}
		it := d.Items[i]
		if patch.Description != nil {
			it.Description = *patch.Description
		}
		if patch.Quantity != nil {
			it.Quantity = finite(*patch.Quantity)
		}
		if patch.Price != nil {
			it.Price = finite(*patch.Price)
		}
		if err := checkItem(it); err != nil {
			return err
		}
		d.Items[i] = it
		return nil
	}}
}

func RemoveItem(id string) Edit {
	return Edit{"remove_item", func(d *Draft) error {
		i := d.itemIndex(id)
		if i < 0 {
			return ErrItemNotFound
		}
		d.Items = slices.Delete(d.Items, i, i+1)
		return nil
	}}
}

// ReplaceItems swaps the whole item list, e.g. after a spreadsheet import.
func ReplaceItems(items []LineItem) Edit {
	return Edit{"items", func(d *Draft) error {
		next := make([]LineItem, 0, len(items))
		seen := make(map[string]struct{}, len(items))
		for _, it := range items {
			item, err := newItem(it.ID, it.Description, it.Quantity, it.Price)
			if err != nil {
				return err
			}
			if _, dup := seen[item.ID]; dup {
				return ErrDuplicateItemID
			}
			seen[item.ID] = struct{}{}
			next = append(next, item)
		}
		d.Items = next
		return nil
	}}
}

func (d *Draft) itemIndex(id string) int {
	return slices.IndexFunc(d.Items, func(it LineItem) bool { return it.ID == id })
}

func newItem(id, description string, quantity, price float64) (LineItem, error) {
	if strings.TrimSpace(id) == "" {
		return LineItem{}, ErrItemIDRequired
	}
	it := LineItem{
		ID:          id,
		Description: description,
		Quantity:    finite(quantity),
		Price:       finite(price),
	}
	return it, checkItem(it)
}

func checkItem(it LineItem) error {
	if it.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if it.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

func parseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}

// IsImageDataURL reports whether s looks like data:image/<type>;base64,<payload>.
func IsImageDataURL(s string) bool {
	meta, payload, ok := strings.Cut(s, ",")
	return ok && payload != "" &&
		strings.HasPrefix(meta, "data:image/") &&
		strings.HasSuffix(meta, ";base64")
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
