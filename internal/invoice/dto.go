package invoice

import (
	"bytes"
	"encoding/json"
	"time"

	"billcraft-backend/internal/billing"
	"billcraft-backend/internal/models"

	"github.com/google/uuid"
)

// Amount accepts a JSON number or a string such as "1.234,56". Input that is
// not a number counts as 0, the same as an empty field.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(billing.ParseAmountOrZero(s))
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		v = 0
	}
	*a = Amount(v)
	return nil
}

func (a *Amount) ptr() *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}

type PartyDTO struct {
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"max=255"`
	Address string `json:"address" validate:"max=1000"`
}

func (p *PartyDTO) party() billing.Party {
	return billing.Party{Name: p.Name, Email: p.Email, Address: p.Address}
}

// EditRequest changes only the fields that are present.
type EditRequest struct {
	Number        *string   `json:"number" validate:"omitempty,max=100"`
	Date          *string   `json:"date"`
	DueDate       *string   `json:"due_date"`
	Sender        *PartyDTO `json:"sender"`
	Client        *PartyDTO `json:"client"`
	Currency      *string   `json:"currency"`
	TaxRate       *Amount   `json:"tax_rate"`
	Note          *string   `json:"note" validate:"omitempty,max=5000"`
	SaveAsDefault *bool     `json:"save_as_default"`
}

func (r *EditRequest) edits() []billing.Edit {
	var edits []billing.Edit
	if r.Number != nil {
		edits = append(edits, billing.SetNumber(*r.Number))
	}
	if r.Date != nil {
		edits = append(edits, billing.SetDate(*r.Date))
	}
	if r.DueDate != nil {
		edits = append(edits, billing.SetDueDate(*r.DueDate))
	}
	if r.Sender != nil {
		edits = append(edits, billing.SetSender(r.Sender.party()))
	}
	if r.Client != nil {
		edits = append(edits, billing.SetClient(r.Client.party()))
	}
	if r.Currency != nil {
		edits = append(edits, billing.SetCurrency(billing.Currency(*r.Currency)))
	}
	if r.TaxRate != nil {
		edits = append(edits, billing.SetTaxRate(float64(*r.TaxRate)))
	}
	if r.Note != nil {
		edits = append(edits, billing.SetNote(*r.Note))
	}
	return edits
}

// AddItemRequest adds one line. An omitted quantity means 1.
type AddItemRequest struct {
	Description string  `json:"description" validate:"max=500"`
	Quantity    *Amount `json:"quantity"`
	Price       Amount  `json:"price"`
}

func (r *AddItemRequest) quantity() float64 {
	if r.Quantity == nil {
		return 1
	}
	return float64(*r.Quantity)
}

type UpdateItemRequest struct {
	Description *string `json:"description" validate:"omitempty,max=500"`
	Quantity    *Amount `json:"quantity"`
	Price       *Amount `json:"price"`
}

// SummaryDTO is one row of the saved-invoice list.
type SummaryDTO struct {
	ID             uuid.UUID        `json:"id"`
	Number         string           `json:"number"`
	Date           string           `json:"date"`
	DueDate        string           `json:"due_date"`
	Client         billing.Party    `json:"client"`
	Currency       billing.Currency `json:"currency"`
	Subtotal       float64          `json:"subtotal"`
	TaxAmount      float64          `json:"tax_amount"`
	Total          float64          `json:"total"`
	FormattedTotal string           `json:"formatted_total"`
	CreatedAt      time.Time        `json:"created_at"`
}

func toSummaries(list []models.Invoice) []SummaryDTO {
	out := make([]SummaryDTO, 0, len(list))
	for _, inv := range list {
		doc := inv.Document.Data()
		out = append(out, SummaryDTO{
			ID:             inv.ID,
			Number:         doc.Number,
			Date:           doc.Date,
			DueDate:        doc.DueDate,
			Client:         doc.Client,
			Currency:       doc.Currency,
			Subtotal:       inv.Subtotal,
			TaxAmount:      inv.TaxAmount,
			Total:          inv.Total,
			FormattedTotal: billing.FormatMoney(inv.Total, doc.Currency),
			CreatedAt:      inv.CreatedAt,
		})
	}
	return out
}
