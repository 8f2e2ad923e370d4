package editor

import (
	"billcraft-backend/internal/billing"

	"github.com/google/uuid"
)

type FormattedTotals struct {
	Subtotal  string `json:"subtotal"`
	TaxAmount string `json:"tax_amount"`
	Total     string `json:"total"`
}

// View is a read-only copy of the session for rendering.
type View struct {
	State         string               `json:"state"`
	SavedID       *uuid.UUID           `json:"saved_id"`
	Invoice       billing.Document     `json:"invoice"`
	Items         []billing.LineItem   `json:"items"`
	Totals        billing.Totals       `json:"totals"`
	Formatted     FormattedTotals      `json:"formatted"`
	Numbering     billing.NumberConfig `json:"numbering"`
	SaveAsDefault bool                 `json:"save_as_default"`
}

func (s *Session) View() View {
	s.mu.Lock()
	draft := s.draft.Clone()
	state, id := s.state, s.savedID
	asDefault := s.saveAsDefault
	s.mu.Unlock()

	t := draft.Totals()
	cur := draft.Invoice.Currency
	v := View{
		State:   state.String(),
		Invoice: draft.Invoice,
		Items:   draft.Items,
		Totals:  t,
		Formatted: FormattedTotals{
			Subtotal:  billing.FormatMoney(t.Subtotal, cur),
			TaxAmount: billing.FormatMoney(t.TaxAmount, cur),
			Total:     billing.FormatMoney(t.Total, cur),
		},
		Numbering:     s.numbers.Config(),
		SaveAsDefault: asDefault,
	}
	if state == StateSaved {
		v.SavedID = &id
	}
	return v
}

// State reports NEW or SAVED and the bound invoice id.
func (s *Session) State() (State, uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.savedID
}
