package i18n

// Key identifies one user-facing message.
type Key int

const (
	// bildirimler
	NoticeInvoiceSaved Key = iota
	NoticeInvoiceUpdated
	NoticeInvoiceDeleted
	NoticeInvoiceLoaded
	NoticeNewInvoice
	NoticeClientSaved
	NoticeClientExists
	NoticeClientDeleted
	NoticeClientSelected
	NoticeProfileSaved
	NoticeCounterNotPersisted
	NoticeNumberUnavailable
	NoticeItemsImported
	NoticeUndone

	// onay soruları
	ConfirmDeleteInvoice
	ConfirmDeleteClient

	// hatalar
	ErrClientNameRequired
	ErrInvalidInput
	ErrNegativeQuantity
	ErrNegativePrice
	ErrNegativeTaxRate
	ErrUnknownCurrency
	ErrInvalidDate
	ErrInvalidLogo
	ErrLogoTooLarge
	ErrItemNotFound
	ErrDuplicateItem
	ErrInvalidNumberConfig
	ErrInvalidAmount
	ErrNotConfirmed
	ErrInvoiceNotFound
	ErrClientNotFound
	ErrInvoiceGone
	ErrInvoiceSaveFailed
	ErrInvoiceDeleteFailed
	ErrClientSaveFailed
	ErrClientDeleteFailed
	ErrLoadFailed
	ErrImportFailed
	ErrExportFailed
	ErrUnauthorized
	ErrInvalidCredentials
	ErrEmailTaken
	ErrWeakPassword
	ErrGoogleDisabled
	ErrAlreadyUndone
	ErrInternal

	// PDF ve tablo etiketleri
	LabelInvoice
	LabelDate
	LabelDueDate
	LabelBillTo
	LabelDescription
	LabelQuantity
	LabelPrice
	LabelLineTotal
	LabelSubtotal
	LabelTax
	LabelTotal
	LabelNote
	LabelNumber
	LabelClient
	LabelCurrency
	LabelCreatedAt
	LabelCompanyPlaceholder
	LabelClientPlaceholder
	LabelCreatedWith

	DefaultNote

	keyCount
)

var keyNames = [keyCount]string{
	NoticeInvoiceSaved:        "invoice_saved",
	NoticeInvoiceUpdated:      "invoice_updated",
	NoticeInvoiceDeleted:      "invoice_deleted",
	NoticeInvoiceLoaded:       "invoice_loaded",
	NoticeNewInvoice:          "new_invoice",
	NoticeClientSaved:         "client_saved",
	NoticeClientExists:        "client_exists",
	NoticeClientDeleted:       "client_deleted",
	NoticeClientSelected:      "client_selected",
	NoticeProfileSaved:        "profile_saved",
	NoticeCounterNotPersisted: "counter_not_persisted",
	NoticeNumberUnavailable:   "number_unavailable",
	NoticeItemsImported:       "items_imported",
	NoticeUndone:              "undone",

	ConfirmDeleteInvoice: "confirm_delete_invoice",
	ConfirmDeleteClient:  "confirm_delete_client",

	ErrClientNameRequired:  "client_name_required",
	ErrInvalidInput:        "invalid_input",
	ErrNegativeQuantity:    "negative_quantity",
	ErrNegativePrice:       "negative_price",
	ErrNegativeTaxRate:     "negative_tax_rate",
	ErrUnknownCurrency:     "unknown_currency",
	ErrInvalidDate:         "invalid_date",
	ErrInvalidLogo:         "invalid_logo",
	ErrLogoTooLarge:        "logo_too_large",
	ErrItemNotFound:        "item_not_found",
	ErrDuplicateItem:       "duplicate_item",
	ErrInvalidNumberConfig: "invalid_number_config",
	ErrInvalidAmount:       "invalid_amount",
	ErrNotConfirmed:        "not_confirmed",
	ErrInvoiceNotFound:     "invoice_not_found",
	ErrClientNotFound:      "client_not_found",
	ErrInvoiceGone:         "invoice_gone",
	ErrInvoiceSaveFailed:   "invoice_save_failed",
	ErrInvoiceDeleteFailed: "invoice_delete_failed",
	ErrClientSaveFailed:    "client_save_failed",
	ErrClientDeleteFailed:  "client_delete_failed",
	ErrLoadFailed:          "load_failed",
	ErrImportFailed:        "import_failed",
	ErrExportFailed:        "export_failed",
	ErrUnauthorized:        "unauthorized",
	ErrInvalidCredentials:  "invalid_credentials",
	ErrEmailTaken:          "email_taken",
	ErrWeakPassword:        "weak_password",
	ErrGoogleDisabled:      "google_disabled",
	ErrAlreadyUndone:       "already_undone",
	ErrInternal:            "internal",

	LabelInvoice:            "label_invoice",
	LabelDate:               "label_date",
	LabelDueDate:            "label_due_date",
	LabelBillTo:             "label_bill_to",
	LabelDescription:        "label_description",
	LabelQuantity:           "label_quantity",
	LabelPrice:              "label_price",
	LabelLineTotal:          "label_line_total",
	LabelSubtotal:           "label_subtotal",
	LabelTax:                "label_tax",
	LabelTotal:              "label_total",
	LabelNote:               "label_note",
	LabelNumber:             "label_number",
	LabelClient:             "label_client",
	LabelCurrency:           "label_currency",
	LabelCreatedAt:          "label_created_at",
	LabelCompanyPlaceholder: "label_company_placeholder",
	LabelClientPlaceholder:  "label_client_placeholder",
	LabelCreatedWith:        "label_created_with",

	DefaultNote: "default_note",
}

// String returns the stable machine name sent to clients as notice_key.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}
