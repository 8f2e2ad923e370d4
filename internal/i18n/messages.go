package i18n

// en is the fallback table; it must have an entry for every key.
var en = [keyCount]string{
	NoticeInvoiceSaved:        "Invoice saved ✅",
	NoticeInvoiceUpdated:      "Invoice updated ✅",
	NoticeInvoiceDeleted:      "Invoice deleted",
	NoticeInvoiceLoaded:       "Invoice loaded",
	NoticeNewInvoice:          "New invoice started",
	NoticeClientSaved:         "Client saved ✅",
	NoticeClientExists:        "This client already exists ✅",
	NoticeClientDeleted:       "Client deleted",
	NoticeClientSelected:      "Client details copied to the invoice",
	NoticeProfileSaved:        "Profile saved ✅",
	NoticeCounterNotPersisted: "Invoice number issued, but the counter could not be saved",
	NoticeNumberUnavailable:   "No invoice number could be reserved, please enter one",
	NoticeItemsImported:       "Items imported",
	NoticeUndone:              "Change undone",

	ConfirmDeleteInvoice: "Are you sure you want to delete this invoice?",
	ConfirmDeleteClient:  "Delete this client?",

	ErrClientNameRequired:  "Client name is required",
	ErrInvalidInput:        "Invalid input",
	ErrNegativeQuantity:    "Quantity cannot be negative",
	ErrNegativePrice:       "Price cannot be negative",
	ErrNegativeTaxRate:     "Tax rate cannot be negative",
	ErrUnknownCurrency:     "Unsupported currency",
	ErrInvalidDate:         "Dates must be in YYYY-MM-DD format",
	ErrInvalidLogo:         "Logo must be an image",
	ErrLogoTooLarge:        "Logo file is too large",
	ErrItemNotFound:        "Line item not found",
	ErrDuplicateItem:       "A line item with this id already exists",
	ErrInvalidNumberConfig: "Next invoice number must be at least 1",
	ErrInvalidAmount:       "Amount is not a number",
	ErrNotConfirmed:        "Confirmation required",
	ErrInvoiceNotFound:     "Invoice not found",
	ErrClientNotFound:      "Client not found",
	ErrInvoiceGone:         "This invoice was deleted elsewhere; save again to keep it as a new invoice",
	ErrInvoiceSaveFailed:   "Invoice could not be saved ❌",
	ErrInvoiceDeleteFailed: "Invoice could not be deleted ❌",
	ErrClientSaveFailed:    "Client could not be saved ❌",
	ErrClientDeleteFailed:  "Client could not be deleted ❌",
	ErrLoadFailed:          "Data could not be loaded",
	ErrImportFailed:        "Spreadsheet could not be read",
	ErrExportFailed:        "Export failed",
	ErrUnauthorized:        "Please sign in",
	ErrInvalidCredentials:  "Email or password is incorrect",
	ErrEmailTaken:          "This email is already registered",
	ErrWeakPassword:        "Password must be at least 6 characters",
	ErrGoogleDisabled:      "Google sign-in is not available",
	ErrAlreadyUndone:       "This change was already undone",
	ErrInternal:            "Something went wrong",

	LabelInvoice:            "INVOICE",
	LabelDate:               "Date",
	LabelDueDate:            "Due date",
	LabelBillTo:             "Bill to:",
	LabelDescription:        "Description",
	LabelQuantity:           "Quantity",
	LabelPrice:              "Price",
	LabelLineTotal:          "Total",
	LabelSubtotal:           "Subtotal",
	LabelTax:                "VAT",
	LabelTotal:              "TOTAL",
	LabelNote:               "Note:",
	LabelNumber:             "Number",
	LabelClient:             "Client",
	LabelCurrency:           "Currency",
	LabelCreatedAt:          "Created at",
	LabelCompanyPlaceholder: "Your company name",
	LabelClientPlaceholder:  "Client name",
	LabelCreatedWith:        "Created with BillCraft",

	DefaultNote: "Payment must be made within 7 business days. Thank you!",
}

// tr may be partial; missing keys fall back to English.
var tr = map[Key]string{
	NoticeInvoiceSaved:        "Fatura kaydedildi ✅",
	NoticeInvoiceUpdated:      "Fatura güncellendi ✅",
	NoticeInvoiceDeleted:      "Fatura silindi",
	NoticeInvoiceLoaded:       "Fatura yüklendi",
	NoticeNewInvoice:          "Yeni fatura başlatıldı",
	NoticeClientSaved:         "Müşteri kaydedildi ✅",
	NoticeClientExists:        "Bu müşteri zaten kayıtlı ✅",
	NoticeClientDeleted:       "Müşteri silindi",
	NoticeClientSelected:      "Müşteri bilgileri faturaya aktarıldı",
	NoticeProfileSaved:        "Profil kaydedildi ✅",
	NoticeCounterNotPersisted: "Fatura numarası verildi ancak sayaç kaydedilemedi",
	NoticeNumberUnavailable:   "Fatura numarası alınamadı, lütfen elle girin",
	NoticeItemsImported:       "Kalemler içe aktarıldı",
	NoticeUndone:              "İşlem geri alındı",

	ConfirmDeleteInvoice: "Bu faturayı silmek istediğinize emin misiniz?",
	ConfirmDeleteClient:  "Bu müşteri silinsin mi?",

	ErrClientNameRequired:  "Müşteri adı zorunludur",
	ErrInvalidInput:        "Geçersiz veri",
	ErrNegativeQuantity:    "Miktar negatif olamaz",
	ErrNegativePrice:       "Fiyat negatif olamaz",
	ErrNegativeTaxRate:     "KDV oranı negatif olamaz",
	ErrUnknownCurrency:     "Desteklenmeyen para birimi",
	ErrInvalidDate:         "Tarih YYYY-AA-GG formatında olmalıdır",
	ErrInvalidLogo:         "Logo bir görsel olmalıdır",
	ErrLogoTooLarge:        "Logo dosyası çok büyük",
	ErrItemNotFound:        "Kalem bulunamadı",
	ErrDuplicateItem:       "Bu kimlikle bir kalem zaten var",
	ErrInvalidNumberConfig: "Sıradaki fatura numarası en az 1 olmalıdır",
	ErrInvalidAmount:       "Tutar sayı değil",
	ErrNotConfirmed:        "Onay gerekli",
	ErrInvoiceNotFound:     "Fatura bulunamadı",
	ErrClientNotFound:      "Müşteri bulunamadı",
	ErrInvoiceGone:         "Bu fatura başka bir yerde silinmiş; yeni fatura olarak saklamak için tekrar kaydedin",
	ErrInvoiceSaveFailed:   "Fatura kaydedilemedi ❌",
	ErrInvoiceDeleteFailed: "Fatura silinemedi ❌",
	ErrClientSaveFailed:    "Müşteri kaydedilemedi ❌",
	ErrClientDeleteFailed:  "Müşteri silinemedi ❌",
	ErrLoadFailed:          "Veriler yüklenemedi",
	ErrImportFailed:        "Tablo okunamadı",
	ErrExportFailed:        "Dışa aktarma başarısız",
	ErrUnauthorized:        "Lütfen giriş yapın",
	ErrInvalidCredentials:  "E-posta veya şifre hatalı",
	ErrEmailTaken:          "Bu e-posta zaten kayıtlı",
	ErrWeakPassword:        "Şifre en az 6 karakter olmalıdır",
	ErrGoogleDisabled:      "Google ile giriş kullanılamıyor",
	ErrAlreadyUndone:       "Bu işlem zaten geri alınmış",
	ErrInternal:            "Bir hata oluştu",

	LabelInvoice:            "FATURA",
	LabelDate:               "Tarih",
	LabelDueDate:            "Son ödeme tarihi",
	LabelBillTo:             "Sayın:",
	LabelDescription:        "Açıklama",
	LabelQuantity:           "Miktar",
	LabelPrice:              "Birim fiyat",
	LabelLineTotal:          "Tutar",
	LabelSubtotal:           "Ara toplam",
	LabelTax:                "KDV",
	LabelTotal:              "GENEL TOPLAM",
	LabelNote:               "Not:",
	LabelNumber:             "Numara",
	LabelClient:             "Müşteri",
	LabelCurrency:           "Para birimi",
	LabelCreatedAt:          "Oluşturulma",
	LabelCompanyPlaceholder: "Firma adınız",
	LabelClientPlaceholder:  "Müşteri adı",
	LabelCreatedWith:        "BillCraft ile oluşturuldu",

	DefaultNote: "Ödeme 7 iş günü içinde yapılmalıdır. Teşekkürler!",
}
