package editor

import "errors"

var (
	ErrNotConfirmed        = errors.New("işlem onaylanmadı")
	ErrCounterNotPersisted = errors.New("fatura sayacı kaydedilemedi")
	ErrNumberUnavailable   = errors.New("fatura numarası alınamadı")
	ErrNoSuchInvoice       = errors.New("fatura bulunamadı")
	ErrNoSuchClient        = errors.New("müşteri bulunamadı")
	ErrInvoiceGone         = errors.New("fatura silinmiş") // başka bir oturumda silinmiş
	ErrSaveFailed          = errors.New("fatura kaydedilemedi")
	ErrDeleteFailed        = errors.New("fatura silinemedi")
	ErrLoadFailed          = errors.New("fatura yüklenemedi")
	ErrClientSaveFailed    = errors.New("müşteri kaydedilemedi")
	ErrClientDeleteFailed  = errors.New("müşteri silinemedi")
	ErrSessionClosed       = errors.New("oturum kapalı")
)
