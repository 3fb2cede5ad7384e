package billing

import "github.com/rentquote/backend/internal/domain/shared"

var (
	ErrInvalidDocumentType    = shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Unknown document type")
	ErrNumberExhausted        = shared.NewDomainError("NUMBER_GENERATION_FAILED", "Unable to generate a unique document number")
	ErrInvalidTemplateType    = shared.NewDomainError("INVALID_TEMPLATE_TYPE", "Template type must be rent, maintenance or both")
	ErrInvalidAmount          = shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	ErrInvoiceClosed          = shared.NewDomainError("INVOICE_CLOSED", "Invoice does not accept this operation in its current status")
	ErrLedgerOneSide          = shared.NewDomainError("INVALID_LEDGER_AMOUNTS", "Exactly one of debit and credit must be greater than zero")
	ErrInvalidPaymentType     = shared.NewDomainError("INVALID_PAYMENT_TYPE", "Unknown payment type")
	ErrInvalidPaymentStatus   = shared.NewDomainError("INVALID_PAYMENT_STATUS", "Payment status is not allowed here")
	ErrLeaseRequired          = shared.NewDomainError("LEASE_REQUIRED", "This payment type must reference a lease")
	ErrPaymentClosed          = shared.NewDomainError("PAYMENT_CLOSED", "Payment is cancelled, failed or refunded")
	ErrPaymentAlreadyCaptured = shared.NewDomainError("PAYMENT_ALREADY_CAPTURED", "Payment is already completed")
	ErrPaymentNotVoidable     = shared.NewDomainError("PAYMENT_NOT_VOIDABLE", "Completed or refunded payments cannot be voided")
	ErrGenerationInProgress   = shared.NewDomainError("GENERATION_IN_PROGRESS", "Invoices for this month are already being generated")
)
