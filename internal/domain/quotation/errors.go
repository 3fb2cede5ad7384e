package quotation

import "github.com/rentquote/backend/internal/domain/shared"

var (
	ErrQuotationLocked     = shared.NewDomainError("QUOTATION_LOCKED", "Only draft quotations can be edited")
	ErrInvalidTransition   = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Quotation status transition is not allowed")
	ErrItemNotFound        = shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
	ErrInvalidQuantity     = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	ErrInvalidDiscount     = shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	ErrResortCodeExhausted = shared.NewDomainError("RESORT_CODE_EXHAUSTED", "Could not allocate a unique resort code")
	ErrCustomerInUse       = shared.NewDomainError("CUSTOMER_IN_USE", "Customer has quotations or contracts and cannot be deleted")
	ErrDefaultTemplate     = shared.NewDomainError("DEFAULT_TEMPLATE_DELETE", "The default template cannot be deleted")
	ErrInvalidTermsType    = shared.NewDomainError("INVALID_TERMS_CATEGORY", "Category must be one of general, hardware, service, amc")
	ErrInvalidContractDate = shared.NewDomainError("INVALID_CONTRACT_DATES", "Expiry date must be after start date")
	ErrDuplicateContract   = shared.NewDomainError("DUPLICATE_CONTRACT_NUMBER", "A contract with this number already exists")
	ErrContractState       = shared.NewDomainError("INVALID_CONTRACT_STATE", "Operation not allowed for the contract status")
)
