package catalog

import "github.com/rentquote/backend/internal/domain/shared"

var (
	ErrInvalidCategoryType   = shared.NewDomainError("INVALID_CATEGORY_TYPE", "Category type must be one of services, hardware, software, spare_parts")
	ErrParentRequired        = shared.NewDomainError("PARENT_REQUIRED", "A category must belong to one of the four parent categories")
	ErrMaxDepthExceeded      = shared.NewDomainError("MAX_DEPTH_EXCEEDED", "Category hierarchy is too deep")
	ErrCategoryCycle         = shared.NewDomainError("CATEGORY_CYCLE", "A category cannot be moved under itself or its descendants")
	ErrRootCategoryImmutable = shared.NewDomainError("ROOT_CATEGORY_IMMUTABLE", "Parent categories cannot be moved or deleted")
	ErrCategoryHasProducts   = shared.NewDomainError("CATEGORY_HAS_PRODUCTS", "Category has products and cannot be deleted")
	ErrCategoryHasChildren   = shared.NewDomainError("CATEGORY_HAS_CHILDREN", "Category has sub-categories and cannot be deleted")
	ErrDuplicateSKU          = shared.NewDomainError("DUPLICATE_SKU", "A product with this SKU already exists")
	ErrInvalidPrice          = shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	ErrInvalidTaxRate        = shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
)
