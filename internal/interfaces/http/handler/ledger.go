package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/rentquote/backend/internal/application/billing"
)

// LedgerHandler handles tenant ledger endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *billingapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *billingapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Create godoc
// @ID           createLedgerEntry
// @Summary      Post a ledger entry
// @Description  Appends a debit or credit to the tenant's ledger and recalculates running balances
// @Tags         tenant-ledgers
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreateLedgerEntryRequest true "Ledger entry"
// @Success      201 {object} APIResponse[billingapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-ledgers [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req billingapp.CreateLedgerEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	entry, err := h.ledgerService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, entry)
}

// GetByID godoc
// @ID           getLedgerEntryById
// @Summary      Get a ledger entry
// @Tags         tenant-ledgers
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.LedgerEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-ledgers/{id} [get]
func (h *LedgerHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	entry, err := h.ledgerService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// List godoc
// @ID           listLedgerEntries
// @Summary      List ledger entries
// @Tags         tenant-ledgers
// @Produce      json
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        payment_type query string false "Payment type" Enums(rent, deposit, fee, maintenance, refund, other)
// @Param        transaction_type query string false "Transaction type" Enums(debit, credit)
// @Param        date_from query string false "From (YYYY-MM-DD)"
// @Param        date_to query string false "To (YYYY-MM-DD)"
// @Param        balance_status query string false "Balance sign" Enums(positive, negative)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]billingapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-ledgers [get]
func (h *LedgerHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter billingapp.LedgerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	entries, total, err := h.ledgerService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, entries, total, filter.ToDomain())
}

// Summary godoc
// @ID           getTenantLedgerSummary
// @Summary      Tenant ledger summary
// @Description  Total debits, credits and the current balance of one tenant
// @Tags         tenant-ledgers
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[billing.LedgerSummary]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-ledgers/tenant/{tenantId}/summary [get]
func (h *LedgerHandler) Summary(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	tenantID, ok := h.pathID(c, "tenantId")
	if !ok {
		return
	}

	summary, err := h.ledgerService.Summary(c.Request.Context(), accountID, tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update godoc
// @ID           updateLedgerEntry
// @Summary      Correct a ledger entry
// @Tags         tenant-ledgers
// @Accept       json
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Param        request body billingapp.UpdateLedgerEntryRequest true "Ledger entry"
// @Success      200 {object} APIResponse[billingapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-ledgers/{id} [put]
func (h *LedgerHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.UpdateLedgerEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.ledgerService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// Delete godoc
// @ID           deleteLedgerEntry
// @Summary      Delete a ledger entry
// @Tags         tenant-ledgers
// @Param        id path string true "Entry ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-ledgers/{id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ledgerService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
