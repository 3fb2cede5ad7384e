package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
)

// PropertyRepositories bundles the property repositories billing reads from
type PropertyRepositories struct {
	Leases     property.LeaseRepository
	Tenants    property.TenantRepository
	Units      property.UnitRepository
	Properties property.PropertyRepository
}

var errInvalidLease = shared.NewDomainError("INVALID_LEASE", "Lease not found")

// leaseParties is a lease with the records an invoice is addressed to
type leaseParties struct {
	lease    *property.Lease
	tenant   *property.Tenant
	unit     *property.Unit
	property *property.Property
}

func (r PropertyRepositories) load(ctx context.Context, accountID, leaseID uuid.UUID) (*leaseParties, error) {
	lease, err := r.Leases.FindByIDForAccount(ctx, accountID, leaseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidLease
		}
		return nil, err
	}
	return r.parties(ctx, accountID, lease)
}

func (r PropertyRepositories) parties(ctx context.Context, accountID uuid.UUID, lease *property.Lease) (*leaseParties, error) {
	tenant, err := r.Tenants.FindByIDForAccount(ctx, accountID, lease.TenantID)
	if err != nil {
		return nil, err
	}
	unit, err := r.Units.FindByIDForAccount(ctx, accountID, lease.UnitID)
	if err != nil {
		return nil, err
	}
	prop, err := r.Properties.FindByIDForAccount(ctx, accountID, unit.PropertyID)
	if err != nil {
		return nil, err
	}
	return &leaseParties{lease: lease, tenant: tenant, unit: unit, property: prop}, nil
}

// invoiceContext flattens the parties into template data. Invoice fields
// are filled from inv when given.
func (p *leaseParties) invoiceContext(inv *billing.RentInvoice) billing.InvoiceContext {
	c := billing.InvoiceContext{
		TenantName:      p.tenant.FullName,
		TenantFirstName: p.tenant.FirstName(),
		TenantLastName:  p.tenant.LastName(),
		TenantPhone:     p.tenant.Phone,
		TenantEmail:     p.tenant.Email,
		PropertyName:    p.property.Name,
		PropertyAddress: p.property.Address,
		PropertyStreet:  p.property.Street,
		PropertyIsland:  p.property.Island,
		UnitNumber:      p.unit.UnitNumber,
		RentAmount:      p.lease.MonthlyRent,
		Currency:        p.lease.Currency,
	}
	if inv != nil {
		invoiceDate, dueDate := inv.InvoiceDate, inv.DueDate
		c.RentAmount = inv.TotalAmount
		c.Currency = inv.Currency
		c.InvoiceNumber = inv.InvoiceNumber
		c.InvoiceDate = &invoiceDate
		c.DueDate = &dueDate
	}
	return c
}

// defaultRentInvoiceHTML is used when the account has no default rent template
const defaultRentInvoiceHTML = `<div class="invoice">
<h1>Rent Invoice {{invoice_number}}</h1>
<p>Date: {{invoice_date}}<br>Due: {{due_date}}</p>
<p>Billed to: {{tenant_name}}<br>{{tenant_phone}} {{tenant_email}}</p>
<p>{{property_name}}, unit {{unit_number}}<br>{{property_address}}</p>
<table>
<tr><th>Description</th><th>Amount</th></tr>
<tr><td>Rent for {{current_month}}</td><td>{{currency}} {{rent_amount}}</td></tr>
</table>
</div>`

const defaultRentInvoiceStyles = `body{font-family:sans-serif;font-size:12px}
table{width:100%;border-collapse:collapse}
th,td{border:1px solid #ccc;padding:6px;text-align:left}`

func fallbackTemplate(accountID uuid.UUID) *billing.InvoiceTemplate {
	return &billing.InvoiceTemplate{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		Name:                 "Standard rent invoice",
		Type:                 billing.TemplateTypeRent,
		HTMLContent:          defaultRentInvoiceHTML,
		Styles:               defaultRentInvoiceStyles,
		IsActive:             true,
	}
}
