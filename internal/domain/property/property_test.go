package property

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty(t *testing.T) {
	p, err := NewProperty(uuid.New(), "Blue Lagoon Residence", PropertyTypeResidential)
	require.NoError(t, err)
	assert.Equal(t, PropertyStatusActive, p.Status)
	assert.Equal(t, 1, p.NumberOfFloors)

	_, err = NewProperty(uuid.New(), "", PropertyTypeResidential)
	assert.Error(t, err)
	_, err = NewProperty(uuid.New(), "Shop", "industrial")
	assert.Error(t, err)

	assert.Error(t, p.Update("Blue Lagoon", "", "", "Hulhumale", PropertyTypeResidential, 0, ""))
	assert.Error(t, p.SetStatus("demolished"))
}

func TestOccupancyStats_Rate(t *testing.T) {
	assert.Equal(t, 0.0, OccupancyStats{}.Rate())
	assert.Equal(t, 66.67, OccupancyStats{TotalUnits: 3, OccupiedUnits: 2}.Rate())
	assert.Equal(t, 100.0, OccupancyStats{TotalUnits: 4, OccupiedUnits: 4}.Rate())
}

func TestUnit_SyncOccupancy(t *testing.T) {
	u, err := NewUnit(uuid.New(), uuid.New(), "A-101", decimal.NewFromInt(8000))
	require.NoError(t, err)
	assert.Equal(t, "MVR", u.Currency)
	assert.Equal(t, UnitStatusAvailable, u.Status)

	u.SyncOccupancy(true)
	assert.True(t, u.IsOccupied)
	assert.Equal(t, UnitStatusOccupied, u.Status)
	assert.Error(t, u.SetMaintenance(true))

	u.SyncOccupancy(false)
	assert.False(t, u.IsOccupied)
	assert.Equal(t, UnitStatusAvailable, u.Status)

	require.NoError(t, u.SetMaintenance(true))
	u.SyncOccupancy(false)
	assert.Equal(t, UnitStatusMaintenance, u.Status)
}

func TestUnit_UpdateValidation(t *testing.T) {
	u, err := NewUnit(uuid.New(), uuid.New(), "B-2", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Error(t, u.Update("", "", 0, decimal.Zero, decimal.Zero, ""))
	assert.Error(t, u.Update("B-2", "", 0, decimal.NewFromInt(-1), decimal.Zero, ""))
	assert.Error(t, u.Update("B-2", "", 0, decimal.Zero, decimal.Zero, "rufiyaa"))

	_, err = NewUnit(uuid.New(), uuid.Nil, "X", decimal.Zero)
	assert.Error(t, err)
}

func TestTenant_Names(t *testing.T) {
	tn, err := NewTenant(uuid.New(), "  Aishath   Shifa Ibrahim ")
	require.NoError(t, err)
	assert.Equal(t, "Aishath Shifa Ibrahim", tn.FullName)
	assert.Equal(t, "Aishath", tn.FirstName())
	assert.Equal(t, "Shifa Ibrahim", tn.LastName())

	mono, err := NewTenant(uuid.New(), "Hassan")
	require.NoError(t, err)
	assert.Equal(t, "", mono.LastName())
}

func TestTenant_UpdateContact(t *testing.T) {
	tn, err := NewTenant(uuid.New(), "Ali")
	require.NoError(t, err)

	err = tn.UpdateContact("Ali Nasheed", "ali@example.mv", "7771234", "", "Maldivian", IDProofNationalID, "A123456",
		EmergencyContact{Name: "Mariyam", Phone: "7779999", Relation: "sister"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Mariyam", tn.EmergencyContact.Name)

	assert.Error(t, tn.UpdateContact("Ali", "", "", "", "", "driving_licence", "", EmergencyContact{}, ""))
	assert.NoError(t, tn.SetStatus(TenantStatusFormer))
	assert.Error(t, tn.SetStatus("evicted"))
}
