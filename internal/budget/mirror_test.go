package budget

import (
	"testing"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorExpense_UpsertInPlace(t *testing.T) {
	s := newTestService(t)
	b, err := s.Create(models.PartnerA, nil, "")
	require.NoError(t, err)
	expenses := sectionByName(t, s, b.ID, "Expenses")
	internal := sectionByName(t, s, b.ID, "Repartition")

	item := &models.BudgetItem{
		BudgetID: b.ID, SectionID: expenses.ID, Kind: models.ItemMeal,
		Description: "Crew meals", MealCount: 6, PricePerMeal: dec("12.50"),
	}
	require.NoError(t, s.AddItem(item))

	mirror, err := s.MirrorExpense(item.ID, internal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CompanyCode, mirror.Beneficiary)
	assert.Equal(t, "75.00", mirror.Total.StringFixed(2))

	// edit the item, mirror again: same row, updated figures
	item.MealCount = 8
	require.NoError(t, s.DB.Model(&models.BudgetItem{}).Where("id = ?", item.ID).
		Update("meal_count", 8).Error)

	again, err := s.MirrorExpense(item.ID, internal.ID)
	require.NoError(t, err)
	assert.Equal(t, mirror.ID, again.ID)
	assert.Equal(t, "100.00", again.Total.StringFixed(2))

	var count int64
	require.NoError(t, s.DB.Model(&models.BudgetAllocation{}).
		Where("mirror_of_item_id = ?", item.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMirrorExpense_RejectsNonExpenseItem(t *testing.T) {
	s := newTestService(t)
	b, err := s.Create(models.PartnerA, nil, "")
	require.NoError(t, err)
	services := sectionByName(t, s, b.ID, "Services")
	internal := sectionByName(t, s, b.ID, "Repartition")

	item := &models.BudgetItem{
		BudgetID: b.ID, SectionID: services.ID, Kind: models.ItemService,
		Quantity: dec("1"), Days: dec("1"), UnitPrice: dec("500"),
	}
	require.NoError(t, s.AddItem(item))

	_, err = s.MirrorExpense(item.ID, internal.ID)
	assert.Error(t, err)
}

func TestMirrorExpenseSplit_HalvesSumToTotal(t *testing.T) {
	s := newTestService(t)
	b, err := s.Create(models.PartnerB, nil, "")
	require.NoError(t, err)
	expenses := sectionByName(t, s, b.ID, "Expenses")
	internal := sectionByName(t, s, b.ID, "Repartition")

	// 33.33 does not split evenly; partner A's half is rounded and
	// partner B takes the remainder
	item := &models.BudgetItem{
		BudgetID: b.ID, SectionID: expenses.ID, Kind: models.ItemOther,
		Description: "Parking", FixedAmount: dec("33.33"),
	}
	require.NoError(t, s.AddItem(item))

	created, err := s.MirrorExpenseSplit([]uint{item.ID}, internal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	var halves []models.BudgetAllocation
	require.NoError(t, s.DB.Where("section_id = ? AND description = ?", internal.ID, "Parking").
		Order("beneficiary asc").Find(&halves).Error)
	require.Len(t, halves, 2)

	assert.Equal(t, string(models.PartnerA), halves[0].Beneficiary)
	assert.Equal(t, "16.67", halves[0].Total.StringFixed(2))
	assert.Equal(t, string(models.PartnerB), halves[1].Beneficiary)
	assert.Equal(t, "16.66", halves[1].Total.StringFixed(2))
	assert.Equal(t, "33.33", halves[0].Total.Add(halves[1].Total).StringFixed(2))
}

func TestMirrorExpenseSplit_RerunCreatesNothing(t *testing.T) {
	s := newTestService(t)
	b, err := s.Create(models.PartnerA, nil, "")
	require.NoError(t, err)
	expenses := sectionByName(t, s, b.ID, "Expenses")
	internal := sectionByName(t, s, b.ID, "Repartition")

	item := &models.BudgetItem{
		BudgetID: b.ID, SectionID: expenses.ID, Kind: models.ItemTransport,
		Description: "Van rental", DistanceKm: 100, RatePerKm: dec("0.36"),
	}
	require.NoError(t, s.AddItem(item))

	created, err := s.MirrorExpenseSplit([]uint{item.ID}, internal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = s.MirrorExpenseSplit([]uint{item.ID}, internal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, s.DB.Model(&models.BudgetAllocation{}).
		Where("section_id = ?", internal.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteItem_RemovesMirror(t *testing.T) {
	s := newTestService(t)
	b, err := s.Create(models.PartnerA, nil, "")
	require.NoError(t, err)
	expenses := sectionByName(t, s, b.ID, "Expenses")
	internal := sectionByName(t, s, b.ID, "Repartition")

	item := &models.BudgetItem{
		BudgetID: b.ID, SectionID: expenses.ID, Kind: models.ItemOther,
		Description: "Tolls", FixedAmount: dec("18.40"),
	}
	require.NoError(t, s.AddItem(item))
	_, err = s.MirrorExpense(item.ID, internal.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteItem(item.ID))

	var count int64
	require.NoError(t, s.DB.Model(&models.BudgetAllocation{}).
		Where("mirror_of_item_id = ?", item.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	var saved models.Budget
	require.NoError(t, s.DB.First(&saved, b.ID).Error)
	assert.True(t, saved.ClientTotal.IsZero())
	assert.True(t, saved.InternalTotal.IsZero())
}

func TestUpdateItem_ResyncsMirror(t *testing.T) {
	s := newTestService(t)
	b, err := s.Create(models.PartnerB, nil, "")
	require.NoError(t, err)
	expenses := sectionByName(t, s, b.ID, "Expenses")
	internal := sectionByName(t, s, b.ID, "Repartition")

	item := &models.BudgetItem{
		BudgetID: b.ID, SectionID: expenses.ID, Kind: models.ItemTransport,
		Description: "Location scouting", DistanceKm: 50, RatePerKm: dec("0.36"),
	}
	require.NoError(t, s.AddItem(item))
	_, err = s.MirrorExpense(item.ID, internal.ID)
	require.NoError(t, err)

	item.DistanceKm = 120
	require.NoError(t, s.UpdateItem(item))

	var mirror models.BudgetAllocation
	require.NoError(t, s.DB.Where("mirror_of_item_id = ?", item.ID).First(&mirror).Error)
	assert.Equal(t, 120, mirror.DistanceKm)
	assert.Equal(t, "43.20", mirror.Total.StringFixed(2))

	var saved models.Budget
	require.NoError(t, s.DB.First(&saved, b.ID).Error)
	assert.Equal(t, "43.20", saved.ClientTotal.StringFixed(2))
	assert.Equal(t, "43.20", saved.InternalTotal.StringFixed(2))
}
