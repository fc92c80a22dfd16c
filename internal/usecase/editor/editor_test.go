package editor

import (
	"testing"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() (milk, bread, salt entity.ProductInfo) {
	milk = entity.ProductInfo{ID: uuid.New(), Name: "Молоко", Category: "Молочные продукты", Unit: "л"}
	bread = entity.ProductInfo{ID: uuid.New(), Name: "Хлеб", Category: "Выпечка", Unit: "шт."}
	salt = entity.ProductInfo{ID: uuid.New(), Name: "Соль", Category: entity.FallbackCatName, Unit: "шт."}

	return milk, bread, salt
}

func TestNewDraft_SkipsDeletedProducts(t *testing.T) {
	milk, bread, _ := testCatalog()
	deleted := entity.ProductInfo{ID: uuid.New(), Name: "Старый товар", Category: entity.FallbackCatName, Unit: "шт.", Deleted: true}

	draft := NewDraft([]entity.ProductInfo{milk, bread, deleted})

	require.Len(t, draft.Rows, 2)
	for _, row := range draft.Rows {
		assert.False(t, row.Deleted)
		assert.Zero(t, row.Quantity)
	}
}

func TestMergeOrder_OverlaysQuantities(t *testing.T) {
	milk, bread, _ := testCatalog()
	draft := NewDraft([]entity.ProductInfo{milk, bread})

	order := &entity.Order{
		Title:   "Выходные",
		Comment: "не забыть",
		Items: []entity.OrderItem{
			{ProductID: milk.ID, Quantity: 2, IsCompleted: true, Comment: "2.5%"},
		},
	}

	draft.MergeOrder(order, nil)

	assert.Equal(t, "Выходные", draft.Title)
	assert.Equal(t, "не забыть", draft.Comment)

	require.Len(t, draft.Rows, 2)
	for _, row := range draft.Rows {
		if row.ProductID == milk.ID {
			assert.Equal(t, 2.0, row.Quantity)
			assert.True(t, row.IsCompleted)
			assert.Equal(t, "2.5%", row.Comment)
		} else {
			assert.Zero(t, row.Quantity)
		}
	}
}

func TestMergeOrder_UnknownProductGetsSentinelRow(t *testing.T) {
	milk, _, _ := testCatalog()
	draft := NewDraft([]entity.ProductInfo{milk})

	goneID := uuid.New()
	order := &entity.Order{
		Items: []entity.OrderItem{{ProductID: goneID, Quantity: 1}},
	}

	draft.MergeOrder(order, nil)

	require.Len(t, draft.Rows, 2)
	gone := draft.Rows[1]
	assert.Equal(t, goneID, gone.ProductID)
	assert.Equal(t, entity.NoNameProduct, gone.Name)
	assert.Equal(t, entity.FallbackCatName, gone.Category)
	assert.Equal(t, entity.DefaultUnitName, gone.Unit)
	assert.True(t, gone.Deleted)
}

func TestSnapshot_RoundTripEquality(t *testing.T) {
	milk, bread, _ := testCatalog()
	draft := NewDraft([]entity.ProductInfo{milk, bread})

	order := &entity.Order{
		Title: "  Выходные ",
		Items: []entity.OrderItem{
			{ProductID: bread.ID, Quantity: 1},
			{ProductID: milk.ID, Quantity: 2, Comment: " 2.5% "},
		},
	}

	draft.MergeOrder(order, nil)

	// A draft merged from an order must compare equal to that order.
	assert.True(t, Equal(draft.Snapshot(), SnapshotOrder(order)))
}

func TestSnapshot_OneFieldDivergenceDetected(t *testing.T) {
	milk, bread, _ := testCatalog()

	makeDraft := func() *Draft {
		draft := NewDraft([]entity.ProductInfo{milk, bread})
		draft.MergeOrder(&entity.Order{
			Title: "Выходные",
			Items: []entity.OrderItem{{ProductID: milk.ID, Quantity: 2}},
		}, nil)

		return draft
	}

	base := makeDraft().Snapshot()

	tests := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"title changed", func(d *Draft) { d.Title = "Будни" }},
		{"comment changed", func(d *Draft) { d.Comment = "срочно" }},
		{"quantity changed", func(d *Draft) {
			for i := range d.Rows {
				if d.Rows[i].ProductID == milk.ID {
					d.Rows[i].Quantity = 3
				}
			}
		}},
		{"row added", func(d *Draft) {
			for i := range d.Rows {
				if d.Rows[i].ProductID == bread.ID {
					d.Rows[i].Quantity = 1
				}
			}
		}},
		{"flag changed", func(d *Draft) {
			for i := range d.Rows {
				if d.Rows[i].ProductID == milk.ID {
					d.Rows[i].BuyOnlyByAction = true
				}
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := makeDraft()
			tt.mutate(changed)
			assert.False(t, Equal(base, changed.Snapshot()))
		})
	}
}

func TestSnapshot_NormalizesWhitespaceAndNegativeQuantity(t *testing.T) {
	milk, _, _ := testCatalog()

	a := NewDraft([]entity.ProductInfo{milk})
	a.Title = "Выходные"
	a.Rows[0].Quantity = 2

	b := NewDraft([]entity.ProductInfo{milk})
	b.Title = "  Выходные  "
	b.Rows[0].Quantity = 2

	assert.True(t, Equal(a.Snapshot(), b.Snapshot()))

	// A negative quantity coerces to zero, which drops the row.
	b.Rows[0].Quantity = -1
	assert.Empty(t, b.Snapshot().Items)
}

func TestFilter_MatchesProductOrCategory(t *testing.T) {
	milk, bread, salt := testCatalog()
	draft := NewDraft([]entity.ProductInfo{milk, bread, salt})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"blank query returns everything", "   ", 3},
		{"product name match", "молоко", 1},
		{"category match", "выпечка", 1},
		{"case-insensitive", "МОЛОЧ", 1},
		{"no match", "рыба", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, draft.Filter(tt.query), tt.want)
		})
	}
}

func TestSortCategories_FallbackLast(t *testing.T) {
	names := []string{entity.FallbackCatName, "Овощи", "Выпечка", "Молочные продукты"}

	SortCategories(names)

	assert.Equal(t, []string{"Выпечка", "Молочные продукты", "Овощи", entity.FallbackCatName}, names)
}

func TestGroupByCategory(t *testing.T) {
	milk, bread, salt := testCatalog()
	cheese := entity.ProductInfo{ID: uuid.New(), Name: "Сыр", Category: "Молочные продукты", Unit: "кг"}

	draft := NewDraft([]entity.ProductInfo{salt, cheese, milk, bread})
	groups := GroupByCategory(draft.Rows)

	require.Len(t, groups, 3)
	assert.Equal(t, "Выпечка", groups[0].Category)
	assert.Equal(t, "Молочные продукты", groups[1].Category)
	assert.Equal(t, entity.FallbackCatName, groups[2].Category)

	// Products sort by name inside a category.
	require.Len(t, groups[1].Rows, 2)
	assert.Equal(t, "Молоко", groups[1].Rows[0].Name)
	assert.Equal(t, "Сыр", groups[1].Rows[1].Name)
}

func TestValidate(t *testing.T) {
	milk, _, _ := testCatalog()
	draft := NewDraft([]entity.ProductInfo{milk})

	err := draft.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrOrderEmpty)

	draft.Rows[0].Quantity = 1
	assert.NoError(t, draft.Validate())
}

func TestAddItem(t *testing.T) {
	milk, bread, _ := testCatalog()
	draft := NewDraft([]entity.ProductInfo{milk})

	err := draft.AddItem(bread, 2)
	require.NoError(t, err)
	assert.Len(t, draft.Rows, 2)

	// Duplicate product is rejected.
	err = draft.AddItem(bread, 1)
	assert.ErrorIs(t, err, domainerrors.ErrOrderItemExists)

	// Quantity below one is rejected.
	err = draft.AddItem(entity.ProductInfo{ID: uuid.New(), Name: "Мука"}, 0.5)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	// Unselected product is rejected.
	err = draft.AddItem(entity.ProductInfo{}, 1)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestItems_DropsZeroQuantityRows(t *testing.T) {
	milk, bread, _ := testCatalog()
	draft := NewDraft([]entity.ProductInfo{milk, bread})
	draft.Rows[0].Quantity = 2

	items := draft.Items()

	require.Len(t, items, 1)
	assert.Equal(t, draft.Rows[0].ProductID, items[0].ProductID)
	assert.Equal(t, 2.0, items[0].Quantity)
}

func TestPartition(t *testing.T) {
	milk, bread, _ := testCatalog()
	order := &entity.Order{
		Items: []entity.OrderItem{
			{ProductID: milk.ID, Quantity: 2, IsCompleted: true},
			{ProductID: bread.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	}

	resolved := map[uuid.UUID]entity.ProductInfo{
		milk.ID:  milk,
		bread.ID: bread,
	}

	pending, completed := Partition(order, resolved)

	require.Len(t, completed, 1)
	assert.Equal(t, "Молоко", completed[0].Name)

	require.Len(t, pending, 2)
	assert.Equal(t, "Хлеб", pending[0].Name)
	// The unresolvable product renders with the sentinel info.
	assert.Equal(t, entity.NoNameProduct, pending[1].Name)
	assert.True(t, pending[1].Deleted)
}
