// Package editor holds the pure, in-memory shopping list editing logic:
// draft seeding from the catalog, dirty detection via normalized
// snapshots, search filtering, category grouping and submit validation.
// Nothing here touches storage, so everything is testable as plain values.
package editor

import (
	"sort"
	"strings"

	"vkladovke/internal/domain/entity"
	domainerrors "vkladovke/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is one editable shopping list row with its product reference
// resolved for display.
type Row struct {
	ProductID       uuid.UUID
	Name            string
	Category        string
	Unit            string
	Deleted         bool
	Quantity        float64
	BuyOnlyByAction bool
	IsCompleted     bool
	Comment         string
}

// Draft is the in-memory working copy of an order being edited.
type Draft struct {
	Title   string
	Comment string
	Rows    []Row
}

// CategoryGroup is one category section of a grouped list.
type CategoryGroup struct {
	Category string
	Rows     []Row
}

// NewDraft seeds a draft from the catalog: one zero-quantity row per
// active product. Deleted products only appear when an order references
// them (see MergeOrder).
func NewDraft(catalog []entity.ProductInfo) *Draft {
	rows := make([]Row, 0, len(catalog))
	for _, info := range catalog {
		if info.Deleted {
			continue
		}
		rows = append(rows, rowFromInfo(info))
	}

	return &Draft{Rows: rows}
}

// MergeOrder overlays an order onto the draft. Rows referenced by the
// order take its quantities and flags; order rows whose product is gone
// from the catalog are appended with the resolved sentinel info.
func (d *Draft) MergeOrder(order *entity.Order, resolved map[uuid.UUID]entity.ProductInfo) {
	d.Title = order.Title
	d.Comment = order.Comment

	byProduct := make(map[uuid.UUID]int, len(d.Rows))
	for i, row := range d.Rows {
		byProduct[row.ProductID] = i
	}

	for _, item := range order.Items {
		idx, ok := byProduct[item.ProductID]
		if !ok {
			info, found := resolved[item.ProductID]
			if !found {
				info = entity.ProductInfo{
					ID:       item.ProductID,
					Name:     entity.NoNameProduct,
					Category: entity.FallbackCatName,
					Unit:     entity.DefaultUnitName,
					Deleted:  true,
				}
			}
			d.Rows = append(d.Rows, rowFromInfo(info))
			idx = len(d.Rows) - 1
			byProduct[item.ProductID] = idx
		}

		d.Rows[idx].Quantity = item.Quantity
		d.Rows[idx].BuyOnlyByAction = item.BuyOnlyByAction
		d.Rows[idx].IsCompleted = item.IsCompleted
		d.Rows[idx].Comment = item.Comment
	}
}

func rowFromInfo(info entity.ProductInfo) Row {
	return Row{
		ProductID: info.ID,
		Name:      info.Name,
		Category:  info.Category,
		Unit:      info.Unit,
		Deleted:   info.Deleted,
	}
}

// SnapshotItem is one normalized row of a snapshot.
type SnapshotItem struct {
	ProductID       uuid.UUID
	Quantity        float64
	BuyOnlyByAction bool
	IsCompleted     bool
	Comment         string
}

// Snapshot is a normalized value of the draft's persistable state, used
// for dirty detection: title and comment trimmed, rows with a positive
// quantity only, sorted by product id.
type Snapshot struct {
	Title   string
	Comment string
	Items   []SnapshotItem
}

// Snapshot builds the normalized snapshot of the draft.
func (d *Draft) Snapshot() Snapshot {
	items := make([]SnapshotItem, 0, len(d.Rows))
	for _, row := range d.Rows {
		quantity := row.Quantity
		if quantity < 0 {
			quantity = 0
		}
		if quantity == 0 {
			continue
		}
		items = append(items, SnapshotItem{
			ProductID:       row.ProductID,
			Quantity:        quantity,
			BuyOnlyByAction: row.BuyOnlyByAction,
			IsCompleted:     row.IsCompleted,
			Comment:         strings.TrimSpace(row.Comment),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	return Snapshot{
		Title:   strings.TrimSpace(d.Title),
		Comment: strings.TrimSpace(d.Comment),
		Items:   items,
	}
}

// Equal reports whether two snapshots carry the same persistable state.
func Equal(a, b Snapshot) bool {
	if a.Title != b.Title || a.Comment != b.Comment || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if a.Items[i] != b.Items[i] {
			return false
		}
	}

	return true
}

// SnapshotOrder normalizes a stored order the same way Draft.Snapshot
// does, so a freshly merged draft compares equal to its source order.
func SnapshotOrder(order *entity.Order) Snapshot {
	items := make([]SnapshotItem, 0, len(order.Items))
	for _, item := range order.Items {
		quantity := item.Quantity
		if quantity < 0 {
			quantity = 0
		}
		if quantity == 0 {
			continue
		}
		items = append(items, SnapshotItem{
			ProductID:       item.ProductID,
			Quantity:        quantity,
			BuyOnlyByAction: item.BuyOnlyByAction,
			IsCompleted:     item.IsCompleted,
			Comment:         strings.TrimSpace(item.Comment),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	return Snapshot{
		Title:   strings.TrimSpace(order.Title),
		Comment: strings.TrimSpace(order.Comment),
		Items:   items,
	}
}

// Filter returns the rows whose product name or category contains the
// query, case-insensitively. A blank query returns every row.
func (d *Draft) Filter(query string) []Row {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]Row(nil), d.Rows...)
	}

	matched := make([]Row, 0, len(d.Rows))
	for _, row := range d.Rows {
		if strings.Contains(strings.ToLower(row.Name), query) ||
			strings.Contains(strings.ToLower(row.Category), query) {
			matched = append(matched, row)
		}
	}

	return matched
}

// GroupByCategory groups rows into category sections. Categories follow
// SortCategories order; within a category rows sort by product name.
func GroupByCategory(rows []Row) []CategoryGroup {
	byCategory := make(map[string][]Row)
	for _, row := range rows {
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	SortCategories(names)

	cl := newCollator()
	groups := make([]CategoryGroup, 0, len(names))
	for _, name := range names {
		sectionRows := byCategory[name]
		sort.SliceStable(sectionRows, func(i, j int) bool {
			return cl.CompareString(sectionRows[i].Name, sectionRows[j].Name) < 0
		})
		groups = append(groups, CategoryGroup{Category: name, Rows: sectionRows})
	}

	return groups
}

// SortCategories sorts category names alphabetically, case-insensitive
// and locale-aware, keeping the fallback category last.
func SortCategories(names []string) {
	cl := newCollator()
	sort.SliceStable(names, func(i, j int) bool {
		if names[i] == entity.FallbackCatName {
			return false
		}
		if names[j] == entity.FallbackCatName {
			return true
		}

		return cl.CompareString(names[i], names[j]) < 0
	})
}

func newCollator() *collate.Collator {
	return collate.New(language.Russian, collate.IgnoreCase)
}

// Validate checks that the draft can be submitted: at least one row with
// a positive quantity.
func (d *Draft) Validate() error {
	for _, row := range d.Rows {
		if row.Quantity > 0 {
			return nil
		}
	}

	return errors.Wrap(domainerrors.ErrOrderEmpty, "draft has no items to buy")
}

// AddItem appends a row for a product not yet present in the draft.
func (d *Draft) AddItem(info entity.ProductInfo, quantity float64) error {
	if info.ID == uuid.Nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "product must be selected")
	}
	if quantity < 1 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "quantity must be at least one")
	}
	for _, row := range d.Rows {
		if row.ProductID == info.ID {
			return errors.Wrap(domainerrors.ErrOrderItemExists, "product already present in the draft")
		}
	}

	row := rowFromInfo(info)
	row.Quantity = quantity
	d.Rows = append(d.Rows, row)

	return nil
}

// Items converts the draft's positive-quantity rows into order items
// ready for persistence.
func (d *Draft) Items() []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(d.Rows))
	for _, row := range d.Rows {
		if row.Quantity <= 0 {
			continue
		}
		items = append(items, entity.OrderItem{
			ProductID:       row.ProductID,
			Quantity:        row.Quantity,
			BuyOnlyByAction: row.BuyOnlyByAction,
			IsCompleted:     row.IsCompleted,
			Comment:         row.Comment,
		})
	}

	return items
}

// Partition splits an order's rows into pending and completed halves for
// the detail screen, both resolved for display.
func Partition(order *entity.Order, resolved map[uuid.UUID]entity.ProductInfo) (pending, completed []Row) {
	for _, item := range order.Items {
		info, ok := resolved[item.ProductID]
		if !ok {
			info = entity.ProductInfo{
				ID:       item.ProductID,
				Name:     entity.NoNameProduct,
				Category: entity.FallbackCatName,
				Unit:     entity.DefaultUnitName,
				Deleted:  true,
			}
		}

		row := rowFromInfo(info)
		row.Quantity = item.Quantity
		row.BuyOnlyByAction = item.BuyOnlyByAction
		row.IsCompleted = item.IsCompleted
		row.Comment = item.Comment

		if item.IsCompleted {
			completed = append(completed, row)
		} else {
			pending = append(pending, row)
		}
	}

	return pending, completed
}
