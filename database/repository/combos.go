package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomflow/models"
	"roomflow/services/catalog"
)

type comboRow struct {
	ID            string    `gorm:"column:id"`
	Name          string    `gorm:"column:name"`
	DiscountKind  string    `gorm:"column:discount_kind"`
	DiscountValue int64     `gorm:"column:discount_value"`
	ValidFrom     time.Time `gorm:"column:valid_from"`
	ValidTo       time.Time `gorm:"column:valid_to"`
}

func (comboRow) TableName() string { return "combos" }

type comboMemberRow struct {
	ComboID   string `gorm:"column:combo_id"`
	ServiceID string `gorm:"column:service_id"`
}

func (comboMemberRow) TableName() string { return "combo_members" }

type gormComboRepo struct {
	db *gorm.DB
}

// NewGormComboRepo returns a ComboCatalogService backed by the MySQL hotel
// catalog.
func NewGormComboRepo(db *gorm.DB) catalog.ComboCatalogService {
	return &gormComboRepo{db: db}
}

// ListActive loads the combos whose validity window contains now. Combos
// with fewer than two members are skipped; they cannot be bundles.
func (r *gormComboRepo) ListActive(ctx context.Context, now time.Time) ([]models.ComboDefinition, error) {
	var rows []comboRow
	err := r.db.WithContext(ctx).
		Where("valid_from <= ? AND valid_to >= ?", now, now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var memberRows []comboMemberRow
	if err := r.db.WithContext(ctx).Where("combo_id IN ?", ids).Find(&memberRows).Error; err != nil {
		return nil, err
	}
	members := make(map[string][]string, len(rows))
	for _, m := range memberRows {
		members[m.ComboID] = append(members[m.ComboID], m.ServiceID)
	}

	combos := make([]models.ComboDefinition, 0, len(rows))
	for _, row := range rows {
		ms := members[row.ID]
		if len(ms) < 2 {
			continue
		}
		combos = append(combos, models.ComboDefinition{
			ID:               row.ID,
			Name:             row.Name,
			MemberServiceIDs: ms,
			Discount:         normalizeDiscountRule(row.DiscountKind, row.DiscountValue),
			ValidFrom:        row.ValidFrom,
			ValidTo:          row.ValidTo,
		})
	}
	return combos, nil
}
