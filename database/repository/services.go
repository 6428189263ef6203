package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomflow/models"
	"roomflow/services/catalog"
)

type serviceRow struct {
	ID         string `gorm:"column:id"`
	Name       string `gorm:"column:name"`
	UnitPrice  int64  `gorm:"column:unit_price"`
	ActiveFrom string `gorm:"column:active_from"`
	ActiveTo   string `gorm:"column:active_to"`
	Status     string `gorm:"column:status"`
}

func (serviceRow) TableName() string { return "services" }

// promotionRow carries the legacy discount columns; the kind tag is
// normalized before the row becomes a PromotionRule.
type promotionRow struct {
	ID            string    `gorm:"column:id"`
	TargetType    string    `gorm:"column:target_type"`
	TargetID      string    `gorm:"column:target_id"`
	DiscountKind  string    `gorm:"column:discount_kind"`
	DiscountValue int64     `gorm:"column:discount_value"`
	StartsAt      time.Time `gorm:"column:starts_at"`
	EndsAt        time.Time `gorm:"column:ends_at"`
}

func (promotionRow) TableName() string { return "promotions" }

// loadPromotions fetches the promotion rows for one target and normalizes
// them into canonical rules.
func loadPromotions(ctx context.Context, db *gorm.DB, targetType, targetID string) ([]models.PromotionRule, error) {
	var rows []promotionRow
	err := db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	rules := make([]models.PromotionRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, models.PromotionRule{
			ID:       row.ID,
			Discount: normalizeDiscountRule(row.DiscountKind, row.DiscountValue),
			StartsAt: row.StartsAt,
			EndsAt:   row.EndsAt,
		})
	}
	return rules, nil
}

type gormServiceRepo struct {
	db *gorm.DB
}

// NewGormServiceRepo returns a ServiceCatalogService backed by the MySQL
// hotel catalog.
func NewGormServiceRepo(db *gorm.DB) catalog.ServiceCatalogService {
	return &gormServiceRepo{db: db}
}

func (r *gormServiceRepo) ListActive(ctx context.Context) ([]models.ServiceCatalogItem, error) {
	var rows []serviceRow
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ServiceStatusActive).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.ServiceCatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.ServiceCatalogItem{
			ID:         row.ID,
			Name:       row.Name,
			UnitPrice:  models.Money(row.UnitPrice),
			ActiveFrom: row.ActiveFrom,
			ActiveTo:   row.ActiveTo,
			Status:     row.Status,
		})
	}
	return items, nil
}

func (r *gormServiceRepo) PromotionsFor(ctx context.Context, serviceID string) ([]models.PromotionRule, error) {
	return loadPromotions(ctx, r.db, "service", serviceID)
}
