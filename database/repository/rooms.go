package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomflow/models"
	"roomflow/services/catalog"
	"roomflow/services/pricing"
)

// roomRow is the raw catalog row shape; it never leaves this package.
type roomRow struct {
	ID            string `gorm:"column:id"`
	TypeName      string `gorm:"column:type_name"`
	PricePerNight int64  `gorm:"column:price_per_night"`
	MaxOccupancy  int    `gorm:"column:max_occupancy"`
	Status        string `gorm:"column:status"`
}

func (roomRow) TableName() string { return "rooms" }

type gormRoomRepo struct {
	db *gorm.DB
}

// NewGormRoomRepo returns a RoomAvailabilityService backed by the MySQL
// hotel catalog.
func NewGormRoomRepo(db *gorm.DB) catalog.RoomAvailabilityService {
	return &gormRoomRepo{db: db}
}

// Search lists sellable rooms for the date range, excluding rooms the PMS
// already has booked over an overlapping range, and folds each room's best
// current promotion into DiscountedPrice.
func (r *gormRoomRepo) Search(ctx context.Context, checkIn, checkOut time.Time, guests int) ([]models.RoomOffer, error) {
	var rows []roomRow
	err := r.db.WithContext(ctx).
		Where("status = ?", "available").
		Where("max_occupancy >= ?", guests).
		Where(`id NOT IN (
			SELECT room_id FROM room_bookings
			WHERE check_in < ? AND check_out > ? AND status <> 'cancelled'
		)`, checkOut, checkIn).
		Order("price_per_night ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	offers := make([]models.RoomOffer, 0, len(rows))
	for _, row := range rows {
		offer := models.RoomOffer{
			ID:                row.ID,
			TypeName:          row.TypeName,
			BasePricePerNight: models.Money(row.PricePerNight),
			MaxOccupancy:      row.MaxOccupancy,
		}

		promos, err := r.promotionsForRoom(ctx, row.ID, now)
		if err != nil {
			return nil, err
		}
		if best := pricing.BestPromotion(offer.BasePricePerNight, promos); best != nil {
			discounted := pricing.ApplyDiscount(offer.BasePricePerNight, &best.Discount).Discounted
			offer.DiscountedPrice = &discounted
			offer.PromotionRef = best.ID
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func (r *gormRoomRepo) promotionsForRoom(ctx context.Context, roomID string, now time.Time) ([]models.PromotionRule, error) {
	rows, err := loadPromotions(ctx, r.db, "room", roomID)
	if err != nil {
		return nil, err
	}
	active := rows[:0]
	for _, p := range rows {
		if p.ActiveAt(now) {
			active = append(active, p)
		}
	}
	return active, nil
}
