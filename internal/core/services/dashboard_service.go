package services

import (
	"context"
	"time"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates admin statistics straight from the
// database; read-only, so it takes the *gorm.DB rather than repositories.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalUsers  int64 `json:"total_users"`
	TotalAdmins int64 `json:"total_admins"`
	TotalFilms  int64 `json:"total_films"`

	TotalPurchases int64 `json:"total_purchases"`
	TotalRevenue   int64 `json:"total_revenue"`

	PurchasesThisMonth int64 `json:"purchases_this_month"`
	RevenueThisMonth   int64 `json:"revenue_this_month"`

	RecentPurchases []PurchaseSummary `json:"recent_purchases"`
}

// PurchaseSummary represents a recent purchase
type PurchaseSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FilmTitle string    `json:"film_title"`
	Price     uint      `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	db := s.db.WithContext(ctx)

	db.Model(&models.User{}).Count(&data.TotalUsers)
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&data.TotalAdmins)
	db.Model(&models.Film{}).Count(&data.TotalFilms)

	db.Model(&models.Purchase{}).Count(&data.TotalPurchases)
	db.Model(&models.Purchase{}).Select("COALESCE(SUM(price), 0)").Scan(&data.TotalRevenue)

	monthStart := time.Now().AddDate(0, 0, 1-time.Now().Day()).Truncate(24 * time.Hour)
	db.Model(&models.Purchase{}).Where("created_at >= ?", monthStart).Count(&data.PurchasesThisMonth)
	db.Model(&models.Purchase{}).Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(price), 0)").Scan(&data.RevenueThisMonth)

	var recent []*models.Purchase
	if err := db.Preload("User").Preload("Film").
		Order("created_at DESC").Limit(10).Find(&recent).Error; err != nil {
		return nil, err
	}

	data.RecentPurchases = make([]PurchaseSummary, len(recent))
	for i, p := range recent {
		data.RecentPurchases[i] = PurchaseSummary{
			ID:        p.ID,
			Username:  p.User.Username,
			FilmTitle: p.Film.Title,
			Price:     p.Price,
			CreatedAt: p.CreatedAt,
		}
	}

	return data, nil
}
