package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents the users table. Balance is an integer currency unit
// and only moves through the purchase transaction or an admin top-up.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FirstName string         `gorm:"size:50" json:"first_name"`
	LastName  string         `gorm:"size:50" json:"last_name"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	Balance   uint           `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	Balance   uint      `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
}

// Film represents the films table. VideoKey and CoverImageKey are blob
// store keys, not URLs. Rating is denormalized from reviews and refreshed
// by the nightly cron job.
type Film struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:200;not null;index" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Director      string         `gorm:"size:100" json:"director"`
	ReleaseYear   int            `gorm:"not null" json:"release_year"`
	Genres        []string       `gorm:"serializer:json" json:"genre"`
	Price         uint           `gorm:"not null" json:"price"`
	Duration      int            `gorm:"not null" json:"duration"`
	VideoKey      string         `gorm:"size:64" json:"-"`
	CoverImageKey string         `gorm:"size:64" json:"-"`
	Rating        float64        `gorm:"default:0" json:"rating"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Film) TableName() string {
	return "films"
}

// Purchase records that a user owns a film's protected content.
// The composite unique index is the database-level backstop for the
// one-entitlement-per-(user,film) invariant; rows are never updated.
type Purchase struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_film" json:"user_id"`
	FilmID    uint      `gorm:"not null;uniqueIndex:idx_user_film" json:"film_id"`
	Price     uint      `gorm:"not null" json:"price"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Film      Film      `gorm:"foreignKey:FilmID" json:"-"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// Review represents a user's review of a film, one per (user, film)
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_user_film" json:"user_id"`
	FilmID    uint      `gorm:"not null;uniqueIndex:idx_review_user_film" json:"film_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Film      Film      `gorm:"foreignKey:FilmID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// WishlistItem represents a film saved to a user's wishlist
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_film" json:"user_id"`
	FilmID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_film" json:"film_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Film      Film      `gorm:"foreignKey:FilmID" json:"-"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Film{},
		&Purchase{},
		&Review{},
		&WishlistItem{},
	)
}
