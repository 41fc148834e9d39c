package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryFootball   Category = "Football"
	CategoryBasketball Category = "Basketball"
	CategoryNFL        Category = "NFL"
	CategoryTennis     Category = "Tennis"
	CategoryCycling    Category = "Cycling"
	CategoryOther      Category = "Other"
)

const DefaultCategory = CategoryFootball

// Article data model. Paragraphs are derived from Content on every write
// and never accepted from clients.
type Article struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"not null" json:"title" validate:"required"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug" validate:"required"`
	Image       string    `json:"image"`
	Content     string    `gorm:"type:text" json:"content"`
	Paragraphs  []string  `gorm:"serializer:json" json:"paragraphs"`
	Category    Category  `gorm:"size:32;index" json:"category" validate:"oneof=Football Basketball NFL Tennis Cycling Other"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	AuthorID    string    `gorm:"type:varchar(36);not null;index" json:"-" validate:"required"`
	Author      *Admin    `gorm:"foreignKey:AuthorID" json:"-"`
	IsTrending  bool      `gorm:"column:istrending;index" json:"istrending"`
	IsRecent    bool      `gorm:"column:is_recent;index" json:"isRecent"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}

// MonthlyCount is one row of the article-per-month stats.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}
