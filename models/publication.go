package models

import "time"

// Publication types served by the public repository.
const (
	PublicationTypeJournal = "JOURNAL"
	PublicationTypeArticle = "ARTICLE"
	PublicationTypeBook    = "BOOK"
)

type Publication struct {
	PublicationID int        `gorm:"primaryKey;column:publication_id" json:"publication_id"`
	Title         string     `gorm:"column:title" json:"title"`
	Abstract      string     `gorm:"column:abstract" json:"abstract"`
	Keywords      string     `gorm:"column:keywords" json:"keywords"`
	AuthorName    string     `gorm:"column:author_name" json:"author_name"`
	Type          string     `gorm:"column:type" json:"type"`
	GenreID       *int       `gorm:"column:genre_id" json:"genre_id,omitempty"`
	PublishedAt   *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`

	Genre *Genre `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
}

// Genre is a two-level hierarchy: top-level genres have a nil ParentID.
type Genre struct {
	GenreID  int    `gorm:"primaryKey;column:genre_id" json:"genre_id"`
	Name     string `gorm:"column:name" json:"name"`
	Slug     string `gorm:"column:slug;unique" json:"slug"`
	ParentID *int   `gorm:"column:parent_id" json:"parent_id,omitempty"`

	Parent   *Genre  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Genre `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// WishlistItem joins a user to a publication; the (user, publication,
// selected_type) triple is unique.
type WishlistItem struct {
	WishlistID    int       `gorm:"primaryKey;column:wishlist_id" json:"wishlist_id"`
	UserID        int       `gorm:"column:user_id;uniqueIndex:idx_wishlist_triple" json:"user_id"`
	PublicationID int       `gorm:"column:publication_id;uniqueIndex:idx_wishlist_triple" json:"publication_id"`
	SelectedType  string    `gorm:"column:selected_type;uniqueIndex:idx_wishlist_triple" json:"selected_type"`
	CreateAt      time.Time `gorm:"column:create_at" json:"create_at"`

	Publication *Publication `gorm:"foreignKey:PublicationID" json:"publication,omitempty"`
}

func (Publication) TableName() string {
	return "publications"
}

func (Genre) TableName() string {
	return "genres"
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
