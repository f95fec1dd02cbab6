package models

import "time"

// Product represents a product in the store.
type Product struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id" validate:"omitempty,uuid"`
	Name            string    `json:"name" form:"name" bson:"name" validate:"required,min=2,max=100"`
	Description     string    `json:"description" form:"description" bson:"description" validate:"required,max=500"`
	RichDescription string    `json:"richDescription" form:"richDescription" bson:"richDescription"`
	Image           string    `json:"image" bson:"image"`
	Images          []string  `json:"images" gorm:"serializer:json" bson:"images"`
	Brand           string    `json:"brand" form:"brand" bson:"brand"`
	Price           float64   `json:"price" form:"price" bson:"price" validate:"gte=0"`
	CategoryID      string    `json:"categoryId" form:"category" gorm:"type:varchar(36);index" bson:"category" validate:"required"`
	Category        *Category `json:"category,omitempty" gorm:"-" bson:"-"`
	CountInStock    int       `json:"countInStock" form:"countInStock" bson:"countInStock" validate:"gte=0,lte=255"`
	Rating          float64   `json:"rating" form:"rating" bson:"rating" validate:"gte=0"`
	NumReviews      int       `json:"numReviews" form:"numReviews" bson:"numReviews" validate:"gte=0"`
	IsFeatured      bool      `json:"isFeatured" form:"isFeatured" bson:"isFeatured"`
	DateCreated     time.Time `json:"dateCreated" bson:"dateCreated"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryIDs []string
}
