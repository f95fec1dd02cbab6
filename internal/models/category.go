package models

// Category groups products.
type Category struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name  string `json:"name" gorm:"not null" bson:"name" validate:"required,max=100"`
	Slug  string `json:"slug" gorm:"index" bson:"slug"`
	Icon  string `json:"icon" bson:"icon"`
	Color string `json:"color" bson:"color" validate:"omitempty,hexcolor"`
}
