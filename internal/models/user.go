package models

import "time"

// User represents a user of the store.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name         string    `json:"name" gorm:"not null" bson:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" bson:"email"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)" bson:"passwordHash"`
	Phone        string    `json:"phone" bson:"phone"`
	IsAdmin      bool      `json:"isAdmin" bson:"isAdmin"`
	Street       string    `json:"street" bson:"street"`
	Apartment    string    `json:"apartment" bson:"apartment"`
	Zip          string    `json:"zip" bson:"zip"`
	City         string    `json:"city" bson:"city"`
	Country      string    `json:"country" bson:"country"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// UserSummary is the view of a user embedded in order responses.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserRequest is the body used to create, register or update a user.
// Password may be empty on update to keep the current one.
type UserRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}
