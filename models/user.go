package models

import "time"

// User is the slice of the identity record the scheduling core needs.
// Account management itself lives outside this service.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	IsAdmin   bool      `bson:"isAdmin" json:"isAdmin"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	IsDeleted bool      `bson:"isDeleted" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
