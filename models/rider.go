package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rider holds the structure for the riders collection in mongo
type Rider struct {
	ID                primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name              string               `json:"name" bson:"name"`
	PhoneNumber       string               `json:"phoneNumber" bson:"phoneNumber"`
	UniqueKey         string               `json:"uniqueKey" bson:"uniqueKey"`
	Password          string               `json:"-" bson:"password"`
	EmergencyContacts []EmergencyContact   `json:"emergencyContacts" bson:"emergencyContacts"`
	Address           string               `json:"address" bson:"address"`
	Email             string               `json:"email" bson:"email"`
	ProfilePicture    string               `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	Instances         []primitive.ObjectID `json:"instances" bson:"instances"`
	Challans          []primitive.ObjectID `json:"challans" bson:"challans"`
	CreatedAt         time.Time            `json:"createdAt" bson:"createdAt"`
}

// EmergencyContact is someone to notify on behalf of a rider
type EmergencyContact struct {
	Name     string `json:"name" bson:"name"`
	Phone    string `json:"phone" bson:"phone"`
	Relation string `json:"relation" bson:"relation"`
}

// RegisterRequest is the body accepted by the register endpoint
type RegisterRequest struct {
	Name              string             `json:"name"`
	PhoneNumber       string             `json:"phoneNumber"`
	UniqueKey         string             `json:"uniqueKey"`
	Password          string             `json:"password"`
	Address           string             `json:"address"`
	Email             string             `json:"email"`
	ProfilePicture    string             `json:"profilePicture"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
}

// LoginRequest is the body accepted by the login endpoint
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned after a successful register or login
type SessionResponse struct {
	Status string      `json:"status"`
	Token  string      `json:"token"`
	Data   SessionData `json:"data"`
}

// SessionData wraps the rider returned alongside a session token
type SessionData struct {
	User Rider `json:"user"`
}
