package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Only the push token set is mutated by this service.
type User struct {
	CreatedAt  time.Time   `gorm:"column:created_at" json:"-"`
	UpdatedAt  time.Time   `gorm:"column:updated_at" json:"-"`
	ID         string      `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name       string      `gorm:"column:name;size:255" json:"name"`
	Email      string      `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	PushTokens []PushToken `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Tokens returns the raw push token strings
func (u *User) Tokens() []string {
	tokens := make([]string, 0, len(u.PushTokens))
	for _, t := range u.PushTokens {
		tokens = append(tokens, t.Token)
	}
	return tokens
}

// Summary returns the public projection embedded in messages and threads
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the {id, name, email} projection of a user
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PushToken is a device token registered for push delivery
type PushToken struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"column:user_id;size:36;index" json:"user_id"`
	Token     string    `gorm:"column:token;size:512;uniqueIndex" json:"-"`
}

func (PushToken) TableName() string {
	return "push_tokens"
}

func (t *PushToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// PushTokenRequest is the body of the push token register/unregister endpoints
type PushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Session is an opaque login session token
type Session struct {
	ExpiresAt time.Time `gorm:"column:expires_at;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"column:user_id;size:36;index" json:"user_id"`
	Token     string    `gorm:"column:token;size:255;uniqueIndex" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
