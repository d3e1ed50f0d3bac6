// Package domain defines the persistence models for users and journal
// messages. These types are mapped with GORM and form the core data layer of
// the mood journaling application.
package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/moodtunes/go-mood-backend/internal/emotion"
)

// User represents a registered account. Authentication is email/password;
// only the bcrypt hash is stored and it is never serialized.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name shown in the client.
//   - Email: login identifier, unique across live rows.
//   - PasswordHash: bcrypt hash of the password; excluded from JSON.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID           string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name"       gorm:"type:varchar(100);not null"`
	Email        string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string         `json:"-"          gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Message represents one journal entry. The emotion analysis computed at
// creation time is stored alongside the text as a JSON column so a read never
// needs to re-run the engine.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: identifier of the author; indexed together with CreatedAt for
//     efficient reverse-chronological listing.
//   - Text: the journal text as written.
//   - Languages: languages the author reported writing in.
//   - Analysis: the engine output at the last (re)analysis, nil if the text
//     has never been analyzed.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Message struct {
	ID        string            `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string            `json:"user_id"   gorm:"type:char(36);not null;index:idx_user_msgs,priority:1"`
	Text      string            `json:"text"      gorm:"type:text;not null"`
	Languages []string          `json:"languages" gorm:"serializer:json"`
	Analysis  *emotion.Analysis `json:"analysis,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time         `json:"created_at" gorm:"index:idx_user_msgs,priority:2"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }
