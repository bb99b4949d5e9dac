// Package models defines the wire-level entities of the confession service
// as seen by the client. JSON tags follow the backend contract; Go field
// names are normalized (the backend's "name" is DisplayName, "avatar" is
// AvatarURL).
package models

import "time"

// Profile is the authenticated user's profile as returned by GET /users/me.
type Profile struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	UserType    string `json:"usertype"`
	AvatarURL   string `json:"avatar,omitempty"`
}

// RegisterInfo is the payload for POST /users/register.
type RegisterInfo struct {
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Password    string `json:"password"`
	UserType    string `json:"usertype"`
}

// ProfileUpdate is a partial patch of the mutable profile fields. Only fields
// that are set are transmitted; unrecognized fields never leave the client.
type ProfileUpdate struct {
	DisplayName *string `json:"name,omitempty"`
	AvatarURL   *string `json:"avatar,omitempty"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (p ProfileUpdate) IsEmpty() bool {
	return p.DisplayName == nil && p.AvatarURL == nil
}

// Notification kinds.
const (
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationLike    = "like"
)

// Related content kinds.
const (
	RelatedConfession = "confession"
	RelatedComment    = "comment"
)

// Actor identifies the user who caused a notification.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RelatedContent points at the confession or comment a notification is about.
type RelatedContent struct {
	Kind    string `json:"type"`
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
}

// Notification is a single entry of the notification feed, most recent first.
type Notification struct {
	ID        string         `json:"id"`
	Kind      string         `json:"type"`
	Actor     Actor          `json:"actor"`
	Related   RelatedContent `json:"related"`
	CreatedAt time.Time      `json:"created_at"`
	IsRead    bool           `json:"is_read"`
}

// Confession is one of the user's own posts.
type Confession struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	PosterName string    `json:"poster_name"`
	Photos     []string  `json:"photos"`
	CreatedAt  time.Time `json:"create_at"`
	UpdatedAt  time.Time `json:"update_at"`
	Views      int       `json:"views"`
	Likes      int       `json:"likes"`
	Liked      bool      `json:"liked"`
}

// ConfessionPage is the paged payload of GET /confessions/my.
type ConfessionPage struct {
	Posts   []Confession `json:"posts"`
	Total   int          `json:"total"`
	Pages   int          `json:"pages"`
	Current int          `json:"current"`
}
