package domain

import (
	"net/url"
	"time"
)

// AvatarURL returns the generated avatar image for a seed.
func AvatarURL(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(seed)
}

// UserProfile is how the user appears as a review author.
type UserProfile struct {
	ID     string `json:"id" example:"user123"`
	Name   string `json:"name" example:"Movie Fan"`
	Avatar string `json:"avatar"`
}

// DefaultProfile is created the first time a user needs a profile.
func DefaultProfile(userID string) UserProfile {
	return UserProfile{ID: userID, Name: "Movie Fan", Avatar: AvatarURL(userID)}
}

// FriendStatusActive is the only status a friend currently takes.
const FriendStatusActive = "active"

// Friend is an entry in the user's friend list.
type Friend struct {
	ID      string    `json:"id" example:"f-1"`
	Name    string    `json:"name" example:"Alex"`
	Avatar  string    `json:"avatar"`
	Status  string    `json:"status" example:"active"`
	AddedAt time.Time `json:"addedAt"`
}

// SharedList is a watchlist snapshot shared with friends.
type SharedList struct {
	ID         string           `json:"id"`
	Watchlist  []WatchlistEntry `json:"watchlist"`
	SharedWith []string         `json:"sharedWith"`
	Message    string           `json:"message"`
	SharedAt   time.Time        `json:"sharedAt"`
	Views      int              `json:"views"`
}

// Activity types written by the service itself.
const (
	ActivityShare = "share"
)

// Activity is a feed entry.
type Activity struct {
	Type      string    `json:"type" example:"share"`
	Content   string    `json:"content" example:"Shared a watchlist with 2 friends"`
	Timestamp time.Time `json:"timestamp"`
}

// FriendActivity is a preview row of what a friend has been doing.
type FriendActivity struct {
	FriendID     string    `json:"friendId"`
	FriendName   string    `json:"friendName"`
	FriendAvatar string    `json:"friendAvatar"`
	Action       string    `json:"action"`
	MovieTitle   string    `json:"movieTitle"`
	Timestamp    time.Time `json:"timestamp"`
}
