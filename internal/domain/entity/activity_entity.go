package entity

import "time"

// StudyGroup is the group summary returned by the sync endpoint.
type StudyGroup struct {
	ID   int64
	Name string
}

// UserMessage is a server-generated message shown to the user until purged.
type UserMessage struct {
	ID       int64
	UserID   int64
	Date     time.Time
	Category string
	Content  string
}

// InviteCandidate is a user reachable through a shared active study group.
type InviteCandidate struct {
	DisplayName string
	LoginID     string
}
