package domain

import "time"

// Broadcast audiences.
const (
	AudienceAll     = "all"
	AudienceTrial   = "trial"
	AudiencePaying  = "paying"
	AudienceBlocked = "blocked"
)

// Broadcast is an announcement pushed to tenant dashboards by the
// platform. The console creates and deletes them through the platform
// API; the platform owns delivery.
type Broadcast struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Audience  string    `json:"audience"`
	CreatedAt time.Time `json:"createdAt"`
}

// BroadcastInput is the creation payload accepted by the console.
type BroadcastInput struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Audience string `json:"audience"`
}
