package security

import (
	"time"

	"github.com/google/uuid"
)

// Risk bands, from a 0-100 behavioral score
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// OverviewQuery holds the bound query parameters of the dashboard endpoints
type OverviewQuery struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// CountBucket pairs a label with a row count
type CountBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// ActivityOverview summarizes the audit trail over a window
type ActivityOverview struct {
	DateFrom   string        `json:"date_from"`
	DateTo     string        `json:"date_to"`
	Total      int64         `json:"total"`
	ByAction   []CountBucket `json:"by_action"`
	ByResource []CountBucket `json:"by_resource"`
	ByDay      []CountBucket `json:"by_day"`
}

// UserRisk scores one user's behavior over the window
type UserRisk struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Total        int64     `json:"total"`
	Deletions    int64     `json:"deletions"`
	FailedLogins int64     `json:"failed_logins"`
	AfterHours   int64     `json:"after_hours"`
	Bursts       int64     `json:"bursts"`
	Score        int       `json:"score"`
	Band         string    `json:"band"`
}

// BurstSignal is one user-hour whose activity crossed the burst threshold
type BurstSignal struct {
	UserID uuid.UUID `json:"user_id"`
	Hour   time.Time `json:"hour"`
	Count  int64     `json:"count"`
}

// FailedLoginSignal is a cluster of failed logins from one username and
// source address
type FailedLoginSignal struct {
	Username  string    `json:"username"`
	IPAddress string    `json:"ip_address"`
	Count     int64     `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// ThreatReport bundles the heuristic signals for the dashboard
type ThreatReport struct {
	DateFrom     string              `json:"date_from"`
	DateTo       string              `json:"date_to"`
	UserRisks    []UserRisk          `json:"user_risks"`
	Bursts       []BurstSignal       `json:"bursts"`
	FailedLogins []FailedLoginSignal `json:"failed_logins"`
}
