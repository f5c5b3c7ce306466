package models

// DashboardSummary is the counting view served to the admin and officer dashboards
type DashboardSummary struct {
	ActiveDrivers       int64              `json:"activeDrivers"`
	TotalDocuments      int64              `json:"totalDocuments"`
	ValidDocuments      int64              `json:"validDocuments"`
	ExpiredDocuments    int64              `json:"expiredDocuments"`
	TotalVerifications  int64              `json:"totalVerifications"`
	VerificationsToday  int64              `json:"verificationsToday"`
	RecentVerifications []*VerificationLog `json:"recentVerifications"`
}
