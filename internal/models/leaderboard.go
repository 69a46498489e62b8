package models

// LeaderboardEntry is one row of the clout ranking. Not persisted.
type LeaderboardEntry struct {
	Username string           `json:"username"`
	Points   int              `json:"points"`
	Stats    LeaderboardStats `json:"stats"`
}

// LeaderboardStats breaks down where an entry's points came from.
type LeaderboardStats struct {
	Followers int `json:"followers"`
	Posts     int `json:"posts"`
	Likes     int `json:"likes"`
	Comments  int `json:"comments"`
}
