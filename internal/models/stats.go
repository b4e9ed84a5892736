package models

import "time"

// ContentCounts is the number of stored records per collection.
type ContentCounts struct {
	Users    int `json:"users"`
	Admins   int `json:"admins"`
	Blogs    int `json:"blogs"`
	Contacts int `json:"contacts"`
	Thoughts int `json:"thoughts"`
}

// StatsSnapshot is a point-in-time view of the service.
type StatsSnapshot struct {
	Content        ContentCounts `json:"content"`
	ProcessRSSMB   float64       `json:"processRssMb"`
	HostMemPercent float64       `json:"hostMemPercent"`
	HostLoad1      float64       `json:"hostLoad1"`
	Goroutines     int           `json:"goroutines"`
	CollectedAt    time.Time     `json:"collectedAt"`
}
