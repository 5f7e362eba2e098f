package dto

import "time"

// SystemMetrics is a lightweight snapshot served next to the health check.
type SystemMetrics struct {
	Backend                  string    `json:"backend"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	StoreOperations          uint64    `json:"storeOperations"`
	StoreErrors              uint64    `json:"storeErrors"`
	AverageStoreOperationMs  float64   `json:"averageStoreOperationMs"`
	DeadlineScans            uint64    `json:"deadlineScans"`
	NotificationsSent        uint64    `json:"notificationsSent"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
