package health

import "context"

type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

type HealthStatus struct {
	Status string `json:"status"`
}

type StaticHealthChecker struct{}

func NewStaticHealthChecker() *StaticHealthChecker {
	return &StaticHealthChecker{}
}

// Check performs a health check
func (sh *StaticHealthChecker) Check(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status: "healthy",
	}
}
