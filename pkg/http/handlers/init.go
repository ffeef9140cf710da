package handlers

import (
	"time"

	"github.com/pglab/traffic-sandbox/pkg/generator"
	"github.com/pglab/traffic-sandbox/pkg/types"
)

// QueryDBService lists the fixed statements the on-demand endpoints run.
// Implemented by db.TrafficSandboxDBService.
type QueryDBService interface {
	FetchAllUsers() ([]types.User, error)
	FindUserByID(id int64) (types.User, error)
	FetchOrdersForUser(userID int64) ([]types.Order, error)
	FetchAllProducts() ([]types.Product, error)
	FetchRecentOrders(limit int) ([]types.Order, error)
	LockOrderByID(id int64) (types.Order, error)
	RunSlowQuery() (time.Duration, error)
	FetchRestrictedRecords() ([]types.RestrictedRecord, error)
}

// TrafficRunner is the part of the traffic generator the HTTP layer uses:
// triggering one batch on demand and reporting liveness for health checks.
type TrafficRunner interface {
	RunBatch() (generator.BatchResult, error)
	Active() bool
}

type HttpEndpoints struct {
	dbService QueryDBService
	traffic   TrafficRunner
}

func NewHTTPHandler(
	dbService QueryDBService,
	traffic TrafficRunner,
) *HttpEndpoints {
	return &HttpEndpoints{
		dbService: dbService,
		traffic:   traffic,
	}
}
