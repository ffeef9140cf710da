package db

import (
	"context"
	"fmt"
	"time"

	"github.com/coneno/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pglab/traffic-sandbox/pkg/types"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

type TrafficSandboxDBService struct {
	Pool    *pgxpool.Pool
	timeout int
}

func NewTrafficSandboxDBService(configs types.DBConfig) *TrafficSandboxDBService {
	dsn := fmt.Sprintf(`postgres://%s:%s@%s:%s/%s`,
		configs.User,
		configs.Password,
		configs.Host,
		configs.Port,
		configs.Database,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error.Fatal(err)
	}
	poolConfig.MaxConns = configs.MaxPoolSize

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error.Fatal(err)
	}

	// The database may still be starting up; the traffic generator and the
	// on-demand endpoints acquire connections lazily, so an unreachable
	// database at boot is logged but not fatal.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error.Printf("database not reachable yet: %v", err)
	}

	dbService := &TrafficSandboxDBService{
		Pool:    pool,
		timeout: configs.Timeout,
	}
	return dbService
}

// DB utils
func (dbService *TrafficSandboxDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}
