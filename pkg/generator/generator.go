package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/coneno/logger"
	"github.com/google/uuid"
	"github.com/pglab/traffic-sandbox/pkg/types"
)

const (
	// delay before the first batch, so a freshly deployed database has a
	// chance to come up
	warmUpDelay = 10 * time.Second

	statementTimeout = 30 * time.Second
)

func NewGenerator(
	config types.GeneratorConfig,
	pool []QueryTemplate,
	source ConnSource,
) *Generator {
	return &Generator{
		config: config,
		pool:   pool,
		source: source,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start launches the background loop. If the generator is disabled it only
// logs that it stays idle.
func (g *Generator) Start() {
	if !g.config.Enabled {
		logger.Info.Println("traffic generator is disabled, staying idle")
		return
	}
	g.active = true
	logger.Info.Printf("traffic generator started: %d queries every %d seconds (pool size %d)",
		g.config.QueriesPerBatch, g.config.Interval, len(g.pool))
	go g.run()
}

// Active reports whether the background loop was started.
func (g *Generator) Active() bool {
	return g.active
}

// run is the loop body; it never returns. The loop has no cancellation on
// purpose: it generates load for the lifetime of the process, and no
// statement or batch failure may stop it.
func (g *Generator) run() {
	time.Sleep(warmUpDelay)
	for {
		result, err := g.RunBatch()
		if err != nil {
			logger.Error.Printf("skipping batch, could not acquire connection: %v", err)
		} else {
			logger.Info.Printf("batch done: %d executed, %d failed", result.Executed, result.Failed)
		}
		time.Sleep(time.Duration(g.config.Interval) * time.Second)
	}
}

// RunBatch executes one full batch: acquire a connection, run exactly
// QueriesPerBatch randomly selected templates on it, release it. The
// returned error is non-nil only when no connection could be acquired;
// statement failures are counted and logged, never propagated.
func (g *Generator) RunBatch() (BatchResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := BatchResult{}
	batchID := uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), statementTimeout)
	conn, err := g.source.Acquire(ctx)
	cancel()
	if err != nil {
		return result, err
	}
	defer conn.Release()

	for i := 0; i < g.config.QueriesPerBatch; i++ {
		tmpl := g.pool[g.rnd.Intn(len(g.pool))]
		args := instantiate(tmpl, g.rnd)

		stmtCtx, stmtCancel := context.WithTimeout(context.Background(), statementTimeout)
		rowCount, err := conn.RunQuery(stmtCtx, tmpl.SQL, tmpl.Simple, args...)
		stmtCancel()

		result.Executed++
		if err != nil {
			result.Failed++
			if tmpl.ExpectFailure {
				logger.Debug.Printf("batch %s: %s failed as expected: %v", batchID, tmpl.Name, err)
			} else {
				logger.Error.Printf("batch %s: %s failed: %v", batchID, tmpl.Name, err)
			}
			continue
		}
		logger.Debug.Printf("batch %s: %s returned %d rows", batchID, tmpl.Name, rowCount)
	}

	return result, nil
}
