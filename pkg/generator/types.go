package generator

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pglab/traffic-sandbox/pkg/types"
)

type ParamRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// QueryTemplate is one entry of the query pool. Templates flagged with
// ExpectFailure are built to fail against a provisioned sandbox (missing
// relations, revoked grants); their failures are logged at debug level.
type QueryTemplate struct {
	Name          string       `yaml:"name"`
	SQL           string       `yaml:"sql"`
	Simple        bool         `yaml:"simple,omitempty"`
	ExpectFailure bool         `yaml:"expectFailure,omitempty"`
	Params        []ParamRange `yaml:"params,omitempty"`
}

// BatchResult holds the per-batch counts that get logged after each cycle.
type BatchResult struct {
	Executed int `json:"executed"`
	Failed   int `json:"failed"`
}

// Conn is the slice of a database connection the batch executor needs:
// run one statement, drain its rows, and hand the connection back.
type Conn interface {
	RunQuery(ctx context.Context, sql string, simple bool, args ...interface{}) (rowCount int, err error)
	Release()
}

type ConnSource interface {
	Acquire(ctx context.Context) (Conn, error)
}

type Generator struct {
	config types.GeneratorConfig
	pool   []QueryTemplate
	source ConnSource

	rnd *rand.Rand
	mu  sync.Mutex // serializes batches, guards rnd

	active bool
}
