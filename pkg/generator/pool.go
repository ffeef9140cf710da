package generator

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultPool returns the built-in query mix used when no pool file is
// configured. It covers the demo schema plus two templates that are expected
// to fail: one hits a table the service role has no grant on, one hits a
// relation that does not exist.
func DefaultPool() []QueryTemplate {
	return []QueryTemplate{
		{
			Name:   "user_by_id",
			SQL:    "SELECT id, name, email FROM users WHERE id = $1",
			Params: []ParamRange{{Min: 1, Max: 100}},
		},
		{
			Name: "orders_for_user",
			SQL: `SELECT o.id, o.status, o.total_cents, o.created_at
				FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC`,
			Params: []ParamRange{{Min: 1, Max: 100}},
		},
		{
			Name: "order_items_detail",
			SQL: `SELECT o.id, p.name, oi.quantity, p.price_cents
				FROM orders o
				JOIN order_items oi ON oi.order_id = o.id
				JOIN products p ON p.id = oi.product_id
				WHERE o.id = $1`,
			Params: []ParamRange{{Min: 1, Max: 200}},
		},
		{
			Name:   "recent_orders",
			SQL:    "SELECT id, user_id, status, total_cents FROM orders ORDER BY created_at DESC LIMIT 20",
			Simple: true,
		},
		{
			Name:   "product_count_by_category",
			SQL:    "SELECT category, count(*) FROM products GROUP BY category",
			Simple: true,
		},
		{
			Name:   "slow_query",
			SQL:    "SELECT pg_sleep(0.5)::text || count(*)::text FROM orders",
			Simple: true,
		},
		{
			Name:          "restricted_table",
			SQL:           "SELECT id, secret FROM restricted_data LIMIT $1",
			Params:        []ParamRange{{Min: 1, Max: 10}},
			ExpectFailure: true,
		},
		{
			Name:          "missing_table",
			SQL:           "SELECT * FROM table_that_does_not_exist",
			Simple:        true,
			ExpectFailure: true,
		},
	}
}

// LoadPoolFromFile reads a yaml list of query templates.
func LoadPoolFromFile(filePath string) ([]QueryTemplate, error) {
	input, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open failed: %w", err)
	}
	defer input.Close()

	pool := []QueryTemplate{}
	if err := yaml.NewDecoder(input).Decode(&pool); err != nil {
		return nil, fmt.Errorf("yaml.Decoder.Decode failed: %w", err)
	}
	if len(pool) < 1 {
		return nil, fmt.Errorf("query pool file %s contains no templates", filePath)
	}
	for _, tmpl := range pool {
		for _, p := range tmpl.Params {
			if p.Max < p.Min {
				return nil, fmt.Errorf("template %s declares an empty parameter range (min %d, max %d)", tmpl.Name, p.Min, p.Max)
			}
		}
	}
	return pool, nil
}

// instantiate draws one fresh argument per declared parameter range.
func instantiate(tmpl QueryTemplate, rnd *rand.Rand) []interface{} {
	if len(tmpl.Params) == 0 {
		return nil
	}
	args := make([]interface{}, len(tmpl.Params))
	for i, p := range tmpl.Params {
		args[i] = p.Min + rnd.Intn(p.Max-p.Min+1)
	}
	return args
}
