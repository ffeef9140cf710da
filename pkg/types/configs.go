package types

type DBConfig struct {
	Host        string
	Port        string
	Database    string
	User        string
	Password    string
	Timeout     int
	MaxPoolSize int32
}

type GeneratorConfig struct {
	Enabled         bool
	Interval        int // seconds between two batches
	QueriesPerBatch int
}
