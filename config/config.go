package config

import "github.com/caarlos0/env/v6"

// Config is built once in main and passed by parameter into every component;
// nothing reads process-wide state after startup.
type Config struct {
	Server struct {
		// HTTP listen port
		Port int `env:"SERVER_PORT" envDefault:"5250"`

		// Path to the SQLite database file
		DatabasePath string `env:"DATABASE_PATH" envDefault:"database/wardwise.db"`
	}

	Ingest struct {
		// Buffer size of the listing queue (in batches)
		QueueSize int `env:"INGEST_QUEUE_SIZE" envDefault:"32"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"INGEST_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for a failed listing upsert
		MaxRetries int `env:"INGEST_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"INGEST_RETRY_DELAY" envDefault:"5"`
	}

	Batch struct {
		// Maximum number of properties admitted to a scoring run, applied
		// before segment statistics are computed. 0 = unlimited.
		PropertyLimit int `env:"SCORING_PROPERTY_LIMIT" envDefault:"0"`
	}

	Scoring struct {
		// Earthquake score formula: "age" (building age bands) or "year"
		// (construction year against the 1981/2000 code revisions)
		EarthquakeFormula string `env:"EARTHQUAKE_FORMULA" envDefault:"age"`
	}

	Insight struct {
		// Qualitative analysis endpoint; empty disables the collaborator
		Endpoint string `env:"INSIGHT_ENDPOINT"`

		// Request timeout in seconds
		TimeoutSeconds int `env:"INSIGHT_TIMEOUT" envDefault:"20"`
	}

	Schedule struct {
		// Cron expression for periodic scoring runs; empty disables
		ScoringCron string `env:"SCORING_CRON" envDefault:"0 3 * * *"`

		// Cron expression for periodic snapshot generation; empty disables
		SnapshotCron string `env:"SNAPSHOT_CRON" envDefault:"30 3 * * *"`
	}

	Geo struct {
		// GeoJSON file with ward boundary polygons; empty disables
		// coordinate-based ward resolution at ingest time
		WardGeoJSONPath string `env:"WARD_GEOJSON_PATH"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
