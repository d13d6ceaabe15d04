// Package influx reports run summaries to InfluxDB when enabled in the
// configuration. Generation never depends on it; a failed connection only
// costs the metrics.
package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/partseed/partseed/pkg/core"
)

// Manager handles the InfluxDB connection and writes.
type Manager struct {
	Client  influxdb2.Client
	IsValid bool
	Logger  zerolog.Logger
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// Connect establishes a connection to InfluxDB per the influx.* config.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClient(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
	)

	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Msg("InfluxDB unreachable, run metrics will be skipped")
		return fmt.Errorf("influxdb ping failed: %w", err)
	}

	m.IsValid = true
	m.Logger.Info().Msg("InfluxDB client initialized")
	return nil
}

// WriteRunSummary records one generation run.
func (m *Manager) WriteRunSummary(ctx context.Context, sum *core.RunSummary) error {
	if !m.IsValid {
		return errors.New("influxdb client not connected")
	}

	writeAPI := m.Client.WriteAPIBlocking(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	point := influxdb2.NewPoint(
		"partseed_run",
		map[string]string{},
		map[string]interface{}{
			"seed":             int64(sum.Seed),
			"sources":          sum.Sources,
			"particles":        sum.Particles,
			"candidates_drawn": int64(sum.CandidatesDrawn),
			"candidates_kept":  int64(sum.CandidatesKept),
			"acceptance_rate":  sum.AcceptanceRate(),
			"elapsed_ms":       sum.Elapsed.Milliseconds(),
		},
		time.Now(),
	)
	if err := writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (m *Manager) Close() {
	if m.Client != nil {
		m.Client.Close()
	}
}
