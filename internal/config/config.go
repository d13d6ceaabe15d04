// Package config loads the generator configuration from a JSON file via
// viper and decodes it into typed structures consumed by the engine and
// the output encoders.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full run configuration.
type Config struct {
	LogLevel string  `json:"logLevel" mapstructure:"logLevel"`
	LogsDir  string  `json:"logsDir" mapstructure:"logsDir"`
	Seed     uint64  `json:"seed" mapstructure:"seed"`
	Horizon  float64 `json:"horizon" mapstructure:"horizon"`
	Parallel bool    `json:"parallel" mapstructure:"parallel"`

	Output  OutputConfig   `json:"output" mapstructure:"output"`
	Sources []SourceConfig `json:"sources" mapstructure:"sources"`
}

// OutputConfig selects and parameterizes the output encoder.
type OutputConfig struct {
	Type     string `json:"type" mapstructure:"type"` // dat | csv | vtk | database
	Path     string `json:"path" mapstructure:"path"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// ShapeConfig describes a source cross-section.
type ShapeConfig struct {
	Type   string      `json:"type" mapstructure:"type"` // plane | disk | polygon
	Width  float64     `json:"width" mapstructure:"width"`
	Height float64     `json:"height" mapstructure:"height"`
	Radius float64     `json:"radius" mapstructure:"radius"`
	Ring   [][]float64 `json:"ring" mapstructure:"ring"`
}

// TransformConfig places a source in world space. Exactly one rotation form
// may be given: an explicit 3x3 matrix, Euler angles in degrees (roll,
// pitch, yaw), or an axis-angle pair. An empty rotation means identity.
type TransformConfig struct {
	Matrix      [][]float64 `json:"matrix" mapstructure:"matrix"`
	EulerDeg    []float64   `json:"eulerDeg" mapstructure:"eulerDeg"`
	Axis        []float64   `json:"axis" mapstructure:"axis"`
	AngleDeg    float64     `json:"angleDeg" mapstructure:"angleDeg"`
	Translation []float64   `json:"translation" mapstructure:"translation"`
}

// AnchorConfig georeferences a source: the anchor lon/lat is projected to
// EPSG:3857 meters and added to the source translation. Intended for
// outdoor dispersion configurations.
type AnchorConfig struct {
	Lon float64 `json:"lon" mapstructure:"lon"`
	Lat float64 `json:"lat" mapstructure:"lat"`
}

// PolicyConfig describes a scalar property policy.
type PolicyConfig struct {
	Type  string  `json:"type" mapstructure:"type"` // fixed | uniform | normal | lognormal
	Value float64 `json:"value" mapstructure:"value"`
	Min   float64 `json:"min" mapstructure:"min"`
	Max   float64 `json:"max" mapstructure:"max"`
	Mean  float64 `json:"mean" mapstructure:"mean"`
	Sigma float64 `json:"sigma" mapstructure:"sigma"`
}

// VelocityConfig gives the per-component initial velocity policies.
type VelocityConfig struct {
	U PolicyConfig `json:"u" mapstructure:"u"`
	V PolicyConfig `json:"v" mapstructure:"v"`
	W PolicyConfig `json:"w" mapstructure:"w"`
}

// ReleaseConfig describes a source's temporal release pattern. Period 0 is
// a single pulse at Start. End 0 with a positive period means the pattern
// runs until the engine horizon.
type ReleaseConfig struct {
	Start    float64       `json:"start" mapstructure:"start"`
	End      float64       `json:"end" mapstructure:"end"`
	Period   float64       `json:"period" mapstructure:"period"`
	Count    int           `json:"count" mapstructure:"count"`
	Rate     *PolicyConfig `json:"rate" mapstructure:"rate"`
	Cycle    float64       `json:"cycle" mapstructure:"cycle"`
	Window   float64       `json:"window" mapstructure:"window"`
	Jitter   float64       `json:"jitter" mapstructure:"jitter"`
	Truncate bool          `json:"truncate" mapstructure:"truncate"`
}

// SourceConfig is one particle source.
type SourceConfig struct {
	ID          string          `json:"id" mapstructure:"id"`
	Shape       ShapeConfig     `json:"shape" mapstructure:"shape"`
	Transform   TransformConfig `json:"transform" mapstructure:"transform"`
	Anchor      *AnchorConfig   `json:"anchor" mapstructure:"anchor"`
	Release     ReleaseConfig   `json:"release" mapstructure:"release"`
	Velocity    VelocityConfig  `json:"velocity" mapstructure:"velocity"`
	Diameter    PolicyConfig    `json:"diameter" mapstructure:"diameter"`
	Density     PolicyConfig    `json:"density" mapstructure:"density"`
	MaxAttempts int             `json:"maxAttempts" mapstructure:"maxAttempts"`
}

// ConfigFileName is the name viper looks for inside the config directory.
const ConfigFileName = "partseed.cfg.json"

// Load reads configuration from the JSON file in configDir, applies
// defaults, and decodes the result.
func Load(configDir string) (*Config, error) {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("seed", 1)
	viper.SetDefault("horizon", 0.0)
	viper.SetDefault("parallel", false)

	viper.SetDefault("output.type", "dat")
	viper.SetDefault("output.path", "ParticleInitial.dat")
	viper.SetDefault("output.compress", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "partseed")
	viper.SetDefault("db.sqlitePath", "partseed.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "partseed-metrics")
	viper.SetDefault("influx.bucket", "partseed_runs")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
