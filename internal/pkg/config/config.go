package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Operator OperatorConfig
	Storage  StorageConfig
	Serial   SerialConfig
	Sync     SyncConfig
	Punch    PunchConfig
	Notify   NotifyConfig
}

// OperatorConfig is the single operator credential. The password is
// provided as a bcrypt hash, never in the clear.
type OperatorConfig struct {
	Username     string `env:"OPERATOR_USERNAME, default=admin"`
	PasswordHash string `env:"OPERATOR_PASSWORD_HASH"`
}

type StorageConfig struct {
	// Driver selects the persistence backend: jsonfile or mongo.
	Driver        string `env:"STORAGE_DRIVER, default=jsonfile"`
	EmployeesFile string `env:"EMPLOYEES_FILE, default=funcionarios.json"`
	RecordsFile   string `env:"RECORDS_FILE,   default=registros.json"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ponto_system"`
}

type SerialConfig struct {
	// Port, when set, makes the server connect the reader on startup.
	Port        string        `env:"SERIAL_PORT"`
	BaudRate    int           `env:"SERIAL_BAUD, default=9600"`
	ReadTimeout time.Duration `env:"SERIAL_READ_TIMEOUT, default=1s"`
}

// SyncConfig tunes the connect-time offline batch synchronization.
type SyncConfig struct {
	BootDelay        time.Duration `env:"SYNC_BOOT_DELAY,  default=3s"`
	DrainWindow      time.Duration `env:"SYNC_DRAIN_WINDOW, default=800ms"`
	RetryDrainWindow time.Duration `env:"SYNC_RETRY_DRAIN_WINDOW, default=500ms"`
	RetryDelay       time.Duration `env:"SYNC_RETRY_DELAY, default=1s"`
	DumpTimeout      time.Duration `env:"SYNC_DUMP_TIMEOUT, default=15s"`
}

type PunchConfig struct {
	// MinGap is the per-card debounce window for live punches.
	MinGap time.Duration `env:"PUNCH_MIN_GAP, default=60s"`
}

type NotifyConfig struct {
	Capacity int `env:"NOTIFY_CAPACITY, default=256"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
