package app

// StorageDriver — тип хранилища данных сервиса.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr      string
	MetricsAddr   string
	StorageDriver StorageDriver
	PostgresDSN   string
	KafkaBrokers  string
}

// DefaultConfig возвращает базовые адреса и in-memory хранилище.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9090",
		StorageDriver: StorageDriverMemory,
	}
}
