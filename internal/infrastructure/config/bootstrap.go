package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// AppName is the canonical application name
const AppName = "agenthub"

// Bootstrap 在 path 写入默认配置文件, 已存在时不覆盖
// 返回是否新建了文件
func Bootstrap(path string, logger *zap.Logger) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		logger.Info("Config file already exists, leaving it untouched", zap.String("path", path))
		return false, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("Default config written", zap.String("path", path))
	return true, nil
}

const defaultConfig = `# agenthub configuration
# Every key can be overridden with an AGENTHUB_* environment variable,
# e.g. AGENTHUB_SERVER_PORT=8080 or AGENTHUB_DATABASE_DSN=/data/agenthub.db

server:
  host: 0.0.0.0
  port: 5000
  mode: release        # debug, release, test
  read_timeout: 30s
  write_timeout: 180s

database:
  type: sqlite         # sqlite, postgres
  dsn: agenthub.db     # postgres: "host=localhost user=agenthub dbname=agenthub sslmode=disable"
  log_level: warn      # silent, error, warn, info

log:
  level: info
  format: json         # json, console
  output: stdout

pagination:
  max_per_page: 100

llm:
  timeout: 120s
  placeholder_api_key: sk-no-key-required
  history_limit: 20
  title_length: 50

cache:
  max_cost: 64
  ttl: 10m

telemetry:
  service_name: agenthub
`
