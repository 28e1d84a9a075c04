package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// Config 服务端配置，来自 .env 与 APP_* 环境变量
type Config struct {
	// Port 监听地址，如 ":4000"
	Port string
	// Dev 开发模式直接监听，不做热更新
	Dev bool
	// SystemKey 系统接口密钥
	SystemKey string
	LogLevel  zerolog.Level
	LogFile   string
	// RateLimitMax 每个窗口内单 IP 的 HTTP 请求上限
	RateLimitMax    int
	RateLimitWindow time.Duration
	// SendBuffer 每个实时连接的待发送队列长度
	SendBuffer   int
	AllowOrigins string
}

func Default() Config {
	return Config{
		Port:            ":4000",
		LogLevel:        zerolog.DebugLevel,
		LogFile:         "app.log",
		RateLimitMax:    20,
		RateLimitWindow: time.Minute,
		SendBuffer:      64,
		AllowOrigins:    "*",
	}
}

// Load 读取 files 指定的 .env（缺省为 .env，不存在时忽略）后解析环境变量
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	return FromEnv(os.Getenv)
}

// FromEnv 用 getenv 取值并解析配置，未设置的项使用默认值
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if port := getenv("APP_PORT"); port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		cfg.Port = port
	}
	if mode := getenv("APP_BUILD_MODE"); mode != "" {
		cfg.Dev = mode == "dev"
	}
	cfg.SystemKey = getenv("APP_SYSTEM_KEY")

	if v := getenv("APP_LOG_LEVEL"); v != "" {
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return Config{}, errors.Wrapf(err, "invalid APP_LOG_LEVEL %q", v)
		}
		cfg.LogLevel = level
	}
	if v := getenv("APP_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := getenv("APP_RATE_LIMIT_MAX"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n <= 0 {
			return Config{}, errors.Errorf("invalid APP_RATE_LIMIT_MAX %q", v)
		}
		cfg.RateLimitMax = n
	}
	if v := getenv("APP_RATE_LIMIT_WINDOW"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil || d <= 0 {
			return Config{}, errors.Errorf("invalid APP_RATE_LIMIT_WINDOW %q", v)
		}
		cfg.RateLimitWindow = d
	}
	if v := getenv("APP_SEND_BUFFER"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n <= 0 {
			return Config{}, errors.Errorf("invalid APP_SEND_BUFFER %q", v)
		}
		cfg.SendBuffer = n
	}
	if v := getenv("APP_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	return cfg, nil
}
