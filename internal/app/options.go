package app

import (
	"os"
	"strings"
	"time"

	"github.com/mall-next/internal/config"
	"github.com/mall-next/internal/logger"

	"go.uber.org/zap"
)

// 运行模式：api 只跑 HTTP，worker 只跑队列消费，all 两者同进程
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Mode            string
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
}

// normalizeOptions 补齐默认参数，未知模式回退为 all
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	switch strings.TrimSpace(opts.Mode) {
	case ModeAPI, ModeWorker:
		opts.Mode = strings.TrimSpace(opts.Mode)
	default:
		opts.Mode = ModeAll
	}
	return opts
}
