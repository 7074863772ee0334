package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ghraw-proxy/ghraw-proxy/internal/config"
)

// InitLogger 根据全局配置初始化 JSON 结构化日志。
// 日志目录不可用时退回 stdout，并在新 logger 上记录一次 logger_fallback。
func InitLogger(cfg config.GlobalConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("无法解析日志级别: %w", err)
	}

	output, sink, outErr := buildOutput(cfg)
	logger := newJSONLogger(level, output)

	// 第三方库通过 logrus 标准 logger 打印的日志保持同样的格式与去向。
	logrus.SetFormatter(logger.Formatter)
	logrus.SetOutput(logger.Out)
	logrus.SetLevel(logger.GetLevel())

	if outErr != nil {
		fmt.Fprintf(os.Stderr, "logger_fallback: %v\n", outErr)
		logger.WithFields(logrus.Fields{
			"action": "logger_fallback",
			"path":   cfg.LogFilePath,
		}).Warn(outErr.Error())
	}
	logger.WithFields(logrus.Fields{
		"action": "logger_init",
		"sink":   sink,
		"level":  level.String(),
	}).Debug("日志初始化完成")

	return logger, nil
}

func newJSONLogger(level logrus.Level, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	return logger
}

// buildOutput 返回日志 Writer 以及用于诊断的 sink 名称；失败时降级到 stdout。
func buildOutput(cfg config.GlobalConfig) (io.Writer, string, error) {
	if cfg.LogFilePath == "" {
		return os.Stdout, "stdout", nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
		return os.Stdout, "stdout", fmt.Errorf("创建日志目录失败: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	}, cfg.LogFilePath, nil
}
