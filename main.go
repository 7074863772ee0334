package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ghraw-proxy/ghraw-proxy/internal/config"
	"github.com/ghraw-proxy/ghraw-proxy/internal/logging"
	"github.com/ghraw-proxy/ghraw-proxy/internal/proxy"
	"github.com/ghraw-proxy/ghraw-proxy/internal/server"
	"github.com/ghraw-proxy/ghraw-proxy/internal/server/routes"
	"github.com/ghraw-proxy/ghraw-proxy/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("check_config", opts.configPath)
	fields["mode"] = cfg.ModeKey()
	fields["source_repos"] = len(cfg.Source.SourceRepos)
	fields["source_repo"] = cfg.Source.SourceRepo
	fields["configured"] = cfg.Configured()
	if !cfg.Configured() {
		// 允许启动：每个请求都会得到 500 "not configured"，与未配置时的线上行为一致。
		logger.WithFields(fields).Warn("未配置任何源仓库")
	}
	if bad := cfg.MalformedSourceRepos(); len(bad) > 0 {
		logger.WithFields(fields).WithField("malformed_repos", bad).Warn("SourceRepos 中存在非法 URL，这些条目不会匹配任何请求")
	}

	if opts.checkOnly {
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动顺序：配置 → 上游 client → 代理处理器 → Fiber server。
	httpClient := server.NewUpstreamClient(cfg)
	handler, err := proxy.NewHandler(httpClient, logger, cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "构建代理处理器失败: %v\n", err)
		return 1
	}
	forwarder := proxy.NewForwarder(handler, logger)

	fields["action"] = "startup"
	fields["listen_port"] = cfg.Global.ListenPort
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, forwarder, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
// 路径为空时只读取环境变量（SOURCE_REPOS / SOURCE_REPO / GHRAW_*）。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("ghraw-proxy", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（可选，可被 GHRAW_CONFIG 指定）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("GHRAW_CONFIG")
	if configFlag != "" {
		path = configFlag
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, proxyHandler server.ProxyHandler, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Proxy:      proxyHandler,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterDiagnosticRoutes(app, routes.Status{
		ActiveMode:    cfg.ModeKey(),
		Configured:    cfg.Configured(),
		AllowlistSize: len(cfg.Source.SourceRepos),
	})

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
		"mode":   cfg.ModeKey(),
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
