package main

import (
	"flag"
	stdlog "log"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/serp_intel/pkg/config"
	"github.com/iWorld-y/serp_intel/pkg/server"
	"github.com/iWorld-y/serp_intel/pkg/storage"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "serp-intel-display"
	// Version 是服务的版本号
	Version string

	id, _ = os.Hostname()
)

func main() {
	var confPath string
	flag.StringVar(&confPath, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.Parse()

	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		stdlog.Fatalf("无法加载配置文件: %v", err)
	}
	if cfg.DB.Host == "" {
		stdlog.Fatal("配置错误: 展示服务需要数据库配置 (db)")
	}

	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		stdlog.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()

	httpSrv := server.NewHTTPServer(cfg.Server, store, logger)

	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(logger),
		kratos.Server(httpSrv),
	)

	if err := app.Run(); err != nil {
		stdlog.Fatalf("服务退出: %v", err)
	}
}
