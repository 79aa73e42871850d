package main

import (
	"keeper-client/internal/devkeeper"
	"keeper-client/internal/server"

	"keeper-client/pkg/config"
	"keeper-client/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. 构造开发 Keeper (伪造账户, 不持有真实密钥)
	k := devkeeper.New(devkeeper.Options{
		Network:     config.Global.Devnode.Network,
		NetworkCode: config.Global.Devnode.NetworkCode,
		Locked:      config.Global.Devnode.Locked,
	})

	// 3. HTTP Router
	r := server.NewHTTPRouter(k)

	// 4. 启动应用
	app := server.New(server.Config{
		HttpPort: config.Global.App.HttpPort,
	}, r)

	logger.Info("Dev keeper node starting",
		zap.String("network", config.Global.Devnode.Network),
		zap.Bool("locked", config.Global.Devnode.Locked),
	)

	// 运行 (阻塞)
	app.Run()
}
