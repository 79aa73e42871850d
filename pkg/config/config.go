package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Provider ProviderConfig `mapstructure:"provider"`
	Devnode  DevnodeConfig  `mapstructure:"devnode"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

// ProviderConfig 客户端一侧: 连接哪个 Keeper, 轮询节奏
type ProviderConfig struct {
	URL          string        `mapstructure:"url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// DevnodeConfig 开发节点一侧: 伪造账户的网络与初始状态
type DevnodeConfig struct {
	Network     string `mapstructure:"network"`      // mainnet / testnet
	NetworkCode string `mapstructure:"network_code"` // 链字节, 例如 "W" / "T"
	Locked      bool   `mapstructure:"locked"`       // 启动时是否处于锁定态
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error if desired
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			// Config file was found but another error was produced
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("provider.url", "http://localhost:8080")
	viper.SetDefault("provider.timeout", "10s")
	viper.SetDefault("provider.poll_interval", "500ms")

	viper.SetDefault("devnode.network", "testnet")
	viper.SetDefault("devnode.network_code", "T")
	viper.SetDefault("devnode.locked", false)
}
