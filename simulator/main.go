package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/konoui/mjimage-sub000/common/config"
	"github.com/konoui/mjimage-sub000/common/log"
	"github.com/konoui/mjimage-sub000/simulator/app"
	"github.com/spf13/cobra"
)

// 加载配置 -> 初始化日志 -> 运行对局或回放牌谱

var (
	configFile string
	logLevel   string
	seed       int64
	games      int
	outDir     string
	syncMode   bool
	replayFile string

	conf *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "simulator 立直麻将对局模拟与牌谱回放",
	Long:  `simulator 用四个牌效 AI 跑完整对局，或按牌谱重放一局并校验结果`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if cmd.Flags().Changed("logLevel") {
			level = logLevel
		}
		log.InitLog(cfg.AppName, level)
		conf = cfg
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "运行对局",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *conf
		if outDir != "" {
			cfg.History.Dir = outDir
		}
		log.Info("配置文件: %+v", cfg)
		ctx, stop := signalContext()
		defer stop()
		return app.Simulate(ctx, &cfg, app.SimulateOptions{Seed: seed, Games: games, Sync: syncMode})
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "回放一局牌谱并校验结果",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return app.Replay(ctx, replayFile, cmd.OutOrStdout())
	},
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Load("")
	}
	// 配置文件变化时只刷新日志级别，规则在对局开始时固定
	return config.Watch(configFile, func(c *config.Config) {
		log.SetLevel(c.Log.Level)
		log.Info("配置已更新，日志级别 %s", c.Log.Level)
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")

	simulateCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "shuffle seed")
	simulateCmd.Flags().IntVar(&games, "games", 1, "number of matches")
	simulateCmd.Flags().StringVar(&outDir, "out", "", "directory for round history yaml files")
	simulateCmd.Flags().BoolVar(&syncMode, "sync", false, "use the synchronous transport instead of channels")

	replayCmd.Flags().StringVar(&replayFile, "file", "", "round history yaml file")
	_ = replayCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(simulateCmd, replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
