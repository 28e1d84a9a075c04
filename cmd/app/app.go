package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp/reuseport"

	v1 "classpoll/api/v1"
	"classpoll/internal/config"
	"classpoll/internal/session"
	"classpoll/pkg/async"
	"classpoll/pkg/live"
	"classpoll/pkg/logger"
	"classpoll/pkg/metrics"
	"classpoll/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("加载配置失败，请检查 .env 与环境变量", err)
		os.Exit(1)
	}
	logFile := logger.Configure(cfg.LogLevel, cfg.LogFile)
	defer logFile.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New("classpoll", registry)
	if err != nil {
		log.Fatal().Err(err).Msg("注册指标失败")
	}

	hub := live.NewHub(session.New(), m, cfg.SendBuffer)
	ctx, stop := context.WithCancel(context.Background())
	hubDone := async.ErrAble(func() error { return hub.Run(ctx) })

	app := server.NewFiber(cfg.AllowOrigins)
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		// 实时通道的消息不经过 HTTP，只限制握手以外的请求
		Next: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderUpgrade) != ""
		},
	}))
	v1.SetupRoutes(app, hub, cfg.SystemKey, registry)

	run(app, cfg)

	stop()
	<-hubDone
	log.Info().Msg("投票会话已关闭")
}

func run(app *fiber.App, cfg config.Config) {
	var ln net.Listener
	var err error
	if cfg.Dev {
		log.Info().Msg("开发模式已启用")
		ln, err = net.Listen("tcp4", cfg.Port)
	} else {
		ln, err = reuseport.Listen("tcp4", cfg.Port)
	}
	if err != nil {
		log.Panic().Err(err).Msg("无法监听")
	}
	log.Info().Str("port", cfg.Port).Msg("服务已启动")

	served := async.ErrAble(func() error { return app.Listener(ln) })

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case err = <-served:
		log.Error().Err(err).Msg("监听中断")
		return
	case sig := <-c:
		// 热更新：先拉起新进程再关闭当前进程，内存中的投票不会迁移
		if sig == syscall.SIGHUP && !cfg.Dev {
			log.Info().Msg("正在热更新服务端...")
			exe, _ := os.Executable()
			cmd := exec.Command(exe)
			cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
			if err := cmd.Start(); err != nil {
				log.Error().Err(err).Msg("启动新端失败>_<")
				return
			}
		}
	}

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("关闭服务失败")
	}
	<-served
}
