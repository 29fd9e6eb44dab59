package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"socialhub/internal/blob"
	"socialhub/internal/config"
	"socialhub/internal/model"
	"socialhub/internal/pkg"
	"socialhub/internal/repository/mysql"
	"socialhub/internal/repository/redis"
	"socialhub/internal/router"
	"socialhub/internal/schema"
	"socialhub/internal/service"
)

func main() {
	cfg, err := config.Load(config.NewViper())
	if err != nil {
		panic(err)
	}

	log, err := pkg.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatal("connect mysql", zap.Error(err))
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	defer redis.Close()

	pkg.ConfigureJWT(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.CommunityRole{},
		&model.CommunityInvite{},
		&model.Template{},
		&model.TemplateField{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
		&model.SocialOutbox{},
	); err != nil {
		log.Fatal("auto migrate", zap.Error(err))
	}

	blobs := blob.NewLocalStore(cfg.BlobRoot)
	codec := schema.NewCodec(blobs, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 关注事件: outbox 转发到 kafka，计数定期校准
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			log.Fatal("kafka producer", zap.Error(err))
		}
		defer producer.Close()

		sender := func(ctx context.Context, ob *model.SocialOutbox) error {
			return producer.Send(ctx, pkg.MakeKeyFromID(ob.ID), []byte(ob.Payload))
		}
		go service.NewOutboxRelayer(mysql.DB, sender, log).Run(ctx)
	}
	go service.NewFollowCountReconciler(mysql.DB, log).ReconcilerRun(ctx)

	r := router.InitRouter(router.Deps{
		DB:    mysql.DB,
		Cfg:   cfg,
		Codec: codec,
		Blobs: blobs,
	})
	if err := r.Run(cfg.HTTPAddress); err != nil {
		log.Fatal("http server", zap.Error(err))
	}
}
