package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/services/metrics"
	"github.com/trezcool/darasa/storage/inmem"
	filekv "github.com/trezcool/darasa/storage/kv/file"
	rediskv "github.com/trezcool/darasa/storage/kv/redis"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)

	conf, err := core.LoadConfig()
	if err != nil {
		std.Fatalf("loading config: %+v", err)
	}

	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	db := inmem.Open()
	store := inmem.NewSchoolStore(db)
	svc := school.NewService(store, conf, logger)
	resolver := school.NewResolver(store, logger)

	var kv core.KVStore
	if conf.Redis.Enabled {
		rkv, err := rediskv.Open(conf.Redis, logger)
		if err != nil {
			logger.Fatal("connecting to redis", err)
		}
		defer rkv.Close()
		kv = rkv
	} else {
		fkv, err := filekv.Open(conf.StateDir)
		if err != nil {
			logger.Fatal("opening state dir", err)
		}
		kv = fkv
	}

	if conf.Debug {
		if _, err := school.SeedDemo(svc); err != nil {
			logger.Fatal("seeding demo data", err)
		}
		logger.Info("demo data seeded")
	}

	sess := session.NewManager(svc, kv, logger)

	server := echoapi.NewServer(&echoapi.Options{
		Address:   conf.Server.Address(),
		Conf:      conf,
		SchoolSvc: svc,
		Resolver:  resolver,
		Session:   sess,
		KV:        kv,
		Metrics:   metrics.New(),
	})

	go server.Start()
	logger.Info("server started on " + conf.Server.Address())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", err)
	}
}
