package main

import (
	"context"
	"time"

	"playscope-backend/lib/configutil"
	configlibsql "playscope-backend/lib/configutil/libsql"
	"playscope-backend/lib/restyutil"
	"playscope-backend/lib/scrapers/gplay"
	"playscope-backend/lib/serviceutil"
	"playscope-backend/lib/telemetry"
	"playscope-backend/services/catalog"
	"playscope-backend/services/snapshots"
	snapshotsdb "playscope-backend/services/snapshots/db"
	"playscope-backend/services/webapi"

	"github.com/redis/go-redis/v9"
)

type ScraperConfig struct {
	BaseUrl    string `json:"base_url"`
	Language   string `json:"language"`
	Country    string `json:"country"`
	ThrottleMs int    `json:"throttle_ms"`
}

type RedisConfig struct {
	Addr       string `json:"addr"`
	Password   string `json:"password"`
	Db         int    `json:"db"`
	TtlMinutes int    `json:"ttl_minutes"`
}

type Config struct {
	Port    int  `json:"port"`
	Verbose bool `json:"verbose"`

	Scraper ScraperConfig `json:"scraper"`
	// leave addr empty to run without a cache
	Redis RedisConfig `json:"redis"`
	// leave empty to run without metric snapshots
	Database configlibsql.Struct `json:"database"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 8400
	}

	telemetry.InitSlog(config.Verbose)
	err = telemetry.SetupFromEnv(ctx, "playscope-server")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	if config.Verbose {
		gplay.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput("playscope_http_dump"))
	}

	scraper, err := gplay.NewClient(gplay.ClientOptions{
		BaseUrl:  config.Scraper.BaseUrl,
		Language: config.Scraper.Language,
		Country:  config.Scraper.Country,
		Throttle: time.Duration(config.Scraper.ThrottleMs) * time.Millisecond,
	})
	if err != nil {
		serviceutil.Fatal("failed to create scraper client", err)
	}

	var cache catalog.Cache = catalog.NopCache{}
	if config.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.Db,
		})
		cache = catalog.NewRedisCache(client,
			time.Duration(config.Redis.TtlMinutes)*time.Minute)
	}
	catalogService := catalog.NewService(scraper, catalog.ServiceOptions{
		Cache: cache,
	})

	var snapshotService *snapshots.Service
	if config.Database.File != "" || config.Database.Url != "" {
		db, err := config.Database.OpenDB(snapshotsdb.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		service := snapshots.NewService(db)
		snapshotService = &service
	}

	service := webapi.NewService(catalogService, snapshotService)
	go serviceutil.StartHttpServer(config.Port, service.Router())

	<-ctx.Done()
}
