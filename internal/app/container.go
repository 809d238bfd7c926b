package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"dripn/internal/datastore"
	"dripn/internal/datastore/bolt_store"
	"dripn/internal/datastore/redis_store"
	"dripn/internal/interfaces"
	"dripn/internal/pkg/backend"
	"dripn/internal/pkg/caching"
	"dripn/internal/pkg/limiter"
	"dripn/internal/pkg/locker"
	"dripn/internal/pkg/metrics"
	"dripn/internal/pkg/oracle"
	"dripn/internal/pkg/payout"
	"dripn/internal/pkg/xumm"
	"dripn/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

const (
	STORE_DRIVER_SQL   = "sql"
	STORE_DRIVER_REDIS = "redis"
	STORE_DRIVER_BOLT  = "bolt"

	DEFAULT_ORACLE_URL   = "https://api.coingecko.com/api/v3"
	DEFAULT_ORACLE_ASSET = "ripple"
	DEFAULT_BOLT_PATH    = "./dripn.db"
	DEFAULT_CRON_SYNC    = "@every 15m"

	LOCAL_CACHE_SIZE = 1000
)

// optionalEnvs are read when present and defaulted in NewContainer.
var optionalEnvs = []string{
	"DB_PASSWORD",
	"STORE_DRIVER",
	"BOLT_PATH",
	"REDIS_URL",
	"CLUSTER_REDIS_URL",
	"API_MODE",
	"API_ORIGINS",
	"API_JWT_SECRET",
	"LOG_FILE",
	"BADGE_CATALOG",
	"ORACLE_URL",
	"ORACLE_ASSET",
	"PAYOUT_URL",
	"PAYOUT_API_KEY",
	"WALLET_API_URL",
	"WALLET_API_KEY",
	"WALLET_API_SECRET",
	"BOT_TOKEN",
	"BOT_CHAT_ID",
	"BACKEND_URL",
	"BACKEND_TOKEN",
	"CRON_SYNC",
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	for _, key := range optionalEnvs {
		if _, ok := vs[key]; !ok {
			vs[key] = os.Getenv(key)
		}
	}

	defaults := map[string]string{
		"STORE_DRIVER": STORE_DRIVER_SQL,
		"BOLT_PATH":    DEFAULT_BOLT_PATH,
		"API_MODE":     "production",
		"API_ORIGINS":  "*",
		"ORACLE_URL":   DEFAULT_ORACLE_URL,
		"ORACLE_ASSET": DEFAULT_ORACLE_ASSET,
		"CRON_SYNC":    DEFAULT_CRON_SYNC,
	}
	for key, value := range defaults {
		if vs[key] == "" {
			vs[key] = value
		}
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		return datastore.OpenDB(vs["DB_DSN"], vs["DB_PASSWORD"])
	})

	do.Provide(injector, func(i *do.Injector) (redis.UniversalClient, error) {
		if vs["CLUSTER_REDIS_URL"] != "" {
			clusterOpts, err := redis.ParseClusterURL(vs["CLUSTER_REDIS_URL"])
			if err != nil {
				return nil, err
			}
			return redis.NewClusterClient(clusterOpts), nil
		}
		if vs["REDIS_URL"] == "" {
			return nil, fmt.Errorf("redis is not configured")
		}
		return db.InitRedis(&db.RedisConfig{
			URL: vs["REDIS_URL"],
		})
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		if !hasRedis(vs) {
			return caching.NewCacheLocal(LOCAL_CACHE_SIZE, services.CACHE_TTL_15_SECONDS), nil
		}
		dbRedis, err := do.Invoke[redis.UniversalClient](i)
		if err != nil {
			return nil, err
		}
		return caching.NewCacheRedis(dbRedis, true)
	})

	// without redis the limiter is simply not provided
	if hasRedis(vs) {
		do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
			dbRedis, err := do.Invoke[redis.UniversalClient](i)
			if err != nil {
				return nil, err
			}
			return limiter.NewLimiter(dbRedis)
		})
	}

	do.Provide(injector, func(i *do.Injector) (interfaces.Locker, error) {
		if !hasRedis(vs) {
			return locker.NewLocal(), nil
		}
		dbRedis, err := do.Invoke[redis.UniversalClient](i)
		if err != nil {
			return nil, err
		}
		rs := redsync.New(goredis.NewPool(dbRedis))
		return locker.NewRedsync(rs, services.REDEMPTION_LOCK_EXPIRY), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.DocumentStore, error) {
		switch vs["STORE_DRIVER"] {
		case STORE_DRIVER_SQL:
			bunDB, err := do.Invoke[*bun.DB](i)
			if err != nil {
				return nil, err
			}
			return datastore.NewDocumentStore(bunDB), nil
		case STORE_DRIVER_REDIS:
			dbRedis, err := do.Invoke[redis.UniversalClient](i)
			if err != nil {
				return nil, err
			}
			return redis_store.NewDocumentStore(dbRedis), nil
		case STORE_DRIVER_BOLT:
			return bolt_store.Open(vs["BOLT_PATH"])
		}
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", vs["STORE_DRIVER"])
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceConfig, error) {
		return services.NewServiceConfig(i)
	})

	do.Provide(injector, func(i *do.Injector) (*services.Settings, error) {
		serviceConfig, err := do.Invoke[*services.ServiceConfig](i)
		if err != nil {
			return nil, err
		}
		return serviceConfig.LoadSettings(context.Background())
	})

	do.Provide(injector, func(i *do.Injector) (services.BadgeCatalog, error) {
		return services.LoadBadgeCatalog(vs["BADGE_CATALOG"])
	})

	do.Provide(injector, func(i *do.Injector) (*metrics.Metrics, error) {
		return metrics.Default(), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.PriceOracle, error) {
		cache, err := do.Invoke[caching.Cache](i)
		if err != nil {
			return nil, err
		}
		return oracle.NewCoinGecko(vs["ORACLE_URL"], vs["ORACLE_ASSET"], oracle.WithCache(cache, services.CACHE_TTL_15_SECONDS)), nil
	})

	if vs["PAYOUT_URL"] != "" {
		do.Provide(injector, func(i *do.Injector) (interfaces.PayoutProcessor, error) {
			return payout.NewClient(vs["PAYOUT_URL"], payout.WithAPIKey(vs["PAYOUT_API_KEY"])), nil
		})
	}

	if vs["WALLET_API_KEY"] != "" {
		do.Provide(injector, func(i *do.Injector) (interfaces.SignInProvider, error) {
			return xumm.NewClient(vs["WALLET_API_URL"], vs["WALLET_API_KEY"], vs["WALLET_API_SECRET"]), nil
		})
	}

	if vs["BACKEND_URL"] != "" {
		do.Provide(injector, func(i *do.Injector) (interfaces.Backend, error) {
			return backend.NewClient(vs["BACKEND_URL"], vs["BACKEND_TOKEN"], nil), nil
		})
	}

	do.Provide(injector, func(i *do.Injector) (interfaces.Notifier, error) {
		if vs["BOT_TOKEN"] == "" || vs["BOT_CHAT_ID"] == "" {
			return services.LogNotifier{}, nil
		}
		chatID, err := strconv.ParseInt(strings.TrimSpace(vs["BOT_CHAT_ID"]), 10, 64)
		if err != nil {
			return nil, err
		}
		return services.NewBot(vs["BOT_TOKEN"], chatID)
	})

	services.ProvideServices(injector)
	return injector
}

func hasRedis(vs map[string]string) bool {
	return vs["REDIS_URL"] != "" || vs["CLUSTER_REDIS_URL"] != ""
}

// Boot loads the account and logs which optional integrations are off.
func Boot(ctx context.Context, injector *do.Injector) (*services.ServiceState, error) {
	vs := do.MustInvokeNamed[map[string]string](injector, "envs")
	for _, key := range []string{"PAYOUT_URL", "WALLET_API_KEY", "BACKEND_URL", "BOT_TOKEN"} {
		if vs[key] == "" {
			log.Printf("%s not set, integration disabled\n", key)
		}
	}
	return services.Boot(ctx, injector)
}
