package bootstrap

import (
	"github.com/eleven-am/scene-narrator/internal/archive"
	"github.com/eleven-am/scene-narrator/internal/metrics"
	"github.com/eleven-am/scene-narrator/internal/narration"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideMetricsStore(redisClient *redis.Client) *metrics.Store {
	if redisClient == nil {
		return nil
	}
	return metrics.NewStore(redisClient)
}

func ProvideArchiveStore(db *gorm.DB) *archive.Store {
	if db == nil {
		return nil
	}
	return archive.NewStore(db)
}

// ProvideRecorder collects every configured outcome observer.
func ProvideRecorder(metricsStore *metrics.Store, archiveStore *archive.Store) narration.Recorder {
	var recorders narration.Recorders
	if metricsStore != nil {
		recorders = append(recorders, metricsStore)
	}
	if archiveStore != nil {
		recorders = append(recorders, archiveStore)
	}
	if len(recorders) == 0 {
		return nil
	}
	return recorders
}

func RunMigrations(archiveStore *archive.Store) error {
	if archiveStore == nil {
		return nil
	}
	return archiveStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideMetricsStore,
		ProvideArchiveStore,
		ProvideRecorder,
	),
	fx.Invoke(RunMigrations),
)
