package pricesync

import (
	"context"
	"encoding/json"
	"time"

	"interest/config"
	"interest/core"
	"interest/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"
)

// versionBucket prices are versioned per minute; re-pulling inside the
// same bucket is a no-op at the store
const versionBucket = 60

// Worker price sync worker. Pulls every mapped feed on a schedule and
// persists one row per mint per version bucket, keeping a local history
// the REST surface can serve without touching the feed.
type Worker struct {
	worker.BaseJob
	DB         *db.DB
	OracleSrv  core.IOracleService
	PriceStore core.IPriceStore
}

// New new price sync worker
func New(cfg *config.Config, database *db.DB, oracleSrv core.IOracleService, priceStore core.IPriceStore) *Worker {
	job := Worker{
		DB:         database,
		OracleSrv:  oracleSrv,
		PriceStore: priceStore,
	}

	l, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 15s"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "pricesync")

	version := time.Now().Unix() / versionBucket
	pulls := w.OracleSrv.PullAllPrices(ctx)

	for mint, pull := range pulls {
		if pull.Err != nil {
			log.WithField("mint", mint).Errorln("pull price:", pull.Err)
			continue
		}

		content, _ := json.Marshal(map[string]interface{}{
			"token_mint": mint,
			"raw":        pull.Price.String(),
			"pulled_at":  time.Now().Unix(),
		})

		row := &core.Price{
			TokenMint: mint,
			Version:   version,
			Raw:       pull.Price.String(),
			Price:     pull.Price.Decimal(core.PriceDecimals),
			Content:   content,
		}

		if err := w.PriceStore.Create(ctx, w.DB, row); err != nil {
			log.WithField("mint", mint).Errorln("save price:", err)
		}
	}

	return nil
}
