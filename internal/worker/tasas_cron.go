package worker

// tasas_cron.go stores the day's exchange-rate snapshot from the configured
// source. Calls go through the circuit breaker so a downed source is not
// hammered every tick.

import (
	"context"
	"errors"
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/infra"
	"rackpos/internal/model"
	"rackpos/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TasasCronConfig holds all dependencies for the rate goroutine.
type TasasCronConfig struct {
	Repo     repository.TasaRepository
	Client   *infra.TasasClient
	CB       *infra.CircuitBreaker
	Cache    cache.ListCache
	Interval time.Duration
	Now      func() time.Time
}

// StartTasasCron syncs once immediately and then every Interval until ctx ends.
func StartTasasCron(ctx context.Context, cfg TasasCronConfig) {
	if !cfg.Client.Configured() {
		log.Info().Msg("tasas_cron: no source configured, disabled")
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("tasas_cron: started")
		syncTasas(ctx, cfg)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("tasas_cron: shutting down")
				return
			case <-ticker.C:
				syncTasas(ctx, cfg)
			}
		}
	}()
}

// syncTasas reports whether a new snapshot was stored.
func syncTasas(ctx context.Context, cfg TasasCronConfig) bool {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	hoy := now()

	if _, err := cfg.Repo.FindByFecha(ctx, hoy); err == nil {
		return false
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Msg("tasas_cron: failed to query today's rate")
		return false
	}

	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("tasas_cron: circuit breaker is open, skipping tick")
		return false
	}

	var snap *infra.TasasSnapshot
	err := cfg.CB.Execute(func() error {
		s, err := cfg.Client.Obtener(ctx)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("cb_state", cfg.CB.State().String()).Msg("tasas_cron: fetch failed")
		return false
	}

	fecha := hoy
	if snap.Fecha != "" {
		if f, err := time.Parse("2006-01-02", snap.Fecha); err == nil {
			fecha = f
		}
	}
	t := &model.TasaCambio{
		Fecha:        fecha,
		TasaBCV:      snap.TasaBCV,
		TasaParalelo: snap.TasaParalelo,
		Fuente:       "automatica",
	}
	if err := cfg.Repo.Create(ctx, t); err != nil {
		log.Error().Err(err).Msg("tasas_cron: failed to store snapshot")
		return false
	}
	if cfg.Cache != nil {
		cfg.Cache.Invalidate(ctx, cache.Tasas)
	}
	log.Info().
		Str("fecha", fecha.Format("2006-01-02")).
		Str("bcv", snap.TasaBCV.String()).
		Str("paralelo", snap.TasaParalelo.String()).
		Msg("tasas_cron: snapshot stored")
	return true
}
