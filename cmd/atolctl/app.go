package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	auditpg "3tcapital/atolonline/internal/adapters/audit/postgres"
	"3tcapital/atolonline/internal/core/audit"
	"3tcapital/atolonline/internal/infrastructure/config"
	"3tcapital/atolonline/internal/infrastructure/database"
	httpclient "3tcapital/atolonline/internal/infrastructure/http"
	"3tcapital/atolonline/pkg/atol"
)

const flushTimeout = 10 * time.Second

// app holds what the commands share: configuration, the optional audit
// trail and the traced HTTP client behind the service client.
type app struct {
	cfg config.AppConfig
	log *slog.Logger

	db        *pgxpool.Pool
	auditRepo audit.Repository
	tracer    *httpclient.TracedClient
}

func newApp(ctx context.Context, cfg config.AppConfig, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if !cfg.Audit.Enabled {
		log.Debug("Audit trail disabled")
		return a, nil
	}

	if err := database.RunMigrations(ctx, cfg.Audit.DatabaseURL, log); err != nil {
		return nil, fmt.Errorf("migrate audit database: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.Audit.DatabaseURL,
		MaxConns: cfg.Audit.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect audit database: %w", err)
	}

	a.db = pool
	a.auditRepo = auditpg.NewRepository(pool, log)
	log.Info("Audit trail enabled",
		"max_body_size", cfg.Audit.MaxBodySize,
		"log_bodies", cfg.Audit.LogBodies,
	)
	return a, nil
}

// close waits for pending audit writes and releases the database.
func (a *app) close() {
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := a.tracer.Flush(ctx); err != nil {
			a.log.Warn("Audit records not flushed", "error", err)
		}
		cancel()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// client builds the service client, acquiring a token on the way.
func (a *app) client(ctx context.Context) (*atol.Client, error) {
	settings := a.cfg.Atol
	if err := settings.RequireCredentials(); err != nil {
		return nil, err
	}

	policy, err := atol.ParseErroredUUID(settings.ErroredUUID)
	if err != nil {
		return nil, err
	}

	base := httpclient.NewClient(&httpclient.ClientConfig{
		Timeout:  settings.Timeout,
		RetryMax: settings.TransportRetries,
		Logger:   a.log,
	})

	a.tracer = httpclient.NewTracedClient(base, httpclient.TracedClientConfig{
		Service:         "atol",
		AuditEnabled:    a.auditRepo != nil,
		LogRequestBody:  a.cfg.Audit.LogBodies,
		LogResponseBody: a.cfg.Audit.LogBodies,
		MaxBodySize:     a.cfg.Audit.MaxBodySize,
	}, a.log, a.auditRepo)

	client, err := atol.New(ctx, atol.Options{
		Login:       settings.Login,
		Password:    settings.Password,
		GroupCode:   settings.GroupCode,
		Host:        settings.Host,
		APIVersion:  settings.APIVersion,
		Protocol:    atol.Protocol(settings.Protocol),
		TokenTTL:    settings.TokenTTL,
		ErroredUUID: policy,
		HTTPClient:  a.tracer,
		Logger:      a.log,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", settings.Host, err)
	}
	return client, nil
}
