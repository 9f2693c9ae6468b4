package main

import (
	"log/slog"
	"os"

	"garant-backend/config"
	"garant-backend/internal/dblog"
	"garant-backend/internal/deal"
	"garant-backend/internal/documents"
	"garant-backend/internal/files"
	"garant-backend/internal/notify"
	"garant-backend/internal/payment"
	"garant-backend/internal/routes"
	"garant-backend/internal/users"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("БД недоступна", "error", err)
		os.Exit(1)
	}

	rdb := config.ConnectRedis(cfg.RedisAddr)

	hub := notify.NewHub()
	go hub.Run()

	fileStore, err := files.NewLocalStore(cfg.DocumentsPath)
	if err != nil {
		slog.Error("хранилище документов недоступно", "error", err)
		os.Exit(1)
	}

	logger := dblog.New(db)
	notifier := notify.NewService(db, rdb, hub)
	directory := users.NewDirectory(db, logger)
	docs := documents.NewStore(db, directory, logger, notifier)
	deals := deal.NewManager(db, logger, notifier)

	ledger, err := payment.NewLedger(db, docs, logger, notifier, cfg.CommissionFormula)
	if err != nil {
		slog.Error("некорректная формула комиссии", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	routes.RegisterAPIRoutes(r, &routes.Services{
		Deals:     deals,
		Documents: docs,
		Ledger:    ledger,
		Directory: directory,
		Files:     fileStore,
		Hub:       hub,
	})

	slog.Info("Сервис запущен", "port", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		slog.Error("сервер остановлен", "error", err)
		os.Exit(1)
	}
}
