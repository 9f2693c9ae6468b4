package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis подключается к Redis для рассылки уведомлений.
// Пустой адрес или недоступный сервер отключают публикацию: возвращается nil,
// сервис продолжает работать без рассылки.
func ConnectRedis(addr string) *redis.Client {
	if addr == "" {
		slog.Warn("REDIS_ADDR не задан, публикация уведомлений отключена")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("Не удалось подключиться к Redis", "error", err)
		return nil
	}

	slog.Info("Успешное подключение к Redis")
	return rdb
}
