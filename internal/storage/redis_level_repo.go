package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/blockslide/internal/logging"
)

// RedisLevelRepo хранит уровни в Redis; записи живут ttl, список ID
// держится в отдельном множестве
type RedisLevelRepo struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей, 0 без ограничения
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "blockslide:",
	}
}

// NewRedisLevelRepo создаёт Redis репозиторий и проверяет соединение
func NewRedisLevelRepo(ctx context.Context, config *RedisConfig) (*RedisLevelRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetStorageLogger().Info("🔴 Connected to Redis at %s", config.Addr)
	return &RedisLevelRepo{
		client:    client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
	}, nil
}

func (r *RedisLevelRepo) key(id string) string {
	return r.keyPrefix + "level:" + id
}

func (r *RedisLevelRepo) indexKey() string {
	return r.keyPrefix + "levels"
}

// Save сохраняет уровень и добавляет его ID в индекс
func (r *RedisLevelRepo) Save(ctx context.Context, rec *LevelRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("недействительный ID уровня")
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(rec.ID), data, r.ttl)
	pipe.SAdd(ctx, r.indexKey(), rec.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save level %s: %w", rec.ID, err)
	}
	return nil
}

// Load загружает уровень
func (r *RedisLevelRepo) Load(ctx context.Context, id string) (*LevelRecord, bool, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get level %s: %w", id, err)
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Delete удаляет уровень и его ID из индекса
func (r *RedisLevelRepo) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete level %s: %w", id, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}
	return nil
}

// List читает все уровни из индекса пайплайном; истёкшие ID убираются из индекса
func (r *RedisLevelRepo) List(ctx context.Context) ([]*LevelRecord, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read level index: %w", err)
	}
	if len(ids) == 0 {
		return []*LevelRecord{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, r.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get levels: %w", err)
	}

	log := logging.GetStorageLogger()
	recs := make([]*LevelRecord, 0, len(ids))
	var expired []interface{}
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err == redis.Nil {
			expired = append(expired, ids[i])
			continue
		} else if err != nil {
			log.Warn("⚠️ Failed to get level %s: %v", ids[i], err)
			continue
		}

		rec, err := DecodeRecord(data)
		if err != nil {
			log.Warn("⚠️ Failed to decode level %s: %v", ids[i], err)
			continue
		}
		recs = append(recs, rec)
	}

	if len(expired) > 0 {
		if err := r.client.SRem(ctx, r.indexKey(), expired...).Err(); err != nil {
			log.Warn("⚠️ Failed to prune level index: %v", err)
		}
	}

	sortRecords(recs)
	return recs, nil
}

// Close закрывает соединение с Redis
func (r *RedisLevelRepo) Close() error {
	return r.client.Close()
}
