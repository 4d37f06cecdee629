package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// SQLLevelRepo реализует LevelRepo поверх database/sql.
// Поддерживает драйверы mysql (MariaDB/MySQL) и sqlite.
// Запись хранится сжатым блобом, отдельные колонки нужны для сортировки.
type SQLLevelRepo struct {
	db     *sql.DB
	driver string
}

// NewSQLLevelRepo открывает базу и создает таблицу levels, если её нет.
//
// Параметры:
//
//	driver - "mysql" или "sqlite"
//	dsn - строка подключения (user:pass@tcp(host:port)/dbname или путь к файлу)
func NewSQLLevelRepo(ctx context.Context, driver, dsn string) (*SQLLevelRepo, error) {
	switch driver {
	case "mysql":
	case "sqlite":
		if dir := filepath.Dir(dsn); !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("не удалось создать каталог %s: %w", dir, err)
			}
		}
	default:
		return nil, fmt.Errorf("неподдерживаемый SQL драйвер %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// SQLite не любит параллельных писателей
		db.SetMaxOpenConns(1)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с %s: %w", driver, err)
	}

	repo := &SQLLevelRepo{db: db, driver: driver}
	if err := repo.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}
	return repo, nil
}

// createTable создает таблицу levels, если она не существует.
func (r *SQLLevelRepo) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS levels (
			id          VARCHAR(64) PRIMARY KEY,
			number      INT         NOT NULL,
			side_length INT         NOT NULL,
			completed   BOOLEAN     NOT NULL,
			created_at  BIGINT      NOT NULL,
			updated_at  BIGINT      NOT NULL,
			data        BLOB        NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы levels: %w", err)
	}
	return nil
}

// Save сохраняет уровень. REPLACE INTO понимают и MySQL, и SQLite.
func (r *SQLLevelRepo) Save(ctx context.Context, rec *LevelRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("недействительный ID уровня")
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		return err
	}

	query := `
		REPLACE INTO levels (id, number, side_length, completed, created_at, updated_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Number, rec.SideLength, rec.Completed,
		rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano(), data)
	if err != nil {
		return fmt.Errorf("ошибка сохранения уровня %s: %w", rec.ID, err)
	}
	return nil
}

// Load загружает уровень из базы данных.
func (r *SQLLevelRepo) Load(ctx context.Context, id string) (*LevelRecord, bool, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM levels WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка загрузки уровня %s: %w", id, err)
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Delete удаляет уровень.
func (r *SQLLevelRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM levels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления уровня %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества затронутых строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}
	return nil
}

// List возвращает все уровни в порядке создания.
func (r *SQLLevelRepo) List(ctx context.Context) ([]*LevelRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM levels ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения уровней: %w", err)
	}
	defer rows.Close()

	recs := make([]*LevelRecord, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		rec, err := DecodeRecord(data)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения уровней: %w", err)
	}
	return recs, nil
}

// Close закрывает соединение с базой данных.
func (r *SQLLevelRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
