package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	codecOnce sync.Once
	codecErr  error
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
)

func initCodec() error {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
	})
	return codecErr
}

// EncodeRecord сериализует запись в JSON и сжимает zstd
func EncodeRecord(rec *LevelRecord) ([]byte, error) {
	if err := initCodec(); err != nil {
		return nil, fmt.Errorf("ошибка инициализации zstd: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации уровня: %w", err)
	}
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// DecodeRecord распаковывает и разбирает запись
func DecodeRecord(data []byte) (*LevelRecord, error) {
	if err := initCodec(); err != nil {
		return nil, fmt.Errorf("ошибка инициализации zstd: %w", err)
	}
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки уровня: %w", err)
	}
	var rec LevelRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("ошибка десериализации уровня: %w", err)
	}
	return &rec, nil
}
