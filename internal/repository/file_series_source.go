package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	applogger "CryptoBasket/pkg/logger"
)

// FileSeriesSource reads one CSV per symbol from a directory.
type FileSeriesSource struct {
	dir        string
	pattern    string
	basketFile string
	l          *applogger.Logger
}

// NewFileSeriesSource builds a source reading dir/fmt.Sprintf(pattern, SYMBOL).
func NewFileSeriesSource(dir, pattern, basketFile string) *FileSeriesSource {
	return &FileSeriesSource{dir: dir, pattern: pattern, basketFile: basketFile}
}

// SetLogger injects a structured logger.
func (s *FileSeriesSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *FileSeriesSource) Fetch(ctx context.Context, symbol string) ([]models.PriceRecord, error) {
	path, err := s.pathFor(symbol)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	recs, stats, err := DecodePriceCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.l != nil && (stats.Dropped > 0 || stats.Duplicates > 0) {
		s.l.Debug("csv rows skipped",
			applogger.String("path", path),
			applogger.Int("rows", stats.Rows),
			applogger.Int("dropped", stats.Dropped),
			applogger.Int("duplicates", stats.Duplicates),
		)
	}
	return recs, nil
}

func (s *FileSeriesSource) pathFor(symbol string) (string, error) {
	if symbol == models.BasketKey {
		if s.basketFile == "" {
			return "", fmt.Errorf("basket file not configured")
		}
		return s.basketFile, nil
	}
	sym := strings.ToUpper(symbol)
	if sym == "" || strings.ContainsAny(sym, `/\.`) {
		return "", fmt.Errorf("invalid symbol %q", symbol)
	}
	return filepath.Join(s.dir, fmt.Sprintf(s.pattern, sym)), nil
}

var _ domrepo.SeriesSource = (*FileSeriesSource)(nil)
