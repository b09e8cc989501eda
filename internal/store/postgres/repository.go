package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// Repository handles database operations for one entity table
type Repository[T any] struct {
	db       *sqlx.DB
	table    string
	columns  []string
	sortable map[string]bool
	setID    func(*T, string)
	logger   *zap.Logger
}

// List retrieves records ordered by the requested sort
func (r *Repository[T]) List(ctx context.Context, opts store.ListOptions) ([]T, error) {
	query := listQuery(r.table, store.ParseSort(opts.Sort, r.sortable))

	// LIMIT NULL returns every row
	var limit any
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	records := []T{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		r.logger.Error("Failed to list records", zap.String("table", r.table), zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}

	return records, nil
}

// Create inserts a record with a fresh id; created_date comes from the column default
func (r *Repository[T]) Create(ctx context.Context, record T) (T, error) {
	r.setID(&record, uuid.NewString())

	var created T
	rows, err := r.db.NamedQueryContext(ctx, insertQuery(r.table, r.columns), record)
	if err != nil {
		r.logger.Error("Failed to insert record", zap.String("table", r.table), zap.Error(err))
		return created, fmt.Errorf("create %s: %w", r.table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return created, fmt.Errorf("create %s: %w", r.table, err)
		}
		return created, fmt.Errorf("create %s: no row returned", r.table)
	}

	if err := rows.StructScan(&created); err != nil {
		r.logger.Error("Failed to scan inserted record", zap.String("table", r.table), zap.Error(err))
		return created, fmt.Errorf("create %s: %w", r.table, err)
	}

	return created, nil
}

func listQuery(table string, sort store.Sort) string {
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	return fmt.Sprintf(`SELECT * FROM %s ORDER BY %s %s LIMIT $1`, table, sort.Field, direction)
}

func insertQuery(table string, columns []string) string {
	named := make([]string, len(columns))
	for i, column := range columns {
		named[i] = ":" + column
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		table, strings.Join(columns, ", "), strings.Join(named, ", "))
}

var defaultSortable = map[string]bool{"created_date": true}

// NewSessionRepository creates the trading session repository
func NewSessionRepository(db *sqlx.DB, logger *zap.Logger) *Repository[model.TradingSession] {
	return &Repository[model.TradingSession]{
		db:    db,
		table: "trading_sessions",
		columns: []string{
			"id", "session_name", "start_time", "end_time", "initial_balance", "final_balance",
			"profit_loss", "total_trades", "winning_trades", "win_rate", "status",
		},
		sortable: map[string]bool{"created_date": true, "start_time": true, "profit_loss": true},
		setID:    func(s *model.TradingSession, id string) { s.ID = id },
		logger:   logger,
	}
}

// NewSignalRepository creates the market signal repository
func NewSignalRepository(db *sqlx.DB, logger *zap.Logger) *Repository[model.MarketSignal] {
	return &Repository[model.MarketSignal]{
		db:    db,
		table: "market_signals",
		columns: []string{
			"id", "symbol", "signal_type", "confidence_level", "entry_price", "target_price",
			"stop_loss", "risk_reward_ratio", "timeframe", "indicators_used", "market_sentiment",
			"signal_strength", "is_active", "execution_status", "notes",
		},
		sortable: map[string]bool{"created_date": true, "confidence_level": true, "symbol": true},
		setID:    func(s *model.MarketSignal, id string) { s.ID = id },
		logger:   logger,
	}
}

// NewVideoRepository creates the linked video repository
func NewVideoRepository(db *sqlx.DB, logger *zap.Logger) *Repository[model.LinkedVideo] {
	return &Repository[model.LinkedVideo]{
		db:    db,
		table: "linked_videos",
		columns: []string{
			"id", "url", "platform", "title", "description", "thumbnail_url", "video_type", "status",
		},
		sortable: defaultSortable,
		setID:    func(v *model.LinkedVideo, id string) { v.ID = id },
		logger:   logger,
	}
}

// New builds a store backed by PostgreSQL
func New(db *sqlx.DB, jwtSecret string, logger *zap.Logger) *store.Store {
	return &store.Store{
		Sessions: NewSessionRepository(db, logger),
		Signals:  NewSignalRepository(db, logger),
		Videos:   NewVideoRepository(db, logger),
		Users:    NewUserRepository(db, jwtSecret, logger),
	}
}
