package stats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marcboeker/go-duckdb"
	"github.com/sheetchart/backend/internal/models"
)

const describeQuery = `
	SELECT
		count(v),
		avg(v),
		median(v),
		COALESCE(stddev_samp(v), 0),
		min(v),
		max(v),
		sum(v),
		quantile_cont(v, 0.25),
		quantile_cont(v, 0.75)
	FROM sample`

// DuckDBEngine computes statistics with an in-memory DuckDB database. Each call opens its own
// database and closes it before returning.
type DuckDBEngine struct{}

func NewDuckDBEngine() *DuckDBEngine {
	return &DuckDBEngine{}
}

func (e *DuckDBEngine) Name() string {
	return EngineDuckDB
}

func (e *DuckDBEngine) Compute(ctx context.Context, values []float64) (*models.StatsResult, error) {
	if len(values) == 0 {
		return nil, &models.EmptyColumnError{}
	}

	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}
	db := sql.OpenDB(connector)
	defer db.Close()

	// table, appender and query share one connection
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "CREATE TABLE sample (v DOUBLE)"); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}

		appender, err := duckdb.NewAppenderFromConn(dConn, "", "sample")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer appender.Close()

		for i, v := range values {
			if err := appender.AppendRow(v); err != nil {
				return fmt.Errorf("failed to append row %d: %w", i, err)
			}
		}
		return appender.Flush()
	})
	if err != nil {
		return nil, fmt.Errorf("appender error: %w", err)
	}

	var (
		count int64
		r     models.StatsResult
	)
	err = conn.QueryRowContext(ctx, describeQuery).Scan(
		&count, &r.Mean, &r.Median, &r.Std, &r.Min, &r.Max, &r.Sum, &r.Q25, &r.Q75,
	)
	if err != nil {
		return nil, fmt.Errorf("statistics query failed: %w", err)
	}
	r.Count = int(count)
	return &r, nil
}
