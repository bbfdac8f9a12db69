package slotledger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// captureExecutor записывает SQL запросов вместо выполнения
type captureExecutor struct {
	queries []string
}

func (c *captureExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.queries = append(c.queries, query)
	return driver.RowsAffected(1), nil
}

func (c *captureExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (c *captureExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

// daySlotsColumns читает из миграции набор колонок таблицы day_slots
func daySlotsColumns(t *testing.T) map[string]bool {
	t.Helper()

	raw, err := os.ReadFile("../../../../migrations/001_init.sql")
	require.NoError(t, err)

	ddl := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS day_slots \((.*?)\);`).FindStringSubmatch(string(raw))
	require.Len(t, ddl, 2, "day_slots DDL not found in migration")

	columns := make(map[string]bool)
	for _, line := range strings.Split(ddl[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") || strings.HasPrefix(line, "PRIMARY") {
			continue
		}
		columns[strings.Fields(line)[0]] = true
	}
	return columns
}

// Запись ledger'а не должна трогать колонки, которых нет в схеме:
// иначе каждый CAS на живой базе падает с ошибкой postgres
func TestWriteQueriesUseOnlySchemaColumns(t *testing.T) {
	columns := daySlotsColumns(t)
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	slots := []domain.TimeSlot{{Time: types.TimeString("09:00"), Available: true}}

	t.Run("UpdateSlots", func(t *testing.T) {
		executor := &captureExecutor{}
		repo := NewRepository(executor)

		require.NoError(t, repo.UpdateSlots(context.Background(), 1, date, slots, 1))
		require.Len(t, executor.queries, 1)

		setClause := regexp.MustCompile(`SET (.*) WHERE`).FindStringSubmatch(executor.queries[0])
		require.Len(t, setClause, 2)

		for _, part := range strings.Split(setClause[1], ",") {
			column := strings.TrimSpace(strings.SplitN(part, "=", 2)[0])
			assert.True(t, columns[column],
				"UpdateSlots writes column %q which day_slots does not have", column)
		}
	})

	t.Run("InsertDay", func(t *testing.T) {
		executor := &captureExecutor{}
		repo := NewRepository(executor)

		require.NoError(t, repo.InsertDay(context.Background(), 1, date, slots))
		require.Len(t, executor.queries, 1)

		insertColumns := regexp.MustCompile(`INSERT INTO day_slots \(([^)]*)\)`).FindStringSubmatch(executor.queries[0])
		require.Len(t, insertColumns, 2)

		for _, part := range strings.Split(insertColumns[1], ",") {
			column := strings.TrimSpace(part)
			assert.True(t, columns[column],
				"InsertDay writes column %q which day_slots does not have", column)
		}
	})
}
