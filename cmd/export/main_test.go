package main

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"dripn/internal/models"

	"github.com/stretchr/testify/require"
)

func TestWriteHistory(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	history := []models.HistoryEntry{
		{ID: "b", Kind: models.HISTORY_KIND_CASHOUT, Amount: 1000, Source: models.HISTORY_SOURCE_CASHOUT, Timestamp: ts, DisplayDate: "Mar 2, 2026"},
		{ID: "a", Kind: models.HISTORY_KIND_REWARD, Amount: 3, Source: "Share: x, the app", Timestamp: ts, DisplayDate: "Mar 2, 2026"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, history))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"id", "kind", "amount", "source", "timestamp", "date"}, rows[0])
	require.Equal(t, []string{"b", "cashout", "1000", "Cashout", "2026-03-02T09:00:00Z", "Mar 2, 2026"}, rows[1])
	require.Equal(t, "Share: x, the app", rows[2][3])
}
