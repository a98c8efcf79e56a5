// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package api

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/logging"
	"github.com/tomtom215/salescope/internal/models"
)

const (
	csvFilename   = "sales_export.csv"
	csvFlushEvery = 500
)

var csvHeader = []string{
	"platform", "sale_month", "region", "master_code", "master_name", "total_units", "total_gmv",
}

// exportCSV streams matching detail rows as text/csv. Headers are committed
// on the first row, so a store failure before any output still gets the
// JSON error envelope; a failure mid-stream truncates the body and is logged.
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request, filters query.FilterSet) {
	var (
		cw      *csv.Writer
		written int
		record  = make([]string, len(csvHeader))
		flusher = http.NewResponseController(w)
	)

	start := func() error {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+csvFilename+`"`)
		w.WriteHeader(http.StatusOK)
		cw = csv.NewWriter(w)
		return cw.Write(csvHeader)
	}

	err := h.store.StreamExport(r.Context(), filters, func(row *models.DetailRow) error {
		if cw == nil {
			if err := start(); err != nil {
				return err
			}
		}
		csvRecord(row, record)
		if err := cw.Write(record); err != nil {
			return err
		}
		written++
		if written%csvFlushEvery == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			_ = flusher.Flush() //nolint:errcheck // writers without Flush still buffer correctly
		}
		return nil
	})

	if err != nil && cw == nil {
		h.storeFailure(w, r, "export_csv", err, msgExport)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Int("rows_written", written).
			Msg("CSV export aborted mid-stream")
		cw.Flush()
		return
	}

	if cw == nil {
		// No rows: still send a header-only file.
		if err := start(); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write CSV header")
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to flush CSV export")
	}
}

func csvRecord(row *models.DetailRow, dst []string) {
	dst[0] = csvText(row.Platform)
	dst[1] = csvText(row.SaleMonth)
	dst[2] = csvText(row.Region)
	dst[3] = strconv.FormatInt(row.MasterCode, 10)
	dst[4] = csvText(row.MasterName)
	dst[5] = strconv.FormatInt(row.TotalUnits, 10)
	dst[6] = row.TotalGMV.StringFixed(2)
}

// csvText prefixes a text cell that a spreadsheet would evaluate as a
// formula with a single quote.
// Numeric columns are written by strconv and decimal and never pass here.
func csvText(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
