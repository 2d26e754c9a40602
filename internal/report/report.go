// Package report renders sales data for download: a spreadsheet export and
// PNG charts. Every failure is reported as apperr.RenderingFailedErr.
package report

import (
	"errors"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
)

// ErrNoData is returned by the chart renderers when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

func renderingFailed(err error) error {
	return apperr.RenderingFailedErr.WrapParent(err)
}
