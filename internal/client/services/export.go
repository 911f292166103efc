package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/agritrack/agritrack-cli/internal/client/models"
)

// exportPageSize keeps export requests reasonably sized without hammering the
// backend with tiny pages.
const exportPageSize = 100

// ExportProductsCSV streams the full product list to w as CSV, paging through
// the backend. Each page request is bounded by pageTimeout (zero disables the
// bound); the walk as a whole is limited only by ctx. It returns the number of
// product rows written.
func ExportProductsCSV(ctx context.Context, svc ProductService, w io.Writer, pageTimeout time.Duration) (int, error) {
	cw := csv.NewWriter(w)
	header := []string{"id", "name", "type", "batchId", "harvestDate", "originFarmId", "status", "currentLocation", "stages"}
	if err := cw.Write(header); err != nil {
		return 0, err
	}

	written := 0
	for page := 0; ; page++ {
		result, err := fetchExportPage(ctx, svc, page, pageTimeout)
		if err != nil {
			return written, err
		}
		for _, p := range result.Products {
			row := []string{
				p.ID,
				p.Name,
				p.Type,
				p.BatchID,
				p.HarvestDate,
				p.OriginFarmID,
				p.Status,
				p.CurrentLocation,
				strconv.Itoa(len(p.TrackingHistory)),
			}
			if err := cw.Write(row); err != nil {
				return written, err
			}
			written++
		}
		if page+1 >= result.TotalPages {
			break
		}
	}

	cw.Flush()
	return written, cw.Error()
}

func fetchExportPage(ctx context.Context, svc ProductService, page int, pageTimeout time.Duration) (*models.ProductPage, error) {
	if pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pageTimeout)
		defer cancel()
	}
	return svc.List(ctx, page, exportPageSize, "name", "asc")
}
