package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/barmetrics/backend-go/internal/config"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioExporter writes run reports as CSV objects to an S3-compatible
// bucket, one object per (year, week) run.
type MinioExporter struct {
	client *minio.Client
	bucket string
}

// NewMinioExporter builds the exporter from config. It returns (nil, nil)
// when export is disabled so callers can wire it unconditionally.
func NewMinioExporter(cfg config.ExportConfig) (*MinioExporter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("export endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("export credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("export bucket must be provided")
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinioExporter{client: client, bucket: cfg.Bucket}, nil
}

// ExportRun renders the summary as CSV and uploads it. The object name
// encodes the run's year and week, so reruns of the same week overwrite the
// previous report.
func (e *MinioExporter) ExportRun(ctx context.Context, summary *domain.RunSummary) (string, error) {
	payload, err := renderCSV(summary)
	if err != nil {
		return "", err
	}

	object := fmt.Sprintf("weekly/%d/semana-%02d.csv", summary.Year, summary.Week)

	_, err = e.client.PutObject(ctx, e.bucket, object, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("upload run report: %w", err)
	}

	return object, nil
}

func renderCSV(summary *domain.RunSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"bar_id", "bar_nome", "success", "error",
		"open_total", "purchase_total", "close_total",
		"deduct_total", "applicable_revenue",
		"cmv_value", "cmv_percent", "target_percent", "gap",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range summary.Results {
		row := []string{
			strconv.FormatInt(r.VenueID, 10),
			r.VenueName,
			strconv.FormatBool(r.Success),
			r.Error,
			"", "", "", "", "", "", "", "", "",
		}
		if r.Record != nil {
			row[4] = formatAmount(r.Record.OpenTotal)
			row[5] = formatAmount(r.Record.PurchaseTotal)
			row[6] = formatAmount(r.Record.CloseTotal)
			row[7] = formatAmount(r.Record.DeductTotal)
			row[8] = formatAmount(r.Record.ApplicableRevenue)
			row[9] = formatAmount(r.Record.CMVValue)
			row[10] = formatAmount(r.Record.CMVPercent)
			row[11] = formatAmount(r.Record.TargetPercent)
			row[12] = formatAmount(r.Record.Gap)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
