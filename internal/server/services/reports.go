package services

import (
	"context"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

// ReportExporter stores a report and returns its key and download URL.
type ReportExporter interface {
	Enabled() bool
	Export(ctx context.Context, report models.Report) (key, url string, err error)
}

// ReportSource builds the report content.
type ReportSource interface {
	Report(ctx context.Context, days int) (models.Report, error)
}

type ReportService struct {
	source   ReportSource
	exporter ReportExporter
}

func NewReportService(source ReportSource, exporter ReportExporter) *ReportService {
	return &ReportService{source: source, exporter: exporter}
}

// Export snapshots the dashboard over the last days and uploads it.
func (s *ReportService) Export(ctx context.Context, days int) (string, string, error) {
	if !s.exporter.Enabled() {
		return "", "", common.ErrReportsDisabled
	}
	report, err := s.source.Report(ctx, days)
	if err != nil {
		return "", "", err
	}
	return s.exporter.Export(ctx, report)
}
