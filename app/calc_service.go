package app

import (
	"context"

	"outlierlab/adapters/api"
	"outlierlab/ports"
)

// CalcService runs outlier detection and fetches the result exports. All
// statistics are computed server-side; this service only carries thresholds
// out and renders the summaries that come back.
type CalcService struct {
	ctx  *Context
	data *DataService
}

// NewCalcService wires the detection service into the session context.
func NewCalcService(ctx *Context, data *DataService) *CalcService {
	return &CalcService{ctx: ctx, data: data}
}

// Calculate synchronizes the current grid, then requests a detection run
// with the session thresholds. The response replaces the cached result
// wholesale and repaints the results panel.
func (s *CalcService) Calculate(ctx context.Context) error {
	if err := s.data.UpdateData(ctx); err != nil {
		return err
	}
	req := api.CalculateRequest{Thresholds: s.ctx.Thresholds().Normalized()}
	var resp api.CalculationResponse
	if err := s.ctx.Client.Post(ctx, api.PathCalculate, req, &resp); err != nil {
		s.ctx.report(err, "failed to run the outlier analysis")
		return err
	}
	result := resp.Result
	s.ctx.setLastResult(&result)
	if s.ctx.Views.Results != nil {
		s.ctx.Views.Results.ShowDetection(&result)
	}
	return nil
}

// DownloadCSV fetches the cleaned-data export of the last detection run. It
// refuses locally when no run is cached; the export would be empty anyway.
func (s *CalcService) DownloadCSV(ctx context.Context) (*ports.FileDownload, error) {
	return s.downloadResult(ctx, api.PathDownloadCSV, "failed to download the analysis CSV")
}

// DownloadCombined fetches the combined per-method export of the last run.
func (s *CalcService) DownloadCombined(ctx context.Context) (*ports.FileDownload, error) {
	return s.downloadResult(ctx, api.PathDownloadCombined, "failed to download the combined results")
}

func (s *CalcService) downloadResult(ctx context.Context, path, fixed string) (*ports.FileDownload, error) {
	if s.ctx.LastResult() == nil {
		s.ctx.notify(ports.NotifyError, "run a calculation first")
		return nil, errValidation("run a calculation first")
	}
	download, err := s.ctx.Client.Download(ctx, path)
	if err != nil {
		s.ctx.report(err, fixed)
		return nil, err
	}
	s.ctx.notify(ports.NotifySuccess, "results downloaded: "+download.Filename)
	return download, nil
}
