package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"outlierlab/adapters/api"
	"outlierlab/domain/calc"
	"outlierlab/ports"
)

var calcResultFixture = calc.Result{
	OriginalCount:  12,
	SampleName:     "LNP-042",
	ProductionDate: "2025-03-01",
	PassCount:      3,
	ZScore:         calc.MethodSummary{Threshold: 3.0, Count: 11, OutliersCount: 1, SizeMean: 118.4, SizeStd: 4.2, PIMean: 0.118, PIStd: 0.01},
	IQR:            calc.MethodSummary{Threshold: 1.5, Count: 10, OutliersCount: 2, SizeMean: 117.9, SizeStd: 3.9, PIMean: 0.117, PIStd: 0.009},
	MAD:            calc.MethodSummary{Threshold: 3.5, Count: 11, OutliersCount: 1, SizeMean: 118.4, SizeStd: 4.2, PIMean: 0.118, PIStd: 0.01},
	ScatterPlot:    calc.ChartSpec(`{"data":[],"layout":{}}`),
}

func TestCalculateCachesAndRendersResult(t *testing.T) {
	h := newHarness()
	h.ctx.SetZScoreThreshold(2.5)

	h.client.On("Post", mock.Anything, api.PathUpdateData, mock.Anything, mock.Anything).
		Return(nil)

	var sent api.CalculateRequest
	h.client.On("Post", mock.Anything, api.PathCalculate, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(2).(api.CalculateRequest)
			resp := args.Get(3).(*api.CalculationResponse)
			resp.Result = calcResultFixture
		}).
		Return(nil)

	svc := NewCalcService(h.ctx, NewDataService(h.ctx))
	err := svc.Calculate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2.5, sent.Thresholds.ZScore)
	assert.Equal(t, 1.5, sent.Thresholds.IQR)

	cached := h.ctx.LastResult()
	assert.NotNil(t, cached)
	assert.Equal(t, calcResultFixture, *cached)
	assert.Equal(t, cached, h.results.Current())
}

func TestCalculateUpdateFailureSkipsDetection(t *testing.T) {
	h := newHarness()
	h.client.On("Post", mock.Anything, api.PathUpdateData, mock.Anything, mock.Anything).
		Return(&ports.RemoteError{Message: "no data"})

	svc := NewCalcService(h.ctx, NewDataService(h.ctx))
	err := svc.Calculate(context.Background())
	assert.Error(t, err)
	h.client.AssertNotCalled(t, "Post", mock.Anything, api.PathCalculate, mock.Anything, mock.Anything)
	assert.Nil(t, h.ctx.LastResult())
}

func TestDownloadCSVRequiresCachedResult(t *testing.T) {
	h := newHarness()
	svc := NewCalcService(h.ctx, NewDataService(h.ctx))

	download, err := svc.DownloadCSV(context.Background())
	assert.Nil(t, download)
	assert.True(t, IsValidation(err))
	h.client.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)

	last, ok := h.notifier.Last()
	assert.True(t, ok)
	assert.Equal(t, ports.NotifyError, last.Level)
}

func TestDownloadCombinedReturnsFile(t *testing.T) {
	h := newHarness()
	h.ctx.setLastResult(&calcResultFixture)
	h.client.On("Download", mock.Anything, api.PathDownloadCombined).
		Return(&ports.FileDownload{Filename: "combined_results.csv", Data: []byte("a,b\n")}, nil)

	svc := NewCalcService(h.ctx, NewDataService(h.ctx))
	download, err := svc.DownloadCombined(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "combined_results.csv", download.Filename)

	last, ok := h.notifier.Last()
	assert.True(t, ok)
	assert.Equal(t, ports.NotifySuccess, last.Level)
}
