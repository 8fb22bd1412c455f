package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"outlierlab/adapters/api"
	"outlierlab/domain/calc"
	"outlierlab/domain/table"
)

func TestCompareRequiresTwoDatasets(t *testing.T) {
	h := newHarness()
	svc := NewDatasetService(h.ctx, NewDataService(h.ctx))

	err := svc.Compare(context.Background(), []string{"only-one"})
	assert.True(t, IsValidation(err))
	h.client.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Nil(t, h.cmp.Report)
}

func TestCompareRendersReport(t *testing.T) {
	h := newHarness()
	h.client.On("Post", mock.Anything, api.PathCompareDatasets, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			req := args.Get(2).(api.CompareRequest)
			assert.Equal(t, []string{"batch-a", "batch-b"}, req.DatasetNames)
			resp := args.Get(3).(*api.CompareResponse)
			resp.StatsSummary = map[string]calc.DatasetStats{
				"batch-a": {Count: 12, SizeMean: 118.4},
				"batch-b": {Count: 8, SizeMean: 97.1},
			}
		}).
		Return(nil)

	svc := NewDatasetService(h.ctx, NewDataService(h.ctx))
	err := svc.Compare(context.Background(), []string{"batch-a", "batch-b"})
	assert.NoError(t, err)
	assert.NotNil(t, h.cmp.Report)
}

func TestSaveSynchronizesThenRefreshesList(t *testing.T) {
	h := newHarness()
	h.client.On("Post", mock.Anything, api.PathUpdateData, mock.Anything, mock.Anything).
		Return(nil)
	h.client.On("Post", mock.Anything, api.PathSaveDataset, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			req := args.Get(2).(api.DatasetRequest)
			assert.Equal(t, "batch-a", req.DatasetName)
		}).
		Return(nil)
	h.client.On("Get", mock.Anything, api.PathSavedDatasets, mock.Anything).
		Run(func(args mock.Arguments) {
			resp := args.Get(2).(*api.SavedDatasetsResponse)
			resp.Datasets = []api.SavedDatasetInfo{
				{Name: "batch-a", DataCount: 12},
				{Name: "batch-b", DataCount: 8},
			}
		}).
		Return(nil)

	svc := NewDatasetService(h.ctx, NewDataService(h.ctx))
	err := svc.Save(context.Background(), " batch-a ")
	assert.NoError(t, err)
	assert.Equal(t, []string{"batch-a", "batch-b"}, h.picker.Names)
	assert.Equal(t, []int{12, 8}, h.picker.Counts)
}

func TestSaveBlankNameNoRequest(t *testing.T) {
	h := newHarness()
	svc := NewDatasetService(h.ctx, NewDataService(h.ctx))

	err := svc.Save(context.Background(), "")
	assert.True(t, IsValidation(err))
	h.client.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadRestoresSessionViews(t *testing.T) {
	h := newHarness()
	h.client.On("Post", mock.Anything, api.PathLoadDataset, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			resp := args.Get(3).(*api.LoadDatasetResponse)
			resp.SampleName = "batch-a"
			resp.ProductionDate = "2025-02-14"
			resp.PassCount = 2
			resp.CustomFieldName = "Dose (mg)"
			resp.TableData = table.NewWithRows(4)
		}).
		Return(nil)

	svc := NewDatasetService(h.ctx, NewDataService(h.ctx))
	err := svc.Load(context.Background(), "batch-a")
	assert.NoError(t, err)
	assert.Equal(t, "batch-a", h.meta.SampleName())
	assert.Equal(t, 2, h.meta.PassCount())
	assert.Equal(t, "Dose (mg)", h.meta.CustomFieldName())
	assert.Len(t, h.grid.ReadRows(), 4)
}
