package app

import (
	"context"
	"strings"

	"outlierlab/adapters/api"
	"outlierlab/ports"
)

// DatasetService manages the saved-dataset library: persisting the current
// session under a name, restoring one, and comparing several side by side.
type DatasetService struct {
	ctx  *Context
	data *DataService
}

// NewDatasetService wires the dataset service into the session context.
func NewDatasetService(ctx *Context, data *DataService) *DatasetService {
	return &DatasetService{ctx: ctx, data: data}
}

// Save synchronizes the current session, then stores it under the given
// name. The listing refreshes so the new entry is immediately loadable.
func (s *DatasetService) Save(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.ctx.notify(ports.NotifyError, "dataset name is required")
		return errValidation("dataset name is required")
	}
	if err := s.data.UpdateData(ctx); err != nil {
		return err
	}
	var resp api.Envelope
	if err := s.ctx.Client.Post(ctx, api.PathSaveDataset, api.DatasetRequest{DatasetName: name}, &resp); err != nil {
		s.ctx.report(err, "failed to save the dataset")
		return err
	}
	s.ctx.notify(ports.NotifySuccess, resp.Message)
	return s.RefreshList(ctx)
}

// Load restores a saved dataset into the session: metadata, the full table
// and the custom field label all render from the response.
func (s *DatasetService) Load(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.ctx.notify(ports.NotifyError, "choose a dataset to load")
		return errValidation("choose a dataset to load")
	}
	var resp api.LoadDatasetResponse
	if err := s.ctx.Client.Post(ctx, api.PathLoadDataset, api.DatasetRequest{DatasetName: name}, &resp); err != nil {
		s.ctx.report(err, "failed to load the dataset")
		return err
	}
	if meta := s.ctx.Views.Meta; meta != nil {
		meta.SetSampleName(resp.SampleName)
		meta.SetProductionDate(resp.ProductionDate)
		meta.SetPassCount(resp.PassCount)
		if resp.CustomFieldName != "" {
			meta.SetCustomFieldLabel(resp.CustomFieldName)
		}
	}
	s.data.renderTable(resp.TableData)
	s.ctx.notify(ports.NotifySuccess, resp.Message)
	return nil
}

// Delete removes a saved dataset and refreshes the listing.
func (s *DatasetService) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.ctx.notify(ports.NotifyError, "choose a dataset to delete")
		return errValidation("choose a dataset to delete")
	}
	var resp api.Envelope
	if err := s.ctx.Client.Post(ctx, api.PathDeleteDataset, api.DatasetRequest{DatasetName: name}, &resp); err != nil {
		s.ctx.report(err, "failed to delete the dataset")
		return err
	}
	s.ctx.notify(ports.NotifySuccess, resp.Message)
	return s.RefreshList(ctx)
}

// RefreshList fetches the saved-dataset listing into the picker.
func (s *DatasetService) RefreshList(ctx context.Context) error {
	var resp api.SavedDatasetsResponse
	if err := s.ctx.Client.Get(ctx, api.PathSavedDatasets, &resp); err != nil {
		s.ctx.report(err, "failed to list the saved datasets")
		return err
	}
	if s.ctx.Views.Picker != nil {
		names := make([]string, len(resp.Datasets))
		counts := make([]int, len(resp.Datasets))
		for i, info := range resp.Datasets {
			names[i] = info.Name
			counts[i] = info.DataCount
		}
		s.ctx.Views.Picker.SetOptions(names, counts)
	}
	return nil
}

// Compare runs a side-by-side comparison of saved datasets. Fewer than two
// names is rejected locally; the server would only echo the same complaint.
func (s *DatasetService) Compare(ctx context.Context, names []string) error {
	if len(names) < 2 {
		s.ctx.notify(ports.NotifyError, "select at least two datasets to compare")
		return errValidation("select at least two datasets to compare")
	}
	var resp api.CompareResponse
	if err := s.ctx.Client.Post(ctx, api.PathCompareDatasets, api.CompareRequest{DatasetNames: names}, &resp); err != nil {
		s.ctx.report(err, "failed to compare the datasets")
		return err
	}
	if s.ctx.Views.Comparison != nil {
		report := resp.ComparisonReport
		s.ctx.Views.Comparison.ShowComparison(&report)
	}
	return nil
}
