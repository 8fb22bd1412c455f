package app

import (
	"context"
	"io"
	"sort"
	"strings"

	"outlierlab/adapters/api"
	"outlierlab/domain/table"
	"outlierlab/ports"
)

// DataService owns the measurement table: extraction of the canonical
// dataset from the view, synchronization with the service, and
// full-replacement rendering of the authoritative copy that comes back.
type DataService struct {
	ctx *Context
}

// NewDataService wires the table service into the session context.
func NewDataService(ctx *Context) *DataService {
	return &DataService{ctx: ctx}
}

// snapshot extracts the canonical dataset from the current grid state.
func (s *DataService) snapshot() *table.Dataset {
	if s.ctx.Views.Table == nil {
		return table.New()
	}
	return table.Extract(s.ctx.Views.Table.ReadRows())
}

// renderTable replaces the whole grid from a canonical dataset. Partial
// patching is deliberately absent: the dataset always arrives complete, so
// stale fragments cannot survive a render.
func (s *DataService) renderTable(d *table.Dataset) {
	if s.ctx.Views.Table == nil || d == nil {
		return
	}
	header, body := table.RenderPlan(d)
	s.ctx.Views.Table.ReplaceAll(header, body)
}

// UpdateData pushes the latest metadata and grid snapshot to the service.
// This runs after every relevant field change; the server copy becomes
// authoritative once it acknowledges.
func (s *DataService) UpdateData(ctx context.Context) error {
	req := api.UpdateDataRequest{TableData: s.snapshot()}
	if meta := s.ctx.Views.Meta; meta != nil {
		req.SampleName = meta.SampleName()
		req.ProductionDate = meta.ProductionDate()
		req.PassCount = meta.PassCount()
	}
	if err := s.ctx.Client.Post(ctx, api.PathUpdateData, req, nil); err != nil {
		s.ctx.report(err, "failed to update the measurement data")
		return err
	}
	return nil
}

// AddRow asks the service for one more row and renders the returned table.
// The grid is never mutated speculatively.
func (s *DataService) AddRow(ctx context.Context) error {
	var resp api.TableResponse
	if err := s.ctx.Client.Post(ctx, api.PathAddRow, nil, &resp); err != nil {
		s.ctx.report(err, "failed to add a row")
		return err
	}
	s.renderTable(resp.TableData)
	return nil
}

// AddColumn asks the service for a new user column. The name must be
// non-blank; uniqueness is the server's call.
func (s *DataService) AddColumn(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.ctx.notify(ports.NotifyError, "column name is required")
		return errValidation("column name is required")
	}
	var resp api.TableResponse
	if err := s.ctx.Client.Post(ctx, api.PathAddColumn, api.AddColumnRequest{ColumnName: name}, &resp); err != nil {
		s.ctx.report(err, "failed to add a column")
		return err
	}
	s.renderTable(resp.TableData)
	return nil
}

// ResetData clears the session server-side and renders the fresh state:
// metadata, table, results panel and the cached detection result all go.
func (s *DataService) ResetData(ctx context.Context) error {
	var resp api.ResetResponse
	if err := s.ctx.Client.Post(ctx, api.PathResetData, nil, &resp); err != nil {
		s.ctx.report(err, "failed to reset the data")
		return err
	}
	if meta := s.ctx.Views.Meta; meta != nil {
		meta.SetSampleName(resp.SampleName)
		meta.SetProductionDate(resp.ProductionDate)
		meta.SetPassCount(resp.PassCount)
	}
	s.renderTable(resp.TableData)
	if s.ctx.Views.Results != nil {
		s.ctx.Views.Results.Clear()
	}
	s.ctx.setLastResult(nil)
	return nil
}

// DeleteRow removes exactly one grid row by index, then re-extracts and
// re-synchronizes the whole dataset; remaining rows renumber by position.
func (s *DataService) DeleteRow(ctx context.Context, index int) error {
	if s.ctx.Views.Table == nil || !s.ctx.Views.Table.DeleteRow(index) {
		return nil
	}
	return s.UpdateData(ctx)
}

// UploadFile sends a spreadsheet to the service and renders the parsed
// table it returns, reporting the header mapping when one is included.
func (s *DataService) UploadFile(ctx context.Context, filename string, file io.Reader) error {
	var resp api.UploadResponse
	if err := s.ctx.Client.Upload(ctx, api.PathUploadFile, "file", filename, file, &resp); err != nil {
		s.ctx.report(err, "failed to upload the file")
		return err
	}
	s.renderTable(resp.TableData)
	s.ctx.notify(ports.NotifySuccess, resp.Message)
	if len(resp.ColumnsMapped) > 0 {
		var lines []string
		for from, to := range resp.ColumnsMapped {
			if to != "" {
				lines = append(lines, from+": "+to)
			}
		}
		sort.Strings(lines)
		s.ctx.notify(ports.NotifyInfo, "column mapping:\n"+strings.Join(lines, "\n"))
	}
	return nil
}

// DownloadTableData synchronizes the current grid first, then fetches the
// CSV export, with or without the metadata block.
func (s *DataService) DownloadTableData(ctx context.Context, dataOnly bool) (*ports.FileDownload, error) {
	if err := s.UpdateData(ctx); err != nil {
		return nil, err
	}
	path := api.PathDownloadTable
	if dataOnly {
		path += "?data_only=true"
	}
	download, err := s.ctx.Client.Download(ctx, path)
	if err != nil {
		s.ctx.report(err, "failed to download the table data")
		return nil, err
	}
	s.ctx.notify(ports.NotifySuccess, "table data downloaded: "+download.Filename)
	return download, nil
}
