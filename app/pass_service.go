package app

import (
	"context"
	"strings"

	"outlierlab/adapters/api"
	"outlierlab/domain/core"
	"outlierlab/domain/pass"
	"outlierlab/ports"
)

// GroupForm is one group's raw field inputs as the user typed them. Blank
// and unparsable fields coerce to null; a group is complete only when both
// averages survive coercion.
type GroupForm struct {
	SizeAvg     string
	PIAvg       string
	CustomValue string
}

// complete reports whether both required averages parsed.
func (f GroupForm) complete() (size, pi core.Value, ok bool) {
	size = core.Coerce(f.SizeAvg)
	pi = core.Coerce(f.PIAvg)
	return size, pi, size.Valid && pi.Valid
}

// BothGroupsForm is the add-both-groups dialog input.
type BothGroupsForm struct {
	SampleName     string
	CustomDataName string
	Experimental   GroupForm
	Control        GroupForm
}

// RecordForm is a single-group record entry.
type RecordForm struct {
	SampleName  string
	SizeAvg     string
	PIAvg       string
	CustomValue string
}

// PassService owns the pass-average collections: committing records,
// deleting them, and keeping both group tables mirroring the server's
// post-mutation lists by full replacement.
type PassService struct {
	ctx *Context
}

// NewPassService wires the group service into the session context.
func NewPassService(ctx *Context) *PassService {
	return &PassService{ctx: ctx}
}

// AddBothGroups commits one sample's averages to both groups in a single
// round trip. At least one group must carry both a size and a PI average;
// a group left blank is sent as an empty object so the server skips it.
func (s *PassService) AddBothGroups(ctx context.Context, form BothGroupsForm) error {
	sampleName := strings.TrimSpace(form.SampleName)
	if sampleName == "" {
		s.ctx.notify(ports.NotifyError, "sample name is required")
		return errValidation("sample name is required")
	}
	expSize, expPI, expOK := form.Experimental.complete()
	ctrlSize, ctrlPI, ctrlOK := form.Control.complete()
	if !expOK && !ctrlOK {
		s.ctx.notify(ports.NotifyError, "enter size and PI averages for at least one group")
		return errValidation("enter size and PI averages for at least one group")
	}
	req := api.AddBothGroupsRequest{
		SampleName:     sampleName,
		CustomDataName: strings.TrimSpace(form.CustomDataName),
	}
	if expOK {
		req.Experimental = s.groupValues(expSize, expPI, core.Coerce(form.Experimental.CustomValue))
	}
	if ctrlOK {
		req.Control = s.groupValues(ctrlSize, ctrlPI, core.Coerce(form.Control.CustomValue))
	}
	var resp api.GroupListResponse
	if err := s.ctx.Client.Post(ctx, api.PathAddBothGroups, req, &resp); err != nil {
		s.ctx.report(err, "failed to add the pass averages")
		return err
	}
	s.applyGroups(&resp)
	s.ctx.notify(ports.NotifySuccess, resp.Message)
	return nil
}

// groupValues builds one group's sub-payload, auto-tagging the removal
// method against the cached detection results.
func (s *PassService) groupValues(size, pi, custom core.Value) api.GroupValues {
	method, threshold := pass.ClassifyMethod(size.Num, pi.Num, s.ctx.cachedMethodResults(), "", "")
	values := api.GroupValues{
		SizeAvg:       &size.Num,
		PIAvg:         &pi.Num,
		RemovalMethod: method,
		ThresholdUsed: threshold,
	}
	if custom.Valid {
		values.CustomValue = &custom.Num
	}
	return values
}

// AddRecord commits one record to a single group through that group's own
// endpoint.
func (s *PassService) AddRecord(ctx context.Context, group pass.GroupType, form RecordForm) error {
	sampleName := strings.TrimSpace(form.SampleName)
	if sampleName == "" {
		s.ctx.notify(ports.NotifyError, "sample name is required")
		return errValidation("sample name is required")
	}
	size := core.Coerce(form.SizeAvg)
	pi := core.Coerce(form.PIAvg)
	if !size.Valid || !pi.Valid {
		s.ctx.notify(ports.NotifyError, "size and PI averages are required")
		return errValidation("size and PI averages are required")
	}
	method, threshold := pass.ClassifyMethod(size.Num, pi.Num, s.ctx.cachedMethodResults(), "", "")
	req := api.AddRecordRequest{
		SampleName:    sampleName,
		GroupType:     string(group),
		SizeAvg:       size.Num,
		PIAvg:         pi.Num,
		RemovalMethod: method,
		ThresholdUsed: threshold,
	}
	if custom := core.Coerce(form.CustomValue); custom.Valid {
		req.CustomValue = &custom.Num
	}
	path := api.PathAddExperimental
	if group == pass.GroupControl {
		path = api.PathAddControl
	}
	var resp api.GroupListResponse
	if err := s.ctx.Client.Post(ctx, path, req, &resp); err != nil {
		s.ctx.report(err, "failed to add the "+strings.ToLower(group.Label())+" record")
		return err
	}
	s.applyGroups(&resp)
	s.ctx.notify(ports.NotifySuccess, resp.Message)
	return nil
}

// AddFromCurrentResult commits the cached detection run's Z-Score cleaned
// averages as an experimental pass record. Without a cached run there is
// nothing to commit and no request is issued.
func (s *PassService) AddFromCurrentResult(ctx context.Context) error {
	result := s.ctx.LastResult()
	if result == nil {
		s.ctx.notify(ports.NotifyError, "run a calculation first")
		return errValidation("run a calculation first")
	}
	method, threshold := pass.ClassifyMethod(
		result.ZScore.SizeMean, result.ZScore.PIMean,
		s.ctx.cachedMethodResults(), "", "")
	req := api.AddRecordRequest{
		SampleName:    result.SampleName,
		SizeAvg:       result.ZScore.SizeMean,
		PIAvg:         result.ZScore.PIMean,
		RemovalMethod: method,
		ThresholdUsed: threshold,
	}
	var resp api.GroupListResponse
	if err := s.ctx.Client.Post(ctx, api.PathAddPassAverage, req, &resp); err != nil {
		s.ctx.report(err, "failed to add the pass average")
		return err
	}
	s.applyGroups(&resp)
	s.ctx.notify(ports.NotifySuccess, resp.Message)
	return nil
}

// DeleteRecord removes one record by sample name within its group.
// Correction is delete plus re-add; there is no edit-in-place.
func (s *PassService) DeleteRecord(ctx context.Context, group pass.GroupType, sampleName string) error {
	req := api.DeleteRecordRequest{
		SampleName: strings.TrimSpace(sampleName),
		GroupType:  string(group),
	}
	path := api.PathDeletePass
	if group == pass.GroupControl {
		path = api.PathDeleteControl
	}
	var resp api.GroupListResponse
	if err := s.ctx.Client.Post(ctx, path, req, &resp); err != nil {
		s.ctx.report(err, "failed to delete the record")
		return err
	}
	s.applyGroups(&resp)
	return nil
}

// applyGroups reconciles the ledger and both group views from whichever
// authoritative lists the response carries, always by full replacement.
func (s *PassService) applyGroups(resp *api.GroupListResponse) {
	ledger := s.ctx.Ledger()
	if resp.PassAverages != nil {
		ledger.ReplaceAll(resp.PassAverages)
	}
	if resp.Experimental != nil {
		ledger.Replace(pass.GroupExperimental, resp.Experimental)
	}
	if resp.Control != nil {
		ledger.Replace(pass.GroupControl, resp.Control)
	}
	if view := s.ctx.Views.Experimental; view != nil {
		view.ReplaceRecords(ledger.Group(pass.GroupExperimental))
	}
	if view := s.ctx.Views.Control; view != nil {
		view.ReplaceRecords(ledger.Group(pass.GroupControl))
	}
	if resp.CustomFieldName != "" && s.ctx.Views.Meta != nil {
		s.ctx.Views.Meta.SetCustomFieldLabel(resp.CustomFieldName)
	}
}

// ShowTrend fetches the pass trend analysis and renders it.
func (s *PassService) ShowTrend(ctx context.Context) error {
	var resp api.TrendResponse
	if err := s.ctx.Client.Get(ctx, api.PathTrendData, &resp); err != nil {
		s.ctx.report(err, "failed to load the pass trend")
		return err
	}
	if s.ctx.Views.Trend != nil {
		report := resp.TrendReport
		s.ctx.Views.Trend.ShowTrend(&report)
	}
	return nil
}

// ShowCorrelation fetches the custom-field correlation analysis and renders
// it.
func (s *PassService) ShowCorrelation(ctx context.Context) error {
	var resp api.CorrelationResponse
	if err := s.ctx.Client.Get(ctx, api.PathCorrelation, &resp); err != nil {
		s.ctx.report(err, "failed to load the correlation analysis")
		return err
	}
	if s.ctx.Views.Correlation != nil {
		report := resp.CorrelationReport
		s.ctx.Views.Correlation.ShowCorrelation(&report)
	}
	return nil
}
