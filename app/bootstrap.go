package app

import (
	"context"

	"outlierlab/adapters/api"
	"outlierlab/domain/pass"
)

// Bootstrap feeds a server session snapshot through the same render paths a
// live response takes, so a reloaded page and a long-lived page end up in
// identical state.
type Bootstrap struct {
	ctx  *Context
	data *DataService
}

// NewBootstrap wires the bootstrap into the session context.
func NewBootstrap(ctx *Context, data *DataService) *Bootstrap {
	return &Bootstrap{ctx: ctx, data: data}
}

// Restore renders a snapshot: metadata, the measurement table and both
// group tables, all by full replacement.
func (b *Bootstrap) Restore(snapshot *api.SessionSnapshot) {
	if snapshot == nil {
		return
	}
	if meta := b.ctx.Views.Meta; meta != nil {
		meta.SetSampleName(snapshot.SampleName)
		meta.SetProductionDate(snapshot.ProductionDate)
		meta.SetPassCount(snapshot.PassCount)
		if snapshot.CustomFieldName != "" {
			meta.SetCustomFieldLabel(snapshot.CustomFieldName)
		}
	}
	b.data.renderTable(snapshot.TableData)
	ledger := b.ctx.Ledger()
	ledger.ReplaceAll(snapshot.PassAverages)
	if view := b.ctx.Views.Experimental; view != nil {
		view.ReplaceRecords(ledger.Group(pass.GroupExperimental))
	}
	if view := b.ctx.Views.Control; view != nil {
		view.ReplaceRecords(ledger.Group(pass.GroupControl))
	}
}

// LoadFromServer fetches the current session snapshot and restores it.
func (b *Bootstrap) LoadFromServer(ctx context.Context) error {
	var snapshot api.SessionSnapshot
	if err := b.ctx.Client.Get(ctx, api.PathSession, &snapshot); err != nil {
		b.ctx.report(err, "failed to restore the session")
		return err
	}
	b.Restore(&snapshot)
	return nil
}
