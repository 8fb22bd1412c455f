package ports

import (
	"outlierlab/domain/calc"
	"outlierlab/domain/pass"
	"outlierlab/domain/table"
)

// NotifyLevel classifies a user-facing notification.
type NotifyLevel string

const (
	NotifyInfo    NotifyLevel = "info"
	NotifySuccess NotifyLevel = "success"
	NotifyError   NotifyLevel = "error"
)

// Notifier is the single user-facing message channel. Local precondition
// failures, transport failures and server rejections all report through it.
type Notifier interface {
	Notify(level NotifyLevel, message string)
}

// TableView is the editable measurement grid of the table section.
type TableView interface {
	// ReadRows snapshots the current grid top to bottom. The first two
	// cells of a row are the Size(nm) and PI inputs; later cells carry
	// their column tag.
	ReadRows() [][]table.Cell
	// ReplaceAll regenerates the whole grid from an authoritative render
	// plan. There is no incremental patching.
	ReplaceAll(header []string, body [][]table.Cell)
	// DeleteRow removes exactly one row by index.
	DeleteRow(index int) bool
}

// MetaView holds the top-level metadata fields above the grid.
type MetaView interface {
	SampleName() string
	SetSampleName(string)
	ProductionDate() string
	SetProductionDate(string)
	PassCount() int
	SetPassCount(int)
	CustomFieldName() string
	SetCustomFieldLabel(string)
}

// GroupView is one group section's record table. It is only ever replaced
// wholesale from a post-mutation server list.
type GroupView interface {
	ReplaceRecords([]pass.Record)
}

// ResultsView presents a detection run: the summary cards and the scatter
// chart handed through to the plotting layer.
type ResultsView interface {
	ShowDetection(*calc.Result)
	Clear()
}

// TrendView presents the pass trend panel.
type TrendView interface {
	ShowTrend(*calc.TrendReport)
}

// CorrelationView presents the custom-field correlation panel.
type CorrelationView interface {
	ShowCorrelation(*calc.CorrelationReport)
}

// ComparisonView presents the saved-dataset comparison panel.
type ComparisonView interface {
	ShowComparison(*calc.ComparisonReport)
}

// DatasetPicker lists the saved datasets available for load and compare.
type DatasetPicker interface {
	SetOptions(names []string, counts []int)
	Selected() string
}
