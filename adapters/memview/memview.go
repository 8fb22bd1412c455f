// Package memview provides in-memory view-model implementations. They stand
// in for the screen sections so the interaction layer runs and tests without
// any real UI attached.
package memview

import (
	"sync"

	"outlierlab/domain/calc"
	"outlierlab/domain/pass"
	"outlierlab/domain/table"
	"outlierlab/ports"
)

// Table is an editable grid held in memory.
type Table struct {
	mu     sync.Mutex
	header []string
	body   [][]table.Cell
}

var _ ports.TableView = (*Table)(nil)

// NewTable returns an empty grid.
func NewTable() *Table {
	return &Table{}
}

// ReadRows snapshots the grid contents.
func (t *Table) ReadRows() [][]table.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]table.Cell, len(t.body))
	for i, row := range t.body {
		out[i] = append([]table.Cell(nil), row...)
	}
	return out
}

// ReplaceAll regenerates the whole grid.
func (t *Table) ReplaceAll(header []string, body [][]table.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.header = append([]string(nil), header...)
	t.body = make([][]table.Cell, len(body))
	for i, row := range body {
		t.body[i] = append([]table.Cell(nil), row...)
	}
}

// DeleteRow removes one row by index.
func (t *Table) DeleteRow(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.body) {
		return false
	}
	t.body = append(t.body[:index], t.body[index+1:]...)
	return true
}

// Header returns the last rendered header order.
func (t *Table) Header() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.header...)
}

// SetCell edits one cell's raw text in place, like typing into an input.
func (t *Table) SetCell(row, col int, raw string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row < 0 || row >= len(t.body) || col < 0 || col >= len(t.body[row]) {
		return false
	}
	t.body[row][col].Raw = raw
	return true
}

// Meta holds the top-level metadata fields.
type Meta struct {
	sampleName     string
	productionDate string
	passCount      int
	customField    string
}

var _ ports.MetaView = (*Meta)(nil)

func NewMeta() *Meta {
	return &Meta{passCount: 1}
}

func (m *Meta) SampleName() string              { return m.sampleName }
func (m *Meta) SetSampleName(s string)          { m.sampleName = s }
func (m *Meta) ProductionDate() string          { return m.productionDate }
func (m *Meta) SetProductionDate(s string)      { m.productionDate = s }
func (m *Meta) PassCount() int                  { return m.passCount }
func (m *Meta) SetPassCount(n int)              { m.passCount = n }
func (m *Meta) CustomFieldName() string         { return m.customField }
func (m *Meta) SetCustomFieldLabel(name string) { m.customField = name }

// Group is one group section's record table.
type Group struct {
	mu      sync.Mutex
	records []pass.Record
}

var _ ports.GroupView = (*Group)(nil)

func NewGroup() *Group {
	return &Group{}
}

// ReplaceRecords swaps the rendered rows wholesale.
func (g *Group) ReplaceRecords(records []pass.Record) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = append([]pass.Record(nil), records...)
}

// Records returns the last rendered rows.
func (g *Group) Records() []pass.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]pass.Record(nil), g.records...)
}

// Results captures the detection result panel.
type Results struct {
	mu      sync.Mutex
	current *calc.Result
}

var _ ports.ResultsView = (*Results)(nil)

func NewResults() *Results {
	return &Results{}
}

func (r *Results) ShowDetection(result *calc.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = result
}

func (r *Results) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}

// Current returns the displayed result, nil when cleared.
func (r *Results) Current() *calc.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Trend captures the trend panel.
type Trend struct {
	Report *calc.TrendReport
}

var _ ports.TrendView = (*Trend)(nil)

func NewTrend() *Trend { return &Trend{} }

func (t *Trend) ShowTrend(report *calc.TrendReport) { t.Report = report }

// Correlation captures the custom-field correlation panel.
type Correlation struct {
	Report *calc.CorrelationReport
}

var _ ports.CorrelationView = (*Correlation)(nil)

func NewCorrelation() *Correlation { return &Correlation{} }

func (c *Correlation) ShowCorrelation(report *calc.CorrelationReport) { c.Report = report }

// Comparison captures the dataset comparison panel.
type Comparison struct {
	Report *calc.ComparisonReport
}

var _ ports.ComparisonView = (*Comparison)(nil)

func NewComparison() *Comparison { return &Comparison{} }

func (c *Comparison) ShowComparison(report *calc.ComparisonReport) { c.Report = report }

// Picker lists saved datasets and remembers the user's selection.
type Picker struct {
	Names     []string
	Counts    []int
	Selection string
}

var _ ports.DatasetPicker = (*Picker)(nil)

func NewPicker() *Picker { return &Picker{} }

func (p *Picker) SetOptions(names []string, counts []int) {
	p.Names = append([]string(nil), names...)
	p.Counts = append([]int(nil), counts...)
}

func (p *Picker) Selected() string { return p.Selection }

// Notification is one captured user-facing message.
type Notification struct {
	Level   ports.NotifyLevel
	Message string
}

// Notifier records notifications instead of showing them.
type Notifier struct {
	mu   sync.Mutex
	sent []Notification
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(level ports.NotifyLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{Level: level, Message: message})
}

// All returns every captured notification in order.
func (n *Notifier) All() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

// Last returns the most recent notification, if any.
func (n *Notifier) Last() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return Notification{}, false
	}
	return n.sent[len(n.sent)-1], true
}
