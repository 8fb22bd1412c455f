// Package app wires the interaction layer together: services that extract
// the canonical dataset from the views, synchronize it with the statistical
// service, and render authoritative responses back.
package app

import (
	"errors"
	"sync"

	"outlierlab/domain/calc"
	"outlierlab/domain/pass"
	"outlierlab/ports"
)

// Views collects the screen sections. Any of them may be nil; rendering into
// a missing section is a no-op.
type Views struct {
	Table        ports.TableView
	Meta         ports.MetaView
	Experimental ports.GroupView
	Control      ports.GroupView
	Results      ports.ResultsView
	Trend        ports.TrendView
	Correlation  ports.CorrelationView
	Comparison   ports.ComparisonView
	Picker       ports.DatasetPicker
}

// Context is the explicit application state shared by the services: the
// synchronization client, the views, the notifier, the cached last detection
// result and the threshold configuration. It is created once at startup and
// lives for the whole session.
type Context struct {
	Client   ports.SyncPort
	Views    Views
	Notifier ports.Notifier

	mu         sync.RWMutex
	lastResult *calc.Result
	thresholds calc.Thresholds
	ledger     *pass.Ledger
}

// NewContext builds a session context with default thresholds and empty
// group collections.
func NewContext(client ports.SyncPort, views Views, notifier ports.Notifier) *Context {
	return &Context{
		Client:     client,
		Views:      views,
		Notifier:   notifier,
		thresholds: calc.DefaultThresholds(),
		ledger:     pass.NewLedger(),
	}
}

// LastResult returns the cached detection result, nil when none has been
// produced since the last reset.
func (c *Context) LastResult() *calc.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastResult
}

// setLastResult overwrites the single cached slot wholesale.
func (c *Context) setLastResult(result *calc.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastResult = result
}

// Thresholds returns the current detection parameters.
func (c *Context) Thresholds() calc.Thresholds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.thresholds
}

// SetZScoreThreshold applies slider input.
func (c *Context) SetZScoreThreshold(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thresholds.SetZScore(v)
}

// SetIQRThreshold applies slider input.
func (c *Context) SetIQRThreshold(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thresholds.SetIQR(v)
}

// SetMADThreshold applies slider input.
func (c *Context) SetMADThreshold(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thresholds.SetMAD(v)
}

// Ledger exposes the group collections.
func (c *Context) Ledger() *pass.Ledger {
	return c.ledger
}

// notify is the nil-safe notification path.
func (c *Context) notify(level ports.NotifyLevel, message string) {
	if c.Notifier == nil {
		return
	}
	c.Notifier.Notify(level, message)
}

// report surfaces a failed round trip: an application-level rejection shows
// its message verbatim, anything else (transport or parse failure) shows the
// caller's fixed message with no detail propagated.
func (c *Context) report(err error, fixed string) {
	var remote *ports.RemoteError
	if errors.As(err, &remote) {
		c.notify(ports.NotifyError, remote.Message)
		return
	}
	c.notify(ports.NotifyError, fixed)
}

// cachedMethodResults flattens the last detection run into the comparison
// set used for removal-method classification.
func (c *Context) cachedMethodResults() []pass.MethodResult {
	result := c.LastResult()
	if result == nil {
		return nil
	}
	return []pass.MethodResult{
		{Method: pass.MethodZScore, Threshold: result.ZScore.Threshold, SizeMean: result.ZScore.SizeMean, PIMean: result.ZScore.PIMean},
		{Method: pass.MethodIQR, Threshold: result.IQR.Threshold, SizeMean: result.IQR.SizeMean, PIMean: result.IQR.PIMean},
		{Method: pass.MethodMAD, Threshold: result.MAD.Threshold, SizeMean: result.MAD.SizeMean, PIMean: result.MAD.PIMean},
	}
}
