// Command cli drives a full scripted session against a running lab server:
// data entry, outlier detection, pass-average bookkeeping, trend and
// correlation panels, and the saved-dataset library. It exercises the same
// service layer the UI wiring uses, with in-memory views.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"outlierlab/adapters/api"
	"outlierlab/adapters/memview"
	"outlierlab/app"
	"outlierlab/domain/calc"
	"outlierlab/internal/config"
	"outlierlab/ports"
)

// consoleNotifier prints the user-facing notification stream.
type consoleNotifier struct{}

func (consoleNotifier) Notify(level ports.NotifyLevel, message string) {
	if message == "" {
		return
	}
	fmt.Printf("[%s] %s\n", level, message)
}

func main() {
	addr := flag.String("addr", "", "lab server base URL (overrides API_BASE_URL)")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}
	cfg := config.Load()
	if *addr != "" {
		cfg.Client.BaseURL = *addr
	}

	if err := run(cfg.Client.BaseURL); err != nil {
		log.Fatalf("session failed: %v", err)
	}
}

func run(baseURL string) error {
	ctx := context.Background()

	grid := memview.NewTable()
	meta := memview.NewMeta()
	results := memview.NewResults()
	trend := memview.NewTrend()
	correlation := memview.NewCorrelation()
	comparison := memview.NewComparison()
	picker := memview.NewPicker()

	appCtx := app.NewContext(api.NewClient(baseURL), app.Views{
		Table:        grid,
		Meta:         meta,
		Experimental: memview.NewGroup(),
		Control:      memview.NewGroup(),
		Results:      results,
		Trend:        trend,
		Correlation:  correlation,
		Comparison:   comparison,
		Picker:       picker,
	}, consoleNotifier{})

	data := app.NewDataService(appCtx)
	calcSvc := app.NewCalcService(appCtx, data)
	passes := app.NewPassService(appCtx)
	datasets := app.NewDatasetService(appCtx, data)
	boot := app.NewBootstrap(appCtx, data)

	if err := boot.LoadFromServer(ctx); err != nil {
		return err
	}
	if err := data.ResetData(ctx); err != nil {
		return err
	}

	meta.SetSampleName("cli-demo")
	meta.SetProductionDate("2026-08-31")
	meta.SetPassCount(1)
	sizes := []float64{120.5, 118.1, 119.7, 121.3, 118.9, 180.0}
	pis := []float64{0.12, 0.11, 0.13, 0.12, 0.11, 0.45}
	for i := range sizes {
		grid.SetCell(i, 0, strconv.FormatFloat(sizes[i], 'f', -1, 64))
		grid.SetCell(i, 1, strconv.FormatFloat(pis[i], 'f', -1, 64))
	}
	if err := data.UpdateData(ctx); err != nil {
		return err
	}

	if err := calcSvc.Calculate(ctx); err != nil {
		return err
	}
	printResult(results.Current())

	if err := passes.AddFromCurrentResult(ctx); err != nil {
		return err
	}
	dose := func(v string) app.GroupForm {
		return app.GroupForm{SizeAvg: "119.2", PIAvg: "0.12", CustomValue: v}
	}
	if err := passes.AddBothGroups(ctx, app.BothGroupsForm{
		SampleName:     "cli-demo-2",
		CustomDataName: "Dose (mg)",
		Experimental:   dose("2.5"),
		Control:        dose("0"),
	}); err != nil {
		return err
	}

	// The two analysis panels are independent fetches.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return passes.ShowTrend(groupCtx) })
	group.Go(func() error { return passes.ShowCorrelation(groupCtx) })
	if err := group.Wait(); err != nil {
		return err
	}
	if trend.Report != nil {
		fmt.Printf("trend: passes=%d correlation=%.3f size_cv=%.1f%%\n",
			trend.Report.Statistics.PassCount,
			trend.Report.Statistics.Correlation,
			trend.Report.Statistics.SizeCV)
	}
	if correlation.Report != nil {
		fmt.Printf("%s correlation=%.3f over %d records\n",
			correlation.Report.CustomFieldName,
			correlation.Report.Statistics.Correlation,
			correlation.Report.Statistics.TotalCount)
	}

	if err := datasets.Save(ctx, "cli-demo"); err != nil {
		return err
	}
	fmt.Printf("saved datasets: %v\n", picker.Names)
	return nil
}

func printResult(result *calc.Result) {
	if result == nil {
		return
	}
	fmt.Printf("detection over %d rows:\n", result.OriginalCount)
	for _, method := range []struct {
		name    string
		summary calc.MethodSummary
	}{
		{"Z-Score", result.ZScore},
		{"IQR", result.IQR},
		{"MAD", result.MAD},
	} {
		fmt.Printf("  %-8s t=%-4v kept=%d outliers=%d size=%.2f±%.2f pi=%.3f±%.3f\n",
			method.name, method.summary.Threshold,
			method.summary.Count, method.summary.OutliersCount,
			method.summary.SizeMean, method.summary.SizeStd,
			method.summary.PIMean, method.summary.PIStd)
	}
}
