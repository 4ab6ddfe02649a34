// Package tui implements a live terminal dashboard over a metrics.Recorder,
// refreshing periodically so an operator can watch sweep or replay
// progress without tailing log output.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ChristianF88/onesweep/histogram"
	"github.com/ChristianF88/onesweep/metrics"
)

// App is a live dashboard over a metrics.Recorder. Construct with NewApp
// and call Run to take over the terminal.
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	status *tview.TextView
	table  *tview.Table
	digits *tview.TextView

	rec      *metrics.Recorder
	refresh  time.Duration
	stopped  atomic.Bool
	mu       sync.Mutex
	lastHist *histogram.Matrix
}

// NewApp builds a dashboard that polls rec every refresh interval.
func NewApp(rec *metrics.Recorder, refresh time.Duration) *App {
	if refresh <= 0 {
		refresh = 500 * time.Millisecond
	}

	a := &App{
		app:     tview.NewApplication(),
		pages:   tview.NewPages(),
		rec:     rec,
		refresh: refresh,
	}
	a.setupUI()
	return a
}

func (a *App) setupUI() {
	a.status = tview.NewTextView().SetDynamicColors(true)
	a.status.SetBorder(true).SetTitle(" onesweep ")

	a.table = tview.NewTable().SetBorders(false).SetFixed(1, 0)
	a.table.SetBorder(true).SetTitle(" workloads ")
	a.table.SetCell(0, 0, tview.NewTableCell("workload").SetSelectable(false).SetTextColor(tcell.ColorYellow))
	a.table.SetCell(0, 1, tview.NewTableCell("runs").SetSelectable(false).SetTextColor(tcell.ColorYellow))
	a.table.SetCell(0, 2, tview.NewTableCell("mean").SetSelectable(false).SetTextColor(tcell.ColorYellow))
	a.table.SetCell(0, 3, tview.NewTableCell("stalls").SetSelectable(false).SetTextColor(tcell.ColorYellow))
	a.table.SetCell(0, 4, tview.NewTableCell("errors").SetSelectable(false).SetTextColor(tcell.ColorYellow))

	a.digits = tview.NewTextView().SetDynamicColors(true)
	a.digits.SetBorder(true).SetTitle(" digit histogram (radix group 0) ")

	body := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.status, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(a.table, 0, 2, true).
			AddItem(a.digits, 0, 1, false),
			0, 1, true)

	a.pages.AddPage("main", body, true, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			a.app.Stop()
			return nil
		}
		return event
	})
}

// SetHistogram updates the digit histogram panel with a fresh matrix, e.g.
// one computed for the workload currently being sorted.
func (a *App) SetHistogram(h histogram.Matrix) {
	a.mu.Lock()
	a.lastHist = &h
	a.mu.Unlock()
}

// Run starts the tview event loop and blocks until the user quits or Stop
// is called. It launches its own polling goroutine to refresh the display.
func (a *App) Run() error {
	go a.pollLoop()
	return a.app.SetRoot(a.pages, true).Run()
}

// Stop tears down the dashboard's polling loop and event loop.
func (a *App) Stop() {
	a.stopped.Store(true)
	a.app.Stop()
}

func (a *App) pollLoop() {
	ticker := time.NewTicker(a.refresh)
	defer ticker.Stop()
	for range ticker.C {
		if a.stopped.Load() {
			return
		}
		a.app.QueueUpdateDraw(a.render)
	}
}

func (a *App) render() {
	snap := a.rec.Snapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	for row := a.table.GetRowCount() - 1; row > 0; row-- {
		a.table.RemoveRow(row)
	}
	for i, name := range names {
		stat := snap[name]
		row := i + 1
		a.table.SetCell(row, 0, tview.NewTableCell(name))
		a.table.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("%d", stat.TotalRuns)))
		a.table.SetCell(row, 2, tview.NewTableCell(stat.Mean().String()))
		a.table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", stat.SpinStalls)))
		a.table.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%d", stat.TotalErrors)))
	}

	a.status.SetText(fmt.Sprintf("[yellow]%d[white] workloads tracked  ·  refresh every %s  ·  press q to quit",
		len(names), a.refresh))

	a.mu.Lock()
	h := a.lastHist
	a.mu.Unlock()
	if h != nil {
		a.digits.SetText(renderDigitBars(h[0][:]))
	}
}

// renderDigitBars draws a compact ASCII sparkline of one histogram row,
// bucketing the 256 digits into 64 columns so the bars fit a typical
// terminal width.
func renderDigitBars(row []uint32) string {
	const buckets = 64
	bucketWidth := len(row) / buckets
	if bucketWidth == 0 {
		bucketWidth = 1
	}

	sums := make([]uint32, 0, buckets)
	var max uint32
	for i := 0; i < len(row); i += bucketWidth {
		end := i + bucketWidth
		if end > len(row) {
			end = len(row)
		}
		var sum uint32
		for _, v := range row[i:end] {
			sum += v
		}
		sums = append(sums, sum)
		if sum > max {
			max = sum
		}
	}

	const barLevels = "▁▂▃▄▅▆▇█"
	levels := []rune(barLevels)
	var b strings.Builder
	for _, sum := range sums {
		if max == 0 {
			b.WriteByte(' ')
			continue
		}
		level := int(float64(sum) / float64(max) * float64(len(levels)-1))
		b.WriteRune(levels[level])
	}
	return b.String()
}
