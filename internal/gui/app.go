// Package gui is the desktop front end: a thin consumer of the registry,
// pipeline and codec packages.
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"imageflow/internal/codec"
	"imageflow/internal/core"
	"imageflow/internal/filters"
	"imageflow/internal/gpu"
)

// Application is the main window and its state.
type Application struct {
	app    fyne.App
	window fyne.Window
	log    *logrus.Logger

	// Core components
	registry *core.Registry
	pipeline *core.Pipeline
	loader   *codec.Loader
	gpuCtx   *gpu.Context

	source *core.Image
	result *core.Image

	// GUI components
	preview      *canvas.Image
	filterList   *widget.List
	stageList    *widget.List
	progress     *widget.ProgressBar
	statusLabel  *widget.Label
	metricsLabel *widget.Label
	gpuCheck     *widget.Check

	filterIDs     []string
	selectedStage int
}

// NewApplication builds the main window.
func NewApplication(app fyne.App, logger *logrus.Logger, debugMode bool) *Application {
	window := app.NewWindow("ImageFlow")
	window.Resize(fyne.NewSize(1280, 840))
	window.CenterOnScreen()

	a := &Application{
		app:           app,
		window:        window,
		log:           logger,
		selectedStage: -1,
	}

	a.initializeCore()
	a.initializeGUI()
	a.setupLayout()
	return a
}

// ShowAndRun displays the window and enters the event loop.
func (a *Application) ShowAndRun() {
	a.window.ShowAndRun()
	a.gpuCtx.Close()
}

func (a *Application) initializeCore() {
	a.registry = core.NewRegistry(a.log)
	filters.RegisterBuiltins(a.registry)

	a.gpuCtx = gpu.NewContext(a.log)
	if a.gpuCtx.Ready() {
		gpu.RegisterAccelerated(a.registry, a.gpuCtx)
	}

	a.pipeline = core.NewPipeline(a.log)
	a.pipeline.SetMode(core.ModeCPUOnly)
	a.loader = codec.NewLoader(a.log)
	a.filterIDs = a.registry.IDs()
}

func (a *Application) initializeGUI() {
	a.preview = canvas.NewImageFromImage(nil)
	a.preview.FillMode = canvas.ImageFillContain
	a.preview.SetMinSize(fyne.NewSize(640, 480))

	a.filterList = widget.NewList(
		func() int { return len(a.filterIDs) },
		func() fyne.CanvasObject { return widget.NewLabel("filter") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			info, _ := a.registry.Info(a.filterIDs[i])
			label := info.Name
			if info.HasAccelerator {
				label += " (GPU)"
			}
			o.(*widget.Label).SetText(label)
		},
	)
	a.filterList.OnSelected = func(i widget.ListItemID) {
		a.addFilter(a.filterIDs[i])
		a.filterList.UnselectAll()
	}

	a.stageList = widget.NewList(
		func() int { return a.pipeline.Size() },
		func() fyne.CanvasObject { return widget.NewLabel("stage") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			f, err := a.pipeline.FilterAt(i)
			if err != nil {
				return
			}
			o.(*widget.Label).SetText(fmt.Sprintf("%d. %s", i+1, f.Name()))
		},
	)
	a.stageList.OnSelected = func(i widget.ListItemID) { a.selectedStage = i }
	a.stageList.OnUnselected = func(widget.ListItemID) { a.selectedStage = -1 }

	a.progress = widget.NewProgressBar()
	a.statusLabel = widget.NewLabel("Open an image to start")
	a.metricsLabel = widget.NewLabel("")
	a.metricsLabel.Wrapping = fyne.TextWrapWord

	a.gpuCheck = widget.NewCheck("Use GPU when available", func(on bool) {
		if on {
			a.pipeline.SetMode(core.ModeAcceleratorPreferred)
		} else {
			a.pipeline.SetMode(core.ModeCPUOnly)
		}
	})
	a.gpuCheck.Disable()
	if a.gpuCtx.Ready() {
		a.gpuCheck.Enable()
	}
}

func (a *Application) setupLayout() {
	toolbar := container.NewHBox(
		widget.NewButton("Open...", a.openImage),
		widget.NewButton("Save Result...", a.saveImage),
		widget.NewButton("Apply Pipeline", a.applyPipeline),
		a.gpuCheck,
	)

	stageButtons := container.NewHBox(
		widget.NewButton("Up", func() { a.moveStage(-1) }),
		widget.NewButton("Down", func() { a.moveStage(1) }),
		widget.NewButton("Remove", a.removeStage),
		widget.NewButton("Clear", a.clearStages),
	)

	left := widget.NewCard("Filters", "Click to add to the pipeline", a.filterList)
	right := container.NewBorder(
		widget.NewCard("Pipeline", "", nil),
		container.NewVBox(stageButtons, a.metricsLabel),
		nil, nil,
		a.stageList,
	)

	center := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		container.NewVBox(a.progress, a.statusLabel),
		nil, nil,
		container.NewPadded(a.preview),
	)

	split := container.NewHSplit(left, container.NewHSplit(center, right))
	split.SetOffset(0.18)
	a.window.SetContent(split)
}

func (a *Application) openImage() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()

		img, err := a.loader.Load(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.source = img
		a.result = nil
		a.statusLabel.SetText(fmt.Sprintf("Loaded %s: %s", path, img))
		a.updatePreview(img)
	}, a.window)
	fd.SetFilter(storage.NewExtensionFileFilter(a.loader.SupportedFormats()))
	fd.Show()
}

func (a *Application) saveImage() {
	img := a.result
	if img == nil {
		img = a.source
	}
	if img == nil {
		dialog.ShowInformation("Nothing to save", "Open and process an image first", a.window)
		return
	}
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()

		if err := a.loader.Save(path, img); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.statusLabel.SetText("Saved " + path)
	}, a.window)
	fd.SetFilter(storage.NewExtensionFileFilter(a.loader.SupportedFormats()))
	fd.Show()
}

func (a *Application) addFilter(id string) {
	f, err := a.registry.Create(id, a.pipeline.Mode().PreferAccelerator())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if err := a.pipeline.AddFilter(f); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.stageList.Refresh()
}

func (a *Application) moveStage(direction int) {
	if a.selectedStage < 0 {
		return
	}
	var err error
	if direction < 0 {
		err = a.pipeline.MoveFilterUp(a.selectedStage)
	} else {
		err = a.pipeline.MoveFilterDown(a.selectedStage)
	}
	if err != nil {
		return
	}
	next := a.selectedStage + direction
	if next >= 0 && next < a.pipeline.Size() {
		a.stageList.Select(next)
	}
	a.stageList.Refresh()
}

func (a *Application) removeStage() {
	if a.selectedStage < 0 {
		return
	}
	if err := a.pipeline.RemoveFilter(a.selectedStage); err != nil {
		return
	}
	a.selectedStage = -1
	a.stageList.UnselectAll()
	a.stageList.Refresh()
}

func (a *Application) clearStages() {
	a.pipeline.Clear()
	a.selectedStage = -1
	a.stageList.UnselectAll()
	a.stageList.Refresh()
}

func (a *Application) applyPipeline() {
	if a.source == nil {
		dialog.ShowInformation("No image", "Open an image first", a.window)
		return
	}
	a.progress.SetValue(0)
	a.statusLabel.SetText("Processing " + a.pipeline.Describe())

	// Snapshot the input on the UI thread; openImage may replace
	// a.source while the pipeline is running.
	src := a.source
	go func() {
		out, metrics, err := a.pipeline.ApplyWithMetrics(src)
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.result = out
			a.progress.SetValue(1)
			a.statusLabel.SetText("Done: " + out.String())
			a.metricsLabel.SetText(formatMetrics(metrics))
			a.updatePreview(out)
		})
	}()
}

func (a *Application) updatePreview(img *core.Image) {
	goImg, err := PreviewImage(img, maxPreviewWidth, maxPreviewHeight)
	if err != nil {
		a.log.WithError(err).Warn("cannot render preview")
		return
	}
	a.preview.Image = goImg
	a.preview.Refresh()
}

func formatMetrics(m *core.Metrics) string {
	if m == nil || len(m.FilterNames) == 0 {
		return ""
	}
	text := ""
	for i, name := range m.FilterNames {
		where := "cpu"
		if m.AcceleratorUsed[i] {
			where = "gpu"
		}
		text += fmt.Sprintf("%s: %.2f ms [%s]\n",
			name, float64(m.FilterTimes[i].Microseconds())/1000.0, where)
	}
	text += fmt.Sprintf("total: %.2f ms", float64(m.TotalTime.Microseconds())/1000.0)
	return text
}
