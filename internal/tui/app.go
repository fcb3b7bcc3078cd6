package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/rivo/tview"

	"raybrowser/internal/config"
	"raybrowser/internal/log"
	"raybrowser/internal/region"
	"raybrowser/internal/session"
	"raybrowser/internal/tui/components"
	"raybrowser/internal/tui/handlers"
)

const modalPage = "modal"

// BrowserApp is the interactive path browser
type BrowserApp struct {
	app     *tview.Application
	cfg     *config.Config
	session *session.Session

	pages    *tview.Pages
	mainGrid *tview.Grid

	panelComponent  *components.PanelComponent
	statusComponent *components.StatusComponent
	inputHandler    *handlers.InputHandler

	poster *orderedPoster
	stop   chan struct{}
}

// NewApplication creates the browser. The session and the widgets are only
// touched from the tview event goroutine.
func NewApplication(cfg *config.Config) (*BrowserApp, error) {
	app := tview.NewApplication()

	ba := &BrowserApp{
		app:             app,
		cfg:             cfg,
		panelComponent:  components.NewPanelComponent(),
		statusComponent: components.NewStatusComponent(cfg.Server.URL),
		stop:            make(chan struct{}),
	}

	ba.poster = newOrderedPoster(func(f func()) {
		app.QueueUpdateDraw(func() {
			f()
			ba.refresh()
		})
	})

	sess, err := session.New(cfg, ba.poster.Post)
	if err != nil {
		return nil, err
	}
	ba.session = sess

	ba.inputHandler = handlers.NewInputHandler(handlers.Callbacks{
		OnStep:        ba.step,
		OnCycleRegion: ba.cycleRegion,
		OnNewPath:     ba.showNewPathDialog,
		OnAddRegion:   ba.showAddRegionDialog,
		OnJump:        ba.showJumpDialog,
		OnExportGraph: ba.exportGraph,
		OnExit:        ba.exit,
	})

	ba.setupUI()
	app.SetInputCapture(ba.inputHandler.HandleKeyEvent)

	return ba, nil
}

func (ba *BrowserApp) setupUI() {
	ba.mainGrid = tview.NewGrid().
		SetRows(0, 1).
		SetColumns(28, 0).
		SetBorders(false)

	ba.mainGrid.AddItem(ba.panelComponent.GetRegionView(), 0, 0, 1, 1, 0, 0, false)
	ba.mainGrid.AddItem(ba.panelComponent.GetElementView(), 0, 1, 1, 1, 0, 0, true)
	ba.mainGrid.AddItem(ba.statusComponent.GetWrapper(), 1, 0, 1, 2, 0, 0, false)

	ba.pages = tview.NewPages()
	ba.pages.AddPage("main", ba.mainGrid, true, true)

	ba.app.SetRoot(ba.pages, true)
}

// Run starts reply forwarding and the readahead ticker, then blocks until
// the user quits
func (ba *BrowserApp) Run() error {
	go ba.poster.run(ba.stop)
	go ba.tick(ba.cfg.Tick())
	defer ba.session.Close()
	defer close(ba.stop)
	return ba.app.Run()
}

// tick drives prefetching while the user is idle
func (ba *BrowserApp) tick(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ba.stop:
			return
		case <-ticker.C:
			ba.app.QueueUpdateDraw(func() {
				if ba.session.Manager.DoReadahead() {
					ba.refresh()
				}
			})
		}
	}
}

func (ba *BrowserApp) exit() {
	ba.app.Stop()
}

func (ba *BrowserApp) step(delta int) {
	mgr := ba.session.Manager
	for ; delta > 0; delta-- {
		mgr.Next()
	}
	for ; delta < 0; delta++ {
		mgr.Previous()
	}
	ba.refresh()
}

func (ba *BrowserApp) cycleRegion() {
	mgr := ba.session.Manager
	n := len(mgr.Regions())
	if n == 0 {
		return
	}
	if err := mgr.Select((mgr.SelectedIndex() + 1) % n); err != nil {
		log.Warn("cannot cycle region", "error", err)
	}
	ba.refresh()
}

func (ba *BrowserApp) showNewPathDialog() {
	dialog := components.NewPathDialog("New path", ba.cfg.Browse.Map, func(req components.PathRequest) {
		ba.closeModal()
		ba.session.Manager.Reset()
		ba.session.Manager.AddRegion(req.Key, req.Location)
		ba.statusComponent.SetMessage("describing region %s", req.Key)
		ba.refresh()
	}, ba.closeModal)
	ba.showModal(dialog.GetView(), dialog.GetForm())
}

func (ba *BrowserApp) showAddRegionDialog() {
	dialog := components.NewPathDialog("Add path", ba.cfg.Browse.Map, func(req components.PathRequest) {
		ba.closeModal()
		if !ba.session.Manager.AddRegion(req.Key, req.Location) {
			ba.statusComponent.SetMessage("region %s is already tracked", req.Key)
			return
		}
		ba.statusComponent.SetMessage("describing region %s", req.Key)
	}, ba.closeModal)
	ba.showModal(dialog.GetView(), dialog.GetForm())
}

func (ba *BrowserApp) showJumpDialog() {
	current, ok := ba.session.Manager.CurrentLocation()
	if !ok {
		ba.statusComponent.SetMessage("no path selected")
		return
	}
	dialog := components.NewJumpDialog(current, func(position int) {
		ba.closeModal()
		if err := ba.session.Manager.Jump(position); err != nil {
			ba.statusComponent.SetMessage("%v", err)
		}
		ba.refresh()
	}, ba.closeModal)
	ba.showModal(dialog.GetView(), dialog.GetForm())
}

func (ba *BrowserApp) exportGraph() {
	path := fmt.Sprintf("raybrowser_graph_%s.dot", time.Now().Format("20060102_150405"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ba.session.ExportGraph(ctx, path); err != nil {
		log.Error("graph export failed", "error", err)
		ba.statusComponent.SetMessage("graph export failed: %v", err)
		return
	}
	ba.statusComponent.SetMessage("graph written to %s", path)
}

func (ba *BrowserApp) showModal(view tview.Primitive, focus tview.Primitive) {
	ba.inputHandler.SetModalVisible(true)
	ba.pages.AddPage(modalPage, view, true, true)
	ba.app.SetFocus(focus)
}

func (ba *BrowserApp) closeModal() {
	ba.inputHandler.SetModalVisible(false)
	ba.pages.RemovePage(modalPage)
	ba.app.SetFocus(ba.panelComponent.GetElementView())
}

// refresh redraws the panels from the navigator state
func (ba *BrowserApp) refresh() {
	mgr := ba.session.Manager

	regions := mgr.Regions()
	summaries := make([]components.RegionSummary, len(regions))
	for i, r := range regions {
		summaries[i] = components.Summarize(r)
	}
	ba.panelComponent.UpdateRegions(summaries, mgr.SelectedIndex())

	if r, ok := mgr.Selected(); ok {
		ba.panelComponent.UpdateElement(ba.elementView(r))
	}
}

func (ba *BrowserApp) elementView(r *region.Region) components.ElementView {
	mgr := ba.session.Manager
	v := components.ElementView{Region: components.Summarize(r)}
	v.Left, v.Right, v.HasBounds = r.Bounds()

	element, ok := mgr.CurrentElement()
	if !ok {
		return v
	}
	v.Cached = true
	v.Element = element
	v.Positions = mgr.PositionsOf(element)
	v.Colors = mgr.ColorsFor(element)
	if detail, ok := ba.session.Store.Detail(element); ok {
		v.Detail = &detail
	}
	return v
}
