package handlers

import (
	"github.com/gdamore/tcell/v2"
)

// PageStep is the cursor distance of PgUp/PgDn
const PageStep = 100

// Callbacks are the actions the browser exposes to the keyboard
type Callbacks struct {
	OnStep        func(delta int)
	OnCycleRegion func()
	OnNewPath     func()
	OnAddRegion   func()
	OnJump        func()
	OnExportGraph func()
	OnExit        func()
}

// InputHandler maps key events to browser actions
type InputHandler struct {
	callbacks    Callbacks
	modalVisible bool
}

// NewInputHandler creates a new input handler
func NewInputHandler(callbacks Callbacks) *InputHandler {
	return &InputHandler{callbacks: callbacks}
}

// SetModalVisible routes keys to the open dialog while it is shown
func (ih *InputHandler) SetModalVisible(visible bool) {
	ih.modalVisible = visible
}

// HandleKeyEvent is installed as the application's input capture. Consumed
// events return nil.
func (ih *InputHandler) HandleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		ih.call(ih.callbacks.OnExit)
		return nil
	}
	if ih.modalVisible {
		return event
	}

	switch event.Key() {
	case tcell.KeyRight:
		ih.step(1)
	case tcell.KeyLeft:
		ih.step(-1)
	case tcell.KeyPgDn:
		ih.step(PageStep)
	case tcell.KeyPgUp:
		ih.step(-PageStep)
	case tcell.KeyTab:
		ih.call(ih.callbacks.OnCycleRegion)
	case tcell.KeyRune:
		switch event.Rune() {
		case 'l':
			ih.step(1)
		case 'h':
			ih.step(-1)
		case 'n':
			ih.call(ih.callbacks.OnNewPath)
		case 'a':
			ih.call(ih.callbacks.OnAddRegion)
		case 'j':
			ih.call(ih.callbacks.OnJump)
		case 'g':
			ih.call(ih.callbacks.OnExportGraph)
		case 'q':
			ih.call(ih.callbacks.OnExit)
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

func (ih *InputHandler) step(delta int) {
	if ih.callbacks.OnStep != nil {
		ih.callbacks.OnStep(delta)
	}
}

func (ih *InputHandler) call(f func()) {
	if f != nil {
		f()
	}
}
