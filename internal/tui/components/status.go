package components

import (
	"fmt"

	"github.com/rivo/tview"
)

// StatusComponent manages the bottom status bar
type StatusComponent struct {
	wrapper *tview.TextView
	server  string
	message string
}

// NewStatusComponent creates a new status bar component
func NewStatusComponent(server string) *StatusComponent {
	sc := &StatusComponent{wrapper: DefaultTheme.NewStatusBar(), server: server}
	sc.render()
	return sc
}

// GetWrapper returns the status bar TextView
func (sc *StatusComponent) GetWrapper() *tview.TextView {
	return sc.wrapper
}

// SetMessage shows a transient message next to the key help
func (sc *StatusComponent) SetMessage(format string, args ...any) {
	sc.message = fmt.Sprintf(format, args...)
	sc.render()
}

func (sc *StatusComponent) render() {
	text := fmt.Sprintf(" [green]%s[-] | ←/→ step  PgUp/PgDn ±100  Tab path  n new  a add  j jump  g graph  q quit", tview.Escape(sc.server))
	if sc.message != "" {
		text += " | [yellow]" + tview.Escape(sc.message) + "[-]"
	}
	sc.wrapper.SetText(text)
}
