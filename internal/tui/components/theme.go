package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// DialogColors defines color scheme for dialogs
type DialogColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	Title      tcell.Color
	ButtonBg   tcell.Color
	ButtonFg   tcell.Color
	FieldBg    tcell.Color // Input field background
	FieldFg    tcell.Color // Input field text
}

// PanelColors defines color scheme for the region and element panels
type PanelColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	Title      tcell.Color
}

// StatusColors defines color scheme for the status bar
type StatusColors struct {
	Background tcell.Color
	Foreground tcell.Color
}

// Theme groups the colors of every widget
type Theme struct {
	Dialog DialogColors
	Panel  PanelColors
	Status StatusColors
}

// DefaultTheme is a dark theme in the style of DOS terminal programs
var DefaultTheme = Theme{
	Dialog: DialogColors{
		Background: tcell.NewRGBColor(0, 0, 128),
		Foreground: tcell.ColorWhite,
		Border:     tcell.NewRGBColor(0, 128, 128),
		Title:      tcell.ColorYellow,
		ButtonBg:   tcell.NewRGBColor(0, 128, 128),
		ButtonFg:   tcell.ColorWhite,
		FieldBg:    tcell.ColorBlack,
		FieldFg:    tcell.ColorWhite,
	},
	Panel: PanelColors{
		Background: tcell.ColorBlack,
		Foreground: tcell.NewRGBColor(192, 192, 192),
		Border:     tcell.NewRGBColor(0, 128, 128),
		Title:      tcell.ColorYellow,
	},
	Status: StatusColors{
		Background: tcell.NewRGBColor(0, 0, 128),
		Foreground: tcell.ColorWhite,
	},
}

// NewForm creates a form with the dialog colors applied
func (t Theme) NewForm() *tview.Form {
	form := tview.NewForm()
	colors := t.Dialog

	form.SetBackgroundColor(colors.Background)
	form.SetFieldBackgroundColor(colors.FieldBg)
	form.SetFieldTextColor(colors.FieldFg)
	form.SetLabelColor(colors.Foreground)
	form.SetButtonBackgroundColor(colors.ButtonBg)
	form.SetButtonTextColor(colors.ButtonFg)
	form.SetBorderColor(colors.Border)
	form.SetTitleColor(colors.Title)

	return form
}

// NewPanel creates a bordered text view with the panel colors applied
func (t Theme) NewPanel(title string) *tview.TextView {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextColor(t.Panel.Foreground)
	view.SetBackgroundColor(t.Panel.Background)
	view.SetBorder(true).
		SetBorderColor(t.Panel.Border).
		SetTitleColor(t.Panel.Title).
		SetTitle(" " + title + " ")
	return view
}

// NewStatusBar creates the single line status view
func (t Theme) NewStatusBar() *tview.TextView {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetWrap(false).
		SetTextColor(t.Status.Foreground)
	view.SetBackgroundColor(t.Status.Background)
	return view
}
