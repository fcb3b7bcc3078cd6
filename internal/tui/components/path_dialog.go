package components

import (
	"strconv"

	"github.com/rivo/tview"

	"raybrowser/internal/api"
)

// PathRequest is what the path dialog collects
type PathRequest struct {
	Key      api.RegionKey
	Location int
}

// PathDialog asks for a section, region and starting location
type PathDialog struct {
	form           *tview.Form
	mapIndex       int
	callback       func(PathRequest)
	cancelCallback func()
}

// NewPathDialog creates a dialog titled title. The map index is fixed by the
// configuration.
func NewPathDialog(title string, mapIndex int, callback func(PathRequest), cancelCallback func()) *PathDialog {
	pd := &PathDialog{
		mapIndex:       mapIndex,
		callback:       callback,
		cancelCallback: cancelCallback,
	}

	pd.form = DefaultTheme.NewForm()
	pd.form.SetTitle(" " + title + " ")
	pd.form.SetTitleAlign(tview.AlignCenter)
	pd.form.SetBorder(true)

	pd.form.AddInputField("Section:", "0", 12, tview.InputFieldInteger, nil)
	pd.form.AddInputField("Region:", "0", 12, tview.InputFieldInteger, nil)
	pd.form.AddInputField("Location:", "0", 12, tview.InputFieldInteger, nil)

	pd.form.AddButton("Start", func() {
		if pd.callback != nil {
			pd.callback(pd.Request())
		}
	})
	pd.form.AddButton("Cancel", func() {
		if pd.cancelCallback != nil {
			pd.cancelCallback()
		}
	})
	pd.form.SetCancelFunc(func() {
		if pd.cancelCallback != nil {
			pd.cancelCallback()
		}
	})
	pd.form.SetFocus(0)

	return pd
}

// Request reads the current field values. Unparsable fields read as 0.
func (pd *PathDialog) Request() PathRequest {
	return PathRequest{
		Key: api.RegionKey{
			Map:     pd.mapIndex,
			Section: fieldInt(pd.form, 0),
			Region:  fieldInt(pd.form, 1),
		},
		Location: fieldInt(pd.form, 2),
	}
}

// GetForm returns the internal form component
func (pd *PathDialog) GetForm() *tview.Form {
	return pd.form
}

// GetView centers the form on the screen
func (pd *PathDialog) GetView() tview.Primitive {
	return centered(pd.form, 50, 11)
}

// JumpDialog asks for a position on the selected path
type JumpDialog struct {
	form *tview.Form
}

// NewJumpDialog creates the jump dialog
func NewJumpDialog(current int, callback func(int), cancelCallback func()) *JumpDialog {
	jd := &JumpDialog{form: DefaultTheme.NewForm()}
	jd.form.SetTitle(" Jump to position ")
	jd.form.SetBorder(true)
	jd.form.AddInputField("Position:", strconv.Itoa(current), 14, tview.InputFieldInteger, nil)
	jd.form.AddButton("Jump", func() {
		if callback != nil {
			callback(fieldInt(jd.form, 0))
		}
	})
	jd.form.SetCancelFunc(func() {
		if cancelCallback != nil {
			cancelCallback()
		}
	})
	return jd
}

// GetForm returns the internal form component
func (jd *JumpDialog) GetForm() *tview.Form {
	return jd.form
}

// GetView centers the form on the screen
func (jd *JumpDialog) GetView() tview.Primitive {
	return centered(jd.form, 40, 7)
}

func fieldInt(form *tview.Form, index int) int {
	field, ok := form.GetFormItem(index).(*tview.InputField)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(field.GetText())
	if err != nil {
		return 0
	}
	return n
}

func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(p, width, 0, true).
			AddItem(nil, 0, 1, false), height, 0, true).
		AddItem(nil, 0, 1, false)
}
