package view

import (
	"image"

	"github.com/soocke/frontcam-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	// Max display dimensions; frames are scaled proportionally to fit.
	maxDisplayW = 640
	maxDisplayH = 480

	placeholderW = 320
	placeholderH = 240
)

// Display shows rendered frames in a label and reports taps on it. It
// implements capture.DisplaySink; Show must run on the Tk thread.
type Display interface {
	Show(img image.Image)
	Reset()
	SetTargetSize(w, h int)
}

type display struct {
	label     *LabelWidget
	photo     *Img // current Tk photo; deleted when replaced
	targetW   int
	targetH   int
	shownOnce bool
}

// NewDisplay creates the display label at row and binds onTap to a primary
// button press on it.
func NewDisplay(row int, onTap func()) Display {
	photo := NewPhoto(Data(images.EncodePNG(images.Placeholder(placeholderW, placeholderH))))
	lbl := Label(Image(photo), Borderwidth(1), Relief("sunken"), Cursor("hand2"))
	Grid(lbl, Row(row), Column(0), Columnspan(5), Sticky("nswe"), Padx("0.4m"), Pady("0.4m"))
	if onTap != nil {
		Bind(lbl, "<Button-1>", Command(onTap))
	}
	return &display{label: lbl, photo: photo}
}

func (v *display) Show(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	w, h := v.targetW, v.targetH
	if w <= 0 || h <= 0 {
		w, h = maxDisplayW, maxDisplayH
	}
	v.replace(images.EncodePNG(images.ScaleToFit(img, w, h)))
	v.shownOnce = true
}

func (v *display) Reset() {
	if v == nil || v.label == nil || !v.shownOnce {
		return
	}
	v.replace(images.EncodePNG(images.Placeholder(placeholderW, placeholderH)))
	v.shownOnce = false
}

// replace swaps in a new photo, disposing the old one so off-screen image
// data does not accumulate.
func (v *display) replace(png []byte) {
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(png))
	v.label.Configure(Image(v.photo))
}

// SetTargetSize updates the scaling bounds used by Show.
func (v *display) SetTargetSize(w, h int) {
	if v == nil {
		return
	}
	v.targetW, v.targetH = max(w, 50), max(h, 50)
}
