package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/iafilius/PersistencePlot/src/render"
)

// previewContent lays out one image directly, several as tabs.
func previewContent(imgs []render.PreviewImage) fyne.CanvasObject {
	images := make([]*canvas.Image, len(imgs))
	for i, p := range imgs {
		img := canvas.NewImageFromImage(p.Image)
		img.FillMode = canvas.ImageFillContain
		b := p.Image.Bounds()
		img.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		images[i] = img
	}
	if len(images) == 1 {
		return images[0]
	}
	tabs := container.NewAppTabs()
	for i, p := range imgs {
		tabs.Append(container.NewTabItem(p.Name, images[i]))
	}
	return tabs
}

// showPreview opens a window with the preview images and blocks until it closes.
func showPreview(title string, imgs []render.PreviewImage) {
	if len(imgs) == 0 {
		return
	}
	a := app.NewWithID("com.persistenceplot.phplot")
	w := a.NewWindow(title)
	w.SetContent(previewContent(imgs))
	b := imgs[0].Image.Bounds()
	w.Resize(fyne.NewSize(float32(b.Dx())+20, float32(b.Dy())+60))
	w.ShowAndRun()
}
