// Package qrcode renders team QR payloads as PNG images and printable pages.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	Size = 256
	// CanvasID is the element id of the QR image on the print page.
	CanvasID = "qrcode-canvas"
)

var ErrEmptyPayload = errors.New("qrcode: empty payload")

// PNG encodes payload as a Size×Size PNG with medium error recovery.
func PNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	png, err := goqrcode.Encode(payload, goqrcode.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
  </head>
  <body onload="window.print();">
    <img id="{{.CanvasID}}" src="{{.Source}}" width="{{.Size}}" height="{{.Size}}" alt="{{.Title}}">
  </body>
</html>
`))

type printPage struct {
	Title    string
	CanvasID string
	Source   template.URL
	Size     int
}

// PrintPage renders an HTML page that shows the PNG inline and opens the
// print dialog as soon as it loads.
func PrintPage(title string, png []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := printTemplate.Execute(&buf, printPage{
		Title:    title,
		CanvasID: CanvasID,
		Source:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
		Size:     Size,
	})
	if err != nil {
		return nil, fmt.Errorf("qrcode: render print page: %w", err)
	}
	return buf.Bytes(), nil
}
