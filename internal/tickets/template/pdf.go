package template

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/signintech/gopdf"

	"tcs-portal/internal/models"
)

// EventDisplay carries the resolved event fields the ticket document
// shows; callers format the date before handing it over.
type EventDisplay struct {
	Title string
	Date  string
	Time  string
}

// DisplayFor resolves an event into its display fields, falling back
// to a generic title when the event has since been deleted.
func DisplayFor(event *models.Event) EventDisplay {
	if event == nil {
		return EventDisplay{Title: "TCS Event"}
	}
	return EventDisplay{Title: event.Title, Date: event.Date, Time: event.Time}
}

// Palette lifted from the society's web theme.
var (
	colorBackground = rgb{15, 15, 26}
	colorHeaderRed  = rgb{220, 39, 67}
	colorHeaderPink = rgb{194, 52, 165}
	colorWordRed    = rgb{255, 77, 109}
	colorWordPurple = rgb{199, 125, 255}
	colorWordCyan   = rgb{0, 217, 255}
	colorMuted      = rgb{154, 143, 166}
	colorFaint      = rgb{107, 95, 120}
	colorDivider    = rgb{58, 32, 80}
	colorWhite      = rgb{255, 255, 255}
)

type rgb struct{ r, g, b uint8 }

// Renderer produces the single-page printable ticket document. Pure
// formatting: all content comes in resolved.
type Renderer struct {
	FontPath string
}

func NewRenderer(fontPath string) *Renderer {
	return &Renderer{FontPath: fontPath}
}

// Render lays out the branded ticket: header bars and badge, three-color
// wordmark, detail grid, QR image, public ticket ID and footer
// disclaimer.
func (g *Renderer) Render(ticket models.Ticket, event EventDisplay, qrPNG []byte) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("body", g.FontPath); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	pageWidth, pageHeight := gopdf.PageSizeA4.W, gopdf.PageSizeA4.H
	margin := 56.0

	// Dark page background and the two-tone header band.
	fillRect(pdf, 0, 0, pageWidth, pageHeight, colorBackground)
	fillRect(pdf, 0, 0, pageWidth/2, 140, colorHeaderRed)
	fillRect(pdf, pageWidth/2, 0, pageWidth/2, 140, colorHeaderPink)

	// Logo badge: white plate with the society initials.
	badgeW := 90.0
	fillRect(pdf, (pageWidth-badgeW)/2, 40, badgeW, 60, colorWhite)
	if err := pdf.SetFont("body", "", 26); err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}
	if err := centerText(pdf, "TCS", pageWidth/2, 78, colorHeaderRed); err != nil {
		return nil, err
	}

	y := 180.0
	if err := pdf.SetFont("body", "", 24); err != nil {
		return nil, err
	}
	if err := wordmark(pdf, pageWidth, y); err != nil {
		return nil, err
	}

	y += 22
	if err := pdf.SetFont("body", "", 10); err != nil {
		return nil, err
	}
	if err := centerText(pdf, "Department of Computer Science, UAF", pageWidth/2, y, colorMuted); err != nil {
		return nil, err
	}

	y += 26
	divider(pdf, margin, pageWidth-margin, y)

	y += 34
	if err := pdf.SetFont("body", "", 18); err != nil {
		return nil, err
	}
	if err := centerText(pdf, "EVENT TICKET", pageWidth/2, y, colorWhite); err != nil {
		return nil, err
	}

	y += 24
	if err := pdf.SetFont("body", "", 14); err != nil {
		return nil, err
	}
	title := event.Title
	if title == "" {
		title = "TCS Event"
	}
	if err := centerText(pdf, title, pageWidth/2, y, colorWordCyan); err != nil {
		return nil, err
	}

	// Detail grid, two columns.
	y += 28
	boxTop := y
	boxHeight := 150.0
	strokeRect(pdf, margin, boxTop, pageWidth-2*margin, boxHeight, colorHeaderPink)

	leftDetails := []labelValue{
		{"Full Name", ticket.Name},
		{"Email", ticket.Email},
		{"Semester", ticket.Semester},
	}
	rightDetails := []labelValue{
		{"AG Number", ticket.AgNo},
		{"Department", ticket.Department},
		{"Event Date", fmt.Sprintf("%s %s", event.Date, event.Time)},
	}
	if err := detailColumn(pdf, leftDetails, margin+24, boxTop+30); err != nil {
		return nil, err
	}
	if err := detailColumn(pdf, rightDetails, pageWidth/2+24, boxTop+30); err != nil {
		return nil, err
	}

	y = boxTop + boxHeight + 34
	if err := pdf.SetFont("body", "", 11); err != nil {
		return nil, err
	}
	if err := centerText(pdf, "SCAN QR CODE AT ENTRY", pageWidth/2, y, colorWordRed); err != nil {
		return nil, err
	}

	y += 14
	if len(qrPNG) > 0 {
		img, err := png.Decode(bytes.NewReader(qrPNG))
		if err != nil {
			return nil, fmt.Errorf("failed to decode QR image: %w", err)
		}
		qrSize := 130.0
		if err := pdf.ImageFrom(img, (pageWidth-qrSize)/2, y, &gopdf.Rect{W: qrSize, H: qrSize}); err != nil {
			return nil, fmt.Errorf("failed to draw QR image: %w", err)
		}
		y += qrSize + 24
	}

	if err := pdf.SetFont("body", "", 9); err != nil {
		return nil, err
	}
	if err := centerText(pdf, "Ticket ID", pageWidth/2, y, colorMuted); err != nil {
		return nil, err
	}
	y += 14
	if err := pdf.SetFont("body", "", 11); err != nil {
		return nil, err
	}
	if err := centerText(pdf, ticket.PublicTicketID, pageWidth/2, y, colorWordCyan); err != nil {
		return nil, err
	}

	y += 28
	divider(pdf, margin, pageWidth-margin, y)
	y += 18
	if err := pdf.SetFont("body", "", 8); err != nil {
		return nil, err
	}
	if err := centerText(pdf, "This ticket is valid for one-time entry only. Present this QR code at the event entrance.", pageWidth/2, y, colorFaint); err != nil {
		return nil, err
	}
	y += 14
	if err := centerText(pdf, "© The Computing Society - UAF | thecomputingsociety@gmail.com", pageWidth/2, y, colorMuted); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type labelValue struct {
	Label string
	Value string
}

// wordmark draws THE COMPUTING SOCIETY with each word in its own brand
// color, centered as one line.
func wordmark(pdf *gopdf.GoPdf, pageWidth, y float64) error {
	words := []struct {
		text  string
		color rgb
	}{
		{"THE ", colorWordRed},
		{"COMPUTING ", colorWordPurple},
		{"SOCIETY", colorWordCyan},
	}

	total := 0.0
	widths := make([]float64, len(words))
	for i, w := range words {
		width, err := pdf.MeasureTextWidth(w.text)
		if err != nil {
			return fmt.Errorf("failed to measure wordmark: %w", err)
		}
		widths[i] = width
		total += width
	}

	x := (pageWidth - total) / 2
	for i, w := range words {
		pdf.SetTextColor(w.color.r, w.color.g, w.color.b)
		pdf.SetX(x)
		pdf.SetY(y)
		if err := pdf.Cell(nil, w.text); err != nil {
			return err
		}
		x += widths[i]
	}
	return nil
}

func detailColumn(pdf *gopdf.GoPdf, details []labelValue, x, y float64) error {
	rowHeight := 42.0
	for i, d := range details {
		rowY := y + float64(i)*rowHeight
		if err := pdf.SetFont("body", "", 8); err != nil {
			return err
		}
		pdf.SetTextColor(colorMuted.r, colorMuted.g, colorMuted.b)
		pdf.SetX(x)
		pdf.SetY(rowY)
		if err := pdf.Cell(nil, d.Label+":"); err != nil {
			return err
		}

		value := d.Value
		if value == "" {
			value = "-"
		}
		if err := pdf.SetFont("body", "", 11); err != nil {
			return err
		}
		pdf.SetTextColor(colorWhite.r, colorWhite.g, colorWhite.b)
		pdf.SetX(x)
		pdf.SetY(rowY + 13)
		if err := pdf.Cell(nil, value); err != nil {
			return err
		}
	}
	return nil
}

func centerText(pdf *gopdf.GoPdf, text string, centerX, y float64, c rgb) error {
	width, err := pdf.MeasureTextWidth(text)
	if err != nil {
		return fmt.Errorf("failed to measure text: %w", err)
	}
	pdf.SetTextColor(c.r, c.g, c.b)
	pdf.SetX(centerX - width/2)
	pdf.SetY(y)
	return pdf.Cell(nil, text)
}

func fillRect(pdf *gopdf.GoPdf, x, y, w, h float64, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
	pdf.RectFromUpperLeftWithStyle(x, y, w, h, "F")
}

func strokeRect(pdf *gopdf.GoPdf, x, y, w, h float64, c rgb) {
	pdf.SetStrokeColor(c.r, c.g, c.b)
	pdf.SetLineWidth(1.2)
	pdf.RectFromUpperLeftWithStyle(x, y, w, h, "D")
}

func divider(pdf *gopdf.GoPdf, x1, x2, y float64) {
	pdf.SetStrokeColor(colorDivider.r, colorDivider.g, colorDivider.b)
	pdf.SetLineWidth(0.6)
	pdf.Line(x1, y, x2, y)
}
