package extract

import "github.com/ledongthuc/pdf"

type pdfText struct {
	font string
	size float64
	x, y float64
	w    float64
	s    string
}

func toPDFText(in []pdfText) []pdf.Text {
	out := make([]pdf.Text, len(in))
	for i, g := range in {
		out[i] = pdf.Text{Font: g.font, FontSize: g.size, X: g.x, Y: g.y, W: g.w, S: g.s}
	}
	return out
}
