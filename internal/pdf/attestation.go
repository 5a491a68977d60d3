// Package pdf renders the downloadable attestation document for a decided
// submission. Input is display-ready: codes arrive already masked.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Coupon is one code line on the attestation.
type Coupon struct {
	ID     int
	Code   string // already masked by the caller
	Amount string // raw user input, "" when absent
}

// Document carries everything the attestation renders.
type Document struct {
	ReferenceNumber string
	FullName        string
	Email           string
	Phone           string
	Country         string
	Type            string
	NumCoupons      int
	TotalAmount     string // formatted, "" when unknown
	SubmittedAt     time.Time
	Verified        bool // success banner when true, rejection banner otherwise
	Coupons         []Coupon
}

// Filename returns the download name for the attestation.
func (d Document) Filename() string {
	return fmt.Sprintf("attestation_%s_%s.pdf", d.ReferenceNumber, time.Now().Format("2006-01-02"))
}

var (
	primaryColor = [3]int{255, 140, 0} // orange
	textColor    = [3]int{31, 41, 55}  // dark gray
	successColor = [3]int{34, 197, 94} // green
	errorColor   = [3]int{239, 68, 68} // red
)

// Render produces the attestation PDF: header band, client info, request
// details, verdict banner, coupon codes (paginating past the page bottom)
// and a numbered footer on every page.
func Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // mask character is non-ASCII
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetDrawColor(primaryColor[0], primaryColor[1], primaryColor[2])
		pdf.SetLineWidth(0.5)
		pdf.Line(20, 280, 190, 280)

		pdf.SetTextColor(textColor[0], textColor[1], textColor[2])
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(20, 285, "Automatically generated document")
		pdf.SetXY(0, 282)
		pdf.CellFormat(0, 6, time.Now().Format("02/01/2006"), "", 0, "C", false, 0, "")
		pdf.SetXY(0, 282)
		pdf.CellFormat(190, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Header band
	pdf.SetFillColor(primaryColor[0], primaryColor[1], primaryColor[2])
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(0, 12)
	pdf.CellFormat(210, 10, "COUPON ATTESTATION", "", 0, "C", false, 0, "")

	pdf.SetTextColor(textColor[0], textColor[1], textColor[2])
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(0, 32)
	pdf.CellFormat(210, 5, "Ticket attestation service", "", 0, "C", false, 0, "")
	pdf.SetXY(0, 37)
	pdf.CellFormat(210, 5, "Secure verification platform", "", 0, "C", false, 0, "")

	pdf.SetDrawColor(primaryColor[0], primaryColor[1], primaryColor[2])
	pdf.SetLineWidth(0.5)
	pdf.Line(20, 50, 190, 50)

	// Client information
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 65, "CLIENT INFORMATION")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 75, "Full name: "+doc.FullName)
	pdf.Text(20, 80, "Email: "+doc.Email)
	if doc.Phone != "" {
		pdf.Text(20, 85, "Phone: "+doc.Phone)
	}
	pdf.Text(20, 90, "Country: "+doc.Country)

	// Request details
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 105, "REQUEST DETAILS")

	total := "N/A"
	if doc.TotalAmount != "" {
		total = doc.TotalAmount + " EUR"
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 115, "Coupon type: "+doc.Type)
	pdf.Text(20, 120, fmt.Sprintf("Number of coupons: %d", doc.NumCoupons))
	pdf.Text(20, 125, "Total amount: "+total)
	pdf.Text(20, 130, "Submission date: "+doc.SubmittedAt.Format("02/01/2006"))
	pdf.Text(20, 135, "Reference number: "+doc.ReferenceNumber)

	// Verdict banner
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 150, "VERIFICATION RESULT")

	banner := errorColor
	statusText := "REJECTED"
	statusMessage := "The coupons are invalid"
	if doc.Verified {
		banner = successColor
		statusText = "VERIFIED"
		statusMessage = "All coupons are valid"
	}
	pdf.SetFillColor(banner[0], banner[1], banner[2])
	pdf.Rect(20, 155, 170, 15, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(20, 159)
	pdf.CellFormat(170, 8, statusText, "", 0, "C", false, 0, "")

	pdf.SetTextColor(textColor[0], textColor[1], textColor[2])
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 180, statusMessage)

	// Coupon codes
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 195, "COUPON CODES")

	y := 205.0
	for _, coupon := range doc.Coupons {
		if y > 270 {
			pdf.AddPage()
			y = 20
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(20, y, fmt.Sprintf("Coupon #%d", coupon.ID))

		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(20, y+5, tr("Code: "+coupon.Code))
		if coupon.Amount != "" {
			pdf.Text(20, y+10, "Amount: "+coupon.Amount+" EUR")
		}

		y += 20
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render attestation: %w", err)
	}
	return buf.Bytes(), nil
}
