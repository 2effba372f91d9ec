// Package certificate renders membership certificates as PDF documents.
package certificate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// FileName returns the stored file name for a membership number
func FileName(membershipNumber string) string {
	return "SESI_Certificate_" + membershipNumber + ".pdf"
}

// Data is everything printed on a certificate
type Data struct {
	FullName         string
	Qualification    string
	Hospital         string
	MembershipType   string
	MembershipNumber string
	ApprovalDate     string // already formatted, e.g. "January 02, 2006"
	IssuedAt         time.Time
}

// Validate checks the fields the layout cannot do without
func (d Data) Validate() error {
	var errs []error
	if strings.TrimSpace(d.FullName) == "" {
		errs = append(errs, errors.New("full name is required"))
	}
	if strings.TrimSpace(d.MembershipNumber) == "" {
		errs = append(errs, errors.New("membership number is required"))
	}
	if strings.TrimSpace(d.MembershipType) == "" {
		errs = append(errs, errors.New("membership type is required"))
	}
	return errors.Join(errs...)
}

// Renderer turns certificate data into document bytes
type Renderer interface {
	Render(ctx context.Context, data Data) ([]byte, error)
}

// PDFRenderer draws a landscape A4 certificate with fpdf
type PDFRenderer struct {
	SocietyName  string
	ShortName    string
	SiteURL      string
	ContactEmail string
}

// NewPDFRenderer returns a renderer with the society's letterhead
func NewPDFRenderer(siteURL string) *PDFRenderer {
	return &PDFRenderer{
		SocietyName:  "Shoulder & Elbow Society of India",
		ShortName:    "SESI",
		SiteURL:      siteURL,
		ContactEmail: "info@sesi.co.in",
	}
}

var (
	navy = [3]int{26, 54, 93}
	gold = [3]int{184, 134, 11}
	ink  = [3]int{51, 51, 51}
)

// Render draws the certificate. Output depends only on data, IssuedAt included.
func (r *PDFRenderer) Render(ctx context.Context, data Data) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid certificate data: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(data.IssuedAt)
	pdf.SetModificationDate(data.IssuedAt)
	pdf.SetTitle("Certificate of Membership "+data.MembershipNumber, true)
	pdf.SetAuthor(r.SocietyName, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width, height := pdf.GetPageSize()

	// double border
	setDraw(pdf, navy)
	pdf.SetLineWidth(2)
	pdf.Rect(10, 10, width-20, height-20, "D")
	setDraw(pdf, gold)
	pdf.SetLineWidth(0.8)
	pdf.Rect(15, 15, width-30, height-30, "D")

	centered := func(y float64, style string, size float64, color [3]int, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.SetXY(20, y)
		pdf.CellFormat(width-40, size*0.5, tr(text), "", 0, "C", false, 0, "")
	}

	centered(32, "B", 32, navy, "CERTIFICATE OF MEMBERSHIP")
	centered(50, "B", 20, gold, r.SocietyName)
	centered(60, "", 12, ink, "("+r.ShortName+")")

	setDraw(pdf, gold)
	pdf.SetLineWidth(0.5)
	pdf.Line(width/2-60, 68, width/2+60, 68)

	centered(78, "", 14, ink, "This is to certify that")
	centered(90, "B", 26, navy, data.FullName)

	y := 104.0
	if q := strings.TrimSpace(data.Qualification); q != "" {
		centered(y, "", 12, ink, q)
		y += 8
	}
	if h := strings.TrimSpace(data.Hospital); h != "" {
		centered(y, "I", 12, ink, h)
		y += 8
	}

	centered(y+6, "", 14, ink, "has been accepted as a "+data.MembershipType)
	centered(y+20, "B", 16, navy, "Membership Number: "+data.MembershipNumber)
	centered(y+32, "", 11, ink, "Date of Approval: "+data.ApprovalDate)

	// signature blocks
	footerY := height - 42
	signature := func(x float64, title string) {
		setDraw(pdf, ink)
		pdf.SetLineWidth(0.3)
		pdf.Line(x-30, footerY, x+30, footerY)
		pdf.SetTextColor(ink[0], ink[1], ink[2])
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(x-30, footerY+2)
		pdf.CellFormat(60, 5, title, "", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(x-30, footerY+8)
		pdf.CellFormat(60, 5, r.ShortName, "", 0, "C", false, 0, "")
	}
	signature(65, "President")
	signature(width-65, "Secretary")

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetXY(width/2-30, footerY+2)
	pdf.CellFormat(60, 5, "Official Seal", "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(20, height-22)
	pdf.CellFormat(width-40, 4, tr(fmt.Sprintf("%s | %s | %s", r.SocietyName, r.SiteURL, r.ContactEmail)), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func setDraw(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetDrawColor(c[0], c[1], c[2])
}
