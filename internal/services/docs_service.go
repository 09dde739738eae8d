package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"facilities/internal/domain/models"
	"facilities/internal/repositories"
	"facilities/internal/utils"
)

// DocsService renders printable request slips.
type DocsService struct {
	Requests    repositories.RequestRepository
	Departments repositories.DepartmentRepository
	Users       repositories.UserRepository
	Vehicles    repositories.VehicleRepository
	Venues      repositories.VenueRepository
	// Loader replaces the repository lookups, used by tests.
	Loader func(ctx context.Context, id string) (slipData, error)
}

type slipData struct {
	Request    models.Request
	Department string
	Requester  string
	Vehicle    string
	Venue      string
}

// RequestSlip returns the PDF slip of one request and its download filename.
func (s DocsService) RequestSlip(ctx context.Context, id string) ([]byte, string, error) {
	data, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(requestID(ctx), "docs", "request_slip", "id="+id)
	return buildSlipPDF(data)
}

func (s DocsService) load(ctx context.Context, id string) (slipData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	var out slipData
	req, err := s.Requests.GetByID(ctx, id)
	if err != nil {
		return out, err
	}
	out.Request = req

	// related names are best effort; a missing row prints "-"
	if d, err := s.Departments.GetByID(ctx, req.DepartmentID); err == nil {
		out.Department = d.Name
	}
	if u, err := s.Users.GetByID(ctx, req.RequesterID); err == nil {
		out.Requester = u.FullName()
	}
	if req.VehicleID != nil {
		if v, err := s.Vehicles.GetByID(ctx, *req.VehicleID); err == nil {
			out.Vehicle = v.Name + " (" + v.LicensePlate + ")"
		}
	}
	if req.VenueID != nil {
		if v, err := s.Venues.GetByID(ctx, *req.VenueID); err == nil {
			out.Venue = v.Name
		}
	}
	return out, nil
}

func buildSlipPDF(d slipData) ([]byte, string, error) {
	r := d.Request
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Request Slip", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "REQUEST SLIP")
	pdf.Ln(12)

	scheduled := ""
	if r.ScheduledAt != nil {
		scheduled = r.ScheduledAt.String()
	}
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference   : %s", r.ID),
		fmt.Sprintf("Title       : %s", safe(r.Title, "-")),
		fmt.Sprintf("Type        : %s", r.Type),
		fmt.Sprintf("Status      : %s", r.Status),
		fmt.Sprintf("Department  : %s", safe(d.Department, "-")),
		fmt.Sprintf("Requester   : %s", safe(d.Requester, "-")),
		fmt.Sprintf("Vehicle     : %s", safe(d.Vehicle, "-")),
		fmt.Sprintf("Venue       : %s", safe(d.Venue, "-")),
		fmt.Sprintf("Scheduled   : %s", safe(scheduled, "-")),
		fmt.Sprintf("Filed       : %s", r.CreatedAt.String()),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Notes:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, notes, "", "", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Approved by: ______________________    Date: ____________", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	name := utils.SafeFilename(r.Title)
	if name == "" {
		name = "request"
	}
	if len(name) > 40 {
		name = name[:40]
	}
	return buf.Bytes(), fmt.Sprintf("SLIP_%s_%s.pdf", name, shortID(r.ID)), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
