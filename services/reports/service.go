package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/repositories"
)

// EventReport is the per-event rollup in the finance report.
type EventReport struct {
	Event      *models.Event     `json:"event"`
	Invoices   []*models.Invoice `json:"invoices"`
	TotalSpent float64           `json:"totalSpent"`
	ItemCount  int               `json:"itemCount"`
}

// FinanceReport groups every invoice under its event and carries grand
// totals across all events.
type FinanceReport struct {
	Events           []*EventReport `json:"events"`
	GrandTotal       float64        `json:"grandTotal"`
	TotalInvoices    int            `json:"totalInvoices"`
	TotalItems       int            `json:"totalItems"`
	DanglingInvoices int            `json:"danglingInvoices"`
}

// AttendeeRow is one attendee of an event joined against the roster.
type AttendeeRow struct {
	PersonID   string `json:"personId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Class      string `json:"class"`
}

// AttendanceReport is the per-event attendance report: the attendee list
// joined with the people roster plus spend and headcount totals.
type AttendanceReport struct {
	Event            *models.Event  `json:"event"`
	Attendees        []*AttendeeRow `json:"attendees"`
	TotalAttendees   int            `json:"totalAttendees"`
	AmountSpent      float64        `json:"amountSpent"`
	UnknownAttendees int            `json:"unknownAttendees"`
}

// ReportService assembles finance rollups, attendance reports and CSV
// exports.
type ReportService struct {
	eventRepo   repositories.EventRepository
	personRepo  repositories.PersonRepository
	invoiceRepo repositories.InvoiceRepository
	logger      *zap.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(
	eventRepo repositories.EventRepository,
	personRepo repositories.PersonRepository,
	invoiceRepo repositories.InvoiceRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		eventRepo:   eventRepo,
		personRepo:  personRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Finance builds the cross-event finance report. Totals are recomputed
// from the invoices, not read from the event aggregates, so the report
// stays truthful even if an aggregate is stale. Invoices whose event no
// longer exists are counted but not listed.
func (s *ReportService) Finance(ctx context.Context) (*FinanceReport, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string][]*models.Invoice)
	for _, invoice := range invoices {
		byEvent[invoice.EventID] = append(byEvent[invoice.EventID], invoice)
	}

	report := &FinanceReport{Events: make([]*EventReport, 0, len(events))}
	for _, event := range events {
		er := &EventReport{
			Event:    event,
			Invoices: byEvent[event.ID],
		}
		if er.Invoices == nil {
			er.Invoices = []*models.Invoice{}
		}
		for _, invoice := range er.Invoices {
			er.TotalSpent += invoice.TotalAmount
			er.ItemCount += invoice.ItemCount()
		}
		delete(byEvent, event.ID)

		report.Events = append(report.Events, er)
		report.GrandTotal += er.TotalSpent
		report.TotalInvoices += len(er.Invoices)
		report.TotalItems += er.ItemCount
	}

	for _, orphaned := range byEvent {
		report.DanglingInvoices += len(orphaned)
	}
	if report.DanglingInvoices > 0 {
		s.logger.Warn("invoices reference missing events",
			zap.Int("count", report.DanglingInvoices))
	}
	return report, nil
}

// Attendance builds the attendance report for one event: every attendee id
// resolved against the roster, with the event's spend recomputed from its
// invoices. Attendee ids whose roster record was deleted are counted but not
// listed, so a stale attendee set never hides the rest of the report.
func (s *ReportService) Attendance(ctx context.Context, eventID string) (*AttendanceReport, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Person, len(people))
	for _, person := range people {
		byID[person.ID] = person
	}

	report := &AttendanceReport{
		Event:          event,
		Attendees:      make([]*AttendeeRow, 0, len(event.Attendees)),
		TotalAttendees: len(event.Attendees),
	}
	for _, invoice := range invoices {
		report.AmountSpent += invoice.TotalAmount
	}

	for _, personID := range event.Attendees {
		person, ok := byID[personID]
		if !ok {
			report.UnknownAttendees++
			continue
		}
		report.Attendees = append(report.Attendees, &AttendeeRow{
			PersonID:   person.ID,
			Name:       attendeeName(person),
			Department: person.Department,
			Class:      person.Class,
		})
	}

	if report.UnknownAttendees > 0 {
		s.logger.Warn("attendees reference missing people",
			zap.String("event_id", eventID),
			zap.Int("count", report.UnknownAttendees))
	}
	return report, nil
}

// EventCSV renders one event's invoices as CSV, one row per line item.
func (s *ReportService) EventCSV(ctx context.Context, eventID string) ([]byte, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Event Name", "Event Date", "Invoice Number", "Vendor",
		"Invoice Date", "Item Description", "Quantity", "Unit Price",
		"Total Price", "Notes",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, invoice := range invoices {
		number := invoiceNumber(invoice)
		vendor := invoice.Vendor
		if vendor == "" {
			vendor = "N/A"
		}
		for _, item := range invoice.Items {
			row := []string{
				event.Name,
				event.Date,
				number,
				vendor,
				invoice.Date,
				item.Description,
				formatAmount(item.Quantity),
				formatAmount(item.UnitPrice),
				formatAmount(item.TotalPrice),
				invoice.Notes,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// invoiceNumber falls back to a short id-derived number when none was
// recorded.
func invoiceNumber(invoice *models.Invoice) string {
	if invoice.InvoiceNumber != "" {
		return invoice.InvoiceNumber
	}
	id := invoice.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "INV-" + id
}

// attendeeName renders the display name including the optional middle name.
func attendeeName(p *models.Person) string {
	return strings.Join(strings.Fields(p.FirstName+" "+p.MiddleName+" "+p.Surname), " ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
