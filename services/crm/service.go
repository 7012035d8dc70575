package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"frontdesk/models"
	"frontdesk/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheet layout, first row = headers:
//   A: Name | B: Phone | C: Email | D: Company | E: Last Interaction | F: Notes | G: Status
var sheetHeaders = []interface{}{"Name", "Phone", "Email", "Company", "Last Interaction", "Notes", "Status"}

const (
	sheetRange     = "Sheet1!A:G"
	lookupCacheTTL = 10 * time.Minute
)

// DefaultCustomerService stores customer records in a Google Sheet and caches
// lookups in Redis.
type DefaultCustomerService struct {
	Sheets  *sheets.Service
	SheetID string
	Cache   *redis.Client
	Timeout time.Duration
}

func NewSheetsCustomerService(ctx context.Context, credentialsFile, sheetID string, cache *redis.Client, timeout time.Duration) (*DefaultCustomerService, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &DefaultCustomerService{
		Sheets:  svc,
		SheetID: sheetID,
		Cache:   cache,
		Timeout: timeout,
	}, nil
}

// Lookup finds a customer by normalized phone number, consulting the cache
// first.
func (s *DefaultCustomerService) Lookup(ctx context.Context, phoneNumber string) (LookupResult, error) {
	logger := utils.GetLogger()
	phone := utils.NormalizePhone(phoneNumber)

	if cached, err := s.Cache.Get(ctx, cacheKey(phone)).Result(); err == nil {
		var customer models.Customer
		if err := json.Unmarshal([]byte(cached), &customer); err == nil {
			return LookupResult{Found: true, Customer: &customer}, nil
		}
	}

	_, row, err := s.findCustomerRow(ctx, phone)
	if err != nil {
		return LookupResult{}, err
	}
	if row == nil {
		return LookupResult{
			Found:   false,
			Message: fmt.Sprintf("No customer found with phone number %s", phoneNumber),
		}, nil
	}

	customer := rowToCustomer(row)
	if b, err := json.Marshal(customer); err == nil {
		if err := s.Cache.Set(ctx, cacheKey(phone), b, lookupCacheTTL).Err(); err != nil {
			logger.Warn("crm cache set failed", zap.Error(err))
		}
	}
	return LookupResult{Found: true, Customer: &customer}, nil
}

// Register creates a customer row or refreshes an existing one.
func (s *DefaultCustomerService) Register(ctx context.Context, customerName, phoneNumber string) (RegisterResult, error) {
	phone := utils.NormalizePhone(phoneNumber)
	today := time.Now().Format("2006-01-02")

	rowNum, row, err := s.findCustomerRow(ctx, phone)
	if err != nil {
		return RegisterResult{}, err
	}

	if row != nil {
		updated := padRow(row)
		updated[0] = customerName
		updated[4] = today
		updated[6] = "active"
		if err := s.updateRow(ctx, rowNum, updated); err != nil {
			return RegisterResult{}, err
		}
		s.invalidate(ctx, phone)
		return RegisterResult{
			Success:         true,
			NewRegistration: false,
			Message:         fmt.Sprintf("%s (%s) updated successfully.", customerName, phone),
		}, nil
	}

	newRow := []interface{}{customerName, phone, "", "", today, "Registered via phone call", "active"}
	if err := s.appendRow(ctx, newRow); err != nil {
		return RegisterResult{}, err
	}
	s.invalidate(ctx, phone)
	return RegisterResult{
		Success:         true,
		NewRegistration: true,
		Message:         fmt.Sprintf("%s (%s) registered successfully.", customerName, phone),
	}, nil
}

// UpdateNotes appends to a customer's notes. Existing notes are never
// overwritten; previous ticket ids stay in the record. Creates the customer
// row if the phone number is unknown.
func (s *DefaultCustomerService) UpdateNotes(ctx context.Context, phoneNumber, notes string) error {
	phone := utils.NormalizePhone(phoneNumber)
	today := time.Now().Format("2006-01-02")

	rowNum, row, err := s.findCustomerRow(ctx, phone)
	if err != nil {
		return err
	}

	if row != nil {
		updated := padRow(row)
		existing, _ := updated[5].(string)
		if existing != "" {
			updated[5] = existing + "\n" + notes
		} else {
			updated[5] = notes
		}
		updated[4] = today
		if err := s.updateRow(ctx, rowNum, updated); err != nil {
			return err
		}
		s.invalidate(ctx, phone)
		return nil
	}

	newRow := []interface{}{"", phone, "", "", today, notes, "new"}
	if err := s.appendRow(ctx, newRow); err != nil {
		return err
	}
	s.invalidate(ctx, phone)
	return nil
}

// CreateTicket records a support ticket against the customer row, prepending
// the ticket line to the notes so the newest issue reads first.
func (s *DefaultCustomerService) CreateTicket(ctx context.Context, callerName, phoneNumber, issue, priority string) (TicketResult, error) {
	phone := utils.NormalizePhone(phoneNumber)
	now := time.Now()
	today := now.Format("2006-01-02")
	ticketID := "TKT-" + now.Format("20060102150405")
	ticketNote := fmt.Sprintf("[%s] (%s) %s", ticketID, priority, issue)

	rowNum, row, err := s.findCustomerRow(ctx, phone)
	if err != nil {
		return TicketResult{}, err
	}

	if row != nil {
		updated := padRow(row)
		existing, _ := updated[5].(string)
		if existing != "" {
			updated[5] = ticketNote + "\n" + existing
		} else {
			updated[5] = ticketNote
		}
		updated[0] = callerName
		updated[4] = today
		updated[6] = "support"
		if err := s.updateRow(ctx, rowNum, updated); err != nil {
			return TicketResult{}, err
		}
	} else {
		newRow := []interface{}{callerName, phone, "", "", today, ticketNote, "support"}
		if err := s.appendRow(ctx, newRow); err != nil {
			return TicketResult{}, err
		}
	}
	s.invalidate(ctx, phone)

	return TicketResult{
		Success: true,
		Ticket: &models.SupportTicket{
			TicketID:    ticketID,
			CallerName:  callerName,
			PhoneNumber: phoneNumber,
			Issue:       issue,
			Priority:    priority,
			Status:      "open",
			CreatedAt:   now.Format(time.RFC3339),
		},
		Message: fmt.Sprintf("Support ticket %s created with %s priority.", ticketID, priority),
	}, nil
}

// findCustomerRow scans the sheet for a row whose phone column matches the
// normalized number. Returns the 1-indexed row number and the row values, or
// nil when not found. Initializes headers on an empty sheet.
func (s *DefaultCustomerService) findCustomerRow(ctx context.Context, normalizedPhone string) (int, []interface{}, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resp, err := s.Sheets.Spreadsheets.Values.Get(s.SheetID, sheetRange).Context(callCtx).Do()
	if err != nil {
		return 0, nil, fmt.Errorf("crm sheet read failed: %w", err)
	}

	if len(resp.Values) == 0 {
		if err := s.updateRange(ctx, "Sheet1!A1:G1", [][]interface{}{sheetHeaders}); err != nil {
			return 0, nil, err
		}
		utils.GetLogger().Info("initialized CRM sheet headers")
		return 0, nil, nil
	}

	for idx, row := range resp.Values {
		if idx == 0 {
			continue // header
		}
		if len(row) < 2 {
			continue
		}
		cellPhone, _ := row[1].(string)
		if utils.NormalizePhone(cellPhone) == normalizedPhone {
			return idx + 1, row, nil
		}
	}
	return 0, nil, nil
}

func (s *DefaultCustomerService) appendRow(ctx context.Context, row []interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	_, err := s.Sheets.Spreadsheets.Values.Append(s.SheetID, sheetRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(callCtx).Do()
	if err != nil {
		return fmt.Errorf("crm sheet append failed: %w", err)
	}
	return nil
}

func (s *DefaultCustomerService) updateRow(ctx context.Context, rowNum int, row []interface{}) error {
	rng := fmt.Sprintf("Sheet1!A%d:G%d", rowNum, rowNum)
	return s.updateRange(ctx, rng, [][]interface{}{row})
}

func (s *DefaultCustomerService) updateRange(ctx context.Context, rng string, values [][]interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	_, err := s.Sheets.Spreadsheets.Values.Update(s.SheetID, rng, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(callCtx).Do()
	if err != nil {
		return fmt.Errorf("crm sheet update failed: %w", err)
	}
	return nil
}

func (s *DefaultCustomerService) invalidate(ctx context.Context, normalizedPhone string) {
	if err := s.Cache.Del(ctx, cacheKey(normalizedPhone)).Err(); err != nil {
		utils.GetLogger().Warn("crm cache invalidation failed", zap.Error(err))
	}
}

func cacheKey(normalizedPhone string) string {
	return "crm:customer:" + normalizedPhone
}

func padRow(row []interface{}) []interface{} {
	out := make([]interface{}, len(sheetHeaders))
	copy(out, row)
	for i := range out {
		if out[i] == nil {
			out[i] = ""
		}
	}
	return out
}

func rowToCustomer(row []interface{}) models.Customer {
	r := padRow(row)
	str := func(v interface{}) string {
		s, _ := v.(string)
		return s
	}
	return models.Customer{
		Name:            str(r[0]),
		Phone:           str(r[1]),
		Email:           str(r[2]),
		Company:         str(r[3]),
		LastInteraction: str(r[4]),
		Notes:           str(r[5]),
		Status:          str(r[6]),
	}
}
