package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Service reads inventory count rows from the operators' shared spreadsheet.
type Service struct {
	srv           *sheets.Service
	spreadsheetID string
}

func NewService(ctx context.Context, credentialsJSON, spreadsheetID string) (*Service, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		sheets.SpreadsheetsReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to build sheets client: %v", err)
	}

	return &Service{srv: srv, spreadsheetID: spreadsheetID}, nil
}

// ReadRange returns the raw cell values of the given A1 range.
func (s *Service) ReadRange(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read range %s: %v", readRange, err)
	}
	return resp.Values, nil
}
