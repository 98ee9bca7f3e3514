package format

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/username/working-day-service/pkg/dateutil"
)

// Divisions published by the GOV.UK bank holidays feed
const (
	DivisionEnglandAndWales = "england-and-wales"
	DivisionScotland        = "scotland"
	DivisionNorthernIreland = "northern-ireland"
)

// GovUKBankHolidaysURL is the public GOV.UK bank holidays document
const GovUKBankHolidaysURL = "https://www.gov.uk/bank-holidays.json"

// ParseGovUK returns a parser for the GOV.UK bank holidays JSON document that
// collects the event dates of division.
//
// Document shape: {"england-and-wales": {"division": "...", "events": [{"title": "...", "date": "2018-05-28"}, ...]}, ...}
func ParseGovUK(division string) func(content string) (DateSet, error) {
	return func(content string) (DateSet, error) {
		data := []byte(content)
		set := make(DateSet)

		var parseErr error
		_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
			if parseErr != nil {
				return
			}
			if err != nil {
				parseErr = err
				return
			}

			raw, err := jsonparser.GetString(value, "date")
			if err != nil {
				parseErr = fmt.Errorf("event at offset %d has no date: %w", offset, err)
				return
			}
			date, err := dateutil.ParseDate(raw)
			if err != nil {
				parseErr = fmt.Errorf("event at offset %d: %w", offset, err)
				return
			}
			set[dateutil.DateKey(date)] = struct{}{}
		}, division, "events")

		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, fmt.Errorf("division %q not found in document", division)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse bank holidays: %w", err)
		}
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse bank holidays: %w", parseErr)
		}

		return set, nil
	}
}
