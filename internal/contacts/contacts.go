// Package contacts reads the recipient list for a campaign from CSV.
package contacts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

const (
	columnEmail     = "email"
	columnFirstName = "first_name"
	columnLastName  = "last_name"
)

// Contact is one recipient row.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
}

// Read parses a CSV with a header row naming at least the email column.
// first_name and last_name columns are optional. Rows only need a non-empty
// email containing "@"; anything finer is left to ActiveCampaign. Every row is
// checked before returning, and all problems are reported together.
func Read(r io.Reader) ([]Contact, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("contacts file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[columnEmail]; !ok {
		return nil, fmt.Errorf("contacts file has no %q column", columnEmail)
	}

	field := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		result []Contact
		errs   []error
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read contacts: %w", err)
		}

		line, _ := reader.FieldPos(0)
		contact := Contact{
			Email:     field(record, columnEmail),
			FirstName: field(record, columnFirstName),
			LastName:  field(record, columnLastName),
		}
		if err := validateEmail(contact.Email); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		result = append(result, contact)
	}

	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, err
	}
	return result, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is empty")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email %q is not an address", email)
	}
	return nil
}
