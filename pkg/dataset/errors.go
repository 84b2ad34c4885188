package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyDataset = errors.New("dataset has no header row")

// SchemaError reports required columns absent from the uploaded header.
type SchemaError struct {
	Missing []string
	reason  error
}

func (e SchemaError) Error() string {
	msg := fmt.Sprintf("dataset is missing required columns: %s", strings.Join(e.Missing, ", "))
	if e.reason != nil {
		return fmt.Sprintf("%s (%v)", msg, e.reason)
	}
	return msg
}

func (e SchemaError) Unwrap() error {
	return e.reason
}

func IsSchemaError(err error) bool {
	var se SchemaError
	return errors.As(err, &se)
}

func checkRequired(header []string) error {
	present := newColumnSet(header)
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return SchemaError{Missing: missing}
	}
	return nil
}
