package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mosaic-works/tessera/internal/schema"
)

// ErrCoercion indicates a raw value could not be converted to its field's
// semantic type. It never escapes a run; the pair becomes a raw fragment.
var ErrCoercion = errors.New("value coercion failed")

// Date values are normalized to this layout before storage so snapshot
// folding compares like with like.
const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Coerce converts an untrusted extraction value to the canonical form for a
// field type: trimmed strings for text, float64 for numbers, ISO dates for
// dates, bool for booleans. Nested objects and arrays never coerce.
func Coerce(fieldType schema.FieldType, raw any) (any, error) {
	switch fieldType {
	case schema.TypeText:
		return coerceText(raw)
	case schema.TypeNumber:
		return coerceNumber(raw)
	case schema.TypeDate:
		return coerceDate(raw)
	case schema.TypeBoolean:
		return coerceBoolean(raw)
	default:
		return nil, fmt.Errorf("%w: unknown field type %q", ErrCoercion, fieldType)
	}
}

func coerceText(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: empty text", ErrCoercion)
		}
		return trimmed, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("%w: %T is not text", ErrCoercion, raw)
	}
}

func coerceNumber(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrCoercion, v.String())
		}
		return f, nil
	case string:
		cleaned := strings.TrimSpace(v)
		cleaned = strings.TrimPrefix(cleaned, "$")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrCoercion, v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a number", ErrCoercion, raw)
	}
}

func coerceDate(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a date", ErrCoercion, raw)
	}

	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), nil
		}
	}

	return nil, fmt.Errorf("%w: %q is not a date", ErrCoercion, s)
}

func coerceBoolean(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(v)))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrCoercion, v)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a boolean", ErrCoercion, raw)
	}
}
