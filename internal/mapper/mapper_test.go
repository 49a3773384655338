package mapper_test

import (
	"errors"
	"testing"

	"github.com/mosaic-works/tessera/internal/mapper"
	"github.com/mosaic-works/tessera/internal/schema"
)

const testSchemas = `
version = "1"

[[schemas]]
entity_type = "contact"

[[schemas.fields]]
name = "name"
type = "text"
synonyms = ["full name", "full_name"]

[[schemas.fields]]
name = "email"
type = "text"
identity = true

[[schemas.fields]]
name = "age"
type = "number"

[[schemas]]
entity_type = "invoice"

[[schemas.fields]]
name = "invoice_number"
type = "text"
identity = true

[[schemas.fields]]
name = "amount_due"
type = "number"
synonyms = ["total"]

[[schemas.fields]]
name = "due_date"
type = "date"

[[schemas.fields]]
name = "paid"
type = "boolean"
`

func newMapper(t *testing.T, denylist []string) *mapper.Mapper {
	t.Helper()
	registry, err := schema.Parse([]byte(testSchemas))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return mapper.New(registry, denylist)
}

func TestMapUnknownEntityType(t *testing.T) {
	m := newMapper(t, nil)

	_, err := m.Map("shipment", map[string]any{"carrier": "acme"})
	if !errors.Is(err, schema.ErrSchemaNotFound) {
		t.Errorf("Map(shipment) error = %v, want %v", err, schema.ErrSchemaNotFound)
	}
}

func TestMapPartitionsCandidates(t *testing.T) {
	m := newMapper(t, []string{"n/a"})

	result, err := m.Map("invoice", map[string]any{
		"Invoice_Number": "INV-0042",
		"Total":          "$1,250.00",
		"due_date":       "03/15/2026",
		"paid":           "false",
		"ship_to":        "12 Main St",
		"amount_due":     "n/a",
	})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if got := result.Fields["invoice_number"]; got != "INV-0042" {
		t.Errorf("invoice_number = %v, want INV-0042", got)
	}
	if got := result.Fields["amount_due"]; got != 1250.0 {
		t.Errorf("amount_due = %v, want 1250", got)
	}
	if got := result.Fields["due_date"]; got != "2026-03-15" {
		t.Errorf("due_date = %v, want 2026-03-15", got)
	}
	if got := result.Fields["paid"]; got != false {
		t.Errorf("paid = %v, want false", got)
	}

	if len(result.Unmatched) != 1 || result.Unmatched[0].Key != "ship_to" {
		t.Errorf("Unmatched = %v, want [ship_to]", result.Unmatched)
	}
	if len(result.Suspect) != 1 || result.Suspect[0].Key != "amount_due" {
		t.Errorf("Suspect = %v, want [amount_due]", result.Suspect)
	}
	if len(result.Failed) != 0 {
		t.Errorf("Failed = %v, want empty", result.Failed)
	}
}

func TestMapCoercionFailureQuarantines(t *testing.T) {
	m := newMapper(t, nil)

	result, err := m.Map("invoice", map[string]any{
		"invoice_number": "INV-1",
		"due_date":       "next tuesday",
		"amount_due":     "twelve",
	})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if len(result.Failed) != 2 {
		t.Fatalf("Failed = %v, want 2 pairs", result.Failed)
	}
	// Sorted candidate key order.
	if result.Failed[0].Key != "amount_due" || result.Failed[1].Key != "due_date" {
		t.Errorf("Failed keys = [%s %s], want [amount_due due_date]",
			result.Failed[0].Key, result.Failed[1].Key)
	}
	if _, ok := result.Fields["due_date"]; ok {
		t.Error("due_date present in Fields despite coercion failure")
	}
}

func TestMapCollidingKeysFirstWins(t *testing.T) {
	m := newMapper(t, nil)

	// Both keys resolve to the name field; sorted order puts "Full Name"
	// before "full_name", so the former wins and the latter is unmatched.
	result, err := m.Map("contact", map[string]any{
		"Full Name": "Ada Lovelace",
		"full_name": "A. Lovelace",
	})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if got := result.Fields["name"]; got != "Ada Lovelace" {
		t.Errorf("name = %v, want Ada Lovelace", got)
	}
	if len(result.Unmatched) != 1 || result.Unmatched[0].Key != "full_name" {
		t.Errorf("Unmatched = %v, want [full_name]", result.Unmatched)
	}
}

func TestMapDeterministic(t *testing.T) {
	m := newMapper(t, nil)

	candidates := map[string]any{
		"Full Name": "Ada",
		"full_name": "A.",
		"email":     "ada@example.org",
		"age":       "36",
		"hobby":     "mathematics",
	}

	first, err := m.Map("contact", candidates)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	for range 20 {
		next, err := m.Map("contact", candidates)
		if err != nil {
			t.Fatalf("Map() error = %v", err)
		}

		if len(next.Fields) != len(first.Fields) {
			t.Fatalf("Fields count varies between runs")
		}
		for k, v := range first.Fields {
			if next.Fields[k] != v {
				t.Fatalf("Fields[%s] varies between runs: %v != %v", k, next.Fields[k], v)
			}
		}
		for i, p := range first.Unmatched {
			if next.Unmatched[i] != p {
				t.Fatalf("Unmatched order varies between runs")
			}
		}
	}
}

func TestMapDenylistCaseInsensitive(t *testing.T) {
	m := newMapper(t, []string{"N/A", "unknown"})

	result, err := m.Map("contact", map[string]any{
		"email": "  UNKNOWN ",
		"name":  "n/a",
	})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if len(result.Suspect) != 2 {
		t.Errorf("Suspect = %v, want 2 pairs", result.Suspect)
	}
	if len(result.Fields) != 0 {
		t.Errorf("Fields = %v, want empty", result.Fields)
	}
}

func TestMapNonStringsBypassDenylist(t *testing.T) {
	m := newMapper(t, []string{"42"})

	result, err := m.Map("contact", map[string]any{"age": 42})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if got := result.Fields["age"]; got != 42.0 {
		t.Errorf("age = %v, want 42", got)
	}
	if len(result.Suspect) != 0 {
		t.Errorf("Suspect = %v, want empty", result.Suspect)
	}
}
