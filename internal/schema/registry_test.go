package schema_test

import (
	"errors"
	"testing"

	"github.com/mosaic-works/tessera/internal/schema"
)

const testSchemas = `
version = "2026-08"

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
synonyms = ["e-mail", "email address"]

[[schemas.fields]]
name = "phone"
type = "text"
synonyms = ["phone number", "tel"]

[[schemas]]
entity_type = "invoice"

[[schemas.fields]]
name = "invoice_number"
type = "text"
identity = true

[[schemas.fields]]
name = "amount_due"
type = "number"
synonyms = ["total", "amount"]
`

func mustParse(t *testing.T, data string) *schema.Registry {
	t.Helper()
	r, err := schema.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return r
}

func TestParseVersion(t *testing.T) {
	r := mustParse(t, testSchemas)
	if r.Version() != "2026-08" {
		t.Errorf("Version() = %q, want %q", r.Version(), "2026-08")
	}
}

func TestParseEntityTypesOrdered(t *testing.T) {
	r := mustParse(t, testSchemas)
	got := r.EntityTypes()
	want := []string{"contact", "invoice"}

	if len(got) != len(want) {
		t.Fatalf("EntityTypes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EntityTypes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"missing version", `[[schemas]]
entity_type = "x"
[[schemas.fields]]
name = "a"
type = "text"`, schema.ErrInvalidDefinition},
		{"no schemas", `version = "1"`, schema.ErrInvalidDefinition},
		{"empty entity type", `version = "1"
[[schemas]]
[[schemas.fields]]
name = "a"
type = "text"`, schema.ErrInvalidDefinition},
		{"no fields", `version = "1"
[[schemas]]
entity_type = "x"`, schema.ErrInvalidDefinition},
		{"bad field type", `version = "1"
[[schemas]]
entity_type = "x"
[[schemas.fields]]
name = "a"
type = "decimal"`, schema.ErrInvalidDefinition},
		{"duplicate field", `version = "1"
[[schemas]]
entity_type = "x"
[[schemas.fields]]
name = "a"
type = "text"
[[schemas.fields]]
name = "a"
type = "text"`, schema.ErrDuplicateField},
		{"duplicate entity type", `version = "1"
[[schemas]]
entity_type = "x"
[[schemas.fields]]
name = "a"
type = "text"
[[schemas]]
entity_type = "x"
[[schemas.fields]]
name = "b"
type = "text"`, schema.ErrDuplicateEntityType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetUnknownType(t *testing.T) {
	r := mustParse(t, testSchemas)
	_, err := r.Get("shipment")
	if !errors.Is(err, schema.ErrSchemaNotFound) {
		t.Errorf("Get(shipment) error = %v, want %v", err, schema.ErrSchemaNotFound)
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Email", "email"},
		{"  Phone   Number  ", "phone number"},
		{"FULL\tNAME", "full name"},
		{"already normal", "already normal"},
	}

	for _, tt := range tests {
		if got := schema.NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveExactAndSynonym(t *testing.T) {
	r := mustParse(t, testSchemas)

	tests := []struct {
		key  string
		want string
	}{
		{"email", "email"},
		{"Email", "email"},
		{"e-mail", "email"},
		{"Email Address", "email"},
		{"full name", "name"},
		{"full_name", "name"},
		{"Phone   Number", "phone"},
	}

	for _, tt := range tests {
		spec, err := r.Resolve("contact", tt.key)
		if err != nil {
			t.Fatalf("Resolve(contact, %q) error = %v", tt.key, err)
		}
		if spec == nil || spec.Name != tt.want {
			t.Errorf("Resolve(contact, %q) = %v, want field %q", tt.key, spec, tt.want)
		}
	}
}

func TestResolveMissReturnsNil(t *testing.T) {
	r := mustParse(t, testSchemas)

	spec, err := r.Resolve("contact", "favorite color")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if spec != nil {
		t.Errorf("Resolve(contact, favorite color) = %v, want nil", spec)
	}
}

func TestResolveAmbiguousSynonym(t *testing.T) {
	data := `
version = "1"

[[schemas]]
entity_type = "invoice"

[[schemas.fields]]
name = "amount_due"
type = "number"
synonyms = ["amount"]

[[schemas.fields]]
name = "amount_paid"
type = "number"
synonyms = ["amount"]
`
	r := mustParse(t, data)

	spec, err := r.Resolve("invoice", "amount")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if spec != nil {
		t.Errorf("ambiguous synonym resolved to %q, want nil", spec.Name)
	}

	// Unambiguous lookups still work alongside the poisoned synonym.
	spec, err = r.Resolve("invoice", "amount_due")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if spec == nil || spec.Name != "amount_due" {
		t.Errorf("Resolve(invoice, amount_due) = %v, want amount_due", spec)
	}
}

func TestSynonymNeverShadowsFieldName(t *testing.T) {
	data := `
version = "1"

[[schemas]]
entity_type = "contact"

[[schemas.fields]]
name = "name"
type = "text"

[[schemas.fields]]
name = "company"
type = "text"
synonyms = ["name"]
`
	r := mustParse(t, data)

	spec, err := r.Resolve("contact", "name")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if spec == nil || spec.Name != "name" {
		t.Errorf("Resolve(contact, name) = %v, want the name field", spec)
	}
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	r, err := schema.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if r.Version() == "" {
		t.Error("embedded registry has empty version")
	}
	if len(r.EntityTypes()) == 0 {
		t.Error("embedded registry has no entity types")
	}
}

func TestIdentityFields(t *testing.T) {
	r := mustParse(t, testSchemas)

	def, err := r.Get("contact")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	got := def.IdentityFields()
	if len(got) != 1 || got[0] != "email" {
		t.Errorf("IdentityFields() = %v, want [email]", got)
	}
}
