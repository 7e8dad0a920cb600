package shipping

import "testing"

func TestAddressSimpleZip(t *testing.T) {
	for _, zip := range []string{"95014", "95014-1234"} {
		addr := NewAddress("CA", "Cupertino", zip, "1 Infinite Circle", "", "")
		if got := addr.SimpleZip(); got != "95014" {
			t.Fatalf("expected simple zip 95014 for %q, got %q", zip, got)
		}
	}
}

func TestAddressTitleCase(t *testing.T) {
	addr := NewAddress("ca", "cupertino", "95014", "1 INFINITE LOOP", "01", "C067")
	if addr.State != "Ca" || addr.City != "Cupertino" {
		t.Fatalf("expected Ca/Cupertino, got %q/%q", addr.State, addr.City)
	}
	if addr.Street != "1 Infinite Loop" {
		t.Fatalf("expected title-cased street, got %q", addr.Street)
	}
	if addr.DeliveryPoint != "01" || addr.CarrierRoute != "C067" {
		t.Fatalf("expected delivery point and carrier route unchanged, got %+v", addr)
	}
}

func TestAddressTitleCaseApostrophes(t *testing.T) {
	addr := NewAddress("id", "COEUR D'ALENE", "83814", "123 O'NEIL ST", "", "")
	if addr.City != "Coeur D'Alene" {
		t.Fatalf("expected Coeur D'Alene, got %q", addr.City)
	}
	if addr.Street != "123 O'Neil St" {
		t.Fatalf("expected 123 O'Neil St, got %q", addr.Street)
	}

	addr = NewAddress("CA", "SAN JOSE", "95112", "ELM ST", "", "")
	if addr.Street != "Elm St" || addr.City != "San Jose" {
		t.Fatalf("unexpected title case %q/%q", addr.Street, addr.City)
	}
}

func TestAddressValidationResponseEmpty(t *testing.T) {
	resp := NewAddressValidationResponse()
	resp.Add()
	if resp.Validated() {
		t.Fatal("expected empty response to be unvalidated")
	}
	if resp.Address() != nil {
		t.Fatalf("expected nil address, got %+v", resp.Address())
	}
}

func TestAddressValidationResponseFirstAddress(t *testing.T) {
	first := NewAddress("CA", "Cupertino", "95014-2083", "1 Infinite Loop", "", "")
	second := NewAddress("CA", "Cupertino", "95014-2084", "2 Infinite Loop", "", "")

	resp := NewAddressValidationResponse(first)
	resp.Add(second)

	if !resp.Validated() {
		t.Fatal("expected response to be validated")
	}
	if resp.Address() != first {
		t.Fatalf("expected first address, got %+v", resp.Address())
	}
	if len(resp.Addresses) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(resp.Addresses))
	}
}
