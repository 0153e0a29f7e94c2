package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("REFUNDED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != OrderStatusRefunded {
		t.Fatalf("unexpected status %s", status)
	}

	if _, err := ParseOrderStatus("refunded"); err == nil {
		t.Fatal("expected case-sensitive parse to fail")
	}
	if _, err := ParseOrderStatus("SHIPPED"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestTerminalStatuses(t *testing.T) {
	if OrderStatusPending.IsTerminal() || OrderStatusCompleted.IsTerminal() {
		t.Fatal("pending/completed must not be terminal")
	}
	if !OrderStatusCancelled.IsTerminal() || !OrderStatusRefunded.IsTerminal() {
		t.Fatal("cancelled/refunded must be terminal")
	}
}

func TestDisplayCoversEveryStatus(t *testing.T) {
	for _, status := range OrderStatuses() {
		meta := status.Display()
		if meta.Label == "" || meta.Badge == "" {
			t.Fatalf("missing display metadata for %s", status)
		}
	}
	fallback := OrderStatus("MYSTERY").Display()
	if fallback.Label != "MYSTERY" || fallback.Badge != "neutral" {
		t.Fatalf("unexpected fallback metadata %+v", fallback)
	}
}

func TestParseOrderSortFieldDefaults(t *testing.T) {
	if got := ParseOrderSortField("totalAmount"); got != OrderSortTotalAmount {
		t.Fatalf("unexpected field %s", got)
	}
	if got := ParseOrderSortField("nope"); got != OrderSortCreatedAt {
		t.Fatalf("expected createdAt fallback, got %s", got)
	}
	if got := ParseSortDirection("asc"); got != SortAsc {
		t.Fatalf("unexpected direction %s", got)
	}
	if got := ParseSortDirection("sideways"); got != SortDesc {
		t.Fatalf("expected desc fallback, got %s", got)
	}
}
