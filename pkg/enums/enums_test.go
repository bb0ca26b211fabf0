package enums

import "testing"

func TestParseDeliveryMethod(t *testing.T) {
	got, err := ParseDeliveryMethod("domicilio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.RequiresAddress() {
		t.Fatalf("expected domicilio to require an address")
	}
	if DeliveryMethodPickup.RequiresAddress() {
		t.Fatalf("pickup must not require an address")
	}
	if _, err := ParseDeliveryMethod("drone"); err == nil {
		t.Fatalf("expected unknown delivery method to fail")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"efectivo", "transferencia", "tarjeta"} {
		if _, err := ParsePaymentMethod(raw); err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
	}
	if PaymentMethod("cheque").IsValid() {
		t.Fatalf("cheque should not be valid")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if OrderStatusPending.IsTerminal() {
		t.Fatalf("pending is not terminal")
	}
	if !OrderStatusCanceled.IsTerminal() || !OrderStatusDelivered.IsTerminal() {
		t.Fatalf("canceled and delivered are terminal")
	}
	if _, err := ParseOrderStatus("perdido"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("cliente")
	if err != nil || role != UserRoleCustomer {
		t.Fatalf("expected cliente role, got %q err=%v", role, err)
	}
	if _, err := ParseUserRole("root"); err == nil {
		t.Fatalf("expected unknown role to fail")
	}
}

func TestOutboxEnums(t *testing.T) {
	if !EventOrderCreated.IsValid() || !AggregateOrder.IsValid() {
		t.Fatalf("order_created/order must be valid")
	}
	if _, err := ParseOutboxEventType("order_lost"); err == nil {
		t.Fatalf("expected unknown event type to fail")
	}
}
