package payease

import (
	"testing"
	"time"

	"github.com/abhi-bhosle/payease/gateway"
)

func TestTransactionRecords(t *testing.T) {
	when := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	wire := []gateway.Transaction{
		{Type: "send", To: "bob", Amount: 100, Date: when},
		{Type: "receive", From: "carol", Amount: 20, Date: when},
	}

	records := transactionRecords(wire)
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Direction != DirectionSent || records[0].Counterparty != "bob" || records[0].Amount != 100 {
		t.Fatalf("sent record = %+v", records[0])
	}
	if records[1].Direction != DirectionReceived || records[1].Counterparty != "carol" || records[1].Amount != 20 {
		t.Fatalf("received record = %+v", records[1])
	}
	if !records[0].Timestamp.Equal(when) {
		t.Fatalf("timestamp = %v", records[0].Timestamp)
	}
}

func TestTransactionRecordsNil(t *testing.T) {
	if got := transactionRecords(nil); got != nil {
		t.Fatalf("nil wire produced %+v", got)
	}
	if got := transactionRecords([]gateway.Transaction{}); len(got) != 0 {
		t.Fatalf("empty wire produced %+v", got)
	}
}

func TestDirectionString(t *testing.T) {
	if got := DirectionSent.String(); got != "sent" {
		t.Fatalf("DirectionSent = %q", got)
	}
	if got := DirectionReceived.String(); got != "received" {
		t.Fatalf("DirectionReceived = %q", got)
	}
}
