package rpc

import (
	"context"
	"net"
	"testing"
	"time"
)

// startServer spins up a daemon on an ephemeral port and returns its
// address.
func startServer(t *testing.T) string {
	t.Helper()
	server, err := NewServer()
	if err != nil {
		t.Fatal(err)
	}
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go server.ServeListener(lis)
	t.Cleanup(server.Stop)
	return lis.Addr().String()
}

func TestServiceDescriptorLoads(t *testing.T) {
	sd, err := loadServiceDescriptor()
	if err != nil {
		t.Fatal(err)
	}
	if sd.FindMethodByName("Check") == nil {
		t.Error("expected a Check method")
	}
}

func TestCheckRoundTrip(t *testing.T) {
	addr := startServer(t)

	client, err := Dial(addr)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID, diags, err := client.Check(ctx, "remote.loom", "let g x = frobnicate x + 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if sessionID == "" {
		t.Error("expected a session id")
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Code != "C001" {
		t.Errorf("expected C001, got %s", diags[0].Code)
	}
	if diags[0].Line == 0 {
		t.Error("expected a source position")
	}
}

func TestCheckRoundTripClean(t *testing.T) {
	addr := startServer(t)

	client, err := Dial(addr)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, diags, err := client.Check(ctx, "ok.loom", "let id x = x\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}
