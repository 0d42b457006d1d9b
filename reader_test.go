package mrrb

import "testing"

func TestNewReaderRejectsNilNotify(t *testing.T) {
	_, err := NewReader("h", PolicyBlocking, nil, nil)
	if err != ErrNilNotify {
		t.Fatalf("expected ErrNilNotify, got %v", err)
	}
}

func TestNewReaderSkipRequiresAbort(t *testing.T) {
	notify := func(any, []byte) {}
	_, err := NewReader("h", PolicySkip, notify, nil)
	if err != ErrSkipRequiresAbort {
		t.Fatalf("expected ErrSkipRequiresAbort, got %v", err)
	}

	_, err = NewReader("h", PolicySkip, notify, func(any) {})
	if err != nil {
		t.Fatalf("unexpected error constructing skip reader with abort: %v", err)
	}
}

func TestNewReaderStartsDisabled(t *testing.T) {
	r, err := NewReader("h", PolicyBlocking, func(any, []byte) {}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State() != "Disabled" {
		t.Fatalf("expected new reader to start Disabled, got %s", r.State())
	}
	if r.Handle() != "h" {
		t.Fatalf("expected handle %q, got %v", "h", r.Handle())
	}
	if r.Policy() != PolicyBlocking {
		t.Fatalf("expected PolicyBlocking, got %v", r.Policy())
	}
}

func TestPolicyString(t *testing.T) {
	cases := map[Policy]string{
		PolicyBlocking: "Blocking",
		PolicyDisable:  "Disable",
		PolicySkip:     "Skip",
		Policy(99):     "Policy(?)",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Fatalf("Policy(%d).String() = %q, want %q", p, got, want)
		}
	}
}
