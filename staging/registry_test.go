package staging

import "testing"

func TestRegistryReapLifecycle(t *testing.T) {
	var r Registry

	a := NewSeparated(0, 64)
	b := NewSeparated(1, 64)
	r.Register(a)
	r.Register(b)

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if reaped := r.Reap(); reaped != 0 {
		t.Fatalf("reaped %d live buffers", reaped)
	}

	// Retired with unread bytes: still not reapable.
	a.Push([]byte("pending"))
	a.Retire()
	if reaped := r.Reap(); reaped != 0 {
		t.Fatalf("reaped %d, want 0 while a holds unread bytes", reaped)
	}

	// Drain a: now it goes.
	_, avail := a.Peek()
	a.Pop(avail)
	if reaped := r.Reap(); reaped != 1 {
		t.Fatalf("reaped %d, want 1", reaped)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d after reap, want 1", r.Len())
	}

	snap := r.Snapshot(nil)
	if len(snap) != 1 || snap[0] != b {
		t.Fatal("snapshot does not hold exactly the surviving buffer")
	}

	// Snapshot reuses the slice it is given.
	snap2 := r.Snapshot(snap)
	if len(snap2) != 1 || &snap2[0] != &snap[0] {
		t.Fatal("snapshot did not reuse the destination slice")
	}

	b.Retire()
	if reaped := r.Reap(); reaped != 1 || r.Len() != 0 {
		t.Fatalf("final reap: reaped=%d len=%d", reaped, r.Len())
	}
}
