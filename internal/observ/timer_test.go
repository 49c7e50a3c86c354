package observ

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimer_Table(t *testing.T) {
	tm := NewTimer()
	strip := tm.Start("strip")
	rw := tm.Start("rewrite")
	rw.Stop("3 rules")
	strip.Stop("")
	tm.Start("emit")

	phases := tm.Phases()
	if len(phases) != 3 || phases[1].Name != "rewrite" || phases[1].Note != "3 rules" {
		t.Fatalf("unexpected phases %+v", phases)
	}
	var buf bytes.Buffer
	if err := tm.WriteTable(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"phase", "strip", "rewrite", "3 rules", "open", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestLap_StopTwiceKeepsFirst(t *testing.T) {
	tm := NewTimer()
	lap := tm.Start("x")
	first := lap.Stop("a")
	time.Sleep(time.Millisecond)
	if again := lap.Stop("b"); again != first {
		t.Errorf("second Stop = %v, want %v", again, first)
	}
	if tm.Phases()[0].Note != "a" {
		t.Errorf("note overwritten")
	}
}

func TestTimer_NilIsInert(t *testing.T) {
	var tm *Timer
	tm.Start("x").Stop("")
	if tm.Total() != 0 || tm.Phases() != nil {
		t.Fatal("nil timer recorded something")
	}
	if err := tm.WriteTable(&bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
}

func TestTimer_Concurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Start("job").Stop("")
		}()
	}
	wg.Wait()
	if got := len(tm.Phases()); got != 16 {
		t.Fatalf("phases = %d, want 16", got)
	}
}

func TestMillis(t *testing.T) {
	if got := Millis(1500 * time.Microsecond); got != 1.5 {
		t.Errorf("Millis = %v", got)
	}
}
