package log

import "testing"

type captureSink struct {
	lines []string
}

func (s *captureSink) WriteLineString(line string) { s.lines = append(s.lines, line) }
func (s *captureSink) WriteLineBytes(b []byte)     { s.lines = append(s.lines, string(b)) }

func TestTaggedLine(t *testing.T) {
	sink := &captureSink{}
	l := New(sink, "update")

	l.Infof("%s update started, %d bytes", "firmware", 1024)

	if len(sink.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(sink.lines))
	}
	want := "INFO [update] firmware update started, 1024 bytes"
	if sink.lines[0] != want {
		t.Fatalf("line = %q, want %q", sink.lines[0], want)
	}
}

func TestLevels(t *testing.T) {
	sink := &captureSink{}
	l := New(sink, "")

	l.Warn("a")
	l.Error("b")
	l.Fatal("c")

	want := []string{"WARN a", "ERROR b", "FATAL c"}
	for i, w := range want {
		if sink.lines[i] != w {
			t.Fatalf("line %d = %q, want %q", i, sink.lines[i], w)
		}
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("ignored")
	l.WithTag("x").Errorf("also ignored %d", 1)

	l2 := New(nil, "tag")
	l2.Warn("ignored")
}
