package trace

import (
	"strings"
	"testing"
)

func parseOne(t *testing.T, line string) *Syscall {
	t.Helper()
	p := NewParser()
	ch := p.Parse(strings.NewReader(line + "\n"))
	var sys *Syscall
	for res := range ch {
		if res.Err != nil {
			t.Fatalf("unexpected parse error: %v", res.Err)
		}
		sys = res.Syscall
	}
	if sys == nil {
		t.Fatalf("expected a Syscall, got none for line %q", line)
	}
	return sys
}

func TestParseOpenat(t *testing.T) {
	line := `12 1000.500000 openat(AT_FDCWD</tmp>, "/tmp/foo", O_WRONLY|O_CREAT|O_TRUNC, 0644) = 3</tmp/foo>`
	sys := parseOne(t, line)
	if sys.Name != "openat" || sys.Pid != 12 || sys.RetVal != 3 {
		t.Fatalf("got %+v", sys)
	}
	if len(sys.Args) != 4 {
		t.Fatalf("expected 4 args, got %d: %+v", len(sys.Args), sys.Args)
	}
	fdArg, ok := sys.Args[0].(IntegerExpr)
	if !ok {
		t.Fatalf("arg0 not IntegerExpr: %#v", sys.Args[0])
	}
	if string(fdArg.Metadata) != "/tmp" {
		t.Errorf("metadata = %q, want /tmp", fdArg.Metadata)
	}
	pathArg, ok := sys.Args[1].(BufferExpr)
	if !ok || string(pathArg.Value) != "/tmp/foo" {
		t.Fatalf("arg1 = %#v", sys.Args[1])
	}
	flagsArg := sys.Args[2].(IntegerExpr)
	if !flagsArg.Value.IsFlagSet("O_CREAT") || !flagsArg.Value.IsFlagSet("O_TRUNC") {
		t.Errorf("flags = %v, want O_CREAT and O_TRUNC set", flagsArg.Value.Flags())
	}
}

func TestParseUnfinishedResumed(t *testing.T) {
	lines := "7 10.0 read(4, <unfinished ...>\n" +
		"9 10.1 write(5, \"x\", 1) = 1\n" +
		"7 10.2 <... read resumed>\"hello\", 1024) = 5\n"
	p := NewParser()
	ch := p.Parse(strings.NewReader(lines))
	var got []*Syscall
	for res := range ch {
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		got = append(got, res.Syscall)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 completed syscalls, got %d", len(got))
	}
	if got[0].Name != "write" {
		t.Errorf("got[0].Name = %q, want write", got[0].Name)
	}
	if got[1].Name != "read" || got[1].Pid != 7 {
		t.Fatalf("got[1] = %+v", got[1])
	}
	buf, ok := got[1].Args[1].(BufferExpr)
	if !ok || string(buf.Value) != "hello" {
		t.Fatalf("reassembled read args = %+v", got[1].Args)
	}
}

func TestParseSocketStruct(t *testing.T) {
	line := `3 1.0 bind(4, {sa_family=AF_INET, sin_port=htons(8080), sin_addr=inet_addr("0.0.0.0")}, 16) = 0`
	sys := parseOne(t, line)
	st, ok := sys.Args[1].(StructExpr)
	if !ok {
		t.Fatalf("arg1 not StructExpr: %#v", sys.Args[1])
	}
	famArg, ok := st.Members["sa_family"].(IntegerExpr)
	if !ok || !famArg.Value.IsFlagSet("AF_INET") {
		t.Errorf("sa_family = %#v", st.Members["sa_family"])
	}
	portArg, ok := st.Members["sin_port"].(IntegerExpr)
	if !ok {
		t.Fatalf("sin_port not IntegerExpr: %#v", st.Members["sin_port"])
	}
	mc, ok := portArg.Value.(IntMacroCall)
	if !ok || mc.Call.Name != "htons" {
		t.Fatalf("sin_port not an htons macro call: %#v", portArg.Value)
	}
	lit, ok := MacroLiteralArg(mc.Call)
	if !ok || lit != 8080 {
		t.Errorf("htons literal = %v, %v; want 8080, true", lit, ok)
	}
}

func TestParseMalformedLineProducesParseError(t *testing.T) {
	p := NewParser()
	ch := p.Parse(strings.NewReader("not a valid strace line at all\n"))
	var sawErr bool
	for res := range ch {
		if res.Err != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Fatal("expected a ParseError for a malformed line")
	}
}
