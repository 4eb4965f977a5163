package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"deptree/pkg/discovery"
	"deptree/pkg/pkggraph"
)

func TestWarningPrinter_Conflicts(t *testing.T) {
	g, _ := pkggraph.Build([]pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b>=2.0"}},
		{Name: "b", Version: "1.0"},
	})

	var buf bytes.Buffer
	wp := &warningPrinter{out: &buf, level: warnFail}
	wp.conflicts(pkggraph.Conflicts(g))

	out := buf.String()
	if !strings.Contains(out, "Possibly conflicting dependencies found:") {
		t.Errorf("output = %q, want conflict banner", out)
	}
	if !strings.Contains(out, "* a==1.0") {
		t.Errorf("output = %q, want the declaring package listed", out)
	}
	if !strings.Contains(out, " - b [required: >=2.0, installed: 1.0]") {
		t.Errorf("output = %q, want the failing requirement listed", out)
	}
	if !errors.Is(wp.exitErr(), errWarningsFound) {
		t.Error("exitErr() must report failure under --warn fail")
	}
}

func TestWarningPrinter_Cycles(t *testing.T) {
	g, _ := pkggraph.Build([]pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b"}},
		{Name: "b", Version: "1.0", Requires: []string{"a"}},
	})

	var buf bytes.Buffer
	wp := &warningPrinter{out: &buf, level: warnSuppress}
	wp.cycles(g, pkggraph.Cycles(g))

	out := buf.String()
	if !strings.Contains(out, "Cyclic dependencies found:") {
		t.Errorf("output = %q, want cycle banner", out)
	}
	if !strings.Contains(out, "* a => b => a") {
		t.Errorf("output = %q, want the cycle chain", out)
	}
	if wp.exitErr() != nil {
		t.Error("exitErr() must be nil under --warn suppress")
	}
}

func TestWarningPrinter_Silence(t *testing.T) {
	g, _ := pkggraph.Build([]pkggraph.DistRecord{
		{Name: "a", Version: "1.0", Requires: []string{"b>=2.0"}},
		{Name: "b", Version: "1.0"},
	})

	var buf bytes.Buffer
	wp := &warningPrinter{out: &buf, level: warnSilence}
	wp.conflicts(pkggraph.Conflicts(g))
	wp.cycles(g, pkggraph.Cycles(g))
	wp.singleLine("should not appear")

	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing under --warn silence", buf.String())
	}
	if wp.exitErr() != nil {
		t.Error("exitErr() must be nil under --warn silence")
	}
}

func TestWarningPrinter_DuplicatesNeverFail(t *testing.T) {
	var buf bytes.Buffer
	wp := &warningPrinter{out: &buf, level: warnFail}
	wp.duplicates([]discovery.Duplicate{{
		Key:     "foo",
		Kept:    pkggraph.DistRecord{Name: "foo", Version: "1.0"},
		Dropped: pkggraph.DistRecord{Name: "Foo", Version: "2.0"},
	}})

	if !strings.Contains(buf.String(), "Duplicate package metadata found:") {
		t.Errorf("output = %q, want duplicate banner", buf.String())
	}
	if wp.exitErr() != nil {
		t.Error("duplicate metadata must not trigger the failure exit")
	}
}

func TestWarningPrinter_Malformed(t *testing.T) {
	var buf bytes.Buffer
	wp := &warningPrinter{out: &buf, level: warnFail}
	wp.malformed([]pkggraph.MalformedRequirement{{
		Dist: "a",
		Raw:  "<>bogus",
		Err:  pkggraph.ErrMalformedRequirement,
	}})

	if !strings.Contains(buf.String(), "Malformed requirement strings found:") {
		t.Errorf("output = %q, want malformed banner", buf.String())
	}
	if !errors.Is(wp.exitErr(), errWarningsFound) {
		t.Error("malformed requirements must count towards the failure exit")
	}
}
