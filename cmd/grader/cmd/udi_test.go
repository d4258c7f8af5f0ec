package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nala-edu/ai-grader/internal/modules/grading/identity"
)

func TestUDICommand(t *testing.T) {
	c := newUDICmd()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{"u1", "EE2101", "--year", "2024/25", "--semester", "1"})
	if err := c.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := identity.Hash("u1", "EE2101", "2024/25", "1", "")
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
	if !strings.HasSuffix(want, "-EE2101-202425-1") {
		t.Fatalf("unexpected udi shape: %q", want)
	}
}

func TestUDICommandRequiresArgs(t *testing.T) {
	c := newUDICmd()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"u1"})
	if err := c.Execute(); err == nil {
		t.Fatalf("expected an argument error")
	}
}
