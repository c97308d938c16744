package verify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	dnsdomain "nathanbeddoewebdev/pbrec/internal/dns/domain"
	dnsverify "nathanbeddoewebdev/pbrec/internal/verify"
)

func TestWithDefaultPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.1.1.1", "1.1.1.1:53"},
		{"1.1.1.1:5353", "1.1.1.1:5353"},
		{"ns1.example.com", "ns1.example.com:53"},
		{"ns1.example.com:53", "ns1.example.com:53"},
		{"2606:4700::1111", "[2606:4700::1111]:53"},
		{"[2606:4700::1111]:53", "[2606:4700::1111]:53"},
	}

	for _, tt := range tests {
		if got := withDefaultPort(tt.in); got != tt.want {
			t.Errorf("withDefaultPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintReport(t *testing.T) {
	report := dnsverify.Report{
		Expectation: dnsverify.Expectation{
			Domain:  "example.com",
			Type:    dnsdomain.RecordTypeA,
			Name:    "www",
			Content: "192.0.2.1",
		},
		Answers: []dnsverify.Answer{
			{Resolver: "1.1.1.1:53", Values: []string{"192.0.2.1"}, RTT: 12 * time.Millisecond},
			{Resolver: "8.8.8.8:53", Values: []string{"198.51.100.9"}, RTT: 30 * time.Millisecond},
			{Resolver: "9.9.9.9:53", Err: errors.New("query timed out")},
		},
	}

	var buf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&buf)

	printReport(cmd, report)
	out := buf.String()

	for _, want := range []string{
		"RESOLVER", "STATUS", "RTT", "ANSWER",
		"1.1.1.1:53", "in sync", "12ms",
		"8.8.8.8:53", "pending", "198.51.100.9",
		"9.9.9.9:53", "error", "query timed out",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReport_AbsentNoAnswer(t *testing.T) {
	report := dnsverify.Report{
		Expectation: dnsverify.Expectation{
			Domain: "example.com",
			Type:   dnsdomain.RecordTypeA,
			Name:   "www",
			State:  dnsdomain.StateAbsent,
		},
		Answers: []dnsverify.Answer{
			{Resolver: "1.1.1.1:53", RTT: 9 * time.Millisecond},
		},
	}

	var buf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&buf)

	printReport(cmd, report)
	out := buf.String()

	if !strings.Contains(out, "in sync") {
		t.Errorf("an empty answer should satisfy an absent expectation:\n%s", out)
	}
	if !strings.Contains(out, "no answer") {
		t.Errorf("empty answers should render as %q:\n%s", "no answer", out)
	}
}

func TestVerifyCommand_AbsentConflictsWithContent(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs([]string{
		"--domain", "example.com", "--type", "A", "--name", "www",
		"--absent", "--content", "192.0.2.1",
	})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error combining --absent and --content, got nil")
	}
	if !strings.Contains(err.Error(), "--absent") {
		t.Errorf("error = %v, want it to mention the conflicting flags", err)
	}
}

func TestVerifyCommand_RequiresDomainAndType(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs([]string{"--name", "www"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected a required-flag error, got nil")
	}
	if !strings.Contains(err.Error(), "domain") {
		t.Errorf("error = %v, want it to name the missing flags", err)
	}
}
