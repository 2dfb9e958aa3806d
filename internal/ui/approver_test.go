package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

func replaceRequest() epubseries.ReplaceRequest {
	return epubseries.ReplaceRequest{
		Book:     "/lib/Dune/1.epub",
		Existing: "Old Series",
		Proposed: epubseries.NewSeries("Dune", epubseries.IndexOf(1)),
	}
}

func TestInteractiveApprover_Answers(t *testing.T) {
	tests := []struct {
		input string
		want  epubseries.Decision
	}{
		{"y\n", epubseries.DecisionReplace},
		{"YES\n", epubseries.DecisionReplace},
		{"a\n", epubseries.DecisionReplaceAll},
		{"skip\n", epubseries.DecisionSkip},
		{"n\n", epubseries.DecisionDecline},
		{"\n", epubseries.DecisionDecline},
		{"maybe\n", epubseries.DecisionDecline},
		{"", epubseries.DecisionDecline},
		{"  y  \n", epubseries.DecisionReplace},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var output bytes.Buffer
			approver := NewInteractiveApprover(NewPrompterWith(strings.NewReader(tt.input), &output))

			got, err := approver.ConfirmReplace(context.Background(), replaceRequest())
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ConfirmReplace(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInteractiveApprover_OutputNamesBookAndSeries(t *testing.T) {
	var output bytes.Buffer
	approver := NewInteractiveApprover(NewPrompterWith(strings.NewReader("n\n"), &output))

	_, _ = approver.ConfirmReplace(context.Background(), replaceRequest())

	out := output.String()
	for _, want := range []string{"/lib/Dune/1.epub", "Old Series", "Dune #1", "[y/N/a/skip]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestInteractiveApprover_SharedReader(t *testing.T) {
	var output bytes.Buffer
	approver := NewInteractiveApprover(NewPrompterWith(strings.NewReader("y\nskip\na\n"), &output))

	want := []epubseries.Decision{epubseries.DecisionReplace, epubseries.DecisionSkip, epubseries.DecisionReplaceAll}
	for i, w := range want {
		got, err := approver.ConfirmReplace(context.Background(), replaceRequest())
		if err != nil {
			t.Fatalf("prompt %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("prompt %d = %v, want %v", i, got, w)
		}
	}
}

func TestInteractiveApprover_ReadError(t *testing.T) {
	var output bytes.Buffer
	approver := NewInteractiveApprover(NewPrompterWith(&errorReader{err: io.ErrUnexpectedEOF}, &output))

	got, err := approver.ConfirmReplace(context.Background(), replaceRequest())
	if err == nil {
		t.Fatal("Expected error for read failure")
	}
	if got.Replaces() {
		t.Fatal("Expected no replacement on read error")
	}
	if !strings.Contains(err.Error(), "failed to read input") {
		t.Errorf("Expected read error wrapper, got: %v", err)
	}
}

func TestInteractiveApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := NewInteractiveApprover(NewPrompterWith(strings.NewReader("y\n"), &output))
	got, err := approver.ConfirmReplace(ctx, replaceRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context cancellation error, got %v", err)
	}
	if got.Replaces() {
		t.Fatal("Expected no replacement on cancellation")
	}
}

func TestForcedApprover(t *testing.T) {
	var output bytes.Buffer
	approver := &ForcedApprover{verbose: true, output: &output}

	got, err := approver.ConfirmReplace(context.Background(), replaceRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != epubseries.DecisionReplace {
		t.Errorf("got %v, want DecisionReplace", got)
	}
	if !strings.Contains(output.String(), "Old Series") {
		t.Errorf("Expected verbose output to name the old series, got %q", output.String())
	}

	output.Reset()
	quiet := &ForcedApprover{output: &output}
	_, _ = quiet.ConfirmReplace(context.Background(), replaceRequest())
	if output.Len() != 0 {
		t.Errorf("Expected no output when not verbose, got %q", output.String())
	}
}

func TestDecliningApprover(t *testing.T) {
	got, err := DecliningApprover{}.ConfirmReplace(context.Background(), replaceRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != epubseries.DecisionDecline {
		t.Errorf("got %v, want DecisionDecline", got)
	}
}
