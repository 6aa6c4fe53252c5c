package ui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestForcedApprover_Approves(t *testing.T) {
	var output bytes.Buffer

	approver := &ForcedApprover{output: &output}

	approved, err := approver.RequestApproval(context.Background(), "/data/ds", 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("Expected forced approval")
	}

	out := output.String()
	if !strings.Contains(out, "/data/ds") {
		t.Errorf("Expected output to contain dataset path, got:\n%s", out)
	}
	if !strings.Contains(out, "3 existing file(s)") {
		t.Errorf("Expected output to contain removal count, got:\n%s", out)
	}
}

func TestForcedApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := &ForcedApprover{output: &output}

	approved, err := approver.RequestApproval(ctx, "/data/ds", 1)
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected approval to be false on cancellation")
	}
}

func TestNewForcedApprover(t *testing.T) {
	approver := NewForcedApprover(true)
	if approver == nil {
		t.Fatal("Expected non-nil approver")
	}

	fa, ok := approver.(*ForcedApprover)
	if !ok {
		t.Fatal("Expected *ForcedApprover type")
	}
	if !fa.verbose {
		t.Error("Expected verbose=true")
	}
	if fa.output == nil {
		t.Error("Expected non-nil output writer")
	}
}

func TestInteractiveApprover_Yes(t *testing.T) {
	var output bytes.Buffer
	input := strings.NewReader("yes\n")

	approver := &InteractiveApprover{input: input, output: &output}

	approved, err := approver.RequestApproval(context.Background(), "/data/ds", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("Expected approval for 'yes' input")
	}

	out := output.String()
	if !strings.Contains(out, "Confirmed") {
		t.Errorf("Expected confirmation message, got:\n%s", out)
	}
}

func TestInteractiveApprover_CaseInsensitiveYes(t *testing.T) {
	var output bytes.Buffer
	input := strings.NewReader("  YES  \n")

	approver := &InteractiveApprover{input: input, output: &output}

	approved, err := approver.RequestApproval(context.Background(), "/data/ds", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("Expected approval for uppercase input with whitespace")
	}
}

func TestInteractiveApprover_Denied(t *testing.T) {
	var output bytes.Buffer
	input := strings.NewReader("no\n")

	approver := &InteractiveApprover{input: input, output: &output}

	approved, err := approver.RequestApproval(context.Background(), "/data/ds", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if approved {
		t.Fatal("Expected denial for 'no' input")
	}

	out := output.String()
	if !strings.Contains(out, "cancelled") {
		t.Errorf("Expected cancellation message, got:\n%s", out)
	}
}

func TestInteractiveApprover_EmptyInput(t *testing.T) {
	var output bytes.Buffer
	input := strings.NewReader("\n")

	approver := &InteractiveApprover{input: input, output: &output}

	approved, err := approver.RequestApproval(context.Background(), "/data/ds", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if approved {
		t.Fatal("Expected denial for empty input")
	}
}

func TestInteractiveApprover_ReadError(t *testing.T) {
	var output bytes.Buffer
	input := &errorReader{err: io.ErrUnexpectedEOF}

	approver := &InteractiveApprover{input: input, output: &output}

	approved, err := approver.RequestApproval(context.Background(), "/data/ds", 2)
	if err == nil {
		t.Fatal("Expected error for read failure")
	}
	if approved {
		t.Fatal("Expected denial on read error")
	}
	if !strings.Contains(err.Error(), "failed to read input") {
		t.Errorf("Expected read error wrapper, got: %v", err)
	}
}

func TestInteractiveApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	input := newBlockingReader()
	t.Cleanup(func() { input.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := &InteractiveApprover{input: input, output: &output}

	approved, err := approver.RequestApproval(ctx, "/data/ds", 2)
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected denial on context cancellation")
	}
}

func TestInteractiveApprover_OutputContainsWarning(t *testing.T) {
	var output bytes.Buffer
	input := strings.NewReader("yes\n")

	approver := &InteractiveApprover{input: input, output: &output}

	_, _ = approver.RequestApproval(context.Background(), "/data/ds", 4)

	out := output.String()
	if !strings.Contains(out, "WARNING") {
		t.Errorf("Expected WARNING in output, got:\n%s", out)
	}
	if !strings.Contains(out, "4 existing file(s)") {
		t.Errorf("Expected removal count in output, got:\n%s", out)
	}
}

func TestNewInteractiveApprover(t *testing.T) {
	approver := NewInteractiveApprover(false)
	if approver == nil {
		t.Fatal("Expected non-nil approver")
	}

	ia, ok := approver.(*InteractiveApprover)
	if !ok {
		t.Fatal("Expected *InteractiveApprover type")
	}
	if ia.verbose {
		t.Error("Expected verbose=false")
	}
	if ia.input == nil {
		t.Error("Expected non-nil input reader")
	}
	if ia.output == nil {
		t.Error("Expected non-nil output writer")
	}
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

type blockingReader struct {
	done chan struct{}
}

func newBlockingReader() *blockingReader {
	return &blockingReader{done: make(chan struct{})}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	return nil
}
