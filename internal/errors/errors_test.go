package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := AudioGeneration("failed to generate audio", io.ErrUnexpectedEOF)
	want := "failed to generate audio: unexpected EOF"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	bare := InvalidInput("url is required", nil)
	if bare.Error() != "url is required" {
		t.Errorf("expected bare message, got %q", bare.Error())
	}
}

func TestKindOfReturnsOutermost(t *testing.T) {
	inner := AudioGeneration("failed to generate audio", io.EOF)
	outer := ContentProcessing("failed to create podcast", fmt.Errorf("chapter 2: %w", inner))

	kind, ok := KindOf(outer)
	if !ok {
		t.Fatal("expected classified error")
	}
	if kind != KindContentProcessing {
		t.Errorf("expected %s, got %s", KindContentProcessing, kind)
	}

	if !IsAudioGeneration(outer) {
		t.Error("expected inner audio generation kind to be reachable")
	}
	if !IsContentProcessing(outer) {
		t.Error("expected outer content processing kind")
	}
	if IsScraping(outer) {
		t.Error("did not expect scraping kind")
	}
	if !errors.Is(outer, io.EOF) {
		t.Error("expected root cause to be preserved")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if _, ok := KindOf(io.EOF); ok {
		t.Error("expected unclassified error")
	}
	if Message(io.EOF) != "" {
		t.Error("expected empty message for unclassified error")
	}
	if IsInvalidInput(nil) {
		t.Error("nil error must not match any kind")
	}
}
