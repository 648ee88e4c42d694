package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("expected nil for nil error")
	}

	wrapped := WrapError(ErrProfileNotFound, "resolving daily")
	if !errors.Is(wrapped, ErrProfileNotFound) {
		t.Error("expected wrapped error to match sentinel")
	}
	if wrapped.Error() != "resolving daily: profile not found" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		configuration bool
		retrieval     bool
		audit         bool
		fatal         bool
	}{
		{"profile missing", ErrProfileNotFound, true, false, false, true},
		{"no default", ErrNoDefaultProfile, true, false, false, true},
		{"invalid profile", ErrInvalidProfile, true, false, false, true},
		{"embedding", ErrEmbeddingFailed, false, true, false, true},
		{"retrieval", ErrRetrievalFailed, false, true, false, true},
		{"audit", ErrAuditFailed, false, false, true, true},
		{"evidence source absorbed", ErrEvidenceSource, false, false, false, false},
		{"wrapped retrieval", fmt.Errorf("stage: %w", ErrRetrievalFailed), false, true, false, true},
		{"unrelated", errors.New("boom"), false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfiguration(tt.err); got != tt.configuration {
				t.Errorf("IsConfiguration: expected %v, got %v", tt.configuration, got)
			}
			if got := IsRetrieval(tt.err); got != tt.retrieval {
				t.Errorf("IsRetrieval: expected %v, got %v", tt.retrieval, got)
			}
			if got := IsAudit(tt.err); got != tt.audit {
				t.Errorf("IsAudit: expected %v, got %v", tt.audit, got)
			}
			if got := IsFatal(tt.err); got != tt.fatal {
				t.Errorf("IsFatal: expected %v, got %v", tt.fatal, got)
			}
		})
	}
}

func TestClassifiersNil(t *testing.T) {
	if IsConfiguration(nil) || IsRetrieval(nil) || IsAudit(nil) || IsFatal(nil) {
		t.Error("expected all classifiers false for nil")
	}
}
