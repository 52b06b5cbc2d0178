package logging

import (
	"testing"
)

func TestConstants(t *testing.T) {
	if FieldFile == "" {
		t.Error("FieldFile constant should not be empty")
	}
	if FieldLine == "" {
		t.Error("FieldLine constant should not be empty")
	}
	if FieldRowIndex == "" {
		t.Error("FieldRowIndex constant should not be empty")
	}
	if FieldRunID == "" {
		t.Error("FieldRunID constant should not be empty")
	}
	if FieldLine == FieldRowIndex {
		t.Error("line numbers and row indexes must be logged under different keys")
	}
}
