package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name    string `validate:"required"`
	Size    int    `validate:"min=2"`
	Format  string `validate:"oneof=json text"`
	Address string `validate:"omitempty,hostname_port"`
}

func TestStruct_Valid(t *testing.T) {
	s := sample{Name: "maze", Size: 4, Format: "json", Address: "localhost:9090"}
	if err := Struct(s); err != nil {
		t.Errorf("Expected valid struct, got %v", err)
	}
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(sample{Size: 1, Format: "xml", Address: "nope"})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{
		"sample.Name: field is required",
		"sample.Size: must be at least 2",
		"sample.Format: must be one of [json text]",
		"sample.Address: must be host:port",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %q", want, msg)
		}
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil")
	}
}

func TestFieldError_Error(t *testing.T) {
	e := &FieldError{Field: "Size", Reason: "too small"}
	if e.Error() != "Size: too small" {
		t.Errorf("Unexpected message %q", e.Error())
	}
}
