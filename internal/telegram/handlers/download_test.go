package handlers

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/qagen/internal/entity"
)

func TestReadLimited(t *testing.T) {
	data, err := readLimited(strings.NewReader("12345"), 5)
	if err != nil || string(data) != "12345" {
		t.Fatalf("got %q, %v", data, err)
	}

	if _, err := readLimited(strings.NewReader("123456"), 5); !errors.Is(err, entity.ErrFileTooLarge) {
		t.Errorf("over limit: %v", err)
	}

	data, err = readLimited(strings.NewReader("unbounded"), 0)
	if err != nil || string(data) != "unbounded" {
		t.Errorf("no limit: %q, %v", data, err)
	}
}
