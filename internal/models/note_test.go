package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/vaultgraph/internal/apperr"
)

func TestEncodeReference_OmitsAbsentDisplay(t *testing.T) {
	data, err := Encode(Reference{Target: "test", Offset: 10})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := string(data); got != `{"target":"test","offset":10}` {
		t.Errorf("json = %s", got)
	}
}

func TestEncodeDocument_FieldNames(t *testing.T) {
	mod := int64(1700000000)
	data, err := Encode(Document{Path: "a.md", Content: "x", Metadata: map[string]string{}, ModifiedAt: &mod})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, key := range []string{`"path"`, `"content"`, `"metadata"`, `"modifiedAt":1700000000`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("json %s missing %s", data, key)
		}
	}
}

func TestDecode_InvalidIsSerializationError(t *testing.T) {
	var d Document
	err := Decode([]byte("{not json"), &d)
	if !errors.Is(err, apperr.ErrSerialization) {
		t.Errorf("err = %v, want serialization error", err)
	}
}

func TestEncode_UnsupportedValue(t *testing.T) {
	_, err := Encode(map[string]any{"ch": make(chan int)})
	if !errors.Is(err, apperr.ErrSerialization) {
		t.Errorf("err = %v, want serialization error", err)
	}
}
