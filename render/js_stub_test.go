//go:build !js_eval

package render

import (
	"errors"
	"testing"
)

func TestForDialectJSUnavailable(t *testing.T) {
	if NewJS() != nil {
		t.Fatalf("expected no js renderer without the js_eval tag")
	}
	if _, err := ForDialect(DialectJS, nil); !errors.Is(err, ErrDialectUnavailable) {
		t.Fatalf("expected unavailable dialect error, got %v", err)
	}
}
