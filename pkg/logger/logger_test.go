package logger

import "testing"

func TestInitAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if err := Init(level, false); err != nil {
			t.Fatalf("init with level %s: %v", level, err)
		}
		if Logger() == nil {
			t.Fatal("expected a configured logger")
		}
	}
}

func TestInitFallsBackOnUnknownLevel(t *testing.T) {
	if err := Init("mystery", true); err != nil {
		t.Fatalf("init with unknown level: %v", err)
	}
	if Logger() == nil {
		t.Fatal("expected a configured logger")
	}
}

func TestWithModuleNeverNil(t *testing.T) {
	if WithModule("authz") == nil {
		t.Fatal("expected module logger")
	}
}
