package logging

import "testing"

func TestNew_DoesNotPanic(t *testing.T) {
	l := New(LevelInfo)
	l.Info("hello", "key", "value")
	l.Debug("suppressed at info level")
	child := l.WithFields("component", "test")
	child.Warn("a warning")
	if err := l.Sync(); err != nil {
		// Syncing stderr commonly fails with ENOTTY in test sandboxes;
		// this is expected and not a logger defect.
		t.Logf("sync returned (expected in some sandboxes): %v", err)
	}
}

func TestLevel_ZapLevel(t *testing.T) {
	cases := map[Level]bool{
		LevelDebug: true,
		LevelInfo:  true,
		LevelWarn:  true,
		LevelError: true,
		Level("bogus"): true,
	}
	for lvl := range cases {
		_ = lvl.zapLevel()
	}
}
