package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

// outputLock is an O_EXCL-created sentinel file guarding one output
// directory. Concurrent dist invocations against the same output directory
// have undefined behavior and must be prevented by the caller (spec.md
// §5); this is that prevention at the CLI boundary, the only layer that
// knows about a filesystem output directory at all (the engine itself is
// pure and holds no file locks).
type outputLock struct {
	path string
}

func acquireOutputLock(dir string) (*outputLock, error) {
	path := filepath.Join(dir, ".dist-lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("output directory %s is locked by another dist invocation (remove %s if this is stale)", dir, path)
		}
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return &outputLock{path: path}, nil
}

func (l *outputLock) release() {
	if l != nil {
		os.Remove(l.path)
	}
}
