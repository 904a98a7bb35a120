package fsrecord

import (
	"context"
	"fmt"
	"os"
)

// DirPinger reports whether the record directories are present and writable.
// The readiness endpoint uses it the way a database-backed service would
// ping its pool.
type DirPinger struct {
	dirs []string
}

func NewDirPinger(dirs ...string) *DirPinger {
	return &DirPinger{dirs: dirs}
}

func (p *DirPinger) Ping(ctx context.Context) error {
	for _, dir := range p.dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("storage dir %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage dir %s: not a directory", dir)
		}
		probe, err := os.CreateTemp(dir, ".ping-*")
		if err != nil {
			return fmt.Errorf("storage dir %s not writable: %w", dir, err)
		}
		probe.Close()
		os.Remove(probe.Name())
	}
	return nil
}
