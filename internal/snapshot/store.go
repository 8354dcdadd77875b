package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/errors"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/log"
)

const (
	namePrefix = "firewall-"
	nameSuffix = ".rules"
	timeLayout = "20060102-150405"

	// Collision cap for snapshots taken within the same second.
	maxPerSecond = 100
)

// Snapshot is one saved ruleset on disk.
type Snapshot struct {
	// Name is the file name, e.g. "firewall-20250825-153000.rules".
	Name string
	// Path is the absolute location of the snapshot file.
	Path string
	// TakenAt is the capture time (UTC, second resolution).
	TakenAt time.Time
	// Size is the ruleset size in bytes.
	Size int64
}

// Store keeps timestamped ruleset snapshots in a single directory. Snapshot
// files are write-once: an existing file is never overwritten, captures in
// the same second get a numeric suffix instead.
type Store struct {
	dir string
	clk clock.Clock
}

func NewStore(dir string, clk clock.Clock) *Store {
	return &Store{dir: dir, clk: clk}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Capture saves the running ruleset to a new snapshot file and returns its
// handle. The file content is exactly what ctl.Save() produced, so feeding it
// back through ctl.Restore() reproduces the captured state.
func (s *Store) Capture(ctl firewall.Controller) (*Snapshot, error) {
	ruleset, err := ctl.Save()
	if err != nil {
		return nil, errors.NewBackupFailedError("could not read the running ruleset", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, errors.NewBackupFailedError(fmt.Sprintf("could not create snapshot directory %s", s.dir), err)
	}

	takenAt := s.clk.Now().UTC().Truncate(time.Second)
	stamp := takenAt.Format(timeLayout)

	for seq := 1; seq <= maxPerSecond; seq++ {
		name := fileName(stamp, seq)
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return nil, errors.NewBackupFailedError(fmt.Sprintf("could not create snapshot file %s", path), err)
		}

		if _, err := f.WriteString(ruleset); err != nil {
			f.Close()
			// A partial snapshot must never be offered for restore.
			if rmErr := os.Remove(path); rmErr != nil {
				log.Warnf("Could not remove partial snapshot %s: %v", path, rmErr)
			}
			return nil, errors.NewBackupFailedError(fmt.Sprintf("could not write snapshot file %s", path), err)
		}
		if err := f.Close(); err != nil {
			if rmErr := os.Remove(path); rmErr != nil {
				log.Warnf("Could not remove partial snapshot %s: %v", path, rmErr)
			}
			return nil, errors.NewBackupFailedError(fmt.Sprintf("could not write snapshot file %s", path), err)
		}

		log.Debugf("Captured snapshot %s (%d bytes)", path, len(ruleset))
		return &Snapshot{
			Name:    name,
			Path:    path,
			TakenAt: takenAt,
			Size:    int64(len(ruleset)),
		}, nil
	}

	return nil, errors.NewBackupFailedError(fmt.Sprintf("too many snapshots taken at %s", stamp), nil)
}

// Restore feeds a snapshot back to the firewall. The file is re-read from
// disk so the restore uses what was actually persisted, not an in-memory
// copy.
func (s *Store) Restore(ctl firewall.Controller, snap *Snapshot) error {
	content, err := os.ReadFile(snap.Path)
	if err != nil {
		return errors.NewRollbackFailedError(fmt.Sprintf("could not read snapshot %s", snap.Path), err)
	}

	if err := ctl.Restore(string(content)); err != nil {
		return errors.NewRollbackFailedError(fmt.Sprintf("could not restore snapshot %s", snap.Name), err)
	}

	log.Debugf("Restored snapshot %s", snap.Name)
	return nil
}

// List returns all snapshots in the store, newest first.
func (s *Store) List() ([]*Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewSnapshotError(fmt.Sprintf("could not read snapshot directory %s", s.dir), err)
	}

	var snapshots []*Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		takenAt, _, ok := parseName(entry.Name())
		if !ok {
			continue
		}

		snap := &Snapshot{
			Name:    entry.Name(),
			Path:    filepath.Join(s.dir, entry.Name()),
			TakenAt: takenAt,
		}
		if info, err := entry.Info(); err == nil {
			snap.Size = info.Size()
		}
		snapshots = append(snapshots, snap)
	}

	// Newest first; same-second snapshots fall back to the name's numeric
	// suffix, so ordering does not depend on file system mtimes.
	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].TakenAt.Equal(snapshots[j].TakenAt) {
			return snapshots[i].TakenAt.After(snapshots[j].TakenAt)
		}
		_, seqI, _ := parseName(snapshots[i].Name)
		_, seqJ, _ := parseName(snapshots[j].Name)
		return seqI > seqJ
	})

	return snapshots, nil
}

// Latest returns the newest snapshot.
func (s *Store) Latest() (*Snapshot, error) {
	snapshots, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, errors.NewSnapshotError(fmt.Sprintf("no snapshots in %s", s.dir), nil)
	}
	return snapshots[0], nil
}

// Find returns the snapshot with the given file name.
func (s *Store) Find(name string) (*Snapshot, error) {
	snapshots, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, snap := range snapshots {
		if snap.Name == name {
			return snap, nil
		}
	}
	return nil, errors.NewSnapshotError(fmt.Sprintf("snapshot %s not found in %s", name, s.dir), nil)
}

func fileName(stamp string, seq int) string {
	if seq == 1 {
		return namePrefix + stamp + nameSuffix
	}
	return fmt.Sprintf("%s%s-%d%s", namePrefix, stamp, seq, nameSuffix)
}

// parseName extracts the capture time and same-second sequence number from a
// snapshot file name. Files that do not follow the naming scheme are skipped
// by List.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, namePrefix) || !strings.HasSuffix(name, nameSuffix) {
		return time.Time{}, 0, false
	}

	core := strings.TrimSuffix(strings.TrimPrefix(name, namePrefix), nameSuffix)

	seq := 1
	if len(core) > len(timeLayout) {
		rest := core[len(timeLayout):]
		if !strings.HasPrefix(rest, "-") {
			return time.Time{}, 0, false
		}
		n, err := strconv.Atoi(rest[1:])
		if err != nil || n < 2 {
			return time.Time{}, 0, false
		}
		seq = n
		core = core[:len(timeLayout)]
	}

	takenAt, err := time.ParseInLocation(timeLayout, core, time.UTC)
	if err != nil {
		return time.Time{}, 0, false
	}
	return takenAt, seq, true
}
