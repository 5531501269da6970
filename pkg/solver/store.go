package solver

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/yourusername/zdengine/internal/dicestate"
	"github.com/yourusername/zdengine/internal/kernel"
)

// Solved tables are stored as a fixed-size ASCII header followed by the raw
// win-probability table (little-endian float64) and the action table (one
// byte per state). The header pins every parameter the tables depend on, so
// a stale file can never be read into mismatched dimensions.
const (
	storeHeaderLen = 64
	storeMagic     = "zdsolve"
)

// ErrHeaderMismatch is returned when a solution file's parameters do not
// match the requested configuration.
var ErrHeaderMismatch = errors.New("solution file parameters do not match")

// SolutionFilename is the canonical file name for a configuration, e.g.
// zd_solution_goal13_max26_eps1e-14.dat.
func SolutionFilename(cfg Config) string {
	cfg = cfg.withDefaults()
	return fmt.Sprintf("zd_solution_goal%d_max%d_eps%.0e.dat", cfg.Goal, cfg.Ceiling, cfg.Epsilon)
}

// Save writes the solved tables to path.
func (s *Solver) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving solution: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	header := fmt.Sprintf("%s v1 goal=%d max=%d eps=%.0e states=%d",
		storeMagic, s.cfg.Goal, s.cfg.Ceiling, s.cfg.Epsilon, s.game.n)
	if len(header) >= storeHeaderLen {
		return fmt.Errorf("saving solution: header too long: %q", header)
	}
	buf := make([]byte, storeHeaderLen)
	copy(buf, header)
	for i := len(header); i < storeHeaderLen; i++ {
		buf[i] = ' '
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("saving solution: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, s.pWin); err != nil {
		return fmt.Errorf("saving solution: %w", err)
	}
	rollBytes := make([]byte, len(s.roll))
	for i, r := range s.roll {
		if r {
			rollBytes[i] = 1
		}
	}
	if _, err := w.Write(rollBytes); err != nil {
		return fmt.Errorf("saving solution: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("saving solution: %w", err)
	}
	return nil
}

// Load reads a solution file written by Save, rebuilding the dice state
// space and transition kernel for the parameters in its header.
func Load(path string) (*Solver, error) {
	return LoadWith(path, nil)
}

// LoadWith is Load with an optional prebuilt kernel to reuse.
func LoadWith(path string, k *kernel.Kernel) (*Solver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading solution: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	cfg, states, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("loading solution %s: %w", path, err)
	}

	if k == nil {
		k = kernel.Build(dicestate.Enumerate())
	}
	if k.Universe.NumStates() != states {
		return nil, fmt.Errorf("loading solution %s: %d dice states in file, %d enumerated: %w",
			path, states, k.Universe.NumStates(), ErrHeaderMismatch)
	}
	s := NewFromKernel(cfg, k)

	if err := binary.Read(r, binary.LittleEndian, s.pWin); err != nil {
		return nil, fmt.Errorf("loading solution %s: win table: %w", path, err)
	}
	rollBytes := make([]byte, len(s.roll))
	if _, err := io.ReadFull(r, rollBytes); err != nil {
		return nil, fmt.Errorf("loading solution %s: action table: %w", path, err)
	}
	for i, b := range rollBytes {
		s.roll[i] = b != 0
	}
	return s, nil
}

func readHeader(r io.Reader) (Config, int, error) {
	buf := make([]byte, storeHeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Config{}, 0, fmt.Errorf("reading header: %w", err)
	}
	var (
		magic, version string
		cfg            Config
		states         int
	)
	_, err := fmt.Sscanf(string(buf), "%s %s goal=%d max=%d eps=%e states=%d",
		&magic, &version, &cfg.Goal, &cfg.Ceiling, &cfg.Epsilon, &states)
	if err != nil {
		return Config{}, 0, fmt.Errorf("parsing header %q: %w", string(buf), err)
	}
	if magic != storeMagic || version != "v1" {
		return Config{}, 0, fmt.Errorf("not a v1 solution file: %q", string(buf))
	}
	return cfg, states, nil
}

// LoadOrSolve loads the canonical solution file for cfg from dir, or solves
// from scratch and saves it there. This is the entry point long-running
// consumers should use; a full solve takes hours at the standard goal.
func LoadOrSolve(cfg Config, dir string) (*Solver, error) {
	cfg = cfg.withDefaults()
	path := filepath.Join(dir, SolutionFilename(cfg))
	if _, err := os.Stat(path); err == nil {
		if cfg.Verbose {
			log.Printf("loading solution from %s", path)
		}
		s, err := Load(path)
		if err != nil {
			return nil, err
		}
		got := s.cfg
		if got.Goal != cfg.Goal || got.Ceiling != cfg.Ceiling || got.Epsilon != cfg.Epsilon {
			return nil, fmt.Errorf("%s: %w", path, ErrHeaderMismatch)
		}
		return s, nil
	}
	if cfg.Verbose {
		log.Printf("no solution at %s, solving", path)
	}
	s := New(cfg)
	s.Solve()
	if err := s.Save(path); err != nil {
		return nil, err
	}
	return s, nil
}
