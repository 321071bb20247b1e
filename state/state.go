// Package state persists the blinds known to a remote.
//
// The file format is the line-oriented "Key: value" format used by the
// Flipper Zero application, so state files can be shared with it:
//
//	Filetype: Somfy RTS State
//	Version: 1
//	Count: 1
//	Name: Kitchen
//	Address: 1048578
//	RollingCode: 12
package state

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ecc1/somfy"
)

const (
	fileType = "Somfy RTS State"
	version  = 1

	// MaxBlinds is the number of blinds a state can hold.
	MaxBlinds = 8
	// MaxNameLen is the maximum length of a blind name in bytes.
	MaxNameLen = 20

	// baseAddress is the address base for newly added blinds.
	baseAddress = 0x100001
)

var (
	ErrBadHeader = errors.New("not a Somfy RTS state file")
	ErrFull      = errors.New("too many blinds")
	ErrNotFound  = errors.New("no such blind")
	ErrDuplicate = errors.New("blind already exists")
)

// State is the list of known blinds.
type State struct {
	Blinds []somfy.Blind
}

// Load reads the state file at path.
// A missing file yields an empty state.
func Load(path string) (*State, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return s, nil
}

// Read decodes a state from r. Blinds after a truncated or malformed
// record are dropped, as are blinds beyond MaxBlinds.
func Read(r io.Reader) (*State, error) {
	d := decoder{scanner: bufio.NewScanner(r)}
	ft, err := d.value("Filetype")
	if err != nil || ft != fileType {
		return nil, ErrBadHeader
	}
	v, err := d.number("Version", 32)
	if err != nil || v != version {
		return nil, ErrBadHeader
	}
	s := &State{}
	count, err := d.number("Count", 32)
	if err != nil {
		return s, nil
	}
	if count > MaxBlinds {
		count = MaxBlinds
	}
	for i := 0; i < int(count); i++ {
		b, err := d.blind()
		if err != nil {
			break
		}
		s.Blinds = append(s.Blinds, b)
	}
	return s, d.scanner.Err()
}

type decoder struct {
	scanner *bufio.Scanner
}

// value returns the value of the next non-comment line, which must have the given key.
func (d *decoder) value(key string) (string, error) {
	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, ":")
		if i < 0 {
			return "", fmt.Errorf("malformed line %q", line)
		}
		if k := strings.TrimSpace(line[:i]); k != key {
			return "", fmt.Errorf("found key %q, want %q", k, key)
		}
		return strings.TrimSpace(line[i+1:]), nil
	}
	return "", io.ErrUnexpectedEOF
}

func (d *decoder) number(key string, bitSize int) (uint64, error) {
	v, err := d.value(key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(v, 10, bitSize)
}

func (d *decoder) blind() (somfy.Blind, error) {
	name, err := d.value("Name")
	if err != nil {
		return somfy.Blind{}, err
	}
	addr, err := d.number("Address", 32)
	if err != nil {
		return somfy.Blind{}, err
	}
	rc, err := d.number("RollingCode", 32)
	if err != nil {
		return somfy.Blind{}, err
	}
	code := uint16(rc)
	if code == 0 {
		// 0 is never transmitted; a stored 0 or 65536 means the code wrapped.
		code = somfy.InitialRollingCode
	}
	return somfy.Blind{
		Name:        truncate(name),
		Address:     uint32(addr),
		RollingCode: code,
	}, nil
}

func truncate(name string) string {
	if len(name) > MaxNameLen {
		return name[:MaxNameLen]
	}
	return name
}

// Write encodes s to w.
func (s *State) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Filetype: %s\n", fileType)
	fmt.Fprintf(bw, "Version: %d\n", version)
	fmt.Fprintf(bw, "Count: %d\n", len(s.Blinds))
	for _, b := range s.Blinds {
		fmt.Fprintf(bw, "Name: %s\n", b.Name)
		fmt.Fprintf(bw, "Address: %d\n", b.Address)
		fmt.Fprintf(bw, "RollingCode: %d\n", b.RollingCode)
	}
	return bw.Flush()
}

// Save writes s to path, replacing the previous contents atomically.
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := s.Write(tmp); err != nil {
		tmp.Close()
		return errors.Wrap(err, tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Lookup returns the blind with the given name.
func (s *State) Lookup(name string) (*somfy.Blind, error) {
	for i := range s.Blinds {
		if s.Blinds[i].Name == name {
			return &s.Blinds[i], nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%q", name)
}

// Add registers a new blind with the next free address.
// An empty name is replaced by "Blind N".
func (s *State) Add(name string) (*somfy.Blind, error) {
	n := len(s.Blinds)
	if n >= MaxBlinds {
		return nil, ErrFull
	}
	if name == "" {
		name = fmt.Sprintf("Blind %d", n+1)
	}
	name = truncate(name)
	if _, err := s.Lookup(name); err == nil {
		return nil, errors.Wrapf(ErrDuplicate, "%q", name)
	}
	s.Blinds = append(s.Blinds, somfy.Blind{
		Name:        name,
		Address:     s.nextAddress(),
		RollingCode: somfy.InitialRollingCode,
	})
	return &s.Blinds[n], nil
}

// nextAddress returns baseAddress+len+1, skipping addresses still in use
// after a blind has been removed.
func (s *State) nextAddress() uint32 {
	addr := uint32(baseAddress + len(s.Blinds) + 1)
	for s.inUse(addr) {
		addr++
	}
	return addr
}

func (s *State) inUse(addr uint32) bool {
	for _, b := range s.Blinds {
		if b.Address == addr {
			return true
		}
	}
	return false
}

// Remove deletes the blind with the given name.
func (s *State) Remove(name string) error {
	for i := range s.Blinds {
		if s.Blinds[i].Name == name {
			s.Blinds = append(s.Blinds[:i], s.Blinds[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrNotFound, "%q", name)
}
