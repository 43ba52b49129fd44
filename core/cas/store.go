// Package cas fingerprints canonical ATF and stores it by content.
//
// Blobs are stored by SHA-256 under <root>/blobs/sha256/<first2>/<hash>. A
// pointer file under <root>/blobs/blake3/<first2>/<hash>.json maps each
// BLAKE3 hash to its SHA-256 blob, so a blob can be found by either hash.
package cas

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"

	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// tempFileClose is a function variable for closing temp files (for testing).
var tempFileClose = func(f io.Closer) error {
	return f.Close()
}

// ErrBlobNotFound is returned when a blob with the given hash does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidHash is returned when a hash string is not 64 lowercase hex digits.
var ErrInvalidHash = errors.New("invalid hash format")

var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Store is a content-addressed blob store on disk.
type Store struct {
	root string
}

type pointer struct {
	SHA256 string `json:"sha256"`
}

// NewStore creates a store at root, creating the directory layout.
func NewStore(root string) (*Store, error) {
	for _, dir := range []string{"sha256", "blake3"} {
		if err := os.MkdirAll(filepath.Join(root, "blobs", dir), 0755); err != nil {
			return nil, atferrors.Wrap(err, "failed to create blob directory")
		}
	}
	return &Store{root: root}, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Put stores data and returns its fingerprint. Storing the same content
// twice is a no-op.
func (s *Store) Put(data []byte) (Fingerprint, error) {
	fp := Sum(data)
	blob := s.blobPath(fp.SHA256)
	if _, err := os.Stat(blob); err != nil {
		if err := writeAtomic(blob, data); err != nil {
			return Fingerprint{}, atferrors.Wrap(err, "failed to write blob")
		}
	}

	ptr := s.pointerPath(fp.BLAKE3)
	if _, err := os.Stat(ptr); err == nil {
		return fp, nil
	}
	body, err := json.Marshal(pointer{SHA256: fp.SHA256})
	if err != nil {
		return Fingerprint{}, atferrors.Wrap(err, "failed to marshal pointer")
	}
	if err := writeAtomic(ptr, body); err != nil {
		return Fingerprint{}, atferrors.Wrap(err, "failed to write BLAKE3 pointer")
	}
	return fp, nil
}

// Get returns the blob with the given SHA-256 hash.
func (s *Store) Get(sha256Hash string) ([]byte, error) {
	if !hashPattern.MatchString(sha256Hash) {
		return nil, ErrInvalidHash
	}
	data, err := os.ReadFile(s.blobPath(sha256Hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, atferrors.Wrap(err, "failed to read blob")
	}
	return data, nil
}

// Resolve maps a BLAKE3 hash to the SHA-256 hash of its blob.
func (s *Store) Resolve(blake3Hash string) (string, error) {
	if !hashPattern.MatchString(blake3Hash) {
		return "", ErrInvalidHash
	}
	data, err := os.ReadFile(s.pointerPath(blake3Hash))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrBlobNotFound
		}
		return "", atferrors.Wrap(err, "failed to read pointer")
	}
	var p pointer
	if err := json.Unmarshal(data, &p); err != nil {
		return "", atferrors.Wrap(err, "failed to parse pointer")
	}
	return p.SHA256, nil
}

// GetByBLAKE3 returns the blob with the given BLAKE3 hash.
func (s *Store) GetByBLAKE3(blake3Hash string) ([]byte, error) {
	sha, err := s.Resolve(blake3Hash)
	if err != nil {
		return nil, err
	}
	return s.Get(sha)
}

// Has reports whether a blob with the given SHA-256 hash exists.
func (s *Store) Has(sha256Hash string) bool {
	if !hashPattern.MatchString(sha256Hash) {
		return false
	}
	_, err := os.Stat(s.blobPath(sha256Hash))
	return err == nil
}

func (s *Store) blobPath(hash string) string {
	return filepath.Join(s.root, "blobs", "sha256", hash[:2], hash)
}

func (s *Store) pointerPath(hash string) string {
	return filepath.Join(s.root, "blobs", "blake3", hash[:2], hash+".json")
}

// writeAtomic writes data to path through a temp file and a rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".blob-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tempFileWrite(tmp, data); err != nil {
		tempFileClose(tmp)
		os.Remove(name)
		return err
	}
	if err := tempFileClose(tmp); err != nil {
		os.Remove(name)
		return err
	}
	if err := osRename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
