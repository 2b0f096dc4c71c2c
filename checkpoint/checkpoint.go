// Package checkpoint persists evaluator parameters and the optimizer state.
//
// Binary layout, all little-endian:
//   - 4 bytes magic "TD10"
//   - uint32 training iteration
//   - uint32 number of tensors
//   - per tensor: uint32 rank, rank x uint32 dims, then the float64 data in row-major order
//   - uint32 optimizer step, then per tensor the first and second moment estimates as
//     float64, each shaped like the tensor
package checkpoint

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tdchess/evaluator"

	"github.com/pkg/errors"
)

var magic = [4]byte{'T', 'D', '1', '0'}

var (
	ErrBadMagic      = errors.New("not a checkpoint file")
	ErrShapeMismatch = errors.New("checkpoint does not match the evaluator's parameters")
)

// Moments is the optimizer state stored with the parameters: the step count and one
// first and second moment slice per parameter tensor.
type Moments struct {
	Step int
	M, V [][]float64
}

// LatestFile is the name of the rolling copy of the most recent checkpoint.
const LatestFile = "latest.ckpt"

// Encode writes params and moments in the checkpoint layout. Nil moments are written as
// a fresh optimizer: step 0 and zero estimates.
func Encode(w io.Writer, iteration int, params evaluator.Parameters, moments *Moments) error {
	header := []uint32{uint32(iteration), uint32(len(params))}
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	for _, p := range params {
		dims := make([]uint32, 0, len(p.Shape)+1)
		dims = append(dims, uint32(len(p.Shape)))
		for _, d := range p.Shape {
			dims = append(dims, uint32(d))
		}
		if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.Data); err != nil {
			return err
		}
	}
	return encodeMoments(w, params, moments)
}

func encodeMoments(w io.Writer, params evaluator.Parameters, moments *Moments) error {
	if moments == nil {
		moments = &Moments{}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(moments.Step)); err != nil {
		return err
	}
	for i, p := range params {
		for _, estimates := range [][][]float64{moments.M, moments.V} {
			data := make([]float64, p.Size())
			if i < len(estimates) {
				if len(estimates[i]) != p.Size() {
					return errors.Wrapf(ErrShapeMismatch, "moments of tensor %d have %d values, expected %d", i, len(estimates[i]), p.Size())
				}
				data = estimates[i]
			}
			if err := binary.Write(w, binary.LittleEndian, data); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode reads a checkpoint into params, which must have the stored shapes, and into
// moments when it is not nil. Nothing is modified unless the whole checkpoint matches.
func Decode(r io.Reader, params evaluator.Parameters, moments *Moments) (int, error) {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return 0, errors.Wrap(ErrBadMagic, err.Error())
	}
	if got != magic {
		return 0, ErrBadMagic
	}
	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return 0, errors.Wrap(err, "failed to read header")
	}
	iteration, count := int(header[0]), int(header[1])
	if count != len(params) {
		return 0, errors.Wrapf(ErrShapeMismatch, "%d tensors stored, %d expected", count, len(params))
	}

	loaded := make([][]float64, count)
	for i, p := range params {
		var rank uint32
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return 0, errors.Wrapf(err, "failed to read tensor %d", i)
		}
		if int(rank) != len(p.Shape) {
			return 0, errors.Wrapf(ErrShapeMismatch, "tensor %d has rank %d, expected %d", i, rank, len(p.Shape))
		}
		dims := make([]uint32, rank)
		if err := binary.Read(r, binary.LittleEndian, dims); err != nil {
			return 0, errors.Wrapf(err, "failed to read tensor %d", i)
		}
		for j, d := range dims {
			if int(d) != p.Shape[j] {
				return 0, errors.Wrapf(ErrShapeMismatch, "tensor %d has shape %v, expected %v", i, dims, p.Shape)
			}
		}
		loaded[i] = make([]float64, p.Size())
		if err := binary.Read(r, binary.LittleEndian, loaded[i]); err != nil {
			return 0, errors.Wrapf(err, "failed to read tensor %d", i)
		}
	}

	var step uint32
	if err := binary.Read(r, binary.LittleEndian, &step); err != nil {
		return 0, errors.Wrap(err, "failed to read optimizer step")
	}
	m, v := make([][]float64, count), make([][]float64, count)
	for i, p := range params {
		m[i], v[i] = make([]float64, p.Size()), make([]float64, p.Size())
		if err := binary.Read(r, binary.LittleEndian, m[i]); err != nil {
			return 0, errors.Wrapf(err, "failed to read moments of tensor %d", i)
		}
		if err := binary.Read(r, binary.LittleEndian, v[i]); err != nil {
			return 0, errors.Wrapf(err, "failed to read moments of tensor %d", i)
		}
	}

	for i, p := range params {
		copy(p.Data, loaded[i])
	}
	if moments != nil {
		*moments = Moments{Step: int(step), M: m, V: v}
	}
	return iteration, nil
}

// Save writes a checkpoint atomically: readers see either the old file or the new one.
func Save(path string, iteration int, params evaluator.Parameters, moments *Moments) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "failed to create checkpoint")
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, iteration, params, moments); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write checkpoint")
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write checkpoint")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close checkpoint")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "failed to move checkpoint into place")
	}
	return nil
}

// Restore loads the checkpoint at path into params and, when not nil, moments, and
// returns its iteration.
func Restore(path string, params evaluator.Parameters, moments *Moments) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open checkpoint")
	}
	defer f.Close()

	iteration, err := Decode(bufio.NewReader(f), params, moments)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to restore %s", path)
	}
	return iteration, nil
}

// Store keeps numbered checkpoints in one directory, plus a copy of the latest.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Path(iteration int) string {
	return filepath.Join(s.dir, fmt.Sprintf("iter-%08d.ckpt", iteration))
}

func (s *Store) Latest() string {
	return filepath.Join(s.dir, LatestFile)
}

// Save writes the numbered checkpoint and refreshes the latest copy.
func (s *Store) Save(iteration int, params evaluator.Parameters, moments *Moments) (string, error) {
	path := s.Path(iteration)
	if err := Save(path, iteration, params, moments); err != nil {
		return "", err
	}
	if err := Save(s.Latest(), iteration, params, moments); err != nil {
		return "", err
	}
	return path, nil
}
