// Package storage names, writes and finds spiral images and their run
// records on disk.
//
// Images live in one directory per theta, <base>/<int>-<first decimal>,
// and are named tfnt_<theta>_<scale>_<steps>[_origin-return].<ext>. Next
// to each image a <image>.json run record and, on request, a <image>.csv
// position history are written.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Format is an image file format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

const (
	filePrefix   = "tfnt"
	homeSuffix   = "_origin-return"
	jpegQuality  = 95
	metaSuffix   = ".json"
	positionsExt = ".csv"
)

var (
	ErrUnsupportedFormat = errors.New("storage: unsupported image format")
	ErrNoRecord          = errors.New("storage: no run record")
)

// ParseFormat accepts png, jpeg and jpg in any case.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "png", "":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Ext is the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// Store writes into a base directory.
type Store struct {
	baseDir string
	format  Format
}

func New(baseDir string, format Format) *Store {
	if format == "" {
		format = PNG
	}
	return &Store{baseDir: baseDir, format: format}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }
func (s *Store) Format() Format  { return s.format }

// DirName is the theta directory name: the integer part and the first
// decimal digit, truncated, joined by a dash.
func DirName(theta decimal.Decimal) string {
	abs := theta.Abs()
	whole := abs.Truncate(0)
	first := abs.Sub(whole).Shift(1).Truncate(0)

	sign := ""
	if theta.Sign() < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s-%s", sign, whole.String(), first.String())
}

// ThetaLabel formats theta zero padded to 12 characters with 8 decimals,
// rounding half to even.
func ThetaLabel(theta decimal.Decimal) string {
	s := theta.StringFixedBank(8)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if pad := 12 - len(sign) - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return sign + s
}

// FileName builds the image file name of a run.
func FileName(theta, scale decimal.Decimal, steps int64, home bool, format Format) string {
	name := fmt.Sprintf("%s_%s_%s_%d", filePrefix, ThetaLabel(theta),
		strconv.FormatFloat(scale.InexactFloat64(), 'f', 4, 64), steps)
	if home {
		name += homeSuffix
	}
	return name + "." + format.Ext()
}

// Dir is the directory holding the images of theta.
func (s *Store) Dir(theta decimal.Decimal) string {
	return filepath.Join(s.baseDir, DirName(theta))
}

// Path is the full image path of a run.
func (s *Store) Path(theta, scale decimal.Decimal, steps int64, home bool) string {
	return filepath.Join(s.Dir(theta), FileName(theta, scale, steps, home, s.format))
}

// Exists reports whether an image of theta in the store's format was
// already written, whatever its scale and step count.
func (s *Store) Exists(theta decimal.Decimal) (bool, error) {
	entries, err := os.ReadDir(s.Dir(theta))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	prefix := filePrefix + "_" + ThetaLabel(theta)
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), "."+s.format.Ext()) {
			return true, nil
		}
	}
	return false, nil
}

// Record describes one stored run.
type Record struct {
	Theta          string    `json:"theta"`
	Steps          int64     `json:"steps"`
	Home           bool      `json:"home"`
	Scale          string    `json:"scale"`
	StepSize       string    `json:"step_size"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	DominantAngles []string  `json:"dominant_angles,omitempty"`
	Candidates     []string  `json:"candidates,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Duration       string    `json:"duration,omitempty"`
	Image          string    `json:"image"`
	Positions      string    `json:"positions,omitempty"`
}

// SaveImage encodes img at path, creating the directory.
func (s *Store) SaveImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch s.format {
	case PNG:
		err = png.Encode(f, img)
	case JPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, s.format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Save writes the image and its run record and returns the image path.
// The record's Image field is filled in.
func (s *Store) Save(rec *Record, img image.Image) (string, error) {
	theta, err := decimal.NewFromString(rec.Theta)
	if err != nil {
		return "", fmt.Errorf("record theta %q: %w", rec.Theta, err)
	}
	scale, err := decimal.NewFromString(rec.Scale)
	if err != nil {
		return "", fmt.Errorf("record scale %q: %w", rec.Scale, err)
	}

	path := s.Path(theta, scale, rec.Steps, rec.Home)
	if err := s.SaveImage(path, img); err != nil {
		return "", err
	}

	rec.Image = filepath.Base(path)
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if err := s.writeRecord(path, rec); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) writeRecord(imagePath string, rec *Record) error {
	metaFile, err := os.Create(imagePath + metaSuffix)
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return metaFile.Close()
}

// SavePositions writes the position history next to the image as CSV and
// links it from the run record when one exists.
func (s *Store) SavePositions(imagePath string, xs, ys []decimal.Decimal) (string, error) {
	if len(xs) != len(ys) {
		return "", fmt.Errorf("storage: %d x and %d y positions", len(xs), len(ys))
	}

	csvPath := imagePath + positionsExt
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"step", "x", "y"}); err != nil {
		return "", err
	}
	for i := range xs {
		if err := w.Write([]string{strconv.Itoa(i), xs[i].String(), ys[i].String()}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	if rec, err := s.Load(imagePath); err == nil {
		rec.Positions = filepath.Base(csvPath)
		if err := s.writeRecord(imagePath, rec); err != nil {
			return "", err
		}
	}
	return csvPath, csvFile.Close()
}

// List returns the run records below the base directory, ordered by theta
// and step count.
func (s *Store) List() ([]Record, error) {
	runs := make([]Record, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.baseDir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, metaSuffix) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil
		}
		runs = append(runs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(runs, func(a, b Record) int {
		ta, _ := decimal.NewFromString(a.Theta)
		tb, _ := decimal.NewFromString(b.Theta)
		if c := ta.Cmp(tb); c != 0 {
			return c
		}
		return int(a.Steps - b.Steps)
	})
	return runs, nil
}

// Load reads the run record of an image.
func (s *Store) Load(imagePath string) (*Record, error) {
	data, err := os.ReadFile(imagePath + metaSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoRecord, imagePath)
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LoadPositions reads a CSV written by SavePositions.
func (s *Store) LoadPositions(csvPath string) (xs, ys []decimal.Decimal, err error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []decimal.Decimal{}, []decimal.Decimal{}, nil
	}

	xs = make([]decimal.Decimal, 0, len(records)-1)
	ys = make([]decimal.Decimal, 0, len(records)-1)
	for i, record := range records[1:] {
		x, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		y, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}
