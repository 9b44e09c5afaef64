package configsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"streamsched/internal/fileutil"
	"streamsched/internal/logging"
)

// Service reads and writes the configuration document file.
type Service struct {
	mu       sync.RWMutex
	path     string
	validate *validator.Validate
	logger   *slog.Logger
}

// New returns a service backed by the JSON file at path.
func New(path string, logger *slog.Logger) *Service {
	return &Service{
		path:     path,
		validate: newValidator(),
		logger:   logging.NewComponentLogger(logger, "config-service"),
	}
}

// Path returns the backing file path.
func (s *Service) Path() string { return s.path }

// LoadRaw returns the stored document bytes as written by the last Save, or
// DefaultRaw when no file exists. A file that cannot be read or is not a
// JSON object yields DefaultRaw along with the error.
func (s *Service) LoadRaw(ctx context.Context) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultRaw(), nil
	}
	if err != nil {
		s.logger.Error("config document read failed", logging.String("path", s.path), logging.Error(err))
		return DefaultRaw(), fmt.Errorf("read config document: %w", err)
	}
	if _, err := Decode(data); err != nil {
		s.logger.Error("config document unreadable; serving defaults", logging.String("path", s.path), logging.Error(err))
		return DefaultRaw(), err
	}
	return json.RawMessage(data), nil
}

// Load returns the typed view of the stored document, or Default when no
// file exists or it cannot be parsed.
func (s *Service) Load(ctx context.Context) (Document, error) {
	raw, err := s.LoadRaw(ctx)
	if err != nil {
		return Default(), err
	}
	doc, err := Decode(raw)
	if err != nil {
		return Default(), err
	}
	return doc, nil
}

// Decode parses the typed view of a document. The input must be a JSON
// object; unknown keys are ignored.
func Decode(data []byte) (Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Document{}, fmt.Errorf("parse config document: %w", err)
	}
	if fields == nil {
		return Document{}, errors.New("parse config document: must be a JSON object")
	}
	var doc Document
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("parse config document: %w", err)
	}
	return doc, nil
}

// Validate checks the fields the daemon depends on and returns a readable
// error listing every problem.
func (s *Service) Validate(doc Document) error {
	if err := s.validate.Struct(doc); err != nil {
		return errors.New(formatValidationErrors(err))
	}
	return nil
}

// Save checks raw and overwrites the file with it byte for byte. Failures
// are reported in the Result; the error is returned alongside for logging
// and status mapping.
func (s *Service) Save(ctx context.Context, raw []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	doc, err := Decode(raw)
	if err != nil {
		return Result{Success: false, Message: "invalid configuration: " + err.Error()}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Validate(doc); err != nil {
		return Result{Success: false, Message: "invalid configuration: " + err.Error()}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s.mu.Lock()
	err = fileutil.WriteFileAtomic(s.path, raw, 0o644)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("config document write failed", logging.String("path", s.path), logging.Error(err))
		return Result{Success: false, Message: "failed to save configuration: " + err.Error()}, err
	}

	s.logger.Info("config document saved",
		logging.String("path", s.path),
		logging.String("theme", doc.Theme),
		logging.String("export_scope", doc.ExportScopeOrDefault()),
		logging.Int("bytes", len(raw)),
	)
	return Result{Success: true, Message: "Configuration saved successfully"}, nil
}

// SaveDocument encodes doc and saves it.
func (s *Service) SaveDocument(ctx context.Context, doc Document) (Result, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{Success: false, Message: "failed to encode configuration"}, fmt.Errorf("encode config document: %w", err)
	}
	return s.Save(ctx, append(data, '\n'))
}

// ErrInvalid marks a document that failed validation.
var ErrInvalid = errors.New("invalid configuration document")
