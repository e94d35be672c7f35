package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/dataset"
	"github.com/roach88/mercator/internal/engine"
	"github.com/roach88/mercator/internal/space"
	"github.com/roach88/mercator/internal/store"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeNotFound   = "E002" // Path not found
	ErrCodeQuery      = "E003" // Malformed query document
	ErrCodeDataset    = "E004" // Dataset load error
	ErrCodeStore      = "E005" // Store open or write error
	ErrCodeNoStore    = "E006" // Neither dataset nor database given
	ErrCodeValidation = "E101" // Query failed validation
	ErrCodePrediction = "E102" // Query failed prediction
	ErrCodeExecution  = "E103" // Query failed execution
)

// queryErrorCode maps an engine error to an error code.
func queryErrorCode(err error) string {
	switch {
	case engine.IsValidationError(err):
		return ErrCodeValidation
	case engine.IsPredictionError(err):
		return ErrCodePrediction
	case engine.IsExecutionError(err):
		return ErrCodeExecution
	default:
		return ErrCodeGeneric
	}
}

// codedError is a command error carrying its error code.
type codedError struct {
	code string
	err  *ExitError
}

func fail(exitCode int, code, message string, err error) *codedError {
	return &codedError{code: code, err: WrapExitError(exitCode, message, err)}
}

// openedStore is the store a command queries, with its cleanup.
type openedStore struct {
	engine.Store
	close func() error
}

func (s *openedStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openStore opens the store selected by the dataset and db settings.
//
//   - db only: the SQLite database as stored
//   - dataset and db: the dataset is written into the database first
//   - dataset only: an in-memory store holding the dataset
//
// When optional is set and neither is given, an empty store with the
// default universe is returned.
func openStore(ctx context.Context, v *viper.Viper, optional bool) (*openedStore, *codedError) {
	datasetPath := v.GetString(datasetKey)
	dbPath := v.GetString(dbKey)

	var ds *dataset.Dataset
	if datasetPath != "" {
		var err error
		if ds, err = dataset.Load(datasetPath); err != nil {
			return nil, fail(ExitCommandError, ErrCodeDataset, "failed to load dataset", err)
		}
	}

	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return nil, fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		if ds != nil {
			if err := ds.Into(ctx, db); err != nil {
				db.Close()
				return nil, fail(ExitCommandError, ErrCodeStore, "failed to load dataset into database", err)
			}
		}
		return &openedStore{Store: db, close: db.Close}, nil
	}

	if ds != nil {
		m, err := ds.Memory()
		if err != nil {
			return nil, fail(ExitCommandError, ErrCodeDataset, "failed to load dataset", err)
		}
		return &openedStore{Store: m}, nil
	}

	if optional {
		return &openedStore{Store: store.NewMemory(space.NewRegistry(space.DefaultUniverse()))}, nil
	}
	return nil, fail(ExitCommandError, ErrCodeNoStore, "one of --dataset or --db is required", nil)
}

// readQuery reads and decodes the query document at path ("-" for stdin).
func readQuery(path string, stdin io.Reader, universe string) (ast.Projection, *codedError) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("query file not found: %s", path), nil)
		}
		return nil, fail(ExitCommandError, ErrCodeGeneric, "failed to read query", err)
	}

	p, err := ast.Decode(data, universe)
	if err != nil {
		return nil, fail(ExitCommandError, ErrCodeQuery, "invalid query document", err)
	}
	return p, nil
}
