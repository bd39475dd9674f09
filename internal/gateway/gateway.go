// Package gateway is the persistence boundary between the in-memory
// roster and the data file.
//
// The storage backend moves bytes; the gateway decides what the user is
// told and whether the program can carry on:
//
//	missing file       → informational, empty file created, continue
//	corrupt file       → fatal, process exits (MustLoad)
//	write failure      → reported, Save returns false, roster untouched
package gateway

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aanand-mishra/course-registration/internal/console"
	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/storage/jsonfile"
	"github.com/aanand-mishra/course-registration/internal/types"
)

// Load appends every record stored at path to roster and returns how
// many were read. A missing file is not an error: it is created empty and
// Load returns 0. Any other error leaves roster unchanged.
func Load(w io.Writer, log *slog.Logger, st storage.Storage, path string, roster *types.Roster) (int, error) {
	fmt.Fprintf(w, ">>> Loading data from %s\n", path)
	log.Debug("loading registrations", slog.String("path", path))

	recs, err := st.Load(path)
	if errors.Is(err, storage.ErrNotFound) {
		console.ReportError(w, fmt.Sprintf(">>> %s not found. A new file will be created.", path), nil)
		log.Info("data file not found, creating", slog.String("path", path))

		if err := st.Create(path); err != nil {
			return 0, fmt.Errorf("gateway.Load: %w", err)
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("gateway.Load: %w", err)
	}

	roster.Add(recs...)
	fmt.Fprintf(w, ">>> Loaded %d records.\n", len(recs))
	log.Info("registrations loaded",
		slog.String("path", path),
		slog.Int("count", len(recs)))

	return len(recs), nil
}

// MustLoad is Load for program startup. A load failure cannot be
// recovered from, so it reports the problem and calls exit(1).
//
// exit is os.Exit in production; tests pass a stub.
func MustLoad(w io.Writer, log *slog.Logger, st storage.Storage, path string, roster *types.Roster, exit func(int)) {
	if _, err := Load(w, log, st, path, roster); err != nil {
		console.ReportError(w,
			fmt.Sprintf(">>> There was an error loading the data from %s. Please check %s and try again.", path, path),
			err)
		log.Error("failed to load registrations",
			slog.String("path", path),
			slog.String("error", err.Error()))
		exit(1)
	}
}

// Save writes the whole roster to path and echoes the JSON rendering to
// w. It returns false, after reporting why, if anything went wrong.
func Save(w io.Writer, log *slog.Logger, st storage.Storage, path string, roster *types.Roster) bool {
	recs := roster.Records()

	if err := st.Save(path, recs); err != nil {
		console.ReportError(w, ">>> There was an error writing the registration data. Is the file read-only?", err)
		log.Error("failed to save registrations",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return false
	}

	fmt.Fprintf(w, ">>> Wrote registration data to filename %s\n\n", path)
	log.Info("registrations saved",
		slog.String("path", path),
		slog.Int("count", len(recs)))

	// The data is already on disk; a failed echo is only worth a log line.
	data, err := jsonfile.Marshal(recs)
	if err != nil {
		log.Warn("could not render saved data", slog.String("error", err.Error()))
		return true
	}
	fmt.Fprintf(w, "%s\n", data)

	return true
}
