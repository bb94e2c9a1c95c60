// Package lifecycle installs, upgrades and uninstalls the caption
// extension's configuration record.
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/metastore"
)

// OptionName is the option the configuration record is stored under.
const OptionName = "cc_featured_image_caption_options"

// Version defaults.
const (
	DefaultVersion        = "0.2.0"
	DefaultMinHostVersion = "2.7"
)

// Record is the persisted configuration record.
type Record struct {
	SchemaVersion string `json:"schema_version"`
}

// Manager runs the install, upgrade and uninstall hooks.
type Manager struct {
	store   metastore.OptionStore
	version string
	minHost string
	logger  *slog.Logger
}

// NewManager creates a Manager for the given extension version requiring at
// least minHost. Empty values select the defaults.
func NewManager(store metastore.OptionStore, version, minHost string, logger *slog.Logger) *Manager {
	if version == "" {
		version = DefaultVersion
	}
	if minHost == "" {
		minHost = DefaultMinHostVersion
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, version: version, minHost: minHost, logger: logger}
}

// Install refuses hosts older than the minimum version and otherwise adds
// the configuration record. An existing record is left alone.
func (m *Manager) Install(ctx context.Context, hostVersion string) error {
	if Compare(hostVersion, m.minHost) < 0 {
		return fmt.Errorf("%w: host %s, need %s", apperr.ErrHostTooOld, hostVersion, m.minHost)
	}
	data, err := json.Marshal(Record{SchemaVersion: m.version})
	if err != nil {
		return fmt.Errorf("lifecycle: encode record: %w", err)
	}
	added, err := m.store.AddOption(ctx, OptionName, string(data))
	if err != nil {
		return fmt.Errorf("lifecycle: install: %w", err)
	}
	m.logger.Info("install complete",
		slog.String("version", m.version),
		slog.Bool("record_added", added))
	return nil
}

// Uninstall removes the configuration record. Captions are not touched.
func (m *Manager) Uninstall(ctx context.Context) error {
	if err := m.store.DeleteOption(ctx, OptionName); err != nil {
		return fmt.Errorf("lifecycle: uninstall: %w", err)
	}
	m.logger.Info("uninstall complete")
	return nil
}

// Record returns the stored configuration record.
func (m *Manager) Record(ctx context.Context) (Record, bool, error) {
	raw, ok, err := m.store.Option(ctx, OptionName)
	if err != nil || !ok {
		return Record{}, false, err
	}
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Record{}, false, fmt.Errorf("lifecycle: decode record: %w", err)
	}
	return r, true, nil
}

// Upgrade bumps a stored record older than the running version and reports
// whether it did. Without a stored record nothing happens.
func (m *Manager) Upgrade(ctx context.Context) (bool, error) {
	rec, ok, err := m.Record(ctx)
	if err != nil {
		return false, err
	}
	if !ok || rec.SchemaVersion == "" || Compare(rec.SchemaVersion, m.version) >= 0 {
		return false, nil
	}
	from := rec.SchemaVersion
	rec.SchemaVersion = m.version
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("lifecycle: encode record: %w", err)
	}
	if err := m.store.UpdateOption(ctx, OptionName, string(data)); err != nil {
		return false, fmt.Errorf("lifecycle: upgrade: %w", err)
	}
	m.logger.Info("upgrade complete", slog.String("from", from), slog.String("to", m.version))
	return true, nil
}

// Compare compares two dotted versions such as "2.7" or "v0.2.0".
// Unparseable versions sort before every valid one.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
