package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

const (
	reportFilePrefix = "run-"
	reportFileSuffix = ".yaml"
	reportFilePerm   = 0o600
	reportDirPerm    = 0o750
	reportStampFmt   = "20060102-150405.000000000"
)

// ReportStore persists run reports so past results can be inspected with
// the view command.
type ReportStore interface {
	SaveRun(dir m.Path, report m.RunReport) (m.Path, error)
	LoadRuns(dir m.Path) ([]m.RunReport, error)
	LatestRun(dir m.Path) (m.RunReport, error)
}

// ErrNoReports is returned when the reports directory holds no saved runs.
var ErrNoReports = fmt.Errorf("no run reports found")

// YAMLReportStore stores one YAML document per run under the reports
// directory.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveRun writes the report as run-<stamp>.yaml and returns the file path.
func (s *YAMLReportStore) SaveRun(dir m.Path, report m.RunReport) (m.Path, error) {
	if err := os.MkdirAll(string(dir), reportDirPerm); err != nil {
		return "", fmt.Errorf("create reports dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal run report: %w", err)
	}

	name := reportFilePrefix + report.StartedAt.UTC().Format(reportStampFmt) + reportFileSuffix
	path := filepath.Join(string(dir), name)

	if err := os.WriteFile(path, data, reportFilePerm); err != nil {
		return "", fmt.Errorf("write run report %s: %w", path, err)
	}

	return m.Path(path), nil
}

// LoadRuns reads every saved report in the directory, ordered oldest first.
func (s *YAMLReportStore) LoadRuns(dir m.Path) ([]m.RunReport, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoReports
		}

		return nil, fmt.Errorf("read reports dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, reportFilePrefix) && strings.HasSuffix(name, reportFileSuffix) {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return nil, ErrNoReports
	}

	// Timestamped names sort chronologically.
	sort.Strings(names)

	reports := make([]m.RunReport, 0, len(names))

	for _, name := range names {
		path := filepath.Join(string(dir), name)

		// #nosec G304 - path is constrained to the reports directory
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read run report %s: %w", path, err)
		}

		var report m.RunReport
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("unmarshal run report %s: %w", path, err)
		}

		reports = append(reports, report)
	}

	return reports, nil
}

// LatestRun returns the most recently saved report.
func (s *YAMLReportStore) LatestRun(dir m.Path) (m.RunReport, error) {
	reports, err := s.LoadRuns(dir)
	if err != nil {
		return m.RunReport{}, err
	}

	return reports[len(reports)-1], nil
}
