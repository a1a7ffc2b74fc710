package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultExtensions are the media container formats considered for
// resolution when the config does not override them.
var DefaultExtensions = []string{
	".mp4", ".avi", ".rmvb", ".wmv", ".mov", ".mkv",
	".flv", ".ts", ".webm", ".iso", ".mpg", ".m4v",
}

// trailerPattern skips companion trailer files sitting next to the main
// feature.
var trailerPattern = regexp.MustCompile(`(?i)-trailer\.`)

// Options configures a scan.
type Options struct {
	// Extensions is the media extension allowlist (with leading dots).
	// Empty means DefaultExtensions.
	Extensions []string
	// MinSizeBytes drops files smaller than this; zero keeps everything.
	MinSizeBytes int64
	// EscapeDirs are directory names skipped entirely.
	EscapeDirs []string
	// FilterPattern optionally restricts file names to a regular
	// expression, matched case-insensitively.
	FilterPattern string
}

// Service walks directories collecting media files eligible for resolution.
type Service struct {
	logger  *slog.Logger
	exts    map[string]bool
	escape  map[string]bool
	minSize int64
	filter  *regexp.Regexp
}

// NewService creates a scanner service.
func NewService(opts Options, logger *slog.Logger) (*Service, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extMap := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		extMap[e] = true
	}

	escMap := make(map[string]bool, len(opts.EscapeDirs))
	for _, d := range opts.EscapeDirs {
		if d = strings.TrimSpace(d); d != "" {
			escMap[strings.ToLower(d)] = true
		}
	}

	var filter *regexp.Regexp
	if opts.FilterPattern != "" {
		re, err := regexp.Compile("(?i)" + opts.FilterPattern)
		if err != nil {
			return nil, fmt.Errorf("compiling filter pattern: %w", err)
		}
		filter = re
	}

	return &Service{
		logger:  logger.With(slog.String("component", "scanner")),
		exts:    extMap,
		escape:  escMap,
		minSize: opts.MinSizeBytes,
		filter:  filter,
	}, nil
}

// Scan walks root and returns the candidate media files in walk order.
func (s *Service) Scan(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	result := &Result{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable entry",
				slog.String("path", path),
				slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if s.escape[strings.ToLower(d.Name())] {
				s.logger.Debug("skipping excluded directory", slog.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}

		if !s.eligible(d, result) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		result.Candidates = append(result.Candidates, Candidate{Path: path, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.FinishedAt = time.Now().UTC()
	s.logger.Info("scan finished",
		slog.String("root", root),
		slog.Int("candidates", len(result.Candidates)),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// eligible applies the extension, trailer, filter and size checks.
func (s *Service) eligible(d fs.DirEntry, result *Result) bool {
	name := d.Name()
	if !s.exts[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	if trailerPattern.MatchString(name) {
		result.Skipped++
		return false
	}
	if s.filter != nil && !s.filter.MatchString(name) {
		result.Skipped++
		return false
	}
	if s.minSize > 0 {
		fi, err := d.Info()
		if err != nil || fi.Size() < s.minSize {
			result.Skipped++
			return false
		}
	}
	return true
}
