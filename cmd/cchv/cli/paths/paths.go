// Package paths resolves and validates the on-disk session archives the
// viewer reads (~/.claude and friends) and maps repository paths to the
// sanitized directory names Claude Code uses under projects/.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectDirEnvOverride lets tests point project-dir resolution at a
// temp directory instead of the real home.
const ProjectDirEnvOverride = "CCHV_TEST_PROJECT_DIR"

// ClaudeDir returns the Claude Code data directory, ~/.claude by default.
// The error text carries the stable code prefixes the original frontend
// keys on (CLAUDE_FOLDER_NOT_FOUND, PERMISSION_DENIED).
func ClaudeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("HOME_DIRECTORY_NOT_FOUND: could not determine home directory: %w", err)
	}

	dir := filepath.Join(home, ".claude")
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("CLAUDE_FOLDER_NOT_FOUND: Claude folder not found at %s", dir)
	}
	if _, err := os.ReadDir(dir); err != nil {
		return "", fmt.Errorf("PERMISSION_DENIED: cannot access Claude folder at %s: %w", dir, err)
	}
	return dir, nil
}

// ValidateClaudeFolder reports whether path is a usable Claude data
// directory: either the .claude directory itself (containing projects/),
// or a directory with a .claude/projects child.
func ValidateClaudeFolder(path string) bool {
	if path == "" {
		return false
	}
	if filepath.Base(path) == ".claude" {
		return dirExists(filepath.Join(path, "projects"))
	}
	return dirExists(filepath.Join(path, ".claude", "projects"))
}

// ProjectsDir returns the projects directory under a Claude data dir.
func ProjectsDir(claudeDir string) string {
	return filepath.Join(claudeDir, "projects")
}

// SanitizePath converts a repository path into the directory name Claude
// Code uses under projects/: every non-alphanumeric character becomes a
// dash, so "/Users/test/my.repo" becomes "-Users-test-my-repo".
func SanitizePath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// ProjectName extracts a display name from a sanitized project directory
// name. Sanitized absolute paths start with a dash; the name is everything
// after the third separator ("-Users-test-myrepo" yields "myrepo").
// Anything else is returned unchanged.
func ProjectName(dirName string) string {
	if !strings.HasPrefix(dirName, "-") {
		return dirName
	}
	parts := strings.SplitN(dirName, "-", 4)
	if len(parts) == 4 && parts[3] != "" {
		return parts[3]
	}
	return dirName
}

// ProjectDirFor returns the project directory for a repository path,
// honoring the test override env var.
func ProjectDirFor(claudeDir, repoPath string) string {
	if override := os.Getenv(ProjectDirEnvOverride); override != "" {
		return override
	}
	return filepath.Join(ProjectsDir(claudeDir), SanitizePath(repoPath))
}

// EstimateMessageCount estimates how many messages a session file holds
// from its size alone, so project scans don't have to parse every file.
// Sessions average roughly a kilobyte per message.
func EstimateMessageCount(sizeBytes int64) int {
	if sizeBytes <= 0 {
		return 1
	}
	n := (sizeBytes + 999) / 1000
	if n < 1 {
		n = 1
	}
	return int(n)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
