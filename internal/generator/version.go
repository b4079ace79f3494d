package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// probeTimeout bounds a single "<tool> --version" call.
const probeTimeout = 30 * time.Second

var versionPattern = regexp.MustCompile(`\bv?(\d+\.\d+(?:\.\d+)?(?:[-+][0-9A-Za-z.-]+)?)\b`)

// ParseVersion extracts the first semantic version found in tool output,
// e.g. "v20.11.0" or "Flutter 3.19.0 • channel stable".
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("no version found in %q", firstLine(output))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", m[1], err)
	}
	return v, nil
}

// ProbeVersion runs command with args and parses the version it prints.
func ProbeVersion(ctx context.Context, r Runner, command string, args []string) (*semver.Version, error) {
	out, err := r.Run(ctx, Invocation{Command: command, Args: args, Timeout: probeTimeout})
	if err != nil {
		return nil, err
	}
	text := out.Stdout
	if strings.TrimSpace(text) == "" {
		text = out.Stderr
	}
	return ParseVersion(text)
}

// MeetsMinimum reports whether found is at least min. A leading "v" on min
// is tolerated.
func MeetsMinimum(found *semver.Version, min string) (bool, error) {
	mv, err := semver.NewVersion(strings.TrimPrefix(min, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing minimum version %q: %w", min, err)
	}
	return found.Compare(mv) >= 0, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
