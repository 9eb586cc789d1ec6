package secrets

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	gitleaksRegexp "github.com/zricethezav/gitleaks/v8/regexp"
)

// DefaultReplacement stands in for every detected secret.
const DefaultReplacement = "**SECRET**"

// Finding is a detected secret. The secret itself is not kept.
type Finding struct {
	RuleID      string
	Description string
	Line        int
	Length      int
}

// Scanner detects secrets with the default Gitleaks rules (several hundred
// patterns). Building one compiles every rule, so create it once and share
// it; it is safe for concurrent use.
type Scanner struct {
	mu          sync.Mutex
	detector    *detect.Detector
	replacement string
}

// NewScanner builds a scanner. allow may be nil; an empty replacement means
// DefaultReplacement.
func NewScanner(allow *Allowlist, replacement string) (*Scanner, error) {
	if err := allow.Validate(); err != nil {
		return nil, err
	}

	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading gitleaks rules: %w", err)
	}
	if allow != nil && len(allow.Regexes) > 0 {
		applyAllowlist(&detector.Config, allow)
	}

	if replacement == "" {
		replacement = DefaultReplacement
	}
	return &Scanner{detector: detector, replacement: replacement}, nil
}

// Detect reports the secrets in content.
func (s *Scanner) Detect(content string) []Finding {
	found := s.detect(content)
	out := make([]Finding, 0, len(found))
	for _, f := range found {
		out = append(out, Finding{
			RuleID:      f.ruleID,
			Description: f.description,
			Line:        f.line,
			Length:      len(f.secret),
		})
	}
	return out
}

// Scrub replaces every detected secret in content with the replacement text.
func (s *Scanner) Scrub(content string) string {
	found := s.detect(content)
	if len(found) == 0 {
		return content
	}

	// Longest first so a secret containing another is replaced whole.
	secrets := make([]string, 0, len(found))
	for _, f := range found {
		if f.secret != "" {
			secrets = append(secrets, f.secret)
		}
	}
	sort.Slice(secrets, func(i, j int) bool { return len(secrets[i]) > len(secrets[j]) })

	for _, secret := range secrets {
		content = strings.ReplaceAll(content, secret, s.replacement)
	}
	return content
}

type rawFinding struct {
	ruleID      string
	description string
	line        int
	secret      string
}

func (s *Scanner) detect(content string) []rawFinding {
	if content == "" {
		return nil
	}

	s.mu.Lock()
	found := s.detector.DetectString(content)
	s.mu.Unlock()

	out := make([]rawFinding, 0, len(found))
	for _, f := range found {
		out = append(out, rawFinding{
			ruleID:      f.RuleID,
			description: f.Description,
			line:        f.StartLine,
			secret:      f.Secret,
		})
	}
	return out
}

// applyAllowlist adds allow's patterns as a global Gitleaks allowlist.
// Patterns are validated by the caller.
func applyAllowlist(cfg *gitleaksConfig.Config, allow *Allowlist) {
	global := &gitleaksConfig.Allowlist{
		Description: "calllog allowlist",
	}
	for _, pattern := range allow.Regexes {
		re := regexp.MustCompile(pattern)
		global.Regexes = append(global.Regexes, (*gitleaksRegexp.Regexp)(re))
	}
	cfg.Allowlists = append(cfg.Allowlists, global)
}
