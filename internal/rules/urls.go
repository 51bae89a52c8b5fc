package rules

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mikey/smishing-guard/internal/core"
)

// urlPattern is deliberately permissive: smishing links are often
// syntactically sloppy and a strict RFC 3986 parse would miss them.
var urlPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*(),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// ipv4Pattern matches hosts that are bare dotted-quad literals
var ipv4Pattern = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)

// shortenerDomains are known URL-shortening services
var shortenerDomains = []string{
	"bit.ly", "tinyurl.com", "gg.gg", "han.gl",
	"me2.do", "goo.gl", "t.co", "ow.ly",
	"is.gd", "buff.ly", "adf.ly", "shorturl.at",
}

// suspiciousTokens are phishing-flavored words inside domains or paths
var suspiciousTokens = []string{
	"verify", "secure", "update", "confirm",
	"urgent", "suspended", "limited", "restricted",
	"action-required", "click-here", "login-now",
}

// riskyTLDs are top-level domains with outsized abuse rates
var riskyTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".work"}

// Per-rule risk weights for URL analysis
const (
	riskShortener    = 40
	riskHomoglyph    = 50
	riskToken        = 25
	riskTLD          = 35
	riskIPHost       = 40
	riskLongDomain   = 20
	riskHyphens      = 15
	riskParseFailure = 30

	maxDomainLength = 30
	maxHyphens      = 3
)

// ExtractURLs pulls URL tokens out of free text in order of first
// occurrence. Duplicates are retained; each occurrence may be an
// independently embedded link.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// AnalyzeURL scores a single URL for disguise and obfuscation
// techniques. Each rule contributes at most once; the score clamps to
// 100. A URL that fails to parse yields a fixed-risk finding instead
// of an error.
func AnalyzeURL(raw string) core.URLFinding {
	parsed, err := url.Parse(raw)
	if err != nil {
		return core.URLFinding{
			URL:       raw,
			RiskScore: riskParseFailure,
			Reasons:   []string{fmt.Sprintf("URL parse failure: %v", err)},
		}
	}

	domain := strings.ToLower(parsed.Host)
	path := strings.ToLower(parsed.Path)

	risk := 0
	var reasons []string

	for _, short := range shortenerDomains {
		if strings.Contains(domain, short) {
			risk += riskShortener
			reasons = append(reasons, "shortened URL")
			break
		}
	}

	if containsCyrillic(domain) {
		risk += riskHomoglyph
		reasons = append(reasons, "disguised character (homoglyph): Cyrillic/Greek")
	}

	for _, token := range suspiciousTokens {
		if strings.Contains(domain, token) || strings.Contains(path, token) {
			risk += riskToken
			reasons = append(reasons, fmt.Sprintf("suspicious keyword %q in URL", token))
		}
	}

	for _, tld := range riskyTLDs {
		if strings.HasSuffix(domain, tld) {
			risk += riskTLD
			reasons = append(reasons, "risky top-level domain")
			break
		}
	}

	if ipv4Pattern.MatchString(domain) {
		risk += riskIPHost
		reasons = append(reasons, "bare IP address host")
	}

	if len(domain) > maxDomainLength {
		risk += riskLongDomain
		reasons = append(reasons, "abnormally long domain")
	}

	if strings.Count(domain, "-") > maxHyphens {
		risk += riskHyphens
		reasons = append(reasons, "excessive hyphens in domain")
	}

	return core.URLFinding{
		URL:       raw,
		Domain:    domain,
		RiskScore: core.ClampScore(risk),
		Reasons:   reasons,
	}
}

// CheckURLSafety scores every URL embedded in the text. URLs that
// accumulate no risk are counted but not reported. Multiple risky URLs
// compound the aggregate score.
func (e *Engine) CheckURLSafety(text string) core.URLSafetyResult {
	urls := ExtractURLs(text)

	var findings []core.URLFinding
	totalRisk := 0

	for _, raw := range urls {
		finding := AnalyzeURL(raw)
		if finding.RiskScore == 0 {
			continue
		}
		findings = append(findings, finding)
		totalRisk += finding.RiskScore
	}

	return core.URLSafetyResult{
		SuspiciousURLs: findings,
		RiskScore:      core.ClampScore(totalRisk),
		URLCount:       len(urls),
	}
}

// containsCyrillic reports whether any character falls in the Cyrillic
// block (U+0400..U+04FF), the script most used for Latin lookalikes in
// spoofed domains.
func containsCyrillic(s string) bool {
	for _, r := range s {
		if r >= 0x0400 && r <= 0x04FF {
			return true
		}
	}
	return false
}
