package claims

// Package claims extracts role-like values from bearer tokens without
// verifying signatures. Tokens are decoded with ParseUnverified; this
// service trusts claims delivered by the upstream identity provider at
// face value.

import (
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jmespath "github.com/jmespath-community/go-jmespath"
)

// flatClaims are claim names whose value may be a single space/comma
// delimited string or an array of strings.
var flatClaims = []string{"roles", "role", "authorities", "scope", "scopes"}

// nestedPaths are JMESPath expressions for provider-specific claim shapes:
// Keycloak realm and per-client roles, Cognito groups, and aggregated
// permission lists. resource_access is iterated across every client key.
var nestedPaths = []string{
	`realm_access.roles[]`,
	`resource_access.*.roles[]`,
	`"cognito:groups"[]`,
	`permissions[]`,
}

var listSeparators = regexp.MustCompile(`[ ,]+`)

// Extractor implements ports.ClaimExtractor.
type Extractor struct {
	parser *jwt.Parser
}

// NewExtractor returns an Extractor ready for use.
func NewExtractor() *Extractor {
	return &Extractor{parser: jwt.NewParser()}
}

// ExtractRoleClaims decodes the token's claim payload and collects raw role
// strings from every known provider shape, concatenating results. A real
// token may populate more than one shape; duplicates are removed downstream
// by normalization, not here. Any decode failure yields an empty slice.
func (e *Extractor) ExtractRoleClaims(token string) []string {
	payload, ok := e.decode(token)
	if !ok {
		return nil
	}

	var out []string
	for _, name := range flatClaims {
		out = append(out, flatValues(payload[name])...)
	}
	for _, expr := range nestedPaths {
		out = append(out, searchStrings(expr, map[string]any(payload))...)
	}
	return out
}

// TokenExpiry reports the token's exp claim as a timestamp. ok is false
// when the token or the claim is unreadable; callers treat that as expired.
func (e *Extractor) TokenExpiry(token string) (time.Time, bool) {
	payload, ok := e.decode(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := payload.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// decode parses the token without signature verification and returns its
// claim payload. Malformed tokens (missing segment, bad base64, non-JSON
// payload) report ok=false.
func (e *Extractor) decode(token string) (jwt.MapClaims, bool) {
	if token == "" {
		return nil, false
	}
	payload := jwt.MapClaims{}
	if _, _, err := e.parser.ParseUnverified(token, payload); err != nil {
		return nil, false
	}
	return payload, true
}

// flatValues interprets a flat claim value: a delimited string is split on
// spaces and commas, an array contributes its string elements.
func flatValues(v any) []string {
	switch val := v.(type) {
	case string:
		var out []string
		for _, part := range listSeparators.Split(val, -1) {
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	case []any:
		return stringElements(val)
	default:
		return nil
	}
}

// searchStrings evaluates a JMESPath expression against the payload and
// returns the string elements of the result. Evaluation errors fail soft.
func searchStrings(expr string, payload map[string]any) []string {
	result, err := jmespath.Search(expr, payload)
	if err != nil {
		return nil
	}
	items, ok := result.([]any)
	if !ok {
		return nil
	}
	return stringElements(items)
}

func stringElements(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
