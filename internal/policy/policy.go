package policy

import (
	"strings"
	"time"

	"github.com/spec-kit/demand-queue/internal/domain"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// MatchStrictness selects the ownership-matching rule used by Complete.
type MatchStrictness string

const (
	// MatchExact authorizes only when the normalized names are equal.
	MatchExact MatchStrictness = "exact"
	// MatchFirstToken additionally accepts equal first name tokens.
	MatchFirstToken MatchStrictness = "first-token"
	// MatchSubstring additionally accepts one name containing the other.
	// Loosest rule; "ANA" matches both "ANA PAULA" and "MARIANA".
	MatchSubstring MatchStrictness = "substring"
)

// ParseStrictness maps a config string to a strictness level, defaulting to
// substring (the loosest rule) for unknown values.
func ParseStrictness(v string) MatchStrictness {
	switch MatchStrictness(strings.ToLower(strings.TrimSpace(v))) {
	case MatchExact:
		return MatchExact
	case MatchFirstToken:
		return MatchFirstToken
	default:
		return MatchSubstring
	}
}

// TeamClaimant is substituted for an empty claimant name when the
// default-team policy is enabled.
const TeamClaimant = "EQUIPE"

// Config carries the tunable policy choices.
type Config struct {
	Strictness MatchStrictness
	// DefaultTeamClaim substitutes TeamClaimant for an empty claimant name
	// instead of rejecting the claim.
	DefaultTeamClaim bool
}

// Submission is a normalized demand-creation record.
type Submission struct {
	Orgao   string
	Servico string
	Fonte   string
}

const orgaoPrefix = "PM "

// NormalizeName trims and uppercases an operator or claimant name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeOrgao uppercases the client name and applies the "PM " prefix
// convention exactly once.
func NormalizeOrgao(orgao string) string {
	up := strings.ToUpper(strings.TrimSpace(orgao))
	if up == "" || strings.HasPrefix(up, orgaoPrefix) {
		return up
	}
	return orgaoPrefix + up
}

// NormalizeSubmission validates and canonicalizes raw form values. Orgao and
// servico must be non-empty after trimming; fonte is optional.
func NormalizeSubmission(orgao, servico, fonte string) (Submission, error) {
	if strings.TrimSpace(orgao) == "" || strings.TrimSpace(servico) == "" {
		return Submission{}, apperrors.NewInvalidInput("orgao and servico are required", nil)
	}
	return Submission{
		Orgao:   NormalizeOrgao(orgao),
		Servico: strings.ToUpper(strings.TrimSpace(servico)),
		Fonte:   strings.ToUpper(strings.TrimSpace(fonte)),
	}, nil
}

// Claim decides the RECEBIDO -> PRODUCAO transition. On success the returned
// demand carries the new status and the normalized claimant name; the input
// is never mutated.
func (cfg Config) Claim(d domain.Demand, actingOperator string) (domain.Demand, error) {
	if d.Status != domain.StatusReceived {
		return d, apperrors.NewIllegalTransition("only received demands can be claimed",
			map[string]any{"status": d.Status})
	}
	claimant := NormalizeName(actingOperator)
	if claimant == "" {
		if !cfg.DefaultTeamClaim {
			return d, apperrors.NewIdentityRequired("an operator name is required to claim")
		}
		claimant = TeamClaimant
	}
	d.Status = domain.StatusInProgress
	d.Responsavel = claimant
	return d, nil
}

// Complete decides the PRODUCAO -> CONCLUIDO transition. Only an operator
// matching the recorded claimant under the configured strictness may finish
// a demand; the rejection names the current owner.
func (cfg Config) Complete(d domain.Demand, actingOperator string, now time.Time) (domain.Demand, error) {
	if d.Status != domain.StatusInProgress {
		return d, apperrors.NewIllegalTransition("only in-progress demands can be completed",
			map[string]any{"status": d.Status})
	}
	if !cfg.Matches(actingOperator, d.Responsavel) {
		return d, apperrors.NewOwnershipMismatch(d.Responsavel)
	}
	finished := now
	d.Status = domain.StatusDone
	d.FinishedAt = &finished
	return d, nil
}

// Matches applies the ownership-matching rule between the acting operator's
// declared name and the recorded claimant.
func (cfg Config) Matches(actingOperator, responsavel string) bool {
	actor := NormalizeName(actingOperator)
	owner := NormalizeName(responsavel)
	if actor == "" || owner == "" {
		return false
	}
	if actor == owner {
		return true
	}
	if cfg.Strictness == MatchExact {
		return false
	}
	if firstToken(actor) == firstToken(owner) {
		return true
	}
	if cfg.Strictness == MatchFirstToken {
		return false
	}
	return strings.Contains(owner, actor) || strings.Contains(actor, owner)
}

func firstToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
