package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-queue/internal/domain"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

func defaultConfig() Config {
	return Config{Strictness: MatchSubstring}
}

func TestNormalizeOrgaoAppliesPrefixOnce(t *testing.T) {
	assert.Equal(t, "PM ITAJUIPE", NormalizeOrgao("itajuipe"))
	assert.Equal(t, "PM ITAJUIPE", NormalizeOrgao("Pm Itajuipe"))
	assert.Equal(t, "PM ITAJUIPE", NormalizeOrgao(NormalizeOrgao("itajuipe")))
	assert.Equal(t, "PM ITAJUIPE", NormalizeOrgao("  PM ITAJUIPE  "))
	assert.Equal(t, "", NormalizeOrgao("   "))
}

func TestNormalizeSubmission(t *testing.T) {
	sub, err := NormalizeSubmission("itajuipe", "contrato", "whatsapp")
	require.NoError(t, err)
	assert.Equal(t, Submission{Orgao: "PM ITAJUIPE", Servico: "CONTRATO", Fonte: "WHATSAPP"}, sub)

	sub, err = NormalizeSubmission("ubata", "licitacao", "")
	require.NoError(t, err)
	assert.Empty(t, sub.Fonte)

	_, err = NormalizeSubmission("  ", "contrato", "")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, err = NormalizeSubmission("itajuipe", "", "")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestClaim(t *testing.T) {
	cfg := defaultConfig()
	d := domain.Demand{ID: "1", Status: domain.StatusReceived}

	claimed, err := cfg.Claim(d, "  Ana ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, claimed.Status)
	assert.Equal(t, "ANA", claimed.Responsavel)
	// input snapshot untouched
	assert.Equal(t, domain.StatusReceived, d.Status)
}

func TestClaimRequiresIdentity(t *testing.T) {
	cfg := defaultConfig()
	d := domain.Demand{ID: "1", Status: domain.StatusReceived}

	out, err := cfg.Claim(d, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeIdentityRequired))
	assert.Equal(t, domain.StatusReceived, out.Status)
	assert.Empty(t, out.Responsavel)
}

func TestClaimDefaultsToTeamWhenConfigured(t *testing.T) {
	cfg := Config{Strictness: MatchSubstring, DefaultTeamClaim: true}
	d := domain.Demand{ID: "1", Status: domain.StatusReceived}

	claimed, err := cfg.Claim(d, "")
	require.NoError(t, err)
	assert.Equal(t, TeamClaimant, claimed.Responsavel)
	assert.Equal(t, domain.StatusInProgress, claimed.Status)
}

func TestClaimIllegalOnNonReceived(t *testing.T) {
	cfg := defaultConfig()
	for _, status := range []domain.DemandStatus{domain.StatusInProgress, domain.StatusDone} {
		d := domain.Demand{ID: "1", Status: status, Responsavel: "ANA"}
		out, err := cfg.Claim(d, "JOAO")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeIllegalTransition))
		assert.Equal(t, status, out.Status)
		assert.Equal(t, "ANA", out.Responsavel)
	}
}

func TestCompleteExactMatch(t *testing.T) {
	cfg := defaultConfig()
	d := domain.Demand{ID: "1", Status: domain.StatusInProgress, Responsavel: "JOAO SILVA"}

	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	done, err := cfg.Complete(d, "JOAO SILVA", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, done.Status)
	require.NotNil(t, done.FinishedAt)
	assert.Equal(t, now, *done.FinishedAt)
}

func TestCompleteFirstTokenMatch(t *testing.T) {
	cfg := defaultConfig()
	d := domain.Demand{ID: "1", Status: domain.StatusInProgress, Responsavel: "JOAO SILVA"}

	_, err := cfg.Complete(d, "joao", time.Now())
	require.NoError(t, err)
}

func TestCompleteMismatchNamesOwner(t *testing.T) {
	cfg := defaultConfig()
	d := domain.Demand{ID: "1", Status: domain.StatusInProgress, Responsavel: "JOAO SILVA"}

	out, err := cfg.Complete(d, "MARIA", time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOwnershipMismatch))
	domainErr := apperrors.ToDomainError(err)
	assert.Contains(t, domainErr.Message, "JOAO SILVA")
	assert.Equal(t, "JOAO SILVA", domainErr.Details["responsavel"])
	assert.Equal(t, domain.StatusInProgress, out.Status)
	assert.Nil(t, out.FinishedAt)
}

func TestCompleteIllegalOnNonInProgress(t *testing.T) {
	cfg := defaultConfig()
	for _, status := range []domain.DemandStatus{domain.StatusReceived, domain.StatusDone} {
		d := domain.Demand{ID: "1", Status: status}
		_, err := cfg.Complete(d, "ANA", time.Now())
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeIllegalTransition))
	}
}

func TestMatchesStrictnessLevels(t *testing.T) {
	cases := []struct {
		name        string
		strictness  MatchStrictness
		actor       string
		responsavel string
		want        bool
	}{
		{"exact equal", MatchExact, "ANA", "ana ", true},
		{"exact rejects first token", MatchExact, "JOAO", "JOAO SILVA", false},
		{"first token accepts", MatchFirstToken, "JOAO", "JOAO SILVA", true},
		{"first token rejects substring", MatchFirstToken, "ANA", "MARIANA", false},
		{"substring accepts containment", MatchSubstring, "ANA", "MARIANA", true},
		{"substring accepts reverse containment", MatchSubstring, "ANA PAULA", "ANA", true},
		{"substring rejects disjoint", MatchSubstring, "MARIA", "JOAO SILVA", false},
		{"empty actor never matches", MatchSubstring, "", "JOAO", false},
		{"empty owner never matches", MatchSubstring, "JOAO", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Strictness: tc.strictness}
			assert.Equal(t, tc.want, cfg.Matches(tc.actor, tc.responsavel))
		})
	}
}

func TestParseStrictness(t *testing.T) {
	assert.Equal(t, MatchExact, ParseStrictness(" Exact "))
	assert.Equal(t, MatchFirstToken, ParseStrictness("first-token"))
	assert.Equal(t, MatchSubstring, ParseStrictness("substring"))
	assert.Equal(t, MatchSubstring, ParseStrictness("whatever"))
}

func TestLifecycleRoundTrip(t *testing.T) {
	cfg := defaultConfig()

	sub, err := NormalizeSubmission("itajuipe", "contrato", "")
	require.NoError(t, err)

	d := domain.Demand{ID: "1", Orgao: sub.Orgao, Servico: sub.Servico, Fonte: sub.Fonte, Status: domain.StatusReceived}

	d, err = cfg.Claim(d, "Ana")
	require.NoError(t, err)

	d, err = cfg.Complete(d, "ana", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "PM ITAJUIPE", d.Orgao)
	assert.Equal(t, "CONTRATO", d.Servico)
	assert.Equal(t, domain.StatusDone, d.Status)
	assert.Equal(t, "ANA", d.Responsavel)
	assert.NotNil(t, d.FinishedAt)
}
