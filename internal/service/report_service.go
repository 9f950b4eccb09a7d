package service

import (
	"context"
	"io"
	"time"

	"github.com/spec-kit/demand-queue/internal/export"
	"github.com/spec-kit/demand-queue/internal/policy"
	"github.com/spec-kit/demand-queue/internal/repository"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// ReportService selects completed demands for a calendar day and hands the
// ordered rows to a renderer. The operator filter uses the same matching
// rule as ownership checks.
type ReportService struct {
	demands repository.DemandRepository
	policy  policy.Config
}

// NewReportService constructs the service.
func NewReportService(demands repository.DemandRepository, policyCfg policy.Config) *ReportService {
	return &ReportService{demands: demands, policy: policyCfg}
}

// Daily builds the report for the given day, optionally filtered to a single
// operator name.
func (s *ReportService) Daily(ctx context.Context, day time.Time, operator string) (export.Report, error) {
	normalized := policy.NormalizeName(operator)

	demands, err := s.demands.ListDone(ctx, repository.DoneFilter{Day: day})
	if err != nil {
		return export.Report{}, apperrors.NewIOError(err)
	}

	report := export.Report{Day: day, Operator: normalized}
	for _, d := range demands {
		if normalized != "" && !s.policy.Matches(normalized, d.Responsavel) {
			continue
		}
		finished := ""
		if d.FinishedAt != nil {
			finished = d.FinishedAt.Format(time.RFC3339)
		}
		report.Rows = append(report.Rows, export.Row{
			Orgao:       d.Orgao,
			Servico:     d.Servico,
			Fonte:       d.Fonte,
			Responsavel: d.Responsavel,
			FinishedAt:  finished,
		})
	}
	return report, nil
}

// Render writes a built report in the requested format.
func (s *ReportService) Render(w io.Writer, report export.Report, format export.Format) error {
	if err := export.Render(w, report, format); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
