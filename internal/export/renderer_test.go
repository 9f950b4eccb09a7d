package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Day:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Operator: "ANA",
		Rows: []Row{
			{Orgao: "PM ITAJUIPE", Servico: "CONTRATO", Fonte: "WHATSAPP", Responsavel: "ANA", FinishedAt: "2024-05-10T14:30:00Z"},
			{Orgao: "PM UBATA", Servico: "LICITACAO", Responsavel: "ANA", FinishedAt: "2024-05-10T16:00:00Z"},
		},
	}
}

func TestFilename(t *testing.T) {
	report := sampleReport()
	assert.Equal(t, "demandas_2024-05-10_ANA.csv", Filename(report, FormatCSV))
	assert.Equal(t, "demandas_2024-05-10_ANA.txt", Filename(report, FormatText))

	report.Operator = ""
	assert.Equal(t, "demandas_2024-05-10.csv", Filename(report, FormatCSV))

	report.Operator = "ANA PAULA"
	assert.Equal(t, "demandas_2024-05-10_ANA_PAULA.csv", Filename(report, FormatCSV))
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ORGAO,SERVICO,FONTE,RESPONSAVEL,CONCLUIDO EM", lines[0])
	assert.Equal(t, "PM ITAJUIPE,CONTRATO,WHATSAPP,ANA,2024-05-10T14:30:00Z", lines[1])
	assert.Equal(t, "PM UBATA,LICITACAO,,ANA,2024-05-10T16:00:00Z", lines[2])
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatText))

	out := buf.String()
	assert.Contains(t, out, "DEMANDAS CONCLUIDAS EM 10/05/2024 - ANA")
	assert.Contains(t, out, "PM ITAJUIPE")
	assert.Contains(t, out, "LICITACAO")
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = ParseFormat("TXT")
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}
