package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

const sampleSettlement = `
Oppgjør fra Gi Gaven Videre AS

Oppgjør til: Test Bedrift AS
Periode: Januar 2024

Oversikt over gaver:

10 Røde Kors 5 000 kr,- 25%
8 Kirkens Bymisjon Oslo 4 000 kr,- 20%
6 Amnesty International 3 000 kr,- 15%
5 Helen Keller International 2 500 kr,- 12%
4 HivNorge 2 000 kr,- 10%
3 Adina Stiftelsen 1 500 kr,- 8%
2 Leger Uten Grenser 1 000 kr,- 5%
2 WWF 1 000 kr,- 5%

Kostnadsbidrag til Gi Gaven Videre 500 kr

Totalsum 20 500 kr

Takk for at dere bruker Gi Gaven Videre!
`

func TestNormalizeAmount(t *testing.T) {
	assert.Equal(t, 5000.50, NormalizeAmount("5 000,50"))
	assert.Equal(t, 1234567.0, NormalizeAmount("1.234.567"))
	assert.Equal(t, 500.0, NormalizeAmount(" 500 "))
	assert.Equal(t, 1234.5, NormalizeAmount("1,234,5"))
	assert.Equal(t, 20500.0, NormalizeAmount("20 500"))
	assert.True(t, math.IsNaN(NormalizeAmount("")))
	assert.True(t, math.IsNaN(NormalizeAmount(" ,. ")))
	assert.True(t, math.IsNaN(NormalizeAmount("12 kr")))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "5000", FormatAmount(5000))
	assert.Equal(t, "5000.5", FormatAmount(NormalizeAmount("5 000,50")))
	assert.Equal(t, "0.01", FormatAmount(0.01))
	assert.Equal(t, "NaN", FormatAmount(math.NaN()))
}

func TestComputeTotal(t *testing.T) {
	orgs := []dto.OrganizationEntry{
		{Name: "A", Amount: "1000.50"},
		{Name: "B", Amount: "2000.75"},
		{Name: "C", Amount: "NaN"},
	}

	assert.Equal(t, 3001.25, ComputeTotal(orgs))
	assert.Equal(t, 0.0, ComputeTotal(nil))
}

func TestExtractAll(t *testing.T) {
	text := "10 Røde Kors 5 000 kr,- 25%\nTotalsum 10 000 kr\n"

	result := ExtractAll(text)

	require.Len(t, result.Organizations, 1)
	org := result.Organizations[0]
	assert.Equal(t, "Røde Kors", org.Name)
	assert.Equal(t, "5000", org.Amount)
	require.NotNil(t, org.GiftCount)
	assert.Equal(t, 10, *org.GiftCount)
	require.NotNil(t, org.Percentage)
	assert.Equal(t, 25, *org.Percentage)
	assert.True(t, org.FromSource)

	require.NotNil(t, result.TotalSum)
	assert.Equal(t, 10000.0, *result.TotalSum)
	assert.Equal(t, 5000.0, result.ComputedTotal)
}

func TestExtractAllSampleSettlement(t *testing.T) {
	result := ExtractAll(sampleSettlement)

	require.Len(t, result.Organizations, 9)
	assert.Equal(t, "Røde Kors", result.Organizations[0].Name)
	assert.Equal(t, "Kirkens Bymisjon Oslo", result.Organizations[1].Name)
	assert.Equal(t, "4000", result.Organizations[1].Amount)
	assert.Equal(t, "WWF", result.Organizations[7].Name)

	cost := result.Organizations[8]
	assert.Equal(t, dto.CostContributionName, cost.Name)
	assert.Equal(t, "500", cost.Amount)
	assert.Nil(t, cost.GiftCount)
	assert.Nil(t, cost.Percentage)

	require.NotNil(t, result.TotalSum)
	assert.Equal(t, 20500.0, *result.TotalSum)
	assert.Equal(t, 20500.0, result.ComputedTotal)

	require.NotNil(t, result.RecipientName)
	assert.Equal(t, "Test Bedrift AS", *result.RecipientName)
}

func TestExtractAllIsDeterministic(t *testing.T) {
	assert.Equal(t, ExtractAll(sampleSettlement), ExtractAll(sampleSettlement))
}

func TestExtractAllEmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n\t "} {
		result := ExtractAll(text)
		assert.Empty(t, result.Organizations)
		assert.NotNil(t, result.Organizations)
		assert.Nil(t, result.TotalSum)
		assert.Nil(t, result.RecipientName)
		assert.Equal(t, 0.0, result.ComputedTotal)
	}
}

func TestExtractOrganizationsFlexibleSeparators(t *testing.T) {
	text := "1   Uinnløste til   Ung Kreft   500   kr ,-   100 %\n"

	orgs := ExtractOrganizations(text)

	require.Len(t, orgs, 1)
	assert.Equal(t, "Uinnløste til Ung Kreft", orgs[0].Name)
	assert.Equal(t, "500", orgs[0].Amount)
	assert.Equal(t, 1, *orgs[0].GiftCount)
	assert.Equal(t, 100, *orgs[0].Percentage)
}

func TestExtractOrganizationsNonBreakingThousands(t *testing.T) {
	text := "12 Redd Barna 12\u202f345,50\u00a0kr,- 40%\n"

	orgs := ExtractOrganizations(text)

	require.Len(t, orgs, 1)
	assert.Equal(t, "Redd Barna", orgs[0].Name)
	assert.Equal(t, "12345.5", orgs[0].Amount)
}

func TestExtractOrganizationsWrappedName(t *testing.T) {
	text := "4 HivNorge 2 000 kr,- 10%\nStiftelsen Kirkens\n3 \nBymisjon kr 1 500 -\n8 \n"

	orgs := ExtractOrganizations(text)

	require.Len(t, orgs, 2)
	assert.Equal(t, "HivNorge", orgs[0].Name)
	assert.Equal(t, "Stiftelsen Kirkens Bymisjon", orgs[1].Name)
	assert.Equal(t, "1500", orgs[1].Amount)
	assert.Nil(t, orgs[1].GiftCount)
	assert.Nil(t, orgs[1].Percentage)
}

func TestExtractCostContribution(t *testing.T) {
	orgs := ExtractOrganizations("Kostnadsbidrag til Gi Gaven Videre 500 kr")

	require.Len(t, orgs, 1)
	assert.Equal(t, "Kostnadsbidrag til Gi Gaven Videre", orgs[0].Name)
	assert.Equal(t, "500", orgs[0].Amount)
	assert.Nil(t, orgs[0].GiftCount)
	assert.Nil(t, orgs[0].Percentage)
}

func TestExtractCostContributionCaseInsensitive(t *testing.T) {
	orgs := ExtractOrganizations("KOSTNADSBIDRAG TIL GI GAVEN VIDERE 1 250,50 kr")

	require.Len(t, orgs, 1)
	assert.Equal(t, dto.CostContributionName, orgs[0].Name)
	assert.Equal(t, "1250.5", orgs[0].Amount)
}

func TestExtractCostContributionLineFallback(t *testing.T) {
	orgs := ExtractOrganizations("Kostnadsbidrag til Gi Gaven Videre (5 %): 750 kr\n")

	require.Len(t, orgs, 1)
	assert.Equal(t, dto.CostContributionName, orgs[0].Name)
	assert.Equal(t, "750", orgs[0].Amount)
}

func TestExtractTotalSum(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{"totalsum", "Some text\nTotalsum 10 000 kr\nMore text", ptr(10000)},
		{"kr before amount", "Some text\nTotal kr 5000\nMore text", ptr(5000)},
		{"decimal comma", "Totalsum: \nTOTAL 1 234,50 kr", ptr(1234.5)},
		{"last kroner line", "Røde Kors 300 kr\nsomething\nSum 1 300 kr\nTakk!", ptr(1300)},
		{"not found", "ingen beløp her", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTotalSum(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractRecipient(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"line", "Payment details\ntil: Test Company AS \nOther info", "Test Company AS"},
		{"reference suffix", "Oppgjør til: Bedrift AS Referanse: 12345\nx", "Bedrift AS"},
		{"org number label", "Oppgjør til: Bedrift AS Org.nr: 912345678\nx", "Bedrift AS"},
		{"bare org number", "Oppgjør til: Bedrift AS 912 345 678 Oslo\nx", "Bedrift AS"},
		{"capitalized words", "Oppgjør til: Åse Ødegård", "Åse Ødegård"},
		{"long line", "til: Veldig Lang Bedrift Med Mange Ord Som Fortsetter Videre Og Videre\n", "Veldig Lang Bedrift Med"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRecipient(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestExtractRecipientNotFound(t *testing.T) {
	assert.Nil(t, ExtractRecipient(""))
	assert.Nil(t, ExtractRecipient("Oppgjør uten mottaker\n"))
}

func TestExtractRecipientLabelOnly(t *testing.T) {
	assert.Nil(t, ExtractRecipient("Oppgjør til: Referanse: 12345\nTotalsum 500 kr\n"))
	assert.Nil(t, ExtractRecipient("Oppgjør til: Org.nr 912 345 678\n"))
}

func ptr(v float64) *float64 {
	return &v
}
