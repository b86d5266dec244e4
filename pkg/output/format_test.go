package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/pkg/loans"
	"github.com/Mapharazzo/mortgauge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProject(t *testing.T, p projection.Parameters) *projection.Projection {
	t.Helper()
	result, err := projection.GetProjection(nil, p)
	require.NoError(t, err)
	return result
}

func TestGetFormatter(t *testing.T) {
	tests := []struct {
		name      string
		expectErr bool
	}{
		{"pretty", false},
		{"csv", false},
		{"json", false},
		{"pdf", false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := GetFormatter(tt.name, Options{})
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, f.Name())
		})
	}
}

func TestPrettyFormat(t *testing.T) {
	result := mustProject(t, testutil.BaseParameters())

	data, err := PrettyFormatter{}.Format(result)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "--- Rent vs buy projection over 300 months ---")
	assert.Contains(t, out, "Monthly payment: £3,070.44")
	assert.Contains(t, out, "Remaining Balance")
	assert.NotContains(t, out, "Rent vs Buy", "base variant has no optional columns")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title, payment, blank, header, separator, 25 yearly rows
	assert.Len(t, lines, 30)
}

func TestPrettyFormatExtendedAndScaled(t *testing.T) {
	p := testutil.BaseParameters()
	p.InvestmentReturnRate = projection.Float(7)
	p.HouseAppreciationRate = projection.Float(0.5)
	result := mustProject(t, p)

	data, err := PrettyFormatter{Options: Options{Scale: 1000}}.Format(result)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "Investment")
	assert.Contains(t, out, "Rent vs Buy")
	assert.Contains(t, out, "Amounts in units of 1000")
}

func TestCSVFormat(t *testing.T) {
	result := mustProject(t, testutil.BaseParameters())

	data, err := CSVFormatter{}.Format(result)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 301)

	header := records[0]
	assert.Equal(t, "month", header[0])
	assert.Equal(t, "remainingBalance", header[6])
	assert.Equal(t, "sellingNetDifference", header[len(header)-1])

	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "600000.00", first[1])
	assert.Equal(t, "3070.44", first[4])
	assert.Equal(t, "499221.23", first[6])
	assert.Equal(t, "74894.35", first[12])
	assert.Equal(t, "", first[len(first)-1], "absent optional metrics are blank")
}

func TestJSONFormat(t *testing.T) {
	result := mustProject(t, testutil.BaseParameters())

	data, err := JSONFormatter{}.Format(result)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 300)
	assert.Equal(t, float64(1), decoded[0]["month"])
	assert.InDelta(t, 499221.23, decoded[0]["remainingBalance"], 0.01)
	assert.Nil(t, decoded[0]["rentVsBuyDifference"])
}

func TestJSONFormatNonFinite(t *testing.T) {
	p := testutil.BaseParameters()
	p.AnnualInterestRate = 1e6
	result := mustProject(t, p)
	require.True(t, result.NonFinite)

	data, err := JSONFormatter{}.Format(result)
	require.NoError(t, err, "non-finite values must not break encoding")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 300)
	assert.Nil(t, decoded[0]["monthlyPayment"])
	assert.Equal(t, float64(600000), decoded[0]["propertyPrice"])
}

func TestJSONSnapshot(t *testing.T) {
	result := mustProject(t, testutil.BaseParameters())
	_, err := json.Marshal(JSONSnapshot(result.Snapshots[0]))
	require.NoError(t, err)

	p := testutil.BaseParameters()
	p.AnnualInterestRate = 1e6
	overflowed := mustProject(t, p)
	_, err = json.Marshal(JSONSnapshot(overflowed.Snapshots[0]))
	require.NoError(t, err)
}

func TestYearReport(t *testing.T) {
	result := mustProject(t, testutil.BaseParameters())

	data, err := YearReport(result, 1, Options{})
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "Year 1 Details:")
	assert.Contains(t, out, "Property Price: £600,000.00")
	assert.Contains(t, out, "Annual Interest Rate: 5.5%")
	assert.Contains(t, out, "Remaining Balance (at Year 1): £499,221.23")
	assert.NotContains(t, out, "Investment Account Value")

	scaled, err := YearReport(result, 1, Options{Scale: 1000})
	require.NoError(t, err)
	assert.Contains(t, string(scaled), "Property Price: £600.00")

	_, err = YearReport(result, 26, Options{})
	assert.ErrorIs(t, err, projection.ErrYearOutOfRange)
}

func TestYearReportExtended(t *testing.T) {
	p := testutil.BaseParameters()
	p.InvestmentReturnRate = projection.Float(7)
	result := mustProject(t, p)

	lines, err := YearReportLines(result, 15, Options{})
	require.NoError(t, err)

	labels := make([]string, len(lines))
	for i, line := range lines {
		labels[i] = line.Label
	}
	assert.Contains(t, labels, "Investment Account Value")
	assert.Contains(t, labels, "Rent vs Buy Difference")
	assert.Contains(t, labels, "Selling Net Difference")
}

func TestPDFFormat(t *testing.T) {
	result := mustProject(t, testutil.BaseParameters())

	data, err := PDFFormatter{Options: Options{Year: 15}}.Format(result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	_, err = PDFFormatter{Options: Options{Year: 40}}.Format(result)
	assert.ErrorIs(t, err, projection.ErrYearOutOfRange)
}

func TestFormatSchedule(t *testing.T) {
	schedule, err := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(500000, 5.5, 12)
	require.NoError(t, err)

	csvData, err := FormatSchedule(schedule, "csv")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(csvData))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 13)
	assert.Equal(t, []string{"period", "payment", "principal", "interest", "remainingPrincipal"}, records[0])

	pretty, err := FormatSchedule(schedule, "pretty")
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "Interest")

	jsonData, err := FormatSchedule(schedule, "json")
	require.NoError(t, err)
	var decoded []loans.Payment
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Len(t, decoded, 12)

	_, err = FormatSchedule(schedule, "pdf")
	assert.Error(t, err)
}

func TestJSONScheduleNonFinite(t *testing.T) {
	schedule, err := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(500000, 1e6, 300)
	require.NoError(t, err)

	view, nonFinite := JSONSchedule(schedule)
	assert.True(t, nonFinite)

	jsonData, err := FormatSchedule(schedule, "json")
	require.NoError(t, err)
	var decoded []map[string]*float64
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	require.Len(t, decoded, 300)
	assert.Nil(t, decoded[0]["payment"])
	require.NotNil(t, decoded[299]["period"])
	assert.Equal(t, 300.0, *decoded[299]["period"])
	assert.Len(t, view, 300)

	finite, err := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(500000, 5.5, 12)
	require.NoError(t, err)
	view, nonFinite = JSONSchedule(finite)
	assert.False(t, nonFinite)
	assert.Equal(t, finite, view)
}
