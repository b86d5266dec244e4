package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/loans"
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatSchedule renders an amortization schedule. PDF is not offered for
// schedules.
func FormatSchedule(schedule []loans.Payment, outputFormat string) ([]byte, error) {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return ScheduleCSV(schedule)
	case constants.OutputFormatJSON:
		payments, _ := JSONSchedule(schedule)
		data, err := json.MarshalIndent(payments, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode schedule: %w", err)
		}
		return append(data, '\n'), nil
	case constants.OutputFormatPretty:
		return schedulePretty(schedule), nil
	}
	return nil, fmt.Errorf("output format %q is not available for schedules", outputFormat)
}

// JSONSchedule returns a JSON-encodable view of the schedule. When any figure
// is NaN or infinite, every non-finite figure becomes null and the second
// result is true.
func JSONSchedule(schedule []loans.Payment) (any, bool) {
	nonFinite := false
	for _, payment := range schedule {
		if !paymentFinite(payment) {
			nonFinite = true
			break
		}
	}
	if !nonFinite {
		return schedule, false
	}

	rows := make([]map[string]*float64, 0, len(schedule))
	for _, payment := range schedule {
		period := float64(payment.Period)
		rows = append(rows, map[string]*float64{
			"period":             &period,
			"payment":            Nullable(payment.Payment),
			"principal":          Nullable(payment.Principal),
			"interest":           Nullable(payment.Interest),
			"remainingPrincipal": Nullable(payment.RemainingPrincipal),
		})
	}
	return rows, true
}

func paymentFinite(p loans.Payment) bool {
	return mathutil.IsFinite(p.Payment) && mathutil.IsFinite(p.Principal) &&
		mathutil.IsFinite(p.Interest) && mathutil.IsFinite(p.RemainingPrincipal)
}

func schedulePretty(schedule []loans.Payment) []byte {
	p := message.NewPrinter(language.English)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%6s | %12s | %12s | %12s | %14s\n", "Period", "Payment", "Principal", "Interest", "Balance")
	fmt.Fprintf(&buf, "%6s | %12s | %12s | %12s | %14s\n", "______", "____________", "____________", "____________", "______________")
	for _, payment := range schedule {
		fmt.Fprintf(&buf, "%6d | %12s | %12s | %12s | %14s\n",
			payment.Period,
			p.Sprintf("%.2f", payment.Payment),
			p.Sprintf("%.2f", payment.Principal),
			p.Sprintf("%.2f", payment.Interest),
			p.Sprintf("%.2f", payment.RemainingPrincipal),
		)
	}
	return buf.Bytes()
}
