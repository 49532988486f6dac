package warnings

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/travigo/denmhazard/pkg/realtime"
)

// ExportCSV writes the records as CSV with a header row
func ExportCSV(out io.Writer, records []realtime.WarningRecord) error {
	if len(records) == 0 {
		records = []realtime.WarningRecord{}
	}

	return gocsv.Marshal(&records, out)
}
