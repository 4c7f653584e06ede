package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/submm-lab/specsens/internal/sensitivity"
	"github.com/submm-lab/specsens/internal/storage"
)

// printTable writes a human-readable summary of the key figures of merit,
// one line per sweep element. The full column set goes to CSV or SQLite.
func printTable(w io.Writer, table sensitivity.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "F\teta_atm\tW_F_spec\tNEPinst\tNEFD_line\tNEFD_cont\tMDLF\tTrx")
	for _, row := range table {
		fmt.Fprintf(tw, "%s\t%.4f\t%s\t%.3e\t%.3e\t%.3e\t%.3e\t%.1f K\n",
			humanize.SIWithDigits(row.F, 2, "Hz"),
			row.EtaAtm,
			humanize.SIWithDigits(row.WFSpec, 2, "Hz"),
			row.NEPInst,
			row.NEFDLine,
			row.NEFDContinuum,
			row.MDLF,
			row.EquivalentTrx,
		)
	}

	return tw.Flush()
}

func printSessions(w io.Writer, sessions []*storage.Session) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tstart time\tinstrument")
	for _, sess := range sessions {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", sess.ID, sess.StartTime.Local().Format(time.DateTime), sess.Instrument)
	}

	return tw.Flush()
}

// writeCSV exports every result column, in canonical order, one row per
// sweep element.
func writeCSV(path string, table sensitivity.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithError(f, &err)

	cw := csv.NewWriter(f)
	if err = cw.Write(sensitivity.Columns); err != nil {
		return err
	}

	record := make([]string, len(sensitivity.Columns))
	for _, row := range table {
		for i, v := range row.Values() {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err = cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
