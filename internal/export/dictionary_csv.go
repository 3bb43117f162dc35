package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"course-synergy/internal/dictionary"
)

var dictionaryHeader = []string{"TITLE_A", "TITLE_B", "SHARED_TAGS", "SCORE"}

// WriteDictionaryCSV writes the audit dictionary. Orphan rows leave the
// missing title and SCORE empty and list the orphan's own tags.
func WriteDictionaryCSV(w io.Writer, rows []dictionary.Row) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(dictionaryHeader); err != nil {
		return err
	}
	for _, r := range rows {
		score := ""
		if r.Paired() {
			score = strconv.Itoa(r.Score)
		}
		if err := cw.Write([]string{r.TitleA, r.TitleB, strings.Join(r.Tags, " | "), score}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
