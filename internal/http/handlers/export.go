package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
)

// writeCSV streams a CSV attachment. fill pushes one row at a time so
// handlers never build the full [][]string in memory.
func writeCSV(w http.ResponseWriter, filename string, header []string, fill func(push func([]string))) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=%s", filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		log.Printf("failed to write csv header: %v", err)
		return
	}
	fill(func(row []string) {
		if err := cw.Write(row); err != nil {
			log.Printf("failed to write csv row: %v", err)
		}
	})
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("failed to flush csv: %v", err)
	}
}
