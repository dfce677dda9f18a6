// seed_roster.go is a standalone script that loads a class roster CSV into a section via the Huddle API.
//
// The CSV has a header row and the columns name,coding,design,writing,presenting.
//
// Usage:
//
//	go run scripts/seed_roster.go -csv class.csv -section <uuid> -api http://localhost:8700 -teacher t-1
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

type studentRow struct {
	Name       string `json:"name"`
	Coding     int    `json:"coding"`
	Design     int    `json:"design"`
	Writing    int    `json:"writing"`
	Presenting int    `json:"presenting"`
}

var columns = []string{"name", "coding", "design", "writing", "presenting"}

func main() {
	csvPath := flag.String("csv", "roster.csv", "path to roster CSV")
	sectionID := flag.String("section", "", "target section id")
	apiURL := flag.String("api", "http://localhost:8700", "Huddle API base URL")
	teacherID := flag.String("teacher", "", "X-Teacher-ID header value")
	dryRun := flag.Bool("dry-run", false, "print rows without posting")
	flag.Parse()

	if !*dryRun && (*sectionID == "" || *teacherID == "") {
		log.Fatal("-section and -teacher are required")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open roster: %v", err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		log.Fatalf("read roster: %v", err)
	}
	log.Printf("parsed %d students from %s", len(rows), *csvPath)

	if *dryRun {
		for i, r := range rows {
			fmt.Printf("[%d] %s (C%d D%d W%d P%d)\n", i+1, r.Name, r.Coding, r.Design, r.Writing, r.Presenting)
		}
		return
	}

	endpoint := strings.TrimRight(*apiURL, "/") + "/api/v1/sections/" + *sectionID + "/students"
	client := &http.Client{}
	created, skipped := 0, 0
	for _, row := range rows {
		body, _ := json.Marshal(row)
		req, err := http.NewRequest("POST", endpoint, bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", row.Name, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Teacher-ID", *teacherID)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", row.Name, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d", row.Name, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

func readRows(r io.Reader) ([]studentRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("header: missing column %q", c)
		}
	}

	var rows []studentRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := studentRow{Name: strings.TrimSpace(rec[idx["name"]])}
		ratings := []*int{&row.Coding, &row.Design, &row.Writing, &row.Presenting}
		for i, c := range columns[1:] {
			v, err := strconv.Atoi(strings.TrimSpace(rec[idx[c]]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, c, err)
			}
			*ratings[i] = v
		}
		rows = append(rows, row)
	}
}
