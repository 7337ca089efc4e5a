// Package csvstops parses delivery and pickup stop lists from CSV input.
//
// Expected columns: kind,name,x,y,capacity, where kind is "delivery" or
// "pickup". A header row is detected and skipped.
package csvstops

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pickupnav/internal/model"
)

// Parse reads stop rows and splits them into deliveries and pickups,
// preserving input order within each list.
func Parse(r io.Reader) (deliveries, pickups []model.StopIn, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv stops: line %d: %w", line+1, err)
		}
		line++
		if len(rec) != 5 {
			return nil, nil, fmt.Errorf("csv stops: line %d: want 5 columns, got %d", line, len(rec))
		}
		kind := strings.ToLower(strings.TrimSpace(rec[0]))
		if line == 1 && kind == "kind" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("csv stops: line %d: bad x %q", line, rec[2])
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("csv stops: line %d: bad y %q", line, rec[3])
		}
		capVal, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("csv stops: line %d: bad capacity %q", line, rec[4])
		}
		stop := model.StopIn{Name: strings.TrimSpace(rec[1]), X: x, Y: y, Capacity: capVal}
		switch kind {
		case "delivery":
			deliveries = append(deliveries, stop)
		case "pickup":
			pickups = append(pickups, stop)
		default:
			return nil, nil, fmt.Errorf("csv stops: line %d: unknown kind %q", line, rec[0])
		}
	}
	return deliveries, pickups, nil
}
