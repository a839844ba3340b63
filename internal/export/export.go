// Package export renders a domain.SolveResult into the CSV grids and JSON
// document described by the external interface: a per-section grid, a
// per-faculty grid, a master grid covering every section at once, and
// availability grids for rooms and faculty.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/timetable/engine/internal/domain"
)

// dayInfo is one row of the rendered grid.
type dayInfo struct {
	DayIndex int
	DayName  string
}

func sortedDays(timeslots []domain.Timeslot) []dayInfo {
	seen := make(map[int]string)
	for _, t := range timeslots {
		seen[t.DayIndex] = t.DayName
	}
	out := make([]dayInfo, 0, len(seen))
	for idx, name := range seen {
		out = append(out, dayInfo{DayIndex: idx, DayName: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out
}

func periodsByDay(timeslots []domain.Timeslot) map[int][]int {
	byDay := make(map[int]map[int]struct{})
	for _, t := range timeslots {
		if byDay[t.DayIndex] == nil {
			byDay[t.DayIndex] = make(map[int]struct{})
		}
		byDay[t.DayIndex][t.PeriodIndex] = struct{}{}
	}
	out := make(map[int][]int, len(byDay))
	for day, periods := range byDay {
		list := make([]int, 0, len(periods))
		for p := range periods {
			list = append(list, p)
		}
		sort.Ints(list)
		out[day] = list
	}
	return out
}

func timeslotIndex(timeslots []domain.Timeslot) map[[2]int]domain.Timeslot {
	idx := make(map[[2]int]domain.Timeslot, len(timeslots))
	for _, t := range timeslots {
		idx[[2]int{t.DayIndex, t.PeriodIndex}] = t
	}
	return idx
}

func writeCSVGrid(w io.Writer, days []dayInfo, periodCols []int, rows map[string][]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, 0, len(periodCols)+1)
	header = append(header, "Day")
	for _, p := range periodCols {
		header = append(header, fmt.Sprintf("P%d", p))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, d := range days {
		row := rows[d.DayName]
		record := make([]string, 0, len(row)+1)
		record = append(record, d.DayName)
		record = append(record, row...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return cw.Error()
}

// sectionLabel mirrors the original exporter's cell format: "COURSE
// (FACULTY) [kind] @ROOM".
func sectionLabel(e domain.SectionEntry) string {
	label := e.CourseID
	if e.FacultyID != "" {
		label += fmt.Sprintf(" (%s)", e.FacultyID)
	}
	label += fmt.Sprintf(" [%s]", e.Kind)
	if e.RoomID != "" {
		label += " @" + e.RoomID
	}
	return label
}

func facultyLabel(e domain.FacultyEntry) string {
	label := fmt.Sprintf("%s (Sec %s) [%s]", e.CourseID, e.SectionID, e.Kind)
	if e.RoomID != "" {
		label += " @" + e.RoomID
	}
	return label
}

// SectionGrids renders one day x period grid per section.
func SectionGrids(result *domain.SolveResult) map[string][][]string {
	days := sortedDays(result.Timeslots)
	periods := periodsByDay(result.Timeslots)
	byDayPeriod := timeslotIndex(result.Timeslots)
	isBreak := make(map[int]bool, len(result.Timeslots))
	for _, t := range result.Timeslots {
		isBreak[t.TimeslotID] = t.IsBreak
	}

	grids := make(map[string][][]string, len(result.ScheduleBySection))
	for sectionID, byT := range result.ScheduleBySection {
		grids[sectionID] = renderGrid(days, periods, byDayPeriod, func(tid int) string {
			if entry, ok := byT[tid]; ok {
				return sectionLabel(entry)
			}
			if isBreak[tid] {
				return "BREAK"
			}
			return ""
		})
	}
	return grids
}

// FacultyGrids renders one day x period grid per faculty member.
func FacultyGrids(result *domain.SolveResult) map[string][][]string {
	days := sortedDays(result.Timeslots)
	periods := periodsByDay(result.Timeslots)
	byDayPeriod := timeslotIndex(result.Timeslots)
	isBreak := make(map[int]bool, len(result.Timeslots))
	for _, t := range result.Timeslots {
		isBreak[t.TimeslotID] = t.IsBreak
	}

	grids := make(map[string][][]string, len(result.ScheduleByFaculty))
	for facultyID, byT := range result.ScheduleByFaculty {
		grids[facultyID] = renderGrid(days, periods, byDayPeriod, func(tid int) string {
			if entry, ok := byT[tid]; ok {
				return facultyLabel(entry)
			}
			if isBreak[tid] {
				return "BREAK"
			}
			return ""
		})
	}
	return grids
}

// renderGrid produces [day][period] string cells using the per-day period
// set, widening ragged days with empty trailing cells (the original days
// may not all share the same period count).
func renderGrid(days []dayInfo, periods map[int][]int, byDayPeriod map[[2]int]domain.Timeslot, cellFor func(tid int) string) [][]string {
	maxCols := 0
	for _, list := range periods {
		if len(list) > maxCols {
			maxCols = len(list)
		}
	}

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		row := make([]string, maxCols)
		for i, p := range periods[d.DayIndex] {
			t, ok := byDayPeriod[[2]int{d.DayIndex, p}]
			if !ok {
				continue
			}
			row[i] = cellFor(t.TimeslotID)
		}
		rows = append(rows, row)
	}
	return rows
}

// MasterGrid renders a single grid covering every section's occupancy at
// once, cells listing "section:course" pairs comma-joined.
func MasterGrid(result *domain.SolveResult) [][]string {
	days := sortedDays(result.Timeslots)
	allPeriods := make(map[int]struct{})
	for _, t := range result.Timeslots {
		allPeriods[t.PeriodIndex] = struct{}{}
	}
	periodList := make([]int, 0, len(allPeriods))
	for p := range allPeriods {
		periodList = append(periodList, p)
	}
	sort.Ints(periodList)

	byDayPeriod := timeslotIndex(result.Timeslots)
	isBreak := make(map[int]bool, len(result.Timeslots))
	for _, t := range result.Timeslots {
		isBreak[t.TimeslotID] = t.IsBreak
	}

	sectionIDs := make([]string, 0, len(result.ScheduleBySection))
	for s := range result.ScheduleBySection {
		sectionIDs = append(sectionIDs, s)
	}
	sort.Strings(sectionIDs)

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		row := make([]string, 0, len(periodList))
		for _, p := range periodList {
			t, ok := byDayPeriod[[2]int{d.DayIndex, p}]
			if !ok {
				row = append(row, "N/A")
				continue
			}
			if isBreak[t.TimeslotID] {
				row = append(row, "BREAK")
				continue
			}
			var parts []string
			for _, sectionID := range sectionIDs {
				if entry, ok := result.ScheduleBySection[sectionID][t.TimeslotID]; ok {
					parts = append(parts, fmt.Sprintf("%s:%s", sectionID, entry.CourseID))
				}
			}
			cell := ""
			for i, p := range parts {
				if i > 0 {
					cell += ", "
				}
				cell += p
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// AvailabilityGrid renders either the room or faculty availability map as a
// day x period grid of comma-joined resource ids.
func AvailabilityGrid(result *domain.SolveResult, faculty bool) [][]string {
	days := sortedDays(result.Timeslots)
	periods := periodsByDay(result.Timeslots)
	byDayPeriod := timeslotIndex(result.Timeslots)
	isBreak := make(map[int]bool, len(result.Timeslots))
	for _, t := range result.Timeslots {
		isBreak[t.TimeslotID] = t.IsBreak
	}

	availability := result.AvailableRooms
	if faculty {
		availability = result.AvailableFaculty
	}

	return renderGrid(days, periods, byDayPeriod, func(tid int) string {
		if isBreak[tid] {
			return "BREAK"
		}
		ids := availability[tid]
		if len(ids) == 0 {
			return "(all occupied)"
		}
		cell := ""
		for i, id := range ids {
			if i > 0 {
				cell += ", "
			}
			cell += id
		}
		return cell
	})
}

// WriteAll writes every grid the external interface names into outputDir:
// per-section CSVs under sections/, per-faculty CSVs under faculty/, a
// master_timetable.csv, available_faculty.csv, and available_rooms.csv when
// rooms were modeled.
func WriteAll(result *domain.SolveResult, outputDir string) error {
	sectionsDir := filepath.Join(outputDir, "sections")
	facultyDir := filepath.Join(outputDir, "faculty")
	for _, dir := range []string{outputDir, sectionsDir, facultyDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	days := sortedDays(result.Timeslots)
	periods := periodsByDay(result.Timeslots)
	maxCols := 0
	for _, list := range periods {
		if len(list) > maxCols {
			maxCols = len(list)
		}
	}
	periodCols := make([]int, maxCols)
	for i := range periodCols {
		periodCols[i] = i + 1
	}

	for sectionID, grid := range SectionGrids(result) {
		if err := writeGridFile(filepath.Join(sectionsDir, fmt.Sprintf("section_%s.csv", sectionID)), days, periodCols, grid); err != nil {
			return err
		}
	}
	for facultyID, grid := range FacultyGrids(result) {
		if err := writeGridFile(filepath.Join(facultyDir, fmt.Sprintf("faculty_%s.csv", facultyID)), days, periodCols, grid); err != nil {
			return err
		}
	}

	masterPeriods := make(map[int]struct{})
	for _, t := range result.Timeslots {
		masterPeriods[t.PeriodIndex] = struct{}{}
	}
	masterCols := make([]int, 0, len(masterPeriods))
	for p := range masterPeriods {
		masterCols = append(masterCols, p)
	}
	sort.Ints(masterCols)
	if err := writeGridFile(filepath.Join(outputDir, "master_timetable.csv"), days, masterCols, MasterGrid(result)); err != nil {
		return err
	}

	if result.AvailableRooms != nil {
		if err := writeGridFile(filepath.Join(outputDir, "available_rooms.csv"), days, periodCols, AvailabilityGrid(result, false)); err != nil {
			return err
		}
	}
	if err := writeGridFile(filepath.Join(outputDir, "available_faculty.csv"), days, periodCols, AvailabilityGrid(result, true)); err != nil {
		return err
	}

	return nil
}

func writeGridFile(path string, days []dayInfo, periodCols []int, grid [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rowsByDay := make(map[string][]string, len(days))
	for i, d := range days {
		if i < len(grid) {
			rowsByDay[d.DayName] = grid[i]
		}
	}
	return writeCSVGrid(f, days, periodCols, rowsByDay)
}

// ToJSON serializes a SolveResult to its JSON document form.
func ToJSON(result *domain.SolveResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
