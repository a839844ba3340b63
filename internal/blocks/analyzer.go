// Package blocks partitions each day's timeslots into maximal contiguous
// runs of non-break periods, and precomputes the two derived structures the
// rest of the solver needs per block size: valid lab-start positions and
// the timeslot->covering-starts lookup.
package blocks

import (
	"sort"

	"github.com/timetable/engine/internal/domain"
)

// Analyze partitions timeslots into blocks. Breaks terminate and separate
// blocks; block_id is assigned sequentially across days in
// (day_index, block_start_period) order.
func Analyze(timeslots []domain.Timeslot) []domain.Block {
	byDay := groupByDay(timeslots)

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	var out []domain.Block
	blockID := 0
	for _, d := range days {
		slots := byDay[d]
		sort.Slice(slots, func(i, j int) bool { return slots[i].PeriodIndex < slots[j].PeriodIndex })

		var current []int
		for _, t := range slots {
			if t.IsBreak {
				if len(current) > 0 {
					out = append(out, domain.Block{BlockID: blockID, DayIndex: d, TimeslotIDs: current})
					blockID++
					current = nil
				}
				continue
			}
			current = append(current, t.TimeslotID)
		}
		if len(current) > 0 {
			out = append(out, domain.Block{BlockID: blockID, DayIndex: d, TimeslotIDs: current})
			blockID++
		}
	}
	return out
}

// TimeslotToBlock indexes blocks by the timeslot ids they contain.
func TimeslotToBlock(blocks []domain.Block) map[int]int {
	m := make(map[int]int)
	for _, b := range blocks {
		for _, tid := range b.TimeslotIDs {
			m[tid] = b.BlockID
		}
	}
	return m
}

// ValidStarts returns, per day, the non-break timeslot ids from which a lab
// of the given block size fits entirely within one block (i.e. the
// blockSize consecutive periods starting there are all non-break, on the
// same day).
func ValidStarts(timeslots []domain.Timeslot, blockSize int) map[int][]int {
	byDay := groupByDay(timeslots)
	out := make(map[int][]int)
	if blockSize <= 0 {
		return out
	}
	for d, slots := range byDay {
		sort.Slice(slots, func(i, j int) bool { return slots[i].PeriodIndex < slots[j].PeriodIndex })
		n := len(slots)
		for i := 0; i+blockSize <= n; i++ {
			window := slots[i : i+blockSize]
			ok := true
			for _, s := range window {
				if s.IsBreak {
					ok = false
					break
				}
			}
			if ok {
				out[d] = append(out[d], window[0].TimeslotID)
			}
		}
	}
	return out
}

// AllValidStarts flattens ValidStarts across all days.
func AllValidStarts(timeslots []domain.Timeslot, blockSize int) []int {
	byDay := ValidStarts(timeslots, blockSize)
	var out []int
	for _, ids := range byDay {
		out = append(out, ids...)
	}
	sort.Ints(out)
	return out
}

// Coverage builds the timeslot_id -> [start_ids] lookup for a block size:
// the set of valid lab-start timeslots whose occupied span includes a given
// timeslot. Materialized once per block size — callers must not recompute
// this inside a constraint loop.
func Coverage(timeslots []domain.Timeslot, blockSize int) map[int][]int {
	dayPeriodToID := make(map[[2]int]int, len(timeslots))
	byID := make(map[int]domain.Timeslot, len(timeslots))
	for _, t := range timeslots {
		dayPeriodToID[[2]int{t.DayIndex, t.PeriodIndex}] = t.TimeslotID
		byID[t.TimeslotID] = t
	}

	cover := make(map[int][]int)
	for _, start := range AllValidStarts(timeslots, blockSize) {
		s := byID[start]
		for k := 0; k < blockSize; k++ {
			if tid, ok := dayPeriodToID[[2]int{s.DayIndex, s.PeriodIndex + k}]; ok {
				cover[tid] = append(cover[tid], start)
			}
		}
	}
	return cover
}

func groupByDay(timeslots []domain.Timeslot) map[int][]domain.Timeslot {
	byDay := make(map[int][]domain.Timeslot)
	for _, t := range timeslots {
		byDay[t.DayIndex] = append(byDay[t.DayIndex], t)
	}
	return byDay
}
