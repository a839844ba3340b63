package domain

// Block is a maximal contiguous run of non-break timeslots within one day.
// BlockID is assigned sequentially across the whole week in
// (day_index, block_start_period) order — see internal/blocks.
type Block struct {
	BlockID    int
	DayIndex   int
	TimeslotIDs []int
}
