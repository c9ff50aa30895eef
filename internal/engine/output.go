package engine

import (
	"fmt"
	"sort"
	"strconv"
)

// Annotation columns appended to the output tables. Input columns are never
// renamed or reordered.
const (
	ColumnStatus     = "_status"
	ColumnNote       = "_note"
	ColumnGroup      = "_group"
	ColumnMergedInto = "_merged_into"
)

// Master row statuses.
const (
	StatusClean  = "clean"
	StatusMerged = "merged"
	StatusReview = "review"
)

// ClusterReport explains one cluster's grouping and decision for audit and
// UI display. Members are original row indices.
type ClusterReport struct {
	Group       string       `json:"group"`
	Decision    string       `json:"decision"`
	Members     []int        `json:"members"`
	Basis       []MatchBasis `json:"basis,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	SurvivorRow int          `json:"survivor_row"`
	RemovedRows []int        `json:"removed_rows,omitempty"`
}

// Decision labels used in cluster reports.
const (
	DecisionAutoMerge = "auto_merge"
	DecisionFlagged   = "flagged"
	DecisionSingleton = "singleton"
)

// Result is the complete output of one deduplication run.
type Result struct {
	// Columns are the input columns as declared.
	Columns []string

	// Master holds one row per auto-merged or singleton cluster plus every
	// member of flagged clusters, ordered by the smallest original row
	// index in each cluster.
	Master Table

	// ToDelete holds the non-survivor members of auto-merged clusters,
	// ordered by original row index, each annotated with the survivor row
	// it was merged into.
	ToDelete Table

	// Clusters reports every cluster in the partition, singletons included.
	Clusters []ClusterReport

	// Warnings lists skipped malformed rows.
	Warnings []RowWarning

	// Run summary counts.
	TotalRows    int
	CleanCount   int
	MergedCount  int // rows removed by auto-merge
	FlaggedCount int // flagged groups needing review
}

// assemble turns per-cluster decisions into the two output tables and the
// cluster reports. clusters arrive ordered by smallest member, which gives
// the Master table its ordering for free.
func assemble(t Table, records []Record, clusters []cluster, decisions []Decision, warnings []RowWarning) *Result {
	res := &Result{
		Columns:  append([]string(nil), t.Columns...),
		Master:   Table{Columns: append(append([]string(nil), t.Columns...), ColumnStatus, ColumnNote, ColumnGroup)},
		ToDelete: Table{Columns: append(append([]string(nil), t.Columns...), ColumnMergedInto)},
		Warnings: warnings,

		TotalRows: len(t.Rows),
	}

	var toDelete []Record
	for i, d := range decisions {
		group := fmt.Sprintf("g%d", i+1)
		report := ClusterReport{
			Group:       group,
			Members:     originalIndices(clusters[i].members, records),
			Basis:       clusters[i].bases(),
			SurvivorRow: -1,
		}

		switch dec := d.(type) {
		case Singleton:
			r := records[dec.Pos].clone()
			annotate(&r, StatusClean, "", "")
			res.Master.Rows = append(res.Master.Rows, r)
			res.CleanCount++

			report.Decision = DecisionSingleton
			report.SurvivorRow = records[dec.Pos].Index

		case AutoMerge:
			r := dec.Survivor.clone()
			annotate(&r, StatusMerged, fmt.Sprintf("merged %d duplicate(s)", len(dec.Removed)), group)
			res.Master.Rows = append(res.Master.Rows, r)

			survivorRow := records[dec.SurvivorPos].Index
			for _, pos := range dec.Removed {
				del := records[pos].clone()
				del.Values[ColumnMergedInto] = strconv.Itoa(survivorRow)
				toDelete = append(toDelete, del)
			}
			res.MergedCount += len(dec.Removed)

			report.Decision = DecisionAutoMerge
			report.Reason = dec.Reason
			report.SurvivorRow = survivorRow
			report.RemovedRows = originalIndices(dec.Removed, records)

		case Flagged:
			for _, pos := range dec.Members {
				r := records[pos].clone()
				annotate(&r, StatusReview, dec.Reason, group)
				res.Master.Rows = append(res.Master.Rows, r)
			}
			res.FlaggedCount++

			report.Decision = DecisionFlagged
			report.Reason = dec.Reason
		}

		res.Clusters = append(res.Clusters, report)
	}

	sort.Slice(toDelete, func(i, j int) bool { return toDelete[i].Index < toDelete[j].Index })
	res.ToDelete.Rows = toDelete

	return res
}

// Counts exposes run summary counters for the metrics layer.
func (r *Result) Counts() (rows, merged, flagged, warnings int) {
	return r.TotalRows, r.MergedCount, r.FlaggedCount, len(r.Warnings)
}

func annotate(r *Record, status, note, group string) {
	r.Values[ColumnStatus] = status
	r.Values[ColumnNote] = note
	r.Values[ColumnGroup] = group
}

func originalIndices(positions []int, records []Record) []int {
	out := make([]int, 0, len(positions))
	for _, pos := range positions {
		out = append(out, records[pos].Index)
	}
	sort.Ints(out)
	return out
}
